package service

import (
	"context"
	"encoding/json"
	"time"

	"proctoflex-be/internal/dto"
	"proctoflex-be/internal/model"
	"proctoflex-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IExamService interface {
	Create(ctx context.Context, instructorID uuid.UUID, req *dto.CreateExamRequest) (*dto.ExamResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.ExamResponse, error)
	GetAll(ctx context.Context, limit, offset int) ([]dto.ExamResponse, int64, error)
	GetForStudent(ctx context.Context, studentID uuid.UUID) ([]dto.ExamResponse, error)
	Deactivate(ctx context.Context, id uint) error
}

type examService struct {
	examRepo contract.ExamRepository
}

func NewExamService(examRepo contract.ExamRepository) IExamService {
	return &examService{examRepo: examRepo}
}

func (s *examService) Create(ctx context.Context, instructorID uuid.UUID, req *dto.CreateExamRequest) (*dto.ExamResponse, error) {
	now := time.Now().UTC()
	start := now
	if req.StartTime != nil {
		start = *req.StartTime
	}
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)
	if req.EndTime != nil {
		end = *req.EndTime
	}

	exam := &model.Exam{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		StartTime:       start,
		EndTime:         end,
		StudentID:       req.StudentID,
		InstructorID:    &instructorID,
		AllowedApps:     toJSONList(req.AllowedApps),
		AllowedDomains:  toJSONList(req.AllowedDomains),
		IsActive:        true,
	}
	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, err
	}
	resp := toExamResponse(exam)
	return &resp, nil
}

func (s *examService) GetByID(ctx context.Context, id uint) (*dto.ExamResponse, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, ErrExamNotFound
	}
	resp := toExamResponse(exam)
	return &resp, nil
}

func (s *examService) GetAll(ctx context.Context, limit, offset int) ([]dto.ExamResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	exams, total, err := s.examRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return toExamResponses(exams), total, nil
}

func (s *examService) GetForStudent(ctx context.Context, studentID uuid.UUID) ([]dto.ExamResponse, error) {
	exams, err := s.examRepo.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return toExamResponses(exams), nil
}

func (s *examService) Deactivate(ctx context.Context, id uint) error {
	return s.examRepo.Deactivate(ctx, id)
}

func toJSONList(items []string) datatypes.JSON {
	if len(items) == 0 {
		return nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func fromJSONList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func toExamResponse(exam *model.Exam) dto.ExamResponse {
	resp := dto.ExamResponse{
		Id:              exam.ID,
		Title:           exam.Title,
		Description:     exam.Description,
		DurationMinutes: exam.DurationMinutes,
		StudentID:       exam.StudentID,
		InstructorID:    exam.InstructorID,
		AllowedApps:     fromJSONList(exam.AllowedApps),
		AllowedDomains:  fromJSONList(exam.AllowedDomains),
		IsActive:        exam.IsActive,
	}
	if !exam.StartTime.IsZero() {
		start := exam.StartTime
		resp.StartTime = &start
	}
	if !exam.EndTime.IsZero() {
		end := exam.EndTime
		resp.EndTime = &end
	}
	return resp
}

func toExamResponses(exams []model.Exam) []dto.ExamResponse {
	out := make([]dto.ExamResponse, 0, len(exams))
	for i := range exams {
		out = append(out, toExamResponse(&exams[i]))
	}
	return out
}
