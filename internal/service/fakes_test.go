package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"proctoflex-be/internal/model"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// fakeAlertRepo mimics the identity-column behavior: it alone assigns ids,
// monotonically, under a lock.
type fakeAlertRepo struct {
	mu     sync.Mutex
	nextID uint
	alerts []model.SecurityAlert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{nextID: 1}
}

func (r *fakeAlertRepo) Create(_ context.Context, alert *model.SecurityAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert.ID = r.nextID
	r.nextID++
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	r.alerts = append(r.alerts, *alert)
	return nil
}

func (r *fakeAlertRepo) GetByID(_ context.Context, id uint) (*model.SecurityAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == id {
			a := r.alerts[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (r *fakeAlertRepo) GetBySession(_ context.Context, sessionID uint) ([]model.SecurityAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SecurityAlert
	for _, a := range r.alerts {
		if a.SessionID != nil && *a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAlertRepo) GetRecent(_ context.Context, limit int) ([]model.SecurityAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]model.SecurityAlert(nil), r.alerts...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAlertRepo) GetRecentForStudent(_ context.Context, _ uuid.UUID, limit int) ([]model.SecurityAlert, error) {
	return r.GetRecent(context.Background(), limit)
}

func (r *fakeAlertRepo) Resolve(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == id {
			r.alerts[i].Resolved = true
			return nil
		}
	}
	return ErrAlertNotFound
}

func (r *fakeAlertRepo) CountUnresolved(_ context.Context, severities []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.alerts {
		if a.Resolved {
			continue
		}
		for _, s := range severities {
			if a.Severity == s {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *fakeAlertRepo) CountUnresolvedForStudent(ctx context.Context, _ uuid.UUID, severities []string) (int64, error) {
	return r.CountUnresolved(ctx, severities)
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	nextID   uint
	sessions map[uint]*model.ExamSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{nextID: 1, sessions: make(map[uint]*model.ExamSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *model.ExamSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = r.nextID
	r.nextID++
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id uint) (*model.ExamSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) UpdateStatus(_ context.Context, id uint, from, to string, endedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	s.EndedAt = &endedAt
	return true, nil
}

func (r *fakeSessionRepo) UpdateMedia(_ context.Context, id uint, videoPath, audioPath string, screenCaptures []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.VideoPath = videoPath
		s.AudioPath = audioPath
		s.ScreenCaptures = screenCaptures
	}
	return nil
}

func (r *fakeSessionRepo) GetActive(_ context.Context) ([]model.ExamSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ExamSession
	for _, s := range r.sessions {
		if s.Status == "active" {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) GetByStudent(_ context.Context, studentID uuid.UUID, activeOnly bool) ([]model.ExamSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ExamSession
	for _, s := range r.sessions {
		if s.StudentID != studentID {
			continue
		}
		if activeOnly && s.Status != "active" {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSessionRepo) GetActiveByExamAndStudent(_ context.Context, examID uint, studentID uuid.UUID) (*model.ExamSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ExamID == examID && s.StudentID == studentID && s.Status == "active" {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) CountActive(ctx context.Context) (int64, error) {
	active, _ := r.GetActive(ctx)
	return int64(len(active)), nil
}

func (r *fakeSessionRepo) CountDistinctStudentsSince(_ context.Context, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[uuid.UUID]struct{})
	for _, s := range r.sessions {
		if s.StartedAt.After(since) {
			seen[s.StudentID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

type fakeExamRepo struct {
	mu     sync.Mutex
	nextID uint
	exams  map[uint]*model.Exam
}

func newFakeExamRepo() *fakeExamRepo {
	return &fakeExamRepo{nextID: 1, exams: make(map[uint]*model.Exam)}
}

func (r *fakeExamRepo) Create(_ context.Context, exam *model.Exam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	exam.ID = r.nextID
	r.nextID++
	cp := *exam
	r.exams[exam.ID] = &cp
	return nil
}

func (r *fakeExamRepo) GetByID(_ context.Context, id uint) (*model.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.exams[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeExamRepo) GetAll(_ context.Context, _, _ int) ([]model.Exam, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Exam
	for _, e := range r.exams {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeExamRepo) GetByStudent(_ context.Context, studentID uuid.UUID) ([]model.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Exam
	for _, e := range r.exams {
		if e.StudentID != nil && *e.StudentID == studentID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeExamRepo) Update(_ context.Context, exam *model.Exam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *exam
	r.exams[exam.ID] = &cp
	return nil
}

func (r *fakeExamRepo) Deactivate(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.exams[id]; ok {
		e.IsActive = false
	}
	return nil
}

func (r *fakeExamRepo) CountPlannedForStudent(_ context.Context, _ uuid.UUID, _ time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeExamRepo) CountPlannedForInstructor(_ context.Context, _ uuid.UUID, _, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*model.User
	profiles map[uuid.UUID]pgvector.Vector
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[uuid.UUID]*model.User),
		profiles: make(map[uuid.UUID]pgvector.Vector),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.Id] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByRole(_ context.Context, role string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetAll(_ context.Context, _, _ int) ([]model.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) SaveFaceProfile(_ context.Context, userID uuid.UUID, embedding pgvector.Vector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[userID] = embedding
	return nil
}

func (r *fakeUserRepo) GetFaceProfile(_ context.Context, userID uuid.UUID) (*model.FaceProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.profiles[userID]; ok {
		return &model.FaceProfile{UserID: userID, Embedding: v}, nil
	}
	return nil, nil
}
