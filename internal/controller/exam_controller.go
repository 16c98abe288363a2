package controller

import (
	"errors"
	"strconv"

	"proctoflex-be/internal/dto"
	"proctoflex-be/internal/pkg/serverutils"
	"proctoflex-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IExamController interface {
	RegisterRoutes(r fiber.Router)
}

type examController struct {
	examService service.IExamService
}

func NewExamController(examService service.IExamService) IExamController {
	return &examController{examService: examService}
}

func (c *examController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/exams")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", serverutils.RequireRoles("admin", "instructor"), c.Create)
	h.Get("", c.List)
	h.Get("/mine", c.Mine)
	h.Get(":id", c.Show)
	h.Delete(":id", serverutils.RequireRoles("admin", "instructor"), c.Deactivate)
}

func (c *examController) Create(ctx *fiber.Ctx) error {
	userID, _, err := requester(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateExamRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.examService.Create(ctx.Context(), userID, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Exam created", res))
}

func (c *examController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, total, err := c.examService.GetAll(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Exams", fiber.Map{"items": res, "total": total}))
}

func (c *examController) Mine(ctx *fiber.Ctx) error {
	userID, _, err := requester(ctx)
	if err != nil {
		return err
	}
	res, err := c.examService.GetForStudent(ctx.Context(), userID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Exams", res))
}

func (c *examController) Show(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid exam id")
	}

	res, err := c.examService.GetByID(ctx.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Exam", res))
}

func (c *examController) Deactivate(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid exam id")
	}

	if err := c.examService.Deactivate(ctx.Context(), uint(id)); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Exam deactivated", fiber.Map{"id": id}))
}
