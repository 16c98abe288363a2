package controller

import (
	"strconv"

	"proctoflex-be/internal/dto"
	"proctoflex-be/internal/pkg/serverutils"
	"proctoflex-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IAlertController is the desktop-client ingestion surface: the monitoring
// agent reports violations it detected locally (forbidden apps, VM use,
// screen recording) as ready-made alerts.
type IAlertController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Resolve(ctx *fiber.Ctx) error
}

type alertController struct {
	alertService service.IAlertService
}

func NewAlertController(alertService service.IAlertService) IAlertController {
	return &alertController{alertService: alertService}
}

func (c *alertController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/alerts")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Patch(":id/resolve", serverutils.RequireRoles("admin", "instructor"), c.Resolve)
}

func (c *alertController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateAlertRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.alertService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Alert recorded", res))
}

func (c *alertController) Resolve(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid alert id")
	}

	if err := c.alertService.Resolve(ctx.Context(), uint(id)); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Alert resolved", fiber.Map{"id": id}))
}
