package controller

import (
	"errors"
	"strconv"

	"proctoflex-be/internal/dto"
	"proctoflex-be/internal/entity"
	"proctoflex-be/internal/pkg/serverutils"
	"proctoflex-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISurveillanceController interface {
	RegisterRoutes(r fiber.Router)
}

type surveillanceController struct {
	surveillanceService service.ISurveillanceService
	identityService     service.IIdentityService
	sessionService      service.ISessionService
	alertService        service.IAlertService
	capturePublisher    service.ICapturePublisherService
}

func NewSurveillanceController(
	surveillanceService service.ISurveillanceService,
	identityService service.IIdentityService,
	sessionService service.ISessionService,
	alertService service.IAlertService,
	capturePublisher service.ICapturePublisherService,
) ISurveillanceController {
	return &surveillanceController{
		surveillanceService: surveillanceService,
		identityService:     identityService,
		sessionService:      sessionService,
		alertService:        alertService,
		capturePublisher:    capturePublisher,
	}
}

func (c *surveillanceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/surveillance")
	h.Use(serverutils.JwtMiddleware)

	h.Post("/enroll-face", c.EnrollFace)
	h.Post("/verify-identity", c.VerifyIdentity)
	h.Post("/start-session", c.StartSession)
	h.Post("/analyze", c.Analyze)
	h.Post("/captures", c.UploadCapture)
	h.Get("/sessions/active", serverutils.RequireRoles("admin", "instructor"), c.ActiveSessions)
	h.Get("/sessions/mine", c.MySessions)
	h.Get("/session/:id/status", c.SessionStatus)
	h.Get("/session/:id/alerts", c.SessionAlerts)
	h.Post("/session/:id/end", c.EndSession)
	h.Post("/session/:id/terminate", serverutils.RequireRoles("admin", "instructor"), c.TerminateSession)
	h.Get("/alerts/recent", c.RecentAlerts)
	h.Get("/dashboard/stats", c.DashboardStats)
}

func requester(ctx *fiber.Ctx) (uuid.UUID, entity.UserRole, error) {
	idStr, _ := ctx.Locals("user_id").(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, "", fiber.NewError(fiber.StatusUnauthorized, "invalid user identity")
	}
	roleStr, _ := ctx.Locals("role").(string)
	return id, entity.UserRole(roleStr), nil
}

func sessionParam(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	return uint(id), nil
}

func (c *surveillanceController) EnrollFace(ctx *fiber.Ctx) error {
	userID, _, err := requester(ctx)
	if err != nil {
		return err
	}

	var req dto.EnrollFaceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.identityService.EnrollFace(ctx.Context(), userID, req.Embedding); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Face profile enrolled", fiber.Map{"user_id": userID}))
}

func (c *surveillanceController) VerifyIdentity(ctx *fiber.Ctx) error {
	userID, _, err := requester(ctx)
	if err != nil {
		return err
	}

	var req dto.VerifyIdentityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.identityService.Verify(ctx.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNoFaceProfile) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Identity check completed", res))
}

func (c *surveillanceController) StartSession(ctx *fiber.Ctx) error {
	userID, _, err := requester(ctx)
	if err != nil {
		return err
	}

	var req dto.StartSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Start(ctx.Context(), userID, req.ExamID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotVerified):
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrSessionAlreadyOpen):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session started", res))
}

func (c *surveillanceController) Analyze(ctx *fiber.Ctx) error {
	userID, _, err := requester(ctx)
	if err != nil {
		return err
	}

	var req dto.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.surveillanceService.Analyze(ctx.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotSessionOwner):
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Analysis completed", res))
}

func (c *surveillanceController) UploadCapture(ctx *fiber.Ctx) error {
	var req dto.CaptureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.capturePublisher.Archive(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Capture queued", fiber.Map{"session_id": req.SessionID}))
}

func (c *surveillanceController) ActiveSessions(ctx *fiber.Ctx) error {
	res, err := c.sessionService.GetActive(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Active sessions", res))
}

func (c *surveillanceController) MySessions(ctx *fiber.Ctx) error {
	userID, _, err := requester(ctx)
	if err != nil {
		return err
	}
	activeOnly := ctx.QueryBool("active", false)
	res, err := c.sessionService.GetByStudent(ctx.Context(), userID, activeOnly)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Sessions", res))
}

func (c *surveillanceController) SessionStatus(ctx *fiber.Ctx) error {
	sessionID, err := sessionParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.GetStatus(ctx.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	// Attach the live risk level when one exists.
	if level, err := c.surveillanceService.GetRisk(ctx.Context(), sessionID); err == nil {
		res.RiskLevel = level
	}
	return ctx.JSON(serverutils.SuccessResponse("Session status", res))
}

// SessionAlerts is the backfill read for reconnecting dashboards: alerts in
// creation order, fetched over HTTP instead of replayed on the socket.
func (c *surveillanceController) SessionAlerts(ctx *fiber.Ctx) error {
	sessionID, err := sessionParam(ctx)
	if err != nil {
		return err
	}
	res, err := c.alertService.GetBySession(ctx.Context(), sessionID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session alerts", res))
}

func (c *surveillanceController) EndSession(ctx *fiber.Ctx) error {
	userID, _, err := requester(ctx)
	if err != nil {
		return err
	}
	sessionID, err := sessionParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.Complete(ctx.Context(), sessionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotSessionOwner):
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrSessionTerminal):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session completed", res))
}

func (c *surveillanceController) TerminateSession(ctx *fiber.Ctx) error {
	sessionID, err := sessionParam(ctx)
	if err != nil {
		return err
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = ctx.BodyParser(&body)

	res, err := c.sessionService.Terminate(ctx.Context(), sessionID, body.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionTerminal):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session terminated", res))
}

func (c *surveillanceController) RecentAlerts(ctx *fiber.Ctx) error {
	userID, role, err := requester(ctx)
	if err != nil {
		return err
	}
	limit := ctx.QueryInt("limit", 20)
	res, err := c.alertService.GetRecent(ctx.Context(), userID, role, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Recent alerts", res))
}

func (c *surveillanceController) DashboardStats(ctx *fiber.Ctx) error {
	userID, role, err := requester(ctx)
	if err != nil {
		return err
	}
	res, err := c.surveillanceService.DashboardStats(ctx.Context(), userID, role)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", res))
}
