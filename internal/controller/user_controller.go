package controller

import (
	"errors"

	"proctoflex-be/internal/pkg/serverutils"
	"proctoflex-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
}

type userController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) IUserController {
	return &userController{userService: userService}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/me", c.Me)
	h.Get("", serverutils.RequireRoles("admin", "instructor"), c.List)
}

func (c *userController) Me(ctx *fiber.Ctx) error {
	userID, _, err := requester(ctx)
	if err != nil {
		return err
	}

	res, err := c.userService.GetProfile(ctx.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile", res))
}

func (c *userController) List(ctx *fiber.Ctx) error {
	if role := ctx.Query("role"); role != "" {
		res, err := c.userService.GetByRole(ctx.Context(), role)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Users", res))
	}

	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)
	res, total, err := c.userService.GetAll(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Users", fiber.Map{"items": res, "total": total}))
}
