package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-nexus-api/internal/middleware"
	"movie-nexus-api/internal/models"
)

// UserHandler handles registration and profiles.
type UserHandler struct {
	svc UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register creates an account and its profile.
// @Summary Register
// @Tags users
// @Accept json
// @Param body body models.RegisterRequest true "Account"
// @Success 201 {object} service.Registration
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *UserHandler) Register(c fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.Bind().Body(&req); err != nil {
		return errBadBody
	}

	reg, err := h.svc.Register(c.Context(), req)
	if err != nil {
		return respondError(c, err, "register user")
	}
	return c.Status(fiber.StatusCreated).JSON(reg)
}

// MyProfile returns the viewer's profile.
// @Router /profiles/me [get]
func (h *UserHandler) MyProfile(c fiber.Ctx) error {
	viewer := middleware.ViewerFrom(c)
	p, err := h.svc.GetProfile(c.Context(), viewer, viewer.UserID)
	if err != nil {
		return respondError(c, err, "retrieve profile")
	}
	return c.JSON(p)
}

// UpdateMyProfile edits the viewer's profile.
// @Router /profiles/me [put]
func (h *UserHandler) UpdateMyProfile(c fiber.Ctx) error {
	viewer := middleware.ViewerFrom(c)
	return h.updateProfile(c, viewer, viewer.UserID)
}

// UpdateProfile edits any profile. Staff only.
// @Router /admin/profiles/{userId} [put]
func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	return h.updateProfile(c, middleware.ViewerFrom(c), userID)
}

func (h *UserHandler) updateProfile(c fiber.Ctx, viewer models.Viewer, userID int64) error {
	var req models.UpdateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return errBadBody
	}

	p, err := h.svc.UpdateProfile(c.Context(), viewer, userID, req)
	if err != nil {
		return respondError(c, err, "update profile")
	}
	return c.JSON(p)
}
