package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-nexus-api/internal/middleware"
	"movie-nexus-api/internal/models"
)

// RatingHandler handles HTTP requests for ratings.
type RatingHandler struct {
	svc RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(svc RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

// Create rates a movie.
// @Summary Rate a movie
// @Tags ratings
// @Accept json
// @Param body body models.CreateRatingRequest true "Rating"
// @Success 201 {object} models.Rating
// @Failure 409 {object} ErrorResponse
// @Router /ratings [post]
func (h *RatingHandler) Create(c fiber.Ctx) error {
	var req models.CreateRatingRequest
	if err := c.Bind().Body(&req); err != nil {
		return errBadBody
	}

	r, err := h.svc.Create(c.Context(), middleware.ViewerFrom(c), req)
	if err != nil {
		return respondError(c, err, "create rating")
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

// Update changes a rating.
// @Router /ratings/{id} [put]
func (h *RatingHandler) Update(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateRatingRequest
	if err := c.Bind().Body(&req); err != nil {
		return errBadBody
	}

	r, err := h.svc.Update(c.Context(), middleware.ViewerFrom(c), id, req)
	if err != nil {
		return respondError(c, err, "update rating")
	}
	return c.JSON(r)
}

// Delete removes a rating.
// @Router /ratings/{id} [delete]
func (h *RatingHandler) Delete(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), middleware.ViewerFrom(c), id); err != nil {
		return respondError(c, err, "delete rating")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMine returns the viewer's ratings.
// @Router /ratings/me [get]
func (h *RatingHandler) ListMine(c fiber.Ctx) error {
	ratings, err := h.svc.ListMine(c.Context(), middleware.ViewerFrom(c))
	if err != nil {
		return respondError(c, err, "list ratings")
	}
	return c.JSON(ratings)
}
