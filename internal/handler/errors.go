package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movie-nexus-api/internal/service"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps service errors to HTTP statuses. Unknown errors are logged and hidden.
func respondError(c fiber.Ctx, err error, action string) error {
	status, msg := fiber.StatusInternalServerError, "failed to "+action

	switch {
	case errors.Is(err, service.ErrMovieNotFound),
		errors.Is(err, service.ErrRatingNotFound),
		errors.Is(err, service.ErrPlaylistNotFound),
		errors.Is(err, service.ErrProfileNotFound):
		status, msg = fiber.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInvalidInput):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUnauthenticated):
		status, msg = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden):
		status, msg = fiber.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrDuplicateRating), errors.Is(err, service.ErrUserExists):
		status, msg = fiber.StatusConflict, err.Error()
	default:
		slog.Error("request failed", "action", action, "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(ErrorResponse{Error: msg})
}

// ErrorHandler is the fiber fallback for errors returned by handlers and middleware.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled error", "error", err, "status", code)
		return c.Status(code).JSON(ErrorResponse{Error: "internal server error"})
	}
	return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
}

func pathID(c fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

var errBadBody = fiber.NewError(fiber.StatusBadRequest, "invalid request body")
