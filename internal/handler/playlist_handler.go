package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-nexus-api/internal/middleware"
	"movie-nexus-api/internal/models"
)

// PlaylistHandler handles HTTP requests for playlists.
type PlaylistHandler struct {
	svc PlaylistService
}

// NewPlaylistHandler creates a new PlaylistHandler.
func NewPlaylistHandler(svc PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{svc: svc}
}

// List returns public playlists and the viewer's own.
// @Router /playlists [get]
func (h *PlaylistHandler) List(c fiber.Ctx) error {
	out, err := h.svc.ListVisible(c.Context(), middleware.ViewerFrom(c),
		fiber.Query(c, "page", 1), fiber.Query(c, "page_size", 20))
	if err != nil {
		return respondError(c, err, "list playlists")
	}
	return c.JSON(out)
}

// ListMine returns the viewer's playlists.
// @Router /playlists/me [get]
func (h *PlaylistHandler) ListMine(c fiber.Ctx) error {
	out, err := h.svc.ListMine(c.Context(), middleware.ViewerFrom(c))
	if err != nil {
		return respondError(c, err, "list playlists")
	}
	return c.JSON(out)
}

// Create stores a new playlist.
// @Router /playlists [post]
func (h *PlaylistHandler) Create(c fiber.Ctx) error {
	var req models.PlaylistRequest
	if err := c.Bind().Body(&req); err != nil {
		return errBadBody
	}

	p, err := h.svc.Create(c.Context(), middleware.ViewerFrom(c), req)
	if err != nil {
		return respondError(c, err, "create playlist")
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// Get returns a playlist with its movies.
// @Router /playlists/{id} [get]
func (h *PlaylistHandler) Get(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	p, err := h.svc.Get(c.Context(), middleware.ViewerFrom(c), id)
	if err != nil {
		return respondError(c, err, "retrieve playlist")
	}
	return c.JSON(p)
}

// Update edits a playlist.
// @Router /playlists/{id} [put]
func (h *PlaylistHandler) Update(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.PlaylistRequest
	if err := c.Bind().Body(&req); err != nil {
		return errBadBody
	}

	p, err := h.svc.Update(c.Context(), middleware.ViewerFrom(c), id, req)
	if err != nil {
		return respondError(c, err, "update playlist")
	}
	return c.JSON(p)
}

// Delete removes a playlist.
// @Router /playlists/{id} [delete]
func (h *PlaylistHandler) Delete(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), middleware.ViewerFrom(c), id); err != nil {
		return respondError(c, err, "delete playlist")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddMovie adds a movie to a playlist.
// @Router /playlists/{id}/movies [post]
func (h *PlaylistHandler) AddMovie(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.PlaylistMovieRequest
	if err := c.Bind().Body(&req); err != nil {
		return errBadBody
	}

	if err := h.svc.AddMovie(c.Context(), middleware.ViewerFrom(c), id, req); err != nil {
		return respondError(c, err, "add movie to playlist")
	}
	return c.JSON(fiber.Map{"detail": "Movie added to playlist."})
}

// RemoveMovie removes a movie from a playlist.
// @Router /playlists/{id}/movies/{movieId} [delete]
func (h *PlaylistHandler) RemoveMovie(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	movieID, err := pathID(c, "movieId")
	if err != nil {
		return err
	}

	if err := h.svc.RemoveMovie(c.Context(), middleware.ViewerFrom(c), id, movieID); err != nil {
		return respondError(c, err, "remove movie from playlist")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
