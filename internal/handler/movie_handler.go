package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"movie-nexus-api/internal/models"
)

// MovieHandler handles HTTP requests for movies.
type MovieHandler struct {
	svc MovieService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// MovieDetail is the response shape of a single movie.
type MovieDetail struct {
	models.Movie
	PosterURL string `json:"poster_url"`
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-nexus-api",
	})
}

// ListMovies returns a filtered, paginated list of movies.
// @Summary List movies
// @Tags movies
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Param sort_by query string false "Sort field" Enums(popularity,vote_average,release_date,created_at,title) default(popularity)
// @Param order query string false "Sort order" Enums(asc,desc) default(desc)
// @Param title query string false "Title contains"
// @Param genre query string false "Genre"
// @Param min_rating query number false "Minimum vote average"
// @Param min_popularity query number false "Minimum popularity"
// @Success 200 {object} models.MovieListResponse
// @Router /movies [get]
func (h *MovieHandler) ListMovies(c fiber.Ctx) error {
	var params models.MovieListParams
	if err := c.Bind().Query(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.svc.ListMovies(c.Context(), params)
	if err != nil {
		return respondError(c, err, "retrieve movies")
	}
	return c.JSON(result)
}

// GetMovie returns a single movie.
// @Summary Get movie detail
// @Tags movies
// @Param id path int true "Movie ID"
// @Success 200 {object} MovieDetail
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	m, err := h.svc.GetMovie(c.Context(), id)
	if err != nil {
		return respondError(c, err, "retrieve movie details")
	}
	return c.JSON(MovieDetail{Movie: m, PosterURL: m.PosterURL()})
}

// Trending returns the most popular movies.
// @Router /movies/trending [get]
func (h *MovieHandler) Trending(c fiber.Ctx) error {
	items, err := h.svc.Trending(c.Context())
	if err != nil {
		return respondError(c, err, "retrieve trending movies")
	}
	return c.JSON(items)
}

// Recent returns the latest added movies.
// @Router /movies/recent [get]
func (h *MovieHandler) Recent(c fiber.Ctx) error {
	items, err := h.svc.Recent(c.Context())
	if err != nil {
		return respondError(c, err, "retrieve recent movies")
	}
	return c.JSON(items)
}

// TopRated returns the best rated movies.
// @Router /movies/top-rated [get]
func (h *MovieHandler) TopRated(c fiber.Ctx) error {
	items, err := h.svc.TopRated(c.Context())
	if err != nil {
		return respondError(c, err, "retrieve top rated movies")
	}
	return c.JSON(items)
}

// UpdateMovie edits a movie. Staff only.
// @Summary Edit movie
// @Tags admin
// @Param id path int true "Movie ID"
// @Success 200 {object} MovieDetail
// @Router /admin/movies/{id} [put]
func (h *MovieHandler) UpdateMovie(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.MovieUpdate
	if err := c.Bind().Body(&req); err != nil {
		return errBadBody
	}

	m, err := h.svc.UpdateMovie(c.Context(), id, req)
	if err != nil {
		return respondError(c, err, "update movie")
	}
	return c.JSON(MovieDetail{Movie: m, PosterURL: m.PosterURL()})
}

// SyncMovies triggers a sync of movies from TMDB. Staff only.
// @Summary Sync movies from TMDB
// @Tags admin
// @Param pages query int false "Number of pages to sync" default(5)
// @Router /admin/sync [post]
func (h *MovieHandler) SyncMovies(c fiber.Ctx) error {
	pages := fiber.Query(c, "pages", 5)
	if pages < 1 {
		pages = 1
	}
	if pages > 50 {
		pages = 50
	}

	result, err := h.svc.SyncFromTMDB(c.Context(), pages)
	if err != nil {
		slog.Error("sync failed", "error", err)
		return respondError(c, err, "sync movies")
	}

	return c.JSON(fiber.Map{
		"message": "sync completed",
		"result":  result,
	})
}
