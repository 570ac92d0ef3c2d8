package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-nexus-api/internal/middleware"
	"movie-nexus-api/internal/models"
	"movie-nexus-api/internal/service"
)

// RecommendationHandler serves match scores, recommendations and derived lists.
type RecommendationHandler struct {
	svc RecommendationService
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// MovieListResult wraps a ranked movie list.
type MovieListResult struct {
	Count   int                    `json:"count"`
	Results []models.MovieListItem `json:"results"`
}

func listResult(movies []models.Movie) MovieListResult {
	items := make([]models.MovieListItem, len(movies))
	for i, m := range movies {
		items[i] = m.ListItem()
	}
	return MovieListResult{Count: len(items), Results: items}
}

// MatchScore returns how well a movie fits the viewer.
// @Summary Movie match score
// @Tags recommendations
// @Param id path int true "Movie ID"
// @Success 200 {object} models.MatchScoreResponse
// @Router /movies/{id}/match-score [get]
func (h *RecommendationHandler) MatchScore(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.svc.GetMatchScore(c.Context(), middleware.ViewerFrom(c), id)
	if err != nil {
		return respondError(c, err, "compute match score")
	}
	return c.JSON(resp)
}

// Recommendations returns the viewer's ranked recommendations.
// @Summary Personalized recommendations
// @Tags recommendations
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {object} models.RecommendationResponse
// @Router /recommendations [get]
func (h *RecommendationHandler) Recommendations(c fiber.Ctx) error {
	viewer := middleware.ViewerFrom(c)
	limit := service.ClampLimit(fiber.Query(c, "limit", service.DefaultLimit))

	recs, err := h.svc.GetRecommendations(c.Context(), viewer, limit)
	if err != nil {
		return respondError(c, err, "compute recommendations")
	}
	return c.JSON(models.RecommendationResponse{
		User:            viewer.CacheID(),
		Limit:           limit,
		Recommendations: recs,
	})
}

// Similar returns movies sharing genres with the given one.
// @Summary Similar movies
// @Tags recommendations
// @Param id path int true "Movie ID"
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {object} MovieListResult
// @Router /movies/{id}/similar [get]
func (h *RecommendationHandler) Similar(c fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	movies, err := h.svc.GetSimilarMovies(c.Context(), id, fiber.Query(c, "limit", service.DefaultLimit))
	if err != nil {
		return respondError(c, err, "find similar movies")
	}
	return c.JSON(listResult(movies))
}

// TrendingByGenre returns the most popular movies of a genre.
// @Summary Trending by genre
// @Tags recommendations
// @Param genre path string true "Genre name"
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {object} MovieListResult
// @Router /genres/{genre}/trending [get]
func (h *RecommendationHandler) TrendingByGenre(c fiber.Ctx) error {
	movies, err := h.svc.GetTrendingByGenre(c.Context(), c.Params("genre"), fiber.Query(c, "limit", service.DefaultLimit))
	if err != nil {
		return respondError(c, err, "retrieve trending movies")
	}
	return c.JSON(listResult(movies))
}

// Stats returns the viewer's rating statistics.
// @Summary User statistics
// @Tags users
// @Success 200 {object} models.UserStatistics
// @Router /users/me/stats [get]
func (h *RecommendationHandler) Stats(c fiber.Ctx) error {
	stats, err := h.svc.GetUserStatistics(c.Context(), middleware.ViewerFrom(c))
	if err != nil {
		return respondError(c, err, "compute statistics")
	}
	return c.JSON(stats)
}
