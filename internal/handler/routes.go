package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-nexus-api/internal/middleware"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Movies          *MovieHandler
	Recommendations *RecommendationHandler
	Ratings         *RatingHandler
	Users           *UserHandler
	Playlists       *PlaylistHandler
}

// RegisterRoutes mounts the API under /api/v1. Static segments are registered
// before their parameterized siblings.
func RegisterRoutes(app fiber.Router, h Handlers, auth *middleware.Authenticator) {
	app.Get("/health", Health)

	api := app.Group("/api/v1", auth.Handler())
	api.Get("/health", Health)

	api.Post("/auth/register", h.Users.Register)

	api.Get("/movies", h.Movies.ListMovies)
	api.Get("/movies/trending", h.Movies.Trending)
	api.Get("/movies/recent", h.Movies.Recent)
	api.Get("/movies/top-rated", h.Movies.TopRated)
	api.Get("/movies/:id", h.Movies.GetMovie)
	api.Get("/movies/:id/match-score", h.Recommendations.MatchScore)
	api.Get("/movies/:id/similar", h.Recommendations.Similar)
	api.Get("/genres/:genre/trending", h.Recommendations.TrendingByGenre)
	api.Get("/recommendations", h.Recommendations.Recommendations)
	api.Get("/users/me/stats", h.Recommendations.Stats)

	api.Get("/profiles/me", h.Users.MyProfile)
	api.Put("/profiles/me", h.Users.UpdateMyProfile)

	api.Get("/ratings/me", h.Ratings.ListMine)
	api.Post("/ratings", h.Ratings.Create)
	api.Put("/ratings/:id", h.Ratings.Update)
	api.Delete("/ratings/:id", h.Ratings.Delete)

	api.Get("/playlists", h.Playlists.List)
	api.Post("/playlists", h.Playlists.Create)
	api.Get("/playlists/me", h.Playlists.ListMine)
	api.Get("/playlists/:id", h.Playlists.Get)
	api.Put("/playlists/:id", h.Playlists.Update)
	api.Delete("/playlists/:id", h.Playlists.Delete)
	api.Post("/playlists/:id/movies", h.Playlists.AddMovie)
	api.Delete("/playlists/:id/movies/:movieId", h.Playlists.RemoveMovie)

	admin := api.Group("/admin", middleware.RequireStaff())
	admin.Put("/movies/:id", h.Movies.UpdateMovie)
	admin.Put("/profiles/:userId", h.Users.UpdateProfile)
	admin.Post("/sync", h.Movies.SyncMovies)
}
