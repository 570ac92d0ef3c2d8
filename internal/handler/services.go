package handler

import (
	"context"

	"movie-nexus-api/internal/models"
	"movie-nexus-api/internal/service"
)

// The interfaces below list what each handler uses from the service layer.

type MovieService interface {
	ListMovies(ctx context.Context, params models.MovieListParams) (*models.MovieListResponse, error)
	GetMovie(ctx context.Context, id int64) (models.Movie, error)
	Trending(ctx context.Context) ([]models.MovieListItem, error)
	Recent(ctx context.Context) ([]models.MovieListItem, error)
	TopRated(ctx context.Context) ([]models.MovieListItem, error)
	UpdateMovie(ctx context.Context, id int64, u models.MovieUpdate) (models.Movie, error)
	SyncFromTMDB(ctx context.Context, pages int) (service.SyncResult, error)
}

type RecommendationService interface {
	GetMatchScore(ctx context.Context, viewer models.Viewer, movieID int64) (models.MatchScoreResponse, error)
	GetRecommendations(ctx context.Context, viewer models.Viewer, limit int) ([]models.ScoredMovie, error)
	GetSimilarMovies(ctx context.Context, movieID int64, limit int) ([]models.Movie, error)
	GetTrendingByGenre(ctx context.Context, genre string, limit int) ([]models.Movie, error)
	GetUserStatistics(ctx context.Context, viewer models.Viewer) (models.UserStatistics, error)
}

type RatingService interface {
	Create(ctx context.Context, viewer models.Viewer, req models.CreateRatingRequest) (models.Rating, error)
	Update(ctx context.Context, viewer models.Viewer, id int64, req models.UpdateRatingRequest) (models.Rating, error)
	Delete(ctx context.Context, viewer models.Viewer, id int64) error
	ListMine(ctx context.Context, viewer models.Viewer) ([]models.Rating, error)
}

type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (service.Registration, error)
	GetProfile(ctx context.Context, viewer models.Viewer, userID int64) (models.UserProfile, error)
	UpdateProfile(ctx context.Context, viewer models.Viewer, userID int64, req models.UpdateProfileRequest) (models.UserProfile, error)
}

type PlaylistService interface {
	Create(ctx context.Context, viewer models.Viewer, req models.PlaylistRequest) (models.Playlist, error)
	Get(ctx context.Context, viewer models.Viewer, id int64) (models.Playlist, error)
	ListVisible(ctx context.Context, viewer models.Viewer, page, pageSize int) ([]models.Playlist, error)
	ListMine(ctx context.Context, viewer models.Viewer) ([]models.Playlist, error)
	Update(ctx context.Context, viewer models.Viewer, id int64, req models.PlaylistRequest) (models.Playlist, error)
	Delete(ctx context.Context, viewer models.Viewer, id int64) error
	AddMovie(ctx context.Context, viewer models.Viewer, id int64, req models.PlaylistMovieRequest) error
	RemoveMovie(ctx context.Context, viewer models.Viewer, id, movieID int64) error
}
