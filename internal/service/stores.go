package service

import (
	"context"

	"movie-nexus-api/internal/models"
	"movie-nexus-api/internal/tmdb"
)

// MovieStore is the movie persistence the services need.
type MovieStore interface {
	GetByID(ctx context.Context, id int64) (models.Movie, error)
	List(ctx context.Context, params models.MovieListParams) (*models.MovieListResponse, error)
	MostPopular(ctx context.Context, limit int) ([]models.Movie, error)
	MostRecent(ctx context.Context, limit int) ([]models.Movie, error)
	TopRated(ctx context.Context, minVotes, limit int) ([]models.Movie, error)
	RecommendationCandidates(ctx context.Context, viewer models.Viewer, limit int) ([]models.Movie, error)
	SharingGenres(ctx context.Context, excludeID int64, genres []string) ([]models.Movie, error)
	// TrendingByGenre must filter on genre before applying limit, otherwise
	// fewer than limit matches come back even when more exist.
	TrendingByGenre(ctx context.Context, genre string, limit int) ([]models.Movie, error)
	Upsert(ctx context.Context, m models.Movie) (int64, bool, error)
	Update(ctx context.Context, id int64, u models.MovieUpdate) (models.Movie, error)
}

// UserStore persists users together with their profiles.
type UserStore interface {
	CreateWithProfile(ctx context.Context, username, email string, favoriteGenres []string) (models.User, models.UserProfile, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetProfile(ctx context.Context, userID int64) (models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID int64, favoriteGenres []string, bio, avatarURL string) (models.UserProfile, error)
}

// RatingStore persists ratings and answers the rating-history queries.
type RatingStore interface {
	Create(ctx context.Context, userID, movieID int64, score int, review string) (models.Rating, error)
	GetByID(ctx context.Context, id int64) (models.Rating, error)
	Update(ctx context.Context, id int64, score int, review string) (models.Rating, error)
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]models.Rating, error)
	RatedMovies(ctx context.Context, userID int64) ([]models.RatedMovie, error)
	LikedGenres(ctx context.Context, userID int64, minScore int) ([]string, error)
}

// PlaylistStore persists playlists and their movie links.
type PlaylistStore interface {
	Create(ctx context.Context, ownerID int64, req models.PlaylistRequest) (models.Playlist, error)
	GetByID(ctx context.Context, id int64) (models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Playlist, error)
	ListVisible(ctx context.Context, viewer models.Viewer, limit, offset int) ([]models.Playlist, error)
	Update(ctx context.Context, id int64, req models.PlaylistRequest) error
	Delete(ctx context.Context, id int64) error
	AddMovie(ctx context.Context, playlistID, movieID int64) error
	RemoveMovie(ctx context.Context, playlistID, movieID int64) error
}

// MovieSource is the upstream catalog used for ingestion.
type MovieSource interface {
	GetGenres(ctx context.Context) ([]tmdb.Genre, error)
	DiscoverMovies(ctx context.Context, page int) (*tmdb.DiscoverResponse, error)
	GetMovieDetail(ctx context.Context, tmdbID int64) (*tmdb.MovieDetail, error)
}
