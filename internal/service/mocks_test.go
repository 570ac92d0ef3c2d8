package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"movie-nexus-api/internal/cache"
	"movie-nexus-api/internal/config"
	"movie-nexus-api/internal/models"
	"movie-nexus-api/internal/tmdb"
)

func testTTL() config.CacheConfig {
	return config.CacheConfig{
		RecommendationsTTL: 15 * time.Minute,
		SimilarTTL:         24 * time.Hour,
		TrendingTTL:        time.Hour,
		StatsTTL:           15 * time.Minute,
		DetailTTL:          30 * time.Minute,
		ListTTL:            5 * time.Minute,
		MatchScoreTTL:      15 * time.Minute,
		LocalTTL:           30 * time.Second,
		LocalSize:          1000,
	}
}

func newMemoryCache() *cache.Cache {
	return cache.New(cache.NewMemoryBackend(1000, time.Hour))
}

// MovieStore

type movieStoreMock struct{ mock.Mock }

func newMovieStoreMock(t *testing.T) *movieStoreMock {
	m := &movieStoreMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *movieStoreMock) GetByID(ctx context.Context, id int64) (models.Movie, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Movie), args.Error(1)
}

func (m *movieStoreMock) List(ctx context.Context, params models.MovieListParams) (*models.MovieListResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*models.MovieListResponse)
	return resp, args.Error(1)
}

func (m *movieStoreMock) MostPopular(ctx context.Context, limit int) ([]models.Movie, error) {
	args := m.Called(ctx, limit)
	return moviesArg(args, 0), args.Error(1)
}

func (m *movieStoreMock) MostRecent(ctx context.Context, limit int) ([]models.Movie, error) {
	args := m.Called(ctx, limit)
	return moviesArg(args, 0), args.Error(1)
}

func (m *movieStoreMock) TopRated(ctx context.Context, minVotes, limit int) ([]models.Movie, error) {
	args := m.Called(ctx, minVotes, limit)
	return moviesArg(args, 0), args.Error(1)
}

func (m *movieStoreMock) RecommendationCandidates(ctx context.Context, viewer models.Viewer, limit int) ([]models.Movie, error) {
	args := m.Called(ctx, viewer, limit)
	return moviesArg(args, 0), args.Error(1)
}

func (m *movieStoreMock) SharingGenres(ctx context.Context, excludeID int64, genres []string) ([]models.Movie, error) {
	args := m.Called(ctx, excludeID, genres)
	return moviesArg(args, 0), args.Error(1)
}

func (m *movieStoreMock) TrendingByGenre(ctx context.Context, genre string, limit int) ([]models.Movie, error) {
	args := m.Called(ctx, genre, limit)
	return moviesArg(args, 0), args.Error(1)
}

func (m *movieStoreMock) Upsert(ctx context.Context, movie models.Movie) (int64, bool, error) {
	args := m.Called(ctx, movie)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *movieStoreMock) Update(ctx context.Context, id int64, u models.MovieUpdate) (models.Movie, error) {
	args := m.Called(ctx, id, u)
	return args.Get(0).(models.Movie), args.Error(1)
}

func moviesArg(args mock.Arguments, i int) []models.Movie {
	movies, _ := args.Get(i).([]models.Movie)
	return movies
}

// UserStore

type userStoreMock struct{ mock.Mock }

func newUserStoreMock(t *testing.T) *userStoreMock {
	m := &userStoreMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *userStoreMock) CreateWithProfile(ctx context.Context, username, email string, favoriteGenres []string) (models.User, models.UserProfile, error) {
	args := m.Called(ctx, username, email, favoriteGenres)
	return args.Get(0).(models.User), args.Get(1).(models.UserProfile), args.Error(2)
}

func (m *userStoreMock) GetUser(ctx context.Context, id int64) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *userStoreMock) GetProfile(ctx context.Context, userID int64) (models.UserProfile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.UserProfile), args.Error(1)
}

func (m *userStoreMock) UpdateProfile(ctx context.Context, userID int64, favoriteGenres []string, bio, avatarURL string) (models.UserProfile, error) {
	args := m.Called(ctx, userID, favoriteGenres, bio, avatarURL)
	return args.Get(0).(models.UserProfile), args.Error(1)
}

// RatingStore

type ratingStoreMock struct{ mock.Mock }

func newRatingStoreMock(t *testing.T) *ratingStoreMock {
	m := &ratingStoreMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ratingStoreMock) Create(ctx context.Context, userID, movieID int64, score int, review string) (models.Rating, error) {
	args := m.Called(ctx, userID, movieID, score, review)
	return args.Get(0).(models.Rating), args.Error(1)
}

func (m *ratingStoreMock) GetByID(ctx context.Context, id int64) (models.Rating, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Rating), args.Error(1)
}

func (m *ratingStoreMock) Update(ctx context.Context, id int64, score int, review string) (models.Rating, error) {
	args := m.Called(ctx, id, score, review)
	return args.Get(0).(models.Rating), args.Error(1)
}

func (m *ratingStoreMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ratingStoreMock) ListByUser(ctx context.Context, userID int64) ([]models.Rating, error) {
	args := m.Called(ctx, userID)
	ratings, _ := args.Get(0).([]models.Rating)
	return ratings, args.Error(1)
}

func (m *ratingStoreMock) RatedMovies(ctx context.Context, userID int64) ([]models.RatedMovie, error) {
	args := m.Called(ctx, userID)
	rated, _ := args.Get(0).([]models.RatedMovie)
	return rated, args.Error(1)
}

func (m *ratingStoreMock) LikedGenres(ctx context.Context, userID int64, minScore int) ([]string, error) {
	args := m.Called(ctx, userID, minScore)
	genres, _ := args.Get(0).([]string)
	return genres, args.Error(1)
}

// PlaylistStore

type playlistStoreMock struct{ mock.Mock }

func newPlaylistStoreMock(t *testing.T) *playlistStoreMock {
	m := &playlistStoreMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *playlistStoreMock) Create(ctx context.Context, ownerID int64, req models.PlaylistRequest) (models.Playlist, error) {
	args := m.Called(ctx, ownerID, req)
	return args.Get(0).(models.Playlist), args.Error(1)
}

func (m *playlistStoreMock) GetByID(ctx context.Context, id int64) (models.Playlist, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Playlist), args.Error(1)
}

func (m *playlistStoreMock) ListByOwner(ctx context.Context, ownerID int64) ([]models.Playlist, error) {
	args := m.Called(ctx, ownerID)
	out, _ := args.Get(0).([]models.Playlist)
	return out, args.Error(1)
}

func (m *playlistStoreMock) ListVisible(ctx context.Context, viewer models.Viewer, limit, offset int) ([]models.Playlist, error) {
	args := m.Called(ctx, viewer, limit, offset)
	out, _ := args.Get(0).([]models.Playlist)
	return out, args.Error(1)
}

func (m *playlistStoreMock) Update(ctx context.Context, id int64, req models.PlaylistRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *playlistStoreMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *playlistStoreMock) AddMovie(ctx context.Context, playlistID, movieID int64) error {
	return m.Called(ctx, playlistID, movieID).Error(0)
}

func (m *playlistStoreMock) RemoveMovie(ctx context.Context, playlistID, movieID int64) error {
	return m.Called(ctx, playlistID, movieID).Error(0)
}

// MovieSource

type sourceMock struct{ mock.Mock }

func newSourceMock(t *testing.T) *sourceMock {
	m := &sourceMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *sourceMock) GetGenres(ctx context.Context) ([]tmdb.Genre, error) {
	args := m.Called(ctx)
	genres, _ := args.Get(0).([]tmdb.Genre)
	return genres, args.Error(1)
}

func (m *sourceMock) DiscoverMovies(ctx context.Context, page int) (*tmdb.DiscoverResponse, error) {
	args := m.Called(ctx, page)
	resp, _ := args.Get(0).(*tmdb.DiscoverResponse)
	return resp, args.Error(1)
}

func (m *sourceMock) GetMovieDetail(ctx context.Context, tmdbID int64) (*tmdb.MovieDetail, error) {
	args := m.Called(ctx, tmdbID)
	detail, _ := args.Get(0).(*tmdb.MovieDetail)
	return detail, args.Error(1)
}
