package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"movie-nexus-api/internal/cache"
	"movie-nexus-api/internal/models"
	"movie-nexus-api/internal/repository"
	"movie-nexus-api/internal/tmdb"
)

func seed(t *testing.T, c *cache.Cache, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, c.Set(context.Background(), k, "x", testTTL().ListTTL))
	}
}

func assertGone(t *testing.T, c *cache.Cache, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var v string
		assert.ErrorIs(t, c.Get(context.Background(), k, &v), cache.ErrMiss, k)
	}
}

func assertKept(t *testing.T, c *cache.Cache, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var v string
		assert.NoError(t, c.Get(context.Background(), k, &v), k)
	}
}

func TestListMoviesCachesPerQuery(t *testing.T) {
	movies := newMovieStoreMock(t)
	svc := NewMovieService(movies, nil, newMemoryCache(), testTTL())

	params := models.MovieListParams{Genre: "Drama"}
	normalized := params
	normalized.Validate()

	movies.On("List", mock.Anything, normalized).
		Return(&models.MovieListResponse{Page: 1, PageSize: 20, TotalResults: 1, TotalPages: 1, Data: []models.MovieListItem{{ID: 1}}}, nil).Once()

	for range 2 {
		resp, err := svc.ListMovies(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.TotalResults)
	}
}

func TestGetMovieNotFound(t *testing.T) {
	movies := newMovieStoreMock(t)
	svc := NewMovieService(movies, nil, newMemoryCache(), testTTL())

	movies.On("GetByID", mock.Anything, int64(9)).Return(models.Movie{}, repository.ErrNotFound).Once()

	_, err := svc.GetMovie(context.Background(), 9)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestFixedLists(t *testing.T) {
	movies := newMovieStoreMock(t)
	svc := NewMovieService(movies, nil, newMemoryCache(), testTTL())
	ctx := context.Background()

	movies.On("MostPopular", mock.Anything, FixedListSize).Return([]models.Movie{film(1, nil, 5, 99)}, nil).Once()
	movies.On("MostRecent", mock.Anything, FixedListSize).Return([]models.Movie{film(2, nil, 5, 1)}, nil).Once()
	movies.On("TopRated", mock.Anything, TopRatedMinVotes, FixedListSize).Return([]models.Movie{film(3, nil, 9, 1)}, nil).Once()

	for range 2 {
		trending, err := svc.Trending(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), trending[0].ID)

		recent, err := svc.Recent(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), recent[0].ID)

		top, err := svc.TopRated(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), top[0].ID)
	}
}

func TestUpdateMovieNormalizesAndInvalidates(t *testing.T) {
	movies := newMovieStoreMock(t)
	c := newMemoryCache()
	svc := NewMovieService(movies, nil, c, testTTL())

	seed(t, c,
		cache.MovieDetailKey(5),
		cache.SimilarKey(5, 10),
		cache.MovieListKey(cache.ListTrending, FixedListSize),
		cache.TrendingKey("drama", 10),
		cache.RecommendationsKey("anonymous", 10),
		cache.RecommendationsKey("12", 10),
		cache.MatchScoreKey("12", 5),
		cache.MovieDetailKey(6),
		cache.UserStatsKey(12),
	)

	update := models.MovieUpdate{Title: "Heat", Genres: []string{" Crime", "DRAMA", "crime"}, VoteAverage: 8.3}
	expected := update
	expected.Genres = []string{"crime", "drama"}
	movies.On("Update", mock.Anything, int64(5), expected).Return(film(5, expected.Genres, 8.3, 10), nil).Once()

	m, err := svc.UpdateMovie(context.Background(), 5, update)
	require.NoError(t, err)
	assert.Equal(t, []string{"crime", "drama"}, m.Genres)

	assertGone(t, c,
		cache.MovieDetailKey(5),
		cache.SimilarKey(5, 10),
		cache.MovieListKey(cache.ListTrending, FixedListSize),
		cache.TrendingKey("drama", 10),
		cache.RecommendationsKey("anonymous", 10),
		cache.RecommendationsKey("12", 10),
		cache.MatchScoreKey("12", 5),
	)
	assertKept(t, c, cache.MovieDetailKey(6), cache.UserStatsKey(12))
}

func TestUpdateMovieRejectsInvalidInput(t *testing.T) {
	svc := NewMovieService(newMovieStoreMock(t), nil, nil, testTTL())

	_, err := svc.UpdateMovie(context.Background(), 5, models.MovieUpdate{Title: "x", VoteAverage: 11})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSyncFromTMDB(t *testing.T) {
	movies := newMovieStoreMock(t)
	source := newSourceMock(t)
	c := newMemoryCache()
	svc := NewMovieService(movies, source, c, testTTL())

	seed(t, c, cache.MovieDetailKey(7), cache.MovieDetailKey(8), cache.RecommendationsKey("anonymous", 10))

	source.On("GetGenres", mock.Anything).Return([]tmdb.Genre{{ID: 80, Name: "Crime"}, {ID: 18, Name: "Drama"}}, nil).Once()
	source.On("DiscoverMovies", mock.Anything, 1).Return(&tmdb.DiscoverResponse{Results: []tmdb.Movie{
		{ID: 949, Title: "Heat", GenreIDs: []int{80, 18, 999}, VoteAverage: 8.7, VoteCount: 6000, Popularity: 89.7},
		{ID: 550, Title: "Fight Club", GenreIDs: []int{18}},
		{ID: 1, Title: "Broken"},
	}}, nil).Once()
	source.On("DiscoverMovies", mock.Anything, 2).Return(nil, errors.New("timeout")).Once()
	source.On("GetMovieDetail", mock.Anything, int64(949)).Return(&tmdb.MovieDetail{ID: 949, Runtime: 170}, nil).Once()
	source.On("GetMovieDetail", mock.Anything, int64(550)).Return(nil, errors.New("rate limited")).Once()
	source.On("GetMovieDetail", mock.Anything, int64(1)).Return(&tmdb.MovieDetail{ID: 1}, nil).Once()

	movies.On("Upsert", mock.Anything, mock.MatchedBy(func(m models.Movie) bool {
		return m.TMDBId == 949 && assert.ObjectsAreEqual([]string{"crime", "drama"}, m.Genres) &&
			m.Runtime != nil && *m.Runtime == 170
	})).Return(int64(7), true, nil).Once()
	movies.On("Upsert", mock.Anything, mock.MatchedBy(func(m models.Movie) bool { return m.TMDBId == 550 && m.Runtime == nil })).
		Return(int64(9), false, nil).Once()
	movies.On("Upsert", mock.Anything, mock.MatchedBy(func(m models.Movie) bool { return m.TMDBId == 1 && m.Runtime == nil })).
		Return(int64(0), false, errors.New("constraint")).Once()

	res, err := svc.SyncFromTMDB(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Pages: 1, Created: 1, Updated: 1, Failed: 1}, res)

	assertGone(t, c, cache.MovieDetailKey(7), cache.RecommendationsKey("anonymous", 10))
	assertKept(t, c, cache.MovieDetailKey(8))
}

func TestSyncFromTMDBGenreFailure(t *testing.T) {
	source := newSourceMock(t)
	svc := NewMovieService(newMovieStoreMock(t), source, nil, testTTL())

	source.On("GetGenres", mock.Anything).Return(nil, errors.New("401")).Once()

	_, err := svc.SyncFromTMDB(context.Background(), 1)
	require.Error(t, err)
}

func TestSyncWithoutSource(t *testing.T) {
	svc := NewMovieService(newMovieStoreMock(t), nil, nil, testTTL())

	_, err := svc.SyncFromTMDB(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
