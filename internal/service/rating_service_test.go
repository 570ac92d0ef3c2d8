package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"movie-nexus-api/internal/cache"
	"movie-nexus-api/internal/models"
	"movie-nexus-api/internal/repository"
)

type ratingFixture struct {
	svc     *RatingService
	ratings *ratingStoreMock
	movies  *movieStoreMock
	cache   *cache.Cache
}

func newRatingFixture(t *testing.T) ratingFixture {
	f := ratingFixture{
		ratings: newRatingStoreMock(t),
		movies:  newMovieStoreMock(t),
		cache:   newMemoryCache(),
	}
	f.svc = NewRatingService(f.ratings, f.movies, f.cache, testTTL())
	return f
}

func TestCreateRatingInvalidatesRaterAndMovie(t *testing.T) {
	f := newRatingFixture(t)
	viewer := models.AuthenticatedViewer(3, false)

	seed(t, f.cache,
		cache.RecommendationsKey("3", 10),
		cache.UserStatsKey(3),
		cache.UserRatingsKey(3),
		cache.MatchScoreKey("3", 99),
		cache.MovieDetailKey(5),
		cache.SimilarKey(5, 10),
		cache.MatchScoreKey("4", 5),
		cache.RecommendationsKey("4", 10),
		cache.RecommendationsKey("anonymous", 10),
		cache.UserStatsKey(4),
	)

	f.movies.On("GetByID", mock.Anything, int64(5)).Return(film(5, []string{"drama"}, 7, 7), nil).Once()
	f.ratings.On("Create", mock.Anything, int64(3), int64(5), 4, "good").
		Return(models.Rating{ID: 1, UserID: 3, MovieID: 5, Score: 4, Review: "good"}, nil).Once()

	r, err := f.svc.Create(context.Background(), viewer, models.CreateRatingRequest{MovieID: 5, Score: 4, Review: "good"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.ID)

	assertGone(t, f.cache,
		cache.RecommendationsKey("3", 10),
		cache.UserStatsKey(3),
		cache.UserRatingsKey(3),
		cache.MatchScoreKey("3", 99),
		cache.MovieDetailKey(5),
		cache.SimilarKey(5, 10),
		cache.MatchScoreKey("4", 5),
	)
	// Other viewers' lists are left to expire.
	assertKept(t, f.cache,
		cache.RecommendationsKey("4", 10),
		cache.RecommendationsKey("anonymous", 10),
		cache.UserStatsKey(4),
	)
}

func TestCreateRatingErrors(t *testing.T) {
	f := newRatingFixture(t)
	ctx := context.Background()
	viewer := models.AuthenticatedViewer(3, false)

	_, err := f.svc.Create(ctx, models.Anonymous(), models.CreateRatingRequest{MovieID: 5, Score: 4})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.svc.Create(ctx, viewer, models.CreateRatingRequest{MovieID: 5, Score: 6})
	assert.ErrorIs(t, err, ErrInvalidInput)

	f.movies.On("GetByID", mock.Anything, int64(404)).Return(models.Movie{}, repository.ErrNotFound).Once()
	_, err = f.svc.Create(ctx, viewer, models.CreateRatingRequest{MovieID: 404, Score: 3})
	assert.ErrorIs(t, err, ErrMovieNotFound)

	f.movies.On("GetByID", mock.Anything, int64(5)).Return(film(5, nil, 7, 7), nil).Once()
	f.ratings.On("Create", mock.Anything, int64(3), int64(5), 3, "").Return(models.Rating{}, repository.ErrConflict).Once()
	_, err = f.svc.Create(ctx, viewer, models.CreateRatingRequest{MovieID: 5, Score: 3})
	assert.ErrorIs(t, err, ErrDuplicateRating)
}

func TestUpdateRatingOwnerOnly(t *testing.T) {
	f := newRatingFixture(t)
	ctx := context.Background()
	existing := models.Rating{ID: 1, UserID: 3, MovieID: 5, Score: 2}

	f.ratings.On("GetByID", mock.Anything, int64(1)).Return(existing, nil)

	_, err := f.svc.Update(ctx, models.AuthenticatedViewer(4, true), 1, models.UpdateRatingRequest{Score: 5})
	assert.ErrorIs(t, err, ErrForbidden)

	seed(t, f.cache, cache.UserStatsKey(3))
	f.ratings.On("Update", mock.Anything, int64(1), 5, "changed my mind").
		Return(models.Rating{ID: 1, UserID: 3, MovieID: 5, Score: 5}, nil).Once()

	r, err := f.svc.Update(ctx, models.AuthenticatedViewer(3, false), 1, models.UpdateRatingRequest{Score: 5, Review: "changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Score)
	assertGone(t, f.cache, cache.UserStatsKey(3))
}

func TestDeleteRating(t *testing.T) {
	f := newRatingFixture(t)
	ctx := context.Background()

	f.ratings.On("GetByID", mock.Anything, int64(1)).Return(models.Rating{ID: 1, UserID: 3, MovieID: 5}, nil)
	f.ratings.On("GetByID", mock.Anything, int64(2)).Return(models.Rating{}, repository.ErrNotFound).Once()
	f.ratings.On("Delete", mock.Anything, int64(1)).Return(nil).Once()

	assert.ErrorIs(t, f.svc.Delete(ctx, models.AuthenticatedViewer(4, false), 1), ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, models.AuthenticatedViewer(4, false), 2), ErrRatingNotFound)
	require.NoError(t, f.svc.Delete(ctx, models.AuthenticatedViewer(9, true), 1))
}

func TestListMyRatings(t *testing.T) {
	f := newRatingFixture(t)

	_, err := f.svc.ListMine(context.Background(), models.Anonymous())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	f.ratings.On("ListByUser", mock.Anything, int64(3)).Return([]models.Rating{{ID: 1}, {ID: 2}}, nil).Once()
	for range 2 {
		got, err := f.svc.ListMine(context.Background(), models.AuthenticatedViewer(3, false))
		require.NoError(t, err)
		assert.Len(t, got, 2)
	}
}
