package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ratingCols = []string{"id", "user_id", "movie_id", "score", "review", "created_at", "updated_at"}

func TestRatingCreateConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRatingRepository(db)

	mock.ExpectQuery(`INSERT INTO ratings`).
		WithArgs(int64(1), int64(2), 5, "great").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), 1, 2, 5, "great")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRatingCreateAndUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRatingRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO ratings`).
		WillReturnRows(sqlmock.NewRows(ratingCols).AddRow(10, 1, 2, 4, "", now, now))
	mock.ExpectQuery(`UPDATE ratings SET score = \$2, review = \$3`).
		WithArgs(int64(10), 2, "meh").
		WillReturnRows(sqlmock.NewRows(ratingCols).AddRow(10, 1, 2, 2, "meh", now, now))

	r, err := repo.Create(context.Background(), 1, 2, 4, "")
	require.NoError(t, err)
	assert.Equal(t, int64(10), r.ID)
	assert.Equal(t, int64(2), r.MovieID)

	r, err = repo.Update(context.Background(), 10, 2, "meh")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Score)
}

func TestRatingDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRatingRepository(db)

	mock.ExpectExec(`DELETE FROM ratings WHERE id = \$1`).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM ratings WHERE id = \$1`).WithArgs(int64(11)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 10))
	assert.ErrorIs(t, repo.Delete(context.Background(), 11), ErrNotFound)
}

func TestRatedMoviesAndLikedGenres(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRatingRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM ratings r\s+JOIN movies m ON m.id = r.movie_id\s+WHERE r.user_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"rating_id", "movie_id", "title", "score", "genres", "runtime", "rated_at"}).
			AddRow(1, 5, "Heat", 5, "{crime,drama}", 170, now).
			AddRow(2, 6, "Cats", 1, "{musical}", nil, now))
	mock.ExpectQuery(`UNNEST\(m.genres\)`).
		WithArgs(int64(1), 4).
		WillReturnRows(sqlmock.NewRows([]string{"array_agg"}).AddRow("{crime,drama}"))

	rated, err := repo.RatedMovies(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rated, 2)
	assert.Equal(t, 170, *rated[0].Runtime)
	assert.Nil(t, rated[1].Runtime)

	genres, err := repo.LikedGenres(context.Background(), 1, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"crime", "drama"}, genres)
}
