package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"movie-nexus-api/internal/models"
)

// RatingRepository handles user ratings.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository creates a new RatingRepository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

const ratingColumns = `id, user_id, movie_id, score, review, created_at, updated_at`

// Create stores a new rating. A second rating of the same movie yields ErrConflict.
func (r *RatingRepository) Create(ctx context.Context, userID, movieID int64, score int, review string) (models.Rating, error) {
	var row ratingRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO ratings (user_id, movie_id, score, review)
		VALUES ($1, $2, $3, $4)
		RETURNING `+ratingColumns, userID, movieID, score, review)
	if err != nil {
		return models.Rating{}, fmt.Errorf("create rating: %w", mapError(err))
	}
	return row.ToDomain(), nil
}

// GetByID returns a rating or ErrNotFound.
func (r *RatingRepository) GetByID(ctx context.Context, id int64) (models.Rating, error) {
	var row ratingRow
	err := r.db.GetContext(ctx, &row, `SELECT `+ratingColumns+` FROM ratings WHERE id = $1`, id)
	if err != nil {
		return models.Rating{}, fmt.Errorf("get rating %d: %w", id, mapError(err))
	}
	return row.ToDomain(), nil
}

// Update changes the score and review of a rating.
func (r *RatingRepository) Update(ctx context.Context, id int64, score int, review string) (models.Rating, error) {
	var row ratingRow
	err := r.db.GetContext(ctx, &row, `
		UPDATE ratings SET score = $2, review = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+ratingColumns, id, score, review)
	if err != nil {
		return models.Rating{}, fmt.Errorf("update rating %d: %w", id, mapError(err))
	}
	return row.ToDomain(), nil
}

// Delete removes a rating.
func (r *RatingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rating %d: %w", id, err)
	}
	return expectAffected(res, "delete rating", id)
}

// ListByUser returns a user's ratings, newest first.
func (r *RatingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Rating, error) {
	var rows []ratingRow
	err := r.db.SelectContext(ctx, &rows, `SELECT `+ratingColumns+` FROM ratings
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings of user %d: %w", userID, err)
	}

	ratings := make([]models.Rating, len(rows))
	for i, row := range rows {
		ratings[i] = row.ToDomain()
	}
	return ratings, nil
}

// RatedMovies joins a user's ratings with the rated movies, newest first.
func (r *RatingRepository) RatedMovies(ctx context.Context, userID int64) ([]models.RatedMovie, error) {
	var rows []ratedMovieRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT r.id AS rating_id, m.id AS movie_id, m.title, r.score, m.genres, m.runtime,
			r.created_at AS rated_at
		FROM ratings r
		JOIN movies m ON m.id = r.movie_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("rated movies of user %d: %w", userID, err)
	}

	out := make([]models.RatedMovie, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out, nil
}

// LikedGenres returns the distinct genres of movies the user rated at least minScore.
func (r *RatingRepository) LikedGenres(ctx context.Context, userID int64, minScore int) ([]string, error) {
	var genres pq.StringArray
	err := r.db.GetContext(ctx, &genres, `
		SELECT COALESCE(ARRAY_AGG(DISTINCT g ORDER BY g), '{}')
		FROM ratings r
		JOIN movies m ON m.id = r.movie_id
		CROSS JOIN LATERAL UNNEST(m.genres) AS g
		WHERE r.user_id = $1 AND r.score >= $2`, userID, minScore)
	if err != nil {
		return nil, fmt.Errorf("liked genres of user %d: %w", userID, err)
	}
	return genresOrEmpty(genres), nil
}
