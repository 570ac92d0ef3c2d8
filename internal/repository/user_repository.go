package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"movie-nexus-api/internal/models"
)

// UserRepository handles users and their profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const profileColumns = `user_id, favorite_genres, bio, avatar_url, created_at, updated_at`

// CreateWithProfile inserts a user and its profile in one transaction, so a
// user never exists without a profile. favoriteGenres must already be normalized.
func (r *UserRepository) CreateWithProfile(ctx context.Context, username, email string, favoriteGenres []string) (models.User, models.UserProfile, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.User{}, models.UserProfile{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var user models.User
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO users (username, email)
		VALUES ($1, $2)
		RETURNING id, username, email, is_staff, created_at
	`, username, email).Scan(&user.ID, &user.Username, &user.Email, &user.IsStaff, &user.CreatedAt)
	if err != nil {
		return models.User{}, models.UserProfile{}, fmt.Errorf("insert user: %w", mapError(err))
	}

	var row profileRow
	err = tx.GetContext(ctx, &row, `
		INSERT INTO user_profiles (user_id, favorite_genres)
		VALUES ($1, $2)
		RETURNING `+profileColumns, user.ID, pq.StringArray(favoriteGenres))
	if err != nil {
		return models.User{}, models.UserProfile{}, fmt.Errorf("insert profile: %w", mapError(err))
	}

	if err := tx.Commit(); err != nil {
		return models.User{}, models.UserProfile{}, fmt.Errorf("commit: %w", err)
	}
	return user, row.ToDomain(), nil
}

// GetUser returns a user or ErrNotFound.
func (r *UserRepository) GetUser(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx,
		`SELECT id, username, email, is_staff, created_at FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.IsStaff, &user.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("get user %d: %w", id, mapError(err))
	}
	return user, nil
}

// GetProfile returns the profile of a user or ErrNotFound.
func (r *UserRepository) GetProfile(ctx context.Context, userID int64) (models.UserProfile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, `SELECT `+profileColumns+` FROM user_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("get profile %d: %w", userID, mapError(err))
	}
	return row.ToDomain(), nil
}

// UpdateProfile overwrites the editable profile fields. favoriteGenres must already be normalized.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, favoriteGenres []string, bio, avatarURL string) (models.UserProfile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, `
		UPDATE user_profiles
		SET favorite_genres = $2, bio = $3, avatar_url = $4, updated_at = NOW()
		WHERE user_id = $1
		RETURNING `+profileColumns, userID, pq.StringArray(favoriteGenres), bio, avatarURL)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("update profile %d: %w", userID, mapError(err))
	}
	return row.ToDomain(), nil
}
