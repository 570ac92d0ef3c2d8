package service

import (
	"errors"
	"fmt"

	"movie-nexus-api/internal/repository"
	"movie-nexus-api/internal/validation"
)

var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrRatingNotFound   = errors.New("rating not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthenticated  = errors.New("authentication required")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicateRating  = errors.New("you have already rated this movie")
	ErrUserExists       = errors.New("username or email already taken")
)

// translate replaces repository.ErrNotFound with the domain sentinel and wraps anything else.
func translate(err error, notFound error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func validate(req any) error {
	if err := validation.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
