package service

import (
	"context"
	"errors"
	"fmt"

	"movie-nexus-api/internal/cache"
	"movie-nexus-api/internal/config"
	"movie-nexus-api/internal/models"
	"movie-nexus-api/internal/repository"
)

// RatingService handles rating mutations and keeps dependent cache entries coherent.
type RatingService struct {
	ratings RatingStore
	movies  MovieStore
	cache   *cache.Cache
	ttl     config.CacheConfig
}

// NewRatingService creates a new RatingService.
func NewRatingService(ratings RatingStore, movies MovieStore, c *cache.Cache, ttl config.CacheConfig) *RatingService {
	return &RatingService{ratings: ratings, movies: movies, cache: c, ttl: ttl}
}

// Create rates a movie on behalf of the viewer.
func (s *RatingService) Create(ctx context.Context, viewer models.Viewer, req models.CreateRatingRequest) (models.Rating, error) {
	if !viewer.Authenticated {
		return models.Rating{}, ErrUnauthenticated
	}
	if err := validate(req); err != nil {
		return models.Rating{}, err
	}
	if _, err := s.movies.GetByID(ctx, req.MovieID); err != nil {
		return models.Rating{}, translate(err, ErrMovieNotFound, "get movie")
	}

	r, err := s.ratings.Create(ctx, viewer.UserID, req.MovieID, req.Score, req.Review)
	if errors.Is(err, repository.ErrConflict) {
		return models.Rating{}, ErrDuplicateRating
	}
	if err != nil {
		return models.Rating{}, fmt.Errorf("failed to create rating: %w", err)
	}

	s.cache.InvalidateRating(ctx, r.UserID, r.MovieID)
	return r, nil
}

// Update changes the score and review. Only the rating's owner may do this.
func (s *RatingService) Update(ctx context.Context, viewer models.Viewer, id int64, req models.UpdateRatingRequest) (models.Rating, error) {
	existing, err := s.owned(ctx, viewer, id, false)
	if err != nil {
		return models.Rating{}, err
	}
	if err := validate(req); err != nil {
		return models.Rating{}, err
	}

	r, err := s.ratings.Update(ctx, id, req.Score, req.Review)
	if err != nil {
		return models.Rating{}, translate(err, ErrRatingNotFound, "update rating")
	}

	s.cache.InvalidateRating(ctx, existing.UserID, existing.MovieID)
	return r, nil
}

// Delete removes a rating. The owner or a staff member may do this.
func (s *RatingService) Delete(ctx context.Context, viewer models.Viewer, id int64) error {
	existing, err := s.owned(ctx, viewer, id, true)
	if err != nil {
		return err
	}
	if err := s.ratings.Delete(ctx, id); err != nil {
		return translate(err, ErrRatingNotFound, "delete rating")
	}

	s.cache.InvalidateRating(ctx, existing.UserID, existing.MovieID)
	return nil
}

// ListMine returns the viewer's ratings, newest first.
func (s *RatingService) ListMine(ctx context.Context, viewer models.Viewer) ([]models.Rating, error) {
	if !viewer.Authenticated {
		return nil, ErrUnauthenticated
	}
	return cache.GetOrCompute(ctx, s.cache, cache.UserRatingsKey(viewer.UserID), s.ttl.StatsTTL, func(ctx context.Context) ([]models.Rating, error) {
		ratings, err := s.ratings.ListByUser(ctx, viewer.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to list ratings: %w", err)
		}
		return ratings, nil
	})
}

func (s *RatingService) owned(ctx context.Context, viewer models.Viewer, id int64, staffAllowed bool) (models.Rating, error) {
	if !viewer.Authenticated {
		return models.Rating{}, ErrUnauthenticated
	}
	r, err := s.ratings.GetByID(ctx, id)
	if err != nil {
		return models.Rating{}, translate(err, ErrRatingNotFound, "get rating")
	}
	if r.UserID != viewer.UserID && !(staffAllowed && viewer.IsStaff) {
		return models.Rating{}, ErrForbidden
	}
	return r, nil
}
