package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"movie-nexus-api/internal/cache"
	"movie-nexus-api/internal/config"
	"movie-nexus-api/internal/models"
	"movie-nexus-api/internal/repository"
)

// UserService handles registration and profiles.
type UserService struct {
	users UserStore
	cache *cache.Cache
	ttl   config.CacheConfig
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, c *cache.Cache, ttl config.CacheConfig) *UserService {
	return &UserService{users: users, cache: c, ttl: ttl}
}

// Registration is the result of creating an account.
type Registration struct {
	User    models.User        `json:"user"`
	Profile models.UserProfile `json:"profile"`
}

// Register creates a user and its profile atomically.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (Registration, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return Registration{}, err
	}

	user, profile, err := s.users.CreateWithProfile(ctx, req.Username, req.Email, models.NormalizeGenres(req.FavoriteGenres))
	if errors.Is(err, repository.ErrConflict) {
		return Registration{}, ErrUserExists
	}
	if err != nil {
		return Registration{}, fmt.Errorf("failed to register user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return Registration{User: user, Profile: profile}, nil
}

// GetProfile returns the profile of userID. Profiles are readable by their owner and staff.
func (s *UserService) GetProfile(ctx context.Context, viewer models.Viewer, userID int64) (models.UserProfile, error) {
	if err := canEditProfile(viewer, userID); err != nil {
		return models.UserProfile{}, err
	}
	return cache.GetOrCompute(ctx, s.cache, cache.ProfileKey(userID), s.ttl.StatsTTL, func(ctx context.Context) (models.UserProfile, error) {
		p, err := s.users.GetProfile(ctx, userID)
		if err != nil {
			return models.UserProfile{}, translate(err, ErrProfileNotFound, "get profile")
		}
		return p, nil
	})
}

// UpdateProfile replaces the editable profile fields and drops the user's derived cache entries.
func (s *UserService) UpdateProfile(ctx context.Context, viewer models.Viewer, userID int64, req models.UpdateProfileRequest) (models.UserProfile, error) {
	if err := canEditProfile(viewer, userID); err != nil {
		return models.UserProfile{}, err
	}
	if err := validate(req); err != nil {
		return models.UserProfile{}, err
	}

	p, err := s.users.UpdateProfile(ctx, userID, models.NormalizeGenres(req.FavoriteGenres), req.Bio, req.AvatarURL)
	if err != nil {
		return models.UserProfile{}, translate(err, ErrProfileNotFound, "update profile")
	}

	s.cache.InvalidateUser(ctx, userID)
	return p, nil
}

func canEditProfile(viewer models.Viewer, userID int64) error {
	if !viewer.Authenticated {
		return ErrUnauthenticated
	}
	if viewer.UserID != userID && !viewer.IsStaff {
		return ErrForbidden
	}
	return nil
}
