package service

import (
	"context"
	"fmt"

	"movie-nexus-api/internal/cache"
	"movie-nexus-api/internal/config"
	"movie-nexus-api/internal/models"
)

// PlaylistService handles playlists and their access rules.
type PlaylistService struct {
	playlists PlaylistStore
	movies    MovieStore
	cache     *cache.Cache
	ttl       config.CacheConfig
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(playlists PlaylistStore, movies MovieStore, c *cache.Cache, ttl config.CacheConfig) *PlaylistService {
	return &PlaylistService{playlists: playlists, movies: movies, cache: c, ttl: ttl}
}

// Create stores a playlist owned by the viewer. Visibility defaults to private.
func (s *PlaylistService) Create(ctx context.Context, viewer models.Viewer, req models.PlaylistRequest) (models.Playlist, error) {
	if !viewer.Authenticated {
		return models.Playlist{}, ErrUnauthenticated
	}
	if err := validate(req); err != nil {
		return models.Playlist{}, err
	}
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPrivate
	}

	p, err := s.playlists.Create(ctx, viewer.UserID, req)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("failed to create playlist: %w", err)
	}
	s.cache.InvalidatePlaylists(ctx, viewer.UserID)
	return p, nil
}

// Get returns a playlist the viewer is allowed to read.
// Private playlists of other users look like they do not exist.
func (s *PlaylistService) Get(ctx context.Context, viewer models.Viewer, id int64) (models.Playlist, error) {
	p, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return models.Playlist{}, translate(err, ErrPlaylistNotFound, "get playlist")
	}
	if !p.AccessibleBy(viewer) {
		return models.Playlist{}, ErrPlaylistNotFound
	}
	return p, nil
}

// ListVisible returns public playlists plus the viewer's own.
func (s *PlaylistService) ListVisible(ctx context.Context, viewer models.Viewer, page, pageSize int) ([]models.Playlist, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	out, err := s.playlists.ListVisible(ctx, viewer, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	return out, nil
}

// ListMine returns every playlist the viewer owns.
func (s *PlaylistService) ListMine(ctx context.Context, viewer models.Viewer) ([]models.Playlist, error) {
	if !viewer.Authenticated {
		return nil, ErrUnauthenticated
	}
	return cache.GetOrCompute(ctx, s.cache, cache.PlaylistKey(viewer.UserID), s.ttl.ListTTL, func(ctx context.Context) ([]models.Playlist, error) {
		out, err := s.playlists.ListByOwner(ctx, viewer.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to list playlists: %w", err)
		}
		return out, nil
	})
}

// Update edits a playlist. Owner or staff.
func (s *PlaylistService) Update(ctx context.Context, viewer models.Viewer, id int64, req models.PlaylistRequest) (models.Playlist, error) {
	p, err := s.authorize(ctx, viewer, id, true)
	if err != nil {
		return models.Playlist{}, err
	}
	if err := validate(req); err != nil {
		return models.Playlist{}, err
	}
	if req.Visibility == "" {
		req.Visibility = p.Visibility
	}

	if err := s.playlists.Update(ctx, id, req); err != nil {
		return models.Playlist{}, translate(err, ErrPlaylistNotFound, "update playlist")
	}
	s.cache.InvalidatePlaylists(ctx, p.OwnerID)

	updated, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return models.Playlist{}, translate(err, ErrPlaylistNotFound, "get playlist")
	}
	return updated, nil
}

// Delete removes a playlist. Owner or staff.
func (s *PlaylistService) Delete(ctx context.Context, viewer models.Viewer, id int64) error {
	p, err := s.authorize(ctx, viewer, id, true)
	if err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, id); err != nil {
		return translate(err, ErrPlaylistNotFound, "delete playlist")
	}
	s.cache.InvalidatePlaylists(ctx, p.OwnerID)
	return nil
}

// AddMovie links a movie to a playlist. Owner only.
func (s *PlaylistService) AddMovie(ctx context.Context, viewer models.Viewer, id int64, req models.PlaylistMovieRequest) error {
	p, err := s.authorize(ctx, viewer, id, false)
	if err != nil {
		return err
	}
	if err := validate(req); err != nil {
		return err
	}
	if _, err := s.movies.GetByID(ctx, req.MovieID); err != nil {
		return translate(err, ErrMovieNotFound, "get movie")
	}
	if err := s.playlists.AddMovie(ctx, id, req.MovieID); err != nil {
		return fmt.Errorf("failed to add movie: %w", err)
	}
	s.cache.InvalidatePlaylists(ctx, p.OwnerID)
	return nil
}

// RemoveMovie unlinks a movie from a playlist. Owner only.
func (s *PlaylistService) RemoveMovie(ctx context.Context, viewer models.Viewer, id, movieID int64) error {
	p, err := s.authorize(ctx, viewer, id, false)
	if err != nil {
		return err
	}
	if err := s.playlists.RemoveMovie(ctx, id, movieID); err != nil {
		return translate(err, ErrMovieNotFound, "remove movie")
	}
	s.cache.InvalidatePlaylists(ctx, p.OwnerID)
	return nil
}

func (s *PlaylistService) authorize(ctx context.Context, viewer models.Viewer, id int64, staffAllowed bool) (models.Playlist, error) {
	if !viewer.Authenticated {
		return models.Playlist{}, ErrUnauthenticated
	}
	p, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return models.Playlist{}, translate(err, ErrPlaylistNotFound, "get playlist")
	}
	switch {
	case p.OwnerID == viewer.UserID, staffAllowed && viewer.IsStaff:
		return p, nil
	case p.AccessibleBy(viewer):
		return models.Playlist{}, ErrForbidden
	default:
		return models.Playlist{}, ErrPlaylistNotFound
	}
}
