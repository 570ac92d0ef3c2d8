package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"movie-nexus-api/internal/models"
)

// PlaylistRepository handles playlists and their movies.
type PlaylistRepository struct {
	db *sqlx.DB
}

// NewPlaylistRepository creates a new PlaylistRepository.
func NewPlaylistRepository(db *sqlx.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

const playlistSelect = `SELECT p.id, p.owner_id, p.name, p.description, p.visibility,
	(SELECT COUNT(*) FROM playlist_movies pm WHERE pm.playlist_id = p.id) AS movie_count,
	p.created_at, p.updated_at
	FROM playlists p`

type playlistRow struct {
	ID          int64     `db:"id"`
	OwnerID     int64     `db:"owner_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Visibility  string    `db:"visibility"`
	MovieCount  int       `db:"movie_count"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r playlistRow) ToDomain() models.Playlist {
	return models.Playlist{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Description: r.Description,
		Visibility:  r.Visibility,
		MovieCount:  r.MovieCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Create stores a new playlist.
func (r *PlaylistRepository) Create(ctx context.Context, ownerID int64, req models.PlaylistRequest) (models.Playlist, error) {
	var row playlistRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO playlists (owner_id, name, description, visibility)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, name, description, visibility, 0 AS movie_count, created_at, updated_at
	`, ownerID, req.Name, req.Description, req.Visibility)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("create playlist: %w", mapError(err))
	}
	return row.ToDomain(), nil
}

// GetByID returns a playlist with its movies, or ErrNotFound.
func (r *PlaylistRepository) GetByID(ctx context.Context, id int64) (models.Playlist, error) {
	var row playlistRow
	if err := r.db.GetContext(ctx, &row, playlistSelect+` WHERE p.id = $1`, id); err != nil {
		return models.Playlist{}, fmt.Errorf("get playlist %d: %w", id, mapError(err))
	}

	var movies []movieRow
	err := r.db.SelectContext(ctx, &movies, `SELECT `+movieColumns+`
		FROM playlist_movies pm
		JOIN movies m ON m.id = pm.movie_id
		WHERE pm.playlist_id = $1
		ORDER BY pm.added_at ASC, m.id ASC`, id)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("playlist %d movies: %w", id, err)
	}

	p := row.ToDomain()
	p.Movies = make([]models.MovieListItem, len(movies))
	for i, m := range movies {
		p.Movies[i] = m.ToDomain().ListItem()
	}
	return p, nil
}

// ListByOwner returns every playlist of the owner, newest first.
func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Playlist, error) {
	return r.selectPlaylists(ctx, playlistSelect+` WHERE p.owner_id = $1
		ORDER BY p.created_at DESC, p.id DESC`, ownerID)
}

// ListVisible returns public playlists plus the viewer's own ones.
func (r *PlaylistRepository) ListVisible(ctx context.Context, viewer models.Viewer, limit, offset int) ([]models.Playlist, error) {
	if !viewer.Authenticated {
		return r.selectPlaylists(ctx, playlistSelect+` WHERE p.visibility = 'public'
			ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2`, limit, offset)
	}
	return r.selectPlaylists(ctx, playlistSelect+` WHERE p.visibility = 'public' OR p.owner_id = $1
		ORDER BY p.created_at DESC, p.id DESC LIMIT $2 OFFSET $3`, viewer.UserID, limit, offset)
}

// Update overwrites name, description and visibility.
func (r *PlaylistRepository) Update(ctx context.Context, id int64, req models.PlaylistRequest) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE playlists SET name = $2, description = $3, visibility = $4, updated_at = NOW()
		WHERE id = $1`, id, req.Name, req.Description, req.Visibility)
	if err != nil {
		return fmt.Errorf("update playlist %d: %w", id, err)
	}
	return expectAffected(res, "update playlist", id)
}

// Delete removes a playlist and its movie links.
func (r *PlaylistRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist %d: %w", id, err)
	}
	return expectAffected(res, "delete playlist", id)
}

// AddMovie links a movie to a playlist. Adding a movie twice is a no-op.
func (r *PlaylistRepository) AddMovie(ctx context.Context, playlistID, movieID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO playlist_movies (playlist_id, movie_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, playlistID, movieID)
	if err != nil {
		return fmt.Errorf("add movie %d to playlist %d: %w", movieID, playlistID, err)
	}
	_, err = r.db.ExecContext(ctx, `UPDATE playlists SET updated_at = NOW() WHERE id = $1`, playlistID)
	return err
}

// RemoveMovie unlinks a movie. ErrNotFound if it was not in the playlist.
func (r *PlaylistRepository) RemoveMovie(ctx context.Context, playlistID, movieID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM playlist_movies WHERE playlist_id = $1 AND movie_id = $2`, playlistID, movieID)
	if err != nil {
		return fmt.Errorf("remove movie %d from playlist %d: %w", movieID, playlistID, err)
	}
	return expectAffected(res, "remove playlist movie", movieID)
}

func (r *PlaylistRepository) selectPlaylists(ctx context.Context, query string, args ...any) ([]models.Playlist, error) {
	var rows []playlistRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}
	out := make([]models.Playlist, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out, nil
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func expectAffected(res rowsAffecter, op string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, id, ErrNotFound)
	}
	return nil
}
