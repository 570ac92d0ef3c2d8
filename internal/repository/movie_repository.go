package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"movie-nexus-api/internal/models"
)

// MovieRepository handles database operations for movies.
type MovieRepository struct {
	db *sqlx.DB
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *sqlx.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// GetByID returns a single movie or ErrNotFound.
func (r *MovieRepository) GetByID(ctx context.Context, id int64) (models.Movie, error) {
	var row movieRow
	err := r.db.GetContext(ctx, &row, `SELECT `+movieColumns+` FROM movies m WHERE m.id = $1`, id)
	if err != nil {
		return models.Movie{}, fmt.Errorf("get movie %d: %w", id, mapError(err))
	}
	return row.ToDomain(), nil
}

// List returns a paginated list of movies matching the given filters.
// params must have been normalized with Validate.
func (r *MovieRepository) List(ctx context.Context, params models.MovieListParams) (*models.MovieListResponse, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if params.Title != "" {
		conditions = append(conditions, fmt.Sprintf("m.title ILIKE $%d", argIdx))
		args = append(args, "%"+params.Title+"%")
		argIdx++
	}
	if params.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(m.genres)", argIdx))
		args = append(args, params.Genre)
		argIdx++
	}
	if params.MinRating > 0 {
		conditions = append(conditions, fmt.Sprintf("m.vote_average >= $%d", argIdx))
		args = append(args, params.MinRating)
		argIdx++
	}
	if params.MinPopularity > 0 {
		conditions = append(conditions, fmt.Sprintf("m.popularity >= $%d", argIdx))
		args = append(args, params.MinPopularity)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Validate sort column to prevent SQL injection
	sortColumn := "popularity"
	switch params.SortBy {
	case "vote_average", "release_date", "created_at", "title":
		sortColumn = params.SortBy
	}
	orderDir := "DESC"
	if params.Order == "asc" {
		orderDir = "ASC"
	}

	var totalResults int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM movies m WHERE %s", whereClause)
	if err := r.db.GetContext(ctx, &totalResults, countQuery, args...); err != nil {
		return nil, fmt.Errorf("count query failed: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	totalPages := 0
	if totalResults > 0 {
		totalPages = (totalResults + params.PageSize - 1) / params.PageSize
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM movies m WHERE %s
		ORDER BY m.%s %s NULLS LAST, m.id ASC
		LIMIT $%d OFFSET $%d`,
		movieColumns, whereClause, sortColumn, orderDir, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	var rows []movieRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}

	items := make([]models.MovieListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.ToDomain().ListItem())
	}

	return &models.MovieListResponse{
		Page:         params.Page,
		PageSize:     params.PageSize,
		TotalPages:   totalPages,
		TotalResults: totalResults,
		Data:         items,
	}, nil
}

// MostPopular returns movies ordered by popularity.
func (r *MovieRepository) MostPopular(ctx context.Context, limit int) ([]models.Movie, error) {
	return r.selectMovies(ctx, `SELECT `+movieColumns+` FROM movies m
		ORDER BY m.popularity DESC, m.id ASC LIMIT $1`, limit)
}

// MostRecent returns the most recently added movies.
func (r *MovieRepository) MostRecent(ctx context.Context, limit int) ([]models.Movie, error) {
	return r.selectMovies(ctx, `SELECT `+movieColumns+` FROM movies m
		ORDER BY m.created_at DESC, m.id DESC LIMIT $1`, limit)
}

// TopRated returns movies with at least minVotes votes ordered by vote average.
func (r *MovieRepository) TopRated(ctx context.Context, minVotes, limit int) ([]models.Movie, error) {
	return r.selectMovies(ctx, `SELECT `+movieColumns+` FROM movies m
		WHERE m.vote_count >= $1
		ORDER BY m.vote_average DESC, m.vote_count DESC, m.id ASC LIMIT $2`, minVotes, limit)
}

// RecommendationCandidates returns up to limit movies by popularity, skipping
// every movie the viewer has rated when the viewer is authenticated.
func (r *MovieRepository) RecommendationCandidates(ctx context.Context, viewer models.Viewer, limit int) ([]models.Movie, error) {
	if !viewer.Authenticated {
		return r.MostPopular(ctx, limit)
	}
	return r.selectMovies(ctx, `SELECT `+movieColumns+` FROM movies m
		WHERE NOT EXISTS (SELECT 1 FROM ratings r WHERE r.movie_id = m.id AND r.user_id = $1)
		ORDER BY m.popularity DESC, m.id ASC LIMIT $2`, viewer.UserID, limit)
}

// SharingGenres returns every other movie that has at least one of the genres.
func (r *MovieRepository) SharingGenres(ctx context.Context, excludeID int64, genres []string) ([]models.Movie, error) {
	return r.selectMovies(ctx, `SELECT `+movieColumns+` FROM movies m
		WHERE m.id <> $1 AND m.genres && $2
		ORDER BY m.popularity DESC, m.id ASC`, excludeID, pq.StringArray(genres))
}

// TrendingByGenre returns up to limit movies tagged with genre, most popular first.
// The genre filter is applied before the limit.
func (r *MovieRepository) TrendingByGenre(ctx context.Context, genre string, limit int) ([]models.Movie, error) {
	return r.selectMovies(ctx, `SELECT `+movieColumns+` FROM movies m
		WHERE $1 = ANY(m.genres)
		ORDER BY m.popularity DESC, m.vote_average DESC, m.id ASC LIMIT $2`, genre, limit)
}

// Upsert inserts or updates a movie keyed by tmdb_id and returns its id.
// The returned bool reports whether an existing row was updated.
func (r *MovieRepository) Upsert(ctx context.Context, m models.Movie) (int64, bool, error) {
	var res struct {
		ID      int64 `db:"id"`
		Updated bool  `db:"updated"`
	}
	err := r.db.GetContext(ctx, &res, `
		INSERT INTO movies (tmdb_id, title, overview, release_date, poster_path, backdrop_path,
			vote_average, vote_count, popularity, genres, runtime, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::date, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (tmdb_id) DO UPDATE SET
			title = EXCLUDED.title,
			overview = EXCLUDED.overview,
			release_date = EXCLUDED.release_date,
			poster_path = EXCLUDED.poster_path,
			backdrop_path = EXCLUDED.backdrop_path,
			vote_average = EXCLUDED.vote_average,
			vote_count = EXCLUDED.vote_count,
			popularity = EXCLUDED.popularity,
			genres = EXCLUDED.genres,
			runtime = COALESCE(EXCLUDED.runtime, movies.runtime),
			updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax <> 0) AS updated
	`, nullableTMDBId(m.TMDBId), m.Title, m.Overview, m.ReleaseDate, m.PosterPath, m.BackdropPath,
		m.VoteAverage, m.VoteCount, m.Popularity, pq.StringArray(m.Genres), nullableInt(m.Runtime))
	if err != nil {
		return 0, false, fmt.Errorf("upsert movie %q: %w", m.Title, mapError(err))
	}
	return res.ID, res.Updated, nil
}

// Update overwrites the editable fields of a movie and returns the stored row.
func (r *MovieRepository) Update(ctx context.Context, id int64, u models.MovieUpdate) (models.Movie, error) {
	var row movieRow
	err := r.db.GetContext(ctx, &row, `
		WITH m AS (
			UPDATE movies SET
				title = $2, overview = $3, release_date = NULLIF($4, '')::date,
				genres = $5, vote_average = $6, vote_count = $7, popularity = $8,
				runtime = $9, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+movieColumns+` FROM m`,
		id, u.Title, u.Overview, u.ReleaseDate, pq.StringArray(u.Genres),
		u.VoteAverage, u.VoteCount, u.Popularity, nullableInt(u.Runtime))
	if err != nil {
		return models.Movie{}, fmt.Errorf("update movie %d: %w", id, mapError(err))
	}
	return row.ToDomain(), nil
}

func (r *MovieRepository) selectMovies(ctx context.Context, query string, args ...any) ([]models.Movie, error) {
	var rows []movieRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	return moviesToDomain(rows), nil
}
