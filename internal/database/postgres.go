package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"movie-nexus-api/internal/config"
)

// NewPostgres opens a PostgreSQL connection pool and runs migrations.
func NewPostgres(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	slog.Info("connected to PostgreSQL", "db", cfg.Name)

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed", "statements", len(migrations))
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id BIGSERIAL PRIMARY KEY,
		tmdb_id BIGINT UNIQUE,
		title VARCHAR(255) NOT NULL,
		overview TEXT NOT NULL DEFAULT '',
		release_date DATE,
		poster_path VARCHAR(500) NOT NULL DEFAULT '',
		backdrop_path VARCHAR(500) NOT NULL DEFAULT '',
		vote_average DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (vote_average BETWEEN 0 AND 10),
		vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
		popularity DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (popularity >= 0),
		genres TEXT[] NOT NULL DEFAULT '{}',
		runtime INTEGER CHECK (runtime IS NULL OR runtime >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(150) UNIQUE NOT NULL,
		email VARCHAR(254) UNIQUE NOT NULL,
		is_staff BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		favorite_genres TEXT[] NOT NULL DEFAULT '{}',
		bio TEXT NOT NULL DEFAULT '',
		avatar_url VARCHAR(500) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		movie_id BIGINT NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
		score SMALLINT NOT NULL CHECK (score BETWEEN 1 AND 5),
		review VARCHAR(1000) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, movie_id)
	)`,
	`CREATE TABLE IF NOT EXISTS playlists (
		id BIGSERIAL PRIMARY KEY,
		owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		visibility VARCHAR(10) NOT NULL DEFAULT 'private' CHECK (visibility IN ('public', 'private')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS playlist_movies (
		playlist_id BIGINT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
		movie_id BIGINT NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (playlist_id, movie_id)
	)`,
	// Indexes for common query patterns
	`CREATE INDEX IF NOT EXISTS idx_movies_popularity ON movies(popularity DESC, id)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_vote_average ON movies(vote_average DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_release_date ON movies(release_date)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_created_at ON movies(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_genres ON movies USING GIN (genres)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_movie ON ratings(movie_id)`,
	`CREATE INDEX IF NOT EXISTS idx_playlists_owner ON playlists(owner_id)`,
}
