package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"movie-nexus-api/internal/models"
)

const movieColumns = `m.id, m.tmdb_id, m.title, m.overview,
	COALESCE(TO_CHAR(m.release_date, 'YYYY-MM-DD'), '') AS release_date,
	m.poster_path, m.backdrop_path, m.vote_average, m.vote_count, m.popularity,
	m.genres, m.runtime, m.created_at, m.updated_at`

type movieRow struct {
	ID           int64          `db:"id"`
	TMDBId       sql.NullInt64  `db:"tmdb_id"`
	Title        string         `db:"title"`
	Overview     string         `db:"overview"`
	ReleaseDate  string         `db:"release_date"`
	PosterPath   string         `db:"poster_path"`
	BackdropPath string         `db:"backdrop_path"`
	VoteAverage  float64        `db:"vote_average"`
	VoteCount    int            `db:"vote_count"`
	Popularity   float64        `db:"popularity"`
	Genres       pq.StringArray `db:"genres"`
	Runtime      sql.NullInt64  `db:"runtime"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r movieRow) ToDomain() models.Movie {
	m := models.Movie{
		ID:           r.ID,
		TMDBId:       r.TMDBId.Int64,
		Title:        r.Title,
		Overview:     r.Overview,
		ReleaseDate:  r.ReleaseDate,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		VoteAverage:  r.VoteAverage,
		VoteCount:    r.VoteCount,
		Popularity:   r.Popularity,
		Genres:       genresOrEmpty(r.Genres),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Runtime.Valid {
		rt := int(r.Runtime.Int64)
		m.Runtime = &rt
	}
	return m
}

func moviesToDomain(rows []movieRow) []models.Movie {
	out := make([]models.Movie, len(rows))
	for i, r := range rows {
		out[i] = r.ToDomain()
	}
	return out
}

func genresOrEmpty(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableTMDBId(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}

type profileRow struct {
	UserID         int64          `db:"user_id"`
	FavoriteGenres pq.StringArray `db:"favorite_genres"`
	Bio            string         `db:"bio"`
	AvatarURL      string         `db:"avatar_url"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r profileRow) ToDomain() models.UserProfile {
	return models.UserProfile{
		UserID:         r.UserID,
		FavoriteGenres: genresOrEmpty(r.FavoriteGenres),
		Bio:            r.Bio,
		AvatarURL:      r.AvatarURL,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type ratedMovieRow struct {
	RatingID int64          `db:"rating_id"`
	MovieID  int64          `db:"movie_id"`
	Title    string         `db:"title"`
	Score    int            `db:"score"`
	Genres   pq.StringArray `db:"genres"`
	Runtime  sql.NullInt64  `db:"runtime"`
	RatedAt  time.Time      `db:"rated_at"`
}

func (r ratedMovieRow) ToDomain() models.RatedMovie {
	rm := models.RatedMovie{
		RatingID: r.RatingID,
		MovieID:  r.MovieID,
		Title:    r.Title,
		Score:    r.Score,
		Genres:   genresOrEmpty(r.Genres),
		RatedAt:  r.RatedAt,
	}
	if r.Runtime.Valid {
		rt := int(r.Runtime.Int64)
		rm.Runtime = &rt
	}
	return rm
}

type ratingRow struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	MovieID   int64     `db:"movie_id"`
	Score     int       `db:"score"`
	Review    string    `db:"review"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r ratingRow) ToDomain() models.Rating {
	return models.Rating{
		ID:        r.ID,
		UserID:    r.UserID,
		MovieID:   r.MovieID,
		Score:     r.Score,
		Review:    r.Review,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
