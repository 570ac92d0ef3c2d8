package models

import (
	"strings"
	"time"
)

// Movie represents a movie stored in our database.
type Movie struct {
	ID           int64     `json:"id"`
	TMDBId       int64     `json:"tmdb_id"`
	Title        string    `json:"title"`
	Overview     string    `json:"overview"`
	ReleaseDate  string    `json:"release_date"`
	PosterPath   string    `json:"poster_path"`
	BackdropPath string    `json:"backdrop_path"`
	VoteAverage  float64   `json:"vote_average"`
	VoteCount    int       `json:"vote_count"`
	Popularity   float64   `json:"popularity"`
	Genres       []string  `json:"genres"`
	Runtime      *int      `json:"runtime,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PosterURL returns the full TMDB poster URL, or "" when the movie has none.
func (m Movie) PosterURL() string {
	if m.PosterPath == "" {
		return ""
	}
	return TMDBImageBaseW500 + m.PosterPath
}

// MovieListItem is the response shape for movie listing.
type MovieListItem struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	Genres      []string `json:"genres"`
	VoteAverage float64  `json:"vote_average"`
	Popularity  float64  `json:"popularity"`
	PosterURL   string   `json:"poster_url"`
}

// ListItem converts a movie into its list representation.
func (m Movie) ListItem() MovieListItem {
	return MovieListItem{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		Genres:      m.Genres,
		VoteAverage: m.VoteAverage,
		Popularity:  m.Popularity,
		PosterURL:   m.PosterURL(),
	}
}

// MovieListResponse is the paginated movie listing response.
type MovieListResponse struct {
	Page         int             `json:"page"`
	PageSize     int             `json:"page_size"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
	Data         []MovieListItem `json:"data"`
}

// MovieListParams holds query parameters for movie listing.
type MovieListParams struct {
	Page          int     `query:"page"`
	PageSize      int     `query:"page_size"`
	SortBy        string  `query:"sort_by"`
	Order         string  `query:"order"`
	Title         string  `query:"title"`
	Genre         string  `query:"genre"`
	MinRating     float64 `query:"min_rating"`
	MinPopularity float64 `query:"min_popularity"`
}

// Validate sets defaults and validates parameters.
func (p *MovieListParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
	validSorts := map[string]bool{"popularity": true, "vote_average": true, "release_date": true, "created_at": true, "title": true}
	if !validSorts[p.SortBy] {
		p.SortBy = "popularity"
	}
	if p.Order != "asc" && p.Order != "desc" {
		p.Order = "desc"
	}
	p.Title = strings.TrimSpace(p.Title)
	p.Genre = NormalizeGenre(p.Genre)
	if p.MinRating < 0 {
		p.MinRating = 0
	}
	if p.MinPopularity < 0 {
		p.MinPopularity = 0
	}
}

// MovieUpdate is the admin request body for editing a movie.
type MovieUpdate struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Overview    string   `json:"overview"`
	ReleaseDate string   `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	Genres      []string `json:"genres"`
	VoteAverage float64  `json:"vote_average" validate:"gte=0,lte=10"`
	VoteCount   int      `json:"vote_count" validate:"gte=0"`
	Popularity  float64  `json:"popularity" validate:"gte=0"`
	Runtime     *int     `json:"runtime" validate:"omitempty,gte=0"`
}

// NormalizeGenre trims and lowercases a single genre name.
func NormalizeGenre(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}

// NormalizeGenres returns the canonical stored form of a genre list:
// lowercased, trimmed, empties dropped, duplicates removed, first-seen order kept.
// It never returns nil.
func NormalizeGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	seen := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		n := NormalizeGenre(g)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

const (
	TMDBImageBaseW500 = "https://image.tmdb.org/t/p/w500"
	TMDBImageBaseW780 = "https://image.tmdb.org/t/p/w780"
)
