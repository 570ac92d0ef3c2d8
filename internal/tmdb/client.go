package tmdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Client is the TMDB API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// ---- TMDB Response Types ----

// DiscoverResponse is the TMDB discover/movie response.
type DiscoverResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Movie is a movie from TMDB discover results.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	GenreIDs     []int   `json:"genre_ids"`
}

// MovieDetail is the detailed movie info from TMDB.
type MovieDetail struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Genres  []Genre `json:"genres"`
	Runtime int     `json:"runtime"`
}

// Genre is a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is the TMDB genre/movie/list response.
type GenreListResponse struct {
	Genres []Genre `json:"genres"`
}

// ---- Client Methods ----

// DiscoverMovies fetches one page of movies sorted by popularity.
func (c *Client) DiscoverMovies(ctx context.Context, page int) (*DiscoverResponse, error) {
	q := url.Values{}
	q.Set("sort_by", "popularity.desc")
	q.Set("page", strconv.Itoa(page))

	slog.Debug("fetching TMDB discover", "page", page)
	var result DiscoverResponse
	if err := c.get(ctx, "/discover/movie", q, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch discover page %d: %w", page, err)
	}
	return &result, nil
}

// GetMovieDetail fetches detailed movie info from TMDB.
func (c *Client) GetMovieDetail(ctx context.Context, tmdbID int64) (*MovieDetail, error) {
	slog.Debug("fetching TMDB movie detail", "tmdb_id", tmdbID)
	var result MovieDetail
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", tmdbID), url.Values{}, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", tmdbID, err)
	}
	return &result, nil
}

// GetGenres fetches all movie genres from TMDB.
func (c *Client) GetGenres(ctx context.Context) ([]Genre, error) {
	slog.Debug("fetching TMDB genres")
	var result GenreListResponse
	if err := c.get(ctx, "/genre/movie/list", url.Values{}, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch genres: %w", err)
	}
	return result.Genres, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dest any) error {
	q.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
