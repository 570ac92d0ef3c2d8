package service

import (
	"context"
	"fmt"
	"log/slog"

	"movie-nexus-api/internal/cache"
	"movie-nexus-api/internal/config"
	"movie-nexus-api/internal/models"
)

const (
	// FixedListSize is the length of the trending, recent and top-rated lists.
	FixedListSize = 20
	// TopRatedMinVotes keeps barely-voted movies out of the top-rated list.
	TopRatedMinVotes = 100
)

// MovieService handles business logic for movies.
type MovieService struct {
	movies MovieStore
	source MovieSource
	cache  *cache.Cache
	ttl    config.CacheConfig
}

// NewMovieService creates a new MovieService. source may be nil when ingestion is disabled.
func NewMovieService(movies MovieStore, source MovieSource, c *cache.Cache, ttl config.CacheConfig) *MovieService {
	return &MovieService{
		movies: movies,
		source: source,
		cache:  c,
		ttl:    ttl,
	}
}

// ListMovies returns a paginated list of movies.
func (s *MovieService) ListMovies(ctx context.Context, params models.MovieListParams) (*models.MovieListResponse, error) {
	params.Validate()
	return cache.GetOrCompute(ctx, s.cache, cache.MovieQueryKey(params), s.ttl.ListTTL, func(ctx context.Context) (*models.MovieListResponse, error) {
		result, err := s.movies.List(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to list movies: %w", err)
		}
		return result, nil
	})
}

// GetMovie returns a movie by ID.
func (s *MovieService) GetMovie(ctx context.Context, id int64) (models.Movie, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.MovieDetailKey(id), s.ttl.DetailTTL, func(ctx context.Context) (models.Movie, error) {
		m, err := s.movies.GetByID(ctx, id)
		if err != nil {
			return models.Movie{}, translate(err, ErrMovieNotFound, "get movie")
		}
		return m, nil
	})
}

// Trending returns the most popular movies.
func (s *MovieService) Trending(ctx context.Context) ([]models.MovieListItem, error) {
	return s.fixedList(ctx, cache.ListTrending, func(ctx context.Context) ([]models.Movie, error) {
		return s.movies.MostPopular(ctx, FixedListSize)
	})
}

// Recent returns the most recently added movies.
func (s *MovieService) Recent(ctx context.Context) ([]models.MovieListItem, error) {
	return s.fixedList(ctx, cache.ListRecent, func(ctx context.Context) ([]models.Movie, error) {
		return s.movies.MostRecent(ctx, FixedListSize)
	})
}

// TopRated returns the best rated movies with enough votes.
func (s *MovieService) TopRated(ctx context.Context) ([]models.MovieListItem, error) {
	return s.fixedList(ctx, cache.ListTopRated, func(ctx context.Context) ([]models.Movie, error) {
		return s.movies.TopRated(ctx, TopRatedMinVotes, FixedListSize)
	})
}

func (s *MovieService) fixedList(ctx context.Context, name string, load func(context.Context) ([]models.Movie, error)) ([]models.MovieListItem, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.MovieListKey(name, FixedListSize), s.ttl.ListTTL, func(ctx context.Context) ([]models.MovieListItem, error) {
		movies, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s movies: %w", name, err)
		}
		items := make([]models.MovieListItem, len(movies))
		for i, m := range movies {
			items[i] = m.ListItem()
		}
		return items, nil
	})
}

// UpdateMovie applies an admin edit, normalizing genres, and drops every cache entry derived from the movie.
func (s *MovieService) UpdateMovie(ctx context.Context, id int64, u models.MovieUpdate) (models.Movie, error) {
	if err := validate(u); err != nil {
		return models.Movie{}, err
	}
	u.Genres = models.NormalizeGenres(u.Genres)

	m, err := s.movies.Update(ctx, id, u)
	if err != nil {
		return models.Movie{}, translate(err, ErrMovieNotFound, "update movie")
	}

	s.cache.InvalidateMovie(ctx, id)
	slog.Info("movie updated", "id", id)
	return m, nil
}

// SyncResult reports what an ingestion run changed.
type SyncResult struct {
	Pages   int `json:"pages"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// SyncFromTMDB fetches movies from TMDB and upserts them with normalized genres
// and runtimes. A failing page is skipped; a failing genre lookup aborts the run.
func (s *MovieService) SyncFromTMDB(ctx context.Context, pages int) (SyncResult, error) {
	if s.source == nil {
		return SyncResult{}, fmt.Errorf("%w: ingestion is not configured", ErrInvalidInput)
	}
	if pages < 1 {
		pages = 1
	}
	slog.Info("starting TMDB sync", "pages", pages)

	genres, err := s.source.GetGenres(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to fetch TMDB genres: %w", err)
	}
	genreNames := make(map[int]string, len(genres))
	for _, g := range genres {
		genreNames[g.ID] = g.Name
	}

	var result SyncResult
	for page := 1; page <= pages; page++ {
		resp, err := s.source.DiscoverMovies(ctx, page)
		if err != nil {
			slog.Error("failed to fetch TMDB page", "page", page, "error", err)
			continue
		}
		result.Pages++

		for _, tm := range resp.Results {
			names := make([]string, 0, len(tm.GenreIDs))
			for _, gid := range tm.GenreIDs {
				if name, ok := genreNames[gid]; ok {
					names = append(names, name)
				}
			}

			id, updated, err := s.movies.Upsert(ctx, models.Movie{
				TMDBId:       tm.ID,
				Title:        tm.Title,
				Overview:     tm.Overview,
				ReleaseDate:  tm.ReleaseDate,
				PosterPath:   tm.PosterPath,
				BackdropPath: tm.BackdropPath,
				VoteAverage:  tm.VoteAverage,
				VoteCount:    tm.VoteCount,
				Popularity:   tm.Popularity,
				Genres:       models.NormalizeGenres(names),
				Runtime:      s.runtimeOf(ctx, tm.ID),
			})
			if err != nil {
				slog.Error("failed to upsert movie", "title", tm.Title, "error", err)
				result.Failed++
				continue
			}
			if updated {
				result.Updated++
				s.cache.InvalidateMovieBundle(ctx, id)
			} else {
				result.Created++
			}
		}
		slog.Info("synced page", "page", page, "movies", len(resp.Results))
	}

	s.cache.InvalidateCatalog(ctx)
	slog.Info("TMDB sync completed", "created", result.Created, "updated", result.Updated, "failed", result.Failed)
	return result, nil
}

// runtimeOf looks up a movie's runtime, which discover results do not carry.
// nil keeps whatever runtime the stored row already has.
func (s *MovieService) runtimeOf(ctx context.Context, tmdbID int64) *int {
	detail, err := s.source.GetMovieDetail(ctx, tmdbID)
	if err != nil {
		slog.Warn("failed to fetch TMDB runtime", "tmdb_id", tmdbID, "error", err)
		return nil
	}
	if detail.Runtime <= 0 {
		return nil
	}
	runtime := detail.Runtime
	return &runtime
}
