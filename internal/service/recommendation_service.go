package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"movie-nexus-api/internal/cache"
	"movie-nexus-api/internal/config"
	"movie-nexus-api/internal/models"
	"movie-nexus-api/internal/repository"
	"movie-nexus-api/internal/scoring"
)

const (
	// CandidatePoolSize caps how many movies, by popularity, are scored per recommendation request.
	CandidatePoolSize = 100

	DefaultLimit = 10
	MaxLimit     = 100
)

// RecommendationService ranks movies for a viewer and serves the derived
// similarity, trending and statistics views.
type RecommendationService struct {
	movies  MovieStore
	users   UserStore
	ratings RatingStore
	cache   *cache.Cache
	ttl     config.CacheConfig
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(movies MovieStore, users UserStore, ratings RatingStore, c *cache.Cache, ttl config.CacheConfig) *RecommendationService {
	return &RecommendationService{
		movies:  movies,
		users:   users,
		ratings: ratings,
		cache:   c,
		ttl:     ttl,
	}
}

// ClampLimit applies the default and upper bound to a requested list size.
func ClampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// GetMatchScore scores a single movie for the viewer and explains the terms.
func (s *RecommendationService) GetMatchScore(ctx context.Context, viewer models.Viewer, movieID int64) (models.MatchScoreResponse, error) {
	key := cache.MatchScoreKey(viewer.CacheID(), movieID)
	return cache.GetOrCompute(ctx, s.cache, key, s.ttl.MatchScoreTTL, func(ctx context.Context) (models.MatchScoreResponse, error) {
		movie, err := s.movies.GetByID(ctx, movieID)
		if err != nil {
			return models.MatchScoreResponse{}, translate(err, ErrMovieNotFound, "get movie")
		}
		taste, err := s.taste(ctx, viewer)
		if err != nil {
			return models.MatchScoreResponse{}, err
		}

		breakdown := scoring.Explain(taste, movie)
		return models.MatchScoreResponse{
			MovieID:    movie.ID,
			Title:      movie.Title,
			MatchScore: breakdown.Total(),
			Breakdown:  breakdown,
		}, nil
	})
}

// GetRecommendations returns up to limit unrated movies ordered by match score.
// Equal scores keep candidate order: popularity desc, then id asc.
func (s *RecommendationService) GetRecommendations(ctx context.Context, viewer models.Viewer, limit int) ([]models.ScoredMovie, error) {
	limit = ClampLimit(limit)
	key := cache.RecommendationsKey(viewer.CacheID(), limit)

	return cache.GetOrCompute(ctx, s.cache, key, s.ttl.RecommendationsTTL, func(ctx context.Context) ([]models.ScoredMovie, error) {
		candidates, err := s.movies.RecommendationCandidates(ctx, viewer, CandidatePoolSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load candidates: %w", err)
		}
		taste, err := s.taste(ctx, viewer)
		if err != nil {
			return nil, err
		}

		scored := make([]models.ScoredMovie, len(candidates))
		for i, m := range candidates {
			scored[i] = models.ScoredMovie{Movie: m.ListItem(), MatchScore: scoring.Score(taste, m)}
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].MatchScore > scored[j].MatchScore
		})
		if len(scored) > limit {
			scored = scored[:limit]
		}

		slog.Debug("recommendations computed", "viewer", viewer.CacheID(), "candidates", len(candidates), "personalized", taste != nil)
		return scored, nil
	})
}

// GetSimilarMovies returns other movies ranked by shared genres, then vote average.
// A movie without genres has no similar movies.
func (s *RecommendationService) GetSimilarMovies(ctx context.Context, movieID int64, limit int) ([]models.Movie, error) {
	limit = ClampLimit(limit)
	key := cache.SimilarKey(movieID, limit)

	return cache.GetOrCompute(ctx, s.cache, key, s.ttl.SimilarTTL, func(ctx context.Context) ([]models.Movie, error) {
		source, err := s.movies.GetByID(ctx, movieID)
		if err != nil {
			return nil, translate(err, ErrMovieNotFound, "get movie")
		}
		if len(source.Genres) == 0 {
			return []models.Movie{}, nil
		}

		candidates, err := s.movies.SharingGenres(ctx, source.ID, source.Genres)
		if err != nil {
			return nil, fmt.Errorf("failed to load similar candidates: %w", err)
		}
		return rankSimilar(source, candidates, limit), nil
	})
}

func rankSimilar(source models.Movie, candidates []models.Movie, limit int) []models.Movie {
	genres := scoring.NewGenreSet(source.Genres)

	type ranked struct {
		movie   models.Movie
		overlap int
	}
	pool := make([]ranked, 0, len(candidates))
	for _, m := range candidates {
		if m.ID == source.ID {
			continue
		}
		if n := genres.Overlap(scoring.NewGenreSet(m.Genres)); n > 0 {
			pool = append(pool, ranked{movie: m, overlap: n})
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].overlap != pool[j].overlap {
			return pool[i].overlap > pool[j].overlap
		}
		return pool[i].movie.VoteAverage > pool[j].movie.VoteAverage
	})

	out := make([]models.Movie, 0, min(limit, len(pool)))
	for _, r := range pool {
		if len(out) == limit {
			break
		}
		out = append(out, r.movie)
	}
	return out
}

// GetTrendingByGenre returns the most popular movies tagged with genre.
func (s *RecommendationService) GetTrendingByGenre(ctx context.Context, genre string, limit int) ([]models.Movie, error) {
	genre = models.NormalizeGenre(genre)
	if genre == "" {
		return nil, fmt.Errorf("%w: genre is required", ErrInvalidInput)
	}
	limit = ClampLimit(limit)
	key := cache.TrendingKey(genre, limit)

	return cache.GetOrCompute(ctx, s.cache, key, s.ttl.TrendingTTL, func(ctx context.Context) ([]models.Movie, error) {
		movies, err := s.movies.TrendingByGenre(ctx, genre, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to load trending movies: %w", err)
		}
		return rankTrending(genre, movies, limit), nil
	})
}

// rankTrending re-applies the membership test and ordering so the result does
// not depend on how the store evaluated the query.
func rankTrending(genre string, movies []models.Movie, limit int) []models.Movie {
	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if scoring.NewGenreSet(m.Genres).Has(genre) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		return out[i].VoteAverage > out[j].VoteAverage
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GetUserStatistics summarizes the viewer's ratings.
func (s *RecommendationService) GetUserStatistics(ctx context.Context, viewer models.Viewer) (models.UserStatistics, error) {
	if !viewer.Authenticated {
		return models.EmptyStatistics(), nil
	}

	key := cache.UserStatsKey(viewer.UserID)
	return cache.GetOrCompute(ctx, s.cache, key, s.ttl.StatsTTL, func(ctx context.Context) (models.UserStatistics, error) {
		rated, err := s.ratings.RatedMovies(ctx, viewer.UserID)
		if err != nil {
			return models.UserStatistics{}, fmt.Errorf("failed to load rated movies: %w", err)
		}
		return summarizeRatings(rated), nil
	})
}

// taste loads the personalization inputs of the viewer. It returns nil for
// anonymous viewers and for users without a profile, selecting the quality-only formula.
func (s *RecommendationService) taste(ctx context.Context, viewer models.Viewer) (*scoring.Taste, error) {
	if !viewer.Authenticated {
		return nil, nil
	}

	profile, err := s.users.GetProfile(ctx, viewer.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Debug("no profile, using quality-only score", "user_id", viewer.UserID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	liked, err := s.ratings.LikedGenres(ctx, viewer.UserID, models.HighRatingThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating history: %w", err)
	}
	return scoring.NewTaste(profile.FavoriteGenres, liked), nil
}
