package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"movie-nexus-api/internal/models"
)

// Prefix namespaces every key this service writes.
const Prefix = "nexus_movie:"

// Fixed movie list names.
const (
	ListTrending = "trending"
	ListRecent   = "recent"
	ListTopRated = "top_rated"
)

// RecommendationsKey is keyed by viewer identity ("anonymous" or the user id) and limit.
func RecommendationsKey(viewerID string, limit int) string {
	return fmt.Sprintf("recommendations:user:%s:limit:%d", viewerID, limit)
}

// SimilarKey caches the similar-movie list of a movie.
func SimilarKey(movieID int64, limit int) string {
	return fmt.Sprintf("movie:similar:%d:limit:%d", movieID, limit)
}

// TrendingKey expects an already normalized genre.
func TrendingKey(genre string, limit int) string {
	return fmt.Sprintf("trending:genre:%s:limit:%d", genre, limit)
}

// UserStatsKey caches a user's rating statistics.
func UserStatsKey(userID int64) string {
	return fmt.Sprintf("user_stats:user:%d", userID)
}

// MovieDetailKey caches a single movie.
func MovieDetailKey(movieID int64) string {
	return fmt.Sprintf("movie:detail:%d", movieID)
}

// MovieListKey names one of the fixed lists (trending, recent, top_rated).
func MovieListKey(name string, limit int) string {
	return fmt.Sprintf("movie:list:%s:limit:%d", name, limit)
}

// MovieQueryKey hashes the normalized filters of a listing query.
func MovieQueryKey(p models.MovieListParams) string {
	raw := fmt.Sprintf("%d|%d|%s|%s|%s|%s|%g|%g",
		p.Page, p.PageSize, p.SortBy, p.Order, p.Title, p.Genre, p.MinRating, p.MinPopularity)
	sum := sha256.Sum256([]byte(raw))
	return "movie:list:query:" + hex.EncodeToString(sum[:8])
}

// MatchScoreKey caches one viewer's match score for one movie.
func MatchScoreKey(viewerID string, movieID int64) string {
	return fmt.Sprintf("match_score:user:%s:movie:%d", viewerID, movieID)
}

// UserRatingsKey caches the ratings a user has made.
func UserRatingsKey(userID int64) string {
	return fmt.Sprintf("ratings:user:%d", userID)
}

// PlaylistKey caches the playlists owned by a user.
func PlaylistKey(ownerID int64) string {
	return fmt.Sprintf("playlist:user:%d", ownerID)
}

// ProfileKey caches a user's profile.
func ProfileKey(userID int64) string {
	return fmt.Sprintf("user:%d:profile", userID)
}

// movieBundle lists the patterns that hold data derived from a single movie.
func movieBundle(movieID int64) []string {
	return []string{
		MovieDetailKey(movieID),
		fmt.Sprintf("movie:similar:%d:*", movieID),
		fmt.Sprintf("movie:%d:*", movieID),
		fmt.Sprintf("match_score:user:*:movie:%d", movieID),
	}
}

// movieListing lists the patterns that hold data derived from the whole catalog.
func movieListing() []string {
	return []string{
		"movie:list:*",
		"trending:genre:*",
		"recommendations:*",
	}
}

// userBundle lists the patterns that hold data derived from a single user.
func userBundle(userID int64) []string {
	return []string{
		fmt.Sprintf("user:%d:*", userID),
		fmt.Sprintf("recommendations:user:%d:*", userID),
		fmt.Sprintf("match_score:user:%d:*", userID),
		UserRatingsKey(userID),
		UserStatsKey(userID),
		PlaylistKey(userID),
	}
}
