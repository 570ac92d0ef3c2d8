package models

import "math"

// ScoredMovie is a recommended movie paired with its match score.
type ScoredMovie struct {
	Movie      MovieListItem `json:"movie"`
	MatchScore float64       `json:"match_score"`
}

// RecommendationResponse wraps the recommendation list.
type RecommendationResponse struct {
	User            string        `json:"user"`
	Limit           int           `json:"limit"`
	Recommendations []ScoredMovie `json:"recommendations"`
}

// ScoreBreakdown lists the individual terms of a match score.
// Personalized is false when the quality-only formula was used.
type ScoreBreakdown struct {
	Personalized  bool    `json:"personalized"`
	GenreMatch    float64 `json:"genre_match"`
	RatingHistory float64 `json:"rating_history"`
	Quality       float64 `json:"quality"`
	Popularity    float64 `json:"popularity"`
}

// Total is the sum of the terms rounded to 2 decimals.
func (b ScoreBreakdown) Total() float64 {
	return math.Round((b.GenreMatch+b.RatingHistory+b.Quality+b.Popularity)*100) / 100
}

// MatchScoreResponse is the response shape of the match-score endpoint.
type MatchScoreResponse struct {
	MovieID    int64          `json:"movie_id"`
	Title      string         `json:"title"`
	MatchScore float64        `json:"match_score"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
}

// RatingSummary identifies a single rating in the statistics.
type RatingSummary struct {
	MovieID int64  `json:"movie_id"`
	Title   string `json:"title"`
	Score   int    `json:"score"`
}

// UserStatistics summarizes a user's rating habits.
type UserStatistics struct {
	TotalRatings          int            `json:"total_ratings"`
	AverageRating         float64        `json:"average_rating"`
	FavoriteGenres        []string       `json:"favorite_genres"`
	TotalWatchTimeMinutes int            `json:"total_watch_time_minutes"`
	TotalWatchTimeHours   float64        `json:"total_watch_time_hours"`
	HighestRated          *RatingSummary `json:"highest_rated"`
	LowestRated           *RatingSummary `json:"lowest_rated"`
}

// EmptyStatistics is the explicit shape returned for anonymous users and users without ratings.
func EmptyStatistics() UserStatistics {
	return UserStatistics{FavoriteGenres: []string{}}
}
