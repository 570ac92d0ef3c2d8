package models

import "time"

// Rating is a user's 1-5 star rating of a movie. At most one per (user, movie).
type Rating struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	Score     int       `json:"score"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatedMovie joins a rating with the movie attributes the statistics need.
type RatedMovie struct {
	RatingID int64     `json:"rating_id"`
	MovieID  int64     `json:"movie_id"`
	Title    string    `json:"title"`
	Score    int       `json:"score"`
	Genres   []string  `json:"genres"`
	Runtime  *int      `json:"runtime,omitempty"`
	RatedAt  time.Time `json:"rated_at"`
}

// CreateRatingRequest is the request body for rating a movie.
type CreateRatingRequest struct {
	MovieID int64  `json:"movie_id" validate:"required,gt=0"`
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Review  string `json:"review" validate:"max=1000"`
}

// UpdateRatingRequest is the request body for changing a rating.
type UpdateRatingRequest struct {
	Score  int    `json:"score" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"max=1000"`
}

// HighRatingThreshold is the minimum score that counts as "liked".
const HighRatingThreshold = 4
