package models

import "time"

// Playlist visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Playlist is a user-owned collection of movies.
type Playlist struct {
	ID          int64           `json:"id"`
	OwnerID     int64           `json:"owner_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Visibility  string          `json:"visibility"`
	MovieCount  int             `json:"movie_count"`
	Movies      []MovieListItem `json:"movies,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AccessibleBy reports whether the viewer may read the playlist.
func (p Playlist) AccessibleBy(v Viewer) bool {
	if p.Visibility == VisibilityPublic {
		return true
	}
	return v.Authenticated && v.UserID == p.OwnerID
}

// PlaylistRequest is the request body for creating or editing a playlist.
type PlaylistRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=500"`
	Visibility  string `json:"visibility" validate:"omitempty,oneof=public private"`
}

// PlaylistMovieRequest is the request body for adding a movie to a playlist.
type PlaylistMovieRequest struct {
	MovieID int64 `json:"movie_id" validate:"required,gt=0"`
}
