package models

import (
	"strconv"
	"time"
)

// User represents a registered user.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the request body for creating a user.
type RegisterRequest struct {
	Username       string   `json:"username" validate:"required,min=3,max=150"`
	Email          string   `json:"email" validate:"required,email"`
	FavoriteGenres []string `json:"favorite_genres"`
}

// UserProfile stores the personalization data of a user. Every user has exactly one.
type UserProfile struct {
	UserID         int64     `json:"user_id"`
	FavoriteGenres []string  `json:"favorite_genres"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpdateProfileRequest is the request body for editing a profile.
type UpdateProfileRequest struct {
	FavoriteGenres []string `json:"favorite_genres"`
	Bio            string   `json:"bio" validate:"max=500"`
	AvatarURL      string   `json:"avatar_url" validate:"omitempty,url"`
}

// Viewer identifies who is making a request. The zero value is an anonymous visitor.
type Viewer struct {
	UserID        int64
	Authenticated bool
	IsStaff       bool
}

// Anonymous returns a viewer without identity.
func Anonymous() Viewer {
	return Viewer{}
}

// AuthenticatedViewer returns a viewer for the given user.
func AuthenticatedViewer(userID int64, staff bool) Viewer {
	return Viewer{UserID: userID, Authenticated: true, IsStaff: staff}
}

// CacheID is the identity segment used in per-viewer cache keys.
func (v Viewer) CacheID() string {
	if !v.Authenticated {
		return "anonymous"
	}
	return strconv.FormatInt(v.UserID, 10)
}
