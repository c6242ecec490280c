package models

import "time"

// User represents a registered user.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
}

// SpotifyCredentials is a per-user token record for the music provider.
type SpotifyCredentials struct {
	UserID       int
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	DisplayName  string
}

// Expired reports whether the access token needs a refresh.
func (c SpotifyCredentials) Expired(now time.Time) bool {
	return c.AccessToken == "" || !now.Before(c.ExpiresAt)
}

// SignupRequest is the request body for creating an account.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// UserSummary is the shape returned by user search and follow lists.
type UserSummary struct {
	Username       string `json:"username"`
	Bio            string `json:"bio"`
	IsFollowing    bool   `json:"is_following"`
	FollowersCount int    `json:"followers_count"`
}

// Profile is the user profile response.
type Profile struct {
	Username         string       `json:"username"`
	Email            string       `json:"email,omitempty"`
	Bio              string       `json:"bio"`
	CreatedAt        time.Time    `json:"created_at"`
	SpotifyConnected bool         `json:"spotify_connected"`
	Stats            ProfileStats `json:"stats"`
	IsOwnProfile     bool         `json:"is_own_profile"`
	IsFollowing      bool         `json:"is_following"`
}

// ProfileStats is the counters block on a profile.
type ProfileStats struct {
	Watched   int `json:"watched"`
	Reviews   int `json:"reviews"`
	Following int `json:"following"`
	Followers int `json:"followers"`
}

// FollowResult is returned by the follow toggle.
type FollowResult struct {
	Following bool   `json:"following"`
	Message   string `json:"message"`
}

// FriendRecommendation is a suggested user to follow.
type FriendRecommendation struct {
	Username    string `json:"username"`
	Bio         string `json:"bio"`
	Reason      string `json:"reason"`
	Score       int    `json:"score"`
	IsFollowing bool   `json:"is_following"`
}
