package models

import "time"

// Feed entry kinds.
const (
	FeedRatedMovie   = "rated_movie"
	FeedWatchedMovie = "watched_movie"
	FeedLikedMovie   = "liked_movie"
)

// FeedMovie is the movie payload embedded in a feed entry.
type FeedMovie struct {
	IMDBID    string `json:"imdb_id"`
	Title     string `json:"title"`
	Year      string `json:"year"`
	PosterURL string `json:"poster_url"`
}

// FeedEntry is one event on an activity feed. Exactly one of the optional
// payload fields is set depending on Type.
type FeedEntry struct {
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	Username   string    `json:"username,omitempty"`
	Movie      FeedMovie `json:"movie"`
	Rating     int       `json:"rating,omitempty"`
	ReviewText string    `json:"review_text,omitempty"`
}

// ActivityResponse wraps a user's own activity feed.
type ActivityResponse struct {
	Activities []FeedEntry `json:"activities"`
	Username   string      `json:"username"`
}
