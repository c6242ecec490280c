package models

import "time"

// Movie stores catalog metadata fetched from OMDb, keyed by IMDb id.
type Movie struct {
	IMDBID     string    `json:"imdb_id"`
	Title      string    `json:"title"`
	Year       string    `json:"year"`
	Genre      string    `json:"genre"`
	Director   string    `json:"director"`
	Actors     string    `json:"actors"`
	Plot       string    `json:"plot"`
	Poster     string    `json:"poster"`
	IMDBRating string    `json:"imdb_rating"`
	Runtime    string    `json:"runtime"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MovieSummary is a search result from the catalog provider.
type MovieSummary struct {
	IMDBID string `json:"imdb_id"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Poster string `json:"poster"`
}

// Review is a user's rating of a movie, unique per (user, movie).
type Review struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	Username   string    `json:"username"`
	IMDBID     string    `json:"imdb_id"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"review_text"`
	Movie      *Movie    `json:"movie,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Interaction kinds. {watched, want_to_watch} and {like, love} are each
// mutually exclusive per (user, movie).
const (
	InteractionWatched     = "watched"
	InteractionWantToWatch = "want_to_watch"
	InteractionLike        = "like"
	InteractionLove        = "love"
)

// ValidInteractionTypes lists the accepted interaction kinds.
var ValidInteractionTypes = map[string]bool{
	InteractionWatched:     true,
	InteractionWantToWatch: true,
	InteractionLike:        true,
	InteractionLove:        true,
}

// OpposingInteraction maps each kind to the kind it displaces.
var OpposingInteraction = map[string]string{
	InteractionWatched:     InteractionWantToWatch,
	InteractionWantToWatch: InteractionWatched,
	InteractionLike:        InteractionLove,
	InteractionLove:        InteractionLike,
}

// Interaction records a user action on a movie.
type Interaction struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
	IMDBID    string    `json:"imdb_id"`
	Type      string    `json:"interaction_type"`
	Movie     *Movie    `json:"movie,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// InteractionResult is returned by the watch-state and like toggles.
type InteractionResult struct {
	State  string `json:"state"`
	Active bool   `json:"active"`
}

// CreateReviewRequest is the request body for creating or updating a review.
type CreateReviewRequest struct {
	IMDBID     string `json:"imdb_id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Poster     string `json:"poster"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

// ToggleInteractionRequest is the request body for the interaction toggles.
type ToggleInteractionRequest struct {
	IMDBID string `json:"imdb_id"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Poster string `json:"poster"`
	State  string `json:"state"`
}

// MovieStats aggregates community activity for one movie.
type MovieStats struct {
	IMDBID      string  `json:"imdb_id"`
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int     `json:"review_count"`
	Watched     int     `json:"watched"`
	WantToWatch int     `json:"want_to_watch"`
	Liked       int     `json:"liked"`
	Loved       int     `json:"loved"`
}

// RankedMovie is a movie with the community aggregates used for ranking.
type RankedMovie struct {
	Movie
	AvgRating   *float64 `json:"avg_rating"`
	ReviewCount int      `json:"review_count"`
	LoveCount   int      `json:"love_count,omitempty"`
}

// Library groups a user's movie interactions by kind.
type Library struct {
	Watched     []Interaction `json:"watched"`
	WantToWatch []Interaction `json:"want_to_watch"`
	Liked       []Interaction `json:"liked"`
	Loved       []Interaction `json:"loved"`
}
