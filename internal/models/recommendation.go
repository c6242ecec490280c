package models

// MovieRecommendation is a recommended movie with an explanation.
type MovieRecommendation struct {
	IMDBID        string   `json:"imdb_id"`
	Title         string   `json:"title"`
	Year          string   `json:"year"`
	Genre         string   `json:"genre"`
	Director      string   `json:"director,omitempty"`
	Poster        string   `json:"poster"`
	IMDBRating    string   `json:"imdb_rating"`
	Reason        string   `json:"reason"`
	Type          string   `json:"type,omitempty"`
	UserRating    int      `json:"user_rating,omitempty"`
	AvgUserRating *float64 `json:"avg_user_rating"`
}

// MovieRecommendationResponse wraps a recommendation list with an optional
// user-facing hint when every stage came up empty.
type MovieRecommendationResponse struct {
	Recommendations []MovieRecommendation `json:"recommendations"`
	Message         string                `json:"message,omitempty"`
}

// FriendRecommendationResponse wraps suggested users to follow.
type FriendRecommendationResponse struct {
	Recommendations []FriendRecommendation `json:"recommendations"`
}

// MusicRecommendation is a track surfaced from friends' listening activity.
type MusicRecommendation struct {
	Type          string `json:"type"`
	SpotifyTrack  string `json:"spotify_track_id"`
	TrackName     string `json:"track_name"`
	ArtistName    string `json:"artist_name"`
	AlbumName     string `json:"album_name"`
	AlbumImageURL string `json:"album_image_url"`
	Reason        string `json:"reason"`
	PlayCount     int    `json:"play_count,omitempty"`
	LikedBy       string `json:"liked_by,omitempty"`
}

// MusicRecommendationResponse wraps a music recommendation list.
type MusicRecommendationResponse struct {
	Recommendations []MusicRecommendation `json:"recommendations"`
	Message         string                `json:"message,omitempty"`
}
