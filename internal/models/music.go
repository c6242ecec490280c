package models

import "time"

// LikedSong is a track a user has liked, unique per (user, track).
type LikedSong struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	Username      string    `json:"username,omitempty"`
	SpotifyTrack  string    `json:"spotify_track_id"`
	TrackName     string    `json:"track_name"`
	ArtistName    string    `json:"artist_name"`
	AlbumName     string    `json:"album_name"`
	AlbumImageURL string    `json:"album_image_url"`
	LikedAt       time.Time `json:"liked_at"`
}

// RecentlyPlayed is a playback event synced from the music provider.
type RecentlyPlayed struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	SpotifyTrack  string    `json:"spotify_track_id"`
	TrackName     string    `json:"track_name"`
	ArtistName    string    `json:"artist_name"`
	AlbumName     string    `json:"album_name"`
	AlbumImageURL string    `json:"album_image_url"`
	PlayedAt      time.Time `json:"played_at"`
}

// SavedPlaylist is a playlist a user has saved, unique per (user, playlist).
type SavedPlaylist struct {
	ID               int       `json:"id"`
	UserID           int       `json:"user_id"`
	SpotifyPlaylist  string    `json:"spotify_playlist_id"`
	PlaylistName     string    `json:"playlist_name"`
	PlaylistImageURL string    `json:"playlist_image_url"`
	SavedAt          time.Time `json:"saved_at"`
}

// TrendingTrack is a track aggregated across friends' recent plays.
type TrendingTrack struct {
	SpotifyTrack  string
	TrackName     string
	ArtistName    string
	AlbumName     string
	AlbumImageURL string
	PlayCount     int
	FriendCount   int
}

// LikeSongRequest is the request body for liking a song.
type LikeSongRequest struct {
	SpotifyTrackID string `json:"spotify_track_id"`
	TrackName      string `json:"track_name"`
	ArtistName     string `json:"artist_name"`
	AlbumName      string `json:"album_name"`
	AlbumImageURL  string `json:"album_image_url"`
}

// MusicLibrary groups a user's liked songs and saved playlists.
type MusicLibrary struct {
	LikedSongs     []LikedSong     `json:"liked_songs"`
	SavedPlaylists []SavedPlaylist `json:"saved_playlists"`
}
