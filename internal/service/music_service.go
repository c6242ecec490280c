package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/laasyan18/Tunr/internal/models"
	"github.com/laasyan18/Tunr/internal/spotify"
)

const (
	trendingWindow     = 7 * 24 * time.Hour
	trendingTrackLimit = 15
	friendLikesLimit   = 20
	musicRecsLimit     = 25
	syncFetchLimit     = 50
)

// Hints returned when no music recommendations can be produced.
const (
	noFriendsMusicHint  = "Follow friends to see what they're listening to!"
	noActivityMusicHint = "Your friends haven't been listening to much lately"
)

type musicStore interface {
	LikeSong(ctx context.Context, userID int, req models.LikeSongRequest) (bool, error)
	UnlikeSong(ctx context.Context, userID int, trackID string) (bool, error)
	LikedSongs(ctx context.Context, userID int) ([]models.LikedSong, error)
	LikedTrackIDs(ctx context.Context, userID int, among []string) ([]string, error)
	SavedPlaylists(ctx context.Context, userID int) ([]models.SavedPlaylist, error)
	SavePlaylist(ctx context.Context, userID int, playlistID, name, imageURL string) (bool, error)
	UnsavePlaylist(ctx context.Context, userID int, playlistID string) (bool, error)
	InsertRecentlyPlayed(ctx context.Context, p models.RecentlyPlayed) error
	TrendingAmongFriends(ctx context.Context, followeeIDs []int, since time.Time, excludeTrackIDs []string, limit int) ([]models.TrendingTrack, error)
	RecentFriendLikes(ctx context.Context, followeeIDs []int, excludeTrackIDs []string, limit int) ([]models.LikedSong, error)
}

type credentialStore interface {
	FollowingIDs(ctx context.Context, userID int) ([]int, error)
	GetSpotifyCredentials(ctx context.Context, userID int) (*models.SpotifyCredentials, error)
	UpdateSpotifyAccessToken(ctx context.Context, userID int, accessToken string, expiresAt time.Time) error
}

type playbackProvider interface {
	Refresh(ctx context.Context, refreshToken string) (*spotify.TokenResponse, error)
	RecentlyPlayed(ctx context.Context, accessToken string, limit int) ([]spotify.PlayedTrack, error)
}

// MusicService owns the music library, playback sync and music
// recommendations.
type MusicService struct {
	music    musicStore
	users    credentialStore
	provider playbackProvider
	now      func() time.Time
}

// NewMusicService creates a new MusicService.
func NewMusicService(music musicStore, users credentialStore, provider playbackProvider) *MusicService {
	return &MusicService{music: music, users: users, provider: provider, now: time.Now}
}

// LikeSong records a liked song. Liking an already-liked track is a no-op.
func (s *MusicService) LikeSong(ctx context.Context, userID int, req models.LikeSongRequest) (bool, error) {
	if req.SpotifyTrackID == "" {
		return false, models.NewValidationError("spotify_track_id", "spotify_track_id is required")
	}
	return s.music.LikeSong(ctx, userID, req)
}

// UnlikeSong removes a liked song.
func (s *MusicService) UnlikeSong(ctx context.Context, userID int, trackID string) (bool, error) {
	if trackID == "" {
		return false, models.NewValidationError("spotify_track_id", "spotify_track_id is required")
	}
	return s.music.UnlikeSong(ctx, userID, trackID)
}

// Library returns the user's liked songs and saved playlists.
func (s *MusicService) Library(ctx context.Context, userID int) (*models.MusicLibrary, error) {
	songs, err := s.music.LikedSongs(ctx, userID)
	if err != nil {
		return nil, err
	}
	playlists, err := s.music.SavedPlaylists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []models.LikedSong{}
	}
	if playlists == nil {
		playlists = []models.SavedPlaylist{}
	}
	return &models.MusicLibrary{LikedSongs: songs, SavedPlaylists: playlists}, nil
}

// SavePlaylist records a saved playlist.
func (s *MusicService) SavePlaylist(ctx context.Context, userID int, playlistID, name, imageURL string) (bool, error) {
	if playlistID == "" {
		return false, models.NewValidationError("spotify_playlist_id", "spotify_playlist_id is required")
	}
	return s.music.SavePlaylist(ctx, userID, playlistID, name, imageURL)
}

// UnsavePlaylist removes a saved playlist.
func (s *MusicService) UnsavePlaylist(ctx context.Context, userID int, playlistID string) (bool, error) {
	if playlistID == "" {
		return false, models.NewValidationError("spotify_playlist_id", "spotify_playlist_id is required")
	}
	return s.music.UnsavePlaylist(ctx, userID, playlistID)
}

// CheckLiked reports which of the given track ids the user has liked.
func (s *MusicService) CheckLiked(ctx context.Context, userID int, trackIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(trackIDs))
	for _, id := range trackIDs {
		liked[id] = false
	}
	if len(trackIDs) == 0 {
		return liked, nil
	}
	ids, err := s.music.LikedTrackIDs(ctx, userID, trackIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// SyncRecentlyPlayed pulls the user's latest plays from the provider and
// persists them, refreshing the access token first if it has expired.
// Returns the number of plays fetched.
func (s *MusicService) SyncRecentlyPlayed(ctx context.Context, userID int) (int, error) {
	creds, err := s.users.GetSpotifyCredentials(ctx, userID)
	if err != nil {
		return 0, err
	}
	if creds.RefreshToken == "" {
		return 0, models.NewValidationError("spotify", "spotify account not connected")
	}

	accessToken := creds.AccessToken
	if creds.Expired(s.now()) {
		tokens, err := s.provider.Refresh(ctx, creds.RefreshToken)
		if err != nil {
			return 0, fmt.Errorf("refresh spotify token: %w", err)
		}
		accessToken = tokens.AccessToken
		expiresAt := s.now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
		if err := s.users.UpdateSpotifyAccessToken(ctx, userID, accessToken, expiresAt); err != nil {
			return 0, err
		}
		slog.Info("refreshed spotify access token", "user_id", userID)
	}

	plays, err := s.provider.RecentlyPlayed(ctx, accessToken, syncFetchLimit)
	if err != nil {
		return 0, err
	}
	for _, p := range plays {
		if err := s.music.InsertRecentlyPlayed(ctx, models.RecentlyPlayed{
			UserID:        userID,
			SpotifyTrack:  p.TrackID,
			TrackName:     p.TrackName,
			ArtistName:    p.ArtistName,
			AlbumName:     p.AlbumName,
			AlbumImageURL: p.AlbumImageURL,
			PlayedAt:      p.PlayedAt,
		}); err != nil {
			return 0, err
		}
	}
	return len(plays), nil
}

// Recommendations surfaces tracks from friends' listening: what they played
// in the last week and what they liked recently, excluding tracks the user
// already likes.
func (s *MusicService) Recommendations(ctx context.Context, userID int) (*models.MusicRecommendationResponse, error) {
	followeeIDs, err := s.users.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followeeIDs) == 0 {
		return &models.MusicRecommendationResponse{
			Recommendations: []models.MusicRecommendation{},
			Message:         noFriendsMusicHint,
		}, nil
	}

	ownLiked, err := s.music.LikedTrackIDs(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	exclude := append([]string{}, ownLiked...)
	seen := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		seen[id] = true
	}

	var recs []models.MusicRecommendation

	since := s.now().Add(-trendingWindow)
	trending, err := s.music.TrendingAmongFriends(ctx, followeeIDs, since, exclude, trendingTrackLimit)
	if err != nil {
		return nil, err
	}
	for _, t := range trending {
		if seen[t.SpotifyTrack] {
			continue
		}
		seen[t.SpotifyTrack] = true
		exclude = append(exclude, t.SpotifyTrack)
		recs = append(recs, models.MusicRecommendation{
			Type:          "trending",
			SpotifyTrack:  t.SpotifyTrack,
			TrackName:     t.TrackName,
			ArtistName:    t.ArtistName,
			AlbumName:     t.AlbumName,
			AlbumImageURL: t.AlbumImageURL,
			Reason:        fmt.Sprintf("%d friend%s listened", t.FriendCount, plural(t.FriendCount)),
			PlayCount:     t.PlayCount,
		})
	}

	likes, err := s.music.RecentFriendLikes(ctx, followeeIDs, exclude, friendLikesLimit)
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		if seen[l.SpotifyTrack] {
			continue
		}
		seen[l.SpotifyTrack] = true
		recs = append(recs, models.MusicRecommendation{
			Type:          "friend_like",
			SpotifyTrack:  l.SpotifyTrack,
			TrackName:     l.TrackName,
			ArtistName:    l.ArtistName,
			AlbumName:     l.AlbumName,
			AlbumImageURL: l.AlbumImageURL,
			Reason:        fmt.Sprintf("@%s liked this", l.Username),
			LikedBy:       l.Username,
		})
	}

	if len(recs) == 0 {
		return &models.MusicRecommendationResponse{
			Recommendations: []models.MusicRecommendation{},
			Message:         noActivityMusicHint,
		}, nil
	}
	if len(recs) > musicRecsLimit {
		recs = recs[:musicRecsLimit]
	}
	return &models.MusicRecommendationResponse{Recommendations: recs}, nil
}
