package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/laasyan18/Tunr/internal/models"
)

// MusicRepository handles database operations for liked songs, saved
// playlists and synced playback history.
type MusicRepository struct {
	db *sql.DB
}

// NewMusicRepository creates a new MusicRepository.
func NewMusicRepository(db *sql.DB) *MusicRepository {
	return &MusicRepository{db: db}
}

// LikeSong records a liked song. Returns false if it was already liked.
func (r *MusicRepository) LikeSong(ctx context.Context, userID int, req models.LikeSongRequest) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO liked_songs (user_id, spotify_track_id, track_name, artist_name, album_name, album_image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, spotify_track_id) DO NOTHING
	`, userID, req.SpotifyTrackID, req.TrackName, req.ArtistName, req.AlbumName, req.AlbumImageURL)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UnlikeSong removes a liked song. Returns false if it was not liked.
func (r *MusicRepository) UnlikeSong(ctx context.Context, userID int, trackID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM liked_songs WHERE user_id = $1 AND spotify_track_id = $2
	`, userID, trackID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// LikedSongs returns a user's liked songs, newest first.
func (r *MusicRepository) LikedSongs(ctx context.Context, userID int) ([]models.LikedSong, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, spotify_track_id, track_name, artist_name,
			album_name, album_image_url, liked_at
		FROM liked_songs
		WHERE user_id = $1
		ORDER BY liked_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []models.LikedSong
	for rows.Next() {
		var s models.LikedSong
		if err := rows.Scan(&s.ID, &s.UserID, &s.SpotifyTrack, &s.TrackName,
			&s.ArtistName, &s.AlbumName, &s.AlbumImageURL, &s.LikedAt); err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

// LikedTrackIDs returns the ids of tracks a user has liked, optionally
// restricted to a candidate set.
func (r *MusicRepository) LikedTrackIDs(ctx context.Context, userID int, among []string) ([]string, error) {
	query := `SELECT spotify_track_id FROM liked_songs WHERE user_id = $1`
	args := []any{userID}
	if len(among) > 0 {
		query += ` AND spotify_track_id = ANY($2)`
		args = append(args, pq.Array(among))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SavedPlaylists returns a user's saved playlists, newest first.
func (r *MusicRepository) SavedPlaylists(ctx context.Context, userID int) ([]models.SavedPlaylist, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, spotify_playlist_id, playlist_name, playlist_image_url, saved_at
		FROM saved_playlists
		WHERE user_id = $1
		ORDER BY saved_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []models.SavedPlaylist
	for rows.Next() {
		var p models.SavedPlaylist
		if err := rows.Scan(&p.ID, &p.UserID, &p.SpotifyPlaylist, &p.PlaylistName,
			&p.PlaylistImageURL, &p.SavedAt); err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// SavePlaylist records a saved playlist. Returns false if already saved.
func (r *MusicRepository) SavePlaylist(ctx context.Context, userID int, playlistID, name, imageURL string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO saved_playlists (user_id, spotify_playlist_id, playlist_name, playlist_image_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, spotify_playlist_id) DO NOTHING
	`, userID, playlistID, name, imageURL)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UnsavePlaylist removes a saved playlist. Returns false if it was not saved.
func (r *MusicRepository) UnsavePlaylist(ctx context.Context, userID int, playlistID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM saved_playlists WHERE user_id = $1 AND spotify_playlist_id = $2
	`, userID, playlistID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// InsertRecentlyPlayed persists a playback event. Duplicate plays (same
// track at the same instant) are ignored.
func (r *MusicRepository) InsertRecentlyPlayed(ctx context.Context, p models.RecentlyPlayed) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recently_played (user_id, spotify_track_id, track_name,
			artist_name, album_name, album_image_url, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, spotify_track_id, played_at) DO NOTHING
	`, p.UserID, p.SpotifyTrack, p.TrackName, p.ArtistName, p.AlbumName,
		p.AlbumImageURL, p.PlayedAt)
	return err
}

// TrendingAmongFriends groups friends' plays since a cutoff by track,
// ranked by play count then by how many distinct friends played it.
func (r *MusicRepository) TrendingAmongFriends(ctx context.Context, followeeIDs []int, since time.Time, excludeTrackIDs []string, limit int) ([]models.TrendingTrack, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT spotify_track_id, MIN(track_name), MIN(artist_name),
			MIN(album_name), MIN(album_image_url),
			COUNT(*) AS play_count, COUNT(DISTINCT user_id) AS friend_count
		FROM recently_played
		WHERE user_id = ANY($1)
		  AND played_at >= $2
		  AND spotify_track_id <> ALL($3)
		GROUP BY spotify_track_id
		ORDER BY play_count DESC, friend_count DESC
		LIMIT $4
	`, pq.Array(followeeIDs), since, pq.Array(excludeTrackIDs), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []models.TrendingTrack
	for rows.Next() {
		var t models.TrendingTrack
		if err := rows.Scan(&t.SpotifyTrack, &t.TrackName, &t.ArtistName,
			&t.AlbumName, &t.AlbumImageURL, &t.PlayCount, &t.FriendCount); err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// RecentFriendLikes returns friends' most recent liked songs with usernames.
func (r *MusicRepository) RecentFriendLikes(ctx context.Context, followeeIDs []int, excludeTrackIDs []string, limit int) ([]models.LikedSong, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ls.id, ls.user_id, u.username, ls.spotify_track_id, ls.track_name,
			ls.artist_name, ls.album_name, ls.album_image_url, ls.liked_at
		FROM liked_songs ls
		INNER JOIN users u ON u.id = ls.user_id
		WHERE ls.user_id = ANY($1)
		  AND ls.spotify_track_id <> ALL($2)
		ORDER BY ls.liked_at DESC
		LIMIT $3
	`, pq.Array(followeeIDs), pq.Array(excludeTrackIDs), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []models.LikedSong
	for rows.Next() {
		var s models.LikedSong
		if err := rows.Scan(&s.ID, &s.UserID, &s.Username, &s.SpotifyTrack,
			&s.TrackName, &s.ArtistName, &s.AlbumName, &s.AlbumImageURL,
			&s.LikedAt); err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}
