package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.Form.Get("refresh_token"))
		assert.Equal(t, "cid", r.Form.Get("client_id"))
		w.Write([]byte(`{"access_token": "new-token", "expires_in": 3600}`))
	}))
	defer srv.Close()

	client := NewClient("cid", "secret", srv.URL, "https://api.example.com")
	tokens, err := client.Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-token", tokens.AccessToken)
	assert.Equal(t, 3600, tokens.ExpiresIn)
}

func TestRefreshRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_grant"}`))
	}))
	defer srv.Close()

	client := NewClient("cid", "secret", srv.URL, "https://api.example.com")
	_, err := client.Refresh(context.Background(), "revoked")
	assert.Error(t, err)
}

func TestRecentlyPlayed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/player/recently-played", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		w.Write([]byte(`{
			"items": [
				{
					"played_at": "2026-08-01T10:00:00Z",
					"track": {
						"id": "sp1",
						"name": "Song",
						"artists": [{"name": "Artist"}],
						"album": {"name": "Album", "images": [{"url": "img.jpg"}]}
					}
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient("cid", "secret", "https://token.example.com", srv.URL)
	tracks, err := client.RecentlyPlayed(context.Background(), "tok", 25)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "sp1", tracks[0].TrackID)
	assert.Equal(t, "Artist", tracks[0].ArtistName)
	assert.Equal(t, "img.jpg", tracks[0].AlbumImageURL)
}

func TestRecentlyPlayedClampsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	client := NewClient("cid", "secret", "https://token.example.com", srv.URL)
	tracks, err := client.RecentlyPlayed(context.Background(), "tok", 500)
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestRecentlyPlayedUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("cid", "secret", "https://token.example.com", srv.URL)
	_, err := client.RecentlyPlayed(context.Background(), "stale", 10)
	assert.Error(t, err)
}
