package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the Spotify Web API client. Callers are expected to hold a
// per-user access token and refresh it through Refresh when expired.
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string
	apiBaseURL   string
	http         *http.Client
}

// NewClient creates a new Spotify API client.
func NewClient(clientID, clientSecret, tokenURL, apiBaseURL string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		apiBaseURL:   strings.TrimRight(apiBaseURL, "/"),
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// TokenResponse is the Spotify token endpoint response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// PlayedTrack is one item from the recently-played endpoint, flattened.
type PlayedTrack struct {
	TrackID       string
	TrackName     string
	ArtistName    string
	AlbumName     string
	AlbumImageURL string
	PlayedAt      time.Time
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token refresh returned status %d: %s", resp.StatusCode, string(body))
	}

	var tokens TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	return &tokens, nil
}

type recentlyPlayedResponse struct {
	Items []struct {
		PlayedAt time.Time `json:"played_at"`
		Track    struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Name   string `json:"name"`
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
		} `json:"track"`
	} `json:"items"`
}

// RecentlyPlayed fetches the user's recently played tracks.
func (c *Client) RecentlyPlayed(ctx context.Context, accessToken string, limit int) ([]PlayedTrack, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	u := fmt.Sprintf("%s/me/player/recently-played?limit=%d", c.apiBaseURL, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	slog.Debug("fetching Spotify recently played", "limit", limit)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Spotify API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result recentlyPlayedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode recently played response: %w", err)
	}

	tracks := make([]PlayedTrack, 0, len(result.Items))
	for _, item := range result.Items {
		t := PlayedTrack{
			TrackID:   item.Track.ID,
			TrackName: item.Track.Name,
			AlbumName: item.Track.Album.Name,
			PlayedAt:  item.PlayedAt,
		}
		if len(item.Track.Artists) > 0 {
			t.ArtistName = item.Track.Artists[0].Name
		}
		if len(item.Track.Album.Images) > 0 {
			t.AlbumImageURL = item.Track.Album.Images[0].URL
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}
