package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/laasyan18/Tunr/internal/middleware"
	"github.com/laasyan18/Tunr/internal/models"
	"github.com/laasyan18/Tunr/internal/service"
)

// MusicHandler handles the music library, playback sync and music
// recommendations.
type MusicHandler struct {
	svc *service.MusicService
}

// NewMusicHandler creates a new MusicHandler.
func NewMusicHandler(svc *service.MusicService) *MusicHandler {
	return &MusicHandler{svc: svc}
}

// LikeSong godoc
// POST /api/v1/music/likes
func (h *MusicHandler) LikeSong(c fiber.Ctx) error {
	var req models.LikeSongRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	created, err := h.svc.LikeSong(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return fail(c, err, "failed to like song", "track_id", req.SpotifyTrackID)
	}
	return c.JSON(fiber.Map{"liked": true, "created": created})
}

// UnlikeSong godoc
// DELETE /api/v1/music/likes/:track_id
func (h *MusicHandler) UnlikeSong(c fiber.Ctx) error {
	trackID := c.Params("track_id")

	removed, err := h.svc.UnlikeSong(c.Context(), middleware.UserID(c), trackID)
	if err != nil {
		return fail(c, err, "failed to unlike song", "track_id", trackID)
	}
	return c.JSON(fiber.Map{"liked": false, "removed": removed})
}

// Library godoc
// GET /api/v1/music/library
func (h *MusicHandler) Library(c fiber.Ctx) error {
	lib, err := h.svc.Library(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err, "failed to fetch music library")
	}
	return c.JSON(lib)
}

// SavePlaylist godoc
// POST /api/v1/music/playlists
func (h *MusicHandler) SavePlaylist(c fiber.Ctx) error {
	var req struct {
		SpotifyPlaylistID string `json:"spotify_playlist_id"`
		PlaylistName      string `json:"playlist_name"`
		PlaylistImageURL  string `json:"playlist_image_url"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	created, err := h.svc.SavePlaylist(c.Context(), middleware.UserID(c), req.SpotifyPlaylistID, req.PlaylistName, req.PlaylistImageURL)
	if err != nil {
		return fail(c, err, "failed to save playlist", "playlist_id", req.SpotifyPlaylistID)
	}
	return c.JSON(fiber.Map{"saved": true, "created": created})
}

// UnsavePlaylist godoc
// DELETE /api/v1/music/playlists/:playlist_id
func (h *MusicHandler) UnsavePlaylist(c fiber.Ctx) error {
	playlistID := c.Params("playlist_id")

	removed, err := h.svc.UnsavePlaylist(c.Context(), middleware.UserID(c), playlistID)
	if err != nil {
		return fail(c, err, "failed to unsave playlist", "playlist_id", playlistID)
	}
	return c.JSON(fiber.Map{"saved": false, "removed": removed})
}

// CheckLiked godoc
// GET /api/v1/music/check-liked?ids=a,b,c
func (h *MusicHandler) CheckLiked(c fiber.Ctx) error {
	var trackIDs []string
	for _, id := range strings.Split(c.Query("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			trackIDs = append(trackIDs, id)
		}
	}

	liked, err := h.svc.CheckLiked(c.Context(), middleware.UserID(c), trackIDs)
	if err != nil {
		return fail(c, err, "failed to check liked tracks")
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// Sync godoc
// POST /api/v1/music/sync
func (h *MusicHandler) Sync(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	synced, err := h.svc.SyncRecentlyPlayed(c.Context(), userID)
	if err != nil {
		return fail(c, err, "failed to sync recently played", "user_id", userID)
	}
	return c.JSON(fiber.Map{"synced": synced})
}

// Recommendations godoc
// GET /api/v1/recommendations/music
func (h *MusicHandler) Recommendations(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	resp, err := h.svc.Recommendations(c.Context(), userID)
	if err != nil {
		return fail(c, err, "failed to generate music recommendations", "user_id", userID)
	}
	return c.JSON(resp)
}
