package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corvid-chat/corvid/internal/service"
)

// MusicHandler exposes channel queues over REST.
type MusicHandler struct {
	music *service.MusicService
}

// NewMusicHandler creates a new MusicHandler instance.
func NewMusicHandler(music *service.MusicService) *MusicHandler {
	return &MusicHandler{music: music}
}

type addTrackRequest struct {
	URL string `json:"url"`
}

// Queue handles GET /music/:channelId/queue.
func (h *MusicHandler) Queue(c *gin.Context) {
	state, err := h.music.Queue(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Add handles POST /music/:channelId/queue.
func (h *MusicHandler) Add(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req addTrackRequest
	if !bindJSON(c, &req) {
		return
	}

	track, err := h.music.Add(c.Request.Context(), c.Param("channelId"), req.URL, identity.DisplayName())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Track added to queue",
		"track":   track,
	})
}

// Skip handles POST /music/:channelId/skip.
func (h *MusicHandler) Skip(c *gin.Context) {
	state, err := h.music.Skip(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Clear handles POST /music/:channelId/clear.
func (h *MusicHandler) Clear(c *gin.Context) {
	if err := h.music.Clear(c.Request.Context(), c.Param("channelId")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Queue cleared"})
}
