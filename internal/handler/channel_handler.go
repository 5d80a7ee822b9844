package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/corvid-chat/corvid/internal/catalog"
	"github.com/corvid-chat/corvid/internal/models"
	"github.com/corvid-chat/corvid/internal/service"
)

// ChannelHandler serves the channel catalog.
type ChannelHandler struct {
	channels *service.ChannelService
}

// NewChannelHandler creates a new ChannelHandler instance.
func NewChannelHandler(channels *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channels: channels}
}

// List handles GET /channels. Page 0 starts a fresh listing unless reset=false
// is passed; later pages append to the loaded view.
func (h *ChannelHandler) List(c *gin.Context) {
	opts, err := loadOptions(c)
	if err != nil {
		handleError(c, err)
		return
	}
	h.list(c, opts)
}

// Demo handles the unauthenticated demo listing, which always starts fresh.
func (h *ChannelHandler) Demo(c *gin.Context) {
	opts, err := loadOptions(c)
	if err != nil {
		handleError(c, err)
		return
	}
	opts.Reset = true
	h.list(c, opts)
}

func (h *ChannelHandler) list(c *gin.Context, opts catalog.LoadOptions) {
	result, err := h.channels.List(c.Request.Context(), opts)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// More handles GET /channels/more.
func (h *ChannelHandler) More(c *gin.Context) {
	result, err := h.channels.LoadMore(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{
			"channels": []models.ChannelRecord{},
			"hasMore":  false,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stats handles GET /channels/stats.
func (h *ChannelHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.channels.Stats(c.Request.Context()))
}

// Categories handles GET /channels/categories.
func (h *ChannelHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.channels.Categories(c.Request.Context())})
}

// Templates handles GET /channels/templates.
func (h *ChannelHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.channels.Templates(c.Request.Context())})
}

// Create handles POST /channels.
func (h *ChannelHandler) Create(c *gin.Context) {
	var input models.ChannelInput
	if !bindJSON(c, &input) {
		return
	}
	if input.CreatedBy == nil {
		identity, ok := requireIdentity(c)
		if !ok {
			return
		}
		input.CreatedBy = &identity.UID
	}

	rec, err := h.channels.Create(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Channel created successfully",
		"channel": rec,
	})
}

// CreateFromTemplate handles POST /channels/templates/:name. The body is an
// optional set of overrides.
func (h *ChannelHandler) CreateFromTemplate(c *gin.Context) {
	var overrides models.ChannelInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &overrides) {
		return
	}

	rec, err := h.channels.CreateFromTemplate(c.Request.Context(), c.Param("name"), overrides)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Channel created successfully",
		"channel": rec,
	})
}

type initializeRequest struct {
	Total int `json:"total"`
}

// Initialize handles POST /channels/initialize.
func (h *ChannelHandler) Initialize(c *gin.Context) {
	var req initializeRequest
	if !bindJSON(c, &req) {
		return
	}

	total, err := h.channels.Initialize(c.Request.Context(), req.Total)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

// Reset handles POST /channels/reset.
func (h *ChannelHandler) Reset(c *gin.Context) {
	stats := h.channels.Reset(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog reset",
		"stats":   stats,
	})
}

// Get handles GET /channels/:id.
func (h *ChannelHandler) Get(c *gin.Context) {
	rec, err := h.channels.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": rec})
}

// Update handles PATCH /channels/:id.
func (h *ChannelHandler) Update(c *gin.Context) {
	var patch models.ChannelPatch
	if !bindJSON(c, &patch) {
		return
	}

	rec, err := h.channels.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Channel updated successfully",
		"channel": rec,
	})
}

// Delete handles DELETE /channels/:id.
func (h *ChannelHandler) Delete(c *gin.Context) {
	if err := h.channels.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Channel deleted successfully"})
}

func loadOptions(c *gin.Context) (catalog.LoadOptions, error) {
	var opts catalog.LoadOptions
	var err error

	if opts.Page, err = intQuery(c, "page", 0); err != nil {
		return opts, err
	}
	if opts.PageSize, err = intQuery(c, "pageSize", 0); err != nil {
		return opts, err
	}
	opts.Search = c.Query("search")

	kind := c.Query("kind")
	if kind == "" {
		kind = c.Query("type")
	}
	if kind != "" {
		k := models.ChannelKind(strings.ToLower(kind))
		opts.Filters.Kind = &k
	}
	if category := c.Query("category"); category != "" {
		opts.Filters.Category = &category
	}
	if opts.Filters.BotEnabled, err = boolQuery(c, "botEnabled"); err != nil {
		return opts, err
	}
	if opts.Filters.IsPublic, err = boolQuery(c, "isPublic"); err != nil {
		return opts, err
	}

	opts.Reset = opts.Page == 0
	reset, err := boolQuery(c, "reset")
	if err != nil {
		return opts, err
	}
	if reset != nil {
		opts.Reset = *reset
	}
	return opts, nil
}
