package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/corvid-chat/corvid/internal/middleware"
)

// RouterConfig wires the handlers and middleware into a gin engine.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RouterConfig struct {
	Health   *HealthHandler
	Channels *ChannelHandler
	Messages *MessageHandler
	Music    *MusicHandler

	Verifier middleware.TokenVerifier
	Observer middleware.HTTPObserver
	Metrics  http.Handler
	Logger   *zap.Logger
}

// NewRouter builds the HTTP routes. Health and metrics endpoints are public;
// everything under /api/v1 except the demo listing requires a token.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogger(cfg.Logger))
	}
	if cfg.Observer != nil {
		r.Use(middleware.Metrics(cfg.Observer))
	}

	r.GET("/health/live", cfg.Health.LivenessProbe)
	r.GET("/health/ready", cfg.Health.ReadinessProbe)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	r.GET("/api/v1/demo/channels", cfg.Channels.Demo)

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.Verifier))

	channels := api.Group("/channels")
	channels.GET("", cfg.Channels.List)
	channels.GET("/more", cfg.Channels.More)
	channels.GET("/stats", cfg.Channels.Stats)
	channels.GET("/categories", cfg.Channels.Categories)
	channels.GET("/templates", cfg.Channels.Templates)
	channels.POST("", cfg.Channels.Create)
	channels.POST("/templates/:name", cfg.Channels.CreateFromTemplate)
	channels.POST("/initialize", cfg.Channels.Initialize)
	channels.POST("/reset", cfg.Channels.Reset)
	channels.GET("/:id", cfg.Channels.Get)
	channels.PATCH("/:id", cfg.Channels.Update)
	channels.DELETE("/:id", cfg.Channels.Delete)
	channels.GET("/:id/messages", cfg.Messages.List)
	channels.POST("/:id/messages", cfg.Messages.Send)

	api.PATCH("/messages/:id", cfg.Messages.Edit)
	api.DELETE("/messages/:id", cfg.Messages.Delete)

	music := api.Group("/music/:channelId")
	music.GET("/queue", cfg.Music.Queue)
	music.POST("/queue", cfg.Music.Add)
	music.POST("/skip", cfg.Music.Skip)
	music.POST("/clear", cfg.Music.Clear)

	return r
}
