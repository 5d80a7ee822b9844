package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/corvid-chat/corvid/internal/catalog"
	"github.com/corvid-chat/corvid/internal/config"
	"github.com/corvid-chat/corvid/internal/handler"
	"github.com/corvid-chat/corvid/internal/metrics"
	"github.com/corvid-chat/corvid/internal/middleware"
	"github.com/corvid-chat/corvid/internal/musicbot"
	"github.com/corvid-chat/corvid/internal/repository"
	"github.com/corvid-chat/corvid/internal/resolver"
	"github.com/corvid-chat/corvid/internal/service"
	"github.com/corvid-chat/corvid/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("server")

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(cfg.Database.URL()); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		log.Info("database migrations applied")
	}

	pool, err := initDatabase(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("database connection established", zap.Int32("maxConns", pool.Config().MaxConns))

	repo := repository.New(pool)

	publisher := initPublisher(cfg, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	trackResolver, redisClient, err := initResolver(ctx, cfg, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.New()

	opts := []catalog.Option{catalog.WithPageSize(cfg.Catalog.PageSize)}
	if cfg.Catalog.Seed != 0 {
		opts = append(opts, catalog.WithRandSource(catalog.NewRandSource(cfg.Catalog.Seed)))
	}
	manager := catalog.NewManager(opts...)

	queue := musicbot.NewQueue(trackResolver)
	bot := musicbot.NewBot(queue, cfg.Bot.Prefix)

	channelService := service.NewChannelService(manager, publisher, m, cfg.Catalog.MaxPageSize)
	if _, err := channelService.Initialize(ctx, cfg.Catalog.InitialTotal); err != nil {
		return fmt.Errorf("initialize catalog: %w", err)
	}
	messageService := service.NewMessageService(repo, manager, bot, publisher, m)
	musicService := service.NewMusicService(queue, manager, publisher, m)

	verifier, err := middleware.NewStaticTokenVerifier(cfg.Auth.Tokens)
	if err != nil {
		return fmt.Errorf("parse auth tokens: %w", err)
	}
	if len(cfg.Auth.Tokens) == 0 {
		log.Warn("no auth tokens configured, /api/v1 will reject all requests",
			zap.String("envVar", "APP_AUTH_TOKENS"),
		)
	}

	gin.SetMode(cfg.Server.Mode)
	router := handler.NewRouter(handler.RouterConfig{
		Health:   handler.NewHealthHandler(repo, publisher),
		Channels: handler.NewChannelHandler(channelService),
		Messages: handler.NewMessageHandler(messageService),
		Music:    handler.NewMusicHandler(musicService),
		Verifier: verifier,
		Observer: m,
		Metrics:  m.Handler(),
		Logger:   logger.Named("http"),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.Int("channels", manager.Size()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				log.Error("failed to close server", zap.Error(err))
			}
			return err
		}

		log.Info("server stopped gracefully")
		return nil
	}
}

// initDatabase opens the pool described by dsn and verifies connectivity.
func initDatabase(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// initPublisher connects to RabbitMQ when enabled. A failed connection is
// logged and events are dropped rather than blocking startup.
func initPublisher(cfg *config.Config, log *zap.Logger) service.EventPublisher {
	if !cfg.RabbitMQ.Enabled {
		log.Info("RabbitMQ disabled, change events will not be published")
		return service.NopPublisher{}
	}

	publisher, err := service.NewRabbitPublisher(&cfg.RabbitMQ)
	if err != nil {
		log.Warn("failed to connect to RabbitMQ, change events will not be published", zap.Error(err))
		return service.NopPublisher{}
	}
	log.Info("RabbitMQ publisher initialized", zap.String("exchange", cfg.RabbitMQ.Exchange))
	return publisher
}

// initResolver builds the track resolver chain: the YouTube Data API when a
// key is configured, then oEmbed, optionally behind the Redis cache.
func initResolver(ctx context.Context, cfg *config.Config, log *zap.Logger) (musicbot.Resolver, *redis.Client, error) {
	var resolvers []musicbot.Resolver

	if cfg.Bot.YouTubeAPIKey != "" {
		yt, err := resolver.NewYouTubeResolver(ctx, cfg.Bot.YouTubeAPIKey, cfg.Bot.ResolveTimeout)
		if err != nil {
			log.Warn("failed to initialize YouTube API client, falling back to oEmbed", zap.Error(err))
		} else {
			resolvers = append(resolvers, yt)
			log.Info("YouTube API client initialized")
		}
	} else {
		log.Info("YouTube API key not configured (APP_BOT_YOUTUBEAPIKEY), tracks resolve through oEmbed")
	}
	resolvers = append(resolvers, resolver.NewOEmbedResolver(nil, cfg.Bot.OEmbedURL, cfg.Bot.ResolveTimeout))

	var chain musicbot.Resolver = resolver.NewChain(logger.Named("resolver"), resolvers...)
	if !cfg.Redis.Enabled {
		return chain, nil, nil
	}

	client, err := resolver.NewRedisClient(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis URL: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, track cache will fall through until it recovers", zap.Error(err))
	}
	log.Info("track metadata cache enabled", zap.Duration("ttl", cfg.Redis.TrackTTL))
	return resolver.NewCachedResolver(client, chain, cfg.Redis.TrackTTL, logger.Named("track-cache")), client, nil
}
