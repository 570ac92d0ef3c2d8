package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"movie-nexus-api/internal/cache"
	"movie-nexus-api/internal/config"
	"movie-nexus-api/internal/database"
	"movie-nexus-api/internal/handler"
	"movie-nexus-api/internal/logging"
	"movie-nexus-api/internal/middleware"
	"movie-nexus-api/internal/repository"
	"movie-nexus-api/internal/service"
	"movie-nexus-api/internal/tmdb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Connect to PostgreSQL
	db, err := database.NewPostgres(startCtx, cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(startCtx, db); err != nil {
		slog.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}

	// Cache: in-process tier always, Redis behind it when enabled.
	// An unreachable Redis is non-fatal; the breaker keeps probing it.
	var (
		rdb    *redis.Client
		remote cache.Backend
	)
	if cfg.Redis.Enabled {
		rdb, err = database.NewRedis(startCtx, cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, cache will run degraded", "error", err)
		}
		defer rdb.Close()
		remote = cache.NewRedisBackend(rdb, cache.RedisOptions{Timeout: cfg.Redis.OpTimeout})
	}
	backend := cache.NewLayered(cfg.Cache.LocalSize, cfg.Cache.LocalTTL, remote)
	c := cache.New(backend)

	var source service.MovieSource
	if cfg.TMDB.APIKey != "" {
		source = tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Timeout)
	} else {
		slog.Warn("TMDB API key not set, sync is disabled")
	}

	// Initialize layers
	movieRepo := repository.NewMovieRepository(db)
	userRepo := repository.NewUserRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)

	handlers := handler.Handlers{
		Movies:          handler.NewMovieHandler(service.NewMovieService(movieRepo, source, c, cfg.Cache)),
		Recommendations: handler.NewRecommendationHandler(service.NewRecommendationService(movieRepo, userRepo, ratingRepo, c, cfg.Cache)),
		Ratings:         handler.NewRatingHandler(service.NewRatingService(ratingRepo, movieRepo, c, cfg.Cache)),
		Users:           handler.NewUserHandler(service.NewUserService(userRepo, c, cfg.Cache)),
		Playlists:       handler.NewPlaylistHandler(service.NewPlaylistService(playlistRepo, movieRepo, c, cfg.Cache)),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName,
		ServerHeader: "Movie-Nexus",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: handler.ErrorHandler,
		UnescapePath: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New())
	app.Use(cors.New())
	if cfg.RateLimit.Enabled && rdb != nil {
		app.Use(middleware.NewRateLimiter(rdb, cfg.RateLimit, cfg.Redis.OpTimeout).Handler())
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger docs
	swaggerYAML, err := os.ReadFile(cfg.Server.SwaggerPath)
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML, cfg.Server.AppName)
	}

	handler.RegisterRoutes(app, handlers, middleware.NewAuthenticator(cfg.Auth))

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
		if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	slog.Info("starting server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
