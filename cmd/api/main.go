// Package main is the entrypoint for the alterwhite API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/alterwhite/alterwhite-api/internal/cache"
	"github.com/alterwhite/alterwhite-api/internal/config"
	"github.com/alterwhite/alterwhite-api/internal/handler"
	"github.com/alterwhite/alterwhite-api/internal/metrics"
	"github.com/alterwhite/alterwhite-api/internal/middleware"
	"github.com/alterwhite/alterwhite-api/internal/server"
	"github.com/alterwhite/alterwhite-api/internal/service"
	"github.com/alterwhite/alterwhite-api/internal/store"
	"github.com/alterwhite/alterwhite-api/internal/token"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	st, err := store.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Error(
			"failed to connect to MongoDB",
			slog.String("error", sanitizeError(err, cfg.MongoURI)),
			slog.String("mongo_uri", redactURL(cfg.MongoURI)),
		)
		os.Exit(1)
	}
	logger.Info("connected to MongoDB", "database", cfg.MongoDatabase)

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	recorder := metrics.NewNoop()
	tokens := token.NewService([]byte(cfg.TokenSecret), cfg.TokenTTL)

	userService := service.NewUserService(st)
	queryService := service.NewQueryService(st, cacheClient, recorder)
	recommendationService := service.NewRecommendationService(st, st, cacheClient, recorder, logger)

	corsCfg := middleware.DefaultCORSConfig()
	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg.AllowedOrigins = origins
		corsCfg.AllowCredentials = true
	}

	router := handler.NewRouter(handler.RouterDeps{
		Logger:   logger,
		Metrics:  recorder,
		Verifier: tokens,
		Limiter:  cacheClient,
		RateLimit: middleware.RateLimitConfig{
			Enabled:       cfg.TokenRateLimitEnabled,
			RatePerSecond: cfg.TokenRateLimitRPS,
			Burst:         cfg.TokenRateLimitBurst,
		},
		CORS:    corsCfg,
		MaxBody: cfg.MaxRequestBodySize,

		Health:          handler.NewHealthHandler(st, cacheClient),
		Tokens:          handler.NewTokenHandler(tokens, logger, recorder),
		Users:           handler.NewUserHandler(userService, logger),
		Queries:         handler.NewQueryHandler(queryService, logger),
		Recommendations: handler.NewRecommendationHandler(recommendationService, logger),
	})

	srv := server.New(
		router,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("mongo", st.Close)
	srv.OnShutdown("redis", func(context.Context) error { return cacheClient.Close() })

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
