// Package main is the entrypoint for the Labstock API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/labstock/labstock/internal/backup"
	"github.com/labstock/labstock/internal/cache"
	"github.com/labstock/labstock/internal/config"
	"github.com/labstock/labstock/internal/handler"
	"github.com/labstock/labstock/internal/metrics"
	"github.com/labstock/labstock/internal/middleware"
	"github.com/labstock/labstock/internal/server"
	"github.com/labstock/labstock/internal/service"
	"github.com/labstock/labstock/internal/store"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Open the durable mirror and recover the in-memory state from it
	mirror, err := openMirror(ctx, cfg)
	if err != nil {
		logger.Error(
			"failed to open durable mirror",
			slog.String("driver", cfg.StoreDriver),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}

	metricsRecorder := metrics.NewInMemory()
	st, err := store.Open(ctx, mirror, logger, metricsRecorder)
	if err != nil {
		logger.Error("failed to load state from mirror", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	logger.Info("state loaded", "driver", cfg.StoreDriver)

	// Initialize the optional Redis cache (login throttle only)
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		defer cacheClient.Close()
		logger.Info("connected to Redis")
	}

	// Initialize the best-effort backup push
	sink, err := openSink(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize backup sink", "driver", cfg.BackupDriver, "error", err)
		os.Exit(1)
	}
	if cfg.IsProduction() && cfg.BackupDriver == "disabled" {
		logger.Warn("backups disabled in production; the durable mirror is the only copy")
	}
	worker := backup.NewWorker(st, sink, logger, metricsRecorder,
		backup.WithInterval(cfg.BackupInterval),
		backup.WithHistory(cfg.BackupHistory),
	)
	workerCtx, stopWorker := context.WithCancel(ctx)
	go func() {
		if err := worker.Run(workerCtx); err != nil && workerCtx.Err() == nil {
			logger.Error("backup worker stopped", "error", err)
		}
	}()

	// Initialize services
	inventoryService := service.NewInventoryService(st)
	userService := service.NewUserService(st, cfg.ResetProofPhrase, metricsRecorder)
	timeLogService := service.NewTimeLogService(st)

	// Initialize handlers
	h := handler.New()
	var cacheChecker handler.HealthChecker
	if cacheClient != nil {
		cacheChecker = cacheClient
	}
	healthHandler := handler.NewHealthHandler(st, cacheChecker)
	categoryHandler := handler.NewCategoryHandler(inventoryService, logger)
	authHandler := handler.NewAuthHandler(userService, logger)
	timeLogHandler := handler.NewTimeLogHandler(timeLogService, logger)

	// Setup router
	r := setupRouter(h, healthHandler, categoryHandler, authHandler, timeLogHandler, cacheClient, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Final backup push on shutdown, then stop the worker loop.
	srv.OnShutdown("backup", func(ctx context.Context) error {
		defer stopWorker()
		if cfg.BackupDriver == "disabled" {
			return nil
		}
		return worker.PushNow(ctx)
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"store_driver", cfg.StoreDriver,
		"backup_driver", cfg.BackupDriver,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openMirror constructs the durable mirror named by STORE_DRIVER.
func openMirror(ctx context.Context, cfg *config.Config) (store.Mirror, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return store.NewSQLiteMirror(cfg.SQLitePath())
	case "postgres":
		return store.NewPostgresMirror(ctx, cfg.DatabaseURL)
	case "memory":
		return store.NewMemoryMirror(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// openSink constructs the backup sink named by BACKUP_DRIVER.
func openSink(ctx context.Context, cfg *config.Config) (backup.Sink, error) {
	switch cfg.BackupDriver {
	case "s3":
		return backup.NewS3Sink(ctx, backup.S3Config{
			Region:    cfg.BackupS3Region,
			Bucket:    cfg.BackupS3Bucket,
			Endpoint:  cfg.BackupS3Endpoint,
			PathStyle: cfg.BackupS3PathStyle,
			Prefix:    cfg.BackupS3Prefix,
		})
	case "dir":
		return backup.NewDirSink(filepath.Clean(cfg.BackupDir))
	case "disabled":
		return backup.Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown backup driver %q", cfg.BackupDriver)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
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

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	categoryHandler *handler.CategoryHandler,
	authHandler *handler.AuthHandler,
	timeLogHandler *handler.TimeLogHandler,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Login rate limit (brute-force throttle); inert without Redis
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:       logger,
		Cache:        cacheClient,
		LoginEnabled: cfg.RateLimitLoginEnabled && cacheClient != nil,
		LoginRPS:     cfg.RateLimitLoginRPS,
		LoginBurst:   cfg.RateLimitLoginBurst,
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Post("/", categoryHandler.Create)
			r.Route("/{category}", func(r chi.Router) {
				r.Delete("/", categoryHandler.Delete)
				r.Get("/export", categoryHandler.Export)
				r.Route("/items", func(r chi.Router) {
					r.Get("/", categoryHandler.Items)
					r.Post("/", categoryHandler.InsertItem)
					r.Patch("/{id}", categoryHandler.UpdateItem)
					r.Delete("/{id}", categoryHandler.DeleteItem)
				})
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.With(middleware.RateLimitLogin(rateLimitCfg)).Post("/login", authHandler.Login)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		r.Route("/timelog", func(r chi.Router) {
			r.Post("/", timeLogHandler.Clock)
			r.Get("/{user}", timeLogHandler.List)
			r.Get("/{user}/export", timeLogHandler.Export)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
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
