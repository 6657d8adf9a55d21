package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"placement/internal/app"
	"placement/internal/audit"
	"placement/internal/config"
	apphttp "placement/internal/http"
	"placement/internal/http/handlers"
	"placement/internal/http/metrics"
	httpmw "placement/internal/http/middleware"
	"placement/internal/http/response"
	"placement/internal/logging"
	"placement/internal/repository"
	"placement/internal/security"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("storage close failed", slog.String("error", err.Error()))
		}
	}()
	logger.Info("storage ready", slog.String("backend", store.Backend))

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	if redisClient := connectRedis(cfg.RedisURL, logger); redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("redis close failed", slog.String("error", err.Error()))
			}
		}()
		limiter = httpmw.NewRedisLimiter(redisClient, "placement", logger)
	}

	dispatcher := audit.NewDispatcher(auditSink(ctx, cfg, logger), cfg.AuditBuffer, logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := dispatcher.Close(closeCtx); err != nil {
			logger.Warn("audit drain incomplete", slog.String("error", err.Error()))
		}
	}()

	jobService := app.NewJobService(store.Jobs, store.Recruiters, store.Students)
	profileService := app.NewProfileService(store.Students, store.Recruiters)
	applicationService := app.NewApplicationService(store.Applications, store.Jobs, store.Students, dispatcher, logger)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		JobHandler:         handlers.NewJobHandler(jobService),
		ProfileHandler:     handlers.NewProfileHandler(profileService),
		ApplicationHandler: handlers.NewApplicationHandler(applicationService, limiter, cfg.ApplyRateLimitPerMin),
		MetricsHandler:     handlers.NewMetricsHandler(collector),
		AuthMiddleware:     httpmw.NewAuthMiddleware(security.NewJWTProvider(cfg.JWTSecret)),
		Metrics:            collector,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("api listening", slog.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown error", slog.String("error", err.Error()))
	}
	return nil
}

func connectRedis(url string, logger *slog.Logger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Error("redis url parse failed", slog.String("error", err.Error()))
		return nil
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("redis ping failed, using in-process rate limiter", slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}
	return client
}

// auditSink assembles the configured audit destinations. A sink that fails to
// initialise is skipped.
func auditSink(ctx context.Context, cfg *config.Config, logger *slog.Logger) audit.Sink {
	var sinks audit.MultiSink
	if cfg.GoogleSheetsID != "" {
		key, err := serviceAccountKey(cfg.GoogleServiceAccount)
		if err != nil {
			logger.Warn("google service account unreadable, sheets audit disabled", slog.String("error", err.Error()))
		} else if sink, err := audit.NewSheetsSink(ctx, key, cfg.GoogleSheetsID); err != nil {
			logger.Warn("sheets audit disabled", slog.String("error", err.Error()))
		} else {
			sinks = append(sinks, sink)
		}
	}
	if cfg.AuditXLSXPath != "" {
		sinks = append(sinks, audit.NewExcelSink(cfg.AuditXLSXPath))
	}
	if len(sinks) == 0 {
		logger.Info("no audit sink configured")
		return audit.NopSink{}
	}
	return sinks
}

// serviceAccountKey accepts either inline JSON or a path to the key file.
func serviceAccountKey(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "{") {
		return []byte(value), nil
	}
	return os.ReadFile(value)
}
