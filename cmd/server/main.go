package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TETRIX8/youtubesave/api"
	"github.com/TETRIX8/youtubesave/api/middleware"
	"github.com/TETRIX8/youtubesave/internal/app"
	"github.com/TETRIX8/youtubesave/internal/domain"
	"github.com/TETRIX8/youtubesave/internal/infrastructure"
	"github.com/TETRIX8/youtubesave/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var configPath = flag.String("config", "", "Path to config file (default: search ./configs, ~/.youtubesave, /etc/youtubesave)")

func main() {
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(config, log); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}

func run(config *domain.Config, log *zap.Logger) error {
	log.Info("Starting YouTubeSave server",
		zap.String("version", version),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("extractor", config.Extractor.Binary),
		zap.Bool("history", config.History.Enabled),
		zap.Bool("rate_limit", config.RateLimit.Enabled))

	if config.Download.TempDir != "" {
		if err := os.MkdirAll(config.Download.TempDir, 0755); err != nil {
			return fmt.Errorf("failed to create temp dir %s: %w", config.Download.TempDir, err)
		}
	}

	var repo domain.HistoryRepository
	if config.History.Enabled {
		sqliteRepo, err := infrastructure.NewSQLiteHistoryRepository(config.History.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to initialize history: %w", err)
		}
		defer sqliteRepo.Close()
		repo = sqliteRepo
	}

	extractor := infrastructure.NewYTDLPExtractor(&config.Extractor, log)
	if path, err := extractor.LookupBinary(); err != nil {
		log.Warn("Extractor binary not found on PATH, requests will fail until it is installed",
			zap.String("binary", extractor.Name()))
	} else {
		log.Info("Using extractor", zap.String("path", path))
	}

	history := app.NewHistoryRecorder(repo, log)

	var limiter middleware.RateLimiter
	if config.RateLimit.Enabled {
		limiter = middleware.NewIPRateLimiter(
			config.RateLimit.Requests,
			config.RateLimit.Window,
			config.RateLimit.Burst,
			config.RateLimit.TTL,
		)
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.SetupRouter(api.Dependencies{
		Metadata:    app.NewMetadataService(extractor, history, log),
		Downloads:   app.NewDownloadService(extractor, &config.Download, history, log),
		History:     history,
		Probe:       extractor,
		Version:     version,
		RateLimiter: limiter,
		Logger:      log,

		TrustedProxies: config.Server.TrustedProxies,
	})

	addr := config.Server.Host + ":" + strconv.Itoa(config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: config.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Info("Shutting down server...")

	// in-flight downloads finish and release their workspaces before the deadline
	ctx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}
