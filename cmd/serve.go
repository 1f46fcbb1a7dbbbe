package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/crosti/buyerform/config"
	"github.com/crosti/buyerform/handler"
	"github.com/crosti/buyerform/pkg/logger"
	"github.com/crosti/buyerform/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the form submission and upload api",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		return serve(cmd.Context(), path)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config file when it exists and falls back to defaults
// plus environment otherwise.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, path string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.Info("configuration loaded successfully", "auth_enabled", cfg.AuthEnabled(), "scratch_backend", cfg.Ingest.ScratchBackend)

	scratch, err := setupScratch(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setting up scratch store: %w", err)
	}

	mailer, err := service.NewSMTPMailer(&cfg.Mail)
	if err != nil {
		return fmt.Errorf("setting up mailer: %w", err)
	}

	submissions := service.NewSubmissionService(mailer, service.SubmissionConfig{
		From:              cfg.Mail.User,
		To:                cfg.Mail.Recipient,
		IncludeAttachment: cfg.Mail.IncludeAttachment,
	})

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.Deps{
		Config:    cfg,
		Submitter: submissions,
		Processor: service.NewIngestor(scratch, cfg.Ingest.ParseTimeout, service.WithUnzipLimit(cfg.Ingest.MaxUnzipBytes)),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * cfg.Server.ReadTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server starting", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	slog.Info("server exited gracefully")
	return nil
}

// setupScratch builds the store that keeps raw copies of uploads.
func setupScratch(ctx context.Context, cfg *config.Config) (service.ScratchStore, error) {
	switch cfg.Ingest.ScratchBackend {
	case config.ScratchMinio:
		store, err := service.NewMinioScratch(&cfg.Minio)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		slog.Info("scratch copies stored in minio", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.Bucket)
		return store, nil
	default:
		store, err := service.NewLocalScratch(cfg.Ingest.ScratchDir)
		if err != nil {
			return nil, err
		}
		slog.Info("scratch copies stored on disk", "directory", cfg.Ingest.ScratchDir)
		return store, nil
	}
}
