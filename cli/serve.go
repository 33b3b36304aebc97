package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cronlib "github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/srgchrksv/ieltspodcaster/routes"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("shutdown cleanup failed", slog.String("error", err.Error()))
		}
	}()

	// the server still starts without a model and reports 503 for dialogues
	_ = a.loadGenerator(ctx)
	a.connectSpeech(ctx)

	scheduler, err := startPruner(a)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer func() { <-scheduler.Stop().Done() }()
	}

	r := gin.Default()
	routes.RegisterRoutes(r, a.services, a.metrics, cfg.HTTP.AllowOrigins)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// startPruner schedules the audio directory cleanup. It returns nil when
// pruning is disabled.
func startPruner(a *app) (*cronlib.Cron, error) {
	schedule := a.cfg.Storage.PruneSchedule
	keep := a.cfg.Storage.MaxFiles
	if schedule == "" || keep <= 0 {
		return nil, nil
	}

	scheduler := cronlib.New()
	_, err := scheduler.AddFunc(schedule, func() {
		if _, err := a.services.Prune(keep); err != nil {
			a.logger.Warn("audio pruning failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	scheduler.Start()
	a.logger.Info("audio pruning scheduled", slog.String("schedule", schedule), slog.Int("keep", keep))
	return scheduler, nil
}
