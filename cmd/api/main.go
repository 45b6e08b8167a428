package main

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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/unlockgrowth/intake/internal/chat"
	"github.com/unlockgrowth/intake/internal/config"
	intakeHttp "github.com/unlockgrowth/intake/internal/http"
	chatHandler "github.com/unlockgrowth/intake/internal/http/chat"
	sessionHandler "github.com/unlockgrowth/intake/internal/http/session"
	"github.com/unlockgrowth/intake/internal/importer"
	"github.com/unlockgrowth/intake/internal/intake"
	intakeStore "github.com/unlockgrowth/intake/internal/intake/store"
	"github.com/unlockgrowth/intake/internal/scheduler"
	"github.com/unlockgrowth/intake/internal/submit"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.Webhook.URL == "" {
		slog.Warn("WEBHOOK_URL not set, submissions are disabled")
	}

	var (
		intakeService = intake.NewService(intakeStore.New())
		importService = importer.NewService()
		submitService = submit.NewService(cfg.Webhook.URL, cfg.Webhook.Timeout, cfg.App.Name)
	)

	submitService.WithRateLimit(cfg.Webhook.RatePerMinute)

	sched := scheduler.New()
	if err := sched.AddJob("@every "+cfg.Session.SweepInterval.String(), intake.NewPurgeJob(intakeService, cfg.Session.IdleTTL)); err != nil {
		return fmt.Errorf("schedule session purge: %w", err)
	}

	var (
		sessionH = sessionHandler.NewHandler(intakeService, importService, submitService)
		chatH    = chatHandler.NewHandler(chat.NewAssistant())
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           intakeHttp.New(cfg.Server.AllowedOrigins, sessionH, chatH),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + cfg.Webhook.Timeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		sched.Start()
		<-ctx.Done()
		sched.Stop()

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		slog.Info("shutting down server")

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
