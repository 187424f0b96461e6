package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/sky/skyplan/internal/api"
	"github.com/sky/skyplan/internal/auth"
	"github.com/sky/skyplan/internal/config"
	"github.com/sky/skyplan/internal/eop"
	"github.com/sky/skyplan/internal/events"
	"github.com/sky/skyplan/internal/kvstore"
	"github.com/sky/skyplan/internal/metrics"
	"github.com/sky/skyplan/internal/stream"
	"github.com/sky/skyplan/internal/timescale"
	"github.com/sky/skyplan/internal/twilight"
	"github.com/sky/skyplan/internal/window"
)

func serveCmd() *cobra.Command {
	var configPath string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the skyplan HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(configPath)
		},
	}
	c.Flags().StringVar(&configPath, "config", "skyplan.yaml", "path to the YAML config file")
	return c
}

func runServe(configPath string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cache := openCache(cfg, logger)
	if cache != nil {
		defer cache.Close()
	}

	store := eop.NewStore(cache, logger)
	times := timescale.NewBuilder(store)
	times.SetTAIMinusUTC(cfg.Time.TAIMinusUTC)

	tw := twilight.SolarCalculator{}
	planner := window.NewPlanner(times, tw)
	calendar := events.NewCalendar(times)

	streamHandler := stream.NewHandler(times, stream.Config{
		MaxConcurrentPerIP: cfg.Stream.MaxPerIP,
		MaxConcurrentTotal: cfg.Stream.MaxTotal,
	}, logger)

	authCfg := auth.Config{
		Enabled: cfg.Server.AuthToken != "",
		Token:   cfg.Server.AuthToken,
	}

	srv := api.NewServer(cfg.Server.Addr, api.Deps{
		Times:    times,
		Planner:  planner,
		Twilight: tw,
		Calendar: calendar,
		Stream:   streamHandler,
		EOPURLs:  cfg.EOP.SourceURLs,
	}, logger, authCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Periodic EOP refresh; the first one runs asynchronously at startup.
	refresh := func() {
		rctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		if err := store.Refresh(rctx, cfg.EOP.SourceURLs); err != nil {
			metrics.RecordEOPRefresh("error")
			logger.Warn("scheduled EOP refresh failed", "error", err)
			return
		}
		metrics.RecordEOPRefresh("ok")
		metrics.SetEOPFreshness(string(store.Snapshot(time.Now()).Freshness))
	}
	sched := cron.New()
	if _, err := sched.AddFunc(cfg.EOP.RefreshCron, refresh); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()
	go refresh()

	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr, "auth_enabled", authCfg.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

// openCache prefers the SQLite store and falls back to the plain file store,
// then to no persistence at all. The EOP store treats a nil cache as
// cache-miss-always.
func openCache(cfg *config.Config, logger *slog.Logger) kvstore.Store {
	if cfg.EOP.SQLitePath != "" {
		s, err := kvstore.NewSQLiteStore(cfg.EOP.SQLitePath)
		if err == nil {
			return s
		}
		logger.Warn("sqlite cache unavailable", "path", cfg.EOP.SQLitePath, "error", err)
	}
	if cfg.EOP.CachePath != "" {
		return kvstore.NewFileStore(cfg.EOP.CachePath)
	}
	return nil
}
