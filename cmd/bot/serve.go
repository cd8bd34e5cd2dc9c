package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/diegoclair/qotd-bot/internal/config"
	"github.com/diegoclair/qotd-bot/internal/database"
	"github.com/diegoclair/qotd-bot/internal/domain/contract"
	"github.com/diegoclair/qotd-bot/internal/domain/service"
	"github.com/diegoclair/qotd-bot/internal/filestore"
	"github.com/diegoclair/qotd-bot/internal/handlers"
	"github.com/diegoclair/qotd-bot/internal/metrics"
	"github.com/diegoclair/qotd-bot/internal/platform/discord"
	slackplatform "github.com/diegoclair/qotd-bot/internal/platform/slack"
	"github.com/diegoclair/qotd-bot/migrator/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slack-go/slack"
)

const shutdownTimeout = 10 * time.Second

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handlers.HandleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	var svc *service.Instance

	switch cfg.Platform {
	case config.PlatformSlack:
		client := slack.New(cfg.BotToken)
		svc = service.NewInstance(store, slackplatform.NewMessenger(client), serviceOptions(cfg, loc), logger, m)

		slackHandler := handlers.New(client, svc.Questions, cfg.SlackSigningSecret, logger)
		mux.HandleFunc("POST /slack/commands", slackHandler.HandleSlashCommand)
		mux.HandleFunc("POST /slack/interactions", slackHandler.HandleInteraction)

	default:
		session, err := discord.NewSession(cfg.BotToken)
		if err != nil {
			return err
		}
		svc = service.NewInstance(store, discord.NewMessenger(session), serviceOptions(cfg, loc), logger, m)

		bot := discord.NewBot(session, discord.NewHandler(svc.Questions, logger), cfg.GuildID, logger)
		if err := bot.Open(); err != nil {
			return err
		}
		defer bot.Close()
	}

	mux.Handle("GET /status", handlers.NewStatusHandler(svc.Questions, logger))

	svc.Scheduler.Start(ctx)
	defer svc.Scheduler.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("platform", cfg.Platform))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// openStore prepares the configured backend. The returned close func is never nil.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (contract.QueueStore, func() error, error) {
	if cfg.StorageBackend == config.BackendSQLite {
		db, err := database.New(cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}

		logger.Info("Running migrations...")
		if err := sqlite.Migrate(db.DB()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("Migrations completed successfully", slog.String("path", cfg.DatabasePath))

		return database.NewInstance(db), db.Close, nil
	}

	fs := filestore.New(cfg.DataDir)
	if err := fs.Init(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}
	logger.Info("Using queue files", slog.String("dir", cfg.DataDir))

	return fs, func() error { return nil }, nil
}

func serviceOptions(cfg *config.Config, loc *time.Location) service.Options {
	return service.Options{
		QotdChannelID:       cfg.QotdChannelID,
		ModerationChannelID: cfg.ModerationChannelID,
		RoleID:              cfg.RolePingID,
		PostHour:            cfg.PostHour,
		Location:            loc,
	}
}
