package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/diegoclair/qotd-bot/internal/config"
	"github.com/diegoclair/qotd-bot/internal/domain/service"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
	appName = "qotd-bot"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Question of the Day bot",
		Long: `qotd-bot posts one approved question per day to a chat channel.

Members submit suggestions, moderators approve or reject them, and the
bot draws the daily question at random from the approved pool.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSetup(logLevel, config.Load, serve)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Connect to the chat platform and post on schedule (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSetup(logLevel, config.Load, serve)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the queue files or apply the SQLite schema, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSetup(logLevel, config.LoadStorage, migrate)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the queue sizes and the next scheduled post as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSetup(logLevel, config.LoadStorage, func(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
				return status(ctx, cfg, logger, cmd.OutOrStdout())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

type runFunc func(ctx context.Context, cfg *config.Config, logger *slog.Logger) error

// withSetup loads .env and the configuration, configures logging and runs fn
// until SIGINT or SIGTERM. migrate and status load with config.LoadStorage so
// they run without chat credentials.
func withSetup(logLevel string, load func() (*config.Config, error), fn runFunc) error {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found")
	}

	cfg, err := load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return fn(ctx, cfg, logger)
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	_, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	logger.Info("Storage ready", slog.String("backend", cfg.StorageBackend))
	return nil
}

func status(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// status only reads the stores, so no messenger is needed
	svc := service.NewInstance(store, nil, serviceOptions(cfg, loc), logger, nil)

	st, err := svc.Questions.Status(ctx)
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}
