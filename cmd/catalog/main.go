package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"formulary/internal/catalogapi"
	"formulary/internal/config"
	"formulary/internal/db"
	applog "formulary/internal/log"
)

var (
	loadConfigFunc   = config.Load
	openDatabaseFunc = db.Open
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Development catalog service for formulary",
		Long: `catalog serves the formula catalog API backed by Postgres (DATABASE_URL)
or by a seeded in-memory database, and maintains its contents.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	cmd.AddCommand(serveCmd(flags), importCmd(flags), verbalizeCmd(flags))
	return cmd
}

// dbTarget describes the database a command needs. Durable commands write
// data that must outlive the process, so they only accept the in-memory
// database when mock is set.
type dbTarget struct {
	command string
	durable bool
	mock    bool
}

// setup loads configuration, applies the log level and opens the database.
func setup(ctx context.Context, flags *globalFlags, target dbTarget) (config.Config, *gorm.DB, error) {
	cfg, err := loadConfigFunc(flags.configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	if target.durable {
		switch {
		case target.mock:
			cfg.Database.UseMock = true
		case bool(cfg.Database.UseMock):
			return config.Config{}, nil, fmt.Errorf("DATABASE_USE_MOCK is set; %s writes would be lost (pass --mock to write to the in-memory database anyway)", target.command)
		case strings.TrimSpace(cfg.Database.URL) == "":
			return config.Config{}, nil, fmt.Errorf("DATABASE_URL is required for %s (pass --mock to write to the in-memory database)", target.command)
		}
	}

	level := flags.logLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	if err := applog.SetLevel(level); err != nil {
		return config.Config{}, nil, fmt.Errorf("set log level: %w", err)
	}

	database, err := openDatabaseFunc(ctx, cfg.Database)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, database, nil
}

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, database, err := setup(ctx, flags, dbTarget{command: "serve"})
			if err != nil {
				return err
			}
			defer func() { _ = applog.Sync() }()
			return serve(ctx, cfg.Server.CatalogAddr, catalogapi.New(database).Routes())
		},
	}
}

// serve runs handler on addr until ctx is cancelled.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "catalog api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Info(shutdownCtx, "catalog api shutting down")
	return srv.Shutdown(shutdownCtx)
}
