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

	"formulary/internal/catalog"
	"formulary/internal/config"
	"formulary/internal/fetch"
	applog "formulary/internal/log"
	"formulary/internal/render"
	"formulary/internal/server"
)

const shutdownTimeout = 5 * time.Second

type serverLifecycle interface {
	Start() error
	Stop(ctx context.Context) error
}

var (
	loadConfigFunc  = config.Load
	setLogLevelFunc = applog.SetLevel
	newServerFunc   = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "formulary",
		Short: "Browse the formula catalog",
		Long: `Formulary serves a browser for a remote formula catalog: the formula list
with typeset notation, formula details, problem applications and the
link-formulas form.

The catalog service address is read from API_URL.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	cmd.AddCommand(&cobra.Command{
		Use:   "env",
		Short: "Describe the recognised environment variables",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
		},
	})

	return cmd
}

func run(ctx context.Context, configPath, logLevel string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfigFunc(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := strings.TrimSpace(logLevel)
	if level == "" {
		level = cfg.Logging.Level
	}
	if err := setLogLevelFunc(level); err != nil {
		return fmt.Errorf("set log level: %w", err)
	}
	defer func() { _ = applog.Sync() }()

	client := fetch.NewClient(fetch.Config{
		BaseURL: cfg.Catalog.APIURL,
		Timeout: cfg.Catalog.Timeout,
	})

	srv, err := newServerFunc(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Session.Lifetime,
			CookieName:   cfg.Session.CookieName,
			CookieDomain: cfg.Session.CookieDomain,
			CookieSecure: bool(cfg.Session.CookieSecure),
		},
		Client:   client,
		Renderer: render.NewMathJax(""),
		Dates:    catalog.NewDateFormatter(cfg.Display.Location(), cfg.Display.DateLayout),
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	shutdown, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr, "catalog", client.BaseURL())
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case sig := <-shutdown:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	case <-ctx.Done():
		applog.Info(ctx, "shutting down http server", "reason", ctx.Err())
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
