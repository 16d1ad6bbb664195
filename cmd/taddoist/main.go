package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/marcogenualdo/taddoist/internal/auth"
	"github.com/marcogenualdo/taddoist/internal/auth/google"
	"github.com/marcogenualdo/taddoist/internal/auth/todoist"
	"github.com/marcogenualdo/taddoist/internal/config"
	"github.com/marcogenualdo/taddoist/internal/server"
	"github.com/marcogenualdo/taddoist/internal/session"
	"github.com/marcogenualdo/taddoist/internal/store"
	todoistapi "github.com/marcogenualdo/taddoist/internal/todoist"
	"github.com/marcogenualdo/taddoist/pkg/security"
	"golang.org/x/sync/errgroup"
)

const defaultConfigPath = "/etc/taddoist/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	configPathShort := flag.String("c", defaultConfigPath, "path to configuration file (short)")
	showVersion := flag.Bool("version", false, "show version and exit")
	showHelp := flag.Bool("help", false, "show help and exit")
	flag.Parse()

	if *showVersion {
		version := os.Getenv("GAE_VERSION")
		if version == "" {
			version = config.DefaultVersion
		}
		fmt.Printf("Taddoist %s\n", version)
		os.Exit(0)
	}

	if *showHelp {
		fmt.Println("Taddoist - save web pages as Todoist tasks from a bookmarklet")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfgPath := *configPath
	if *configPathShort != defaultConfigPath {
		cfgPath = *configPathShort
	}

	if err := run(cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg.Logging, os.Stdout)
	logger.Info("starting taddoist", "version", cfg.Version)

	ctx := context.Background()

	// The verifier keeps ctx for fetching signing keys; it is never cancelled.
	var (
		g             errgroup.Group
		st            store.Store
		googleAdapter *google.Adapter
	)
	g.Go(func() error {
		var err error
		st, err = store.New(ctx, cfg.Store)
		if err != nil {
			return fmt.Errorf("failed to create store: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		googleAdapter, err = google.New(ctx, cfg.Google)
		if err != nil {
			return fmt.Errorf("failed to create google provider: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if st != nil {
			st.Close()
		}
		return err
	}
	logger.Info("store initialized", "type", cfg.Store.Type)
	logger.Info("provider initialized", "provider", googleAdapter.Name(), "issuer", cfg.Google.Issuer)

	cookieOpts := security.CookieOptionsFrom(cfg.Server)
	csrf := auth.NewCSRFStore(cfg.CSRF.CookieName, cfg.CSRF.CookiePath, cfg.CSRF.TTL, cookieOpts)

	todoistAdapter := todoist.New(cfg.Todoist, nil)
	logger.Info("provider initialized", "provider", todoistAdapter.Name())

	todoistAPI, err := todoistapi.NewFactory(cfg.Todoist, cfg.Version, nil)
	if err != nil {
		st.Close()
		return fmt.Errorf("failed to create todoist client: %w", err)
	}

	srv, err := server.New(*cfg, server.Deps{
		Store:      st,
		Google:     auth.NewFlow[*google.Token](googleAdapter, csrf, cfg.Google.ExchangeTimeout),
		Todoist:    auth.NewFlow[string](todoistAdapter, csrf, cfg.Todoist.ExchangeTimeout),
		Sessions:   session.NewManager(cfg.Session, cookieOpts),
		TodoistAPI: todoistAPI,
	}, logger)
	if err != nil {
		st.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

func setupLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "cloud":
		opts.ReplaceAttr = cloudLoggingAttr
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// cloudLoggingAttr renames the top-level keys Google Cloud Logging reads
// from structured stdout.
func cloudLoggingAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.LevelKey:
		a.Key = "severity"
		if level, ok := a.Value.Any().(slog.Level); ok && level == slog.LevelWarn {
			a.Value = slog.StringValue("WARNING")
		}
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}
