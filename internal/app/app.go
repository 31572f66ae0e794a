package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/galsed/sedfit/internal/config"
	"github.com/galsed/sedfit/internal/ctxlog"
	"github.com/galsed/sedfit/internal/fiterr"
	"github.com/galsed/sedfit/internal/fitting"
)

// Options holds everything an App instance needs to start.
type Options struct {
	// ConfigPath points to a .hcl file or a directory of .hcl files.
	// Empty means run on built-in defaults plus Overrides.
	ConfigPath string
	LogFormat  string
	LogLevel   string

	// Overrides apply on top of the loaded configuration, in the order
	// given. The CLI uses these to layer explicit flags over the file.
	Overrides []func(*config.Config)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	cfg     *config.Config
	backend fitting.Backend

	httpServer *http.Server
}

// New is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and a
// validated configuration with CLI overrides applied.
func New(outW io.Writer, opts *Options, loader config.Loader) (*App, error) {
	logger := newLogger(opts.LogLevel, opts.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := loader.Load(ctx, opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}
	logger.Debug("Configuration loaded.", "config_path", opts.ConfigPath)

	for _, apply := range opts.Overrides {
		apply(cfg)
	}
	if len(opts.Overrides) > 0 {
		logger.Debug("CLI overrides applied.", "count", len(opts.Overrides))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Configuration validation passed.")

	backend, ok := fitting.Lookup(cfg.Run.Backend)
	if !ok {
		return nil, fiterr.Configuration("unknown fitting backend %q (registered: %s)",
			cfg.Run.Backend, strings.Join(fitting.Names(), ", "))
	}
	logger.Debug("Fitting backend resolved.", "backend", backend.Name())

	return &App{
		outW:    outW,
		logger:  logger,
		cfg:     cfg,
		backend: backend,
	}, nil
}

// Config returns the effective configuration. This is primarily for testing.
func (a *App) Config() *config.Config {
	return a.cfg
}
