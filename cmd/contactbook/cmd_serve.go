package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/HerbHall/contactbook/internal/auth"
	"github.com/HerbHall/contactbook/internal/config"
	"github.com/HerbHall/contactbook/internal/contacts"
	"github.com/HerbHall/contactbook/internal/plugin"
	"github.com/HerbHall/contactbook/internal/server"
	"github.com/HerbHall/contactbook/internal/store"
	"github.com/HerbHall/contactbook/internal/version"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

// serve runs until ctx is cancelled or SIGINT/SIGTERM arrives.
func serve(ctx context.Context, configPath string) error {
	v, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg := config.New(v)

	logger, level, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("ContactBook server starting", zap.String("version", version.Short()))

	if configPath != "" {
		v.OnConfigChange(func(e fsnotify.Event) {
			applyLogLevel(cfg, level, logger, e)
		})
		v.WatchConfig()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.New(cfg.GetString("database.path"))
	if err != nil {
		return err
	}
	defer db.Close()

	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}
	if verifier == nil {
		logger.Warn("auth.signing_key is empty, phone routes will reject every request")
	}

	metrics := prometheus.NewRegistry()
	registry := plugin.NewRegistry(logger)

	// Compile-time composition.
	for _, p := range []plugin.Plugin{contacts.New()} {
		if err := registry.Register(p); err != nil {
			return err
		}
	}

	if err := registry.InitAll(ctx, plugin.Dependencies{
		Config:  cfg,
		Logger:  logger,
		Store:   db,
		Auth:    verifier,
		Metrics: metrics,
	}); err != nil {
		return err
	}
	if err := registry.MigrateAll(ctx, db); err != nil {
		return err
	}
	if cfg.GetBool("database.reseed") {
		if err := registry.SeedAll(ctx); err != nil {
			return err
		}
	}

	srv := server.New(server.OptionsFromConfig(cfg), registry, logger, metrics)
	logger.Info("ContactBook server ready", zap.String("addr", srv.Addr()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetDuration("server.shutdown_timeout"))
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("ContactBook server stopped")
	return nil
}

// newLogger builds a production or development zap logger at log.level.
// The returned level can be changed while the logger is in use.
func newLogger(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
	zc := zap.NewProductionConfig()
	if cfg.GetBool("log.development") {
		zc = zap.NewDevelopmentConfig()
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}
	if s := cfg.GetString("log.level"); s != "" {
		level, err := zap.ParseAtomicLevel(s)
		if err != nil {
			return nil, zc.Level, err
		}
		zc.Level = level
	}
	logger, err := zc.Build()
	return logger, zc.Level, err
}

// applyLogLevel re-reads log.level after the config file changed. Other
// keys need a restart.
func applyLogLevel(cfg *config.Config, level zap.AtomicLevel, logger *zap.Logger, e fsnotify.Event) {
	s := cfg.GetString("log.level")
	l, err := zapcore.ParseLevel(s)
	if err != nil {
		logger.Warn("ignoring invalid log.level from reloaded config", zap.String("file", e.Name), zap.String("log_level", s))
		return
	}
	if l == level.Level() {
		return
	}
	level.SetLevel(l)
	logger.Info("log level changed", zap.String("file", e.Name), zap.Stringer("log_level", l))
}

// newVerifier returns nil when no signing key is configured.
func newVerifier(cfg *config.Config) (*auth.Verifier, error) {
	v, err := auth.NewVerifier(
		[]byte(cfg.GetString("auth.signing_key")),
		cfg.GetString("auth.issuer"),
		cfg.GetString("auth.audience"),
		nil,
	)
	if errors.Is(err, auth.ErrNoSigningKey) {
		return nil, nil
	}
	return v, err
}
