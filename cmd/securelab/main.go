package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/securelab/app/lab"
	"github.com/dmitrymomot/securelab/core/config"
	"github.com/dmitrymomot/securelab/core/logger"
	"github.com/dmitrymomot/securelab/middleware"
)

func main() {
	var cfg lab.Config
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.AppName),
		logger.WithLevelString(cfg.LogLevel),
		logger.WithContextValue("request_id", middleware.RequestIDContextKey()),
	)
	logger.SetAsDefault(log)

	if err := run(cfg); err != nil {
		log.Error("securelab stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info("securelab stopped")
}

func run(cfg lab.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := lab.NewApp(ctx, lab.WithConfig(cfg), lab.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
