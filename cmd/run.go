package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/jekabolt/privshop-seller/app"
	"github.com/jekabolt/privshop-seller/config"
	"github.com/jekabolt/privshop-seller/internal/store"
	"github.com/spf13/cobra"
)

func setupLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.Level(cfg.Logger.Level),
		AddSource: cfg.Logger.AddSource,
	}))
	slog.SetDefault(logger)
	return logger
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load a config %v", err.Error())
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := setupLogger(cfg)

	a := app.New(cfg)
	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("cannot start the application %v", err.Error())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	select {
	case s := <-sigCh:
		logger.With("signal", s.String()).Warn("signal received, exiting")
		stopCtx, stopCancel := context.WithTimeout(ctx, 15*time.Second)
		defer stopCancel()
		a.Stop(stopCtx)
		logger.Info("application exited")
	case <-a.Done():
		logger.Error("application exited")
	}

	return nil
}

func migrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load a config %v", err.Error())
	}
	logger := setupLogger(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbCfg := cfg.DB
	dbCfg.Automigrate = false
	db, err := store.Open(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := store.MigrateWithContext(ctx, db.DB, db.DriverName())
	if err != nil {
		return fmt.Errorf("cannot apply migrations: %w", err)
	}
	logger.Info("migrations applied", slog.Int("count", n))
	return nil
}
