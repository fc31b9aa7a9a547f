package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/pulse/backend/internal/cache"
	"github.com/anonto42/pulse/backend/internal/logger"
	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/internal/router"
	"github.com/anonto42/pulse/backend/pkg/config"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pulse",
		Short: "Pulse social posting API",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			logger.InitFromConfig(cfg)
		},
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the metrics endpoint",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the PostgreSQL tables and MongoDB indexes",
		RunE:  runMigrate,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.L()

	db, err := config.InitDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	if err := migrate(ctx, db); err != nil {
		return err
	}

	var unread *cache.RedisCache
	if cfg.Redis.Addr != "" {
		unread = cache.NewRedisCache(cfg)
		defer unread.Close()
		if err := unread.Ping(ctx); err != nil {
			log.Warn("redis unavailable, unread counts will be read from the store", "addr", cfg.Redis.Addr, "error", err)
		}
	}

	e := router.New(cfg, router.NewDeps(cfg, db, unread, log), log)
	metricsSrv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.MetricsPort),
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("api listening", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(net.JoinHostPort("", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("metrics listening", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(e.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})
	return g.Wait()
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, err := config.InitDB(ctx, cfg, logger.L())
	if err != nil {
		return err
	}
	defer db.CloseDB()

	if err := migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("migrations completed")
	return nil
}

func migrate(ctx context.Context, db *config.DB) error {
	if err := repositories.Migrate(db.Postgres); err != nil {
		return err
	}
	return repositories.NewMongoPostRepository(db.MongoDB, cfg.PostTTL).EnsureIndexes(ctx)
}
