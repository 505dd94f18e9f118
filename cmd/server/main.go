package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iliyamo/farm-biosecurity/internal/config"
	"github.com/iliyamo/farm-biosecurity/internal/database"
	"github.com/iliyamo/farm-biosecurity/internal/logger"
	"github.com/iliyamo/farm-biosecurity/internal/queue"
	"github.com/iliyamo/farm-biosecurity/internal/router"
	"github.com/iliyamo/farm-biosecurity/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config

	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	db, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		lg.Fatal("database open failed", "driver", cfg.DBDriver, "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
		lg.Fatal("migration failed", "error", err)
	}

	rdb, err := config.NewRedisClient()
	if err != nil {
		lg.Warn("redis unavailable; rate limiting and caching disabled", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	notifier := service.NewAlertNotifier(cfg.RabbitURL, lg)
	if cfg.AlertConsumerEnabled && cfg.RabbitURL != "" {
		consumer := &queue.AlertConsumer{URL: cfg.RabbitURL, LogDir: cfg.AlertLogDir, Log: lg}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("alert consumer stopped", "error", err)
			}
		}()
	}

	e, err := router.New(router.Deps{Cfg: cfg, DB: db, Redis: rdb, Notifier: notifier, Log: lg})
	if err != nil {
		lg.Fatal("router setup failed", "error", err)
	}

	addr := ":" + cfg.Port
	go func() {
		lg.Info("listening", "addr", addr, "env", cfg.Env, "db", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown", "error", err)
	}
	lg.Info("server stopped")
}
