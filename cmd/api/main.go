package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/main0crine/wheel-backend/internal/api"
	"github.com/main0crine/wheel-backend/internal/config"
	"github.com/main0crine/wheel-backend/internal/db"
	"github.com/main0crine/wheel-backend/internal/logger"
	"github.com/main0crine/wheel-backend/internal/metrics"
	"github.com/main0crine/wheel-backend/internal/repository/postgres"
	"github.com/main0crine/wheel-backend/internal/scheduler"
	"github.com/main0crine/wheel-backend/internal/services"
	"github.com/main0crine/wheel-backend/internal/wheel"
	"github.com/main0crine/wheel-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Error("migrations", "err", err)
		os.Exit(1)
	}

	metrics.Init()

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	roundSvc := services.NewRoundService(repos.Rounds, repos.Users, repos.Audit, wp, cfg.StartBalance, cfg.RoundSeconds, cfg.HistoryLimit)
	userSvc := services.NewUserService(repos.Users, cfg.StartBalance)

	sched := scheduler.New(roundSvc, wheel.New(), time.Duration(cfg.RoundSeconds)*time.Second, log)
	sched.Start()
	defer sched.Stop()

	r := api.NewRouter(cfg, roundSvc, userSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "round_seconds", cfg.RoundSeconds)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
