package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forkcast/forkcast/internal/api"
	"github.com/forkcast/forkcast/internal/auth"
	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/genai"
	httpserver "github.com/forkcast/forkcast/internal/http"
	"github.com/forkcast/forkcast/internal/logger"
	"github.com/forkcast/forkcast/internal/planner"
	"github.com/forkcast/forkcast/internal/realtime"
	"github.com/forkcast/forkcast/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal("failed to create db pool", "error", err)
	}
	defer pool.Close()

	if err := store.ApplyMigrations(ctx, pool); err != nil {
		log.Fatal("failed to apply migrations", "error", err)
	}

	st := store.New(pool)

	var bus realtime.Bus
	if cfg.RedisAddr != "" {
		redisBus, err := realtime.NewRedisBus(cfg.RedisAddr, log)
		if err != nil {
			log.Fatal("failed to connect change bus", "error", err)
		}
		bus = redisBus
		log.Info("using redis change bus", "addr", cfg.RedisAddr)
	} else {
		bus = realtime.NewMemoryBus()
	}
	defer bus.Close()

	hub := realtime.NewHub(bus, log)

	sessions := auth.NewSessionManager(cfg)
	authService, err := auth.NewService(ctx, cfg, st, sessions, log)
	if err != nil {
		log.Fatal("failed to initialize auth service", "error", err)
	}

	generator := genai.NewOpenAIGenerator(cfg, log)
	workflows := planner.New(st.Recipes, st.GroceryLists, generator, log)
	apiHandler := api.NewHandler(log, st, workflows, hub, authService)

	r := httpserver.NewRouter(cfg, log, st, authService, apiHandler, hub)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", "error", err)
	}
}
