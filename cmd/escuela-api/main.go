package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/noah-isme/escuela-api/api/swagger"
	"github.com/noah-isme/escuela-api/internal/handler"
	"github.com/noah-isme/escuela-api/internal/repository"
	"github.com/noah-isme/escuela-api/internal/service"
	"github.com/noah-isme/escuela-api/internal/store"
	"github.com/noah-isme/escuela-api/pkg/cache"
	"github.com/noah-isme/escuela-api/pkg/config"
	"github.com/noah-isme/escuela-api/pkg/database"
	"github.com/noah-isme/escuela-api/pkg/logger"
)

// @title Escuela API
// @version 1.0.0
// @description Students, teachers, subjects, classrooms, attendance, grades, topics and reports.
// @BasePath /api/v1
// @schemes http

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := database.NewConnector(cfg.Backend)
	if err != nil {
		logr.Fatal("failed to build backend connector", zap.Error(err))
	}
	defer conn.Close() //nolint:errcheck

	st := store.New(conn, logr)

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService(string(st.Mode()))
	}

	var cacheRepo service.CacheRepository
	if client := cache.Optional(ctx, cfg, logr); client != nil {
		repo := repository.NewCacheRepository(client, "escuela")
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
	}
	catalogCache := service.NewCacheService(cacheRepo, metrics, cfg.Catalog.CacheTTL, logr, cfg.Catalog.Enabled)

	router := handler.NewRouter(cfg, st.Mode(), handler.NewServices(st, catalogCache, metrics, logr), logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("mode", string(st.Mode())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
