package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcfg "github.com/park285/oh-my-chess/internal/config"
	"github.com/park285/oh-my-chess/internal/httpapi"
	"github.com/park285/oh-my-chess/internal/movecheck"
	"github.com/park285/oh-my-chess/internal/msgcat"
	"github.com/park285/oh-my-chess/internal/obslog"
	"github.com/park285/oh-my-chess/internal/render"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.Named("server")
	defer func() { _ = logger.Sync() }()

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		logger.Fatal("msgcat_init_error", zap.Error(err))
	}

	opts := []movecheck.Option{movecheck.WithLogger(obslog.Named("movecheck"))}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err = movecheck.DialRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Fatal("redis_init_error", zap.Error(err))
		}
		opts = append(opts, movecheck.WithCache(movecheck.NewRedisCache(rdb, cfg.VerdictCacheTTL())))
		logger.Info("verdict_cache_enabled", zap.Duration("ttl", cfg.VerdictCacheTTL()))
	}

	var db *sql.DB
	switch {
	case !cfg.AuditEnabled:
	case cfg.DatabaseURL != "":
		db, err = movecheck.OpenPostgres(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres_init_error", zap.Error(err))
		}
		opts = append(opts, movecheck.WithRepository(movecheck.NewRepository(db)))
		logger.Info("audit_enabled", zap.String("store", "postgres"))
	default:
		opts = append(opts, movecheck.WithRepository(movecheck.NewMemoryRepository(cfg.AuditMemoryMax)))
		logger.Info("audit_enabled", zap.String("store", "memory"), zap.Int("capacity", cfg.AuditMemoryMax))
	}

	svc := movecheck.NewService(opts...)
	srv := httpapi.New(svc, render.NewRenderer(), catalog, obslog.Named("http"), httpapi.Options{
		MaxBodyBytes: cfg.MaxBodyBytes,
		SquareSize:   cfg.RenderSquareSize,
		RecentLimit:  cfg.AuditLimit,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(cfg.HTTPAddr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutdown_signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("http_serve_error", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("http_shutdown_error", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if db != nil {
		_ = db.Close()
	}
	logger.Info("shutdown_complete")
}
