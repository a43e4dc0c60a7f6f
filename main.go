package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zlnvch/webnotes/api"
	"github.com/zlnvch/webnotes/cache"
	"github.com/zlnvch/webnotes/cache/memory"
	"github.com/zlnvch/webnotes/cache/redis"
	"github.com/zlnvch/webnotes/config"
	"github.com/zlnvch/webnotes/service"
	"github.com/zlnvch/webnotes/store"
	storememory "github.com/zlnvch/webnotes/store/memory"
	"github.com/zlnvch/webnotes/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.DevMode {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.UsingDevSecret {
		logger.Warn("using development JWT secret; set JWT_SECRET")
	}

	shutdownCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	var (
		notesStore store.KeyValueStore
		sessions   cache.SessionCache
	)
	if cfg.RedisEndpoint != "" {
		redisCache, err := redis.NewRedisNotesCache(shutdownCtx, cfg.DevMode, cfg.RedisEndpoint)
		if err != nil {
			logger.Fatal("failed to create redis cache", zap.Error(err))
		}
		defer redisCache.Close()
		notesStore = redisCache
		sessions = redisCache
		logger.Info("using redis backend", zap.String("endpoint", cfg.RedisEndpoint))
	} else {
		memorySessions := memory.NewMemorySessionCache()
		sweeper := worker.NewSessionSweeper(memorySessions, cfg.SessionSweepInterval, logger)
		go sweeper.Run(shutdownCtx)

		notesStore = storememory.NewMemoryStore()
		sessions = memorySessions
		logger.Info("using in-memory backend")
	}

	svc, err := service.NewService(notesStore, sessions, cfg.JWTSecret, cfg.SessionTTL, logger)
	if err != nil {
		logger.Fatal("failed to create service", zap.Error(err))
	}

	notesAPI := api.NewNotesAPI(svc, logger, !cfg.DevMode)

	server := &http.Server{
		Addr:              ":" + cfg.HostPort,
		Handler:           notesAPI.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
