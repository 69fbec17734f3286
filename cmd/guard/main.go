package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/subtranslate/guard/api"
	"github.com/subtranslate/guard/config"
	"github.com/subtranslate/guard/project"
	"github.com/subtranslate/guard/ratelimit"
)

func main() {
	cfg := config.Load()

	logger := buildLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	if cfg.CSRFSecret == "" {
		log.Warn("GUARD_CSRF_SECRET not set, reference cookies will be unsigned")
	}

	var (
		limiter  ratelimit.Limiter
		projects project.Store
	)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalw("redis ping failed", "addr", cfg.RedisAddr, "error", err)
		}
		limiter = ratelimit.NewRedisLimiter(client, "guard-rate:")
		projects = project.NewRedisStore(client, "guard-project:")
		log.Infow("using redis backends", "addr", cfg.RedisAddr)
	} else {
		limiter = ratelimit.NewMemoryLimiter()
		projects = project.NewMemoryStore()
		log.Info("using in-memory backends")
	}

	srv := api.NewAPI(&cfg, log, limiter, projects)

	errCh := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", cfg.ListenAddr, "env", cfg.Env)
		errCh <- srv.Start(cfg.ListenAddr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server error", "error", err)
		}
	case sig := <-stop:
		log.Infow("shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			log.Errorw("shutdown error", "error", err)
		}
	}
}

func buildLogger(env string) *zap.Logger {
	if env == "development" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}
