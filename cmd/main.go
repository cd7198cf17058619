package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"employee_roster/internal/config"
	"employee_roster/internal/middleware"
	"employee_roster/internal/repository"
	"employee_roster/internal/service"
	"employee_roster/internal/transport/graphql"
	"employee_roster/internal/transport/httpserver"
	"employee_roster/internal/utils"
	"employee_roster/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	serviceName     = "employee-roster"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(logger.Options{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if err := run(cfg, logg); err != nil {
		logg.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := middleware.InitTracer(ctx, cfg.OTLPEndpoint, serviceName, cfg.AppEnv, logg)
	if err != nil {
		return err
	}
	if tp != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logg.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	db, err := repository.Open(cfg.DSN())
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	checks := []httpserver.Check{{
		Name: "database",
		Ping: func(ctx context.Context) error { return repository.Ping(ctx, db) },
	}}

	var idempotency *middleware.RedisCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			return err
		}
		defer redisClient.Close()

		idempotency = middleware.NewRedisCache(redisClient, cfg.IdempotencyTTL, logg)
		checks = append(checks, httpserver.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	} else {
		logg.Info("Redis not configured, idempotency keys are ignored")
	}

	codec := utils.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	resolver := graphql.NewResolver(
		service.NewCredentialStore(repository.NewUserRepository(db), cfg.BcryptCost, logg),
		codec,
		service.NewEmployeeService(repository.NewEmployeeRepository(db), logg),
		graphql.Options{GenericLoginErrors: cfg.LoginGenericErrors},
		logg,
	)
	schema, err := graphql.NewSchema(resolver, cfg.GraphQLMaxDepth)
	if err != nil {
		return err
	}

	router := httpserver.NewRouter(httpserver.Options{
		Production:     cfg.IsProduction(),
		RequestTimeout: cfg.HTTPRequestTimeout,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, httpserver.Deps{
		Logger:      logg,
		Verifier:    codec,
		GraphQL:     graphql.Handler(schema),
		Idempotency: idempotency,
		Checks:      checks,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logg.Info("Shutting down server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
