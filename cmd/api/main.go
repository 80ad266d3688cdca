package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cgmis/internal/api"
	"cgmis/internal/auth"
	"cgmis/internal/config"
	"cgmis/internal/httpmiddleware"
	"cgmis/internal/identity"
	"cgmis/internal/logging"
	"cgmis/internal/records"
	"cgmis/internal/session"
	"cgmis/internal/store"
)

func main() {
	cfg, err := config.LoadFile(os.Getenv("CGMIS_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Env, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("http server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.App, log *zap.Logger) error {
	repo, recordsHealthy, closeRecords, err := records.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeRecords() }()

	svc := records.NewService(repo, log)
	if err := svc.Seed(ctx); err != nil {
		return err
	}

	health := map[string]api.HealthCheck{"records": recordsHealthy}

	var limiter httpmiddleware.Limiter = httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	redisClient := store.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx); err != nil {
		log.Warn("redis not reachable, rate limiting per process", zap.Error(err))
	} else {
		limiter = httpmiddleware.NewRedisWindow(redisClient.Client, cfg.RateLimitPerMin)
		health["redis"] = redisClient.Healthy
	}

	tokens := auth.NewIssuer(cfg.JWTIssuer, cfg.JWTSigningKey)
	if cfg.AllowUnknownEmails && cfg.IsProduction() {
		log.Warn("sign-in accepts unknown emails; set ALLOW_UNKNOWN_EMAILS=false")
	}
	srv := &api.Server{
		Records: svc,
		Authenticator: &session.Authenticator{
			Registry:     identity.DefaultRegistry(time.Now()),
			Tokens:       tokens,
			TTL:          cfg.SessionTTL,
			AllowUnknown: cfg.AllowUnknownEmails,
			Log:          log,
		},
		Tokens:  tokens,
		Limiter: limiter,
		Health:  health,
		Log:     log,
	}

	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", zap.String("addr", httpSrv.Addr), zap.String("env", cfg.Env))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}
