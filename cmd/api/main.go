package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spring-sisters/spring-backend/config"
	"github.com/spring-sisters/spring-backend/internal/assistant"
	"github.com/spring-sisters/spring-backend/internal/auth"
	authmw "github.com/spring-sisters/spring-backend/internal/auth/middleware"
	"github.com/spring-sisters/spring-backend/internal/bootstrap"
	"github.com/spring-sisters/spring-backend/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Init(cfg.App.Environment, cfg.App.LogLevel); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.L().Sugar()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		pool  *pgxpool.Pool
		sqlDB *sql.DB
	)
	if cfg.Database.DSN != "" {
		pool, err = bootstrap.OpenDB(ctx, cfg.Database, bootstrap.DBOptions{})
		if err != nil {
			lg.Fatalf("db: %v", err)
		}
		defer pool.Close()

		sqlDB, err = bootstrap.OpenSQL(ctx, cfg.Database, bootstrap.DBOptions{})
		if err != nil {
			lg.Fatalf("sql: %v", err)
		}
		defer sqlDB.Close()
	} else {
		lg.Warn("DB_DSN not set: profiles are kept in memory and streaks are disabled")
	}

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis, bootstrap.DBOptions{})
	if err != nil {
		lg.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	var verifier authmw.TokenVerifier
	if cfg.Firebase.CredentialsPath != "" {
		app, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			lg.Fatalf("firebase: %v", err)
		}
		client, err := app.Auth(ctx)
		if err != nil {
			lg.Fatalf("firebase auth: %v", err)
		}
		verifier = client
	} else {
		lg.Warn("FIREBASE_CREDENTIALS_PATH not set: trusting the X-User-Id header")
	}

	var gateway *assistant.Client
	if cfg.Gateway.APIKey != "" {
		gateway = assistant.NewClient(assistant.ClientOptions{
			BaseURL:        cfg.Gateway.BaseURL,
			APIKey:         cfg.Gateway.APIKey,
			Timeout:        cfg.Gateway.Timeout,
			RequestsPerSec: cfg.Gateway.RequestsPerSec,
		})
	} else {
		lg.Warn("LLM_GATEWAY_KEY not set: assistant routes are disabled")
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "spring-backend",
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		DB:          pool,
		SQL:         sqlDB,
		Redis:       rdb,
		Verifier:    verifier,
		Gateway:     gateway,
		Model:       cfg.Gateway.Model,
		Vision:      cfg.Gateway.VisionModel,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Infof("listening on :%s (env=%s)", cfg.Server.Port, cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Errorf("shutdown: %v", err)
	}
}
