// Command server runs the susceptibles HTTP API.
//
// @title                       Susceptibles API
// @version                     1.0
// @description                 Monthly registry of children with pending vaccines, with a recoverable trash.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  SessionCookie
// @in                          cookie
// @name                        susceptibles_session
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/clinica/susceptibles/internal/config"
	httpapi "github.com/clinica/susceptibles/internal/http"
	"github.com/clinica/susceptibles/internal/observability"
	"github.com/clinica/susceptibles/internal/repo"
	"github.com/clinica/susceptibles/internal/services"
	"github.com/clinica/susceptibles/internal/session"
	"github.com/clinica/susceptibles/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetupLogging(os.Stderr, cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath, repo.WithTracing())
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	store, closeStore := sessionStore(ctx, cfg.Session)
	defer closeStore()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		DB:       db,
		Sessions: store,
		Clock:    services.SystemClock{},
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("db", cfg.DBPath).
			Dur("retention", cfg.RetentionWindow).
			Str("version", version).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown")
	}
}

// sessionStore returns the Redis store when REDIS_ADDR is set and an
// in-process store otherwise. An unreachable Redis is logged but not fatal:
// while it is down session loads fall back to a fresh session, so protected
// routes answer 401 until it comes back.
func sessionStore(ctx context.Context, cfg config.SessionConfig) (session.Store, func()) {
	if cfg.RedisAddr == "" {
		log.Info().Msg("sessions kept in memory")
		return session.NewMemoryStore(), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	store := session.NewRedisStore(client, cfg.CookieName+":")

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis not reachable")
	} else {
		log.Info().Str("addr", cfg.RedisAddr).Msg("sessions kept in redis")
	}
	return store, func() { _ = client.Close() }
}
