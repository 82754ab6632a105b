package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()
	logger.Init("clinic-scheduler", cfg.Env)

	decimal.MarshalJSONWithoutQuotes = true

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := dbpkg.NewDB(cfg)

	dispatcher := audit.NewDispatcher(audit.New(db))
	infra := routes.Infra{Audit: dispatcher}

	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, catalog cache disabled")
			client.Close()
		} else {
			infra.Redis = client
			log.Info().Str("addr", cfg.RedisAddr).Msg("catalog cache enabled")
		}
		cancel()
	}

	if cfg.S3.Enabled() {
		infra.Archiver = storage.NewS3Archiver(cfg.S3)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("report archive enabled")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	routes.RegisterRoutes(r, db, cfg, infra)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	dispatcher.Close()
	closeRedis(infra.Redis)

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func closeRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
}
