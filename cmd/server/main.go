package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/activecampaign"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/api"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/config"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/esp"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/pkg/distlock"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/pkg/logger"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/repository/postgres"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/service/layout"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/store"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/tracking"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/usagereports"
)

const reportLockKey = "usage_report_run"

func main() {
	logger.SetLevelFromEnv()

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.ActiveCampaign.BaseURL == "" || cfg.ActiveCampaign.APIKey == "" {
		log.Fatal("ActiveCampaign base URL and API key are required (AC_BASE_URL, AC_API_KEY)")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	registry := esp.NewRegistry()
	registry.Register(activecampaign.NewClient(activecampaign.Config{
		BaseURL: cfg.ActiveCampaign.BaseURL,
		APIKey:  cfg.ActiveCampaign.APIKey,
		Timeout: cfg.ActiveCampaign.Timeout(),
	}))

	provider, err := registry.Get(cfg.Reports.Provider)
	if err != nil {
		log.Fatalf("unknown provider %q: %v", cfg.Reports.Provider, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var archiver usagereports.Archiver
	if cfg.Archive.S3Bucket != "" {
		s3Archiver, err := usagereports.NewS3Archiver(ctx, cfg.Archive.S3Bucket, cfg.Archive.S3Prefix, cfg.Archive.Region)
		if err != nil {
			log.Fatalf("failed to init report archiver: %v", err)
		}
		archiver = s3Archiver
		logger.Info("report archival enabled", "bucket", cfg.Archive.S3Bucket)
	}

	aggregator := usagereports.NewAggregator(provider,
		usagereports.NewBaselineStore(store.NewRedisKV(redisClient)))
	lock := distlock.NewLock(redisClient, db, reportLockKey, cfg.Reports.LockTTL())
	runner := usagereports.NewRunner(aggregator, lock, archiver, cfg.Reports.Interval())
	go runner.Start(ctx)

	layouts := layout.NewService(postgres.NewLayoutRepo(db))
	rewriter := tracking.NewRewriter(cfg.Tracking.Enabled, cfg.Tracking.BaseURL)
	handlers := api.NewHandlers(runner, layouts, store.NewPostgresMeta(db), rewriter)
	health := api.NewHealthChecker(db, redisClient, nil, "")

	srv := api.NewServer(handlers, health)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	go func() {
		logger.Info("api server listening", "addr", addr, "provider", provider.Name())
		if err := srv.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down api server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err.Error())
		os.Exit(1)
	}
}
