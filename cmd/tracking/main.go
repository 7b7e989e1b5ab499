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

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/config"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/pkg/logger"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/store"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/tracking"
)

func main() {
	logger.SetLevelFromEnv()

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(50)
	db.SetConnMaxLifetime(5 * time.Minute)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tracking.EnsureLegacyRouteMarker(ctx, store.NewRedisKV(redisClient)); err != nil {
		log.Fatalf("failed to register legacy route marker: %v", err)
	}

	bus := tracking.NewBus()
	if cfg.Events.SQSQueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatalf("aws config: %v", err)
		}
		pub := tracking.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.Events.SQSQueueURL)
		bus.Subscribe(pub.Notify)
		logger.Info("click event publishing enabled", "queue", cfg.Events.SQSQueueURL)
	}

	handler := tracking.NewHandler(store.NewPostgresMeta(db), bus, cfg.Tracking.AllowedParams)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Tracking.Port),
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("tracking service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down tracking service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err.Error())
		os.Exit(1)
	}
}
