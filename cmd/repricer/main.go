// Command repricer starts the marketplace repricing engine: the Amazon
// queue consumer, the Walmart/manual/admin webhook server, and the hourly
// reset scheduler, wired together the way order_service/main.go assembles
// its Redis client, service layer and HTTP server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iaros/repricer-engine/internal/config"
	"github.com/iaros/repricer-engine/internal/events"
	"github.com/iaros/repricer-engine/internal/ingress"
	"github.com/iaros/repricer-engine/internal/logging"
	"github.com/iaros/repricer-engine/internal/scheduler"
	"github.com/iaros/repricer-engine/internal/store"
	"github.com/iaros/repricer-engine/internal/sync"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logging.InitGlobal("repricer-engine", logging.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
	})
	log := logging.Global()
	defer log.Sync()

	redisClient := initRedis(cfg, log)
	defer redisClient.Close()

	redisStore := store.NewRedisStore(redisClient)
	publisher, err := events.Connect(cfg.NATSUrl, cfg.NATSSubject)
	if err != nil {
		log.Warn("failed to connect to NATS, continuing without event publishing", zap.Error(err))
	}
	defer publisher.Close()

	pipeline := ingress.NewPipeline(redisStore)
	pipeline.Events = publisher

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startQueueConsumer(ctx, cfg, pipeline, log)

	resetScheduler := scheduler.New(redisStore)
	if err := resetScheduler.Start(ctx); err != nil {
		log.Warn("failed to start reset scheduler", zap.Error(err))
	}

	if cfg.PostgresDSN != "" {
		startListingSync(ctx, cfg, redisStore, log)
	}

	server := ingress.NewServer(cfg, pipeline, redisStore)
	httpServer := server.HTTPServer()

	go func() {
		log.Info("starting webhook server", zap.String("addr", cfg.WebhookBindAddr))
		if err := httpServer.ListenAndServe(); err != nil {
			log.Info("webhook server stopped", zap.Error(err))
		}
	}()

	waitForShutdown(log)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*cfg.VisibilityTimeout)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	resetScheduler.Stop(shutdownCtx)
	cancel()

	log.Info("shutdown complete")
}

func initRedis(cfg *config.Config, log *logging.Logger) *redis.Client {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn("failed to parse redis url, using default", zap.Error(err))
		opt = &redis.Options{Addr: "localhost:6379"}
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("failed to connect to redis on boot", zap.Error(err))
	}
	return client
}

func startQueueConsumer(ctx context.Context, cfg *config.Config, pipeline *ingress.Pipeline, log *logging.Logger) {
	var queue ingress.QueueConsumer
	if cfg.QueueBackend == "kafka" {
		queue = ingress.NewKafkaQueueConsumer(cfg)
	} else {
		queue = ingress.NewRestyQueueConsumer(cfg)
	}

	consumer := ingress.NewConsumer(queue, pipeline, cfg)
	go consumer.Run(ctx)
	log.Info("queue consumer started", zap.String("backend", cfg.QueueBackend))
}

func startListingSync(ctx context.Context, cfg *config.Config, s *store.RedisStore, log *logging.Logger) {
	job, err := sync.Connect(cfg.PostgresDSN, "", s)
	if err != nil {
		log.Warn("failed to connect listing-sync job, continuing without it", zap.Error(err))
		return
	}
	go job.RunPeriodically(ctx, 5*time.Minute)
	log.Info("listing-sync job started")
}

func waitForShutdown(log *logging.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
}
