package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/chenoli/gostack-gobarber/internal/repository/postgres"
	"github.com/chenoli/gostack-gobarber/pkg/logger"
	redisbroker "github.com/chenoli/gostack-gobarber/pkg/messaging/redis"
	"github.com/chenoli/gostack-gobarber/pkg/metrics"
	"github.com/chenoli/gostack-gobarber/pkg/worker"
)

// WorkerConfig is read from the environment with the GOBARBER prefix
type WorkerConfig struct {
	DatabaseURL  string        `envconfig:"DATABASE_URL" required:"true"`
	RedisURL     string        `envconfig:"REDIS_URL" required:"true"`
	BatchSize    int           `envconfig:"BATCH_SIZE" default:"50"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`
	MaxRetries   int           `envconfig:"MAX_RETRIES" default:"3"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	var cfg WorkerConfig
	if err := envconfig.Process("GOBARBER", &cfg); err != nil {
		zlog.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	brokerLogger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &brokerLogger)
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	notificationRepo := postgres.NewNotificationRepository(db)
	workerMetrics := metrics.NewMetrics("gobarber", "worker")

	dispatcher := worker.NewNotificationDispatcher(
		notificationRepo,
		broker,
		worker.NotificationDispatcherConfig{
			BatchSize:    cfg.BatchSize,
			PollInterval: cfg.PollInterval,
			MaxRetries:   cfg.MaxRetries,
		},
		log,
		workerMetrics,
	)

	ctx, cancel := context.WithCancel(context.Background())
	go dispatcher.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("shutting down worker...")
	cancel()
}
