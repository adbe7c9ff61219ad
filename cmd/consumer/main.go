package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/pkg/db"
	"github.com/thep200/github-trending/pkg/kafka"
	"github.com/thep200/github-trending/pkg/log"
)

const (
	batchSize    = 100
	batchTimeout = 5 * time.Second
)

// Đọc record trending từ Kafka và ghi lịch sử vào MySQL theo lô
func main() {
	// Load configuration
	logger, _ := log.NewCslLogger()
	loader, err := cfg.NewLoader()
	if err != nil {
		fmt.Printf("Failed to create config loader: %v\n", err)
		os.Exit(1)
	}
	config, err := loader.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup database
	mysql, err := db.NewMysql(config)
	if err != nil {
		logger.Error(ctx, "Failed to create database client: %v", err)
		os.Exit(1)
	}
	defer mysql.Close()
	if err := mysql.Ping(ctx); err != nil {
		logger.Error(ctx, "Failed to connect to database: %v", err)
		os.Exit(1)
	}

	trendingModel, _ := model.NewTrending(config, logger, mysql)
	if err := mysql.Migrate(trendingModel); err != nil {
		logger.Error(ctx, "Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done, err := startTrendingConsumer(ctx, config, logger, trendingModel)
	if err != nil {
		logger.Error(ctx, "Failed to start consumer: %v", err)
		os.Exit(1)
	}

	// Wait for termination signal
	<-sigCh
	logger.Info(ctx, "Received shutdown signal, gracefully shutting down...")
	cancel()
	<-done
}

func startTrendingConsumer(ctx context.Context, config *cfg.Config, logger log.Logger, trendingModel *model.Trending) (<-chan struct{}, error) {
	consumer, err := kafka.NewConsumer(config, logger, config.Kafka.Producer.TopicTrending, config.Kafka.GroupID)
	if err != nil {
		return nil, err
	}

	// Channel to collect messages for batch processing
	messages := make(chan model.TrendingMessage, batchSize*2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		processBatchedTrendings(ctx, messages, batchSize, batchTimeout, logger, trendingModel)
	}()

	consumer.RegisterHandler(model.TrendingMessageKey, func(data []byte) error {
		var msg model.TrendingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal trending message: %w", err)
		}

		select {
		case messages <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})

	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error(ctx, "Trending consumer error: %v", err)
		}
	}()

	logger.Info(ctx, "Trending consumer started successfully")
	return done, nil
}

func processBatchedTrendings(ctx context.Context, messages <-chan model.TrendingMessage, batchSize int,
	batchTimeout time.Duration, logger log.Logger, trendingModel *model.Trending) {

	var batch []model.TrendingMessage
	timer := time.NewTimer(batchTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			// Process remaining messages before exiting
			processSingleBatch(ctx, batch, logger, trendingModel)
			return

		case msg := <-messages:
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processSingleBatch(ctx, batch, logger, trendingModel)
				batch = nil
				timer.Reset(batchTimeout)
			}

		case <-timer.C:
			processSingleBatch(ctx, batch, logger, trendingModel)
			batch = nil
			timer.Reset(batchTimeout)
		}
	}
}

func processSingleBatch(ctx context.Context, batch []model.TrendingMessage, logger log.Logger, trendingModel *model.Trending) {
	if len(batch) == 0 {
		return
	}

	if err := trendingModel.CreateBatch(batch); err != nil {
		logger.Error(ctx, "Failed to save batch of %d trending records: %v", len(batch), err)
		return
	}
	logger.Info(ctx, "Successfully saved batch of %d trending records", len(batch))
}
