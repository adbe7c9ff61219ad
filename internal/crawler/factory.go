package crawler

import (
	"context"
	"fmt"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/archive"
	githubapi "github.com/thep200/github-trending/internal/github_api"
	"github.com/thep200/github-trending/internal/trending"
	"github.com/thep200/github-trending/pkg/kafka"
	"github.com/thep200/github-trending/pkg/log"
	"github.com/thep200/github-trending/pkg/objstore"
)

// FactoryCrawler dựng TrendingCrawler từ config, bật Kafka/S3 nếu được cấu hình.
// Hàm close trả về phải được gọi khi dừng chương trình.
func FactoryCrawler(logger log.Logger, config *cfg.Config) (*TrendingCrawler, func() error, error) {
	c, err := NewTrendingCrawler(
		logger,
		config,
		trending.NewFetcher(logger, config),
		githubapi.NewCaller(logger, config),
		archive.NewArchiver(logger, config),
	)
	if err != nil {
		return nil, nil, err
	}

	closers := make([]func() error, 0, 1)
	if config.GithubApi.AccessToken == "" {
		logger.Warn(context.Background(), "GitHub access token is empty, GraphQL enrichment will be rejected")
	}

	if config.Kafka.Enabled {
		producer, err := kafka.NewProducer(config, logger, config.Kafka.Producer.TopicTrending)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create kafka producer: %w", err)
		}
		c.Sink = producer
		closers = append(closers, producer.Close)
	}

	if config.ObjectStore.Enabled {
		store, err := objstore.NewStore(config, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create object store: %w", err)
		}
		c.Mirror = store
	}

	closeAll := func() error {
		var firstErr error
		for _, closeFn := range closers {
			if err := closeFn(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return c, closeAll, nil
}
