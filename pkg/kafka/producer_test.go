package kafka

import (
	"context"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/pkg/log"
)

func TestNewProducer(t *testing.T) {
	logger, _ := log.NewCslLoggerTo(io.Discard, false)
	config := &cfg.Config{Kafka: cfg.Kafka{Brokers: []string{"127.0.0.1:9092"}}}

	_, err := NewProducer(config, logger, "")
	assert.Error(t, err)

	producer, err := NewProducer(config, logger, "github-trending")
	require.NoError(t, err)
	defer producer.Close()

	assert.Equal(t, "github-trending", producer.writer.Topic)
	// Mọi message cùng key "trending", phải dàn đều theo tải thay vì hash key
	assert.IsType(t, &kafka.LeastBytes{}, producer.writer.Balancer)
}

func TestProducer_PublishNothing(t *testing.T) {
	logger, _ := log.NewCslLoggerTo(io.Discard, false)
	config := &cfg.Config{Kafka: cfg.Kafka{Brokers: []string{"127.0.0.1:9092"}}}
	producer, err := NewProducer(config, logger, "github-trending")
	require.NoError(t, err)
	defer producer.Close()

	assert.NoError(t, producer.Publish(context.Background(), "trending"))
}
