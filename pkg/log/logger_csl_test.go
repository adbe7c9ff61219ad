package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCslLogger_PrefixAndRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewCslLoggerTo(&buf, false)
	require.NoError(t, err)

	ctx := WithRunID(context.Background(), "abc")
	logger.Info(ctx, "crawled %d pages", 3)
	logger.Error(context.Background(), "boom")

	out := buf.String()
	assert.Contains(t, out, "[INFO] [run=abc] crawled 3 pages")
	assert.Contains(t, out, "[ERROR] boom")
}

func TestCslLogger_DebugSuppressed(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := NewCslLoggerTo(&buf, false)
	logger.Debug(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	logger, _ = NewCslLoggerTo(&buf, true)
	logger.Debug(context.Background(), "shown")
	assert.Contains(t, buf.String(), "[DEBUG] shown")
}
