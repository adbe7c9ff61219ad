package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/crawler"
	"github.com/thep200/github-trending/pkg/log"
)

type Handler struct {
	Crawler crawler.Crawler
	Logger  log.Logger
}

func NewHandler(crawler crawler.Crawler, logger log.Logger) *Handler {
	return &Handler{
		Crawler: crawler,
		Logger:  logger,
	}
}

// Chạy đúng một lần crawl rồi thoát, exit code 1 nếu ghi archive lỗi
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, _ := log.NewCslLogger()
	loader, err := cfg.NewLoader()
	if err != nil {
		logger.Error(ctx, "Failed to create config loader: %v", err)
		os.Exit(1)
	}
	config, err := loader.Load()
	if err != nil {
		logger.Error(ctx, "Failed to load config: %v", err)
		os.Exit(1)
	}

	c, closeFn, err := crawler.FactoryCrawler(logger, config)
	if err != nil {
		logger.Error(ctx, "Failed to create crawler: %v", err)
		os.Exit(1)
	}
	defer closeFn()

	//
	logger.Info(ctx, "Starting GitHub trending crawler")
	handler := NewHandler(c, logger)
	if _, err := handler.Crawler.Crawl(ctx); err != nil {
		logger.Error(ctx, "Failed! %v", err)
		closeFn()
		os.Exit(1)
	}
	logger.Info(ctx, "Successfully!")
}
