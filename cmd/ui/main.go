package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/internal/ui"
	"github.com/thep200/github-trending/pkg/db"
	applog "github.com/thep200/github-trending/pkg/log"
)

// Server chỉ đọc cho archive và lịch sử MySQL, không có trạng thái scheduler
func main() {
	// Parse command line flags
	port := flag.Int("port", 0, "Port for the UI server to listen on (default: ui.port in config)")
	flag.Parse()

	// Setup dependencies
	ctx := context.Background()
	logger, _ := applog.NewCslLogger()
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

	var store ui.TrendingStore
	if config.Mysql.Enabled {
		mysql, err := db.NewMysql(config)
		if err != nil {
			logger.Error(ctx, "Failed to create database client: %v", err)
			os.Exit(1)
		}
		defer mysql.Close()
		store, _ = model.NewTrending(config, logger, mysql)
	}

	// Create and run the server
	server, err := ui.NewServer(logger, config, ui.NewHandler(logger, config, store, nil), *port)
	if err != nil {
		logger.Error(ctx, "Failed to create server: %v", err)
		os.Exit(1)
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Error(ctx, "Server failed to start: %v", err)
			os.Exit(1)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error(ctx, "Server forced to shutdown: %v", err)
	}
}
