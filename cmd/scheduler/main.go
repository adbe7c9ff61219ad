package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/crawler"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/internal/publisher"
	"github.com/thep200/github-trending/internal/scheduler"
	"github.com/thep200/github-trending/internal/ui"
	"github.com/thep200/github-trending/pkg/db"
	"github.com/thep200/github-trending/pkg/log"
)

// Vòng lặp không dừng: crawl mỗi giờ, publish archive mỗi 3 giờ. Không nhận tham số.
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

	// Reload danh sách ngôn ngữ khi mode.yaml thay đổi
	if vl, ok := loader.(*cfg.ViperLoader); ok {
		vl.RegisterConfigChangeCallback(func(newConfig *cfg.Config) {
			c.SetLanguages(newConfig.Trending.PopularLangs)
			logger.Info(context.Background(), "Popular languages reloaded: %d", len(newConfig.Trending.PopularLangs))
		})
	}

	pub := publisher.NewPublisher(logger, config, publisher.NewLocalGitClient())
	sched := scheduler.NewScheduler(logger, config, c, pub)

	if config.Ui.Enabled {
		stopUI := startUI(ctx, logger, config, sched.Stats)
		defer stopUI()
	}

	if err := sched.Run(ctx); err != nil {
		logger.Error(ctx, "Scheduler error: %v", err)
	}
}

// startUI chạy HTTP server trạng thái, lịch sử chỉ có khi bật MySQL.
// Hàm trả về dừng server rồi đóng kết nối MySQL.
func startUI(ctx context.Context, logger log.Logger, config *cfg.Config, stats *scheduler.Stats) func() {
	var store ui.TrendingStore
	var mysql *db.Mysql
	if config.Mysql.Enabled {
		var err error
		mysql, err = db.NewMysql(config)
		if err == nil {
			store, err = model.NewTrending(config, logger, mysql)
		}
		if err != nil {
			logger.Warn(ctx, "Trending history disabled: %v", err)
			store = nil
		}
	}

	server, _ := ui.NewServer(logger, config, ui.NewHandler(logger, config, store, stats), config.Ui.Port)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error(ctx, "UI server failed: %v", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "UI server forced to shutdown: %v", err)
		}
		if mysql != nil {
			if err := mysql.Close(); err != nil {
				logger.Error(shutdownCtx, "Cannot close mysql: %v", err)
			}
		}
	}
}
