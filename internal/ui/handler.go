package ui

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/internal/scheduler"
	"github.com/thep200/github-trending/pkg/log"
)

// TrendingStore đọc lịch sử trending, thường là *model.Trending (MySQL)
type TrendingStore interface {
	List(ctx context.Context, q model.TrendingQuery) ([]model.Trending, int64, error)
}

// StatusSource cung cấp thống kê của scheduler đang chạy cùng process
type StatusSource interface {
	Snapshot() scheduler.Snapshot
}

// Handler manages HTTP requests. Store và Status có thể nil khi tính năng tương ứng không bật.
type Handler struct {
	Logger      log.Logger
	Config      *cfg.Config
	Store       TrendingStore
	Status      StatusSource
	ArchiveRoot string
	now         func() time.Time
}

// NewHandler creates a new handler
func NewHandler(logger log.Logger, config *cfg.Config, store TrendingStore, status StatusSource) *Handler {
	root := config.Archive.Dir
	if root == "" {
		root = "archive"
	}
	return &Handler{
		Logger:      logger,
		Config:      config,
		Store:       store,
		Status:      status,
		ArchiveRoot: root,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RegisterRoutes sets up the HTTP routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	{
		api.GET("/status", h.getStatus)
		api.GET("/trending", h.getTrending)
		api.GET("/archive/:since", h.listArchive)
		api.GET("/archive/:since/:file", h.getArchiveFile)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    h.Config.App.Name,
		"version": h.Config.App.Version,
	})
}

func (h *Handler) getStatus(c *gin.Context) {
	if h.Status == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scheduler is not running in this process"})
		return
	}
	c.JSON(http.StatusOK, h.Status.Snapshot())
}
