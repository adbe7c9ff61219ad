package ui

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thep200/github-trending/internal/archive"
	"github.com/thep200/github-trending/internal/trending"
)

// archiveDir tính thư mục archive cho :since và ?date=YYYY-MM-DD (mặc định hôm nay, UTC)
func (h *Handler) archiveDir(c *gin.Context) (string, bool) {
	since, err := trending.ParseSince(c.Param("since"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}

	day := h.now()
	if d := c.Query("date"); d != "" {
		day, err = time.Parse("2006-01-02", d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return "", false
		}
	}

	dir, err := archive.Dir(h.ArchiveRoot, since, day)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return dir, true
}

func (h *Handler) listArchive(c *gin.Context) {
	dir, ok := h.archiveDir(c)
	if !ok {
		return
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no archive for this date"})
		return
	}
	if err != nil {
		h.Logger.Error(c.Request.Context(), "Cannot read archive dir %s: %v", dir, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read archive"})
		return
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	rel, err := filepath.Rel(h.ArchiveRoot, dir)
	if err != nil {
		rel = dir
	}
	c.JSON(http.StatusOK, gin.H{
		"dir":   filepath.ToSlash(rel),
		"files": files,
	})
}

func (h *Handler) getArchiveFile(c *gin.Context) {
	dir, ok := h.archiveDir(c)
	if !ok {
		return
	}

	name := c.Param("file")
	if name != filepath.Base(name) || strings.HasPrefix(name, "..") ||
		!(strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".parquet")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid archive file name"})
		return
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "archive file not found"})
		return
	}
	c.FileAttachment(path, name)
}
