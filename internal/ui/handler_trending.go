package ui

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/internal/trending"
)

// Trending represents one history row for the UI
type Trending struct {
	RunID         string `json:"runId"`
	CrawledAt     string `json:"crawledAt"`
	RepoID        int64  `json:"repoId"`
	NameWithOwner string `json:"nameWithOwner"`
	Language      string `json:"language"`
	Description   string `json:"description"`
	Stars         int    `json:"stars"`
	Forks         int    `json:"forks"`
	NewStars      int    `json:"newStars"`
	Rank          int    `json:"rank"`
	Since         string `json:"since"`
	LangFilter    string `json:"langFilter"`
}

func (h *Handler) getTrending(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trending history requires mysql"})
		return
	}

	// Parse query parameters
	q := model.TrendingQuery{
		Language: c.Query("lang"),
		Search:   c.Query("search"),
	}
	if s := c.Query("since"); s != "" {
		since, err := trending.ParseSince(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		q.Since = string(since)
	}

	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.Query("pageSize"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}
	q.Page, q.PageSize = page, pageSize

	rows, totalCount, err := h.Store.List(c.Request.Context(), q)
	if err != nil {
		h.Logger.Error(c.Request.Context(), "Failed to fetch trending history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch trending history"})
		return
	}

	// Response format
	items := make([]Trending, 0, len(rows))
	for _, row := range rows {
		items = append(items, Trending{
			RunID:         row.RunID,
			CrawledAt:     row.CrawledAt.UTC().Format("2006-01-02T15:04:05Z"),
			RepoID:        row.RepoID,
			NameWithOwner: row.NameWithOwner,
			Language:      row.Language,
			Description:   row.Description,
			Stars:         row.Stars,
			Forks:         row.Forks,
			NewStars:      row.NewStars,
			Rank:          row.Rank,
			Since:         row.Since,
			LangFilter:    row.LangFilter,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"trending": items,
		"pagination": gin.H{
			"page":       page,
			"pageSize":   pageSize,
			"totalCount": totalCount,
			"totalPages": (totalCount + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}
