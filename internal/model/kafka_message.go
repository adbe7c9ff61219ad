package model

import (
	"time"

	"github.com/thep200/github-trending/internal/trending"
)

// Key của message trending trên Kafka
const TrendingMessageKey = "trending"

// TrendingMessage là một record đã enrich gửi tới Kafka
type TrendingMessage struct {
	RunID         string    `json:"run_id"`
	CrawledAt     time.Time `json:"crawled_at"`
	RepoID        int64     `json:"repo_id"`
	NameWithOwner string    `json:"name_with_owner"`
	Language      string    `json:"language"`
	Description   string    `json:"description"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	NewStars      int       `json:"new_stars"`
	Rank          int       `json:"rank"`
	Since         string    `json:"since"`
	LangFilter    string    `json:"lang_filter"`
}

func NewTrendingMessage(runID string, crawledAt time.Time, r trending.Record) TrendingMessage {
	return TrendingMessage{
		RunID:         runID,
		CrawledAt:     crawledAt,
		RepoID:        r.ID,
		NameWithOwner: r.NameWithOwner,
		Language:      r.Language(),
		Description:   r.Description,
		Stars:         r.Stars,
		Forks:         r.Forks,
		NewStars:      r.StarDelta,
		Rank:          r.Rank,
		Since:         string(r.Since),
		LangFilter:    r.LangFilter,
	}
}
