package scheduler

import (
	"sync"
	"time"

	"github.com/thep200/github-trending/internal/crawler"
	"github.com/thep200/github-trending/internal/publisher"
)

// Snapshot là thống kê của scheduler tại một thời điểm, dùng cho HTTP status
type Snapshot struct {
	IsRunning     bool      `json:"isRunning"`
	StartTime     time.Time `json:"startTime"`
	Duration      string    `json:"duration"`
	Crawls        int       `json:"crawls"`
	LastRunID     string    `json:"lastRunId"`
	Pages         int       `json:"pages"`
	FailedPages   int       `json:"failedPages"`
	Records       int       `json:"records"`
	Files         int       `json:"files"`
	LastError     string    `json:"lastError"`
	LastPublish   string    `json:"lastPublish"`
	LastPublishAt time.Time `json:"lastPublishAt"`
	NextRun       time.Time `json:"nextRun"`
}

type Stats struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

func NewStats() *Stats {
	return &Stats{now: time.Now}
}

func (s *Stats) begin(t time.Time) {
	s.update(func(snap *Snapshot) {
		snap.IsRunning = true
		snap.StartTime = t
		snap.Duration = ""
	})
}

func (s *Stats) finish(report *crawler.Report, err error) {
	s.update(func(snap *Snapshot) {
		snap.IsRunning = false
		snap.Crawls++
		snap.LastError = ""
		if err != nil {
			snap.LastError = err.Error()
		}
		if report == nil {
			return
		}
		snap.LastRunID = report.RunID
		snap.Duration = report.Duration.String()
		snap.Pages = report.Pages
		snap.FailedPages = report.FailedPages
		snap.Records = report.Records
		snap.Files = len(report.Files)
	})
}

func (s *Stats) published(res publisher.Result, t time.Time) {
	s.update(func(snap *Snapshot) {
		snap.LastPublish = res.String()
		snap.LastPublishAt = t
	})
}

func (s *Stats) scheduled(next time.Time) {
	s.update(func(snap *Snapshot) {
		snap.NextRun = next
	})
}

// Snapshot trả về bản sao, Duration được tính lại nếu đang crawl
func (s *Stats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snap
	if snap.IsRunning {
		snap.Duration = s.now().Sub(snap.StartTime).String()
	}
	return snap
}

func (s *Stats) update(updateFn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updateFn(&s.snap)
}
