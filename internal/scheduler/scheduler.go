// Package scheduler chạy crawl ở đầu mỗi khoảng Interval (mặc định mỗi giờ, UTC)
// và publish thư mục archive sau mỗi PublishEvery lần (mặc định giờ chia hết cho 3).
package scheduler

import (
	"context"
	"time"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/crawler"
	"github.com/thep200/github-trending/internal/publisher"
	"github.com/thep200/github-trending/pkg/log"
)

// Cửa sổ chạy crawl tính từ mốc đầu mỗi khoảng
const crawlWindow = time.Minute

type Publisher interface {
	Publish(ctx context.Context) publisher.Result
}

type Scheduler struct {
	Logger       log.Logger
	Crawler      crawler.Crawler
	Publisher    Publisher
	Stats        *Stats
	Interval     time.Duration
	PublishEvery int
	PollInterval time.Duration

	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
	lastBoundary time.Time
}

func NewScheduler(logger log.Logger, config *cfg.Config, c crawler.Crawler, p Publisher) *Scheduler {
	interval := config.Scheduler.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	poll := config.Scheduler.PollInterval
	if poll <= 0 {
		poll = time.Second
	}
	return &Scheduler{
		Logger:       logger,
		Crawler:      c,
		Publisher:    p,
		Stats:        NewStats(),
		Interval:     interval,
		PublishEvery: config.Scheduler.PublishEvery,
		PollInterval: poll,
		now:          func() time.Time { return time.Now().UTC() },
		sleep:        sleepCtx,
	}
}

// Run lặp Step cho tới khi ctx bị huỷ. Lỗi crawl/publish chỉ được log.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Logger.Info(ctx, "Scheduler started: interval=%v publish every %d crawls", s.Interval, s.PublishEvery)
	for {
		if ctx.Err() != nil {
			s.Logger.Info(ctx, "Scheduler stopped")
			return nil
		}
		wait := s.Step(ctx, s.now())
		if err := s.sleep(ctx, wait); err != nil {
			s.Logger.Info(ctx, "Scheduler stopped")
			return nil
		}
	}
}

// Step xử lý một tick và trả về thời gian cần chờ tới tick tiếp theo.
// Ngoài cửa sổ đầu khoảng (hoặc đã crawl ở mốc này) thì chỉ trả về PollInterval.
func (s *Scheduler) Step(ctx context.Context, now time.Time) time.Duration {
	now = now.UTC()
	boundary := now.Truncate(s.Interval)
	if now.Sub(boundary) >= s.window() || boundary.Equal(s.lastBoundary) {
		return s.PollInterval
	}
	s.lastBoundary = boundary

	s.Stats.begin(now)
	report, err := s.Crawler.Crawl(ctx)
	s.Stats.finish(report, err)
	if err != nil {
		s.Logger.Error(ctx, "Crawl at %s failed: %v", boundary.Format(time.RFC3339), err)
	}

	if s.shouldPublish(boundary) {
		res := s.Publisher.Publish(ctx)
		s.Stats.published(res, s.now())
		if res.OK() {
			s.Logger.Info(ctx, "Publish: %s", res)
		} else {
			s.Logger.Error(ctx, "Publish: %s", res)
		}
	}

	// Crawl chạy quá một khoảng thì bỏ qua mốc đã lỡ
	current := s.now().UTC()
	next := current.Truncate(s.Interval).Add(s.Interval)
	s.Stats.scheduled(next)
	return next.Sub(current)
}

// shouldPublish: chỉ số của mốc (tính từ Unix epoch) chia hết cho PublishEvery
func (s *Scheduler) shouldPublish(boundary time.Time) bool {
	if s.Publisher == nil || s.PublishEvery <= 0 {
		return false
	}
	index := boundary.UnixNano() / int64(s.Interval)
	return index%int64(s.PublishEvery) == 0
}

func (s *Scheduler) window() time.Duration {
	if s.Interval < crawlWindow {
		return s.Interval
	}
	return crawlWindow
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
