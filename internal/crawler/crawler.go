// Crawler trending
// Mỗi lần Crawl: fetch trang trending -> enrich bằng GraphQL -> gom vào Buffer -> ghi archive.
// Lỗi của một trang chỉ được log, lỗi ghi archive thì dừng lần crawl.

package crawler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/archive"
	"github.com/thep200/github-trending/internal/limiter"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/internal/trending"
	"github.com/thep200/github-trending/pkg/log"
)

type Crawler interface {
	Crawl(ctx context.Context) (*Report, error)
}

type PageFetcher interface {
	Fetch(ctx context.Context, since trending.Since, filter string) ([]trending.Row, error)
}

type RecordEnricher interface {
	Enrich(ctx context.Context, since trending.Since, filter string, rows []trending.Row) ([]trending.Record, error)
}

type Flusher interface {
	Flush(ctx context.Context, buf *archive.Buffer) ([]string, error)
}

// RecordSink nhận các record đã enrich, ví dụ Kafka producer
type RecordSink interface {
	Publish(ctx context.Context, key string, values ...interface{}) error
}

// Mirror sao chép các file archive vừa ghi, ví dụ lên S3
type Mirror interface {
	Mirror(ctx context.Context, root string, paths []string) error
}

// Report tổng kết một lần crawl
type Report struct {
	RunID       string
	StartedAt   time.Time
	Duration    time.Duration
	Pages       int
	EmptyPages  int
	FailedPages int
	Records     int
	Files       []string
}

type TrendingCrawler struct {
	Logger      log.Logger
	Config      *cfg.Config
	Fetcher     PageFetcher
	Enricher    RecordEnricher
	Archiver    Flusher
	ArchiveRoot string
	Sink        RecordSink
	Mirror      Mirror
	rateLimiter *limiter.RateLimiter
	now         func() time.Time

	langsMu sync.RWMutex
	langs   []string
}

var _ Crawler = &TrendingCrawler{}

func NewTrendingCrawler(logger log.Logger, config *cfg.Config, fetcher PageFetcher, enricher RecordEnricher, archiver Flusher) (*TrendingCrawler, error) {
	if fetcher == nil || enricher == nil || archiver == nil {
		return nil, errors.New("fetcher, enricher and archiver are required")
	}
	throttle := time.Duration(config.GithubApi.ThrottleDelay) * time.Millisecond
	return &TrendingCrawler{
		Logger:      logger,
		Config:      config,
		Fetcher:     fetcher,
		Enricher:    enricher,
		Archiver:    archiver,
		ArchiveRoot: config.Archive.Dir,
		rateLimiter: limiter.NewRateLimiter(config.GithubApi.RequestsPerSecond, throttle),
		now:         func() time.Time { return time.Now().UTC() },
		langs:       append([]string(nil), config.Trending.PopularLangs...),
	}, nil
}

// SetLanguages thay danh sách ngôn ngữ phổ biến, dùng khi config được reload
func (c *TrendingCrawler) SetLanguages(langs []string) {
	c.langsMu.Lock()
	c.langs = append([]string(nil), langs...)
	c.langsMu.Unlock()
}

// Filters trả về "all" + ngôn ngữ phổ biến (+ "chinese" nếu bật)
func (c *TrendingCrawler) Filters() []string {
	c.langsMu.RLock()
	defer c.langsMu.RUnlock()

	filters := make([]string, 0, len(c.langs)+2)
	filters = append(filters, trending.FilterAll)
	filters = append(filters, c.langs...)
	if c.Config.Trending.SpokenFilter {
		filters = append(filters, trending.FilterChinese)
	}
	return filters
}

func (c *TrendingCrawler) Crawl(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: c.now(),
	}
	ctx = log.WithRunID(ctx, report.RunID)
	c.Logger.Info(ctx, "Starting trending crawl at %s", report.StartedAt.Format(time.RFC3339))

	buf := archive.NewBuffer()
	filters := c.Filters()

	var crawlErr error
loop:
	for _, since := range trending.AllSinces {
		for _, filter := range filters {
			if err := ctx.Err(); err != nil {
				crawlErr = err
				break loop
			}
			c.crawlPage(ctx, report, buf, since, filter)
		}
	}

	// Vẫn ghi những gì đã gom được kể cả khi bị huỷ giữa chừng
	files, err := c.Archiver.Flush(ctx, buf)
	report.Files = files
	report.Records = buf.Len()
	report.Duration = c.now().Sub(report.StartedAt)
	if err != nil {
		c.Logger.Error(ctx, "Archive flush failed: %v", err)
		return report, err
	}

	if c.Mirror != nil && len(files) > 0 {
		if err := c.Mirror.Mirror(ctx, c.ArchiveRoot, files); err != nil {
			c.Logger.Error(ctx, "Archive mirror failed: %v", err)
		}
	}

	c.Logger.Info(ctx, "==== CRAWL RESULT ====")
	c.Logger.Info(ctx, "Pages: %d (empty: %d, failed: %d)", report.Pages, report.EmptyPages, report.FailedPages)
	c.Logger.Info(ctx, "Records: %d, files written: %d", report.Records, len(report.Files))
	c.Logger.Info(ctx, "Duration: %v", report.Duration)

	return report, crawlErr
}

func (c *TrendingCrawler) crawlPage(ctx context.Context, report *Report, buf *archive.Buffer, since trending.Since, filter string) {
	report.Pages++

	if err := c.rateLimiter.Wait(ctx); err != nil {
		report.FailedPages++
		return
	}
	rows, err := c.Fetcher.Fetch(ctx, since, filter)
	if err != nil {
		report.FailedPages++
		c.Logger.Error(ctx, "Cannot fetch trending since=%s filter=%s: %v", since, filter, err)
		return
	}
	if len(rows) == 0 {
		report.EmptyPages++
		return
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		report.FailedPages++
		return
	}
	records, err := c.Enricher.Enrich(ctx, since, filter, rows)
	if err != nil {
		report.FailedPages++
		c.Logger.Error(ctx, "Cannot enrich since=%s filter=%s: %v", since, filter, err)
		return
	}

	messages := make([]interface{}, 0, len(records))
	for _, record := range records {
		if err := buf.Insert(record); err != nil {
			c.Logger.Warn(ctx, "Cannot buffer %s: %v", record.NameWithOwner, err)
			continue
		}
		messages = append(messages, model.NewTrendingMessage(log.RunID(ctx), report.StartedAt, record))
	}
	c.Logger.Debug(ctx, "since=%s filter=%s rows=%d records=%d", since, filter, len(rows), len(records))

	if c.Sink != nil && len(messages) > 0 {
		if err := c.Sink.Publish(ctx, model.TrendingMessageKey, messages...); err != nil {
			c.Logger.Warn(ctx, "Cannot publish %d records to sink: %v", len(messages), err)
		}
	}
}
