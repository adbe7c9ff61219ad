package trending

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/pkg/log"
)

const userAgent = "github-trending-archiver"

type Fetcher struct {
	Logger  log.Logger
	BaseURL string
	client  *http.Client
}

func NewFetcher(logger log.Logger, config *cfg.Config) *Fetcher {
	timeout := time.Duration(config.GithubApi.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		Logger:  logger,
		BaseURL: config.GithubApi.TrendingUrl,
		client:  &http.Client{Timeout: timeout},
	}
}

// BuildURL dựng url trang trending cho (since, filter)
func BuildURL(base string, since Since, filter string) string {
	base = strings.TrimRight(base, "/")
	switch filter {
	case "", FilterAll:
		return fmt.Sprintf("%s?since=%s", base, since)
	case FilterChinese:
		return fmt.Sprintf("%s?since=%s&spoken_language_code=zh", base, since)
	default:
		return fmt.Sprintf("%s/%s?since=%s", base, url.QueryEscape(filter), since)
	}
}

// Fetch tải một trang trending và trả về các dòng theo thứ tự trên trang.
// Trang rỗng không phải là lỗi.
func (f *Fetcher) Fetch(ctx context.Context, since Since, filter string) ([]Row, error) {
	pageURL := BuildURL(f.BaseURL, since, filter)
	f.Logger.Debug(ctx, "Fetching trending page: %s", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot received trending page %s: %v", pageURL, resp.Status)
	}

	rows, err := ParseListing(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", pageURL, err)
	}
	if len(rows) == 0 {
		f.Logger.Info(ctx, "Empty: %s", pageURL)
	}
	return rows, nil
}

// ParseListing đọc các .Box-row của trang trending
func ParseListing(r io.Reader) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, 25)
	doc.Find(".Box-row").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Find(".h3 a").First().Attr("href")
		fullName := strings.TrimLeft(strings.TrimSpace(href), "/")
		if !validFullName(fullName) {
			return
		}
		starText := s.Find(".d-inline-block.float-sm-right").Text()
		rows = append(rows, Row{
			FullName:  fullName,
			StarDelta: parseStarDelta(starText),
			Rank:      len(rows) + 1,
		})
	})
	return rows, nil
}

// owner/name, đúng một dấu "/"
func validFullName(fullName string) bool {
	owner, name, ok := strings.Cut(fullName, "/")
	return ok && owner != "" && name != "" && !strings.Contains(name, "/")
}

// "1,234 stars today" -> 1234, không có số -> 0
func parseStarDelta(text string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
