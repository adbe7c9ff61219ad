// Gói githubapi gọi GitHub GraphQL API để bổ sung thông tin cho các repository
// lấy được từ trang trending. Mỗi trang trending chỉ tạo đúng một request.

package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/trending"
	"github.com/thep200/github-trending/pkg/log"
)

const searchQueryTemplate = `{
  search(type: REPOSITORY, first: %d, query: "%s") {
    nodes {
      ... on Repository {
        databaseId
        name
        description
        url
        nameWithOwner
        primaryLanguage {
          name
        }
        forkCount
        stargazers {
          totalCount
        }
      }
    }
  }
}`

type Caller struct {
	Logger log.Logger
	Config *cfg.Config
	client *http.Client
}

func NewCaller(logger log.Logger, config *cfg.Config) *Caller {
	timeout := time.Duration(config.GithubApi.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Caller{
		Logger: logger,
		Config: config,
		client: &http.Client{Timeout: timeout},
	}
}

// BuildSearchQuery tạo câu truy vấn gộp "repo:a/b repo:c/d " cho cả trang
func BuildSearchQuery(rows []trending.Row) string {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString("repo:")
		sb.WriteString(row.FullName)
		sb.WriteString(" ")
	}
	return fmt.Sprintf(searchQueryTemplate, len(rows), sb.String())
}

// Enrich gửi một request GraphQL cho toàn bộ rows của một trang.
// Lỗi mạng hoặc status khác 200 được trả về, payload "errors" thì chỉ log.
func (c *Caller) Enrich(ctx context.Context, since trending.Since, filter string, rows []trending.Row) ([]trending.Record, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(GraphqlRequest{Query: BuildSearchQuery(rows)})
	if err != nil {
		return nil, fmt.Errorf("cannot encode graphql query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Config.GithubApi.GraphqlUrl, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cannot build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Config.GithubApi.AccessToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("bearer %s", c.Config.GithubApi.AccessToken))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send graphql request: %w", err)
	}
	defer resp.Body.Close()

	c.Logger.Debug(ctx, "Rate limit remaining: %s", resp.Header.Get("X-RateLimit-Remaining"))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot received graphql response: %v", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot read graphql response: %w", err)
	}

	return c.MergeResponse(ctx, raw, since, filter, rows)
}

// MergeResponse ghép từng node với số sao mới đã cache từ trang trending.
// Node không có trong rows bị bỏ qua. Kết quả theo thứ tự trên trang trending.
func (c *Caller) MergeResponse(ctx context.Context, raw []byte, since trending.Since, filter string, rows []trending.Row) ([]trending.Record, error) {
	var resp GraphqlResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("cannot decode graphql response: %w", err)
	}

	if resp.HasErrors {
		c.Logger.Error(ctx, "GraphQL errors for since=%s filter=%s: %s", since, filter, resp.ErrorMessages())
		return nil, nil
	}
	if resp.Data == nil {
		c.Logger.Warn(ctx, "GraphQL response without data for since=%s filter=%s", since, filter)
		return nil, nil
	}

	cached := make(map[string]trending.Row, len(rows))
	for _, row := range rows {
		cached[strings.ToLower(row.FullName)] = row
	}

	records := make([]trending.Record, 0, len(resp.Data.Search.Nodes))
	for _, node := range resp.Data.Search.Nodes {
		// GitHub có thể trả tên khác hoa/thường so với trang trending
		row, ok := cached[strings.ToLower(node.NameWithOwner)]
		if !ok {
			c.Logger.Warn(ctx, "Unexpected repository %q in search result, skipped", node.NameWithOwner)
			continue
		}
		records = append(records, toRecord(node, row, since, filter))
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Rank < records[j].Rank
	})
	return records, nil
}

func toRecord(node RepositoryNode, row trending.Row, since trending.Since, filter string) trending.Record {
	var lang *string
	if node.PrimaryLanguage != nil {
		name := node.PrimaryLanguage.Name
		lang = &name
	}
	return trending.Record{
		ID:              node.DatabaseId,
		Name:            node.Name,
		NameWithOwner:   node.NameWithOwner,
		Description:     node.Description,
		URL:             node.Url,
		PrimaryLanguage: lang,
		Stars:           node.Stargazers.TotalCount,
		Forks:           node.ForkCount,
		StarDelta:       row.StarDelta,
		Rank:            row.Rank,
		Since:           since,
		LangFilter:      filter,
	}
}
