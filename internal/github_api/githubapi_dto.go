// Chuyển đổi phản hồi GraphQL search của GitHub thành struct

package githubapi

import (
	"encoding/json"
	"strings"
)

type GraphqlRequest struct {
	Query string `json:"query"`
}

type GraphqlError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

type PrimaryLanguage struct {
	Name string `json:"name"`
}

type Stargazers struct {
	TotalCount int `json:"totalCount"`
}

type RepositoryNode struct {
	DatabaseId      int64            `json:"databaseId"`
	Name            string           `json:"name"`
	NameWithOwner   string           `json:"nameWithOwner"`
	Description     string           `json:"description"`
	Url             string           `json:"url"`
	PrimaryLanguage *PrimaryLanguage `json:"primaryLanguage"`
	ForkCount       int              `json:"forkCount"`
	Stargazers      Stargazers       `json:"stargazers"`
}

type SearchResult struct {
	Nodes []RepositoryNode `json:"nodes"`
}

type SearchData struct {
	Search SearchResult `json:"search"`
}

// HasErrors là true khi phản hồi có key "errors", kể cả khi giá trị là null hay rỗng
type GraphqlResponse struct {
	Data      *SearchData    `json:"data"`
	Errors    []GraphqlError `json:"errors"`
	HasErrors bool           `json:"-"`
}

func (r *GraphqlResponse) UnmarshalJSON(raw []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return err
	}
	if data, ok := keys["data"]; ok {
		if err := json.Unmarshal(data, &r.Data); err != nil {
			return err
		}
	}

	var rawErrs json.RawMessage
	rawErrs, r.HasErrors = keys["errors"]
	if r.HasErrors {
		// "errors" không đúng dạng thì chỉ mất phần chi tiết khi log
		_ = json.Unmarshal(rawErrs, &r.Errors)
	}
	return nil
}

// ErrorMessages gộp message của các lỗi GraphQL để log
func (r *GraphqlResponse) ErrorMessages() string {
	if len(r.Errors) == 0 {
		return "<no error details>"
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if e.Type != "" {
			msgs = append(msgs, e.Type+": "+e.Message)
		} else {
			msgs = append(msgs, e.Message)
		}
	}
	return strings.Join(msgs, "; ")
}
