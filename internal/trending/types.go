// Package trending chứa kiểu dữ liệu chung và Fetcher đọc trang https://github.com/trending
package trending

import "fmt"

type Since string

const (
	Daily   Since = "daily"
	Weekly  Since = "weekly"
	Monthly Since = "monthly"
)

// AllSinces theo đúng thứ tự crawl và ghi archive
var AllSinces = []Since{Daily, Weekly, Monthly}

func ParseSince(s string) (Since, error) {
	switch Since(s) {
	case Daily, Weekly, Monthly:
		return Since(s), nil
	}
	return "", fmt.Errorf("unknown since %q", s)
}

// Bộ lọc đặc biệt, ngoài ra là tên ngôn ngữ lập trình
const (
	FilterAll     = "all"
	FilterChinese = "chinese"
)

// Row là một dòng trên trang trending, chỉ tồn tại trong một lần fetch
type Row struct {
	FullName  string
	StarDelta int
	Rank      int
}

// Record là Row đã được bổ sung metadata từ GraphQL API
type Record struct {
	ID              int64
	Name            string
	NameWithOwner   string
	Description     string
	URL             string
	PrimaryLanguage *string
	Stars           int
	Forks           int
	StarDelta       int
	Rank            int
	Since           Since
	LangFilter      string
}

// Language trả về tên ngôn ngữ chính, rỗng nếu API không báo
func (r Record) Language() string {
	if r.PrimaryLanguage == nil {
		return ""
	}
	return *r.PrimaryLanguage
}
