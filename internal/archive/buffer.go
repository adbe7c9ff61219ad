// Package archive gom các record của một lần crawl theo (since, ngôn ngữ)
// và ghi chúng ra file CSV theo ngày/tuần/tháng.
package archive

import (
	"sort"
	"sync"

	"github.com/thep200/github-trending/internal/trending"
)

// Buffer chỉ sống trong một lần crawl. An toàn khi nhiều goroutine cùng Insert.
type Buffer struct {
	mu      sync.Mutex
	buckets map[trending.Since]map[string][]trending.Record
	total   int
}

func NewBuffer() *Buffer {
	buckets := make(map[trending.Since]map[string][]trending.Record, len(trending.AllSinces))
	for _, since := range trending.AllSinces {
		buckets[since] = make(map[string][]trending.Record)
	}
	return &Buffer{buckets: buckets}
}

// Insert thêm record vào bucket [record.Since][record.Language()], giữ thứ tự chèn
func (b *Buffer) Insert(record trending.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	langs, ok := b.buckets[record.Since]
	if !ok {
		return ErrUnknownSince
	}
	lang := record.Language()
	langs[lang] = append(langs[lang], record)
	b.total++
	return nil
}

// Languages trả về các key ngôn ngữ của since, đã sắp xếp
func (b *Buffer) Languages(since trending.Since) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	langs := make([]string, 0, len(b.buckets[since]))
	for lang := range b.buckets[since] {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Records trả về bản sao của bucket theo thứ tự chèn
func (b *Buffer) Records(since trending.Since, lang string) []trending.Record {
	b.mu.Lock()
	defer b.mu.Unlock()

	src := b.buckets[since][lang]
	out := make([]trending.Record, len(src))
	copy(out, src)
	return out
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}
