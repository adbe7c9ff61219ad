package archive

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/trending"
	"github.com/thep200/github-trending/pkg/log"
)

var ErrUnknownSince = errors.New("unknown since")

var csvHeader = []string{"id", "name", "lang", "new_stars"}

type Archiver struct {
	Logger  log.Logger
	Root    string
	Parquet bool
	Now     func() time.Time
}

func NewArchiver(logger log.Logger, config *cfg.Config) *Archiver {
	root := config.Archive.Dir
	if root == "" {
		root = "archive"
	}
	return &Archiver{
		Logger:  logger,
		Root:    root,
		Parquet: config.Archive.Parquet,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// Dir tính thư mục đích từ thời điểm flush, không phụ thuộc record:
// daily -> YYYY/MM/DD, weekly -> <năm ISO>/<tuần ISO>, monthly -> YYYY/MM
func Dir(root string, since trending.Since, t time.Time) (string, error) {
	switch since {
	case trending.Daily:
		return filepath.Join(root, string(since), t.Format("2006"), t.Format("01"), t.Format("02")), nil
	case trending.Weekly:
		year, week := t.ISOWeek()
		return filepath.Join(root, string(since), strconv.Itoa(year), fmt.Sprintf("%02d", week)), nil
	case trending.Monthly:
		return filepath.Join(root, string(since), t.Format("2006"), t.Format("01")), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSince, since)
}

// Flush ghi mọi bucket của buf ra <dir>/<ngôn ngữ>.csv và trả về các file đã ghi.
// Lỗi ghi file dừng toàn bộ lần flush.
func (a *Archiver) Flush(ctx context.Context, buf *Buffer) ([]string, error) {
	now := a.Now()
	written := make([]string, 0)

	for _, since := range trending.AllSinces {
		langs := buf.Languages(since)
		if len(langs) == 0 {
			a.Logger.Info(ctx, "No records for %s, nothing to archive", since)
			continue
		}

		dir, err := Dir(a.Root, since, now)
		if err != nil {
			return written, err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, fmt.Errorf("cannot create archive dir %s: %w", dir, err)
		}

		for _, lang := range langs {
			records := buf.Records(since, lang)
			path := filepath.Join(dir, lang+".csv")
			if err := writeCSV(path, records); err != nil {
				return written, err
			}
			written = append(written, path)

			if a.Parquet {
				pqPath := filepath.Join(dir, lang+".parquet")
				if err := writeParquet(pqPath, records); err != nil {
					return written, err
				}
				written = append(written, pqPath)
			}
		}
		a.Logger.Info(ctx, "Archived %d language files for %s into %s", len(langs), since, dir)
	}
	return written, nil
}

func writeCSV(path string, records []trending.Record) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cannot close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header to %s: %w", path, err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.NameWithOwner,
			r.Language(),
			strconv.Itoa(r.StarDelta),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
