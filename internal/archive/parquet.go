package archive

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/thep200/github-trending/internal/trending"
)

// ParquetRow là bản đầy đủ hơn của một dòng CSV, ghi kèm khi bật archive.parquet
type ParquetRow struct {
	ID            int64   `parquet:"id,snappy"`
	NameWithOwner string  `parquet:"name,snappy"`
	Language      *string `parquet:"lang,optional,snappy"`
	Description   string  `parquet:"description,snappy"`
	Stars         int32   `parquet:"stars,snappy"`
	Forks         int32   `parquet:"forks,snappy"`
	NewStars      int32   `parquet:"new_stars,snappy"`
	Rank          int32   `parquet:"rank,snappy"`
	Since         string  `parquet:"since,snappy"`
	LangFilter    string  `parquet:"lang_filter,snappy"`
}

func toParquetRows(records []trending.Record) []ParquetRow {
	rows := make([]ParquetRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, ParquetRow{
			ID:            r.ID,
			NameWithOwner: r.NameWithOwner,
			Language:      r.PrimaryLanguage,
			Description:   r.Description,
			Stars:         int32(r.Stars),
			Forks:         int32(r.Forks),
			NewStars:      int32(r.StarDelta),
			Rank:          int32(r.Rank),
			Since:         string(r.Since),
			LangFilter:    r.LangFilter,
		})
	}
	return rows
}

func writeParquet(path string, records []trending.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[ParquetRow](file)
	if _, err := writer.Write(toParquetRows(records)); err != nil {
		return fmt.Errorf("failed to write data to parquet file %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer for %s: %w", path, err)
	}
	return nil
}
