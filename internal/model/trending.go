package model

import (
	"context"
	"fmt"
	"time"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/pkg/db"
	"github.com/thep200/github-trending/pkg/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Trending là một lần repository xuất hiện trên trang trending (lịch sử)
type Trending struct {
	Model
	ID            uint      `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	RunID         string    `json:"run_id" gorm:"column:run_id;type:char(36);not null;uniqueIndex:uniq_run_entry,priority:1"`
	CrawledAt     time.Time `json:"crawled_at" gorm:"column:crawled_at;not null;index"`
	RepoID        int64     `json:"repo_id" gorm:"column:repo_id;not null;index"`
	NameWithOwner string    `json:"name_with_owner" gorm:"column:name_with_owner;type:varchar(255);not null;uniqueIndex:uniq_run_entry,priority:4"`
	Language      string    `json:"language" gorm:"column:language;type:varchar(100)"`
	Description   string    `json:"description" gorm:"column:description;type:text"`
	Stars         int       `json:"stars" gorm:"column:stars;default:0"`
	Forks         int       `json:"forks" gorm:"column:forks;default:0"`
	NewStars      int       `json:"new_stars" gorm:"column:new_stars;default:0"`
	Rank          int       `json:"rank" gorm:"column:rank;default:0"`
	Since         string    `json:"since" gorm:"column:since;type:varchar(16);not null;uniqueIndex:uniq_run_entry,priority:2"`
	LangFilter    string    `json:"lang_filter" gorm:"column:lang_filter;type:varchar(100);not null;uniqueIndex:uniq_run_entry,priority:3"`
}

func NewTrending(config *cfg.Config, logger log.Logger, db *db.Mysql) (*Trending, error) {
	return &Trending{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}, nil
}

func (t *Trending) TableName() string {
	return "trendings"
}

// FromMessages chuyển message Kafka thành các dòng của bảng trendings
func FromMessages(msgs []TrendingMessage, now time.Time) []Trending {
	rows := make([]Trending, 0, len(msgs))
	for _, msg := range msgs {
		rows = append(rows, Trending{
			RunID:         msg.RunID,
			CrawledAt:     msg.CrawledAt,
			RepoID:        msg.RepoID,
			NameWithOwner: TruncateString(msg.NameWithOwner, 250),
			Language:      TruncateString(msg.Language, 100),
			Description:   TruncateString(msg.Description, 65000),
			Stars:         msg.Stars,
			Forks:         msg.Forks,
			NewStars:      msg.NewStars,
			Rank:          msg.Rank,
			Since:         msg.Since,
			LangFilter:    TruncateString(msg.LangFilter, 100),
			Model:         Model{CreatedAt: now, UpdatedAt: now},
		})
	}
	return rows
}

// CreateBatch ghi một lô message, trùng (run, since, filter, repo) thì cập nhật số liệu
func (t *Trending) CreateBatch(msgs []TrendingMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	db, err := t.Mysql.Db()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	rows := FromMessages(msgs, time.Now())
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "run_id"}, {Name: "since"}, {Name: "lang_filter"}, {Name: "name_with_owner"}},
			DoUpdates: clause.AssignmentColumns([]string{"stars", "forks", "new_stars", "rank", "updated_at"}),
		}).CreateInBatches(rows, 100)

		if result.Error != nil {
			return fmt.Errorf("failed to batch create trendings: %w", result.Error)
		}
		return nil
	})
}

// TrendingQuery là bộ lọc khi đọc lịch sử, Page bắt đầu từ 1
type TrendingQuery struct {
	Since    string
	Language string
	Search   string
	Page     int
	PageSize int
}

// List trả về một trang lịch sử (mới nhất trước, theo thứ hạng) và tổng số dòng khớp
func (t *Trending) List(ctx context.Context, q TrendingQuery) ([]Trending, int64, error) {
	db, err := t.Mysql.Db()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get database connection: %w", err)
	}

	filtered := func() *gorm.DB {
		query := db.WithContext(ctx).Model(&Trending{})
		if q.Since != "" {
			query = query.Where("since = ?", q.Since)
		}
		if q.Language != "" {
			query = query.Where("language = ?", q.Language)
		}
		if q.Search != "" {
			query = query.Where("name_with_owner LIKE ?", "%"+q.Search+"%")
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count trendings: %w", err)
	}

	var rows []Trending
	err = filtered().
		Order("crawled_at DESC").
		Order("`rank` ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch trendings: %w", err)
	}
	return rows, total, nil
}
