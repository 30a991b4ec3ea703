// Package persistence is the row store the checkout writes through.
package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Client is a table-addressed row store. Calls are independent; nothing
// groups two calls into one transaction.
type Client interface {
	Insert(ctx context.Context, table string, rows any) error
	Update(ctx context.Context, table string, where map[string]any, values map[string]any) (int64, error)
	Select(ctx context.Context, table string, where map[string]any, dest any) error
}

type GormClient struct {
	db *gorm.DB
}

func NewGormClient(db *gorm.DB) *GormClient {
	return &GormClient{db: db}
}

// Insert creates rows (a pointer to a struct or slice). Rows whose primary
// key already exists are skipped so replays are harmless.
func (c *GormClient) Insert(ctx context.Context, table string, rows any) error {
	return c.db.WithContext(ctx).
		Table(table).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows).Error
}

func (c *GormClient) Update(ctx context.Context, table string, where map[string]any, values map[string]any) (int64, error) {
	result := c.db.WithContext(ctx).Table(table).Where(where).Updates(values)
	return result.RowsAffected, result.Error
}

func (c *GormClient) Select(ctx context.Context, table string, where map[string]any, dest any) error {
	query := c.db.WithContext(ctx).Table(table)
	if len(where) > 0 {
		query = query.Where(where)
	}
	return query.Order("created_at asc").Find(dest).Error
}
