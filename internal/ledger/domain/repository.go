package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// EntryFields marks which fields an upsert carries. An absent field
// leaves the stored value untouched on merge.
type EntryFields struct {
	Morning  bool
	Evening  bool
	MilkType bool
	Price    bool
}

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, entry *DailyEntry, fields EntryFields) error
	ExistingKeys(ctx context.Context, db *gorm.DB, entries []DailyEntry) (map[string]bool, error)
	Find(ctx context.Context, db *gorm.DB, customerID string, start, end time.Time) ([]*DailyEntry, error)
	FindByDate(ctx context.Context, db *gorm.DB, date time.Time) ([]*DailyEntry, error)
	DeleteByCustomerMonth(ctx context.Context, db *gorm.DB, customerID string, start, end time.Time) (int64, error)
}
