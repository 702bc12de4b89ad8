package repository

import (
	"context"
	"time"

	"github.com/doodhly/doodhly/internal/ledger/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// Upsert inserts the entry or merges it into the existing row for the
// same customer and day. Only the quantities the caller actually sent
// are assigned on conflict, so a morning-only write leaves the stored
// evening quantity alone.
func (r *repo) Upsert(ctx context.Context, db *gorm.DB, entry *domain.DailyEntry, fields domain.EntryFields) error {
	assign := []string{"updated_at"}
	if fields.Morning {
		assign = append(assign, "morning_milk")
	}
	if fields.Evening {
		assign = append(assign, "evening_milk")
	}
	if fields.MilkType {
		assign = append(assign, "milk_type")
	}
	if fields.Price {
		assign = append(assign, "price_per_liter")
	}

	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}, {Name: "entry_date"}},
		DoUpdates: clause.AssignmentColumns(assign),
	}).Create(entry).Error
}

func (r *repo) ExistingKeys(ctx context.Context, db *gorm.DB, entries []domain.DailyEntry) (map[string]bool, error) {
	if len(entries) == 0 {
		return map[string]bool{}, nil
	}

	tx := db.WithContext(ctx).Model(&domain.DailyEntry{})
	for i, entry := range entries {
		cond := db.Where("customer_id = ? AND entry_date = ?", entry.CustomerID, entry.EntryDate)
		if i == 0 {
			tx = tx.Where(cond)
		} else {
			tx = tx.Or(cond)
		}
	}

	var rows []domain.DailyEntry
	if err := tx.Select("customer_id", "entry_date").Find(&rows).Error; err != nil {
		return nil, err
	}

	keys := make(map[string]bool, len(rows))
	for _, row := range rows {
		keys[domain.EntryKey(row.CustomerID, row.EntryDate)] = true
	}
	return keys, nil
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, customerID string, start, end time.Time) ([]*domain.DailyEntry, error) {
	var entries []*domain.DailyEntry
	err := db.WithContext(ctx).
		Where("customer_id = ? AND entry_date >= ? AND entry_date < ?", customerID, start, end).
		Order("entry_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) FindByDate(ctx context.Context, db *gorm.DB, date time.Time) ([]*domain.DailyEntry, error) {
	var entries []*domain.DailyEntry
	err := db.WithContext(ctx).
		Where("entry_date = ?", date).
		Order("customer_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) DeleteByCustomerMonth(ctx context.Context, db *gorm.DB, customerID string, start, end time.Time) (int64, error) {
	tx := db.WithContext(ctx).
		Where("customer_id = ? AND entry_date >= ? AND entry_date < ?", customerID, start, end).
		Delete(&domain.DailyEntry{})
	return tx.RowsAffected, tx.Error
}
