package repository

import (
	"context"
	"time"

	customerdomain "github.com/doodhly/doodhly/internal/customer/domain"
	"github.com/doodhly/doodhly/internal/reporting/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// Entry price snapshots win; rows written before price capture fall
// back to the owning customer's current price. Aggregation runs in the
// database, both targets coerce the numeric text columns.
const dayTotalsSQL = `
SELECT COUNT(*)                          AS delivered_customers,
       COALESCE(SUM(e.morning_milk), 0) AS morning_milk,
       COALESCE(SUM(e.evening_milk), 0) AS evening_milk,
       COALESCE(SUM(e.morning_milk + e.evening_milk), 0) AS total_milk,
       COALESCE(SUM((e.morning_milk + e.evening_milk) *
           CASE WHEN e.price_per_liter > 0 THEN e.price_per_liter
                ELSE COALESCE(c.price_per_liter, 0) END), 0) AS total_amount
FROM daily_milk_entries e
LEFT JOIN customers c ON c.customer_id = e.customer_id
WHERE e.entry_date = ?`

const allTimeTotalsSQL = `
SELECT COUNT(DISTINCT e.customer_id)    AS distinct_customers,
       COALESCE(SUM(e.morning_milk + e.evening_milk), 0) AS total_milk,
       COALESCE(SUM((e.morning_milk + e.evening_milk) *
           CASE WHEN e.price_per_liter > 0 THEN e.price_per_liter
                ELSE COALESCE(c.price_per_liter, 0) END), 0) AS total_amount
FROM daily_milk_entries e
LEFT JOIN customers c ON c.customer_id = e.customer_id`

func (r *repo) AggregateDay(ctx context.Context, db *gorm.DB, date time.Time) (domain.DailySummary, error) {
	var summary domain.DailySummary
	err := db.WithContext(ctx).Raw(dayTotalsSQL, date).Scan(&summary).Error
	if err != nil {
		return domain.DailySummary{}, err
	}
	summary.Date = date
	return summary, nil
}

func (r *repo) AggregateAllTime(ctx context.Context, db *gorm.DB) (domain.YTDSummary, error) {
	var summary domain.YTDSummary
	err := db.WithContext(ctx).Raw(allTimeTotalsSQL).Scan(&summary).Error
	if err != nil {
		return domain.YTDSummary{}, err
	}
	return summary, nil
}

func (r *repo) CountActiveCustomers(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&customerdomain.Customer{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
