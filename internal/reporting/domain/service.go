package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailySummary totals one day's deliveries across every customer.
// Amount is priced from each entry's recorded price snapshot, falling
// back to the customer's current price when the entry predates price
// capture.
type DailySummary struct {
	Date               time.Time       `json:"date"`
	DeliveredCustomers int64           `json:"delivered_customers"`
	MorningMilk        decimal.Decimal `json:"morning_milk"`
	EveningMilk        decimal.Decimal `json:"evening_milk"`
	TotalMilk          decimal.Decimal `json:"total_milk"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
}

// YTDSummary is the seller's running all-time position.
type YTDSummary struct {
	ActiveCustomers   int64           `json:"active_customers"`
	DistinctCustomers int64           `json:"distinct_customers"`
	TotalMilk         decimal.Decimal `json:"total_milk"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

type Repository interface {
	AggregateDay(ctx context.Context, db *gorm.DB, date time.Time) (DailySummary, error)
	AggregateAllTime(ctx context.Context, db *gorm.DB) (YTDSummary, error)
	CountActiveCustomers(ctx context.Context, db *gorm.DB) (int64, error)
}

type Service interface {
	DailySummary(ctx context.Context, date time.Time) (DailySummary, error)
	YTDSummary(ctx context.Context) (YTDSummary, error)
}

var ErrInvalidDate = errors.New("invalid_date")
