package domain

import (
	"context"
	"errors"
	"time"

	customerdomain "github.com/doodhly/doodhly/internal/customer/domain"
	"github.com/shopspring/decimal"
)

// EntryUpsert is one day of one customer in a batch write. All fields
// past the key are optional; a nil field never clobbers what is
// already stored.
type EntryUpsert struct {
	CustomerID    string
	EntryDate     time.Time
	MorningMilk   *decimal.Decimal
	EveningMilk   *decimal.Decimal
	MilkType      *customerdomain.MilkType
	PricePerLiter *decimal.Decimal
}

// UpsertResult reports what a batch did. Upserted and Modified are
// advisory counts taken before the writes land; the unique index on
// (customer_id, entry_date) is the actual guarantee.
type UpsertResult struct {
	Upserted int `json:"upserted"`
	Modified int `json:"modified"`
	Skipped  int `json:"skipped"`
}

type Service interface {
	UpsertMany(ctx context.Context, entries []EntryUpsert) (UpsertResult, error)
	Query(ctx context.Context, customerID string, start, end time.Time) ([]DailyEntry, error)
	QueryByDate(ctx context.Context, date time.Time) ([]DailyEntry, error)
}

var (
	ErrInvalidDate     = errors.New("invalid_entry_date")
	ErrInvalidRange    = errors.New("invalid_date_range")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidMilkType = errors.New("invalid_milk_type")
	ErrInvalidPrice    = errors.New("invalid_price_per_liter")
	ErrEmptyBatch      = errors.New("empty_batch")
)
