package domain

import (
	"context"
	"errors"

	billingdomain "github.com/doodhly/doodhly/internal/billing/domain"
	"github.com/shopspring/decimal"
)

// DayQuantities is one day of a sync payload. Day is 1-based within
// the payload's month; quantities are field-level optional with the
// same merge meaning as a ledger upsert.
type DayQuantities struct {
	Day         int
	MorningMilk *decimal.Decimal
	EveningMilk *decimal.Decimal
}

// SyncPayload pushes a bill's edited per-day quantities back into the
// daily ledger.
type SyncPayload struct {
	CustomerID string
	Month      string
	Entries    []DayQuantities
}

// SyncOutcome reports the ledger half of an update. Error is set when
// the sync failed after the bill fields were already committed; the
// caller re-issues the sync, nothing is rolled back.
type SyncOutcome struct {
	Upserted int    `json:"upserted"`
	Modified int    `json:"modified"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

type UpdateResult struct {
	Bill billingdomain.Bill `json:"bill"`
	Sync *SyncOutcome       `json:"sync,omitempty"`
}

type Service interface {
	// Update applies the bill edit, then, when a payload is supplied,
	// independently merges each listed day into the ledger.
	Update(ctx context.Context, req billingdomain.UpdateBillRequest, sync *SyncPayload) (UpdateResult, error)

	// SyncEntries rewrites the bill snapshot for (customer, month) from
	// the given days and pushes the same days into the ledger.
	SyncEntries(ctx context.Context, payload SyncPayload) (UpdateResult, error)
}

var (
	ErrInvalidPayload = errors.New("invalid_sync_payload")
	ErrInvalidMonth   = errors.New("invalid_month")
)
