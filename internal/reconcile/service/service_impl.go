package service

import (
	"context"
	"strings"
	"time"

	billingdomain "github.com/doodhly/doodhly/internal/billing/domain"
	ledgerdomain "github.com/doodhly/doodhly/internal/ledger/domain"
	"github.com/doodhly/doodhly/internal/reconcile/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Billing billingdomain.Service
	Ledger  ledgerdomain.Service
}

type Service struct {
	log     *zap.Logger
	billing billingdomain.Service
	ledger  ledgerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("reconcile.service"),
		billing: p.Billing,
		ledger:  p.Ledger,
	}
}

// Update commits the bill fields first, then runs the ledger sync as
// its own operation. A sync failure does not undo the bill edit; it is
// reported in the outcome and the caller re-issues the sync.
func (s *Service) Update(ctx context.Context, req billingdomain.UpdateBillRequest, sync *domain.SyncPayload) (domain.UpdateResult, error) {
	bill, err := s.billing.UpdateFields(ctx, req)
	if err != nil {
		return domain.UpdateResult{}, err
	}

	result := domain.UpdateResult{Bill: bill}
	if sync == nil {
		return result, nil
	}

	outcome := s.syncLedger(ctx, *sync)
	result.Sync = &outcome
	return result, nil
}

func (s *Service) SyncEntries(ctx context.Context, payload domain.SyncPayload) (domain.UpdateResult, error) {
	customerID := strings.TrimSpace(payload.CustomerID)
	if customerID == "" || len(payload.Entries) == 0 {
		return domain.UpdateResult{}, domain.ErrInvalidPayload
	}
	if _, err := monthStart(payload.Month); err != nil {
		return domain.UpdateResult{}, err
	}

	bill, err := s.billing.GetByCustomerMonth(ctx, customerID, payload.Month)
	if err != nil {
		return domain.UpdateResult{}, err
	}

	snapshot := make([]billingdomain.BillEntry, 0, len(payload.Entries))
	totalMilk := decimal.Zero
	for _, day := range payload.Entries {
		entry := billingdomain.BillEntry{Day: day.Day}
		if day.MorningMilk != nil {
			entry.MorningMilk = *day.MorningMilk
		}
		if day.EveningMilk != nil {
			entry.EveningMilk = *day.EveningMilk
		}
		snapshot = append(snapshot, entry)
		totalMilk = totalMilk.Add(entry.MorningMilk).Add(entry.EveningMilk)
	}
	totalAmount := totalMilk.Mul(bill.RatePerLiter)

	updated, err := s.billing.UpdateFields(ctx, billingdomain.UpdateBillRequest{
		BillID:      bill.BillID,
		TotalMilk:   &totalMilk,
		TotalAmount: &totalAmount,
		MilkEntries: &snapshot,
	})
	if err != nil {
		return domain.UpdateResult{}, err
	}

	outcome := s.syncLedger(ctx, domain.SyncPayload{
		CustomerID: customerID,
		Month:      payload.Month,
		Entries:    payload.Entries,
	})
	return domain.UpdateResult{Bill: updated, Sync: &outcome}, nil
}

// syncLedger merges the payload's days into the daily ledger. Days
// outside the month are skipped, not fatal.
func (s *Service) syncLedger(ctx context.Context, payload domain.SyncPayload) domain.SyncOutcome {
	customerID := strings.TrimSpace(payload.CustomerID)
	if customerID == "" || len(payload.Entries) == 0 {
		return domain.SyncOutcome{Error: domain.ErrInvalidPayload.Error()}
	}

	start, err := monthStart(payload.Month)
	if err != nil {
		return domain.SyncOutcome{Error: err.Error()}
	}
	daysInMonth := start.AddDate(0, 1, -1).Day()

	var skipped int
	upserts := make([]ledgerdomain.EntryUpsert, 0, len(payload.Entries))
	for _, day := range payload.Entries {
		if day.Day < 1 || day.Day > daysInMonth {
			skipped++
			continue
		}
		upserts = append(upserts, ledgerdomain.EntryUpsert{
			CustomerID:  customerID,
			EntryDate:   start.AddDate(0, 0, day.Day-1),
			MorningMilk: day.MorningMilk,
			EveningMilk: day.EveningMilk,
		})
	}

	if len(upserts) == 0 {
		return domain.SyncOutcome{Skipped: skipped}
	}

	result, err := s.ledger.UpsertMany(ctx, upserts)
	if err != nil {
		s.log.Warn("ledger sync failed after bill update",
			zap.String("customer_id", customerID),
			zap.String("month", payload.Month),
			zap.Error(err),
		)
		return domain.SyncOutcome{Skipped: skipped, Error: err.Error()}
	}

	return domain.SyncOutcome{
		Upserted: result.Upserted,
		Modified: result.Modified,
		Skipped:  skipped + result.Skipped,
	}
}

func monthStart(month string) (time.Time, error) {
	if !billingdomain.ValidMonth(month) {
		return time.Time{}, domain.ErrInvalidMonth
	}
	start, err := time.ParseInLocation("2006-01", month, time.UTC)
	if err != nil {
		return time.Time{}, domain.ErrInvalidMonth
	}
	return start, nil
}
