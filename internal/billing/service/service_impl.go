package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/doodhly/doodhly/internal/billing/domain"
	"github.com/doodhly/doodhly/internal/clock"
	seqdomain "github.com/doodhly/doodhly/internal/sequence/domain"
	"github.com/doodhly/doodhly/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Seq   seqdomain.Allocator
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	seq   seqdomain.Allocator
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("billing.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		seq:   p.Seq,
	}
}

// Create mints the BILL id and inserts inside one transaction. The
// existence pre-check keeps the common duplicate path cheap; the
// unique index on (customer_id, month) is what actually guarantees a
// single bill per customer-month when two creators race. Either path
// surfaces the stored bill through AlreadyExistsError.
func (s *Service) Create(ctx context.Context, req domain.CreateBillRequest) (domain.Bill, error) {
	customerID := strings.TrimSpace(req.CustomerID)
	if customerID == "" {
		return domain.Bill{}, domain.ErrInvalidCustomer
	}
	if !domain.ValidMonth(req.Month) {
		return domain.Bill{}, domain.ErrInvalidMonth
	}
	if req.RatePerLiter.IsNegative() || req.TotalMilk.IsNegative() || req.TotalAmount.IsNegative() {
		return domain.Bill{}, domain.ErrInvalidAmount
	}

	if existing, err := s.repo.FindByCustomerMonth(ctx, s.db, customerID, req.Month); err == nil {
		return domain.Bill{}, &domain.AlreadyExistsError{Existing: *existing}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Bill{}, err
	}

	now := s.clock.Now()
	bill := domain.Bill{
		ID:           s.genID.Generate(),
		CustomerID:   customerID,
		Month:        req.Month,
		CustomerName: strings.TrimSpace(req.CustomerName),
		MilkType:     req.MilkType,
		RatePerLiter: req.RatePerLiter,
		TotalMilk:    req.TotalMilk,
		TotalAmount:  req.TotalAmount,
		MilkEntries:  datatypes.NewJSONSlice(normalizeEntries(req.MilkEntries)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		seq, err := s.seq.Next(ctx, tx, seqdomain.CounterBilling)
		if err != nil {
			return err
		}
		bill.BillID = seqdomain.FormatID(seqdomain.PrefixBill, seq)
		return s.repo.Insert(ctx, tx, &bill)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			existing, ferr := s.repo.FindByCustomerMonth(ctx, s.db, customerID, req.Month)
			if ferr != nil {
				return domain.Bill{}, err
			}
			return domain.Bill{}, &domain.AlreadyExistsError{Existing: *existing}
		}
		return domain.Bill{}, err
	}

	s.log.Info("bill created",
		zap.String("bill_id", bill.BillID),
		zap.String("customer_id", bill.CustomerID),
		zap.String("month", bill.Month),
	)
	return bill, nil
}

func (s *Service) GetByCustomerMonth(ctx context.Context, customerID, month string) (domain.Bill, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return domain.Bill{}, domain.ErrInvalidCustomer
	}
	if !domain.ValidMonth(month) {
		return domain.Bill{}, domain.ErrInvalidMonth
	}

	bill, err := s.repo.FindByCustomerMonth(ctx, s.db, customerID, month)
	if err != nil {
		return domain.Bill{}, err
	}
	return *bill, nil
}

func (s *Service) GetByBillID(ctx context.Context, billID string) (domain.Bill, error) {
	bill, err := s.repo.FindByBillID(ctx, s.db, strings.TrimSpace(billID))
	if err != nil {
		return domain.Bill{}, err
	}
	return *bill, nil
}

func (s *Service) UpdateFields(ctx context.Context, req domain.UpdateBillRequest) (domain.Bill, error) {
	billID := strings.TrimSpace(req.BillID)
	if billID == "" {
		return domain.Bill{}, domain.ErrNotFound
	}

	fields := map[string]any{}
	if req.CustomerName != nil {
		fields["customer_name"] = strings.TrimSpace(*req.CustomerName)
	}
	if req.MilkType != nil {
		fields["milk_type"] = *req.MilkType
	}
	if req.RatePerLiter != nil {
		if req.RatePerLiter.IsNegative() {
			return domain.Bill{}, domain.ErrInvalidAmount
		}
		fields["rate_per_liter"] = *req.RatePerLiter
	}
	if req.TotalMilk != nil {
		if req.TotalMilk.IsNegative() {
			return domain.Bill{}, domain.ErrInvalidAmount
		}
		fields["total_milk"] = *req.TotalMilk
	}
	if req.TotalAmount != nil {
		if req.TotalAmount.IsNegative() {
			return domain.Bill{}, domain.ErrInvalidAmount
		}
		fields["total_amount"] = *req.TotalAmount
	}
	if req.IsPaid != nil {
		fields["is_paid"] = *req.IsPaid
	}
	if req.PaymentDate != nil {
		fields["payment_date"] = *req.PaymentDate
	}
	if req.MilkEntries != nil {
		fields["milk_entries"] = datatypes.NewJSONSlice(normalizeEntries(*req.MilkEntries))
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.clock.Now()
		rows, err := s.repo.Update(ctx, s.db, billID, fields)
		if err != nil {
			return domain.Bill{}, err
		}
		if rows == 0 {
			return domain.Bill{}, domain.ErrNotFound
		}
	}

	updated, err := s.repo.FindByBillID(ctx, s.db, billID)
	if err != nil {
		return domain.Bill{}, err
	}
	return *updated, nil
}

func (s *Service) MarkPaid(ctx context.Context, billID string) (domain.Bill, error) {
	billID = strings.TrimSpace(billID)
	now := s.clock.Now()

	rows, err := s.repo.Update(ctx, s.db, billID, map[string]any{
		"is_paid":      true,
		"payment_date": now,
		"updated_at":   now,
	})
	if err != nil {
		return domain.Bill{}, err
	}
	if rows == 0 {
		return domain.Bill{}, domain.ErrNotFound
	}

	bill, err := s.repo.FindByBillID(ctx, s.db, billID)
	if err != nil {
		return domain.Bill{}, err
	}

	s.log.Info("bill marked paid", zap.String("bill_id", billID))
	return *bill, nil
}

// SetPaymentStatus flips is_paid without touching payment_date. The
// recorded date survives an accidental unpay-repay round trip.
func (s *Service) SetPaymentStatus(ctx context.Context, billID string, isPaid bool) (domain.Bill, error) {
	billID = strings.TrimSpace(billID)

	rows, err := s.repo.Update(ctx, s.db, billID, map[string]any{
		"is_paid":    isPaid,
		"updated_at": s.clock.Now(),
	})
	if err != nil {
		return domain.Bill{}, err
	}
	if rows == 0 {
		return domain.Bill{}, domain.ErrNotFound
	}

	bill, err := s.repo.FindByBillID(ctx, s.db, billID)
	if err != nil {
		return domain.Bill{}, err
	}
	return *bill, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Bill, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return collect(items), nil
}

func (s *Service) MonthlyReport(ctx context.Context, month string) ([]domain.Bill, error) {
	if !domain.ValidMonth(month) {
		return nil, domain.ErrInvalidMonth
	}

	items, err := s.repo.FindByMonth(ctx, s.db, month)
	if err != nil {
		return nil, err
	}
	return collect(items), nil
}

// AccountingReport filters by exact month when given, else by year
// prefix, else covers every bill. Counts are computed over the
// filtered set.
func (s *Service) AccountingReport(ctx context.Context, filter domain.AccountingFilter) (domain.AccountingReport, error) {
	var (
		items []*domain.Bill
		err   error
	)

	switch {
	case filter.Month != "":
		if !domain.ValidMonth(filter.Month) {
			return domain.AccountingReport{}, domain.ErrInvalidMonth
		}
		items, err = s.repo.FindByMonth(ctx, s.db, filter.Month)
	case filter.Year != "":
		if !yearPattern.MatchString(filter.Year) {
			return domain.AccountingReport{}, domain.ErrInvalidMonth
		}
		items, err = s.repo.FindByYearPrefix(ctx, s.db, filter.Year)
	default:
		items, err = s.repo.List(ctx, s.db)
	}
	if err != nil {
		return domain.AccountingReport{}, err
	}

	report := domain.AccountingReport{Bills: collect(items)}
	customers := make(map[string]bool, len(report.Bills))
	for _, bill := range report.Bills {
		customers[bill.CustomerID] = true
		report.TotalBills++
		if bill.IsPaid {
			report.PaidCount++
		} else {
			report.UnpaidCount++
		}
	}
	report.DistinctCustomerCount = len(customers)
	return report, nil
}

func normalizeEntries(entries []domain.BillEntry) []domain.BillEntry {
	normalized := make([]domain.BillEntry, 0, len(entries))
	for _, entry := range entries {
		entry.TotalMilk = entry.MorningMilk.Add(entry.EveningMilk)
		normalized = append(normalized, entry)
	}
	return normalized
}

func collect(items []*domain.Bill) []domain.Bill {
	bills := make([]domain.Bill, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		bills = append(bills, *item)
	}
	return bills
}
