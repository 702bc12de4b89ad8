package domain

import (
	"context"
	"errors"
	"time"

	customerdomain "github.com/doodhly/doodhly/internal/customer/domain"
	"github.com/shopspring/decimal"
)

type CreateBillRequest struct {
	CustomerID   string
	Month        string
	CustomerName string
	MilkType     customerdomain.MilkType
	RatePerLiter decimal.Decimal
	TotalMilk    decimal.Decimal
	TotalAmount  decimal.Decimal
	MilkEntries  []BillEntry
}

// UpdateBillRequest is a field-level partial edit of a stored bill.
// The display BillID and the (customer, month) identity never change.
type UpdateBillRequest struct {
	BillID       string
	CustomerName *string
	MilkType     *customerdomain.MilkType
	RatePerLiter *decimal.Decimal
	TotalMilk    *decimal.Decimal
	TotalAmount  *decimal.Decimal
	IsPaid       *bool
	PaymentDate  *time.Time
	MilkEntries  *[]BillEntry
}

type AccountingFilter struct {
	Month string
	Year  string
}

type AccountingReport struct {
	DistinctCustomerCount int    `json:"distinct_customer_count"`
	TotalBills            int    `json:"total_bills"`
	PaidCount             int    `json:"paid_count"`
	UnpaidCount           int    `json:"unpaid_count"`
	Bills                 []Bill `json:"bills"`
}

type Service interface {
	Create(ctx context.Context, req CreateBillRequest) (Bill, error)
	GetByCustomerMonth(ctx context.Context, customerID, month string) (Bill, error)
	GetByBillID(ctx context.Context, billID string) (Bill, error)
	UpdateFields(ctx context.Context, req UpdateBillRequest) (Bill, error)
	MarkPaid(ctx context.Context, billID string) (Bill, error)
	SetPaymentStatus(ctx context.Context, billID string, isPaid bool) (Bill, error)
	List(ctx context.Context) ([]Bill, error)
	MonthlyReport(ctx context.Context, month string) ([]Bill, error)
	AccountingReport(ctx context.Context, filter AccountingFilter) (AccountingReport, error)
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer_id")
	ErrInvalidMonth    = errors.New("invalid_month")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrBillExists      = errors.New("bill_exists")
	ErrNotFound        = errors.New("not_found")
)

// AlreadyExistsError reports a duplicate (customer, month) create and
// carries the bill that is already stored so callers can show it.
type AlreadyExistsError struct {
	Existing Bill
}

func (e *AlreadyExistsError) Error() string { return "bill already exists for customer and month" }

func (e *AlreadyExistsError) Is(target error) bool { return target == ErrBillExists }
