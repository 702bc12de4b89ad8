package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type CreateCustomerRequest struct {
	Name               string
	Address            string
	Phone              string
	DeliverySequence   int
	MilkType           MilkType
	MilkTimePreference MilkTime
	PricePerLiter      decimal.Decimal
	MorningMilk        *decimal.Decimal
	EveningMilk        *decimal.Decimal
}

// UpdateCustomerRequest is a field-level partial update. A nil field
// means "leave as stored"; the display CustomerID is addressed, never
// changed.
type UpdateCustomerRequest struct {
	CustomerID         string
	Name               *string
	Address            *string
	Phone              *string
	DeliverySequence   *int
	MilkType           *MilkType
	MilkTimePreference *MilkTime
	PricePerLiter      *decimal.Decimal
	MorningMilk        *decimal.Decimal
	EveningMilk        *decimal.Decimal
	IsActive           *bool
}

type ListCustomerRequest struct {
	ActiveOnly bool
}

// SequenceUpdate re-positions one customer on the delivery route.
type SequenceUpdate struct {
	CustomerID       string
	DeliverySequence *int
}

type ReorderResult struct {
	Updated int64 `json:"updated"`
	Skipped int   `json:"skipped"`
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	Update(ctx context.Context, req UpdateCustomerRequest) (Customer, error)
	Delete(ctx context.Context, customerID string) error
	GetByCustomerID(ctx context.Context, customerID string) (Customer, error)
	List(ctx context.Context, req ListCustomerRequest) ([]Customer, error)
	Reorder(ctx context.Context, updates []SequenceUpdate) (ReorderResult, error)
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidAddress  = errors.New("invalid_address")
	ErrInvalidPhone    = errors.New("invalid_phone")
	ErrInvalidSequence = errors.New("invalid_delivery_sequence")
	ErrInvalidMilkType = errors.New("invalid_milk_type")
	ErrInvalidMilkTime = errors.New("invalid_milk_time_preference")
	ErrInvalidPrice    = errors.New("invalid_price_per_liter")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrPhoneExists     = errors.New("phone_exists")
	ErrNotFound        = errors.New("not_found")
)
