package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) error
	FindByCustomerMonth(ctx context.Context, db *gorm.DB, customerID, month string) (*Bill, error)
	FindByBillID(ctx context.Context, db *gorm.DB, billID string) (*Bill, error)
	Update(ctx context.Context, db *gorm.DB, billID string, fields map[string]any) (int64, error)
	List(ctx context.Context, db *gorm.DB) ([]*Bill, error)
	FindByMonth(ctx context.Context, db *gorm.DB, month string) ([]*Bill, error)
	FindByYearPrefix(ctx context.Context, db *gorm.DB, year string) ([]*Bill, error)
}
