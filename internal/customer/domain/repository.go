package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByCustomerID(ctx context.Context, db *gorm.DB, customerID string) (*Customer, error)
	Update(ctx context.Context, db *gorm.DB, customerID string, fields map[string]any) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, customerID string) (int64, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*Customer, error)
	UpdateSequence(ctx context.Context, db *gorm.DB, customerID string, sequence int) (int64, error)
}
