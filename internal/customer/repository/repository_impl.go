package repository

import (
	"context"
	"errors"

	"github.com/doodhly/doodhly/internal/customer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Create(customer).Error
}

func (r *repo) FindByCustomerID(ctx context.Context, db *gorm.DB, customerID string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customerID string, fields map[string]any) (int64, error) {
	tx := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("customer_id = ?", customerID).
		Updates(fields)
	return tx.RowsAffected, tx.Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, customerID string) (int64, error) {
	tx := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&domain.Customer{})
	return tx.RowsAffected, tx.Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	tx := db.WithContext(ctx).Model(&domain.Customer{})
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	err := tx.Order("delivery_sequence ASC").Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) UpdateSequence(ctx context.Context, db *gorm.DB, customerID string, sequence int) (int64, error) {
	tx := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("customer_id = ? AND delivery_sequence <> ?", customerID, sequence).
		Update("delivery_sequence", sequence)
	return tx.RowsAffected, tx.Error
}
