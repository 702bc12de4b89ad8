package repository

import (
	"context"
	"errors"

	"github.com/doodhly/doodhly/internal/billing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Create(bill).Error
}

func (r *repo) FindByCustomerMonth(ctx context.Context, db *gorm.DB, customerID, month string) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).
		Where("customer_id = ? AND month = ?", customerID, month).
		First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

func (r *repo) FindByBillID(ctx context.Context, db *gorm.DB, billID string) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).
		Where("bill_id = ?", billID).
		First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, billID string, fields map[string]any) (int64, error) {
	tx := db.WithContext(ctx).
		Model(&domain.Bill{}).
		Where("bill_id = ?", billID).
		Updates(fields)
	return tx.RowsAffected, tx.Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.Bill, error) {
	var bills []*domain.Bill
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) FindByMonth(ctx context.Context, db *gorm.DB, month string) ([]*domain.Bill, error) {
	var bills []*domain.Bill
	err := db.WithContext(ctx).
		Where("month = ?", month).
		Order("customer_id ASC").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) FindByYearPrefix(ctx context.Context, db *gorm.DB, year string) ([]*domain.Bill, error) {
	var bills []*domain.Bill
	err := db.WithContext(ctx).
		Where("month LIKE ?", year+"%").
		Order("month ASC, customer_id ASC").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}
