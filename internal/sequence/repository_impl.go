package sequence

import (
	"context"
	"errors"

	"github.com/doodhly/doodhly/internal/sequence/domain"
	"gorm.io/gorm"
)

type allocator struct{}

func Provide() domain.Allocator {
	return &allocator{}
}

// Next upserts and increments the counter row in one statement. The
// first allocated value for a fresh counter is 1. A read-modify-write
// split here would let two concurrent creators mint the same id, so
// the increment must stay a single statement.
func (a *allocator) Next(ctx context.Context, db *gorm.DB, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("counter name is required")
	}

	var next int64
	err := db.WithContext(ctx).Raw(
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		 RETURNING value`,
		name,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}
