package domain

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Allocator issues strictly increasing values per named counter. Two
// concurrent calls for the same name never observe the same value.
type Allocator interface {
	// Next increments and returns the counter in a single atomic
	// statement. It runs on the given handle so callers can mint an
	// identifier inside the same transaction as the owning insert.
	Next(ctx context.Context, db *gorm.DB, name string) (int64, error)
}

// FormatID renders a display identifier such as CUST-0001. Values of
// 10000 and above simply widen.
func FormatID(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}
