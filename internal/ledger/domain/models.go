package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/doodhly/doodhly/internal/customer/domain"
	"github.com/shopspring/decimal"
)

// DailyEntry records the milk delivered to one customer on one day.
// The (customer_id, entry_date) pair is unique; re-submitting a day
// merges into the existing row instead of duplicating it. CustomerID
// is the display id and is kept as a plain value so entries survive
// customer deletion.
type DailyEntry struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	CustomerID  string          `gorm:"type:text;not null;uniqueIndex:idx_entry_customer_day,priority:1" json:"customer_id"`
	EntryDate   time.Time       `gorm:"not null;uniqueIndex:idx_entry_customer_day,priority:2;index" json:"entry_date"`
	MorningMilk decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0" json:"morning_milk"`
	EveningMilk decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0" json:"evening_milk"`

	// Price and kind at delivery time. Later customer profile changes
	// never rewrite history.
	MilkType      customerdomain.MilkType `gorm:"type:text" json:"milk_type"`
	PricePerLiter decimal.Decimal         `gorm:"type:numeric(10,2);not null;default:0" json:"price_per_liter"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (DailyEntry) TableName() string { return "daily_milk_entries" }

// Day truncates t to UTC midnight, the canonical form every stored
// entry date uses.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EntryKey identifies one customer-day, the grain the unique index
// protects.
func EntryKey(customerID string, date time.Time) string {
	return customerID + "|" + date.UTC().Format("2006-01-02")
}
