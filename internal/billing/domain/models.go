package domain

import (
	"regexp"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/doodhly/doodhly/internal/customer/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidMonth reports whether value is a YYYY-MM billing month.
func ValidMonth(value string) bool {
	return monthPattern.MatchString(value)
}

// BillEntry is one day of the month as captured on the bill. Day is
// 1-based within the bill's month.
type BillEntry struct {
	Day         int             `json:"day"`
	MorningMilk decimal.Decimal `json:"morning_milk"`
	EveningMilk decimal.Decimal `json:"evening_milk"`
	TotalMilk   decimal.Decimal `json:"total_milk"`
}

// Bill is one customer's charge for one calendar month. BillID is the
// display identifier (BILL-NNNN), minted once. MilkEntries is a
// point-in-time snapshot taken at creation and rewritten only by an
// explicit resync, never a live view of the ledger.
type Bill struct {
	ID           snowflake.ID                     `gorm:"primaryKey" json:"id"`
	BillID       string                           `gorm:"type:text;not null;uniqueIndex" json:"bill_id"`
	CustomerID   string                           `gorm:"type:text;not null;uniqueIndex:idx_bill_customer_month,priority:1" json:"customer_id"`
	Month        string                           `gorm:"type:text;not null;uniqueIndex:idx_bill_customer_month,priority:2" json:"month"`
	CustomerName string                           `gorm:"type:text;not null" json:"customer_name"`
	MilkType     customerdomain.MilkType          `gorm:"type:text" json:"milk_type"`
	RatePerLiter decimal.Decimal                  `gorm:"type:numeric(10,2);not null;default:0" json:"rate_per_liter"`
	TotalMilk    decimal.Decimal                  `gorm:"type:numeric(12,3);not null;default:0" json:"total_milk"`
	TotalAmount  decimal.Decimal                  `gorm:"type:numeric(12,2);not null;default:0" json:"total_amount"`
	IsPaid       bool                             `gorm:"not null;default:false" json:"is_paid"`
	PaymentDate  *time.Time                       `json:"payment_date"`
	MilkEntries  datatypes.JSONSlice[BillEntry]   `json:"milk_entries"`
	CreatedAt    time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Bill) TableName() string { return "bills" }
