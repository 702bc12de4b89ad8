package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// MilkType enumerates the kinds of milk a customer receives.
type MilkType string

const (
	MilkTypeCow     MilkType = "cow"
	MilkTypeBuffalo MilkType = "buffalo"
	MilkTypeOther   MilkType = "other"
)

func (m MilkType) Valid() bool {
	switch m {
	case MilkTypeCow, MilkTypeBuffalo, MilkTypeOther:
		return true
	default:
		return false
	}
}

// MilkTime is the delivery slot a customer takes milk in.
type MilkTime string

const (
	MilkTimeMorning MilkTime = "morning"
	MilkTimeEvening MilkTime = "evening"
	MilkTimeBoth    MilkTime = "both"
)

func (m MilkTime) Valid() bool {
	switch m {
	case MilkTimeMorning, MilkTimeEvening, MilkTimeBoth:
		return true
	default:
		return false
	}
}

// Customer is a delivery-route customer. CustomerID is the display
// identifier (CUST-NNNN), minted once at creation and never changed.
// Ledger entries and bills reference it by value, so deleting a
// customer leaves history intact.
type Customer struct {
	ID                 snowflake.ID    `gorm:"primaryKey" json:"id"`
	CustomerID         string          `gorm:"type:text;not null;uniqueIndex" json:"customer_id"`
	Name               string          `gorm:"type:text;not null" json:"name"`
	Address            string          `gorm:"type:text;not null" json:"address"`
	Phone              string          `gorm:"type:text;not null;uniqueIndex" json:"phone"`
	DeliverySequence   int             `gorm:"not null" json:"delivery_sequence"`
	MilkType           MilkType        `gorm:"type:text;not null" json:"milk_type"`
	MilkTimePreference MilkTime        `gorm:"type:text;not null;default:'both'" json:"milk_time_preference"`
	PricePerLiter      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_per_liter"`
	MorningMilk        decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0" json:"morning_milk"`
	EveningMilk        decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0" json:"evening_milk"`
	IsActive           bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
