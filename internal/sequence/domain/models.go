package domain

// Counter is a named, monotonically increasing sequence backing
// human-readable display identifiers.
type Counter struct {
	Name  string `gorm:"type:text;primaryKey;column:name"`
	Value int64  `gorm:"not null;default:0"`
}

func (Counter) TableName() string { return "counters" }

// Well-known counter names.
const (
	CounterCustomer = "customerId"
	CounterBilling  = "billingId"
)

// Display identifier prefixes minted from the counters above.
const (
	PrefixCustomer = "CUST"
	PrefixBill     = "BILL"
)
