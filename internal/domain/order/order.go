// Package order holds the orders-feed value objects.
package order

import "time"

// DateLayout is the wire format of the order date column (DD.MM.YY).
const DateLayout = "02.01.06"

// CrateType classifies the crates an order ships in.
type CrateType string

const (
	// CrateTypePlastic is the plastic crate type.
	CrateTypePlastic CrateType = "Plastic"
	// CrateTypeWood is the wood crate type.
	CrateTypeWood CrateType = "Wood"
	// CrateTypeMetal is the metal crate type.
	CrateTypeMetal CrateType = "Metal"
)

// IsValid checks if the crate type is one of the known kinds.
func (c CrateType) IsValid() bool {
	return c == CrateTypePlastic || c == CrateTypeWood || c == CrateTypeMetal
}

// Order is one validated row of the orders feed. SalesOwners preserves the
// order listed on the row: the first entry is the main owner, the rest are
// co-owners in descending commission priority.
type Order struct {
	ID          string
	Date        time.Time
	CompanyID   string
	CompanyName string
	CrateType   CrateType
	ContactData string
	SalesOwners []string
}

// Month returns the order's calendar month as YYYY-MM.
func (o Order) Month() string {
	return o.Date.Format("2006-01")
}
