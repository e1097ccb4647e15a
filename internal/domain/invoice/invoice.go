// Package invoice holds the invoicing-feed value objects.
package invoice

// Invoice is one order's invoicing record. GrossCents carries the gross
// value in euro cents; VATPercent is the integer VAT rate applied to it.
type Invoice struct {
	ID         string
	OrderID    string
	CompanyID  string
	GrossCents int64
	VATPercent int64
}

// NetCents returns the gross value minus VAT, still in cents.
func (i Invoice) NetCents() float64 {
	return float64(i.GrossCents) * (1 - float64(i.VATPercent)/100)
}

// GrossEuros returns the gross value in euros.
func (i Invoice) GrossEuros() float64 {
	return float64(i.GrossCents) / 100
}
