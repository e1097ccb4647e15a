// Package contact holds the per-order buyer contact value object.
package contact

// Placeholders used when the source contact payload is missing a field.
const (
	FallbackFullName = "John Doe"
	FallbackCity     = "Unknown"
	FallbackPostal   = "UNK00"
)

// Contact is the buyer contact attached to an order.
type Contact struct {
	Name    string
	Surname string
	City    string
	Postal  string
}

// FullName renders "name surname", or the placeholder when either part
// is missing.
func (c Contact) FullName() string {
	if c.Name == "" || c.Surname == "" {
		return FallbackFullName
	}
	return c.Name + " " + c.Surname
}

// Address renders "city, postal" with per-field placeholders.
func (c Contact) Address() string {
	city := c.City
	if city == "" {
		city = FallbackCity
	}
	postal := c.Postal
	if postal == "" {
		postal = FallbackPostal
	}
	return city + ", " + postal
}
