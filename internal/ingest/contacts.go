package ingest

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/orderdex/internal/domain/contact"
)

// contactRow matches one repaired contact_data object.
type contactRow struct {
	ContactName    string `json:"contact_name"`
	ContactSurname string `json:"contact_surname"`
	City           string `json:"city"`
	CP             any    `json:"cp"` // string or number in the wild
}

// bareKeyRegex finds object keys written without quotes.
var bareKeyRegex = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// RepairContactJSON turns the near-JSON contact_data payload into valid
// JSON: bare keys are quoted, single quotes become double quotes, and a
// bare object list is wrapped in brackets. The result may still fail to
// decode; callers fall back to placeholder contact values then.
func RepairContactJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "'", `"`)
	s = bareKeyRegex.ReplaceAllString(s, `$1"$2":`)

	if strings.HasPrefix(s, "{") {
		s = "[" + s + "]"
	}
	return s
}

// ParseContact extracts the first contact from a raw contact_data payload.
// Unusable payloads report ok=false; the zero Contact then renders the
// documented placeholders.
func ParseContact(raw string) (contact.Contact, bool) {
	repaired := RepairContactJSON(raw)
	if repaired == "" {
		return contact.Contact{}, false
	}

	var rows []contactRow
	if err := json.Unmarshal([]byte(repaired), &rows); err != nil || len(rows) == 0 {
		return contact.Contact{}, false
	}

	first := rows[0]
	return contact.Contact{
		Name:    strings.TrimSpace(first.ContactName),
		Surname: strings.TrimSpace(first.ContactSurname),
		City:    strings.TrimSpace(first.City),
		Postal:  postalString(first.CP),
	}, true
}

// postalString renders the cp field, which arrives as a string or a number.
func postalString(v any) string {
	switch p := v.(type) {
	case string:
		return strings.TrimSpace(p)
	case float64:
		if p == float64(int64(p)) {
			return strconv.FormatInt(int64(p), 10)
		}
		return strconv.FormatFloat(p, 'g', -1, 64)
	default:
		return ""
	}
}
