// Package ingest parses the raw input feeds into domain values: the
// semicolon-delimited orders CSV, the invoicing JSON and the near-JSON
// per-order contact payloads. Malformed rows are counted and skipped here
// so the resolution core only ever sees well-formed observations.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/domain/order"
)

// ordersHeader is the expected column layout of the orders feed.
var ordersHeader = []string{
	"order_id", "date", "company_id", "company_name",
	"crate_type", "contact_data", "salesowners",
}

// OrderStats counts what the orders parser accepted and dropped.
type OrderStats struct {
	Rows        int
	Skipped     int
	BadDates    int
	DupOrderIDs int
}

// LoadOrders reads and parses the orders CSV at path.
func LoadOrders(path string) ([]order.Order, OrderStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, OrderStats{}, fmt.Errorf("open orders file: %w", err)
	}
	defer f.Close()
	return ParseOrders(f)
}

// ParseOrders parses the semicolon-delimited orders feed. Rows missing
// order_id or company_id are skipped and counted; a row with an
// unparseable date keeps a zero Date so date-windowed reports can ignore
// it without losing the row for resolution. Duplicate order ids are
// counted but kept, matching the upstream feed's behavior.
func ParseOrders(r io.Reader) ([]order.Order, OrderStats, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = len(ordersHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, OrderStats{}, fmt.Errorf("read orders header: %w", err)
	}
	for i, col := range ordersHeader {
		if i >= len(header) || strings.TrimSpace(header[i]) != col {
			return nil, OrderStats{}, fmt.Errorf("unexpected orders header %v, want %v", header, ordersHeader)
		}
	}

	var (
		orders []order.Order
		stats  OrderStats
		seen   = make(map[string]struct{})
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read orders row: %w", err)
		}
		stats.Rows++

		o := order.Order{
			ID:          strings.TrimSpace(rec[0]),
			CompanyID:   strings.TrimSpace(rec[2]),
			CompanyName: strings.TrimSpace(rec[3]),
			CrateType:   order.CrateType(strings.TrimSpace(rec[4])),
			ContactData: rec[5],
			SalesOwners: SplitOwners(rec[6]),
		}
		if o.ID == "" || o.CompanyID == "" {
			stats.Skipped++
			continue
		}

		if date, err := time.Parse(order.DateLayout, strings.TrimSpace(rec[1])); err == nil {
			o.Date = date
		} else {
			stats.BadDates++
		}

		if _, dup := seen[o.ID]; dup {
			stats.DupOrderIDs++
		}
		seen[o.ID] = struct{}{}

		orders = append(orders, o)
	}
	return orders, stats, nil
}

// SplitOwners splits the comma-separated salesowners column, trimming
// whitespace and dropping empties; the listed order is preserved.
func SplitOwners(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	owners := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			owners = append(owners, p)
		}
	}
	return owners
}

// Observations extracts one identity-resolution observation per order row.
func Observations(orders []order.Order) []company.Observation {
	out := make([]company.Observation, 0, len(orders))
	for _, o := range orders {
		out = append(out, company.Observation{
			OrderID:     o.ID,
			CompanyID:   o.CompanyID,
			RawName:     o.CompanyName,
			SalesOwners: o.SalesOwners,
		})
	}
	return out
}
