package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kailas-cloud/orderdex/internal/domain/invoice"
)

// invoiceEnvelope matches the invoicing feed layout:
// {"data":{"invoices":[...]}} with numeric fields carried as strings.
type invoiceEnvelope struct {
	Data struct {
		Invoices []invoiceRow `json:"invoices"`
	} `json:"data"`
}

type invoiceRow struct {
	ID         string `json:"id"`
	OrderID    string `json:"orderId"`
	CompanyID  string `json:"companyId"`
	GrossValue string `json:"grossValue"`
	Vat        string `json:"vat"`
}

// InvoiceStats counts what the invoice parser accepted and dropped.
type InvoiceStats struct {
	Rows    int
	Skipped int
}

// LoadInvoices reads and parses the invoicing JSON at path.
func LoadInvoices(path string) ([]invoice.Invoice, InvoiceStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, InvoiceStats{}, fmt.Errorf("open invoices file: %w", err)
	}
	defer f.Close()
	return ParseInvoices(f)
}

// ParseInvoices parses the invoicing feed. Rows missing an order id or
// carrying an unparseable gross value are skipped and counted.
func ParseInvoices(r io.Reader) ([]invoice.Invoice, InvoiceStats, error) {
	var env invoiceEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, InvoiceStats{}, fmt.Errorf("parse invoices json: %w", err)
	}

	var (
		invoices []invoice.Invoice
		stats    InvoiceStats
	)
	for _, row := range env.Data.Invoices {
		stats.Rows++

		orderID := strings.TrimSpace(row.OrderID)
		if orderID == "" {
			stats.Skipped++
			continue
		}

		gross, err := strconv.ParseInt(strings.TrimSpace(row.GrossValue), 10, 64)
		if err != nil {
			stats.Skipped++
			continue
		}
		// A missing VAT field means no tax, not a bad row.
		vat := int64(0)
		if v := strings.TrimSpace(row.Vat); v != "" {
			vat, err = strconv.ParseInt(v, 10, 64)
			if err != nil {
				stats.Skipped++
				continue
			}
		}

		invoices = append(invoices, invoice.Invoice{
			ID:         strings.TrimSpace(row.ID),
			OrderID:    orderID,
			CompanyID:  strings.TrimSpace(row.CompanyID),
			GrossCents: gross,
			VATPercent: vat,
		})
	}
	return invoices, stats, nil
}
