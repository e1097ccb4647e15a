// Package report computes the output tables of one pipeline run. Every
// function here is a pure pass over loaded slices; company-keyed tables
// take the resolved canonical mapping so merged companies report as one.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/domain/contact"
	"github.com/kailas-cloud/orderdex/internal/domain/invoice"
	"github.com/kailas-cloud/orderdex/internal/domain/order"
	"github.com/kailas-cloud/orderdex/internal/domain/report"
)

// Commission rates by owner position on the order: main owner, co-owner,
// second co-owner. Any further owners earn nothing.
var commissionRates = []float64{0.06, 0.025, 0.0095}

// topPerformersPerMonth limits each month's ranking to its best owners.
const topPerformersPerMonth = 5

// rollingMonths is the window width of the top-performers rolling sum.
const rollingMonths = 3

// CrateDistribution counts orders per resolved company and crate type.
// Orders with an unknown crate type are dropped and counted in the second
// return value. Rows are ordered by company id, then crate type.
func CrateDistribution(
	orders []order.Order, canon map[string]company.Resolved,
) ([]report.CrateDistributionRow, int) {
	type key struct {
		companyID string
		crate     order.CrateType
	}

	counts := make(map[key]int)
	names := make(map[string]string)
	dropped := 0

	for _, o := range orders {
		if !o.CrateType.IsValid() {
			dropped++
			continue
		}
		id, name := o.CompanyID, o.CompanyName
		if res, ok := canon[o.CompanyID]; ok {
			id, name = res.CompanyID, res.Name
		}
		counts[key{companyID: id, crate: o.CrateType}]++
		names[id] = name
	}

	rows := make([]report.CrateDistributionRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, report.CrateDistributionRow{
			CompanyID:   k.companyID,
			CompanyName: names[k.companyID],
			CrateType:   k.crate,
			Orders:      n,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CompanyID != rows[j].CompanyID {
			return rows[i].CompanyID < rows[j].CompanyID
		}
		return rows[i].CrateType < rows[j].CrateType
	})
	return rows, dropped
}

// Commissions totals owner commissions over all invoiced orders: the net
// order value earns the main owner 6%, the first co-owner 2.5% and the
// second co-owner 0.95%. Totals are reported in euros, highest first, ties
// by owner name.
func Commissions(orders []order.Order, invoices []invoice.Invoice) []report.CommissionRow {
	byOrder := invoiceIndex(invoices)

	totals := make(map[string]float64) // owner -> commission in cents
	for _, o := range dedupOrders(orders) {
		inv, ok := byOrder[o.ID]
		if !ok {
			continue
		}
		net := inv.NetCents()
		for pos, owner := range o.SalesOwners {
			if pos >= len(commissionRates) {
				break
			}
			totals[owner] += net * commissionRates[pos]
		}
	}

	rows := make([]report.CommissionRow, 0, len(totals))
	for owner, cents := range totals {
		rows = append(rows, report.CommissionRow{Owner: owner, TotalEuros: round2(cents / 100)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalEuros != rows[j].TotalEuros {
			return rows[i].TotalEuros > rows[j].TotalEuros
		}
		return rows[i].Owner < rows[j].Owner
	})
	return rows
}

// SalesPerformance totals plastic-crate gross sales per owner over the
// trailing twelve calendar months, measured back from the newest order
// date. Each order's gross splits equally across its owners. Highest
// totals first, ties by owner name.
func SalesPerformance(orders []order.Order, invoices []invoice.Invoice) []report.PerformanceRow {
	byOrder := invoiceIndex(invoices)
	deduped := dedupOrders(orders)

	ref := referenceDate(deduped)
	if ref.IsZero() {
		return []report.PerformanceRow{}
	}
	windowStart := ref.AddDate(-1, 0, 0)

	totals := make(map[string]float64)
	for _, o := range deduped {
		if o.CrateType != order.CrateTypePlastic || o.Date.IsZero() || o.Date.Before(windowStart) {
			continue
		}
		inv, ok := byOrder[o.ID]
		if !ok || len(o.SalesOwners) == 0 {
			continue
		}
		share := round2(inv.GrossEuros() / float64(len(o.SalesOwners)))
		for _, owner := range o.SalesOwners {
			totals[owner] += share
		}
	}

	rows := make([]report.PerformanceRow, 0, len(totals))
	for owner, total := range totals {
		rows = append(rows, report.PerformanceRow{Owner: owner, GrossEuros: round2(total)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].GrossEuros != rows[j].GrossEuros {
			return rows[i].GrossEuros > rows[j].GrossEuros
		}
		return rows[i].Owner < rows[j].Owner
	})
	return rows
}

// TopPerformers ranks owners per calendar month by a three-month rolling
// gross sum (shorter at the series start) and keeps the top five of each
// month. Ties rank in first-occurrence order, which here is ascending
// owner name.
func TopPerformers(orders []order.Order, invoices []invoice.Invoice) []report.TopPerformerRow {
	byOrder := invoiceIndex(invoices)

	// owner -> month -> gross euros
	monthly := make(map[string]map[string]float64)
	monthSet := make(map[string]struct{})
	for _, o := range dedupOrders(orders) {
		inv, ok := byOrder[o.ID]
		if !ok || o.Date.IsZero() || len(o.SalesOwners) == 0 {
			continue
		}
		month := o.Month()
		monthSet[month] = struct{}{}
		share := round2(inv.GrossEuros() / float64(len(o.SalesOwners)))
		for _, owner := range o.SalesOwners {
			perMonth, ok := monthly[owner]
			if !ok {
				perMonth = make(map[string]float64)
				monthly[owner] = perMonth
			}
			perMonth[month] += share
		}
	}
	if len(monthSet) == 0 {
		return []report.TopPerformerRow{}
	}

	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)

	owners := make([]string, 0, len(monthly))
	for owner := range monthly {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	var rows []report.TopPerformerRow
	for i, month := range months {
		type entry struct {
			owner   string
			rolling float64
		}
		entries := make([]entry, 0, len(owners))
		lo := i - (rollingMonths - 1)
		if lo < 0 {
			lo = 0
		}
		for _, owner := range owners {
			rolling := 0.0
			for _, m := range months[lo : i+1] {
				rolling += monthly[owner][m]
			}
			if rolling > 0 {
				entries = append(entries, entry{owner: owner, rolling: round2(rolling)})
			}
		}

		// Stable sort keeps the ascending owner order on ties, giving
		// first-occurrence ranking.
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].rolling > entries[b].rolling
		})
		limit := len(entries)
		if limit > topPerformersPerMonth {
			limit = topPerformersPerMonth
		}
		for rank, e := range entries[:limit] {
			rows = append(rows, report.TopPerformerRow{
				Month:        month,
				Owner:        e.owner,
				RollingGross: e.rolling,
				Rank:         rank + 1,
			})
		}
	}
	return rows
}

// ContactParser turns a raw contact_data payload into a contact; the
// second return reports whether anything usable was decoded.
type ContactParser func(raw string) (contact.Contact, bool)

// Contacts extracts the buyer contact of every order. Unparseable payloads
// fall back to the documented placeholders. One row per distinct order id,
// in ascending order-id order.
func Contacts(orders []order.Order, parse ContactParser) []report.ContactRow {
	deduped := dedupOrders(orders)

	rows := make([]report.ContactRow, 0, len(deduped))
	for _, o := range deduped {
		c, _ := parse(o.ContactData)
		rows = append(rows, report.ContactRow{
			OrderID:  o.ID,
			FullName: c.FullName(),
			Address:  c.Address(),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].OrderID < rows[j].OrderID })
	return rows
}

// Build computes every report table in one call.
func Build(
	orders []order.Order,
	invoices []invoice.Invoice,
	canon map[string]company.Resolved,
	parse ContactParser,
) report.Tables {
	crates, _ := CrateDistribution(orders, canon)
	return report.Tables{
		CrateDistribution: crates,
		Commissions:       Commissions(orders, invoices),
		SalesPerformance:  SalesPerformance(orders, invoices),
		TopPerformers:     TopPerformers(orders, invoices),
		Contacts:          Contacts(orders, parse),
	}
}

// dedupOrders keeps the first row per order id, preserving input order.
func dedupOrders(orders []order.Order) []order.Order {
	seen := make(map[string]struct{}, len(orders))
	out := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if _, dup := seen[o.ID]; dup {
			continue
		}
		seen[o.ID] = struct{}{}
		out = append(out, o)
	}
	return out
}

// invoiceIndex maps order id to its invoice, first one wins.
func invoiceIndex(invoices []invoice.Invoice) map[string]invoice.Invoice {
	byOrder := make(map[string]invoice.Invoice, len(invoices))
	for _, inv := range invoices {
		if _, dup := byOrder[inv.OrderID]; !dup {
			byOrder[inv.OrderID] = inv
		}
	}
	return byOrder
}

// referenceDate is the newest order date in the batch.
func referenceDate(orders []order.Order) time.Time {
	var ref time.Time
	for _, o := range orders {
		if o.Date.After(ref) {
			ref = o.Date
		}
	}
	return ref
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
