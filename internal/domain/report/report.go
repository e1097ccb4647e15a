// Package report holds the row types of every table the pipeline reports.
package report

import "github.com/kailas-cloud/orderdex/internal/domain/order"

// Kind names one of the produced report tables.
type Kind string

const (
	// KindCrateDistribution counts orders per company and crate type.
	KindCrateDistribution Kind = "crate-distribution"
	// KindCommissions totals owner commissions over all invoiced orders.
	KindCommissions Kind = "commissions"
	// KindSalesPerformance totals recent plastic-crate sales per owner.
	KindSalesPerformance Kind = "sales-performance"
	// KindTopPerformers ranks owners by rolling three-month gross.
	KindTopPerformers Kind = "top-performers"
	// KindContacts lists the buyer contact per order.
	KindContacts Kind = "contacts"
)

// IsValid checks if the kind is one of the produced tables.
func (k Kind) IsValid() bool {
	switch k {
	case KindCrateDistribution, KindCommissions, KindSalesPerformance, KindTopPerformers, KindContacts:
		return true
	}
	return false
}

// Kinds returns every produced report kind in a fixed order.
func Kinds() []Kind {
	return []Kind{
		KindCrateDistribution,
		KindCommissions,
		KindSalesPerformance,
		KindTopPerformers,
		KindContacts,
	}
}

// CrateDistributionRow is one (company, crate type) order count. CompanyID
// and CompanyName are the resolved canonical values.
type CrateDistributionRow struct {
	CompanyID   string          `json:"company_id"`
	CompanyName string          `json:"company_name"`
	CrateType   order.CrateType `json:"crate_type"`
	Orders      int             `json:"orders"`
}

// CommissionRow is one owner's commission total in euros.
type CommissionRow struct {
	Owner      string  `json:"salesowner"`
	TotalEuros float64 `json:"total_commission"`
}

// PerformanceRow is one owner's attributed gross sales in euros.
type PerformanceRow struct {
	Owner      string  `json:"salesowner"`
	GrossEuros float64 `json:"total_sales"`
}

// TopPerformerRow is one owner's rank within a calendar month by rolling
// three-month gross.
type TopPerformerRow struct {
	Month        string  `json:"month"`
	Owner        string  `json:"salesowner"`
	RollingGross float64 `json:"rolling_gross"`
	Rank         int     `json:"rank"`
}

// ContactRow is the extracted buyer contact of one order.
type ContactRow struct {
	OrderID  string `json:"order_id"`
	FullName string `json:"contact_full_name"`
	Address  string `json:"contact_address"`
}

// Tables bundles every report produced by one pipeline run.
type Tables struct {
	CrateDistribution []CrateDistributionRow `json:"crate_distribution"`
	Commissions       []CommissionRow        `json:"commissions"`
	SalesPerformance  []PerformanceRow       `json:"sales_performance"`
	TopPerformers     []TopPerformerRow      `json:"top_performers"`
	Contacts          []ContactRow           `json:"contacts"`
}
