package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/domain/report"
)

// Flat row types for the parquet files. Owner lists are joined into one
// column so every table stays a plain flat schema.
type companyRow struct {
	CompanyID   string `parquet:"company_id"`
	CompanyName string `parquet:"company_name"`
	SalesOwners string `parquet:"list_salesowners"`
}

type crateRow struct {
	CompanyID   string `parquet:"company_id"`
	CompanyName string `parquet:"company_name"`
	CrateType   string `parquet:"crate_type"`
	Orders      int64  `parquet:"orders"`
}

type commissionRow struct {
	Owner      string  `parquet:"salesowner"`
	Commission float64 `parquet:"total_commission"`
}

type performanceRow struct {
	Owner string  `parquet:"salesowner"`
	Gross float64 `parquet:"total_sales"`
}

type topPerformerRow struct {
	Month        string  `parquet:"month"`
	Owner        string  `parquet:"salesowner"`
	RollingGross float64 `parquet:"rolling_gross"`
	Rank         int64   `parquet:"rank"`
}

type contactRow struct {
	OrderID  string `parquet:"order_id"`
	FullName string `parquet:"contact_full_name"`
	Address  string `parquet:"contact_address"`
}

type parquetWriteFunc func(path string) error

func writeParquetFile[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	w := parquet.NewGenericWriter[T](f)
	_, err = w.Write(rows)
	if closeErr := w.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

func companiesParquet(companies []company.Resolved) parquetWriteFunc {
	rows := make([]companyRow, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, companyRow{
			CompanyID:   c.CompanyID,
			CompanyName: c.Name,
			SalesOwners: c.OwnersJoined(),
		})
	}
	return func(path string) error { return writeParquetFile(path, rows) }
}

func cratesParquet(in []report.CrateDistributionRow) parquetWriteFunc {
	rows := make([]crateRow, 0, len(in))
	for _, r := range in {
		rows = append(rows, crateRow{
			CompanyID:   r.CompanyID,
			CompanyName: r.CompanyName,
			CrateType:   string(r.CrateType),
			Orders:      int64(r.Orders),
		})
	}
	return func(path string) error { return writeParquetFile(path, rows) }
}

func commissionsParquet(in []report.CommissionRow) parquetWriteFunc {
	rows := make([]commissionRow, 0, len(in))
	for _, r := range in {
		rows = append(rows, commissionRow{Owner: r.Owner, Commission: r.TotalEuros})
	}
	return func(path string) error { return writeParquetFile(path, rows) }
}

func performanceParquet(in []report.PerformanceRow) parquetWriteFunc {
	rows := make([]performanceRow, 0, len(in))
	for _, r := range in {
		rows = append(rows, performanceRow{Owner: r.Owner, Gross: r.GrossEuros})
	}
	return func(path string) error { return writeParquetFile(path, rows) }
}

func topPerformersParquet(in []report.TopPerformerRow) parquetWriteFunc {
	rows := make([]topPerformerRow, 0, len(in))
	for _, r := range in {
		rows = append(rows, topPerformerRow{
			Month:        r.Month,
			Owner:        r.Owner,
			RollingGross: r.RollingGross,
			Rank:         int64(r.Rank),
		})
	}
	return func(path string) error { return writeParquetFile(path, rows) }
}

func contactsParquet(in []report.ContactRow) parquetWriteFunc {
	rows := make([]contactRow, 0, len(in))
	for _, r := range in {
		rows = append(rows, contactRow{OrderID: r.OrderID, FullName: r.FullName, Address: r.Address})
	}
	return func(path string) error { return writeParquetFile(path, rows) }
}
