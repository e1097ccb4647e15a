// Package export writes the output of one pipeline run to disk. Each run
// gets its own directory <out>/<run-id>/ holding the resolved companies and
// every report table in the requested formats: semicolon-separated CSV,
// JSON, Parquet and a single XLSX workbook with one sheet per table.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/orderdex/internal/domain/run"
)

// Format names one output file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
	FormatXLSX    Format = "xlsx"
)

// ParseFormat validates a format name from config.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON, FormatParquet, FormatXLSX:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// Exporter writes run snapshots into per-run directories.
type Exporter struct {
	outDir  string
	formats []Format
	logger  *zap.Logger
}

// New creates an exporter writing under outDir in the given formats.
func New(outDir string, formats []Format, opts ...Option) *Exporter {
	e := &Exporter{
		outDir:  outDir,
		formats: formats,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// table is one logical output table rendered into every format.
type table struct {
	name    string
	header  []string
	records [][]string
	value   any
	write   parquetWriteFunc
}

// Export writes the snapshot and returns the run's output directory.
func (e *Exporter) Export(snap run.Snapshot) (string, error) {
	if snap.Run.ID == "" {
		return "", fmt.Errorf("snapshot has no run id")
	}
	dir := filepath.Join(e.outDir, snap.Run.ID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tables := buildTables(snap)

	for _, format := range e.formats {
		var err error
		switch format {
		case FormatCSV:
			err = writeCSVs(dir, tables)
		case FormatJSON:
			err = writeJSONs(dir, tables)
		case FormatParquet:
			err = writeParquets(dir, tables)
		case FormatXLSX:
			err = writeWorkbook(filepath.Join(dir, "run.xlsx"), tables)
		default:
			err = fmt.Errorf("unknown export format %q", format)
		}
		if err != nil {
			return "", fmt.Errorf("export %s: %w", format, err)
		}
		e.logger.Info("exported run",
			zap.String("run_id", snap.Run.ID),
			zap.String("format", string(format)),
			zap.Int("tables", len(tables)),
		)
	}
	return dir, nil
}

func buildTables(snap run.Snapshot) []table {
	companies := table{
		name:   "companies",
		header: []string{"company_id", "company_name", "list_salesowners"},
		value:  snap.Companies,
		write:  companiesParquet(snap.Companies),
	}
	for _, c := range snap.Companies {
		companies.records = append(companies.records, []string{c.CompanyID, c.Name, c.OwnersJoined()})
	}

	crates := table{
		name:   "crate_distribution",
		header: []string{"company_id", "company_name", "crate_type", "orders"},
		value:  snap.Reports.CrateDistribution,
		write:  cratesParquet(snap.Reports.CrateDistribution),
	}
	for _, r := range snap.Reports.CrateDistribution {
		crates.records = append(crates.records, []string{
			r.CompanyID, r.CompanyName, string(r.CrateType), strconv.Itoa(r.Orders),
		})
	}

	commissions := table{
		name:   "commissions",
		header: []string{"salesowner", "total_commission"},
		value:  snap.Reports.Commissions,
		write:  commissionsParquet(snap.Reports.Commissions),
	}
	for _, r := range snap.Reports.Commissions {
		commissions.records = append(commissions.records, []string{r.Owner, euros(r.TotalEuros)})
	}

	performance := table{
		name:   "sales_performance",
		header: []string{"salesowner", "total_sales"},
		value:  snap.Reports.SalesPerformance,
		write:  performanceParquet(snap.Reports.SalesPerformance),
	}
	for _, r := range snap.Reports.SalesPerformance {
		performance.records = append(performance.records, []string{r.Owner, euros(r.GrossEuros)})
	}

	top := table{
		name:   "top_performers",
		header: []string{"month", "salesowner", "rolling_gross", "rank"},
		value:  snap.Reports.TopPerformers,
		write:  topPerformersParquet(snap.Reports.TopPerformers),
	}
	for _, r := range snap.Reports.TopPerformers {
		top.records = append(top.records, []string{
			r.Month, r.Owner, euros(r.RollingGross), strconv.Itoa(r.Rank),
		})
	}

	contacts := table{
		name:   "contacts",
		header: []string{"order_id", "contact_full_name", "contact_address"},
		value:  snap.Reports.Contacts,
		write:  contactsParquet(snap.Reports.Contacts),
	}
	for _, r := range snap.Reports.Contacts {
		contacts.records = append(contacts.records, []string{r.OrderID, r.FullName, r.Address})
	}

	return []table{companies, crates, commissions, performance, top, contacts}
}

func euros(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeCSVs(dir string, tables []table) error {
	for _, t := range tables {
		path := filepath.Join(dir, t.name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}

		w := csv.NewWriter(f)
		w.Comma = ';'
		err = w.Write(t.header)
		for _, rec := range t.records {
			if err != nil {
				break
			}
			err = w.Write(rec)
		}
		if err == nil {
			w.Flush()
			err = w.Error()
		}
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func writeJSONs(dir string, tables []table) error {
	for _, t := range tables {
		path := filepath.Join(dir, t.name+".json")
		data, err := json.MarshalIndent(t.value, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", t.name, err)
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func writeParquets(dir string, tables []table) error {
	for _, t := range tables {
		path := filepath.Join(dir, t.name+".parquet")
		if err := t.write(path); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
