package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"

	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/domain/report"
	"github.com/kailas-cloud/orderdex/internal/domain/run"
)

func testSnapshot() run.Snapshot {
	return run.Snapshot{
		Run: run.Run{
			ID:         "run-1",
			StartedAt:  time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2023, 4, 1, 10, 0, 5, 0, time.UTC),
			Threshold:  0.7,
		},
		Companies: []company.Resolved{
			{CompanyID: "1e2b47e6", Name: "fresh fruits co", SalesOwners: []string{"Ammy Winehouse", "Leon Leanne"}},
			{CompanyID: "34538e39", Name: "veggies inc", SalesOwners: []string{"Luke Skywalker"}},
		},
		Reports: report.Tables{
			CrateDistribution: []report.CrateDistributionRow{
				{CompanyID: "1e2b47e6", CompanyName: "fresh fruits co", CrateType: "Plastic", Orders: 3},
			},
			Commissions: []report.CommissionRow{
				{Owner: "Ammy Winehouse", TotalEuros: 12.5},
			},
			SalesPerformance: []report.PerformanceRow{
				{Owner: "Leon Leanne", GrossEuros: 104.55},
			},
			TopPerformers: []report.TopPerformerRow{
				{Month: "2023-01", Owner: "Luke Skywalker", RollingGross: 250, Rank: 1},
			},
			Contacts: []report.ContactRow{
				{OrderID: "f47ac10b", FullName: "Curtis Jackson", Address: "Main St 1, 94111"},
			},
		},
	}
}

func TestExportCSV(t *testing.T) {
	out := t.TempDir()
	e := New(out, []Format{FormatCSV})

	dir, err := e.Export(testSnapshot())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if dir != filepath.Join(out, "run-1") {
		t.Fatalf("Export() dir = %s", dir)
	}

	f, err := os.Open(filepath.Join(dir, "companies.csv"))
	if err != nil {
		t.Fatalf("open companies.csv: %v", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("read companies.csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("companies.csv rows = %d, want 3", len(rows))
	}
	if rows[0][2] != "list_salesowners" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "Ammy Winehouse, Leon Leanne" {
		t.Errorf("owners cell = %q", rows[1][2])
	}

	// money columns render with two decimals
	f2, err := os.Open(filepath.Join(dir, "commissions.csv"))
	if err != nil {
		t.Fatalf("open commissions.csv: %v", err)
	}
	defer func() { _ = f2.Close() }()
	r2 := csv.NewReader(f2)
	r2.Comma = ';'
	rows2, err := r2.ReadAll()
	if err != nil {
		t.Fatalf("read commissions.csv: %v", err)
	}
	if rows2[1][1] != "12.50" {
		t.Errorf("commission cell = %q, want 12.50", rows2[1][1])
	}
}

func TestExportJSON(t *testing.T) {
	out := t.TempDir()
	e := New(out, []Format{FormatJSON})

	dir, err := e.Export(testSnapshot())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "top_performers.json"))
	if err != nil {
		t.Fatalf("read top_performers.json: %v", err)
	}
	var rows []report.TopPerformerRow
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 1 || rows[0].Owner != "Luke Skywalker" || rows[0].Rank != 1 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestExportParquet(t *testing.T) {
	out := t.TempDir()
	e := New(out, []Format{FormatParquet})

	dir, err := e.Export(testSnapshot())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	rows, err := parquet.ReadFile[companyRow](filepath.Join(dir, "companies.parquet"))
	if err != nil {
		t.Fatalf("read companies.parquet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("parquet rows = %d, want 2", len(rows))
	}
	if rows[0].CompanyID != "1e2b47e6" || rows[0].SalesOwners != "Ammy Winehouse, Leon Leanne" {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestExportXLSX(t *testing.T) {
	out := t.TempDir()
	e := New(out, []Format{FormatXLSX})

	dir, err := e.Export(testSnapshot())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	wb, err := excelize.OpenFile(filepath.Join(dir, "run.xlsx"))
	if err != nil {
		t.Fatalf("open run.xlsx: %v", err)
	}
	defer func() { _ = wb.Close() }()

	sheets := wb.GetSheetList()
	if len(sheets) != 6 {
		t.Fatalf("sheets = %v, want 6", sheets)
	}
	if sheets[0] != "companies" {
		t.Errorf("first sheet = %s", sheets[0])
	}

	got, err := wb.GetCellValue("contacts", "B2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "Curtis Jackson" {
		t.Errorf("contacts!B2 = %q", got)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	e := New(t.TempDir(), []Format{Format("avro")})
	if _, err := e.Export(testSnapshot()); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	for _, ok := range []string{"csv", "json", "parquet", "xlsx"} {
		if _, err := ParseFormat(ok); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", ok, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("ParseFormat(yaml) expected error")
	}
}
