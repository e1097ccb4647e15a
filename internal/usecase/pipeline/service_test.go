package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
	"github.com/kailas-cloud/orderdex/internal/fetch"
	"github.com/kailas-cloud/orderdex/internal/resolve"
)

// --- Mocks ---

type mockRepo struct {
	saved   []domrun.Snapshot
	saveErr error
}

func (m *mockRepo) Save(_ context.Context, snap domrun.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, snap)
	return nil
}

type mockFetcher struct {
	calls int
	err   error
}

func (m *mockFetcher) Fetch(_ context.Context, sources []fetch.Source) ([]string, error) {
	m.calls++
	return nil, m.err
}

type mockExporter struct {
	exported []domrun.Snapshot
	err      error
}

func (m *mockExporter) Export(snap domrun.Snapshot) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.exported = append(m.exported, snap)
	return "/tmp/out", nil
}

// --- Helpers ---

const ordersCSV = `order_id;date;company_id;company_name;crate_type;contact_data;salesowners
f47ac10b;29.01.22;1e2b47e6;Fresh Fruits Co;Plastic;"[{ ""contact_name"":""Curtis"", ""contact_surname"":""Jackson"" }]";Leonard Cohen
18a39f33;21.02.22;1e2b47e6;Fresh Fruits Co;Wood;;Luke Skywalker, Leonard Cohen
7c2f85a1;03.04.22;34538e39;Veggies Inc;Metal;;David Goliath
`

const invoicesJSON = `{"data":{"invoices":[
{"id":"e3f0a2b1","orderId":"f47ac10b","companyId":"1e2b47e6","grossValue":"324222","vat":"0"},
{"id":"9a1bce11","orderId":"7c2f85a1","companyId":"34538e39","grossValue":"102022","vat":"19"}
]}}`

func writeInputs(t *testing.T, withInvoices bool) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, OrdersFile), []byte(ordersCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	if withInvoices {
		if err := os.WriteFile(filepath.Join(dir, InvoicesFile), []byte(invoicesJSON), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newResolver(t *testing.T) *resolve.Resolver {
	t.Helper()
	r, err := resolve.New()
	if err != nil {
		t.Fatalf("resolve.New: %v", err)
	}
	return r
}

// --- Tests ---

func TestRun(t *testing.T) {
	repo := &mockRepo{}
	svc := New(newResolver(t), repo, writeInputs(t, true))

	snap, err := svc.Run(context.Background(), Params{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if snap.Run.ID == "" {
		t.Error("expected a run id")
	}
	if snap.Run.Threshold != resolve.DefaultThreshold {
		t.Errorf("threshold = %v", snap.Run.Threshold)
	}
	if got := snap.Run.Stats.OrdersLoaded; got != 3 {
		t.Errorf("orders loaded = %d, want 3", got)
	}
	if got := snap.Run.Stats.InvoicesLoaded; got != 2 {
		t.Errorf("invoices loaded = %d, want 2", got)
	}
	if got := snap.Run.Stats.Companies; got != 2 {
		t.Errorf("companies in = %d, want 2", got)
	}
	if len(snap.Companies) == 0 || len(snap.Companies) > 2 {
		t.Errorf("resolved companies = %d", len(snap.Companies))
	}
	if len(snap.Reports.Contacts) != 3 {
		t.Errorf("contact rows = %d, want 3", len(snap.Reports.Contacts))
	}
	if len(snap.Reports.Commissions) == 0 {
		t.Error("expected commission rows")
	}

	if len(repo.saved) != 1 {
		t.Fatalf("repo saves = %d, want 1", len(repo.saved))
	}
	if repo.saved[0].Run.ID != snap.Run.ID {
		t.Error("saved snapshot has a different run id")
	}
}

func TestRunMissingInvoicesTolerated(t *testing.T) {
	svc := New(newResolver(t), &mockRepo{}, writeInputs(t, false))

	snap, err := svc.Run(context.Background(), Params{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if snap.Run.Stats.InvoicesLoaded != 0 {
		t.Errorf("invoices loaded = %d", snap.Run.Stats.InvoicesLoaded)
	}
	if len(snap.Reports.Commissions) != 0 {
		t.Errorf("commission rows = %d, want 0", len(snap.Reports.Commissions))
	}
}

func TestRunMissingOrdersFails(t *testing.T) {
	svc := New(newResolver(t), &mockRepo{}, t.TempDir())
	if _, err := svc.Run(context.Background(), Params{}); err == nil {
		t.Fatal("expected error without orders file")
	}
}

func TestRunFetchStage(t *testing.T) {
	fetcher := &mockFetcher{}
	svc := New(newResolver(t), &mockRepo{}, writeInputs(t, true),
		WithFetcher(fetcher, []fetch.Source{{Name: OrdersFile, URL: "http://example/orders.csv"}}),
	)

	if _, err := svc.Run(context.Background(), Params{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.calls)
	}

	if _, err := svc.Run(context.Background(), Params{SkipFetch: true}); err != nil {
		t.Fatalf("Run(SkipFetch) error = %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls after skip = %d, want 1", fetcher.calls)
	}
}

func TestRunFetchErrorAborts(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("network down")}
	repo := &mockRepo{}
	svc := New(newResolver(t), repo, writeInputs(t, true),
		WithFetcher(fetcher, nil),
	)

	if _, err := svc.Run(context.Background(), Params{}); err == nil {
		t.Fatal("expected fetch error")
	}
	if len(repo.saved) != 0 {
		t.Error("nothing should be persisted after a failed fetch")
	}
}

func TestRunSaveErrorAborts(t *testing.T) {
	svc := New(newResolver(t), &mockRepo{saveErr: errors.New("store down")}, writeInputs(t, true))
	if _, err := svc.Run(context.Background(), Params{}); err == nil {
		t.Fatal("expected persist error")
	}
}

func TestRunExports(t *testing.T) {
	exp := &mockExporter{}
	svc := New(newResolver(t), &mockRepo{}, writeInputs(t, true), WithExporter(exp))

	snap, err := svc.Run(context.Background(), Params{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(exp.exported) != 1 || exp.exported[0].Run.ID != snap.Run.ID {
		t.Errorf("exported = %+v", exp.exported)
	}
}

func TestRunNilRepoSkipsPersist(t *testing.T) {
	svc := New(newResolver(t), nil, writeInputs(t, true))
	if _, err := svc.Run(context.Background(), Params{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := New(newResolver(t), &mockRepo{}, writeInputs(t, true))
	if _, err := svc.Run(ctx, Params{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}
