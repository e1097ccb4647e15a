package orderdex

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kailas-cloud/orderdex/internal/domain/report"
	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
)

func testSnapshot(id string) Snapshot {
	started := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return Snapshot{
		Run: Run{
			ID:         id,
			StartedAt:  started,
			FinishedAt: started.Add(time.Second),
			Threshold:  0.7,
			Stats:      domrun.Stats{OrdersLoaded: 2, Companies: 1, Clusters: 1},
		},
		Companies: []Company{
			{CompanyID: "c1", Name: "Acme Corp", SalesOwners: []string{"Alice", "Bob"}},
		},
		Reports: report.Tables{
			Commissions: []report.CommissionRow{{Owner: "Alice", TotalEuros: 12.5}},
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()

	snap := testSnapshot("run-1")
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/runs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONResponse(t, w, http.StatusOK, []Run{snap.Run})
	})
	mux.HandleFunc("GET /api/v1/runs/latest", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONResponse(t, w, http.StatusOK, snap)
	})
	mux.HandleFunc("GET /api/v1/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "run-1" {
			writeErrorResponse(w, http.StatusNotFound, "run_not_found", "run not found")
			return
		}
		writeJSONResponse(t, w, http.StatusOK, snap)
	})
	mux.HandleFunc("GET /api/v1/companies", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONResponse(t, w, http.StatusOK, snap.Companies)
	})
	mux.HandleFunc("GET /api/v1/companies/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "c1" {
			writeErrorResponse(w, http.StatusNotFound, "company_not_found", "not found")
			return
		}
		writeJSONResponse(t, w, http.StatusOK, snap.Companies[0])
	})
	mux.HandleFunc("GET /api/v1/reports/commissions", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONResponse(t, w, http.StatusOK, snap.Reports.Commissions)
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONResponse(t, w, http.StatusOK, Health{
			Status: "ok",
			Checks: map[string]string{"store": "ok", "runs": "ok"},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, New(srv.URL)
}

func jsonEncode(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func writeJSONResponse(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsonEncode(w, v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func TestRunsList(t *testing.T) {
	_, client := newTestServer(t)

	runs, err := client.Runs().List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-1" {
		t.Fatalf("List = %+v, want one run run-1", runs)
	}
}

func TestRunsGet(t *testing.T) {
	_, client := newTestServer(t)

	snap, err := client.Runs().Get(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if snap.Run.Threshold != 0.7 {
		t.Errorf("Threshold = %v, want 0.7", snap.Run.Threshold)
	}

	_, err = client.Runs().Get(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Get missing: err = %v, want ErrRunNotFound", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("Get missing: err = %v, want *APIError with 404", err)
	}
}

func TestRunsLatest(t *testing.T) {
	_, client := newTestServer(t)

	snap, err := client.Runs().Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if snap.Run.ID != "run-1" {
		t.Errorf("run id = %q, want run-1", snap.Run.ID)
	}
}

func TestCompaniesGet(t *testing.T) {
	_, client := newTestServer(t)

	c, err := client.Companies().Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Name != "Acme Corp" {
		t.Errorf("Name = %q, want Acme Corp", c.Name)
	}

	_, err = client.Companies().Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing: err = %v, want ErrNotFound", err)
	}
}

func TestReportsCommissions(t *testing.T) {
	_, client := newTestServer(t)

	rows, err := client.Reports().Commissions(context.Background())
	if err != nil {
		t.Fatalf("Commissions: %v", err)
	}
	if len(rows) != 1 || rows[0].Owner != "Alice" || rows[0].TotalEuros != 12.5 {
		t.Fatalf("rows = %+v, want one Alice row at 12.50", rows)
	}
}

func TestReady(t *testing.T) {
	_, client := newTestServer(t)

	h, err := client.Ready(context.Background())
	if err != nil {
		t.Fatalf("Ready: %v", err)
	}
	if h.Status != "ok" || h.Checks["store"] != "ok" {
		t.Errorf("Health = %+v, want ok", h)
	}
}

func TestReadyDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = jsonEncode(w, Health{
			Status: "degraded",
			Checks: map[string]string{"store": "error"},
		})
	}))
	defer srv.Close()

	h, err := New(srv.URL).Ready(context.Background())
	if err == nil {
		t.Fatal("expected error for degraded service")
	}
	if h.Status != "degraded" || h.Checks["store"] != "error" {
		t.Errorf("Health = %+v, want degraded with store error", h)
	}
}

func TestAPIKeyHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSONResponse(t, w, http.StatusOK, []Run{})
	}))
	defer srv.Close()

	client := New(srv.URL, WithAPIKey("secret"))
	if _, err := client.Runs().List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", gotAuth)
	}
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "invalid or missing API key")
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Runs().List(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestNonEnvelopeErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Runs().List(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Message != "bad gateway" {
		t.Errorf("apiErr = %+v, want 502 with raw body message", apiErr)
	}
}
