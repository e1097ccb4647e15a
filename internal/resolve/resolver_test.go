package resolve

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/lemma"
)

func TestResolve_SuffixVariantsMergeAtMidThreshold(t *testing.T) {
	r, err := New(WithThreshold(0.5), WithLemmatizer(lemma.English()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rows, clusters := r.Resolve([]company.Observation{
		obs("o1", "c1", "Acme Corp", "Bob"),
		obs("o2", "c2", "ACME Corporation", "Alice"),
	})

	if len(clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(clusters))
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	got := rows[0]
	if got.CompanyID != "c1" {
		t.Errorf("CompanyID = %q, want c1", got.CompanyID)
	}
	if got.OwnersJoined() != "Alice, Bob" {
		t.Errorf("owners = %q, want %q", got.OwnersJoined(), "Alice, Bob")
	}
}

func TestResolve_SuffixListCollapsesAtExactThreshold(t *testing.T) {
	// With both "corp" and "corporation" stripped, the two names leave the
	// identical token set {acme}, so they merge even at threshold 1.0.
	r, err := New(WithThreshold(1.0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rows, _ := r.Resolve([]company.Observation{
		obs("o1", "c1", "Acme Corp", "Bob"),
		obs("o2", "c2", "ACME Corporation", "Alice"),
	})
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	// Without "corporation" in the list the names keep different token
	// sets and stay apart at threshold 1.0.
	narrow, err := New(WithThreshold(1.0), WithSuffixes([]string{"corp", "inc"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rows, _ = narrow.Resolve([]company.Observation{
		obs("o1", "c1", "Acme Corp", "Bob"),
		obs("o2", "c2", "ACME Corporation", "Alice"),
	})
	if len(rows) != 2 {
		t.Fatalf("narrow suffix list: rows = %d, want 2", len(rows))
	}
}

func TestResolve_ZeroThresholdMergesDisjointNames(t *testing.T) {
	r, err := New(WithThreshold(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rows, _ := r.Resolve([]company.Observation{
		obs("o1", "c1", "Quantum Bakery", "Ann"),
		obs("o2", "c2", "Zebra Logistics", "Ben"),
	})
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].CompanyID != "c1" {
		t.Errorf("CompanyID = %q, want c1", rows[0].CompanyID)
	}
	if rows[0].OwnersJoined() != "Ann, Ben" {
		t.Errorf("owners = %q, want %q", rows[0].OwnersJoined(), "Ann, Ben")
	}
}

func TestResolve_EmptyNamesMergeRegardlessOfThreshold(t *testing.T) {
	for _, threshold := range []float64{0, 0.5, 1.0} {
		r, err := New(WithThreshold(threshold))
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		rows, _ := r.Resolve([]company.Observation{
			obs("o1", "c8", "", "Ann"),
			obs("o2", "c9", "", "Ben"),
		})
		if len(rows) != 1 {
			t.Fatalf("threshold %v: rows = %d, want 1", threshold, len(rows))
		}
		if rows[0].CompanyID != "c8" {
			t.Errorf("threshold %v: CompanyID = %q, want c8", threshold, rows[0].CompanyID)
		}
	}
}

func resolveFixtureObservations() []company.Observation {
	return []company.Observation{
		obs("o01", "34", "Fresh Fruits Co", "Leonard Cohen", "Luke Skywalker", "Ammy Winehouse"),
		obs("o02", "34", "Fresh Fruits c.o", "Luke Skywalker", "David Goliat"),
		obs("o03", "34", "Fresh fruits co", "David Goliat", "leonard cohen"),
		obs("o04", "77", "Veggies Inc", "Chris Pratt"),
		obs("o05", "77", "Veggies incorporated", "chris pratt", "Ammy Winehouse"),
		obs("o06", "21", "Healthy Snacks Ltd", "Mary Poppins"),
		obs("o07", "88", "Global Trade GmbH", "Hans Gruber"),
		obs("o08", "90", "", "Nameless One"),
		obs("o09", "91", "", "Faceless Two"),
	}
}

func TestResolve_OrderIndependence(t *testing.T) {
	base := resolveFixtureObservations()

	permutations := [][]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8},
		{8, 7, 6, 5, 4, 3, 2, 1, 0},
		{4, 0, 8, 2, 6, 1, 7, 3, 5},
		{5, 3, 1, 7, 0, 8, 2, 6, 4},
	}

	var want []company.Resolved
	for i, perm := range permutations {
		shuffled := make([]company.Observation, len(base))
		for to, from := range perm {
			shuffled[to] = base[from]
		}

		r, err := New(WithThreshold(0.7), WithLemmatizer(lemma.English()))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		rows, _ := r.Resolve(shuffled)

		if i == 0 {
			want = rows
			continue
		}
		if !reflect.DeepEqual(rows, want) {
			t.Errorf("permutation %d changed output:\n got %+v\nwant %+v", i, rows, want)
		}
	}
}

func TestResolve_ReproducibleAcrossRuns(t *testing.T) {
	observations := resolveFixtureObservations()

	run := func() []company.Resolved {
		r, err := New(WithThreshold(0.7), WithLemmatizer(lemma.English()), WithWorkers(4))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		rows, _ := r.Resolve(observations)
		return rows
	}

	first := run()
	for i := 0; i < 3; i++ {
		if got := run(); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs:\n got %+v\nwant %+v", i+1, got, first)
		}
	}
}

func TestResolve_OwnerAggregationAcrossVariants(t *testing.T) {
	r, err := New(WithThreshold(0.7), WithLemmatizer(lemma.English()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rows, _ := r.Resolve(resolveFixtureObservations())

	var fruits *company.Resolved
	for i := range rows {
		if rows[i].CompanyID == "34" {
			fruits = &rows[i]
		}
	}
	if fruits == nil {
		t.Fatalf("company 34 missing from %+v", rows)
	}

	want := "Ammy Winehouse, David Goliat, Leonard Cohen, Luke Skywalker"
	if got := fruits.OwnersJoined(); got != want {
		t.Errorf("owners = %q, want %q", got, want)
	}

	for _, row := range rows {
		for i := 1; i < len(row.SalesOwners); i++ {
			a, b := row.SalesOwners[i-1], row.SalesOwners[i]
			if strings.ToLower(a) >= strings.ToLower(b) {
				t.Errorf("owners of %s not sorted: %q before %q", row.CompanyID, a, b)
			}
		}
	}
}

func TestResolve_RepresentativeNamePerCompany(t *testing.T) {
	r, err := New(WithThreshold(1.0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Company c1 is observed mostly as "Acme Corp"; the one-off typo row
	// must not change its representative token set, so c1 and c2 still
	// merge at threshold 1.0.
	rows, _ := r.Resolve([]company.Observation{
		obs("o1", "c1", "Acme Corp", "Bob"),
		obs("o2", "c1", "Acme Corp", "Bob"),
		obs("o3", "c1", "Acmee Corpp Zz", "Bob"),
		obs("o4", "c2", "Acme", "Alice"),
	})
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Name != "acme" {
		t.Errorf("Name = %q, want acme", rows[0].Name)
	}
}
