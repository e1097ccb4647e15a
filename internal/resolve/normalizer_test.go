package resolve

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/orderdex/internal/domain"
	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/lemma"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(DefaultSuffixes(), lemma.Identity(), true)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	return n
}

func TestNormalize_SuffixStripping(t *testing.T) {
	n := newTestNormalizer(t)

	cases := []struct {
		raw     string
		display string
	}{
		{"Acme Corp", "acme"},
		{"ACME Corporation, Inc.", "acme"},
		{"Acme Corporation", "acme"},
		{"Fresh Fruits Ltd.", "fresh fruits"},
		{"Veggies Inc.", "veggies"},
		{"Healthy Snacks Co.", "healthy snacks"},
		{"Delta S.a.r.l", "delta"},
		{"Gamma Limited", "gamma"},
		// A suffix word in the middle of a name stays.
		{"Coastal Co Logistics", "coastal co logistics"},
		// Only-suffix names collapse to nothing.
		{"Co Ltd", ""},
	}
	for _, tc := range cases {
		if got := n.Normalize(tc.raw).Display; got != tc.display {
			t.Errorf("Normalize(%q).Display = %q, want %q", tc.raw, got, tc.display)
		}
	}
}

func TestNormalize_PunctuationDeleted(t *testing.T) {
	n := newTestNormalizer(t)

	cases := []struct {
		raw     string
		display string
	}{
		{"acme-corp industries", "acmecorp industries"},
		{"O'Brien & Sons", "obrien sons"},
		{"A.B.C. Trading", "abc trading"},
		{"  spaced   out  ", "spaced out"},
	}
	for _, tc := range cases {
		if got := n.Normalize(tc.raw).Display; got != tc.display {
			t.Errorf("Normalize(%q).Display = %q, want %q", tc.raw, got, tc.display)
		}
	}
}

func TestNormalize_AccentFolding(t *testing.T) {
	folding, err := NewNormalizer(DefaultSuffixes(), lemma.Identity(), true)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	plain, err := NewNormalizer(DefaultSuffixes(), lemma.Identity(), false)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}

	if got := folding.Normalize("Müller GmbH").Display; got != "muller" {
		t.Errorf("folded Display = %q, want %q", got, "muller")
	}
	if got := plain.Normalize("Müller GmbH").Display; got != "müller" {
		t.Errorf("unfolded Display = %q, want %q", got, "müller")
	}
}

func TestNormalize_DegenerateNames(t *testing.T) {
	n := newTestNormalizer(t)

	for _, raw := range []string{"", "   ", "...", "Co", "Ltd.", "Co Ltd Inc"} {
		nn := n.Normalize(raw)
		if !nn.Empty() {
			t.Errorf("Normalize(%q) = %+v, want empty token set", raw, nn)
		}
		if nn.Display != "" {
			t.Errorf("Normalize(%q).Display = %q, want empty", raw, nn.Display)
		}
	}
}

func TestNormalize_Idempotence(t *testing.T) {
	en, err := NewNormalizer(DefaultSuffixes(), lemma.English(), true)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}

	raws := []string{
		"Acme Corp",
		"ACME Corporation, Inc.",
		"Fresh Fruits Ltd.",
		"Veggies Inc.",
		"Healthy Snacks Co.",
		"Müller & Co GmbH",
		"O'Brien & Sons",
		"",
		"Co Ltd",
		"1st Choice Fruits",
		"global   trade  gmbh",
	}
	for _, raw := range raws {
		once := en.Normalize(raw)
		twice := en.Normalize(once.Display)
		if !once.Equal(twice) {
			t.Errorf("Normalize(Normalize(%q).Display) = %+v, want %+v", raw, twice, once)
		}
	}
}

func TestNormalize_LemmatizerCollapsesVariants(t *testing.T) {
	en, err := NewNormalizer(DefaultSuffixes(), lemma.English(), true)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}

	a := en.Normalize("Fresh Fruits Ltd.")
	b := en.Normalize("Fresh Fruit Co")
	if !a.Tokens.Equal(b.Tokens) {
		t.Errorf("token sets differ: %v vs %v", a.Tokens.Sorted(), b.Tokens.Sorted())
	}
	// Display keeps the pre-lemma spelling.
	if a.Display != "fresh fruits" {
		t.Errorf("Display = %q, want %q", a.Display, "fresh fruits")
	}
}

func TestNormalize_Memoized(t *testing.T) {
	calls := 0
	counting := lemma.Func(func(token string) string {
		calls++
		return token
	})
	n, err := NewNormalizer(DefaultSuffixes(), counting, true)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}

	first := n.Normalize("Acme Trading")
	after := calls
	second := n.Normalize("Acme Trading")
	if calls != after {
		t.Errorf("second Normalize recomputed: %d lemma calls, want %d", calls, after)
	}
	if !first.Equal(second) {
		t.Errorf("memoized result differs: %+v vs %+v", first, second)
	}
}

func TestNewNormalizer_ConfigErrors(t *testing.T) {
	cases := []struct {
		name     string
		suffixes []string
		lem      lemma.Lemmatizer
	}{
		{"empty suffix list", nil, lemma.Identity()},
		{"punctuation-only suffix", []string{"inc", "!!"}, lemma.Identity()},
		{"blank suffix", []string{" "}, lemma.Identity()},
		{"nil lemmatizer", DefaultSuffixes(), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewNormalizer(tc.suffixes, tc.lem, true)
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("NewNormalizer error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNormalize_TokensPostLemma(t *testing.T) {
	n, err := NewNormalizer(DefaultSuffixes(), lemma.English(), true)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}

	nn := n.Normalize("Healthy Snacks Co.")
	want := company.NewTokenSet(lemma.English().Lemma("healthy"), "snack")
	if !nn.Tokens.Equal(want) {
		t.Errorf("Tokens = %v, want %v", nn.Tokens.Sorted(), want.Sorted())
	}
}
