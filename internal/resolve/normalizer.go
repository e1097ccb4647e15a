// Package resolve implements the company identity-resolution engine:
// name normalization, Jaccard similarity scoring, threshold clustering and
// cluster consolidation. Everything is computed fresh per run from the
// observation snapshot; nothing persists between runs.
package resolve

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/orderdex/internal/domain"
	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/lemma"
)

// DefaultSuffixes returns the legal-entity suffixes stripped by default.
// Entries are matched against trailing tokens after punctuation removal,
// so "S.a.r.l" matches "sarl" and "Inc." matches "inc".
func DefaultSuffixes() []string {
	return []string{
		"co", "corp", "corporation", "gmbh", "inc",
		"limited", "llc", "ltd", "sa", "sarl",
	}
}

// Normalizer canonicalizes raw company names into display forms and token
// sets. One instance owns an explicit memoization table keyed by raw name;
// it is safe for concurrent use and holds no state across runs beyond that
// cache. Returned values are shared with the cache and must be treated as
// read-only.
type Normalizer struct {
	suffixes    map[string]struct{}
	lemmatizer  lemma.Lemmatizer
	foldAccents bool

	mu   sync.RWMutex
	memo map[string]company.NormalizedName
}

// NewNormalizer creates a normalizer with the given suffix list. The list
// must produce at least one usable entry after cleaning; lem may not be nil
// (use lemma.Identity for no-op lemmatization).
func NewNormalizer(suffixes []string, lem lemma.Lemmatizer, foldAccents bool) (*Normalizer, error) {
	if len(suffixes) == 0 {
		return nil, domain.NewConfigError("suffixes", suffixes)
	}
	if lem == nil {
		return nil, domain.NewConfigError("lemmatizer", nil)
	}

	set := make(map[string]struct{}, len(suffixes))
	for _, s := range suffixes {
		cleaned := cleanToken(strings.ToLower(strings.TrimSpace(s)))
		if cleaned == "" {
			return nil, domain.NewConfigError("suffixes", s)
		}
		set[cleaned] = struct{}{}
	}

	return &Normalizer{
		suffixes:    set,
		lemmatizer:  lem,
		foldAccents: foldAccents,
		memo:        make(map[string]company.NormalizedName),
	}, nil
}

// Normalize canonicalizes one raw name. Steps: trim and lower-case; fold
// diacritics; strip legal-entity suffixes as whole trailing tokens
// (repeatedly, so "Acme Corporation, Inc." loses both); delete punctuation;
// lemmatize the remaining tokens. The display form is the cleaned pre-lemma
// string, the token set is post-lemma. An empty result is valid.
func (n *Normalizer) Normalize(raw string) company.NormalizedName {
	n.mu.RLock()
	cached, ok := n.memo[raw]
	n.mu.RUnlock()
	if ok {
		return cached
	}

	nn := n.compute(raw)

	n.mu.Lock()
	n.memo[raw] = nn
	n.mu.Unlock()
	return nn
}

func (n *Normalizer) compute(raw string) company.NormalizedName {
	s := strings.ToLower(strings.TrimSpace(raw))
	if n.foldAccents {
		s = foldDiacritics(s)
	}

	tokens := strings.Fields(s)

	// Suffix stripping runs before punctuation removal, so the candidate
	// trailing token is cleaned for the lookup only. Punctuation-only
	// trailing tokens are dropped outright to keep the real last word
	// visible to the check.
	for len(tokens) > 0 {
		cleaned := cleanToken(tokens[len(tokens)-1])
		if cleaned != "" {
			if _, isSuffix := n.suffixes[cleaned]; !isSuffix {
				break
			}
		}
		tokens = tokens[:len(tokens)-1]
	}

	display := make([]string, 0, len(tokens))
	set := make(company.TokenSet, len(tokens))
	for _, t := range tokens {
		cleaned := cleanToken(t)
		if cleaned == "" {
			continue
		}
		display = append(display, cleaned)
		if l := n.lemmatizer.Lemma(cleaned); l != "" {
			set[l] = struct{}{}
		}
	}

	return company.NormalizedName{
		Display: strings.Join(display, " "),
		Tokens:  set,
	}
}

// cleanToken deletes every rune that is not a letter or digit, keeping
// hyphenated or dotted words as single tokens ("acme-corp" -> "acmecorp").
func cleanToken(t string) string {
	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// foldDiacritics strips combining marks: NFD decomposition, drop the marks,
// recompose. Falls back to the input when the transform fails.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
