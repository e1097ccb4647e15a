package resolve

import "github.com/kailas-cloud/orderdex/internal/domain/company"

// Similarity computes the Jaccard similarity of two normalized names over
// their token sets: |A and B| / |A or B|. Conventions: two empty sets score
// 1.0 (identical), an empty set against a non-empty one scores 0.0. Pure
// function; symmetric and reflexive, safe to memoize per unordered pair.
func Similarity(a, b company.NormalizedName) float64 {
	na, nb := len(a.Tokens), len(b.Tokens)
	if na == 0 && nb == 0 {
		return 1.0
	}
	if na == 0 || nb == 0 {
		return 0.0
	}

	small, large := a.Tokens, b.Tokens
	if nb < na {
		small, large = large, small
	}

	intersection := 0
	for t := range small {
		if large.Contains(t) {
			intersection++
		}
	}

	union := na + nb - intersection
	return float64(intersection) / float64(union)
}
