// Package company holds the identity-resolution value objects: raw
// per-order observations, normalized names and consolidated output rows.
package company

import (
	"sort"
	"strings"
)

// Observation is one company sighting extracted from a single order row.
// The loader guarantees OrderID and CompanyID are non-empty; RawName and
// SalesOwners may be empty. Immutable for the duration of a run.
type Observation struct {
	OrderID     string
	CompanyID   string
	RawName     string
	SalesOwners []string
}

// TokenSet is an unordered set of normalized name tokens.
type TokenSet map[string]struct{}

// NewTokenSet builds a set from the given tokens, dropping empties.
func NewTokenSet(tokens ...string) TokenSet {
	s := make(TokenSet, len(tokens))
	for _, t := range tokens {
		if t != "" {
			s[t] = struct{}{}
		}
	}
	return s
}

// Contains reports whether t is in the set.
func (s TokenSet) Contains(t string) bool {
	_, ok := s[t]
	return ok
}

// Equal reports whether both sets hold exactly the same tokens.
func (s TokenSet) Equal(o TokenSet) bool {
	if len(s) != len(o) {
		return false
	}
	for t := range s {
		if _, ok := o[t]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the tokens in ascending order.
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// NormalizedName is the canonical form of a raw company name.
// Display is the cleaned pre-lemma string (suffix-stripped, punctuation-free,
// lower-case, single-space joined); Tokens is the post-lemma token set used
// for similarity scoring. Both may be empty for degenerate names.
type NormalizedName struct {
	Display string
	Tokens  TokenSet
}

// Equal reports whether two normalized names are identical in both
// display form and token set.
func (n NormalizedName) Equal(o NormalizedName) bool {
	return n.Display == o.Display && n.Tokens.Equal(o.Tokens)
}

// Empty reports whether normalization consumed the entire name.
func (n NormalizedName) Empty() bool { return len(n.Tokens) == 0 }

// Resolved is one consolidated output row per identity cluster.
type Resolved struct {
	CompanyID   string   `json:"company_id"`
	Name        string   `json:"company_name"`
	SalesOwners []string `json:"sales_owners"`
}

// OwnersJoined renders the owner list in the output format.
func (r Resolved) OwnersJoined() string {
	return strings.Join(r.SalesOwners, ", ")
}
