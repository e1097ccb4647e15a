package resolve

import (
	"sort"

	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/lemma"
)

type resolverConfig struct {
	threshold   float64
	suffixes    []string
	lemmatizer  lemma.Lemmatizer
	foldAccents bool
	workers     int
}

// Option configures a Resolver.
type Option func(*resolverConfig)

// WithThreshold sets the similarity cutoff in [0,1].
func WithThreshold(t float64) Option {
	return func(c *resolverConfig) { c.threshold = t }
}

// WithSuffixes replaces the stripped legal-entity suffix list.
func WithSuffixes(suffixes []string) Option {
	return func(c *resolverConfig) { c.suffixes = suffixes }
}

// WithLemmatizer injects the token lemmatization capability.
func WithLemmatizer(l lemma.Lemmatizer) Option {
	return func(c *resolverConfig) { c.lemmatizer = l }
}

// WithAccentFolding toggles diacritic folding during normalization.
func WithAccentFolding(enabled bool) Option {
	return func(c *resolverConfig) { c.foldAccents = enabled }
}

// WithWorkers enables parallel edge discovery during clustering.
func WithWorkers(n int) Option {
	return func(c *resolverConfig) { c.workers = n }
}

// Resolver wires the four stages — normalize, score, cluster, consolidate —
// into one batch pass over an observation snapshot.
type Resolver struct {
	norm *Normalizer
	clus *Clusterer
	cons *Consolidator
}

// New creates a resolver. Defaults: threshold 0.7, the DefaultSuffixes
// list, identity lemmatization, accent folding on, sequential clustering.
// Configuration errors (threshold outside [0,1], unusable suffix list) are
// fatal and reported before any data is touched.
func New(opts ...Option) (*Resolver, error) {
	cfg := resolverConfig{
		threshold:   DefaultThreshold,
		suffixes:    DefaultSuffixes(),
		lemmatizer:  lemma.Identity(),
		foldAccents: true,
	}
	for _, o := range opts {
		o(&cfg)
	}

	norm, err := NewNormalizer(cfg.suffixes, cfg.lemmatizer, cfg.foldAccents)
	if err != nil {
		return nil, err
	}
	clus, err := NewClusterer(cfg.threshold, cfg.workers)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		norm: norm,
		clus: clus,
		cons: NewConsolidator(norm),
	}, nil
}

// Normalizer exposes the resolver's normalizer for direct use.
func (r *Resolver) Normalizer() *Normalizer { return r.norm }

// Threshold returns the configured similarity cutoff.
func (r *Resolver) Threshold() float64 { return r.clus.Threshold() }

// Resolve runs the full pass: one representative name per distinct company
// id, clustering, then consolidation. Returns the consolidated rows ordered
// by ascending canonical id, plus the raw partition. Reproducible for any
// shuffle of the input.
func (r *Resolver) Resolve(
	observations []company.Observation,
) ([]company.Resolved, [][]string) {
	names := r.representativeNames(observations)
	clusters := r.clus.Cluster(names)
	return r.cons.Consolidate(clusters, observations), clusters
}

// CanonicalByMember maps every member company id to its cluster's resolved
// row, so company-keyed reports can fold merged companies into one.
func CanonicalByMember(clusters [][]string, rows []company.Resolved) map[string]company.Resolved {
	byID := make(map[string]company.Resolved, len(rows))
	for _, row := range rows {
		byID[row.CompanyID] = row
	}

	canon := make(map[string]company.Resolved)
	for _, cluster := range clusters {
		min := ""
		for _, id := range cluster {
			if min == "" || id < min {
				min = id
			}
		}
		row := byID[min]
		for _, id := range cluster {
			canon[id] = row
		}
	}
	return canon
}

// representativeNames picks one normalized name per company id: the most
// frequent raw spelling for that id, ties to the lexicographically smallest
// raw. Deterministic for any input order.
func (r *Resolver) representativeNames(
	observations []company.Observation,
) map[string]company.NormalizedName {
	counts := make(map[string]map[string]int)
	for _, obs := range observations {
		perRaw, ok := counts[obs.CompanyID]
		if !ok {
			perRaw = make(map[string]int)
			counts[obs.CompanyID] = perRaw
		}
		perRaw[obs.RawName]++
	}

	names := make(map[string]company.NormalizedName, len(counts))
	for id, perRaw := range counts {
		raws := make([]string, 0, len(perRaw))
		for raw := range perRaw {
			raws = append(raws, raw)
		}
		sort.Strings(raws)

		best, bestCount := "", -1
		for _, raw := range raws {
			if perRaw[raw] > bestCount {
				best, bestCount = raw, perRaw[raw]
			}
		}
		names[id] = r.norm.Normalize(best)
	}
	return names
}
