package orderdex

import (
	"github.com/kailas-cloud/orderdex/internal/lemma"
	"github.com/kailas-cloud/orderdex/internal/resolve"
)

// DefaultThreshold is the similarity cutoff used when none is configured.
const DefaultThreshold = resolve.DefaultThreshold

// DefaultSuffixes returns the default legal-entity suffix list stripped
// during normalization.
func DefaultSuffixes() []string { return resolve.DefaultSuffixes() }

// ResolverOption configures a Resolver.
type ResolverOption func(*resolverConfig)

type resolverConfig struct {
	opts []resolve.Option
}

// WithThreshold sets the similarity cutoff in [0,1]. Pairs scoring at or
// above it end up in the same cluster.
func WithThreshold(t float64) ResolverOption {
	return func(c *resolverConfig) {
		c.opts = append(c.opts, resolve.WithThreshold(t))
	}
}

// WithSuffixes replaces the stripped suffix list.
func WithSuffixes(suffixes ...string) ResolverOption {
	return func(c *resolverConfig) {
		c.opts = append(c.opts, resolve.WithSuffixes(suffixes))
	}
}

// WithEnglishLemmatizer enables English stemming of name tokens, so
// "Fruit" and "Fruits" compare equal.
func WithEnglishLemmatizer() ResolverOption {
	return func(c *resolverConfig) {
		c.opts = append(c.opts, resolve.WithLemmatizer(lemma.English()))
	}
}

// WithLemmatizer injects a custom per-token lemmatization function.
func WithLemmatizer(fn func(token string) string) ResolverOption {
	return func(c *resolverConfig) {
		c.opts = append(c.opts, resolve.WithLemmatizer(lemma.Func(fn)))
	}
}

// WithAccentFolding toggles diacritic folding during normalization.
// Enabled by default.
func WithAccentFolding(enabled bool) ResolverOption {
	return func(c *resolverConfig) {
		c.opts = append(c.opts, resolve.WithAccentFolding(enabled))
	}
}

// WithWorkers enables parallel similarity scoring with n workers.
func WithWorkers(n int) ResolverOption {
	return func(c *resolverConfig) {
		c.opts = append(c.opts, resolve.WithWorkers(n))
	}
}

// Resolver is the identity-resolution engine.
type Resolver struct {
	inner *resolve.Resolver
}

// NewResolver creates a resolver. Configuration errors are reported here,
// before any data is touched.
func NewResolver(opts ...ResolverOption) (*Resolver, error) {
	var cfg resolverConfig
	for _, o := range opts {
		o(&cfg)
	}
	inner, err := resolve.New(cfg.opts...)
	if err != nil {
		return nil, err
	}
	return &Resolver{inner: inner}, nil
}

// Threshold returns the configured similarity cutoff.
func (r *Resolver) Threshold() float64 { return r.inner.Threshold() }

// Resolve runs one batch pass over the observations and returns the
// consolidated rows ordered by ascending canonical company id. The result
// is the same for any shuffle of the input.
func (r *Resolver) Resolve(observations []Observation) []Company {
	resolved, _ := r.inner.Resolve(observations)
	return resolved
}
