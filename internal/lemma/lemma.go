// Package lemma provides the token-canonicalization capability used by name
// normalization. Implementations are read-only after construction and must
// be safe for concurrent use.
package lemma

// Lemmatizer reduces a single lower-case token to its canonical form.
type Lemmatizer interface {
	Lemma(token string) string
}

// Func adapts a plain function to the Lemmatizer interface.
type Func func(token string) string

// Lemma calls the wrapped function.
func (f Func) Lemma(token string) string { return f(token) }

// Identity returns every token unchanged. It is the default when no
// lemmatizer is configured.
func Identity() Lemmatizer {
	return Func(func(token string) string { return token })
}
