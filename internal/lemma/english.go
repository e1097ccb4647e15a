package lemma

import "github.com/kljensen/snowball/english"

// irregularNouns maps plural forms the stemmer cannot reduce.
var irregularNouns = map[string]string{
	"children": "child",
	"feet":     "foot",
	"geese":    "goose",
	"men":      "man",
	"mice":     "mouse",
	"people":   "person",
	"teeth":    "tooth",
	"women":    "woman",
}

type englishLemmatizer struct{}

// English returns a lemmatizer for English tokens. Irregular plurals are
// mapped through a fixed table, everything else goes through the snowball
// stemmer, so inflected variants of the same word ("fruit", "fruits")
// collapse to one token.
func English() Lemmatizer {
	return englishLemmatizer{}
}

func (englishLemmatizer) Lemma(token string) string {
	if base, ok := irregularNouns[token]; ok {
		return base
	}
	return english.Stem(token, false)
}
