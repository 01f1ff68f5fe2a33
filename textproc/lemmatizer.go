package textproc

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	porterstemmer "github.com/blevesearch/go-porterstemmer"
	"github.com/kljensen/snowball/english"
)

// Lemmatizer should be implemented by objects that can map a word to its
// base form.
type Lemmatizer interface {
	// Lemma returns the base form of word. Implementations must be safe for
	// concurrent use.
	Lemma(word string) string
}

// LemmatizerFunc serves as an adapter that allows the use of normal functions
// as Lemmatizer instances.
type LemmatizerFunc func(string) string

// Lemma calls f(word).
func (f LemmatizerFunc) Lemma(word string) string {
	return f(word)
}

// Dictionary maps inflected English words to their dictionary form, ie.
// "companies" to "company". Words missing from the word list are returned
// lower-cased but otherwise unchanged.
type Dictionary struct {
	lem *golem.Lemmatizer
}

// Lemma implements Lemmatizer.
func (d *Dictionary) Lemma(word string) string {
	return d.lem.Lemma(strings.ToLower(word))
}

var (
	englishOnce sync.Once
	englishDict *Dictionary
)

// English returns the shared English Dictionary. The word list is compiled
// into the binary and decoded on first use; a list that cannot be decoded
// means a broken build and panics.
func English() *Dictionary {
	englishOnce.Do(func() {
		lem, err := golem.New(en.New())
		if err != nil {
			panic(fmt.Sprintf("textproc: loading english word list: %v", err))
		}

		englishDict = &Dictionary{lem: lem}
	})

	return englishDict
}

// Snowball reduces words with the snowball english stemmer.
type Snowball struct{}

// Lemma implements Lemmatizer.
func (Snowball) Lemma(word string) string {
	return english.Stem(word, true)
}

// Porter reduces words with the classic porter stemmer.
type Porter struct{}

// Lemma implements Lemmatizer.
func (Porter) Lemma(word string) string {
	return porterstemmer.StemString(word)
}

// Identity returns every word unchanged apart from lower-casing.
var Identity = LemmatizerFunc(strings.ToLower)

// LemmatizerByName returns the lemmatizer registered under name. The names
// "dictionary" (the default), "snowball", "porter" and "none" are
// recognised. The stemmers produce truncated forms such as "compani" that
// rarely occur in page text, so they suit query-only experiments better
// than crawling.
func LemmatizerByName(name string) (Lemmatizer, error) {
	switch strings.ToLower(name) {
	case "", "dictionary":
		return English(), nil
	case "snowball":
		return Snowball{}, nil
	case "porter":
		return Porter{}, nil
	case "none":
		return Identity, nil
	default:
		return nil, fmt.Errorf("unknown lemmatizer %q", name)
	}
}
