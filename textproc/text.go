/*
	textproc package turns raw text into the keyword and query term streams
	used by the indexer and the ranker. Both sides must agree on how a word is
	normalized, otherwise query terms would never match indexed keywords.
*/

package textproc

import (
	"strings"
)

var stopWords = buildStopWordSet(
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your",
	"yours", "yourself", "yourselves", "he", "him", "his", "himself", "she",
	"her", "hers", "herself", "it", "its", "itself", "they", "them", "their",
	"theirs", "themselves", "what", "which", "who", "whom", "this", "that",
	"these", "those", "am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing", "a", "an",
	"the", "and", "but", "if", "or", "because", "as", "until", "while", "of",
	"at", "by", "for", "with", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "to", "from",
	"up", "down", "in", "out", "on", "off", "over", "under", "again",
	"further", "then", "once", "here", "there", "when", "where", "why", "how",
	"all", "any", "both", "each", "few", "more", "most", "other", "some",
	"such", "no", "nor", "not", "only", "own", "same", "so", "than", "too",
	"very", "s", "t", "can", "will", "just", "don", "should", "now",
)

func buildStopWordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}

	return set
}

// IsStopWord reports whether word is a stop word. The comparison ignores case.
func IsStopWord(word string) bool {
	_, found := stopWords[strings.ToLower(word)]

	return found
}

// StripNonAlpha removes every rune of word that is not an ASCII letter.
func StripNonAlpha(word string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}

		return -1
	}, word)
}

// Keywords splits text on whitespace and returns the distinct keywords it
// contains in order of first appearance. Every word is stripped of
// non-alphabetic runes, lemmatized and lower-cased; empty words and stop
// words are dropped.
func Keywords(text string, lem Lemmatizer) []string {
	var (
		keywords []string
		seen     = make(map[string]struct{})
	)

	for _, field := range strings.Fields(text) {
		word := StripNonAlpha(field)
		if word == "" {
			continue
		}

		lemma := lem.Lemma(word)
		if lemma == "" || IsStopWord(lemma) {
			continue
		}

		keyword := strings.ToLower(lemma)
		if _, dup := seen[keyword]; dup {
			continue
		}

		seen[keyword] = struct{}{}
		keywords = append(keywords, keyword)
	}

	return keywords
}

// QueryTerms normalizes a search query into the list of terms it contains,
// duplicates included. Terms go through the same normalization as indexed
// keywords apart from stop word removal.
func QueryTerms(query string, lem Lemmatizer) []string {
	var terms []string

	for _, field := range strings.Fields(strings.ToLower(query)) {
		word := StripNonAlpha(field)
		if word == "" {
			continue
		}

		if term := strings.ToLower(lem.Lemma(word)); term != "" {
			terms = append(terms, term)
		}
	}

	return terms
}

// CountOccurrences returns the number of possibly overlapping occurrences of
// substr within s.
func CountOccurrences(s, substr string) int {
	if substr == "" {
		return 0
	}

	var count int
	for i := 0; ; {
		idx := strings.Index(s[i:], substr)
		if idx < 0 {
			return count
		}

		count++
		i += idx + 1
	}
}
