package frontend

import (
	"sort"
	"strings"
	"unicode"
)

type matchedSentence struct {
	position   int
	text       string
	matchRatio float64
}

// matchSummarizer builds a short summary of a page from the sentences that
// contain query terms.
type matchSummarizer struct {
	terms         []string
	maxSummaryLen int
}

func newMatchSummarizer(query string, maxSummaryLen int) *matchSummarizer {
	return &matchSummarizer{
		terms:         strings.Fields(strings.ToLower(query)),
		maxSummaryLen: maxSummaryLen,
	}
}

// Summary picks the best matching sentences of content until maxSummaryLen
// runes are used up and joins them in document order. Gaps between
// non-adjacent sentences are marked with " ... ".
func (s *matchSummarizer) Summary(content string) string {
	var matched []*matchedSentence
	for position, sentence := range splitSentences(content) {
		if ratio := s.matchRatio(sentence); ratio > 0 {
			matched = append(matched, &matchedSentence{position: position, text: sentence, matchRatio: ratio})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].matchRatio > matched[j].matchRatio
	})

	var picked []*matchedSentence
	for remaining, i := s.maxSummaryLen, 0; i < len(matched) && remaining > 0; i++ {
		if runes := []rune(matched[i].text); len(runes) > remaining {
			matched[i].text = string(runes[:remaining]) + "..."
		}

		remaining -= len([]rune(matched[i].text))
		picked = append(picked, matched[i])
	}

	sort.Slice(picked, func(i, j int) bool {
		return picked[i].position < picked[j].position
	})

	var sb strings.Builder
	for i, sentence := range picked {
		switch {
		case i == 0:
		case sentence.position-picked[i-1].position != 1:
			sb.WriteString(" ... ")
		default:
			sb.WriteByte(' ')
		}

		sb.WriteString(sentence.text)
	}

	return strings.TrimSpace(sb.String())
}

// matchRatio returns the share of words in sentence that are query terms.
func (s *matchSummarizer) matchRatio(sentence string) float64 {
	words := strings.FieldsFunc(strings.ToLower(sentence), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(words) == 0 {
		return 0
	}

	var matches int
	for _, word := range words {
		for _, term := range s.terms {
			if word == term {
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(len(words))
}

// splitSentences breaks text after '.', '!' or '?' when the terminator is
// followed by a space and the end of a word, so "3.14" or "e.g" stay whole.
func splitSentences(text string) []string {
	var (
		sentences []string
		runes     = []rune(text)
		start     int
	)

	for i := 1; i < len(runes)-1; i++ {
		if !isTerminator(runes[i]) || !unicode.IsSpace(runes[i+1]) || unicode.IsSpace(runes[i-1]) {
			continue
		}

		if sentence := strings.TrimSpace(string(runes[start : i+1])); sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}

	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
