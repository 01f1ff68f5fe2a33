/*
	tfidf package converts the raw keyword occurrence counts collected by the
	crawler into TF-IDF weights.

	For a corpus of N distinct documents and a keyword with df postings:

		idf    = ln(N / (1 + df))
		weight = count * idf

	The idf is not clamped, so keywords that appear in (almost) every document
	end up with a negative weight.
*/

package tfidf

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/mycok/wander/dataset"
	"github.com/mycok/wander/pipeline"
)

// Engine computes TF-IDF tables. Keywords are weighted in parallel.
type Engine struct {
	workers int
}

// New returns an Engine that uses the given number of workers. A
// non-positive value selects one worker per CPU.
func New(workers int) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Engine{workers: workers}
}

type keywordPayload struct {
	keyword  string
	postings []dataset.Posting
	out      *[]dataset.Weight
}

func (*keywordPayload) MarkAsProcessed() {}

// Transform returns the TF-IDF table for idx. The weights of every keyword
// keep the order of its postings, so identical input always produces an
// identical table.
func (e *Engine) Transform(ctx context.Context, idx dataset.KeywordIndex) (dataset.TFIDFTable, error) {
	n := float64(DocumentCount(idx))

	keywords := make([]string, 0, len(idx))
	for keyword := range idx {
		keywords = append(keywords, keyword)
	}

	sort.Strings(keywords)

	slots := make([][]dataset.Weight, len(keywords))
	payloads := make([]pipeline.Payload, len(keywords))
	for i, keyword := range keywords {
		payloads[i] = &keywordPayload{keyword: keyword, postings: idx[keyword], out: &slots[i]}
	}

	weigh := pipeline.ProcessorFunc(func(ctx context.Context, p pipeline.Payload) (pipeline.Payload, error) {
		kp := p.(*keywordPayload)
		*kp.out = Weigh(kp.postings, n)

		return kp, nil
	})

	discard := pipeline.SinkFunc(func(context.Context, pipeline.Payload) error { return nil })

	err := pipeline.New(pipeline.NewFixedWorkerPool(weigh, e.workers)).Execute(
		ctx, pipeline.NewSliceSource(payloads...), discard,
	)
	if err != nil {
		return nil, fmt.Errorf("tfidf: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("tfidf: %w", err)
	}

	table := make(dataset.TFIDFTable, len(keywords))
	for i, keyword := range keywords {
		table[keyword] = slots[i]
	}

	return table, nil
}

// Weigh converts the postings of a single keyword into TF-IDF weights for a
// corpus of n documents.
func Weigh(postings []dataset.Posting, n float64) []dataset.Weight {
	idf := IDF(n, len(postings))

	weights := make([]dataset.Weight, len(postings))
	for i, p := range postings {
		weights[i] = dataset.Weight{URL: p.URL, TFIDF: p.Count * idf}
	}

	return weights
}

// IDF returns ln(n / (1 + df)).
func IDF(n float64, df int) float64 {
	return math.Log(n / float64(1+df))
}

// DocumentCount returns the number of distinct documents referenced by idx.
func DocumentCount(idx dataset.KeywordIndex) int {
	docs := make(map[string]struct{})
	for _, postings := range idx {
		for _, p := range postings {
			docs[p.URL] = struct{}{}
		}
	}

	return len(docs)
}
