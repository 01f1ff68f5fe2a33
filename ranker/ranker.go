/*
	ranker package orders documents for a free-text query by blending the
	cosine similarity of the query against the TF-IDF table with the
	PageRank authority of each document.
*/

package ranker

import (
	"math"
	"sort"

	"github.com/mycok/wander/dataset"
	"github.com/mycok/wander/textproc"
)

const (
	// TextWeight is the share of the final score taken by text relevance.
	TextWeight = 0.7

	// AuthorityWeight is the share of the final score taken by PageRank.
	AuthorityWeight = 0.3
)

// Result is a ranked document.
type Result struct {
	URL   string
	Score float64
}

// Ranker answers queries against read-only ranked datasets. It is safe for
// concurrent use.
type Ranker struct {
	tfidf    dataset.TFIDFTable
	pagerank dataset.PageRankTable
	lem      textproc.Lemmatizer
}

// New returns a Ranker over the given tables. Query terms are normalized
// with lem, which must match the lemmatizer used at crawl time. A nil lem
// defaults to textproc.English().
func New(tfidf dataset.TFIDFTable, pagerank dataset.PageRankTable, lem textproc.Lemmatizer) *Ranker {
	if lem == nil {
		lem = textproc.English()
	}

	return &Ranker{tfidf: tfidf, pagerank: pagerank, lem: lem}
}

// Documents returns the number of documents with a PageRank score.
func (r *Ranker) Documents() int {
	return len(r.pagerank)
}

// Rank returns the documents matching query, best first. Documents that
// share a score keep the order in which the query terms first reached them.
func (r *Ranker) Rank(query string) []Result {
	terms, weights := queryVector(textproc.QueryTerms(query, r.lem))

	var (
		order []string
		dot   = make(map[string]float64)
		mag2  = make(map[string]float64)
	)

	for i, term := range terms {
		for _, w := range r.tfidf[term] {
			if _, seen := mag2[w.URL]; !seen {
				order = append(order, w.URL)
			}

			dot[w.URL] += weights[i] * w.TFIDF
			mag2[w.URL] += w.TFIDF * w.TFIDF
		}
	}

	results := make([]Result, 0, len(order))
	for _, doc := range order {
		if mag2[doc] == 0 {
			continue
		}

		score := dot[doc] / math.Sqrt(mag2[doc])
		if authority, found := r.pagerank[doc]; found {
			score = TextWeight*score + AuthorityWeight*authority
		}

		results = append(results, Result{URL: doc, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// queryVector returns the distinct terms in order of first appearance and
// their L2-normalized term frequencies.
func queryVector(terms []string) ([]string, []float64) {
	var (
		distinct []string
		index    = make(map[string]int)
		tf       []float64
	)

	for _, term := range terms {
		i, seen := index[term]
		if !seen {
			i = len(distinct)
			index[term] = i
			distinct = append(distinct, term)
			tf = append(tf, 0)
		}

		tf[i]++
	}

	var norm float64
	for _, f := range tf {
		norm += f * f
	}
	norm = math.Sqrt(norm)

	for i := range tf {
		tf[i] /= norm
	}

	return distinct, tf
}
