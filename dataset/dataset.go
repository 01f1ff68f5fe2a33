/*
	dataset package defines the four datasets exchanged by the crawl, index and
	serve phases together with the store interfaces that persist them.

	Crawl datasets (written by the crawler, read by the indexer):
		- KeywordIndex: keyword -> [(url, count)]
		- LinkGraph: url -> [outbound url]

	Ranked datasets (written by the indexer, read by the query server):
		- TFIDFTable: keyword -> [(url, tfidf)]
		- PageRankTable: url -> score
*/

package dataset

import (
	"context"
	"errors"
)

var (
	// ErrPersistence is wrapped by store errors that prevent a dataset from
	// being written or read back.
	ErrPersistence = errors.New("dataset persistence failure")

	// ErrNotFound is returned when a dataset has never been written.
	ErrNotFound = errors.New("dataset not found")
)

// Posting pairs a document with the weight of a keyword within it. At crawl
// time Count holds the raw occurrence count.
type Posting struct {
	URL   string  `json:"url"`
	Count float64 `json:"count"`
}

// KeywordIndex maps a keyword to the documents it appears in.
type KeywordIndex map[string][]Posting

// LinkGraph maps a document to its ordered outbound links.
type LinkGraph map[string][]string

// Weight is the TF-IDF score of a keyword within a document.
type Weight struct {
	URL   string  `json:"url"`
	TFIDF float64 `json:"tfidf"`
}

// TFIDFTable maps a keyword to per-document TF-IDF scores.
type TFIDFTable map[string][]Weight

// PageRankTable maps a document to its authority score.
type PageRankTable map[string]float64

// DocumentView returns the per-document view of the table: url -> keyword ->
// score.
func (t TFIDFTable) DocumentView() map[string]map[string]float64 {
	view := make(map[string]map[string]float64)
	for keyword, weights := range t {
		for _, w := range weights {
			doc, ok := view[w.URL]
			if !ok {
				doc = make(map[string]float64)
				view[w.URL] = doc
			}

			doc[keyword] = w.TFIDF
		}
	}

	return view
}

// CrawlStore should be implemented by stores that persist the crawl datasets.
type CrawlStore interface {
	// SaveCrawl replaces both crawl datasets.
	SaveCrawl(ctx context.Context, keywords KeywordIndex, links LinkGraph) error

	// LoadCrawl returns both crawl datasets.
	LoadCrawl(ctx context.Context) (KeywordIndex, LinkGraph, error)
}

// RankedStore should be implemented by stores that persist the ranked
// datasets.
type RankedStore interface {
	// SaveRanked replaces both ranked datasets.
	SaveRanked(ctx context.Context, tfidf TFIDFTable, ranks PageRankTable) error

	// LoadRanked returns both ranked datasets.
	LoadRanked(ctx context.Context) (TFIDFTable, PageRankTable, error)
}
