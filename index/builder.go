/*
	index package accumulates the two crawl datasets while pages are being
	crawled: the keyword to document postings and the outbound link graph.
	A Builder hands out deep copies of both so a snapshot can be persisted
	while crawling continues.
*/

package index

import (
	"sync"

	"github.com/mycok/wander/dataset"
)

type postingKey struct {
	keyword string
	url     string
	count   float64
}

// Builder accumulates keyword postings and outbound edges. It can be
// concurrently accessed by multiple clients.
type Builder struct {
	mu sync.RWMutex

	postings    dataset.KeywordIndex
	postingSeen map[postingKey]struct{}

	links    dataset.LinkGraph
	edgeSeen map[[2]string]struct{}

	documents map[string]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		postings:    make(dataset.KeywordIndex),
		postingSeen: make(map[postingKey]struct{}),
		links:       make(dataset.LinkGraph),
		edgeSeen:    make(map[[2]string]struct{}),
		documents:   make(map[string]struct{}),
	}
}

// AddDocument registers a crawled page. The page gets an empty outbound
// list when it has none yet, so pages without new links still show up in
// the link graph.
func (b *Builder) AddDocument(url string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.documents[url] = struct{}{}
	if _, ok := b.links[url]; !ok {
		b.links[url] = []string{}
	}
}

// AddPosting records that keyword occurs count times in the page at url. A
// (url, count) pair that was already recorded for keyword is ignored.
func (b *Builder) AddPosting(keyword, url string, count float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := postingKey{keyword: keyword, url: url, count: count}
	if _, dup := b.postingSeen[key]; dup {
		return
	}

	b.postingSeen[key] = struct{}{}
	b.postings[keyword] = append(b.postings[keyword], dataset.Posting{URL: url, Count: count})
}

// AddEdge records an outbound link from src to dst. Duplicate edges are
// ignored.
func (b *Builder) AddEdge(src, dst string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := [2]string{src, dst}
	if _, dup := b.edgeSeen[key]; dup {
		return
	}

	b.edgeSeen[key] = struct{}{}
	b.links[src] = append(b.links[src], dst)
}

// Keywords returns a copy of the keyword postings.
func (b *Builder) Keywords() dataset.KeywordIndex {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(dataset.KeywordIndex, len(b.postings))
	for keyword, postings := range b.postings {
		out[keyword] = append([]dataset.Posting(nil), postings...)
	}

	return out
}

// Links returns a copy of the outbound link graph.
func (b *Builder) Links() dataset.LinkGraph {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(dataset.LinkGraph, len(b.links))
	for src, dsts := range b.links {
		out[src] = append(make([]string, 0, len(dsts)), dsts...)
	}

	return out
}

// Documents returns the number of pages registered with AddDocument.
func (b *Builder) Documents() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.documents)
}
