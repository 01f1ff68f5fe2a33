/*
	linkgraph package turns the persisted outbound-link dataset into a
	directed graph with both edge directions available for lookup.
*/

package linkgraph

import (
	"sort"

	"github.com/mycok/wander/dataset"
)

// Graph is an immutable view over the link structure of a crawl.
type Graph struct {
	urls     []string
	outbound map[string][]string
	inbound  map[string][]string
	edges    int
}

// Build creates a Graph from links. Duplicate edges and self-links are
// dropped, and URLs that only appear as link targets become vertices with
// no outbound links.
func Build(links dataset.LinkGraph) *Graph {
	g := &Graph{
		outbound: make(map[string][]string, len(links)),
		inbound:  make(map[string][]string),
	}

	// Sources are walked in sorted order so inbound lists come out the same
	// on every run.
	srcs := make([]string, 0, len(links))
	for src := range links {
		srcs = append(srcs, src)
	}
	sort.Strings(srcs)

	for _, src := range srcs {
		g.addVertex(src)

		seen := make(map[string]struct{}, len(links[src]))
		for _, dst := range links[src] {
			if dst == src {
				continue
			}

			if _, dup := seen[dst]; dup {
				continue
			}
			seen[dst] = struct{}{}

			g.addVertex(dst)
			g.outbound[src] = append(g.outbound[src], dst)
			g.inbound[dst] = append(g.inbound[dst], src)
			g.edges++
		}
	}

	sort.Strings(g.urls)

	return g
}

func (g *Graph) addVertex(url string) {
	if _, exists := g.outbound[url]; exists {
		return
	}

	g.outbound[url] = nil
	g.urls = append(g.urls, url)
}

// URLs returns every vertex in ascending order. The slice must not be
// modified.
func (g *Graph) URLs() []string {
	return g.urls
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.urls)
}

// Edges returns the number of distinct edges.
func (g *Graph) Edges() int {
	return g.edges
}

// Has reports whether url is a vertex of the graph.
func (g *Graph) Has(url string) bool {
	_, exists := g.outbound[url]

	return exists
}

// Outbound returns the links leaving url in first-seen order.
func (g *Graph) Outbound(url string) []string {
	return g.outbound[url]
}

// Inbound returns the pages linking to url.
func (g *Graph) Inbound(url string) []string {
	return g.inbound[url]
}
