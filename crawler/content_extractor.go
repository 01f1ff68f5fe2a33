package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mycok/wander/pipeline"
	"github.com/mycok/wander/textproc"
	"github.com/mycok/wander/urlcanon"
)

// ErrParse is returned when a page body cannot be turned into a node tree.
var ErrParse = errors.New("unable to parse page")

var _ pipeline.Processor = (*contentExtractor)(nil)

type nodeKind int

const (
	otherNode nodeKind = iota
	anchorNode
	keywordNode
	baseNode
)

func kindOf(n *html.Node) nodeKind {
	if n.Type != html.ElementNode {
		return otherNode
	}

	switch n.DataAtom {
	case atom.A:
		return anchorNode
	case atom.Title, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return keywordNode
	case atom.Base:
		return baseNode
	default:
		return otherNode
	}
}

// pageContent is what a single page contributes to the crawl.
type pageContent struct {
	// Distinct canonical outbound links in document order.
	Links []string

	// Distinct keywords with a positive occurrence count, in the order they
	// were first found.
	Keywords []keywordCount
}

// extractContent walks the tree rooted at root in document order. Links are
// resolved against pageURL, or against the first <base href> when present.
// Keywords come from title and heading text and are weighted by the number
// of times they occur in pageText.
func extractContent(root *html.Node, pageURL, pageText string, lem textproc.Lemmatizer) pageContent {
	var (
		content      pageContent
		base         = pageURL
		baseSeen     bool
		seenLinks    = make(map[string]struct{})
		seenKeywords = make(map[string]struct{})
	)

	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch kindOf(n) {
		case anchorNode:
			href, ok := attr(n, "href")
			if !ok {
				break
			}

			link, ok := urlcanon.Resolve(base, href)
			if !ok {
				break
			}

			if _, dup := seenLinks[link]; !dup {
				seenLinks[link] = struct{}{}
				content.Links = append(content.Links, link)
			}
		case keywordNode:
			text := goquery.NewDocumentFromNode(n).Text()
			for _, kw := range textproc.Keywords(text, lem) {
				if _, dup := seenKeywords[kw]; dup {
					continue
				}
				seenKeywords[kw] = struct{}{}

				if count := textproc.CountOccurrences(pageText, kw); count > 0 {
					content.Keywords = append(content.Keywords, keywordCount{Keyword: kw, Count: count})
				}
			}
		case baseNode:
			if href, ok := attr(n, "href"); ok && !baseSeen {
				baseSeen = true
				if resolved := resolveBase(pageURL, href); resolved != "" {
					base = resolved
				}
			}
		}

		// Children are pushed in reverse so they pop in document order.
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}

	return content
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}

	return "", false
}

// resolveBase turns a <base href> value into an absolute directory URL.
func resolveBase(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	if !strings.HasSuffix(href, "/") {
		href += "/"
	}

	pageBase, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := pageBase.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	return resolved.String()
}

// contentExtractor parses the fetched body of a payload and fills in its
// links and keywords. Pages that fail to parse are dropped.
type contentExtractor struct {
	lem    textproc.Lemmatizer
	logger *logrus.Entry
	stats  *runStats
}

func newContentExtractor(lem textproc.Lemmatizer, stats *runStats, logger *logrus.Entry) *contentExtractor {
	return &contentExtractor{lem: lem, stats: stats, logger: logger}
}

func (p *contentExtractor) Process(_ context.Context, payload pipeline.Payload) (pipeline.Payload, error) {
	cPayload, ok := payload.(*crawlerPayload)
	if !ok {
		return nil, nil
	}

	root, err := parsePage(cPayload.RawContent.Bytes())
	if err != nil {
		p.stats.skipped.Add(1)
		p.logger.WithFields(logrus.Fields{
			"url":    cPayload.URL,
			"domain": urlcanon.Domain(cPayload.URL),
			"err":    err,
		}).Warn("unable to extract page content")

		return nil, nil
	}

	pageText := strings.ToLower(cPayload.RawContent.String())
	content := extractContent(root, cPayload.URL, pageText, p.lem)

	cPayload.Links = append(cPayload.Links, content.Links...)
	cPayload.Keywords = append(cPayload.Keywords, content.Keywords...)

	return cPayload, nil
}

func parsePage(body []byte) (*html.Node, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return root, nil
}
