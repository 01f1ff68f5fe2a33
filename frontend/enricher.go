/*
	frontend package turns ranked URLs into displayable search results by
	fetching every page live and extracting a title and a short description
	from it.
*/

package frontend

import (
	"bytes"
	"context"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/mycok/wander/pipeline"
)

const (
	defaultWorkers              = 8
	defaultMaxDescriptionLength = 256
)

var repeatedSpaceRegex = regexp.MustCompile(`\s+`)

// Fetcher should be implemented by objects that retrieve the raw body of a
// page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Snippet is a displayable search result.
type Snippet struct {
	Title       string `json:"title"`
	URL         string `json:"URL"`
	Description string `json:"description"`
}

// Enricher fetches result pages concurrently and extracts their snippets.
type Enricher struct {
	fetcher    Fetcher
	workers    int
	maxDescLen int
	policyPool sync.Pool
}

// NewEnricher returns an Enricher that fetches at most workers pages at a
// time and trims descriptions to maxDescLen characters. Non-positive values
// select the defaults.
func NewEnricher(fetcher Fetcher, workers, maxDescLen int) *Enricher {
	if workers <= 0 {
		workers = defaultWorkers
	}

	if maxDescLen <= 0 {
		maxDescLen = defaultMaxDescriptionLength
	}

	return &Enricher{
		fetcher:    fetcher,
		workers:    workers,
		maxDescLen: maxDescLen,
		policyPool: sync.Pool{
			New: func() interface{} {
				return bluemonday.StrictPolicy()
			},
		},
	}
}

type snippetPayload struct {
	slot *Snippet
}

func (*snippetPayload) MarkAsProcessed() {}

// Enrich returns one snippet per URL, in the order of urls. Pages that
// cannot be fetched or parsed get an empty title and description. query is
// used to summarise pages that carry no description of their own.
func (e *Enricher) Enrich(ctx context.Context, urls []string, query string) ([]Snippet, error) {
	snippets := make([]Snippet, len(urls))
	payloads := make([]pipeline.Payload, len(urls))
	for i, url := range urls {
		snippets[i].URL = url
		payloads[i] = &snippetPayload{slot: &snippets[i]}
	}

	p := pipeline.New(pipeline.NewDynamicWorkerPool(
		pipeline.ProcessorFunc(func(ctx context.Context, payload pipeline.Payload) (pipeline.Payload, error) {
			e.fill(ctx, payload.(*snippetPayload).slot, query)

			return payload, nil
		}),
		e.workers,
	))

	discard := pipeline.SinkFunc(func(context.Context, pipeline.Payload) error { return nil })
	if err := p.Execute(ctx, pipeline.NewSliceSource(payloads...), discard); err != nil {
		return nil, err
	}

	return snippets, ctx.Err()
}

func (e *Enricher) fill(ctx context.Context, slot *Snippet, query string) {
	body, err := e.fetcher.Fetch(ctx, slot.URL)
	if err != nil {
		return
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return
	}

	policy := e.policyPool.Get().(*bluemonday.Policy)
	defer e.policyPool.Put(policy)

	slot.Title = clean(policy, doc.Find("title").First().Text())

	description := metaContent(doc, "name", "description")
	if description == "" {
		description = metaContent(doc, "property", "og:description")
	}

	if description != "" {
		slot.Description = truncate(clean(policy, description), e.maxDescLen)
		return
	}

	doc.Find("script, style, noscript").Remove()
	text := clean(policy, doc.Find("body").Text())
	slot.Description = newMatchSummarizer(query, e.maxDescLen).Summary(text)
}

// metaContent returns the content of the first <meta> whose attr equals
// value, ignoring case.
func metaContent(doc *goquery.Document, attr, value string) string {
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if v, _ := sel.Attr(attr); !strings.EqualFold(v, value) {
			return true
		}

		content, _ = sel.Attr("content")

		return false
	})

	return content
}

func clean(policy *bluemonday.Policy, s string) string {
	s = repeatedSpaceRegex.ReplaceAllString(policy.Sanitize(s), " ")

	return strings.TrimSpace(html.UnescapeString(s))
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	return strings.TrimSpace(string(runes[:maxLen])) + "..."
}
