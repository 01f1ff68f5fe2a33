package crawler

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mycok/wander/index"
	"github.com/mycok/wander/pipeline"
)

var _ pipeline.Processor = (*indexUpdater)(nil)

// indexUpdater records what a page contributed and persists both crawl
// datasets. Newly discovered links are queued and linked from the page;
// links to pages that were already visited are not recorded again.
// Persistence failures abort the crawl.
type indexUpdater struct {
	frontier *Frontier
	builder  *index.Builder
	store    CrawlSaver
	logger   *logrus.Entry
}

func newIndexUpdater(frontier *Frontier, builder *index.Builder, store CrawlSaver, logger *logrus.Entry) *indexUpdater {
	return &indexUpdater{
		frontier: frontier,
		builder:  builder,
		store:    store,
		logger:   logger,
	}
}

func (p *indexUpdater) Process(ctx context.Context, payload pipeline.Payload) (pipeline.Payload, error) {
	cPayload, ok := payload.(*crawlerPayload)
	if !ok {
		return nil, nil
	}

	p.builder.AddDocument(cPayload.URL)

	var discovered int
	for _, link := range cPayload.Links {
		if !p.frontier.Enqueue(link) {
			continue
		}

		discovered++
		p.builder.AddEdge(cPayload.URL, link)
	}

	for _, kw := range cPayload.Keywords {
		p.builder.AddPosting(kw.Keyword, cPayload.URL, float64(kw.Count))
	}

	if err := p.store.SaveCrawl(ctx, p.builder.Keywords(), p.builder.Links()); err != nil {
		return nil, fmt.Errorf("persisting crawl datasets after %q: %w", cPayload.URL, err)
	}

	p.logger.WithFields(logrus.Fields{
		"url":        cPayload.URL,
		"links":      len(cPayload.Links),
		"discovered": discovered,
		"keywords":   len(cPayload.Keywords),
		"queued":     p.frontier.Len(),
	}).Debug("indexed page")

	return cPayload, nil
}
