package crawler

import (
	"context"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/mycok/wander/pipeline"
	"github.com/mycok/wander/urlcanon"
)

var (
	_ pipeline.Processor = (*pageFetcher)(nil)

	// Locate links that point to resources that don't serve html content.
	exclusionRegex = regexp.MustCompile(`(?i)\.(?:jpg|jpeg|png|gif|ico|svg|webp|css|js|pdf|zip)$`)
)

// pageFetcher retrieves the body of every payload URL into its RawContent
// buffer. Pages that cannot be retrieved are dropped and never retried.
type pageFetcher struct {
	fetcher Fetcher
	logger  *logrus.Entry
	stats   *runStats
}

func newPageFetcher(fetcher Fetcher, stats *runStats, logger *logrus.Entry) *pageFetcher {
	return &pageFetcher{fetcher: fetcher, stats: stats, logger: logger}
}

func (p *pageFetcher) Process(ctx context.Context, payload pipeline.Payload) (pipeline.Payload, error) {
	cPayload, ok := payload.(*crawlerPayload)
	if !ok {
		return nil, nil
	}

	if exclusionRegex.MatchString(urlcanon.Path(cPayload.URL)) {
		p.stats.skipped.Add(1)

		return nil, nil
	}

	body, err := p.fetcher.Fetch(ctx, cPayload.URL)
	if err != nil {
		p.stats.skipped.Add(1)
		p.logger.WithFields(logrus.Fields{
			"url":    cPayload.URL,
			"domain": urlcanon.Domain(cPayload.URL),
			"err":    err,
		}).Warn("unable to fetch page")

		return nil, nil
	}

	p.stats.fetched.Add(1)
	_, _ = cPayload.RawContent.Write(body)

	return cPayload, nil
}
