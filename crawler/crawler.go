/*
	crawler package implements a polite, breadth-first web crawler on top of
	the pipeline package. A crawl starts from a single seed and runs the
	following stages for every queued URL, strictly one page at a time:
		1. robots gate: reload the robots.txt policy when the domain changes,
		   skip disallowed pages and honour the Crawl-delay.
		2. page fetcher: retrieve the raw page body.
		3. content extractor: parse the page and collect its outbound links
		   and the keywords of its title and headings.
		4. index updater: queue newly discovered links, record keywords and
		   edges and persist both crawl datasets.
*/

package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mycok/wander/index"
	"github.com/mycok/wander/pipeline"
	"github.com/mycok/wander/urlcanon"
)

// Crawler executes crawl runs.
type Crawler struct {
	cfg Config
}

// New returns a Crawler configured by cfg.
func New(cfg Config) (*Crawler, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("crawler: config validation failed: %w", err)
	}

	return &Crawler{cfg: cfg}, nil
}

// Crawl runs a crawl from seed and blocks until the frontier is exhausted,
// MaxPages pages were fetched, ctx is done or persisting the datasets
// failed. Only the last two conditions yield an error. Every run starts
// from an empty frontier and empty datasets.
func (c *Crawler) Crawl(ctx context.Context, seed string) (Stats, error) {
	seedURL, err := urlcanon.Canonicalize(seed)
	if err != nil {
		return Stats{}, fmt.Errorf("crawler: invalid seed %q: %w", seed, err)
	}

	logger := c.cfg.Logger.WithFields(logrus.Fields{
		"run_id": uuid.New().String(),
		"seed":   seedURL,
	})

	var (
		stats    = new(runStats)
		frontier = NewFrontier()
		builder  = index.NewBuilder()
	)

	frontier.Seed(seedURL)

	p := pipeline.New(
		pipeline.NewFIFO(newRobotsGate(c.cfg.Fetcher, stats, logger)),
		pipeline.NewFIFO(newPageFetcher(c.cfg.Fetcher, stats, logger)),
		pipeline.NewFIFO(newContentExtractor(c.cfg.Lemmatizer, stats, logger)),
		pipeline.NewFIFO(newIndexUpdater(frontier, builder, c.cfg.Store, logger)),
	)

	startedAt := time.Now()
	logger.Info("starting crawl")

	err = p.Execute(ctx, newFrontierSource(frontier, stats, c.cfg.MaxPages), &countingSink{stats: stats})
	if err == nil {
		err = ctx.Err()
	}

	result := stats.snapshot(frontier)
	logger.WithFields(logrus.Fields{
		"fetched":      result.Fetched,
		"indexed":      result.Indexed,
		"disallowed":   result.Disallowed,
		"skipped":      result.Skipped,
		"visited":      result.Visited,
		"elapsed_time": time.Since(startedAt).String(),
	}).Info("crawl finished")

	if err != nil {
		return result, fmt.Errorf("crawler: %w", err)
	}

	return result, nil
}
