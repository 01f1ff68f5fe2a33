/*
	indexer package hosts the service that turns the crawl datasets into the
	ranked tables served to queries: TF-IDF weights for every keyword and a
	PageRank score for every page of the link graph.
*/

package indexer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mycok/wander/linkgraph"
	"github.com/mycok/wander/pagerank"
	"github.com/mycok/wander/tfidf"
)

// Service runs index passes. It satisfies the service.Service interface.
type Service struct {
	cfg        Config
	tfidf      *tfidf.Engine
	calculator *pagerank.Calculator
}

// New creates and returns a fully configured indexer service instance.
func New(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("indexer service: config validation failed: %w", err)
	}

	calc, err := pagerank.NewCalculator(cfg.PageRank)
	if err != nil {
		return nil, fmt.Errorf("indexer service: %w", err)
	}

	return &Service{
		cfg:        cfg,
		tfidf:      tfidf.New(cfg.TFIDFWorkers),
		calculator: calc,
	}, nil
}

// Name returns the name of the service.
func (svc *Service) Name() string { return "indexer" }

// Close releases the resources held by the PageRank calculator.
func (svc *Service) Close() error {
	return svc.calculator.Close()
}

// Run executes an index pass right away and, when an update interval is
// configured, another one every time the interval elapses. Missing crawl
// datasets are fatal.
func (svc *Service) Run(ctx context.Context) error {
	svc.cfg.Logger.WithField(
		"update_interval", svc.cfg.UpdateInterval.String(),
	).Info("started service")
	defer svc.cfg.Logger.Info("stopped service")

	for {
		if err := svc.index(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return nil
			}

			return err
		}

		if svc.cfg.UpdateInterval == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-svc.cfg.Clock.After(svc.cfg.UpdateInterval):
		}
	}
}

func (svc *Service) index(ctx context.Context) error {
	logger := svc.cfg.Logger.WithField("run_id", uuid.New().String())
	logger.Info("started index pass")

	startedAt := svc.cfg.Clock.Now()

	keywords, links, err := svc.cfg.CrawlStore.LoadCrawl(ctx)
	if err != nil {
		return fmt.Errorf("loading crawl datasets: %w", err)
	}

	tick := svc.cfg.Clock.Now()
	weights, err := svc.tfidf.Transform(ctx, keywords)
	if err != nil {
		return err
	}
	tfidfDuration := svc.cfg.Clock.Now().Sub(tick)

	tick = svc.cfg.Clock.Now()
	graph := linkgraph.Build(links)
	ranks, err := svc.calculator.Rank(ctx, graph)
	if err != nil {
		return err
	}
	pageRankDuration := svc.cfg.Clock.Now().Sub(tick)

	if err = svc.cfg.RankedStore.SaveRanked(ctx, weights, ranks); err != nil {
		return fmt.Errorf("saving ranked datasets: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"documents":             tfidf.DocumentCount(keywords),
		"keywords":              len(weights),
		"pages":                 graph.Len(),
		"edges":                 graph.Edges(),
		"pagerank_iterations":   svc.calculator.Iterations(),
		"tfidf_duration":        tfidfDuration.String(),
		"pagerank_duration":     pageRankDuration.String(),
		"total_processing_time": svc.cfg.Clock.Now().Sub(startedAt).String(),
	}).Info("completed index pass")

	return nil
}
