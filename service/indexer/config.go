package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/mycok/wander/dataset"
	"github.com/mycok/wander/pagerank"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/mycok/wander/service/indexer CrawlLoader,RankedSaver

// CrawlLoader provides the datasets produced by the crawler.
type CrawlLoader interface {
	LoadCrawl(ctx context.Context) (dataset.KeywordIndex, dataset.LinkGraph, error)
}

// RankedSaver persists the datasets consumed by the query server.
type RankedSaver interface {
	SaveRanked(ctx context.Context, tfidf dataset.TFIDFTable, ranks dataset.PageRankTable) error
}

// Config defines configurations for the indexer service.
type Config struct {
	// Source of the keyword index and the link graph.
	CrawlStore CrawlLoader

	// Destination of the TF-IDF and PageRank tables.
	RankedStore RankedSaver

	// The number of workers computing TF-IDF weights. If not specified one
	// worker per CPU is used.
	TFIDFWorkers int

	// Settings for the PageRank calculation.
	PageRank pagerank.Config

	// The duration between subsequent index passes. A zero value runs a
	// single pass.
	UpdateInterval time.Duration

	// A clock instance for generating time-related events. If not specified,
	// the default wall-clock will be used instead.
	Clock clock.Clock

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error

	if cfg.CrawlStore == nil {
		err = multierror.Append(err, errors.New("crawl store not provided"))
	}

	if cfg.RankedStore == nil {
		err = multierror.Append(err, errors.New("ranked store not provided"))
	}

	if cfg.TFIDFWorkers < 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for TF-IDF workers, must be >= 0"))
	}

	if cfg.UpdateInterval < 0 {
		err = multierror.Append(err, errors.New("invalid value for update interval, must be >= 0"))
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}

	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}
