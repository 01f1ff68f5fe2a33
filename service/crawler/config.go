package crawler

import (
	"errors"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/mycok/wander/crawler"
	"github.com/mycok/wander/textproc"
)

// Config defines configurations for the crawler service.
type Config struct {
	// Retrieves robots.txt files and pages.
	Fetcher crawler.Fetcher

	// Receives the crawl datasets.
	Store crawler.CrawlSaver

	// Maps keyword candidates to their lemma. If not specified the English
	// dictionary lemmatizer is used.
	Lemmatizer textproc.Lemmatizer

	// The URL every crawl pass starts from.
	Seed string

	// Stop a pass after this many pages were fetched. 0 means no limit.
	MaxPages int

	// The duration between subsequent crawl passes. A zero value runs a
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

	if cfg.Fetcher == nil {
		err = multierror.Append(err, errors.New("fetcher not provided"))
	}

	if cfg.Store == nil {
		err = multierror.Append(err, errors.New("crawl store not provided"))
	}

	if cfg.Seed == "" {
		err = multierror.Append(err, errors.New("seed URL not provided"))
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
