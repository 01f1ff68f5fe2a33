package frontend

import (
	"context"
	"errors"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/mycok/wander/dataset"
	"github.com/mycok/wander/frontend"
	"github.com/mycok/wander/textproc"
)

const (
	defaultMaxResults           = 10
	defaultMaxDescriptionLength = 256
)

// RankedLoader provides the datasets produced by the indexer.
type RankedLoader interface {
	LoadRanked(ctx context.Context) (dataset.TFIDFTable, dataset.PageRankTable, error)
}

// Config defines configurations for the front-end service.
type Config struct {
	// Source of the TF-IDF and PageRank tables. They are loaded once, when
	// the service is created.
	RankedStore RankedLoader

	// Retrieves result pages for title and description extraction.
	Fetcher frontend.Fetcher

	// Maps query terms to their lemma. Must match the lemmatizer used by
	// the crawler. Defaults to textproc.English().
	Lemmatizer textproc.Lemmatizer

	// Address to listen for incoming requests.
	ListenAddr string

	// Number of results returned per query. If not specified, a default
	// value of 10 is used instead.
	MaxResults int

	// The maximum length (in characters) of result descriptions. If not
	// specified, a default value of 256 is used instead.
	MaxDescriptionLength int

	// The number of result pages fetched concurrently. If not specified,
	// MaxResults is used.
	EnrichWorkers int

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error

	if cfg.RankedStore == nil {
		err = multierror.Append(err, errors.New("ranked store not provided"))
	}

	if cfg.Fetcher == nil {
		err = multierror.Append(err, errors.New("fetcher not provided"))
	}

	if cfg.ListenAddr == "" {
		err = multierror.Append(err, errors.New("listen address not provided"))
	}

	if cfg.Lemmatizer == nil {
		cfg.Lemmatizer = textproc.English()
	}

	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}

	if cfg.MaxDescriptionLength <= 0 {
		cfg.MaxDescriptionLength = defaultMaxDescriptionLength
	}

	if cfg.EnrichWorkers <= 0 {
		cfg.EnrichWorkers = cfg.MaxResults
	}

	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}
