package crawler

import (
	"errors"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/mycok/wander/textproc"
)

// Config defines the settings of a Crawler.
type Config struct {
	// Retrieves robots.txt files and pages. Required.
	Fetcher Fetcher

	// Receives both crawl datasets after every indexed page. Required.
	Store CrawlSaver

	// Maps keyword candidates to their lemma. Defaults to textproc.English().
	Lemmatizer textproc.Lemmatizer

	// Stop after this many pages were fetched successfully. 0 means no
	// limit.
	MaxPages int

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

	if cfg.Lemmatizer == nil {
		cfg.Lemmatizer = textproc.English()
	}

	if cfg.MaxPages < 0 {
		err = multierror.Append(err, errors.New("invalid value for max pages, must be >= 0"))
	}

	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}
