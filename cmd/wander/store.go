package main

import (
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/mycok/wander/dataset"
	"github.com/mycok/wander/dataset/cdb"
	"github.com/mycok/wander/dataset/jsonfile"
)

// datasetStore persists all four datasets.
type datasetStore interface {
	dataset.CrawlStore
	dataset.RankedStore
}

// openStore returns the store addressed by storeURI together with a function
// releasing it. Supported URIs:
//
//	file:///path/to/dir
//	postgresql://user@host:26257/wander?sslmode=disable
func openStore(storeURI string, logger *logrus.Entry) (datasetStore, func() error, error) {
	if storeURI == "" {
		return nil, nil, fmt.Errorf("dataset store URI must be specified with --store-uri")
	}

	u, err := url.Parse(storeURI)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse dataset store URI: %w", err)
	}

	switch u.Scheme {
	case "file":
		dir := u.Path
		if u.Host != "" {
			// file://relative/dir
			dir = u.Host + u.Path
		}

		logger.WithField("dir", dir).Info("using JSON file dataset store")

		store, err := jsonfile.New(dir)
		if err != nil {
			return nil, nil, err
		}

		return store, func() error { return nil }, nil
	case "postgresql", "postgres":
		logger.Info("using CDB dataset store")

		store, err := cdb.New(storeURI)
		if err != nil {
			return nil, nil, err
		}

		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported dataset store URI scheme: %q", u.Scheme)
	}
}
