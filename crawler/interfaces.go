package crawler

import (
	"context"

	"github.com/mycok/wander/dataset"
)

//go:generate mockgen -package mock_crawler -destination mocks/mock.go github.com/mycok/wander/crawler Fetcher,CrawlSaver

// Fetcher should be implemented by objects that retrieve the raw body of a
// page. Any returned error means the page could not be retrieved.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CrawlSaver should be implemented by objects that persist the crawl
// datasets. Every call replaces the previously saved datasets.
type CrawlSaver interface {
	SaveCrawl(ctx context.Context, keywords dataset.KeywordIndex, links dataset.LinkGraph) error
}
