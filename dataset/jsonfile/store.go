/*
	jsonfile package persists the crawl and ranked datasets as pretty-printed
	JSON documents inside a single data directory. Every write replaces the
	whole file atomically: the document is written to a temp file in the same
	directory which is then renamed over the previous version.
*/

package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mycok/wander/dataset"
)

// Dataset file names.
const (
	KeywordsFile      = "keywords.json"
	OutgoingLinksFile = "outgoing_links.json"
	TFIDFFile         = "tfidf.json"
	PageRankFile      = "pagerank.json"
)

const indent = "    "

var (
	_ dataset.CrawlStore  = (*Store)(nil)
	_ dataset.RankedStore = (*Store)(nil)
)

// Store reads and writes dataset files under a directory.
type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir %q: %w", dataset.ErrPersistence, dir, err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string { return s.dir }

// SaveCrawl implements dataset.CrawlStore.
func (s *Store) SaveCrawl(_ context.Context, keywords dataset.KeywordIndex, links dataset.LinkGraph) error {
	if err := s.write(KeywordsFile, keywords); err != nil {
		return err
	}

	return s.write(OutgoingLinksFile, links)
}

// LoadCrawl implements dataset.CrawlStore.
func (s *Store) LoadCrawl(_ context.Context) (dataset.KeywordIndex, dataset.LinkGraph, error) {
	keywords := make(dataset.KeywordIndex)
	if err := s.read(KeywordsFile, &keywords); err != nil {
		return nil, nil, err
	}

	links := make(dataset.LinkGraph)
	if err := s.read(OutgoingLinksFile, &links); err != nil {
		return nil, nil, err
	}

	return keywords, links, nil
}

// SaveRanked implements dataset.RankedStore.
func (s *Store) SaveRanked(_ context.Context, tfidf dataset.TFIDFTable, ranks dataset.PageRankTable) error {
	if err := s.write(TFIDFFile, tfidf); err != nil {
		return err
	}

	return s.write(PageRankFile, ranks)
}

// LoadRanked implements dataset.RankedStore.
func (s *Store) LoadRanked(_ context.Context) (dataset.TFIDFTable, dataset.PageRankTable, error) {
	tfidf := make(dataset.TFIDFTable)
	if err := s.read(TFIDFFile, &tfidf); err != nil {
		return nil, nil, err
	}

	ranks := make(dataset.PageRankTable)
	if err := s.read(PageRankFile, &ranks); err != nil {
		return nil, nil, err
	}

	return tfidf, ranks, nil
}

func (s *Store) write(name string, v interface{}) error {
	target := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create %q: %w", dataset.ErrPersistence, target, err)
	}

	// Removing an already renamed temp file is a no-op.
	defer func() { _ = os.Remove(tmp.Name()) }()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", indent)

	if err = enc.Encode(v); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: encode %q: %w", dataset.ErrPersistence, target, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: flush %q: %w", dataset.ErrPersistence, target, err)
	}

	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("%w: replace %q: %w", dataset.ErrPersistence, target, err)
	}

	return nil
}

func (s *Store) read(name string, v interface{}) error {
	target := filepath.Join(s.dir, name)

	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q: %w", dataset.ErrPersistence, target, dataset.ErrNotFound)
		}

		return fmt.Errorf("%w: read %q: %w", dataset.ErrPersistence, target, err)
	}

	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %q: %w", dataset.ErrPersistence, target, err)
	}

	return nil
}
