/*
	cdb package persists the wander datasets in a CockroachDB (or any
	PostgreSQL compatible) database. Each save replaces the table contents
	inside a single transaction, bulk loading the rows with COPY.
*/

package cdb

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"

	"github.com/mycok/wander/dataset"
)

const pingTimeout = 2 * time.Second

var schema = []string{
	`CREATE TABLE IF NOT EXISTS keyword_postings (
		keyword TEXT NOT NULL,
		position INT NOT NULL,
		url TEXT NOT NULL,
		count FLOAT8 NOT NULL,
		PRIMARY KEY (keyword, position)
	)`,
	`CREATE TABLE IF NOT EXISTS outgoing_links (
		src TEXT NOT NULL,
		position INT NOT NULL,
		dest TEXT,
		PRIMARY KEY (src, position)
	)`,
	`CREATE TABLE IF NOT EXISTS tfidf (
		keyword TEXT NOT NULL,
		position INT NOT NULL,
		url TEXT NOT NULL,
		score FLOAT8 NOT NULL,
		PRIMARY KEY (keyword, position)
	)`,
	`CREATE TABLE IF NOT EXISTS pagerank (
		url TEXT PRIMARY KEY,
		score FLOAT8 NOT NULL
	)`,
}

const (
	loadPostingsQuery = "SELECT keyword, url, count FROM keyword_postings ORDER BY keyword, position"
	loadLinksQuery    = "SELECT src, dest FROM outgoing_links ORDER BY src, position"
	loadTFIDFQuery    = "SELECT keyword, url, score FROM tfidf ORDER BY keyword, position"
	loadPageRankQuery = "SELECT url, score FROM pagerank"
)

var (
	_ dataset.CrawlStore  = (*Store)(nil)
	_ dataset.RankedStore = (*Store)(nil)
)

// Store is a SQL backed dataset store.
type Store struct {
	db *sql.DB
}

// New connects to the database at dsn and makes sure the dataset tables
// exist.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", dataset.ErrPersistence, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %w", dataset.ErrPersistence, err)
	}

	for _, stmt := range schema {
		if _, err = db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: create schema: %w", dataset.ErrPersistence, err)
		}
	}

	return &Store{db: db}, nil
}

// Close terminates the connection to the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCrawl implements dataset.CrawlStore.
func (s *Store) SaveCrawl(ctx context.Context, keywords dataset.KeywordIndex, links dataset.LinkGraph) error {
	return s.replace(ctx, func(tx *sql.Tx) error {
		err := copyRows(ctx, tx, "keyword_postings", []string{"keyword", "position", "url", "count"},
			func(emit func(...interface{}) error) error {
				for _, keyword := range sortedKeys(keywords) {
					for i, p := range keywords[keyword] {
						if err := emit(keyword, i, p.URL, p.Count); err != nil {
							return err
						}
					}
				}

				return nil
			})
		if err != nil {
			return err
		}

		return copyRows(ctx, tx, "outgoing_links", []string{"src", "position", "dest"},
			func(emit func(...interface{}) error) error {
				for _, src := range sortedKeys(links) {
					// A NULL destination keeps pages without outbound links.
					if len(links[src]) == 0 {
						if err := emit(src, 0, nil); err != nil {
							return err
						}

						continue
					}

					for i, dst := range links[src] {
						if err := emit(src, i, dst); err != nil {
							return err
						}
					}
				}

				return nil
			})
	}, "keyword_postings", "outgoing_links")
}

// LoadCrawl implements dataset.CrawlStore.
func (s *Store) LoadCrawl(ctx context.Context) (dataset.KeywordIndex, dataset.LinkGraph, error) {
	keywords := make(dataset.KeywordIndex)
	err := s.query(ctx, loadPostingsQuery, func(rows *sql.Rows) error {
		var (
			keyword string
			p       dataset.Posting
		)
		if err := rows.Scan(&keyword, &p.URL, &p.Count); err != nil {
			return err
		}

		keywords[keyword] = append(keywords[keyword], p)

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	links := make(dataset.LinkGraph)
	err = s.query(ctx, loadLinksQuery, func(rows *sql.Rows) error {
		var (
			src  string
			dest sql.NullString
		)
		if err := rows.Scan(&src, &dest); err != nil {
			return err
		}

		if _, ok := links[src]; !ok {
			links[src] = []string{}
		}

		if dest.Valid {
			links[src] = append(links[src], dest.String)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if len(keywords) == 0 && len(links) == 0 {
		return nil, nil, fmt.Errorf("%w: crawl tables are empty: %w", dataset.ErrPersistence, dataset.ErrNotFound)
	}

	return keywords, links, nil
}

// SaveRanked implements dataset.RankedStore.
func (s *Store) SaveRanked(ctx context.Context, tfidf dataset.TFIDFTable, ranks dataset.PageRankTable) error {
	return s.replace(ctx, func(tx *sql.Tx) error {
		err := copyRows(ctx, tx, "tfidf", []string{"keyword", "position", "url", "score"},
			func(emit func(...interface{}) error) error {
				for _, keyword := range sortedKeys(tfidf) {
					for i, w := range tfidf[keyword] {
						if err := emit(keyword, i, w.URL, w.TFIDF); err != nil {
							return err
						}
					}
				}

				return nil
			})
		if err != nil {
			return err
		}

		return copyRows(ctx, tx, "pagerank", []string{"url", "score"},
			func(emit func(...interface{}) error) error {
				for _, url := range sortedKeys(ranks) {
					if err := emit(url, ranks[url]); err != nil {
						return err
					}
				}

				return nil
			})
	}, "tfidf", "pagerank")
}

// LoadRanked implements dataset.RankedStore.
func (s *Store) LoadRanked(ctx context.Context) (dataset.TFIDFTable, dataset.PageRankTable, error) {
	tfidf := make(dataset.TFIDFTable)
	err := s.query(ctx, loadTFIDFQuery, func(rows *sql.Rows) error {
		var (
			keyword string
			w       dataset.Weight
		)
		if err := rows.Scan(&keyword, &w.URL, &w.TFIDF); err != nil {
			return err
		}

		tfidf[keyword] = append(tfidf[keyword], w)

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	ranks := make(dataset.PageRankTable)
	err = s.query(ctx, loadPageRankQuery, func(rows *sql.Rows) error {
		var (
			url   string
			score float64
		)
		if err := rows.Scan(&url, &score); err != nil {
			return err
		}

		ranks[url] = score

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if len(tfidf) == 0 && len(ranks) == 0 {
		return nil, nil, fmt.Errorf("%w: ranked tables are empty: %w", dataset.ErrPersistence, dataset.ErrNotFound)
	}

	return tfidf, ranks, nil
}

// replace truncates tables and refills them through fill within a single
// transaction.
func (s *Store) replace(ctx context.Context, fill func(*sql.Tx) error, tables ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", dataset.ErrPersistence, err)
	}

	for _, table := range tables {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+pq.QuoteIdentifier(table)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: clear %s: %w", dataset.ErrPersistence, table, err)
		}
	}

	if err = fill(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %w", dataset.ErrPersistence, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", dataset.ErrPersistence, err)
	}

	return nil
}

func (s *Store) query(ctx context.Context, query string, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: query: %w", dataset.ErrPersistence, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err = scan(rows); err != nil {
			return fmt.Errorf("%w: scan: %w", dataset.ErrPersistence, err)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate: %w", dataset.ErrPersistence, err)
	}

	return nil
}

// copyRows bulk loads the rows produced by generate into table using the
// COPY protocol.
func copyRows(
	ctx context.Context, tx *sql.Tx, table string, columns []string,
	generate func(emit func(...interface{}) error) error,
) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
	if err != nil {
		return fmt.Errorf("prepare copy into %s: %w", table, err)
	}

	err = generate(func(values ...interface{}) error {
		_, err := stmt.ExecContext(ctx, values...)
		return err
	})
	if err != nil {
		_ = stmt.Close()
		return fmt.Errorf("copy into %s: %w", table, err)
	}

	// An argument-less Exec flushes the buffered rows.
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("flush copy into %s: %w", table, err)
	}

	return stmt.Close()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
