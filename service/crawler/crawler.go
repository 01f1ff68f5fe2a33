package crawler

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mycok/wander/crawler"
)

// Service runs crawl passes from a fixed seed. It satisfies the
// service.Service interface.
type Service struct {
	cfg     Config
	crawler *crawler.Crawler
}

// New creates and returns a fully configured crawler service instance.
func New(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("crawler service: config validation failed: %w", err)
	}

	c, err := crawler.New(crawler.Config{
		Fetcher:    cfg.Fetcher,
		Store:      cfg.Store,
		Lemmatizer: cfg.Lemmatizer,
		MaxPages:   cfg.MaxPages,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("crawler service: %w", err)
	}

	return &Service{cfg: cfg, crawler: c}, nil
}

// Name returns the name of the service.
func (svc *Service) Name() string { return "crawler" }

// Run executes a crawl pass right away and, when an update interval is
// configured, another one every time the interval elapses. It blocks until
// the last pass completes, the context gets cancelled or a pass fails.
func (svc *Service) Run(ctx context.Context) error {
	svc.cfg.Logger.WithField(
		"update_interval", svc.cfg.UpdateInterval.String(),
	).Info("started service")
	defer svc.cfg.Logger.Info("stopped service")

	for {
		if err := svc.crawl(ctx); err != nil {
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

func (svc *Service) crawl(ctx context.Context) error {
	svc.cfg.Logger.Info("started crawl pass")
	startedAt := svc.cfg.Clock.Now()

	stats, err := svc.crawler.Crawl(ctx, svc.cfg.Seed)
	if err != nil {
		return err
	}

	svc.cfg.Logger.WithFields(logrus.Fields{
		"fetched_pages":    stats.Fetched,
		"indexed_pages":    stats.Indexed,
		"disallowed_pages": stats.Disallowed,
		"skipped_pages":    stats.Skipped,
		"visited_urls":     stats.Visited,
		"elapsed_time":     svc.cfg.Clock.Now().Sub(startedAt).String(),
	}).Info("completed crawl pass")

	return nil
}
