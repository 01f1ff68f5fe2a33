package crawler

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mycok/wander/pipeline"
	"github.com/mycok/wander/robots"
	"github.com/mycok/wander/urlcanon"
)

var _ pipeline.Processor = (*robotsGate)(nil)

// robotsGate drops payloads that the robots.txt of their host disallows and
// paces the remaining ones according to its Crawl-delay. The policy is
// rebuilt whenever the domain of the incoming URL differs from the domain
// of the previous one.
type robotsGate struct {
	fetcher Fetcher
	logger  *logrus.Entry
	stats   *runStats

	activeDomain string
	policy       *robots.Policy
	limiter      *rate.Limiter
}

func newRobotsGate(fetcher Fetcher, stats *runStats, logger *logrus.Entry) *robotsGate {
	return &robotsGate{
		fetcher: fetcher,
		stats:   stats,
		logger:  logger,
		policy:  robots.Permissive(),
	}
}

func (g *robotsGate) Process(ctx context.Context, payload pipeline.Payload) (pipeline.Payload, error) {
	cPayload, ok := payload.(*crawlerPayload)
	if !ok {
		return nil, nil
	}

	if domain := urlcanon.Domain(cPayload.URL); domain != g.activeDomain {
		g.switchDomain(ctx, domain, cPayload.URL)
	}

	if !g.policy.IsAllowed(cPayload.URL) {
		g.stats.disallowed.Add(1)
		g.logger.WithFields(logrus.Fields{
			"url":    cPayload.URL,
			"domain": g.activeDomain,
		}).Info("skipping page disallowed by robots.txt")

		return nil, nil
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			// Only fails once the crawl is being torn down.
			return nil, nil
		}
	}

	return cPayload, nil
}

func (g *robotsGate) switchDomain(ctx context.Context, domain, pageURL string) {
	g.activeDomain = domain
	g.policy = robots.Permissive()
	g.limiter = nil

	robotsURL := robotsLocation(pageURL)
	body, err := g.fetcher.Fetch(ctx, robotsURL)
	if err != nil {
		g.logger.WithFields(logrus.Fields{
			"url":    robotsURL,
			"domain": domain,
			"err":    err,
		}).Debug("robots.txt unavailable, assuming everything is allowed")

		return
	}

	g.policy = robots.Parse(body)
	if delay := g.policy.CrawlDelay(); delay > 0 {
		g.limiter = rate.NewLimiter(rate.Every(delay), 1)
	}

	g.logger.WithFields(logrus.Fields{
		"domain":      domain,
		"disallowed":  len(g.policy.DisallowedPaths()),
		"crawl_delay": g.policy.CrawlDelay().String(),
	}).Debug("loaded robots.txt")
}

// robotsLocation returns the robots.txt URL for the host serving pageURL.
func robotsLocation(pageURL string) string {
	scheme := "http"
	if idx := strings.Index(pageURL, "://"); idx > 0 {
		scheme = pageURL[:idx]
	}

	return scheme + "://" + urlcanon.Authority(pageURL) + "/robots.txt"
}
