package crawler

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	check "gopkg.in/check.v1"

	mock_crawler "github.com/mycok/wander/crawler/mocks"
	"github.com/mycok/wander/dataset"
	"github.com/mycok/wander/index"
)

var _ = check.Suite(new(stagesTestSuite))

type stagesTestSuite struct {
	fetcher *mock_crawler.MockFetcher
	store   *mock_crawler.MockCrawlSaver
	stats   *runStats
}

func (s *stagesTestSuite) SetUpTest(c *check.C) {
	ctrl := gomock.NewController(c)

	s.fetcher = mock_crawler.NewMockFetcher(ctrl)
	s.store = mock_crawler.NewMockCrawlSaver(ctrl)
	s.stats = new(runStats)
}

func (s *stagesTestSuite) TestRobotsGateReloadsPolicyOnDomainChange(c *check.C) {
	gomock.InOrder(
		s.fetcher.EXPECT().Fetch(gomock.Any(), "https://www.example.com/robots.txt").
			Return([]byte("User-agent: *\nDisallow: /private"), nil),
		s.fetcher.EXPECT().Fetch(gomock.Any(), "http://www.other.org/robots.txt").
			Return(nil, errors.New("connection refused")),
		s.fetcher.EXPECT().Fetch(gomock.Any(), "https://www.example.com/robots.txt").
			Return([]byte("User-agent: *\nDisallow: /public"), nil),
	)

	gate := newRobotsGate(s.fetcher, s.stats, discardLogger())

	c.Assert(s.gate(c, gate, "https://www.example.com/public"), check.Equals, true)
	c.Assert(s.gate(c, gate, "https://www.example.com/private/page"), check.Equals, false)
	// Same domain: the policy is not fetched again.
	c.Assert(s.gate(c, gate, "https://www.example.com/private"), check.Equals, false)

	// Missing robots.txt means everything is allowed.
	c.Assert(s.gate(c, gate, "http://www.other.org/private"), check.Equals, true)

	c.Assert(s.gate(c, gate, "https://www.example.com/public"), check.Equals, false)
	c.Assert(s.stats.disallowed.Load(), check.Equals, int64(3))
}

func (s *stagesTestSuite) TestRobotsGateKeepsSubdomainsOfTheActiveDomain(c *check.C) {
	s.fetcher.EXPECT().Fetch(gomock.Any(), "https://www.example.com/robots.txt").
		Return([]byte("User-agent: *\nDisallow: /x"), nil)

	gate := newRobotsGate(s.fetcher, s.stats, discardLogger())

	c.Assert(s.gate(c, gate, "https://www.example.com/x"), check.Equals, false)
	c.Assert(s.gate(c, gate, "https://www.blog.example.com/x"), check.Equals, false)
}

func (s *stagesTestSuite) TestRobotsGateHonoursCrawlDelay(c *check.C) {
	s.fetcher.EXPECT().Fetch(gomock.Any(), "https://www.example.com/robots.txt").
		Return([]byte("User-agent: *\nCrawl-delay: 0.1"), nil)

	gate := newRobotsGate(s.fetcher, s.stats, discardLogger())

	start := time.Now()
	for i := 0; i < 3; i++ {
		c.Assert(s.gate(c, gate, "https://www.example.com/page"), check.Equals, true)
	}

	// The first request passes at once, the other two wait a delay each.
	c.Assert(time.Since(start) >= 150*time.Millisecond, check.Equals, true)
}

func (s *stagesTestSuite) TestPageFetcher(c *check.C) {
	s.fetcher.EXPECT().Fetch(gomock.Any(), "https://www.example.com/page").Return([]byte("<html></html>"), nil)
	s.fetcher.EXPECT().Fetch(gomock.Any(), "https://www.example.com/missing").Return(nil, errors.New("unexpected status 404"))

	fetcher := newPageFetcher(s.fetcher, s.stats, discardLogger())

	p := &crawlerPayload{URL: "https://www.example.com/page"}
	out, err := fetcher.Process(context.TODO(), p)
	c.Assert(err, check.IsNil)
	c.Assert(out, check.Equals, p)
	c.Assert(p.RawContent.String(), check.Equals, "<html></html>")

	out, err = fetcher.Process(context.TODO(), &crawlerPayload{URL: "https://www.example.com/missing"})
	c.Assert(err, check.IsNil)
	c.Assert(out, check.IsNil)

	// Never fetched.
	out, err = fetcher.Process(context.TODO(), &crawlerPayload{URL: "https://www.example.com/logo.PNG"})
	c.Assert(err, check.IsNil)
	c.Assert(out, check.IsNil)

	c.Assert(s.stats.fetched.Load(), check.Equals, int64(1))
	c.Assert(s.stats.skipped.Load(), check.Equals, int64(2))
}

func (s *stagesTestSuite) TestIndexUpdaterRecordsOnlyNewLinks(c *check.C) {
	frontier := NewFrontier()
	frontier.Seed("https://www.a.com")
	_, _ = frontier.Dequeue()
	frontier.Enqueue("https://www.b.com")

	s.store.EXPECT().SaveCrawl(
		gomock.Any(),
		dataset.KeywordIndex{"gopher": {{URL: "https://www.a.com", Count: 2}}},
		dataset.LinkGraph{"https://www.a.com": {"https://www.c.com"}},
	).Return(nil)

	updater := newIndexUpdater(frontier, index.NewBuilder(), s.store, discardLogger())

	p := &crawlerPayload{
		URL:      "https://www.a.com",
		Links:    []string{"https://www.a.com", "https://www.b.com", "https://www.c.com"},
		Keywords: []keywordCount{{Keyword: "gopher", Count: 2}},
	}

	out, err := updater.Process(context.TODO(), p)
	c.Assert(err, check.IsNil)
	c.Assert(out, check.Equals, p)

	c.Assert(frontier.Len(), check.Equals, 2)
	c.Assert(frontier.Visited("https://www.c.com"), check.Equals, true)
}

func (s *stagesTestSuite) TestIndexUpdaterPersistenceFailureIsFatal(c *check.C) {
	s.store.EXPECT().SaveCrawl(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(dataset.ErrPersistence)

	updater := newIndexUpdater(NewFrontier(), index.NewBuilder(), s.store, discardLogger())

	_, err := updater.Process(context.TODO(), &crawlerPayload{URL: "https://www.a.com"})
	c.Assert(errors.Is(err, dataset.ErrPersistence), check.Equals, true)
}

func (s *stagesTestSuite) TestPayloadReleasesSource(c *check.C) {
	frontier := NewFrontier()
	frontier.Seed("https://www.a.com")
	frontier.Enqueue("https://www.b.com")

	src := newFrontierSource(frontier, s.stats, 0)
	c.Assert(src.Next(context.TODO()), check.Equals, true)
	first := src.Payload().(*crawlerPayload)
	c.Assert(first.URL, check.Equals, "https://www.a.com")

	// The next URL is held back until the first payload is processed.
	ctx, cancel := context.WithTimeout(context.TODO(), 50*time.Millisecond)
	defer cancel()
	c.Assert(src.Next(ctx), check.Equals, false)

	first.MarkAsProcessed()
	c.Assert(src.Next(context.TODO()), check.Equals, true)
	c.Assert(src.Payload().(*crawlerPayload).URL, check.Equals, "https://www.b.com")
}

func (s *stagesTestSuite) TestSourceStopsAtMaxPages(c *check.C) {
	frontier := NewFrontier()
	frontier.Seed("https://www.a.com")
	frontier.Enqueue("https://www.b.com")

	src := newFrontierSource(frontier, s.stats, 1)
	c.Assert(src.Next(context.TODO()), check.Equals, true)

	s.stats.fetched.Add(1)
	src.Payload().MarkAsProcessed()

	c.Assert(src.Next(context.TODO()), check.Equals, false)
	c.Assert(frontier.Len(), check.Equals, 1)
}

func (s *stagesTestSuite) gate(c *check.C, gate *robotsGate, url string) bool {
	out, err := gate.Process(context.TODO(), &crawlerPayload{URL: url})
	c.Assert(err, check.IsNil)

	return out != nil
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return logrus.NewEntry(l)
}
