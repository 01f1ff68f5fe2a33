package crawler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/golang/mock/gomock"
	check "gopkg.in/check.v1"

	"github.com/mycok/wander/crawler"
	mock_crawler "github.com/mycok/wander/crawler/mocks"
	"github.com/mycok/wander/dataset"
	"github.com/mycok/wander/dataset/jsonfile"
	"github.com/mycok/wander/httpfetch"
	"github.com/mycok/wander/textproc"
)

var _ = check.Suite(new(crawlerIntegrationTestSuite))

type crawlerIntegrationTestSuite struct {
	srv       *httptest.Server
	secretHit bool
}

func (s *crawlerIntegrationTestSuite) SetUpTest(c *check.C) {
	s.secretHit = false

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /secret\n")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		fmt.Fprint(w, `<html><head><title>Gopher home</title></head><body>
<a href="/about">About</a>
<a href="/secret/plans">Plans</a>
<a href="/about">Again</a>
<a href="/broken">Broken</a>
<a href="/logo.png">Logo</a>
</body></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><h1>About gophers</h1>
<a href="/">Back</a>
<a href="/team/">Team</a>
</body></html>`)
	})
	mux.HandleFunc("/team", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>Team</title></head><body></body></html>`)
	})
	mux.HandleFunc("/secret/", func(w http.ResponseWriter, _ *http.Request) {
		s.secretHit = true
		fmt.Fprint(w, `<html></html>`)
	})

	s.srv = httptest.NewServer(mux)
}

func (s *crawlerIntegrationTestSuite) TearDownTest(c *check.C) {
	s.srv.Close()
}

func (s *crawlerIntegrationTestSuite) TestCrawl(c *check.C) {
	store, err := jsonfile.New(c.MkDir())
	c.Assert(err, check.IsNil)

	cr, err := crawler.New(crawler.Config{
		Fetcher:    httpfetch.New(httpfetch.Config{}),
		Store:      store,
		Lemmatizer: textproc.Identity,
	})
	c.Assert(err, check.IsNil)

	stats, err := cr.Crawl(context.TODO(), s.srv.URL+"/")
	c.Assert(err, check.IsNil)
	c.Assert(s.secretHit, check.Equals, false)

	c.Assert(stats, check.DeepEquals, crawler.Stats{
		Fetched:    3,
		Indexed:    3,
		Disallowed: 1,
		Skipped:    2,
		Visited:    6,
	})

	keywords, links, err := store.LoadCrawl(context.TODO())
	c.Assert(err, check.IsNil)

	root := s.srv.URL
	c.Assert(links, check.DeepEquals, dataset.LinkGraph{
		root:            {root + "/about", root + "/secret/plans", root + "/broken", root + "/logo.png"},
		root + "/about": {root + "/team"},
		root + "/team":  {},
	})
	c.Assert(keywords, check.DeepEquals, dataset.KeywordIndex{
		"gopher":  {{URL: root, Count: 1}},
		"home":    {{URL: root, Count: 1}},
		"gophers": {{URL: root + "/about", Count: 1}},
		"team":    {{URL: root + "/team", Count: 1}},
	})
}

func (s *crawlerIntegrationTestSuite) TestCrawlStopsAtMaxPages(c *check.C) {
	store, err := jsonfile.New(c.MkDir())
	c.Assert(err, check.IsNil)

	cr, err := crawler.New(crawler.Config{
		Fetcher:  httpfetch.New(httpfetch.Config{}),
		Store:    store,
		MaxPages: 1,
	})
	c.Assert(err, check.IsNil)

	stats, err := cr.Crawl(context.TODO(), s.srv.URL)
	c.Assert(err, check.IsNil)
	c.Assert(stats.Fetched, check.Equals, 1)
	c.Assert(stats.Visited, check.Equals, 5)

	_, links, err := store.LoadCrawl(context.TODO())
	c.Assert(err, check.IsNil)
	c.Assert(links, check.HasLen, 1)
}

func (s *crawlerIntegrationTestSuite) TestPersistenceFailureAbortsCrawl(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	store := mock_crawler.NewMockCrawlSaver(ctrl)
	store.EXPECT().SaveCrawl(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("%w: disk full", dataset.ErrPersistence))

	cr, err := crawler.New(crawler.Config{
		Fetcher: httpfetch.New(httpfetch.Config{}),
		Store:   store,
	})
	c.Assert(err, check.IsNil)

	stats, err := cr.Crawl(context.TODO(), s.srv.URL)
	c.Assert(errors.Is(err, dataset.ErrPersistence), check.Equals, true)
	c.Assert(stats.Indexed, check.Equals, 0)
}

func (s *crawlerIntegrationTestSuite) TestCrawlHonoursContext(c *check.C) {
	store, err := jsonfile.New(c.MkDir())
	c.Assert(err, check.IsNil)

	cr, err := crawler.New(crawler.Config{
		Fetcher: httpfetch.New(httpfetch.Config{}),
		Store:   store,
	})
	c.Assert(err, check.IsNil)

	ctx, cancel := context.WithCancel(context.TODO())
	cancel()

	_, err = cr.Crawl(ctx, s.srv.URL)
	c.Assert(errors.Is(err, context.Canceled), check.Equals, true)
}

func (s *crawlerIntegrationTestSuite) TestInvalidSeed(c *check.C) {
	cr, err := crawler.New(crawler.Config{
		Fetcher: httpfetch.New(httpfetch.Config{}),
		Store:   new(jsonfile.Store),
	})
	c.Assert(err, check.IsNil)

	_, err = cr.Crawl(context.TODO(), "ftp://example.com")
	c.Assert(err, check.ErrorMatches, `crawler: invalid seed "ftp://example.com".*`)
}

func (s *crawlerIntegrationTestSuite) TestConfigValidation(c *check.C) {
	_, err := crawler.New(crawler.Config{MaxPages: -1})
	c.Assert(err, check.ErrorMatches, "(?s)crawler: config validation failed:.*fetcher not provided.*crawl store not provided.*max pages.*")
}
