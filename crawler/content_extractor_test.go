package crawler

import (
	"context"
	"strings"

	"github.com/golang/mock/gomock"
	check "gopkg.in/check.v1"

	mock_crawler "github.com/mycok/wander/crawler/mocks"
	"github.com/mycok/wander/textproc"
)

var _ = check.Suite(new(contentExtractorTestSuite))

type contentExtractorTestSuite struct{}

func (s *contentExtractorTestSuite) TestLinksResolvedAgainstPage(c *check.C) {
	page := `<html><body>
<a href="../c">up</a>
<a href="d?q=1#section">query</a>
<a href="#top">fragment only</a>
<a>no href</a>
<a href="mailto:someone@example.com">mail</a>
<a href="javascript:void(0)">script</a>
<a href="//Cdn.Example.com/assets/">protocol relative</a>
<a href="HTTPS://Other.org/Path/">absolute</a>
<a href="../c">duplicate</a>
</body></html>`

	content := s.extract(c, "http://www.example.com/a/b", page, textproc.Identity)
	c.Assert(content.Links, check.DeepEquals, []string{
		"http://www.example.com/c",
		"http://www.example.com/a/d?q=1",
		"http://www.cdn.example.com/assets",
		"https://www.other.org/Path",
	})
	c.Assert(content.Keywords, check.HasLen, 0)
}

func (s *contentExtractorTestSuite) TestBaseHrefOverridesResolutionBase(c *check.C) {
	page := `<html>
<head><base href="http://Other.com/dir"/></head>
<body>
<a href="page">relative to base</a>
<a href="/abs">absolute path</a>
</body></html>`

	content := s.extract(c, "http://www.example.com/a/b", page, textproc.Identity)
	c.Assert(content.Links, check.DeepEquals, []string{
		"http://www.other.com/dir/page",
		"http://www.other.com/abs",
	})
}

func (s *contentExtractorTestSuite) TestKeywordsFromTitleAndHeadings(c *check.C) {
	page := `<html>
<head><title>Cats and Dogs</title></head>
<body>
<h1>Running <em>cats</em></h1>
<h2>C3PO</h2>
<h3><a href="/more">More</a></h3>
<p>Not a heading: parrots</p>
</body></html>`

	content := s.extract(c, "http://www.example.com", page, textproc.Identity)
	c.Assert(content.Keywords, check.DeepEquals, []keywordCount{
		{Keyword: "cats", Count: 2},
		{Keyword: "dogs", Count: 1},
		{Keyword: "running", Count: 1},
		// "more" is a stop word; "cpo" never occurs in the page text.
	})
	c.Assert(content.Links, check.DeepEquals, []string{"http://www.example.com/more"})
}

func (s *contentExtractorTestSuite) TestKeywordCountsOverlappingOccurrences(c *check.C) {
	page := `<html><head><title>aa</title></head><body>aaaa</body></html>`

	content := s.extract(c, "http://www.example.com", page, textproc.Identity)
	// "aa" occurs once in the title and three times in "aaaa".
	c.Assert(content.Keywords, check.DeepEquals, []keywordCount{{Keyword: "aa", Count: 4}})
}

func (s *contentExtractorTestSuite) TestKeywordsAreLemmatized(c *check.C) {
	page := `<html><head><title>Walking</title></head><body>walk walking</body></html>`

	content := s.extract(c, "http://www.example.com", page, textproc.Snowball{})
	// "walk" is counted inside both occurrences of "walking" too.
	c.Assert(content.Keywords, check.DeepEquals, []keywordCount{{Keyword: "walk", Count: 3}})
}

func (s *contentExtractorTestSuite) TestDefaultLemmatizerKeepsDictionaryForms(c *check.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	cfg := &Config{
		Fetcher: mock_crawler.NewMockFetcher(ctrl),
		Store:   mock_crawler.NewMockCrawlSaver(ctrl),
	}
	c.Assert(cfg.validate(), check.IsNil)

	page := `<html><head><title>Happy Company Policy</title></head>
<body><h1>Companies</h1><p>happy company policy</p></body></html>`

	content := s.extract(c, "http://www.example.com", page, cfg.Lemmatizer)
	c.Assert(content.Keywords, check.DeepEquals, []keywordCount{
		{Keyword: "happy", Count: 2},
		// "companies" does not contain "company", so the heading adds nothing.
		{Keyword: "company", Count: 2},
		{Keyword: "policy", Count: 2},
	})
}

func (s *contentExtractorTestSuite) TestProcessorFillsPayload(c *check.C) {
	p := &crawlerPayload{URL: "http://www.example.com"}
	_, err := p.RawContent.WriteString(`<html><head><title>Gophers</title></head><body><a href="/x">x</a></body></html>`)
	c.Assert(err, check.IsNil)

	proc := newContentExtractor(textproc.Identity, new(runStats), discardLogger())
	out, err := proc.Process(context.TODO(), p)
	c.Assert(err, check.IsNil)
	c.Assert(out, check.Equals, p)
	c.Assert(p.Links, check.DeepEquals, []string{"http://www.example.com/x"})
	c.Assert(p.Keywords, check.DeepEquals, []keywordCount{{Keyword: "gophers", Count: 1}})
}

func (s *contentExtractorTestSuite) extract(c *check.C, pageURL, page string, lem textproc.Lemmatizer) pageContent {
	root, err := parsePage([]byte(page))
	c.Assert(err, check.IsNil)

	return extractContent(root, pageURL, strings.ToLower(page), lem)
}
