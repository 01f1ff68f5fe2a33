package ranker_test

import (
	"math"
	"sync"
	"testing"

	check "gopkg.in/check.v1"

	"github.com/mycok/wander/dataset"
	"github.com/mycok/wander/ranker"
	"github.com/mycok/wander/textproc"
)

var _ = check.Suite(new(rankerTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type rankerTestSuite struct{}

func (s *rankerTestSuite) TestCosineOrdersByTextRelevance(c *check.C) {
	r := ranker.New(dataset.TFIDFTable{
		"cat": {{URL: "doc2", TFIDF: 1.0}, {URL: "doc1", TFIDF: 0.5}},
		"dog": {{URL: "doc1", TFIDF: 0.5}},
	}, dataset.PageRankTable{"doc1": 0.5, "doc2": 0.5}, textproc.Identity)

	results := r.Rank("cat dog")
	c.Assert(results, check.HasLen, 2)
	c.Assert(results[0].URL, check.Equals, "doc1")
	c.Assert(results[1].URL, check.Equals, "doc2")

	// doc1 points in the same direction as the query.
	assertClose(c, results[0].Score, 0.7*1.0+0.3*0.5)
	assertClose(c, results[1].Score, 0.7*math.Sqrt(0.5)+0.3*0.5)
}

func (s *rankerTestSuite) TestPageRankBreaksTextTies(c *check.C) {
	r := ranker.New(dataset.TFIDFTable{
		"gopher": {{URL: "a", TFIDF: 2.0}, {URL: "b", TFIDF: 1.0}},
	}, dataset.PageRankTable{"a": 0.1, "b": 0.9}, textproc.Identity)

	results := r.Rank("gopher")
	c.Assert(results, check.HasLen, 2)
	c.Assert(results[0].URL, check.Equals, "b")
	c.Assert(results[1].URL, check.Equals, "a")
	assertClose(c, results[0].Score, 0.7+0.3*0.9)
	assertClose(c, results[1].Score, 0.7+0.3*0.1)
}

func (s *rankerTestSuite) TestDocumentsWithoutPageRankUseCosineOnly(c *check.C) {
	r := ranker.New(dataset.TFIDFTable{
		"gopher": {{URL: "ranked", TFIDF: 1.0}, {URL: "unranked", TFIDF: 1.0}},
	}, dataset.PageRankTable{"ranked": 0.0}, textproc.Identity)

	results := r.Rank("gopher")
	c.Assert(results, check.DeepEquals, []ranker.Result{
		{URL: "unranked", Score: 1.0},
		{URL: "ranked", Score: 0.7},
	})
}

func (s *rankerTestSuite) TestTiesKeepAccumulationOrder(c *check.C) {
	r := ranker.New(dataset.TFIDFTable{
		"x": {{URL: "first", TFIDF: 1.0}, {URL: "second", TFIDF: 2.0}},
		"y": {{URL: "third", TFIDF: 4.0}},
	}, nil, textproc.Identity)

	results := r.Rank("x y")
	c.Assert(results, check.HasLen, 3)
	c.Assert([]string{results[0].URL, results[1].URL, results[2].URL}, check.DeepEquals,
		[]string{"first", "second", "third"})
}

func (s *rankerTestSuite) TestQueryNormalization(c *check.C) {
	r := ranker.New(dataset.TFIDFTable{
		"run": {{URL: "doc", TFIDF: 1.0}},
	}, nil, textproc.Snowball{})

	results := r.Rank("RUNNING!!")
	c.Assert(results, check.HasLen, 1)
	c.Assert(results[0].URL, check.Equals, "doc")
}

func (s *rankerTestSuite) TestLookupMisses(c *check.C) {
	r := ranker.New(dataset.TFIDFTable{
		"cat":  {{URL: "doc", TFIDF: 1.0}},
		"zero": {{URL: "empty", TFIDF: 0.0}},
	}, nil, textproc.Identity)

	c.Assert(r.Rank("unknown words"), check.HasLen, 0)
	c.Assert(r.Rank(""), check.HasLen, 0)
	c.Assert(r.Rank("   "), check.HasLen, 0)

	// A document with no magnitude has no defined cosine.
	c.Assert(r.Rank("zero"), check.HasLen, 0)
}

func (s *rankerTestSuite) TestRepeatedTermsWeighTheQuery(c *check.C) {
	r := ranker.New(dataset.TFIDFTable{
		"cat": {{URL: "cats", TFIDF: 1.0}},
		"dog": {{URL: "dogs", TFIDF: 1.0}},
	}, nil, textproc.Identity)

	results := r.Rank("cat cat dog")
	c.Assert(results, check.HasLen, 2)
	c.Assert(results[0].URL, check.Equals, "cats")
	assertClose(c, results[0].Score, 2/math.Sqrt(5))
	assertClose(c, results[1].Score, 1/math.Sqrt(5))
}

func (s *rankerTestSuite) TestConcurrentQueries(c *check.C) {
	r := ranker.New(dataset.TFIDFTable{
		"cat": {{URL: "doc1", TFIDF: 0.5}, {URL: "doc2", TFIDF: 1.0}},
		"dog": {{URL: "doc1", TFIDF: 0.5}},
	}, dataset.PageRankTable{"doc1": 0.4, "doc2": 0.6}, textproc.Identity)

	want := r.Rank("cat dog")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Check(r.Rank("cat dog"), check.DeepEquals, want)
		}()
	}
	wg.Wait()
}

func assertClose(c *check.C, got, want float64) {
	c.Assert(math.Abs(got-want) < 1e-9, check.Equals, true, check.Commentf("got %f, want %f", got, want))
}
