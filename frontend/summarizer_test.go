package frontend

import (
	check "gopkg.in/check.v1"
)

var _ = check.Suite(new(summarizerTestSuite))

type summarizerTestSuite struct{}

func (s *summarizerTestSuite) TestSplitSentences(c *check.C) {
	c.Assert(splitSentences("Pi is 3.14 today. Next one!  Really? Last"), check.DeepEquals, []string{
		"Pi is 3.14 today.",
		"Next one!",
		"Really?",
		"Last",
	})
	c.Assert(splitSentences("   "), check.HasLen, 0)
}

func (s *summarizerTestSuite) TestSummaryKeepsDocumentOrder(c *check.C) {
	summarizer := newMatchSummarizer("cats", 256)

	got := summarizer.Summary("Cats purr. Dogs bark. Birds sing. Cats sleep all day.")
	c.Assert(got, check.Equals, "Cats purr. ... Cats sleep all day.")

	got = summarizer.Summary("Cats purr. Cats sleep. Dogs bark.")
	c.Assert(got, check.Equals, "Cats purr. Cats sleep.")
}

func (s *summarizerTestSuite) TestSummaryPrefersDenseMatches(c *check.C) {
	summarizer := newMatchSummarizer("gopher", 12)

	// The second sentence has the better ratio and uses up the budget.
	got := summarizer.Summary("A very long sentence about a gopher. Gopher rules.")
	c.Assert(got, check.Equals, "Gopher rules...")
}

func (s *summarizerTestSuite) TestSummaryWithoutMatches(c *check.C) {
	c.Assert(newMatchSummarizer("zebra", 256).Summary("Cats purr. Dogs bark."), check.Equals, "")
	c.Assert(newMatchSummarizer("", 256).Summary("Cats purr."), check.Equals, "")
}
