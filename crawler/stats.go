package crawler

import "sync/atomic"

// Stats summarises a crawl run.
type Stats struct {
	// Pages fetched successfully.
	Fetched int

	// Pages whose content was extracted and persisted.
	Indexed int

	// Pages skipped because robots.txt disallows them.
	Disallowed int

	// Pages whose fetch or parse failed, and links to non-HTML resources.
	Skipped int

	// URLs discovered during the run, seed included.
	Visited int
}

type runStats struct {
	fetched    atomic.Int64
	indexed    atomic.Int64
	disallowed atomic.Int64
	skipped    atomic.Int64
}

func (s *runStats) fetchedPages() int {
	return int(s.fetched.Load())
}

func (s *runStats) snapshot(frontier *Frontier) Stats {
	return Stats{
		Fetched:    int(s.fetched.Load()),
		Indexed:    int(s.indexed.Load()),
		Disallowed: int(s.disallowed.Load()),
		Skipped:    int(s.skipped.Load()),
		Visited:    frontier.VisitedCount(),
	}
}
