package crawler

import (
	"context"

	"github.com/mycok/wander/pipeline"
)

var _ pipeline.Source = (*frontierSource)(nil)

// frontierSource feeds the pipeline from a Frontier in lockstep: the next
// URL is only dequeued after the previous payload left the pipeline, since
// its links may still have to be enqueued.
type frontierSource struct {
	frontier *Frontier
	stats    *runStats
	maxPages int

	done     chan struct{}
	inFlight bool
	current  *crawlerPayload
}

func newFrontierSource(frontier *Frontier, stats *runStats, maxPages int) *frontierSource {
	return &frontierSource{
		frontier: frontier,
		stats:    stats,
		maxPages: maxPages,
		done:     make(chan struct{}, 1),
	}
}

// Next waits for the in-flight payload to be processed and then advances to
// the next queued URL.
func (s *frontierSource) Next(ctx context.Context) bool {
	if s.inFlight {
		select {
		case <-ctx.Done():
			return false
		case <-s.done:
			s.inFlight = false
		}
	}

	if ctx.Err() != nil {
		return false
	}

	if s.maxPages > 0 && s.stats.fetchedPages() >= s.maxPages {
		return false
	}

	url, ok := s.frontier.Dequeue()
	if !ok {
		return false
	}

	payload := payloadPool.Get().(*crawlerPayload)
	payload.URL = url
	payload.done = s.done

	s.current = payload
	s.inFlight = true

	return true
}

// Payload returns the payload for the URL Next advanced to.
func (s *frontierSource) Payload() pipeline.Payload {
	return s.current
}

// Error returns nil; a frontier cannot fail.
func (s *frontierSource) Error() error {
	return nil
}
