package crawler

import (
	"context"

	"github.com/mycok/wander/pipeline"
)

var _ pipeline.Sink = (*countingSink)(nil)

type countingSink struct {
	stats *runStats
}

func (s *countingSink) Consume(context.Context, pipeline.Payload) error {
	s.stats.indexed.Add(1)

	return nil
}
