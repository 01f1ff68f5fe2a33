/*
	pipeline package wires a Source, a chain of StageRunners and a Sink
	together with channels and runs them concurrently behind the synchronous
	Execute call. Stages either forward a payload, drop it or fail; the first
	failure cancels the whole pipeline.
*/

package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Pipeline is an ordered list of stages between a source and a sink.
type Pipeline struct {
	stages []StageRunner
}

// New returns a Pipeline made of stages. A pipeline without stages passes
// payloads straight from the source to the sink.
func New(stages ...StageRunner) *Pipeline {
	return &Pipeline{stages}
}

// Execute pumps every payload of src through the stages into sink and
// blocks until the source is drained, an error occurs or ctx is done. All
// errors reported by the source, the stages and the sink are returned
// aggregated.
func (p *Pipeline) Execute(ctx context.Context, src Source, sink Sink) error {
	var wg sync.WaitGroup
	runCtx, cancel := context.WithCancel(ctx)

	// Channel i feeds stage i; the last one feeds the sink.
	chans := make([]chan Payload, len(p.stages)+1)
	for i := range chans {
		chans[i] = make(chan Payload)
	}

	errChan := make(chan error, len(p.stages)+2)

	for i, stage := range p.stages {
		wg.Add(1)

		go func(i int, stage StageRunner) {
			defer wg.Done()

			stage.Run(runCtx, &stageParams{
				stage:   i,
				inChan:  chans[i],
				outChan: chans[i+1],
				errChan: errChan,
			})

			// Closing the output tells the next stage no more payloads
			// will arrive.
			close(chans[i+1])
		}(i, stage)
	}

	wg.Add(2)

	go func() {
		defer wg.Done()

		sourceWorker(runCtx, src, chans[0], errChan)
		close(chans[0])
	}()

	go func() {
		defer wg.Done()

		sinkWorker(runCtx, sink, chans[len(chans)-1], errChan)
	}()

	go func() {
		wg.Wait()
		close(errChan)
		cancel()
	}()

	var err error
	for stageErr := range errChan {
		err = multierror.Append(err, stageErr)
		cancel()
	}

	return err
}

func sourceWorker(ctx context.Context, src Source, out chan<- Payload, errChan chan<- error) {
	for src.Next(ctx) {
		select {
		case <-ctx.Done():
			return
		case out <- src.Payload():
		}
	}

	if err := src.Error(); err != nil {
		mayEmitError(fmt.Errorf("pipeline source: %w", err), errChan)
	}
}

func sinkWorker(ctx context.Context, sink Sink, in <-chan Payload, errChan chan<- error) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-in:
			if !ok {
				return
			}

			if err := sink.Consume(ctx, payload); err != nil {
				mayEmitError(fmt.Errorf("pipeline sink: %w", err), errChan)
				return
			}

			payload.MarkAsProcessed()
		}
	}
}

// mayEmitError drops err when the error channel is already full.
func mayEmitError(err error, errChan chan<- error) {
	select {
	case errChan <- err:
	default:
	}
}

// SliceSource is a Source over a fixed list of payloads.
type SliceSource struct {
	payloads []Payload
	next     int
}

// NewSliceSource returns a Source that yields payloads in order.
func NewSliceSource(payloads ...Payload) *SliceSource {
	return &SliceSource{payloads: payloads}
}

// Next implements Source.
func (s *SliceSource) Next(ctx context.Context) bool {
	if s.next >= len(s.payloads) || ctx.Err() != nil {
		return false
	}

	s.next++

	return true
}

// Payload implements Source.
func (s *SliceSource) Payload() Payload {
	return s.payloads[s.next-1]
}

// Error implements Source.
func (s *SliceSource) Error() error { return nil }
