package pipeline

import (
	"context"
	"fmt"
	"sync"
)

type fifo struct {
	proc Processor
}

// NewFIFO returns a StageRunner that processes payloads one at a time in the
// order they arrive.
func NewFIFO(proc Processor) StageRunner {
	return fifo{proc}
}

// Run implements StageRunner.
func (r fifo) Run(ctx context.Context, params StageParams) {
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-params.Input():
			if !ok {
				return
			}

			out, err := r.proc.Process(ctx, in)
			if err != nil {
				mayEmitError(fmt.Errorf("pipeline stage %d: %w", params.StageIndex(), err), params.Error())
				return
			}

			if out == nil {
				in.MarkAsProcessed()
				continue
			}

			select {
			case <-ctx.Done():
				return
			case params.Output() <- out:
			}
		}
	}
}

type fixedWorkerPool struct {
	workers []StageRunner
}

// NewFixedWorkerPool returns a StageRunner that spreads payloads over
// numOfWorkers FIFO workers sharing the stage input and output. Output order
// is not preserved.
func NewFixedWorkerPool(proc Processor, numOfWorkers int) StageRunner {
	if numOfWorkers <= 0 {
		panic("FixedWorkerPool: numOfWorkers must be > 0")
	}

	workers := make([]StageRunner, numOfWorkers)
	for i := range workers {
		workers[i] = NewFIFO(proc)
	}

	return fixedWorkerPool{workers}
}

// Run implements StageRunner.
func (r fixedWorkerPool) Run(ctx context.Context, params StageParams) {
	var wg sync.WaitGroup

	wg.Add(len(r.workers))
	for _, w := range r.workers {
		go func(w StageRunner) {
			defer wg.Done()
			w.Run(ctx, params)
		}(w)
	}

	wg.Wait()
}

type dynamicWorkerPool struct {
	proc   Processor
	tokens chan struct{}
}

// NewDynamicWorkerPool returns a StageRunner that starts a goroutine per
// payload, with at most maxNumOfWorkers of them running at any time.
func NewDynamicWorkerPool(proc Processor, maxNumOfWorkers int) StageRunner {
	if maxNumOfWorkers <= 0 {
		panic("DynamicWorkerPool: maxNumOfWorkers must be > 0")
	}

	tokens := make(chan struct{}, maxNumOfWorkers)
	for i := 0; i < maxNumOfWorkers; i++ {
		tokens <- struct{}{}
	}

	return dynamicWorkerPool{proc: proc, tokens: tokens}
}

// Run implements StageRunner.
func (r dynamicWorkerPool) Run(ctx context.Context, params StageParams) {
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case in, ok := <-params.Input():
			if !ok {
				break loop
			}

			var token struct{}
			select {
			case <-ctx.Done():
				break loop
			case token = <-r.tokens:
			}

			go func(p Payload, token struct{}) {
				defer func() { r.tokens <- token }()

				out, err := r.proc.Process(ctx, p)
				if err != nil {
					mayEmitError(fmt.Errorf("pipeline stage %d: %w", params.StageIndex(), err), params.Error())
					return
				}

				if out == nil {
					p.MarkAsProcessed()
					return
				}

				select {
				case <-ctx.Done():
				case params.Output() <- out:
				}
			}(in, token)
		}
	}

	// Collecting every token back means every worker has returned.
	for i := 0; i < cap(r.tokens); i++ {
		<-r.tokens
	}

	for i := 0; i < cap(r.tokens); i++ {
		r.tokens <- struct{}{}
	}
}
