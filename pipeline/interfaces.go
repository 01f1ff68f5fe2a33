package pipeline

import "context"

// Source should be implemented by types that feed payloads into a Pipeline.
type Source interface {
	// Next advances to the next payload and reports whether one is
	// available. It returns false once the source is exhausted, the context
	// is done or an error occurred.
	Next(context.Context) bool

	// Payload returns the payload Next advanced to.
	Payload() Payload

	// Error returns the error, if any, that stopped the source.
	Error() error
}

// Payload should be implemented by values that travel through a pipeline.
type Payload interface {
	// MarkAsProcessed is called exactly once per payload, either after the
	// sink consumed it or when a stage dropped it.
	MarkAsProcessed()
}

// Processor should be implemented by types that transform payloads for a
// stage. Returning a nil payload drops it; returning an error aborts the
// whole pipeline.
type Processor interface {
	Process(context.Context, Payload) (Payload, error)
}

// ProcessorFunc adapts an ordinary function to the Processor interface.
type ProcessorFunc func(context.Context, Payload) (Payload, error)

// Process calls f(ctx, p).
func (f ProcessorFunc) Process(ctx context.Context, p Payload) (Payload, error) {
	return f(ctx, p)
}

// StageRunner should be implemented by types that can be strung together
// to form a multi-stage pipeline.
type StageRunner interface {
	// Run blocks until the stage input is closed, the context is done or
	// the stage hit an error.
	Run(context.Context, StageParams)
}

// StageParams carries the channels and position of a single stage.
type StageParams interface {
	// StageIndex returns the position of the stage in the pipeline.
	StageIndex() int

	// Input returns the channel the stage reads payloads from.
	Input() <-chan Payload

	// Output returns the channel the stage writes payloads to.
	Output() chan<- Payload

	// Error returns the channel the stage reports errors to.
	Error() chan<- error
}

// Sink should be implemented by types that consume the payloads that made
// it through every stage.
type Sink interface {
	Consume(context.Context, Payload) error
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(context.Context, Payload) error

// Consume calls f(ctx, p).
func (f SinkFunc) Consume(ctx context.Context, p Payload) error {
	return f(ctx, p)
}
