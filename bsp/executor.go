package bsp

import "context"

// ExecutorCallbacks are hooks run around every superstep. All of them are
// optional.
type ExecutorCallbacks struct {
	// PreStep runs before a superstep, typically to reset aggregators.
	PreStep func(ctx context.Context, g *Graph) error

	// PostStep runs after a superstep.
	PostStep func(ctx context.Context, g *Graph, activeInStep int) error

	// ShouldRunAnotherStep runs after PostStep and decides whether the
	// computation continues.
	ShouldRunAnotherStep func(ctx context.Context, g *Graph, activeInStep int) (bool, error)
}

func (cb *ExecutorCallbacks) setDefaults() {
	if cb.PreStep == nil {
		cb.PreStep = func(context.Context, *Graph) error { return nil }
	}

	if cb.PostStep == nil {
		cb.PostStep = func(context.Context, *Graph, int) error { return nil }
	}

	if cb.ShouldRunAnotherStep == nil {
		cb.ShouldRunAnotherStep = func(context.Context, *Graph, int) (bool, error) { return true, nil }
	}
}

// ExecutorFactory creates Executor instances.
type ExecutorFactory func(g *Graph, cb ExecutorCallbacks) *Executor

// Executor drives a graph through supersteps until a callback stops it, an
// error occurs, the step budget is spent or the context is done.
type Executor struct {
	g   *Graph
	cbs ExecutorCallbacks
}

// NewExecutor returns an Executor for g that starts at superstep 0.
func NewExecutor(g *Graph, cbs ExecutorCallbacks) *Executor {
	cbs.setDefaults()
	g.superStep = 0

	return &Executor{g: g, cbs: cbs}
}

// Graph returns the graph driven by the executor.
func (ex *Executor) Graph() *Graph {
	return ex.g
}

// SuperStep returns the current superstep of the graph.
func (ex *Executor) SuperStep() int {
	return ex.g.SuperStep()
}

// RunToCompletion runs supersteps until ShouldRunAnotherStep returns false,
// an error occurs or ctx is done.
func (ex *Executor) RunToCompletion(ctx context.Context) error {
	return ex.run(ctx, -1)
}

// RunSteps is like RunToCompletion but runs at most numOfSteps supersteps.
func (ex *Executor) RunSteps(ctx context.Context, numOfSteps int) error {
	return ex.run(ctx, numOfSteps)
}

func (ex *Executor) run(ctx context.Context, budget int) error {
	for ; budget != 0; budget-- {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := ex.cbs.PreStep(ctx, ex.g); err != nil {
			return err
		}

		active, err := ex.g.step()
		if err != nil {
			return err
		}

		if err = ex.cbs.PostStep(ctx, ex.g, active); err != nil {
			return err
		}

		again, err := ex.cbs.ShouldRunAnotherStep(ctx, ex.g, active)
		if err != nil || !again {
			return err
		}

		ex.g.superStep++
	}

	return nil
}
