/*
	pagerank package computes PageRank authority scores by running an
	iterative vertex program on top of the bsp engine.
*/

package pagerank

import (
	"context"
	"fmt"

	"github.com/mycok/wander/bsp"
	"github.com/mycok/wander/bsp/aggregator"
	"github.com/mycok/wander/dataset"
	"github.com/mycok/wander/linkgraph"
)

const (
	pageCountAcc = "page_count"
	sadAcc       = "SAD"
)

// Calculator executes the iterative version of the PageRank algorithm
// on a graph until the desired level of convergence is reached.
type Calculator struct {
	g               *bsp.Graph
	cfg             Config
	executorFactory bsp.ExecutorFactory
	iterations      int
}

// NewCalculator returns a new Calculator instance using the provided config
// options.
func NewCalculator(cfg Config) (*Calculator, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("PageRank calculator config validation failed: %w", err)
	}

	g, err := bsp.NewGraph(bsp.GraphConfig{
		ComputeWorkers: cfg.ComputeWorkers,
		ComputeFn:      makeComputeFunc(cfg.DampingFactor),
	})
	if err != nil {
		return nil, err
	}

	return &Calculator{
		g:               g,
		cfg:             cfg,
		executorFactory: bsp.NewExecutor,
	}, nil
}

// Graph returns the underlying Graph instance.
func (c *Calculator) Graph() *bsp.Graph {
	return c.g
}

// Close frees up any allocated graph resources.
func (c *Calculator) Close() error {
	return c.g.Close()
}

// SetExecutorFactory sets a custom executor factory for the calculator.
func (c *Calculator) SetExecutorFactory(factory bsp.ExecutorFactory) {
	c.executorFactory = factory
}

// AddVertex adds a vertex with the specified ID into the graph.
func (c *Calculator) AddVertex(id string) {
	c.g.AddVertex(id, 0.0)
}

// AddEdge inserts a directed edge from src to dst. Self-links are ignored.
func (c *Calculator) AddEdge(src, dst string) error {
	if src == dst {
		return nil
	}

	return c.g.AddEdge(src, dst, nil)
}

// Scores invokes visitFn for each vertex in ascending ID order.
func (c *Calculator) Scores(visitFn func(id string, score float64) error) error {
	vertices := c.g.Vertices()
	for _, id := range c.g.VertexIDs() {
		if err := visitFn(id, vertices[id].Value().(float64)); err != nil {
			return err
		}
	}

	return nil
}

// Iterations returns the number of score update rounds executed by the last
// call to CalculatePageRanks.
func (c *Calculator) Iterations() int {
	return c.iterations
}

// CalculatePageRanks runs supersteps until the sum of absolute score
// differences drops below the configured threshold or MaxIterations update
// rounds were executed.
func (c *Calculator) CalculatePageRanks(ctx context.Context) error {
	c.registerAggregators()
	c.iterations = 0

	exec := c.executorFactory(c.g, bsp.ExecutorCallbacks{
		PreStep: func(_ context.Context, g *bsp.Graph) error {
			g.Aggregator(sadAcc).Set(0.0)
			g.Aggregator(residualOutputAccName(g.SuperStep())).Set(0.0)

			return nil
		},
		PostStep: func(_ context.Context, g *bsp.Graph, _ int) error {
			if g.SuperStep() > 1 {
				c.iterations++
			}

			return nil
		},
		ShouldRunAnotherStep: func(_ context.Context, g *bsp.Graph, _ int) (bool, error) {
			// Supersteps 0 and 1 only count pages and seed the scores.
			sad := g.Aggregator(sadAcc).Get().(float64)

			return !(g.SuperStep() > 1 && sad < c.cfg.MinSADForConvergence), nil
		},
	})

	return exec.RunSteps(ctx, c.cfg.MaxIterations+2)
}

// Rank loads lg into the calculator, computes the scores and returns them as
// a table. Any previously loaded graph is discarded.
func (c *Calculator) Rank(ctx context.Context, lg *linkgraph.Graph) (dataset.PageRankTable, error) {
	if err := c.g.Reset(); err != nil {
		return nil, fmt.Errorf("pagerank: reset graph: %w", err)
	}

	for _, url := range lg.URLs() {
		c.AddVertex(url)
	}

	for _, src := range lg.URLs() {
		for _, dst := range lg.Outbound(src) {
			if err := c.AddEdge(src, dst); err != nil {
				return nil, fmt.Errorf("pagerank: %w", err)
			}
		}
	}

	if err := c.CalculatePageRanks(ctx); err != nil {
		return nil, fmt.Errorf("pagerank: %w", err)
	}

	scores := make(dataset.PageRankTable, lg.Len())
	err := c.Scores(func(id string, score float64) error {
		scores[id] = score

		return nil
	})

	return scores, err
}

func (c *Calculator) registerAggregators() {
	c.g.RegisterAggregator(pageCountAcc, new(aggregator.IntAccumulator))
	c.g.RegisterAggregator("residual_0", new(aggregator.OrderedFloat64Accumulator))
	c.g.RegisterAggregator("residual_1", new(aggregator.OrderedFloat64Accumulator))
	c.g.RegisterAggregator(sadAcc, new(aggregator.OrderedFloat64Accumulator))
}
