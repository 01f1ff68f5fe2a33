/*
	bsp package runs vertex programs over an in-memory graph following the
	bulk synchronous parallel model: every superstep invokes the compute
	function once per active vertex, in parallel, and messages sent during a
	superstep are only delivered at the start of the next one.

	Vertices are always dispatched and listed in ascending ID order so two
	runs over the same graph observe the same iteration order.
*/

package bsp

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/mycok/wander/bsp/queue"
)

var (
	// ErrUnknownEdgeSource is returned when the source vertex is not present
	// in the graph.
	ErrUnknownEdgeSource = errors.New("source vertex is not part of the graph")

	// ErrInvalidMessageDestination is returned when a message is addressed
	// to a vertex that is not part of the graph.
	ErrInvalidMessageDestination = errors.New("invalid message destination")
)

// Graph holds the vertices, edges and aggregators of a BSP computation.
type Graph struct {
	wg            sync.WaitGroup
	superStep     int
	activeInStep  int64
	pendingInStep int64

	aggregators map[string]Aggregator
	vertices    map[string]*Vertex
	ids         []string
	idsSorted   bool

	computeFn    ComputeFunc
	queueFactory queue.Factory

	vertexChan        chan *Vertex
	errChan           chan error
	stepCompletedChan chan struct{}
}

// NewGraph creates a new Graph from cfg. Callers must Close the graph to
// stop its compute workers.
func NewGraph(cfg GraphConfig) (*Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("graph config validation failed: %w", err)
	}

	g := &Graph{
		computeFn:    cfg.ComputeFn,
		queueFactory: cfg.QueueFactory,
		aggregators:  make(map[string]Aggregator),
		vertices:     make(map[string]*Vertex),
	}

	g.startWorkers(cfg.ComputeWorkers)

	return g, nil
}

// Close stops the compute workers and releases the graph state.
func (g *Graph) Close() error {
	close(g.vertexChan)
	g.wg.Wait()

	return g.Reset()
}

// Reset drops every vertex and aggregator and rewinds the superstep counter
// so the graph can be loaded again.
func (g *Graph) Reset() error {
	g.superStep = 0

	for _, id := range g.VertexIDs() {
		v := g.vertices[id]
		for i := range v.msgQueues {
			if err := v.msgQueues[i].Close(); err != nil {
				return fmt.Errorf("closing message queue %d of vertex %q: %w", i, id, err)
			}
		}
	}

	g.vertices = make(map[string]*Vertex)
	g.ids = nil
	g.idsSorted = true
	g.aggregators = make(map[string]Aggregator)

	return nil
}

// Vertices returns the graph vertex map.
func (g *Graph) Vertices() map[string]*Vertex {
	return g.vertices
}

// VertexIDs returns the vertex IDs in ascending order. The returned slice
// must not be modified.
func (g *Graph) VertexIDs() []string {
	if !g.idsSorted {
		sort.Strings(g.ids)
		g.idsSorted = true
	}

	return g.ids
}

// AddVertex inserts a vertex or overwrites the value of an existing one.
func (g *Graph) AddVertex(id string, value interface{}) {
	v, exists := g.vertices[id]
	if !exists {
		v = &Vertex{
			id:        id,
			msgQueues: [2]queue.Queue{g.queueFactory(), g.queueFactory()},
			active:    true,
		}

		g.vertices[id] = v
		g.ids = append(g.ids, id)
		g.idsSorted = false
	}

	v.SetValue(value)
}

// AddEdge adds a directed edge from srcID to destID annotated with value.
// The source vertex must already exist.
func (g *Graph) AddEdge(srcID, destID string, value interface{}) error {
	src, exists := g.vertices[srcID]
	if !exists {
		return fmt.Errorf("create edge from %q to %q: %w", srcID, destID, ErrUnknownEdgeSource)
	}

	src.edges = append(src.edges, &Edge{destID: destID, value: value})

	return nil
}

// RegisterAggregator adds an aggregator with the specified name into the graph.
func (g *Graph) RegisterAggregator(name string, aggr Aggregator) {
	g.aggregators[name] = aggr
}

// Aggregator returns the aggregator registered under name or nil.
func (g *Graph) Aggregator(name string) Aggregator {
	return g.aggregators[name]
}

// Aggregators returns all registered aggregators.
func (g *Graph) Aggregators() map[string]Aggregator {
	return g.aggregators
}

// BroadcastToNeighbors sends msg along every outgoing edge of v.
func (g *Graph) BroadcastToNeighbors(v *Vertex, msg queue.Message) error {
	for _, e := range v.edges {
		if err := g.SendMessage(e.destID, msg); err != nil {
			return err
		}
	}

	return nil
}

// SendMessage queues msg for delivery to destID in the next superstep.
func (g *Graph) SendMessage(destID string, msg queue.Message) error {
	dest, exists := g.vertices[destID]
	if !exists {
		return fmt.Errorf("message can't be delivered to %q: %w", destID, ErrInvalidMessageDestination)
	}

	return dest.msgQueues[(g.superStep+1)%2].Enqueue(msg)
}

// SuperStep returns the current superstep.
func (g *Graph) SuperStep() int {
	return g.superStep
}

// step runs the current superstep and returns the number of vertices that
// were active or had pending messages.
func (g *Graph) step() (int, error) {
	g.activeInStep = 0
	g.pendingInStep = int64(len(g.vertices))

	if g.pendingInStep == 0 {
		return 0, nil
	}

	for _, id := range g.VertexIDs() {
		g.vertexChan <- g.vertices[id]
	}

	<-g.stepCompletedChan

	var err error
	select {
	case err = <-g.errChan:
	default:
	}

	return int(g.activeInStep), err
}

func (g *Graph) startWorkers(numOfWorkers int) {
	g.vertexChan = make(chan *Vertex)
	// Only the first compute error of a step is kept, the buffer lets
	// workers report it without blocking.
	g.errChan = make(chan error, 1)
	g.stepCompletedChan = make(chan struct{})

	g.wg.Add(numOfWorkers)
	for i := 0; i < numOfWorkers; i++ {
		go g.stepWorker()
	}
}

func (g *Graph) stepWorker() {
	defer g.wg.Done()

	for v := range g.vertexChan {
		q := v.msgQueues[g.superStep%2]
		if v.active || q.PendingMessages() {
			atomic.AddInt64(&g.activeInStep, 1)
			v.active = true

			if err := g.computeFn(g, v, q.Messages()); err != nil {
				tryEmitError(g.errChan, fmt.Errorf("running compute function for vertex %q failed: %w", v.ID(), err))
			} else if err := q.DiscardMessages(); err != nil {
				tryEmitError(g.errChan, fmt.Errorf("discarding unprocessed messages for vertex %q failed: %w", v.ID(), err))
			}
		}

		if atomic.AddInt64(&g.pendingInStep, -1) == 0 {
			g.stepCompletedChan <- struct{}{}
		}
	}
}

func tryEmitError(errChan chan<- error, err error) {
	select {
	case errChan <- err:
	default:
	}
}
