package bsp

import "github.com/mycok/wander/bsp/queue"

// Aggregator is implemented by types that combine values contributed by
// vertices during a superstep. Implementations must be safe for concurrent
// use.
type Aggregator interface {
	// Type returns the type of this aggregator.
	Type() string

	// Set resets the aggregator to val.
	Set(val interface{})

	// Get returns the aggregated value.
	Get() interface{}

	// Aggregate folds val into the aggregated value.
	Aggregate(val interface{})

	// Delta returns the change in the aggregated value since the previous
	// call to Delta or Set.
	Delta() interface{}
}

// ComputeFunc is invoked for each active vertex of a superstep. msgIt
// yields the messages sent to v during the previous superstep.
type ComputeFunc func(g *Graph, v *Vertex, msgIt queue.Iterator) error
