package bsp

import "github.com/mycok/wander/bsp/queue"

// Vertex is a node of the Graph. It owns its outgoing edges.
type Vertex struct {
	id        string
	value     interface{}
	active    bool
	msgQueues [2]queue.Queue
	edges     []*Edge
}

// ID returns the Vertex ID.
func (v *Vertex) ID() string { return v.id }

// Edges returns the outgoing edges of the vertex.
func (v *Vertex) Edges() []*Edge { return v.edges }

// Freeze deactivates the vertex. A frozen vertex is skipped by later
// supersteps until a message wakes it up.
func (v *Vertex) Freeze() { v.active = false }

// Value returns the value attached to the vertex.
func (v *Vertex) Value() interface{} { return v.value }

// SetValue replaces the value attached to the vertex.
func (v *Vertex) SetValue(val interface{}) { v.value = val }
