package bsp

// Edge is a directed edge leaving the vertex that owns it.
type Edge struct {
	destID string
	value  interface{}
}

// DestID returns the ID of the vertex the edge points to.
func (e *Edge) DestID() string { return e.destID }

// Value returns the value attached to the edge.
func (e *Edge) Value() interface{} { return e.value }

// SetValue replaces the value attached to the edge.
func (e *Edge) SetValue(val interface{}) { e.value = val }
