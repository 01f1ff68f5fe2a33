/*
	queue package holds the per-vertex message queues of the bsp engine.
*/

package queue

// Message is a value exchanged between vertices.
type Message interface {
	// Type returns the type of this Message.
	Type() string
}

// Queue buffers the messages addressed to a single vertex.
type Queue interface {
	// Enqueue appends msg. It is safe to call concurrently.
	Enqueue(msg Message) error

	// PendingMessages reports whether unconsumed messages remain.
	PendingMessages() bool

	// DiscardMessages drops every unconsumed message.
	DiscardMessages() error

	// Messages returns an iterator that consumes the queued messages.
	Messages() Iterator

	// Close releases the queue resources.
	Close() error
}

// Iterator walks over a sequence of messages.
type Iterator interface {
	// Next advances to the next message and reports whether there is one.
	Next() bool

	// Message returns the current message.
	Message() Message

	// Error returns the error, if any, that stopped the iteration.
	Error() error
}

// Factory creates new Queue instances.
type Factory func() Queue
