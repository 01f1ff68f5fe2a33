package queue

import "sync"

var _ Queue = (*inMemoryQueue)(nil)

// inMemoryQueue keeps messages in a slice. Enqueue may be called
// concurrently; the iterator must be consumed by a single goroutine.
// Messages are consumed newest first.
type inMemoryQueue struct {
	mu   sync.Mutex
	msgs []Message
	cur  Message
}

// NewInMemoryQueue returns an empty in-memory queue. It can serve as a
// Factory.
func NewInMemoryQueue() Queue {
	return new(inMemoryQueue)
}

func (q *inMemoryQueue) Enqueue(msg Message) error {
	q.mu.Lock()
	q.msgs = append(q.msgs, msg)
	q.mu.Unlock()

	return nil
}

func (q *inMemoryQueue) PendingMessages() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.msgs) != 0
}

func (q *inMemoryQueue) DiscardMessages() error {
	q.mu.Lock()
	// Truncating keeps the backing array for the next superstep.
	q.msgs = q.msgs[:0]
	q.cur = nil
	q.mu.Unlock()

	return nil
}

func (q *inMemoryQueue) Messages() Iterator { return q }

func (q *inMemoryQueue) Close() error { return nil }

func (q *inMemoryQueue) Next() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.msgs)
	if n == 0 {
		return false
	}

	q.cur = q.msgs[n-1]
	q.msgs = q.msgs[:n-1]

	return true
}

func (q *inMemoryQueue) Message() Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.cur
}

func (q *inMemoryQueue) Error() error { return nil }
