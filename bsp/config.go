package bsp

import (
	"errors"

	"github.com/hashicorp/go-multierror"

	"github.com/mycok/wander/bsp/queue"
)

// GraphConfig encapsulates the configuration options for creating graphs.
type GraphConfig struct {
	// Creates the two message queues of every vertex. Defaults to the
	// in-memory queue.
	QueueFactory queue.Factory

	// Invoked for each vertex in every superstep. Required.
	ComputeFn ComputeFunc

	// Number of goroutines invoking ComputeFn. Defaults to 1.
	ComputeWorkers int
}

// Validate fills in defaults and reports missing required options.
func (c *GraphConfig) Validate() error {
	var err error

	if c.QueueFactory == nil {
		c.QueueFactory = queue.NewInMemoryQueue
	}

	if c.ComputeFn == nil {
		err = multierror.Append(err, errors.New("compute function not provided"))
	}

	if c.ComputeWorkers <= 0 {
		c.ComputeWorkers = 1
	}

	return err
}
