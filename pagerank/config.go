package pagerank

import (
	"errors"
	"runtime"

	"github.com/hashicorp/go-multierror"
)

// Config encapsulates the settings of a Calculator.
type Config struct {
	// DampingFactor is the probability that a random surfer follows a link
	// instead of jumping to a random page. Defaults to 0.85.
	DampingFactor float64

	// MinSADForConvergence is the sum of absolute score differences between
	// two consecutive supersteps below which the scores are considered
	// converged. Defaults to 0.0001.
	MinSADForConvergence float64

	// MaxIterations bounds the number of score update rounds. Defaults to
	// 1000.
	MaxIterations int

	// ComputeWorkers is the number of workers running the compute function.
	// Defaults to runtime.NumCPU().
	ComputeWorkers int
}

func (c *Config) validate() error {
	var err error

	if c.DampingFactor == 0 {
		c.DampingFactor = 0.85
	} else if c.DampingFactor < 0 || c.DampingFactor >= 1 {
		err = multierror.Append(err, errors.New("damping factor must be in the (0, 1) range"))
	}

	if c.MinSADForConvergence <= 0 {
		c.MinSADForConvergence = 0.0001
	}

	if c.MaxIterations < 0 {
		err = multierror.Append(err, errors.New("max iterations must not be negative"))
	} else if c.MaxIterations == 0 {
		c.MaxIterations = 1000
	}

	if c.ComputeWorkers <= 0 {
		c.ComputeWorkers = runtime.NumCPU()
	}

	return err
}
