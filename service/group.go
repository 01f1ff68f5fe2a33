/*
	service package defines the contract shared by the long running parts of
	wander and a Group type that runs several of them side by side.
*/

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Service is a unit of work started by the wander CLI.
type Service interface {
	// Name returns the name of the service.
	Name() string

	// Run executes the service and blocks until it is done, the context
	// gets cancelled or an error occurs.
	Run(context.Context) error
}

// Group is a list of Service instances that execute in parallel.
type Group []Service

// Execute runs every service in the group and blocks until all of them have
// returned. The first failing service cancels the rest. Errors are
// collected and prefixed with the name of the service that reported them.
func (g Group) Execute(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	execCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(len(g))
	errChan := make(chan error, len(g))

	for _, s := range g {
		go func(s Service) {
			defer wg.Done()

			if err := s.Run(execCtx); err != nil {
				errChan <- fmt.Errorf("%s: %w", s.Name(), err)
				cancel()
			}
		}(s)
	}

	wg.Wait()
	close(errChan)

	var err error
	for srvErr := range errChan {
		err = multierror.Append(err, srvErr)
	}

	return err
}
