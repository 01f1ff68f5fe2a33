package pipeline_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	check "gopkg.in/check.v1"

	"github.com/mycok/wander/pipeline"
)

var _ = check.Suite(new(stageRunnerTestSuite))

type stageRunnerTestSuite struct{}

func (s *stageRunnerTestSuite) TestFIFOKeepsOrder(c *check.C) {
	stages := make([]pipeline.StageRunner, 10)
	for i := range stages {
		stages[i] = pipeline.NewFIFO(passThrough())
	}

	src := &sourceStub{data: stringPayloads(3)}
	sink := new(sinkStub)

	err := pipeline.New(stages...).Execute(context.TODO(), src, sink)
	c.Assert(err, check.IsNil)
	c.Assert(sink.data, check.DeepEquals, src.data)
	assertAllProcessed(c, src.data...)
}

func (s *stageRunnerTestSuite) TestFixedWorkerPoolRunsInParallel(c *check.C) {
	const numOfWorkers = 10

	arrived := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	proc := pipeline.ProcessorFunc(func(context.Context, pipeline.Payload) (pipeline.Payload, error) {
		arrived <- struct{}{}
		<-release

		return nil, nil
	})

	src := &sourceStub{data: stringPayloads(numOfWorkers)}
	p := pipeline.New(pipeline.NewFixedWorkerPool(proc, numOfWorkers))

	go func() {
		c.Check(p.Execute(context.TODO(), src, nil), check.IsNil)
		close(done)
	}()

	// Every payload must be held by its own worker at the same time.
	for i := 0; i < numOfWorkers; i++ {
		select {
		case <-arrived:
		case <-time.After(10 * time.Second):
			c.Fatalf("timed out waiting for worker %d", i)
		}
	}

	close(release)

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		c.Fatal("timed out waiting for pipeline to complete")
	}

	assertAllProcessed(c, src.data...)
}

func (s *stageRunnerTestSuite) TestDynamicWorkerPoolBoundsConcurrency(c *check.C) {
	const maxWorkers = 5

	var running, peak, executed int32

	proc := pipeline.ProcessorFunc(func(context.Context, pipeline.Payload) (pipeline.Payload, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}

		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		atomic.AddInt32(&executed, 1)

		return nil, nil
	})

	src := &sourceStub{data: stringPayloads(maxWorkers * 4)}

	err := pipeline.New(pipeline.NewDynamicWorkerPool(proc, maxWorkers)).Execute(context.TODO(), src, nil)
	c.Assert(err, check.IsNil)
	c.Assert(atomic.LoadInt32(&executed), check.Equals, int32(maxWorkers*4))
	c.Assert(atomic.LoadInt32(&peak) <= maxWorkers, check.Equals, true)
	assertAllProcessed(c, src.data...)
}

func (s *stageRunnerTestSuite) TestDynamicWorkerPoolIsReusable(c *check.C) {
	stage := pipeline.NewDynamicWorkerPool(passThrough(), 2)

	for run := 0; run < 3; run++ {
		src := &sourceStub{data: stringPayloads(4)}
		sink := new(sinkStub)

		err := pipeline.New(stage).Execute(context.TODO(), src, sink)
		c.Assert(err, check.IsNil)
		c.Assert(sink.data, check.HasLen, 4)
	}
}

func (s *stageRunnerTestSuite) TestDynamicWorkerPoolError(c *check.C) {
	proc := pipeline.ProcessorFunc(func(context.Context, pipeline.Payload) (pipeline.Payload, error) {
		return nil, errors.New("worker failed")
	})

	err := pipeline.New(pipeline.NewDynamicWorkerPool(proc, 3)).Execute(
		context.TODO(), &sourceStub{data: stringPayloads(3)}, new(sinkStub),
	)
	c.Assert(err, check.ErrorMatches, "(?s).*pipeline stage 0: worker failed.*")
}

func passThrough() pipeline.Processor {
	return pipeline.ProcessorFunc(func(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
		return p, nil
	})
}
