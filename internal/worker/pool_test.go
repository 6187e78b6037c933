package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type testJob struct {
	id      int
	counter *int64
	err     error
}

type testResult struct {
	id  int
	err error
}

func (r *testResult) GetError() error { return r.err }

func (j *testJob) Execute(ctx context.Context) Result {
	atomic.AddInt64(j.counter, 1)
	return &testResult{id: j.id, err: j.err}
}

func TestPool_RunsAllJobs(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	var counter int64
	for i := 0; i < 10; i++ {
		pool.Submit(&testJob{id: i, counter: &counter})
	}

	results := pool.Wait()

	if len(results) != 10 {
		t.Errorf("Expected 10 results, got %d", len(results))
	}
	if atomic.LoadInt64(&counter) != 10 {
		t.Errorf("Expected 10 executions, got %d", counter)
	}
}

func TestPool_PropagatesErrors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var counter int64
	wantErr := errors.New("boom")
	pool.Submit(&testJob{id: 1, counter: &counter})
	pool.Submit(&testJob{id: 2, counter: &counter, err: wantErr})

	results := pool.Wait()

	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("Expected 1 failed result, got %d", failures)
	}
}

func TestPool_DefaultsToOneWorker(t *testing.T) {
	pool := NewPool(0)
	pool.Start()

	var counter int64
	pool.Submit(&testJob{id: 1, counter: &counter})

	if results := pool.Wait(); len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}
