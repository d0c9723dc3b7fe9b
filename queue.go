package keystore

import (
	"fmt"
	"sync"
)

// job is one queued store operation. run executes on the worker goroutine
// and its error is delivered on done.
type job struct {
	run  func() error
	done chan error
}

// opQueue runs submitted jobs one at a time, in submission order, on a
// single worker goroutine. A job that fails or panics only fails its own
// submission; the worker keeps going.
type opQueue struct {
	jobs chan job

	mu     sync.RWMutex // guards closed against concurrent submit/close
	closed bool
	wg     sync.WaitGroup
}

// newOpQueue starts the worker
func newOpQueue(size int) *opQueue {
	q := &opQueue{jobs: make(chan job, size)}
	q.wg.Add(1)
	go q.loop()
	return q
}

func (q *opQueue) loop() {
	defer q.wg.Done()
	for j := range q.jobs {
		j.done <- runJob(j.run)
	}
}

// runJob converts a panic into an error so the worker survives it
func runJob(run func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return run()
}

// do enqueues run and waits for it to finish
func (q *opQueue) do(run func() error) error {
	j := job{run: run, done: make(chan error, 1)}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrClosed
	}
	q.jobs <- j
	q.mu.RUnlock()

	return <-j.done
}

// close stops accepting jobs, lets already queued jobs finish and waits for
// the worker to exit. It is safe to call more than once.
func (q *opQueue) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
}
