package processor

import (
	"context"
	"sync/atomic"
)

// semaphore implements a simple counting semaphore for limiting concurrency
type semaphore struct {
	ch      chan struct{}
	waiting atomic.Int64
}

// newSemaphore creates a new semaphore with the given capacity
func newSemaphore(capacity int) *semaphore {
	if capacity <= 0 {
		capacity = 1
	}
	return &semaphore{
		ch: make(chan struct{}, capacity),
	}
}

// acquire acquires a slot, blocking until one frees up or ctx is done
func (s *semaphore) acquire(ctx context.Context) error {
	s.waiting.Add(1)
	defer s.waiting.Add(-1)

	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release releases a semaphore slot
func (s *semaphore) release() {
	<-s.ch
}

// queued reports how many callers are blocked in acquire.
func (s *semaphore) queued() int64 {
	return s.waiting.Load()
}
