package jmux

import (
	"context"
	"sync"
)

// SingleSink exposes a field whose value resolves exactly once. Any
// number of goroutines may call Await concurrently, before or after
// the value has resolved; all of them receive the same value or
// error. When the demultiplexer is poisoned or aborted, every sink
// that has not yet resolved is failed with that error so waiters do
// not block forever. A field the input never mentions stays pending
// after the root object closes, and cancelling an Await's context
// returns from that Await without changing the sink.
type SingleSink struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	value    interface{}
	err      error
}

func newSingleSink() *SingleSink {
	return &SingleSink{
		done: make(chan struct{}),
	}
}

// Await blocks until the sink resolves, the context is cancelled, or
// the sink is failed. Calling Await after the sink is already
// terminal returns immediately with the stored value or error.
func (s *SingleSink) Await(ctx context.Context) (interface{}, error) {
	s.mu.Lock()
	done := s.done
	if s.resolved {
		value, err := s.value, s.err
		s.mu.Unlock()
		return value, err
	}
	s.mu.Unlock()

	select {
	case <-done:
		s.mu.Lock()
		value, err := s.value, s.err
		s.mu.Unlock()
		return value, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryValue returns the resolved value without blocking. ok is false
// if the sink has not yet resolved.
func (s *SingleSink) TryValue() (value interface{}, err error, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.err, s.resolved
}

func (s *SingleSink) resolve(value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved {
		return
	}
	s.value = value
	s.resolved = true
	close(s.done)
}

func (s *SingleSink) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved {
		return
	}
	s.err = err
	s.resolved = true
	close(s.done)
}

func (s *SingleSink) isTerminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}
