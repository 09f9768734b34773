package jmux

import (
	"context"
	"sync"
)

// StreamSink exposes a field whose value is delivered as an ordered,
// append-only log of fragments rather than a single resolved value.
// Fragments already appended are never rewritten or withdrawn.
// Any number of StreamIterators may attach at any time, including
// after the sink has closed; each sees the full fragment history from
// its own start and then, for an iterator attached while the stream
// is still open, every fragment appended afterwards.
type StreamSink struct {
	mu        sync.Mutex
	fragments []string
	closed    bool
	err       error
	changed   chan struct{}
}

func newStreamSink() *StreamSink {
	return &StreamSink{
		changed: make(chan struct{}),
	}
}

func (s *StreamSink) append(fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.fragments = append(s.fragments, fragment)
	s.broadcast()
}

func (s *StreamSink) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.broadcast()
}

func (s *StreamSink) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.err = err
	s.closed = true
	s.broadcast()
}

// broadcast wakes every goroutine currently blocked in Next by
// closing the changed channel and swapping in a fresh one, must be
// called with mu held.
func (s *StreamSink) broadcast() {
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *StreamSink) isTerminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Iterator returns a fresh StreamIterator positioned before the first
// fragment. Attaching an iterator never consumes or blocks the
// producer side.
func (s *StreamSink) Iterator() *StreamIterator {
	return &StreamIterator{sink: s}
}

// StreamIterator walks a StreamSink's fragment log in order. A single
// StreamIterator is not safe for concurrent use by multiple
// goroutines, but independent iterators over the same sink are.
type StreamIterator struct {
	sink *StreamSink
	next int
}

// Next blocks until another fragment becomes available, the stream
// closes, or ctx is cancelled. ok is true only when fragment holds a
// newly observed value. ok is false with a nil error once the stream
// has closed cleanly and every fragment has been delivered; ok is
// false with a non-nil error if the stream failed.
func (it *StreamIterator) Next(ctx context.Context) (fragment string, ok bool, err error) {
	for {
		it.sink.mu.Lock()
		if it.next < len(it.sink.fragments) {
			fragment = it.sink.fragments[it.next]
			it.next++
			it.sink.mu.Unlock()
			return fragment, true, nil
		}
		if it.sink.closed {
			err = it.sink.err
			it.sink.mu.Unlock()
			return "", false, err
		}
		changed := it.sink.changed
		it.sink.mu.Unlock()

		select {
		case <-changed:
			continue
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
}

// Collect drains every fragment until the stream closes or fails and
// concatenates them. It is a convenience for callers that only need
// the fully-assembled value and do not care about incremental
// delivery.
func (it *StreamIterator) Collect(ctx context.Context) (string, error) {
	var out []byte
	for {
		fragment, ok, err := it.Next(ctx)
		if !ok {
			if err != nil {
				return "", err
			}
			return string(out), nil
		}
		out = append(out, fragment...)
	}
}
