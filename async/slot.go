/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package async

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"

	errs "github.com/suparena/activerecord/errors"
)

// State is the lifecycle of a future.
type State int32

const (
	Running State = iota
	Done
	Cancelled
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Done:
		return "Done"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// slot is a single-use handoff holding at most one terminal value. All
// transitions happen under mu, so a value is pushed at most once. state may
// be read without mu, including from inside a resolution callback.
//
// Callbacks run while mu is held. resolving is set for their duration so
// that a callback touching its own future (Cancel, AddRecord, another
// resolution) is refused instead of deadlocking.
type slot[T any] struct {
	mu        sync.Mutex
	state     atomic.Int32
	resolving atomic.Bool
	reply     chan T
	done      chan struct{}
	cancelled chan struct{}
}

func newSlot[T any]() *slot[T] {
	return &slot[T]{
		reply:     make(chan T, 1),
		done:      make(chan struct{}),
		cancelled: make(chan struct{}),
	}
}

// locked runs fn under mu while the slot is Running. It reports false
// without running fn otherwise, or while a callback is being notified.
func (s *slot[T]) locked(fn func()) bool {
	if s.resolving.Load() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if State(s.state.Load()) != Running {
		return false
	}
	fn()
	return true
}

// resolve runs notify and pushes v, then marks the slot Done. It reports
// false without calling notify if the slot is no longer Running.
func (s *slot[T]) resolve(v T, notify func()) bool {
	return s.resolveWith(func() T { return v }, func(T) {
		if notify != nil {
			notify()
		}
	})
}

// resolveWith is resolve with the value built under mu.
func (s *slot[T]) resolveWith(build func() T, notify func(T)) bool {
	if s.resolving.Load() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if State(s.state.Load()) != Running {
		return false
	}
	v := build()
	s.notify(v, notify)
	s.reply <- v
	s.state.Store(int32(Done))
	close(s.done)
	return true
}

func (s *slot[T]) notify(v T, fn func(T)) {
	if fn == nil {
		return
	}
	s.resolving.Store(true)
	defer s.resolving.Store(false)
	fn(v)
}

// cancel discards any pending value. It only succeeds while Running and
// outside a resolution callback.
func (s *slot[T]) cancel() bool {
	if s.resolving.Load() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if State(s.state.Load()) != Running {
		return false
	}
	select {
	case <-s.reply:
	default:
	}
	s.state.Store(int32(Cancelled))
	close(s.cancelled)
	return true
}

func (s *slot[T]) current() State {
	return State(s.state.Load())
}

// take blocks until a value arrives, the slot is cancelled, or ctx ends.
// An expired deadline reports errors.ErrTimeout.
func (s *slot[T]) take(ctx context.Context) (T, error) {
	var zero T
	select {
	case v := <-s.reply:
		return v, nil
	case <-s.cancelled:
		return zero, errs.ErrCancelled
	case <-ctx.Done():
		select {
		case v := <-s.reply:
			return v, nil
		default:
		}
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, errs.ErrTimeout
		}
		return zero, ctx.Err()
	}
}
