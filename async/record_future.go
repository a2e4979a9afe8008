/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package async

import (
	"context"
	"time"
)

// RecordState is the terminal value of a RecordFuture.
type RecordState[R any] struct {
	Record *R
	Err    error
}

// HasError reports whether the operation failed.
func (s RecordState[R]) HasError() bool { return s.Err != nil }

// RecordFuture delivers the result of a single-record operation. It is
// resolved at most once, by ProcessSuccess or ProcessError, usually from a
// provider callback goroutine.
type RecordFuture[R any] struct {
	slot      *slot[RecordState[R]]
	onSuccess func(*R)
	onError   func(error)
}

// NewRecordFuture creates a running future. Either callback may be nil.
// Callbacks run before any Get returns, with the future still Running. They
// may call State, but Cancel or another resolution from inside a callback
// is refused.
func NewRecordFuture[R any](onSuccess func(*R), onError func(error)) *RecordFuture[R] {
	return &RecordFuture[R]{
		slot:      newSlot[RecordState[R]](),
		onSuccess: onSuccess,
		onError:   onError,
	}
}

// ProcessSuccess runs the success callback and resolves the future with rec.
// It is ignored once the future is done or cancelled.
func (f *RecordFuture[R]) ProcessSuccess(rec *R) {
	f.slot.resolve(RecordState[R]{Record: rec}, func() {
		if f.onSuccess != nil {
			f.onSuccess(rec)
		}
	})
}

// ProcessError runs the error callback and resolves the future with err.
// It is ignored once the future is done or cancelled.
func (f *RecordFuture[R]) ProcessError(err error) {
	f.slot.resolve(RecordState[R]{Err: err}, func() {
		if f.onError != nil {
			f.onError(err)
		}
	})
}

// Get blocks until the future resolves. The terminal value is handed out
// once; a second Get blocks forever, so use GetTimeout when that can happen.
func (f *RecordFuture[R]) Get() RecordState[R] {
	return f.Await(context.Background())
}

// GetTimeout is like Get but gives up after d with errors.ErrTimeout.
func (f *RecordFuture[R]) GetTimeout(d time.Duration) RecordState[R] {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return f.Await(ctx)
}

// Await is like Get but gives up when ctx ends. A passed deadline reports
// errors.ErrTimeout; cancellation reports ctx.Err().
func (f *RecordFuture[R]) Await(ctx context.Context) RecordState[R] {
	st, err := f.slot.take(ctx)
	if err != nil {
		return RecordState[R]{Err: err}
	}
	return st
}

// Cancel stops the caller from observing a late result. The provider call
// already in flight is not interrupted. It reports whether the future was
// still running.
func (f *RecordFuture[R]) Cancel() bool { return f.slot.cancel() }

// Wait returns a channel closed when the future resolves.
func (f *RecordFuture[R]) Wait() <-chan struct{} { return f.slot.done }

func (f *RecordFuture[R]) State() State { return f.slot.current() }

func (f *RecordFuture[R]) IsRunning() bool { return f.State() == Running }

func (f *RecordFuture[R]) IsDone() bool { return f.State() == Done }

func (f *RecordFuture[R]) IsCancelled() bool { return f.State() == Cancelled }
