/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package async

import (
	"context"
	"sync"
	"time"
)

// CollectionState is the terminal value of a CollectionFuture. Records is
// never nil; it is empty when Err is set.
type CollectionState[R any] struct {
	Records []*R
	Err     error
}

func (s CollectionState[R]) HasError() bool { return s.Err != nil }

// CollectionFuture accumulates records streamed by a provider and resolves
// once the stream ends or fails.
type CollectionFuture[R any] struct {
	slot      *slot[CollectionState[R]]
	onSuccess func([]*R)
	onError   func(error)

	mu      sync.Mutex
	records []*R
}

// NewCollectionFuture creates a running collection future. Either callback
// may be nil. Callbacks may read the future (State, Records) but AddRecord,
// Cancel and further resolutions made from inside them are ignored.
func NewCollectionFuture[R any](onSuccess func([]*R), onError func(error)) *CollectionFuture[R] {
	return &CollectionFuture[R]{
		slot:      newSlot[CollectionState[R]](),
		onSuccess: onSuccess,
		onError:   onError,
		records:   make([]*R, 0),
	}
}

// AddRecord appends rec in arrival order. Nil records and records arriving
// after the future left Running are dropped.
func (f *CollectionFuture[R]) AddRecord(rec *R) {
	if rec == nil {
		return
	}
	f.slot.locked(func() {
		f.mu.Lock()
		f.records = append(f.records, rec)
		f.mu.Unlock()
	})
}

// Records returns a copy of the records accumulated so far.
func (f *CollectionFuture[R]) Records() []*R {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*R, len(f.records))
	copy(out, f.records)
	return out
}

// Finalize marks the end of the stream: the success callback receives the
// accumulated records and the future resolves with them. The list is taken
// under the same lock AddRecord appends under, so no record is accepted
// without being delivered.
func (f *CollectionFuture[R]) Finalize() {
	f.slot.resolveWith(func() CollectionState[R] {
		return CollectionState[R]{Records: f.Records()}
	}, func(st CollectionState[R]) {
		if f.onSuccess != nil {
			f.onSuccess(st.Records)
		}
	})
}

// ProcessError abandons the accumulated records and resolves the future with
// err and an empty record list.
func (f *CollectionFuture[R]) ProcessError(err error) {
	f.slot.resolve(CollectionState[R]{Records: make([]*R, 0), Err: err}, func() {
		if f.onError != nil {
			f.onError(err)
		}
	})
}

// Get blocks until the future resolves.
func (f *CollectionFuture[R]) Get() CollectionState[R] {
	return f.Await(context.Background())
}

// GetTimeout is like Get but gives up after d with errors.ErrTimeout.
func (f *CollectionFuture[R]) GetTimeout(d time.Duration) CollectionState[R] {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return f.Await(ctx)
}

// Await is like Get but gives up when ctx ends. A passed deadline reports
// errors.ErrTimeout; cancellation reports ctx.Err().
func (f *CollectionFuture[R]) Await(ctx context.Context) CollectionState[R] {
	st, err := f.slot.take(ctx)
	if err != nil {
		return CollectionState[R]{Records: make([]*R, 0), Err: err}
	}
	return st
}

// Cancel stops the caller from observing a late result.
func (f *CollectionFuture[R]) Cancel() bool { return f.slot.cancel() }

func (f *CollectionFuture[R]) Wait() <-chan struct{} { return f.slot.done }

func (f *CollectionFuture[R]) State() State { return f.slot.current() }

func (f *CollectionFuture[R]) IsRunning() bool { return f.State() == Running }

func (f *CollectionFuture[R]) IsDone() bool { return f.State() == Done }

func (f *CollectionFuture[R]) IsCancelled() bool { return f.State() == Cancelled }
