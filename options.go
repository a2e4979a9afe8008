/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package activerecord

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/suparena/activerecord/mapping"
	"github.com/suparena/activerecord/metrics"
)

type storeOptions struct {
	log     *zerolog.Logger
	metrics metrics.Provider
	schema  any
}

// Option configures a Store.
type Option func(*storeOptions)

// WithLogger replaces the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *storeOptions) { o.log = &l }
}

// WithMetrics sends operation counts and timings to p.
func WithMetrics(p metrics.Provider) Option {
	return func(o *storeOptions) { o.metrics = p }
}

// WithSchema uses schema instead of looking the record type up in the
// registry. Its record type must match the Store's.
func WithSchema[R any](schema *mapping.Schema[R]) Option {
	return func(o *storeOptions) { o.schema = schema }
}

type callbacks struct {
	success any
	err     func(error)
}

// Callback attaches a completion callback to a single operation. Callbacks
// run on the goroutine that resolves the future, before Get returns.
type Callback func(*callbacks)

// OnSuccess is called with the record when Fetch, Save or Delete succeeds.
func OnSuccess[R any](fn func(*R)) Callback {
	return func(c *callbacks) { c.success = fn }
}

// OnRecords is called with every record once a query finishes.
func OnRecords[R any](fn func([]*R)) Callback {
	return func(c *callbacks) { c.success = fn }
}

// OnError is called with the classified error when an operation fails.
func OnError(fn func(error)) Callback {
	return func(c *callbacks) { c.err = fn }
}

func collect(opts []Callback) callbacks {
	var c callbacks
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func successOf[F any](c callbacks, op string) F {
	var zero F
	if c.success == nil {
		return zero
	}
	fn, ok := c.success.(F)
	if !ok {
		panic(fmt.Sprintf("activerecord: %s callback has type %T, want %T", op, c.success, zero))
	}
	return fn
}
