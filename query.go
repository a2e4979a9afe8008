/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package activerecord

import (
	"github.com/suparena/activerecord/async"
	"github.com/suparena/activerecord/datastore"
	errs "github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/storagemodels"
)

// Query collects predicates for a table scan. It is immutable; Where
// returns a copy.
type Query[R any, P interface {
	*R
	Record
}] struct {
	store *Store[R, P]
	conds []storagemodels.Condition
}

// Where adds predicates. An item must match all of them.
func (q *Query[R, P]) Where(conds ...storagemodels.Condition) *Query[R, P] {
	next := &Query[R, P]{store: q.store, conds: make([]storagemodels.Condition, 0, len(q.conds)+len(conds))}
	next.conds = append(next.conds, q.conds...)
	next.conds = append(next.conds, conds...)
	return next
}

// Conditions returns the predicates collected so far.
func (q *Query[R, P]) Conditions() []storagemodels.Condition {
	return append([]storagemodels.Condition(nil), q.conds...)
}

// Results runs the query. Every matching item is decoded into a new record
// carrying its origin; the future resolves when the provider signals the
// end of results.
func (q *Query[R, P]) Results(cbs ...Callback) *async.CollectionFuture[R] {
	s := q.store
	op := s.begin("query")
	c := collect(cbs)
	onRecords := successOf[func([]*R)](c, op.name)

	fut := async.NewCollectionFuture(func(recs []*R) {
		op.log.Debug().Int("records", len(recs)).Msg("query finished")
		op.finish(nil)
		if onRecords != nil {
			onRecords(recs)
		}
	}, func(err error) {
		op.finish(err)
		if c.err != nil {
			c.err(err)
		}
	})

	handle := s.table()
	if len(q.conds) > 0 {
		handle = handle.Where(q.conds...)
	}

	handle.GetItems(func(snap *datastore.Snapshot) {
		if snap == nil {
			fut.Finalize()
			return
		}
		rec := P(s.schema.New())
		s.mapper.FromAttributes(snap.Attributes, (*R)(rec))
		if snap.Origin != nil {
			rec.persisted().stored(snap.Origin)
		}
		fut.AddRecord((*R)(rec))
	}, func(code int, message string) {
		fut.ProcessError(errs.FromProvider(code, message))
	})
	return fut
}
