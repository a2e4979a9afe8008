/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package activerecord

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/suparena/activerecord/async"
	"github.com/suparena/activerecord/datastore"
	errs "github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/mapping"
	"github.com/suparena/activerecord/metrics"
	"github.com/suparena/activerecord/registry"
	"github.com/suparena/activerecord/storagemodels"
)

// Store runs the record lifecycle for one record type against a connection.
// P is always *R; it is inferred, so callers write NewStore[EntityRecord].
type Store[R any, P interface {
	*R
	Record
}] struct {
	conn    datastore.ConnectionProvider
	schema  *mapping.Schema[R]
	mapper  *mapping.Mapper[R]
	log     zerolog.Logger
	metrics metrics.Provider
}

// NewStore builds a Store for R. Unless WithSchema is given, the schema is
// taken from the registry.
func NewStore[R any, P interface {
	*R
	Record
}](conn datastore.ConnectionProvider, opts ...Option) (*Store[R, P], error) {
	if conn == nil {
		return nil, fmt.Errorf("activerecord: nil connection: %w", errs.ErrInvalidInput)
	}

	o := storeOptions{metrics: metrics.Noop{}}
	for _, opt := range opts {
		opt(&o)
	}

	var schema *mapping.Schema[R]
	switch s := o.schema.(type) {
	case nil:
		var err error
		if schema, err = registry.SchemaFor[R](); err != nil {
			return nil, err
		}
	case *mapping.Schema[R]:
		schema = s
	default:
		return nil, fmt.Errorf("activerecord: schema %T does not describe %T: %w", o.schema, new(R), errs.ErrInvalidType)
	}

	l := log.Logger
	if o.log != nil {
		l = *o.log
	}
	l = l.With().Str("table", schema.Table()).Logger()

	return &Store[R, P]{
		conn:    conn,
		schema:  schema,
		mapper:  mapping.NewMapper(schema, mapping.WithLogger(l)),
		log:     l,
		metrics: o.metrics,
	}, nil
}

// MustNewStore is like NewStore but panics on error.
func MustNewStore[R any, P interface {
	*R
	Record
}](conn datastore.ConnectionProvider, opts ...Option) *Store[R, P] {
	s, err := NewStore[R, P](conn, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Store[R, P]) Schema() *mapping.Schema[R] { return s.schema }

func (s *Store[R, P]) Mapper() *mapping.Mapper[R] { return s.mapper }

func (s *Store[R, P]) table() datastore.TableHandle {
	return s.conn.Table(s.schema.Table())
}

// Fetch reads the stored item addressed by rec's keys into rec. Every bound
// field is cleared first. A missing item resolves DataAccess/ResourceNotFound.
// Fetch panics with errors.ErrMissingPrimaryKey when rec has no primary key.
func (s *Store[R, P]) Fetch(rec P, cbs ...Callback) *async.RecordFuture[R] {
	op := s.begin("fetch")
	fut := s.recordFuture(op, collect(cbs))
	s.fetch(op, rec, fut)
	return fut
}

func (s *Store[R, P]) fetch(op *operation, rec P, fut *async.RecordFuture[R]) {
	pk, ok := s.mapper.PrimaryKey((*R)(rec))
	if !ok {
		panic(fmt.Errorf("activerecord: fetch %s: %w", s.schema.Table(), errs.ErrMissingPrimaryKey))
	}
	sk, _ := s.mapper.SecondaryKey((*R)(rec))

	p := rec.persisted()
	p.begin(StateFetching)
	item := s.table().Item(pk, sk)
	op.log.Debug().Str("key", keyText(pk, sk)).Msg("fetching")

	item.Get(func(snap *datastore.Snapshot) {
		if snap.Empty() {
			p.fail()
			fut.ProcessError(errs.New(errs.DataAccess, errs.ResourceNotFound, "No Item"))
			return
		}
		s.mapper.Reset((*R)(rec))
		s.mapper.FromAttributes(snap.Attributes, (*R)(rec))
		p.stored(originOf(snap, item))
		fut.ProcessSuccess((*R)(rec))
	}, s.onProviderError(p, fut.ProcessError))
}

// Save runs the hooks, then writes every present field of rec as the whole
// stored item. A hook failure resolves Business/Validation and a missing
// primary key resolves DataAccess/MissingArgument; neither reaches storage.
func (s *Store[R, P]) Save(rec P, cbs ...Callback) *async.RecordFuture[R] {
	op := s.begin("save")
	fut := s.recordFuture(op, collect(cbs))
	p := rec.persisted()

	if h, ok := any(rec).(BeforeSaver); ok {
		if err := h.BeforeSave(); err != nil {
			fut.ProcessError(errs.Wrap(errs.Business, errs.Validation, err))
			return fut
		}
	}
	if h, ok := any(rec).(BeforeCreator); ok && !p.IsFromStorage() {
		if err := h.BeforeCreate(); err != nil {
			fut.ProcessError(errs.Wrap(errs.Business, errs.Validation, err))
			return fut
		}
	}

	pk, ok := s.mapper.PrimaryKey((*R)(rec))
	if !ok {
		fut.ProcessError(errs.Newf(errs.DataAccess, errs.MissingArgument,
			"%s has no primary key %q", s.schema.Table(), s.schema.PrimaryKeyName()))
		return fut
	}
	sk, _ := s.mapper.SecondaryKey((*R)(rec))

	attrs, _ := s.mapper.ToAttributes((*R)(rec))
	p.begin(StateSaving)
	item := s.table().Item(pk, sk)
	op.log.Debug().Str("key", keyText(pk, sk)).Int("attributes", attrs.Len()).Msg("saving")

	item.Push(attrs, func(snap *datastore.Snapshot) {
		if !snap.Empty() {
			s.mapper.FromAttributes(snap.Attributes, (*R)(rec))
		}
		p.stored(originOf(snap, item))
		fut.ProcessSuccess((*R)(rec))
	}, s.onProviderError(p, fut.ProcessError))
	return fut
}

// Delete removes the stored item. A record read from storage is deleted
// through its origin. Any other record is first fetched by key into a fresh
// record, and that record is deleted and handed to the callbacks. If that
// fetch fails the returned future never resolves; use GetTimeout or Await.
func (s *Store[R, P]) Delete(rec P, cbs ...Callback) *async.RecordFuture[R] {
	op := s.begin("delete")
	fut := s.recordFuture(op, collect(cbs))
	s.delete(op, rec, fut)
	return fut
}

func (s *Store[R, P]) delete(op *operation, rec P, fut *async.RecordFuture[R]) {
	p := rec.persisted()
	if origin := p.Origin(); origin != nil {
		p.begin(StateDeleting)
		origin.Delete(func(snap *datastore.Snapshot) {
			if !snap.Empty() {
				s.mapper.FromAttributes(snap.Attributes, (*R)(rec))
			}
			p.detach()
			fut.ProcessSuccess((*R)(rec))
		}, s.onProviderError(p, fut.ProcessError))
		return
	}

	probe := P(s.schema.New())
	s.mapper.FromAttributes(s.mapper.KeyAttributes((*R)(rec)).Map(), (*R)(probe))

	op.log.Debug().Msg("record has no origin, fetching before delete")
	fetched := async.NewRecordFuture[R](func(r *R) {
		s.delete(op, P(r), fut)
	}, func(err error) {
		op.log.Warn().Err(err).Msg("fetch before delete failed")
	})
	s.fetch(op, probe, fetched)
}

// Query starts a query over the record's table.
func (s *Store[R, P]) Query() *Query[R, P] {
	return &Query[R, P]{store: s}
}

// FetchAll returns every stored record of the table.
func (s *Store[R, P]) FetchAll(cbs ...Callback) *async.CollectionFuture[R] {
	return s.Query().Results(cbs...)
}

func (s *Store[R, P]) recordFuture(op *operation, c callbacks) *async.RecordFuture[R] {
	onSuccess := successOf[func(*R)](c, op.name)
	return async.NewRecordFuture(func(r *R) {
		op.finish(nil)
		if onSuccess != nil {
			onSuccess(r)
		}
	}, func(err error) {
		op.finish(err)
		if c.err != nil {
			c.err(err)
		}
	})
}

func (s *Store[R, P]) onProviderError(p *Persisted, resolve func(error)) datastore.ErrorFunc {
	return func(code int, message string) {
		p.fail()
		resolve(errs.FromProvider(code, message))
	}
}

func originOf(snap *datastore.Snapshot, fallback datastore.ItemHandle) datastore.ItemHandle {
	if snap != nil && snap.Origin != nil {
		return snap.Origin
	}
	return fallback
}

// operation carries the logging and metrics context of one Store call.
type operation struct {
	name    string
	table   string
	log     zerolog.Logger
	metrics metrics.Provider
	start   time.Time
}

func (s *Store[R, P]) begin(name string) *operation {
	return &operation{
		name:    name,
		table:   s.schema.Table(),
		log:     s.log.With().Str("op", name).Str("op_id", uuid.NewString()).Logger(),
		metrics: s.metrics,
		start:   time.Now(),
	}
}

func (o *operation) finish(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		o.log.Warn().Err(err).Int("code", errs.CodeOf(err)).Msg("operation failed")
	} else {
		o.log.Debug().Msg("operation done")
	}

	name := "activerecord." + o.name
	tags := []string{"table:" + o.table, "outcome:" + outcome}
	if mErr := o.metrics.Count(name, 1, tags); mErr != nil {
		o.log.Debug().Err(mErr).Msg("metrics count failed")
	}
	ms := float64(time.Since(o.start).Microseconds()) / 1000
	if mErr := o.metrics.Histogram(name+".duration_ms", ms, tags[:1]); mErr != nil {
		o.log.Debug().Err(mErr).Msg("metrics histogram failed")
	}
}

// keyText renders a record's keys for log output.
func keyText(pk, sk storagemodels.Value) string {
	if sk.IsZero() {
		return pk.Text()
	}
	return pk.Text() + "/" + sk.Text()
}
