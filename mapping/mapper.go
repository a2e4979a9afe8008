/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/suparena/activerecord/storagemodels"
)

// Mapper converts records of type R to and from attribute maps.
// A Mapper is safe for concurrent use; the records passed to it are not.
type Mapper[R any] struct {
	schema *Schema[R]
	log    zerolog.Logger
}

// MapperOption configures a Mapper.
type MapperOption func(*mapperOptions)

type mapperOptions struct {
	logger *zerolog.Logger
}

// WithLogger sets the logger skipped fields are reported to. The global
// zerolog logger is used otherwise.
func WithLogger(l zerolog.Logger) MapperOption {
	return func(o *mapperOptions) { o.logger = &l }
}

// NewMapper returns a Mapper for schema.
func NewMapper[R any](schema *Schema[R], opts ...MapperOption) *Mapper[R] {
	var o mapperOptions
	for _, opt := range opts {
		opt(&o)
	}
	l := log.Logger
	if o.logger != nil {
		l = *o.logger
	}
	return &Mapper[R]{
		schema: schema,
		log:    l.With().Str("table", schema.Table()).Logger(),
	}
}

// Schema returns the schema the mapper was built from.
func (m *Mapper[R]) Schema() *Schema[R] { return m.schema }

// ToAttributes serializes rec. Absent fields are omitted.
func (m *Mapper[R]) ToAttributes(rec *R) (*storagemodels.Attributes, Diagnostics) {
	var d Diagnostics
	out := storagemodels.NewAttributes()
	m.schema.encodeAttributes(rec, out, newCollector(&d))
	m.report("encode", d)
	return out, d
}

// FromAttributes applies attrs to rec. Fields whose attribute is absent
// keep their current value.
func (m *Mapper[R]) FromAttributes(attrs map[string]storagemodels.Value, rec *R) Diagnostics {
	var d Diagnostics
	m.schema.decodeAttributes(attrs, rec, newCollector(&d))
	m.report("decode", d)
	return d
}

// Decode builds a new record from attrs using the schema's factory.
func (m *Mapper[R]) Decode(attrs map[string]storagemodels.Value) (*R, Diagnostics) {
	rec := m.schema.New()
	return rec, m.FromAttributes(attrs, rec)
}

// Reset clears every bound field of rec.
func (m *Mapper[R]) Reset(rec *R) {
	m.schema.reset(rec)
}

// PrimaryKey returns the primary key of rec. A field flagged as primary key
// always takes precedence over a field matched by name, even when empty.
func (m *Mapper[R]) PrimaryKey(rec *R) (storagemodels.Value, bool) {
	if m.schema.primary == nil {
		return storagemodels.Value{}, false
	}
	return m.schema.primary.codec.key(rec)
}

// SecondaryKey returns the secondary key of rec under the same rules.
func (m *Mapper[R]) SecondaryKey(rec *R) (storagemodels.Value, bool) {
	if m.schema.secondary == nil {
		return storagemodels.Value{}, false
	}
	return m.schema.secondary.codec.key(rec)
}

// KeyAttributes returns only the present key attributes of rec.
func (m *Mapper[R]) KeyAttributes(rec *R) *storagemodels.Attributes {
	out := storagemodels.NewAttributes()
	if v, ok := m.PrimaryKey(rec); ok {
		out.Set(m.schema.primary.name, v)
	}
	if v, ok := m.SecondaryKey(rec); ok {
		out.Set(m.schema.secondary.name, v)
	}
	return out
}

func (m *Mapper[R]) report(direction string, d Diagnostics) {
	for _, fe := range d.Skipped {
		m.log.Warn().
			Str("direction", direction).
			Str("field", fe.Field).
			Err(fe.Err).
			Msg("field skipped during attribute mapping")
	}
}
