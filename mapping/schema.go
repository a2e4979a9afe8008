/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/suparena/activerecord/storagemodels"
)

// Schema is the immutable description of how a record type is stored.
type Schema[R any] struct {
	table          string
	primaryKeyName string
	secondaryName  string
	bindings       []*Binding[R]
	factory        func() *R

	primary   *Binding[R]
	secondary *Binding[R]
}

// SchemaBuilder assembles a Schema. Errors surface from Build.
type SchemaBuilder[R any] struct {
	s *Schema[R]
}

// NewSchema starts a schema for R. An empty table defaults to the type name
// with any "Record" suffix removed. A nil factory allocates with new(R).
func NewSchema[R any](table string, factory func() *R) *SchemaBuilder[R] {
	if table == "" {
		table = defaultTableName[R]()
	}
	if factory == nil {
		factory = func() *R { return new(R) }
	}
	return &SchemaBuilder[R]{s: &Schema[R]{table: table, factory: factory}}
}

func defaultTableName[R any]() string {
	name := reflect.TypeOf((*R)(nil)).Elem().Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSuffix(name, "Record")
}

// PrimaryKey names the field used when no binding carries the primary flag.
func (b *SchemaBuilder[R]) PrimaryKey(fieldName string) *SchemaBuilder[R] {
	b.s.primaryKeyName = fieldName
	return b
}

// SecondaryKey names the field used when no binding carries the secondary flag.
func (b *SchemaBuilder[R]) SecondaryKey(fieldName string) *SchemaBuilder[R] {
	b.s.secondaryName = fieldName
	return b
}

// Bind appends bindings in storage order.
func (b *SchemaBuilder[R]) Bind(bindings ...*Binding[R]) *SchemaBuilder[R] {
	b.s.bindings = append(b.s.bindings, bindings...)
	return b
}

// Build validates the bindings and resolves the key fields.
func (b *SchemaBuilder[R]) Build() (*Schema[R], error) {
	s := b.s
	seen := make(map[string]bool, len(s.bindings))

	for _, bd := range s.bindings {
		if bd == nil || bd.codec == nil {
			return nil, fmt.Errorf("schema %s: nil binding", s.table)
		}
		if bd.field == "" {
			return nil, fmt.Errorf("schema %s: binding with empty field name", s.table)
		}
		if bd.primary || bd.secondary {
			if bd.kind != Scalar && bd.kind != EnumName {
				return nil, fmt.Errorf("schema %s: %s field %q cannot be a key", s.table, bd.kind, bd.field)
			}
		}
		if bd.primary {
			if s.primary != nil {
				return nil, fmt.Errorf("schema %s: fields %q and %q are both flagged as primary key", s.table, s.primary.field, bd.field)
			}
			s.primary = bd
		}
		if bd.secondary {
			if s.secondary != nil {
				return nil, fmt.Errorf("schema %s: fields %q and %q are both flagged as secondary key", s.table, s.secondary.field, bd.field)
			}
			s.secondary = bd
		}
		if bd.kind == NestedStorage {
			continue
		}
		if seen[bd.name] {
			return nil, fmt.Errorf("schema %s: storage name %q bound twice", s.table, bd.name)
		}
		seen[bd.name] = true
	}

	var err error
	if s.primary == nil && s.primaryKeyName != "" {
		if s.primary, err = s.byFieldName(s.primaryKeyName); err != nil {
			return nil, fmt.Errorf("schema %s: primary key: %w", s.table, err)
		}
	}
	if s.secondary == nil && s.secondaryName != "" {
		if s.secondary, err = s.byFieldName(s.secondaryName); err != nil {
			return nil, fmt.Errorf("schema %s: secondary key: %w", s.table, err)
		}
	}
	return s, nil
}

// MustBuild is like Build but panics on an invalid schema.
func (b *SchemaBuilder[R]) MustBuild() *Schema[R] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema[R]) byFieldName(field string) (*Binding[R], error) {
	for _, bd := range s.bindings {
		if bd.field != field {
			continue
		}
		if bd.kind != Scalar && bd.kind != EnumName {
			return nil, fmt.Errorf("%s field %q cannot be a key", bd.kind, field)
		}
		return bd, nil
	}
	return nil, fmt.Errorf("no field named %q", field)
}

// Table is the storage table the record type lives in.
func (s *Schema[R]) Table() string { return s.table }

// PrimaryKeyName is the storage name of the primary key attribute, or ""
// when the schema has no primary key.
func (s *Schema[R]) PrimaryKeyName() string {
	if s.primary == nil {
		return ""
	}
	return s.primary.name
}

// SecondaryKeyName is the storage name of the secondary key attribute, or "".
func (s *Schema[R]) SecondaryKeyName() string {
	if s.secondary == nil {
		return ""
	}
	return s.secondary.name
}

// Bindings returns the schema's bindings in declaration order.
func (s *Schema[R]) Bindings() []*Binding[R] {
	out := make([]*Binding[R], len(s.bindings))
	copy(out, s.bindings)
	return out
}

// New returns a fresh record from the schema's factory.
func (s *Schema[R]) New() *R {
	return s.factory()
}

func (s *Schema[R]) encodeAttributes(rec *R, out *storagemodels.Attributes, c collector) {
	for _, bd := range s.bindings {
		bd.codec.encode(rec, bd.name, out, c)
	}
}

func (s *Schema[R]) decodeAttributes(in map[string]storagemodels.Value, rec *R, c collector) bool {
	touched := false
	for _, bd := range s.bindings {
		if bd.codec.decode(in, bd.name, rec, c) {
			touched = true
		}
	}
	return touched
}

func (s *Schema[R]) encodeObject(rec *R, obj map[string]any, c collector) {
	for _, bd := range s.bindings {
		bd.codec.encodeJSON(rec, bd.name, obj, c)
	}
}

func (s *Schema[R]) decodeObject(obj map[string]any, rec *R, c collector) bool {
	touched := false
	for _, bd := range s.bindings {
		if bd.codec.decodeJSON(obj, bd.name, rec, c) {
			touched = true
		}
	}
	return touched
}

func (s *Schema[R]) reset(rec *R) {
	for _, bd := range s.bindings {
		bd.codec.reset(rec)
	}
}
