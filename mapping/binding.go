/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"

	"github.com/suparena/activerecord/storagemodels"
)

// Kind is the conversion rule applied to a bound field.
type Kind int

const (
	// Scalar fields map to a single String or Number attribute.
	Scalar Kind = iota + 1
	// EnumName fields store the constant's name as a String attribute.
	EnumName
	// EmbeddedObject fields store a nested record as JSON object text.
	EmbeddedObject
	// JsonCollection fields store a slice of nested records as JSON array text.
	JsonCollection
	// NestedStorage fields flatten a nested record's attributes into the parent.
	NestedStorage
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "Scalar"
	case EnumName:
		return "EnumName"
	case EmbeddedObject:
		return "EmbeddedObject"
	case JsonCollection:
		return "JsonCollection"
	case NestedStorage:
		return "NestedStorage"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// codec converts one field of R in both directions. Every method reports
// conversion failures to c and carries on.
type codec[R any] interface {
	encode(rec *R, name string, out *storagemodels.Attributes, c collector)
	// decode reports whether the input touched the field.
	decode(in map[string]storagemodels.Value, name string, rec *R, c collector) bool
	encodeJSON(rec *R, name string, obj map[string]any, c collector)
	decodeJSON(obj map[string]any, name string, rec *R, c collector) bool
	reset(rec *R)
	// key returns the field as a key attribute; ok is false when absent or
	// when the kind cannot act as a key.
	key(rec *R) (storagemodels.Value, bool)
}

// Binding describes how one field of R is persisted.
type Binding[R any] struct {
	field     string
	name      string
	kind      Kind
	primary   bool
	secondary bool
	codec     codec[R]
}

// FieldName is the field's own name, used for key fallback lookup.
func (b *Binding[R]) FieldName() string { return b.field }

// StorageName is the attribute name the field is stored under.
func (b *Binding[R]) StorageName() string { return b.name }

func (b *Binding[R]) Kind() Kind { return b.kind }

func (b *Binding[R]) IsPrimaryKey() bool { return b.primary }

func (b *Binding[R]) IsSecondaryKey() bool { return b.secondary }

// Option adjusts a binding.
type Option func(*bindingOptions)

type bindingOptions struct {
	name      string
	primary   bool
	secondary bool
}

// Name overrides the storage name. An empty name keeps the field name.
func Name(storageName string) Option {
	return func(o *bindingOptions) { o.name = storageName }
}

// PrimaryKey flags the field as the record's primary key.
func PrimaryKey() Option {
	return func(o *bindingOptions) { o.primary = true }
}

// SecondaryKey flags the field as the record's secondary key.
func SecondaryKey() Option {
	return func(o *bindingOptions) { o.secondary = true }
}

func newBinding[R any](field string, kind Kind, c codec[R], opts []Option) *Binding[R] {
	var o bindingOptions
	for _, opt := range opts {
		opt(&o)
	}
	name := o.name
	if name == "" {
		name = field
	}
	return &Binding[R]{
		field:     field,
		name:      name,
		kind:      kind,
		primary:   o.primary,
		secondary: o.secondary,
		codec:     c,
	}
}

// Field binds a scalar field. The declared type T decides how attributes
// are converted; see the package documentation for the supported set.
func Field[R, T any](field string, ref func(*R) *T, opts ...Option) *Binding[R] {
	return newBinding[R](field, Scalar, scalarCodec[R, T]{ref: ref}, opts)
}

// Enum binds a field whose values are named by set.
func Enum[R any, E comparable](field string, ref func(*R) *E, set *EnumSet[E], opts ...Option) *Binding[R] {
	return newBinding[R](field, EnumName, enumCodec[R, E]{ref: ref, set: set}, opts)
}

// Embedded binds a pointer to a nested record stored as a JSON object.
func Embedded[R, N any](field string, ref func(*R) **N, schema *Schema[N], opts ...Option) *Binding[R] {
	return newBinding[R](field, EmbeddedObject, embeddedCodec[R, N]{ref: ref, schema: schema}, opts)
}

// Collection binds a slice of nested records stored as a JSON array.
func Collection[R, N any](field string, ref func(*R) *[]N, schema *Schema[N], opts ...Option) *Binding[R] {
	return newBinding[R](field, JsonCollection, collectionCodec[R, N]{ref: ref, schema: schema}, opts)
}

// Nested binds a pointer to a nested record whose attributes are stored
// inline in the parent. When names collide the attribute written last wins.
func Nested[R, N any](field string, ref func(*R) **N, schema *Schema[N], opts ...Option) *Binding[R] {
	return newBinding[R](field, NestedStorage, nestedCodec[R, N]{ref: ref, schema: schema}, opts)
}
