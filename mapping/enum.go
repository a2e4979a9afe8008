/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"
	"sort"

	errs "github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/storagemodels"
)

// EnumSet names the constants of an enumerated type. Names are matched
// exactly, as written.
type EnumSet[E comparable] struct {
	names  map[E]string
	values map[string]E
}

// NewEnumSet builds a set from constant names. It panics when two constants
// share a name.
func NewEnumSet[E comparable](names map[E]string) *EnumSet[E] {
	s := &EnumSet[E]{
		names:  make(map[E]string, len(names)),
		values: make(map[string]E, len(names)),
	}
	for e, n := range names {
		if prev, dup := s.values[n]; dup {
			panic(fmt.Sprintf("enum name %q used by both %v and %v", n, prev, e))
		}
		s.names[e] = n
		s.values[n] = e
	}
	return s
}

// Name returns the name of e.
func (s *EnumSet[E]) Name(e E) (string, bool) {
	n, ok := s.names[e]
	return n, ok
}

// ValueOf returns the constant called name.
func (s *EnumSet[E]) ValueOf(name string) (E, error) {
	if e, ok := s.values[name]; ok {
		return e, nil
	}
	var zero E
	return zero, fmt.Errorf("%w: %q", errs.ErrInvalidEnumValue, name)
}

// Names lists every constant name in lexical order.
func (s *EnumSet[E]) Names() []string {
	out := make([]string, 0, len(s.values))
	for n := range s.values {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

type enumCodec[R any, E comparable] struct {
	ref func(*R) *E
	set *EnumSet[E]
}

// name returns the stored name of the field. A zero value without a name
// is absent.
func (e enumCodec[R, E]) name(rec *R) (string, bool, error) {
	val := *e.ref(rec)
	n, ok := e.set.Name(val)
	if ok {
		return n, true, nil
	}
	var zero E
	if val == zero {
		return "", false, nil
	}
	return "", false, fmt.Errorf("%w: %v has no name", errs.ErrInvalidEnumValue, val)
}

func (e enumCodec[R, E]) encode(rec *R, name string, out *storagemodels.Attributes, c collector) {
	n, ok, err := e.name(rec)
	if err != nil {
		c.add(name, err)
		return
	}
	if ok {
		out.Set(name, storagemodels.String(n))
	}
}

func (e enumCodec[R, E]) assign(v storagemodels.Value, rec *R) error {
	if !v.IsString() {
		return fmt.Errorf("%w: %s attribute for enum field", errs.ErrInvalidType, v.Kind())
	}
	val, err := e.set.ValueOf(v.Text())
	if err != nil {
		return err
	}
	*e.ref(rec) = val
	return nil
}

func (e enumCodec[R, E]) decode(in map[string]storagemodels.Value, name string, rec *R, c collector) bool {
	v, ok := in[name]
	if !ok {
		return false
	}
	if err := e.assign(v, rec); err != nil {
		c.add(name, err)
	}
	return true
}

func (e enumCodec[R, E]) encodeJSON(rec *R, name string, obj map[string]any, c collector) {
	n, ok, err := e.name(rec)
	if err != nil {
		c.add(name, err)
		return
	}
	if ok {
		obj[name] = n
	}
}

func (e enumCodec[R, E]) decodeJSON(obj map[string]any, name string, rec *R, c collector) bool {
	raw, ok := obj[name]
	if !ok || raw == nil {
		return false
	}
	v, err := valueOfJSON(raw)
	if err == nil {
		err = e.assign(v, rec)
	}
	if err != nil {
		c.add(name, err)
	}
	return true
}

func (e enumCodec[R, E]) reset(rec *R) {
	var zero E
	*e.ref(rec) = zero
}

func (e enumCodec[R, E]) key(rec *R) (storagemodels.Value, bool) {
	n, ok, err := e.name(rec)
	if err != nil || !ok {
		return storagemodels.Value{}, false
	}
	return storagemodels.String(n), true
}
