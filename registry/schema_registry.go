/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/activerecord/mapping"
)

// Registry caches record schemas by Go type. Schemas are built lazily, at
// most once, on first lookup.
type Registry struct {
	mu      sync.RWMutex
	schemas map[reflect.Type]*entry
	tables  map[string]reflect.Type
}

type entry struct {
	once   sync.Once
	build  func() (any, string, error)
	schema any
	err    error
}

// Default is the process-wide registry used by Register and SchemaFor.
var Default = New()

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		schemas: make(map[reflect.Type]*entry),
		tables:  make(map[string]reflect.Type),
	}
}

func typeOf[R any]() reflect.Type {
	return reflect.TypeOf((*R)(nil)).Elem()
}

// Register records the schema builder for R in the default registry.
func Register[R any](build func() *mapping.Schema[R]) {
	RegisterIn(Default, build)
}

// RegisterIn records the schema builder for R. It panics if R already has a
// builder, to prevent accidental overrides.
func RegisterIn[R any](reg *Registry, build func() *mapping.Schema[R]) {
	t := typeOf[R]()

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.schemas[t]; exists {
		panic(fmt.Sprintf("schema registry: type %v already registered", t))
	}
	reg.schemas[t] = &entry{build: func() (any, string, error) {
		s := build()
		if s == nil {
			return nil, "", fmt.Errorf("schema registry: builder for %v returned nil", t)
		}
		return s, s.Table(), nil
	}}
}

// SchemaFor returns the schema of R from the default registry.
func SchemaFor[R any]() (*mapping.Schema[R], error) {
	return SchemaIn[R](Default)
}

// SchemaIn returns the schema of R, building it on first use.
func SchemaIn[R any](reg *Registry) (*mapping.Schema[R], error) {
	t := typeOf[R]()

	reg.mu.RLock()
	e, ok := reg.schemas[t]
	reg.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("schema registry: no schema registered for %v", t)
	}

	e.once.Do(func() { reg.build(t, e) })
	if e.err != nil {
		return nil, e.err
	}
	return e.schema.(*mapping.Schema[R]), nil
}

// MustSchemaFor is like SchemaFor but panics when R has no valid schema.
func MustSchemaFor[R any]() *mapping.Schema[R] {
	s, err := SchemaFor[R]()
	if err != nil {
		panic(err)
	}
	return s
}

func (reg *Registry) build(t reflect.Type, e *entry) {
	defer func() {
		if r := recover(); r != nil {
			e.err = fmt.Errorf("schema registry: building %v: %v", t, r)
		}
	}()

	schema, table, err := e.build()
	if err != nil {
		e.err = err
		return
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if owner, taken := reg.tables[table]; taken && owner != t {
		e.err = fmt.Errorf("schema registry: table %q already used by %v", table, owner)
		return
	}
	reg.tables[table] = t
	e.schema = schema
}

// Tables lists the tables of every schema built so far.
func (reg *Registry) Tables() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]string, 0, len(reg.tables))
	for name := range reg.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Tables lists the built tables of the default registry.
func Tables() []string {
	return Default.Tables()
}
