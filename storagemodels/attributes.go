/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import "sort"

// Attributes is an insertion-ordered map of attribute names to values.
// Setting an existing name replaces its value but keeps its position.
type Attributes struct {
	keys   []string
	values map[string]Value
}

// NewAttributes returns an empty attribute map.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]Value)}
}

// AttributesFromMap builds an ordered map from m, ordering names lexically.
func AttributesFromMap(m map[string]Value) *Attributes {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	a := &Attributes{keys: keys, values: make(map[string]Value, len(m))}
	for k, v := range m {
		a.values[k] = v
	}
	return a
}

// Set stores v under name.
func (a *Attributes) Set(name string, v Value) {
	if a.values == nil {
		a.values = make(map[string]Value)
	}
	if _, exists := a.values[name]; !exists {
		a.keys = append(a.keys, name)
	}
	a.values[name] = v
}

// Get returns the value stored under name.
func (a *Attributes) Get(name string) (Value, bool) {
	if a == nil {
		return Value{}, false
	}
	v, ok := a.values[name]
	return v, ok
}

// Merge sets every attribute of o into a in o's order.
func (a *Attributes) Merge(o *Attributes) {
	o.Range(func(name string, v Value) bool {
		a.Set(name, v)
		return true
	})
}

func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Keys returns the attribute names in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Range calls fn for each attribute in order until fn returns false.
func (a *Attributes) Range(fn func(name string, v Value) bool) {
	if a == nil {
		return
	}
	for _, k := range a.keys {
		if !fn(k, a.values[k]) {
			return
		}
	}
}

// Map returns an unordered copy of the attributes.
func (a *Attributes) Map() map[string]Value {
	out := make(map[string]Value, a.Len())
	a.Range(func(name string, v Value) bool {
		out[name] = v
		return true
	})
	return out
}
