/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"

	errs "github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/storagemodels"
)

type embeddedCodec[R, N any] struct {
	ref    func(*R) **N
	schema *Schema[N]
}

func (e embeddedCodec[R, N]) object(rec *R, name string, c collector) (map[string]any, bool) {
	n := *e.ref(rec)
	if n == nil {
		return nil, false
	}
	obj := make(map[string]any)
	e.schema.encodeObject(n, obj, c.within(name))
	return obj, true
}

func (e embeddedCodec[R, N]) encode(rec *R, name string, out *storagemodels.Attributes, c collector) {
	obj, ok := e.object(rec, name, c)
	if !ok {
		return
	}
	v, err := formatJSON(obj)
	if err != nil {
		c.add(name, err)
		return
	}
	out.Set(name, v)
}

func (e embeddedCodec[R, N]) assign(obj map[string]any, name string, rec *R, c collector) {
	if obj == nil {
		return
	}
	n := e.schema.New()
	e.schema.decodeObject(obj, n, c.within(name))
	*e.ref(rec) = n
}

func (e embeddedCodec[R, N]) decode(in map[string]storagemodels.Value, name string, rec *R, c collector) bool {
	v, ok := in[name]
	if !ok {
		return false
	}
	var obj map[string]any
	if err := parseJSON(v, &obj); err != nil {
		c.add(name, err)
		return true
	}
	e.assign(obj, name, rec, c)
	return true
}

func (e embeddedCodec[R, N]) encodeJSON(rec *R, name string, obj map[string]any, c collector) {
	if inner, ok := e.object(rec, name, c); ok {
		obj[name] = inner
	}
}

func (e embeddedCodec[R, N]) decodeJSON(obj map[string]any, name string, rec *R, c collector) bool {
	raw, ok := obj[name]
	if !ok || raw == nil {
		return false
	}
	inner, ok := raw.(map[string]any)
	if !ok {
		c.add(name, fmt.Errorf("%w: expected object, got %T", errs.ErrMalformedJSON, raw))
		return true
	}
	e.assign(inner, name, rec, c)
	return true
}

func (e embeddedCodec[R, N]) reset(rec *R) { *e.ref(rec) = nil }

func (e embeddedCodec[R, N]) key(*R) (storagemodels.Value, bool) {
	return storagemodels.Value{}, false
}

type collectionCodec[R, N any] struct {
	ref    func(*R) *[]N
	schema *Schema[N]
}

func (e collectionCodec[R, N]) array(rec *R, name string, c collector) ([]any, bool) {
	items := *e.ref(rec)
	if items == nil {
		return nil, false
	}
	arr := make([]any, len(items))
	for i := range items {
		obj := make(map[string]any)
		e.schema.encodeObject(&items[i], obj, c.within(fmt.Sprintf("%s[%d]", name, i)))
		arr[i] = obj
	}
	return arr, true
}

// assign replaces the slice only when every element is an object.
func (e collectionCodec[R, N]) assign(arr []any, name string, rec *R, c collector) {
	if arr == nil {
		return
	}
	for i, raw := range arr {
		if _, ok := raw.(map[string]any); !ok {
			c.add(name, fmt.Errorf("%w: element %d is %T, not an object", errs.ErrMalformedJSON, i, raw))
			return
		}
	}
	items := make([]N, len(arr))
	for i, raw := range arr {
		n := e.schema.New()
		e.schema.decodeObject(raw.(map[string]any), n, c.within(fmt.Sprintf("%s[%d]", name, i)))
		items[i] = *n
	}
	*e.ref(rec) = items
}

func (e collectionCodec[R, N]) encode(rec *R, name string, out *storagemodels.Attributes, c collector) {
	arr, ok := e.array(rec, name, c)
	if !ok {
		return
	}
	v, err := formatJSON(arr)
	if err != nil {
		c.add(name, err)
		return
	}
	out.Set(name, v)
}

func (e collectionCodec[R, N]) decode(in map[string]storagemodels.Value, name string, rec *R, c collector) bool {
	v, ok := in[name]
	if !ok {
		return false
	}
	var arr []any
	if err := parseJSON(v, &arr); err != nil {
		c.add(name, err)
		return true
	}
	e.assign(arr, name, rec, c)
	return true
}

func (e collectionCodec[R, N]) encodeJSON(rec *R, name string, obj map[string]any, c collector) {
	if arr, ok := e.array(rec, name, c); ok {
		obj[name] = arr
	}
}

func (e collectionCodec[R, N]) decodeJSON(obj map[string]any, name string, rec *R, c collector) bool {
	raw, ok := obj[name]
	if !ok || raw == nil {
		return false
	}
	arr, ok := raw.([]any)
	if !ok {
		c.add(name, fmt.Errorf("%w: expected array, got %T", errs.ErrMalformedJSON, raw))
		return true
	}
	e.assign(arr, name, rec, c)
	return true
}

func (e collectionCodec[R, N]) reset(rec *R) { *e.ref(rec) = nil }

func (e collectionCodec[R, N]) key(*R) (storagemodels.Value, bool) {
	return storagemodels.Value{}, false
}

// nestedCodec stores the nested record's fields alongside the parent's. The
// nested record is allocated on decode only when one of its fields is present.
type nestedCodec[R, N any] struct {
	ref    func(*R) **N
	schema *Schema[N]
}

func (e nestedCodec[R, N]) encode(rec *R, name string, out *storagemodels.Attributes, c collector) {
	if n := *e.ref(rec); n != nil {
		e.schema.encodeAttributes(n, out, c.within(name))
	}
}

func (e nestedCodec[R, N]) decode(in map[string]storagemodels.Value, name string, rec *R, c collector) bool {
	target := *e.ref(rec)
	fresh := target == nil
	if fresh {
		target = e.schema.New()
	}
	touched := e.schema.decodeAttributes(in, target, c.within(name))
	if touched && fresh {
		*e.ref(rec) = target
	}
	return touched
}

func (e nestedCodec[R, N]) encodeJSON(rec *R, name string, obj map[string]any, c collector) {
	if n := *e.ref(rec); n != nil {
		e.schema.encodeObject(n, obj, c.within(name))
	}
}

func (e nestedCodec[R, N]) decodeJSON(obj map[string]any, name string, rec *R, c collector) bool {
	target := *e.ref(rec)
	fresh := target == nil
	if fresh {
		target = e.schema.New()
	}
	touched := e.schema.decodeObject(obj, target, c.within(name))
	if touched && fresh {
		*e.ref(rec) = target
	}
	return touched
}

func (e nestedCodec[R, N]) reset(rec *R) { *e.ref(rec) = nil }

func (e nestedCodec[R, N]) key(*R) (storagemodels.Value, bool) {
	return storagemodels.Value{}, false
}
