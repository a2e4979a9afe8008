/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory storage provider for testing
package mock

import (
	"sort"
	"sync"

	"github.com/suparena/activerecord/datastore"
	"github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/storagemodels"
)

// injected is a failure returned instead of performing an operation.
type injected struct {
	code    int
	message string
}

type storedItem struct {
	pk, sk storagemodels.Value
	attrs  map[string]storagemodels.Value
}

// Provider is an in-memory implementation of datastore.ConnectionProvider.
// Callbacks run on a new goroutine unless WithSynchronousCallbacks is set.
type Provider struct {
	mu          sync.RWMutex
	tables      map[string]map[string]*storedItem
	synchronous bool
	getError    *injected
	putError    *injected
	deleteError *injected
	queryError  *injected
	calls       map[string]int
}

// New creates an empty mock provider
func New() *Provider {
	return &Provider{
		tables: make(map[string]map[string]*storedItem),
		calls:  make(map[string]int),
	}
}

// WithSynchronousCallbacks makes every callback run on the calling goroutine
func (p *Provider) WithSynchronousCallbacks() *Provider {
	p.synchronous = true
	return p
}

// WithGetError makes Get operations fail with code
func (p *Provider) WithGetError(code int, message string) *Provider {
	p.getError = &injected{code, message}
	return p
}

// WithPutError makes Push operations fail with code
func (p *Provider) WithPutError(code int, message string) *Provider {
	p.putError = &injected{code, message}
	return p
}

// WithDeleteError makes Delete operations fail with code
func (p *Provider) WithDeleteError(code int, message string) *Provider {
	p.deleteError = &injected{code, message}
	return p
}

// WithQueryError makes GetItems fail with code
func (p *Provider) WithQueryError(code int, message string) *Provider {
	p.queryError = &injected{code, message}
	return p
}

// Table returns a handle on the named table
func (p *Provider) Table(name string) datastore.TableHandle {
	return &table{p: p, name: name}
}

func (p *Provider) dispatch(fn func()) {
	if p.synchronous {
		fn()
		return
	}
	go fn()
}

func (p *Provider) record(op string) *injected {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[op]++
	switch op {
	case "get":
		return p.getError
	case "put":
		return p.putError
	case "delete":
		return p.deleteError
	case "query":
		return p.queryError
	}
	return nil
}

func itemKey(pk, sk storagemodels.Value) string {
	return pk.KeyText() + "\x00" + sk.KeyText()
}

func copyAttrs(m map[string]storagemodels.Value) map[string]storagemodels.Value {
	out := make(map[string]storagemodels.Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type table struct {
	p     *Provider
	name  string
	conds []storagemodels.Condition
}

func (t *table) Name() string { return t.name }

func (t *table) Item(pk, sk storagemodels.Value) datastore.ItemHandle {
	return &item{p: t.p, table: t.name, pk: pk, sk: sk}
}

func (t *table) Where(conds ...storagemodels.Condition) datastore.TableHandle {
	merged := make([]storagemodels.Condition, 0, len(t.conds)+len(conds))
	merged = append(merged, t.conds...)
	merged = append(merged, conds...)
	return &table{p: t.p, name: t.name, conds: merged}
}

// GetItems streams matching items in key order.
func (t *table) GetItems(onSnapshot datastore.SnapshotFunc, onError datastore.ErrorFunc) {
	if inj := t.p.record("query"); inj != nil {
		t.p.dispatch(func() { onError(inj.code, inj.message) })
		return
	}
	for _, c := range t.conds {
		if err := c.Validate(); err != nil {
			t.p.dispatch(func() { onError(errors.CodeOf(errors.NewValidationError(c.Attribute, err.Error())), err.Error()) })
			return
		}
	}

	t.p.mu.RLock()
	items := t.p.tables[t.name]
	keys := make([]string, 0, len(items))
	for k, it := range items {
		if storagemodels.MatchAll(it.attrs, t.conds) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	snaps := make([]*datastore.Snapshot, len(keys))
	for i, k := range keys {
		it := items[k]
		snaps[i] = &datastore.Snapshot{
			Attributes: copyAttrs(it.attrs),
			Origin:     &item{p: t.p, table: t.name, pk: it.pk, sk: it.sk},
		}
	}
	t.p.mu.RUnlock()

	t.p.dispatch(func() {
		for _, s := range snaps {
			onSnapshot(s)
		}
		onSnapshot(nil)
	})
}

type item struct {
	p      *Provider
	table  string
	pk, sk storagemodels.Value
}

func (i *item) Get(onSnapshot datastore.SnapshotFunc, onError datastore.ErrorFunc) {
	if inj := i.p.record("get"); inj != nil {
		i.p.dispatch(func() { onError(inj.code, inj.message) })
		return
	}

	i.p.mu.RLock()
	stored, ok := i.p.tables[i.table][itemKey(i.pk, i.sk)]
	snap := &datastore.Snapshot{}
	if ok {
		snap.Attributes = copyAttrs(stored.attrs)
		snap.Origin = i
	}
	i.p.mu.RUnlock()

	i.p.dispatch(func() { onSnapshot(snap) })
}

func (i *item) Push(attrs *storagemodels.Attributes, onSnapshot datastore.SnapshotFunc, onError datastore.ErrorFunc) {
	if inj := i.p.record("put"); inj != nil {
		i.p.dispatch(func() { onError(inj.code, inj.message) })
		return
	}
	if i.pk.IsZero() {
		err := errors.NewValidationError("primaryKey", "item has no primary key")
		i.p.dispatch(func() { onError(errors.CodeOf(err), err.Error()) })
		return
	}

	values := attrs.Map()
	i.p.mu.Lock()
	items, ok := i.p.tables[i.table]
	if !ok {
		items = make(map[string]*storedItem)
		i.p.tables[i.table] = items
	}
	items[itemKey(i.pk, i.sk)] = &storedItem{pk: i.pk, sk: i.sk, attrs: values}
	i.p.mu.Unlock()

	snap := &datastore.Snapshot{Attributes: copyAttrs(values), Origin: i}
	i.p.dispatch(func() { onSnapshot(snap) })
}

func (i *item) Delete(onSnapshot datastore.SnapshotFunc, onError datastore.ErrorFunc) {
	if inj := i.p.record("delete"); inj != nil {
		i.p.dispatch(func() { onError(inj.code, inj.message) })
		return
	}

	key := itemKey(i.pk, i.sk)
	i.p.mu.Lock()
	stored, ok := i.p.tables[i.table][key]
	if ok {
		delete(i.p.tables[i.table], key)
	}
	i.p.mu.Unlock()

	if !ok {
		err := errors.NewNotFoundError(i.table, i.pk.Text())
		i.p.dispatch(func() { onError(errors.CodeOf(err), err.Error()) })
		return
	}
	snap := &datastore.Snapshot{Attributes: stored.attrs}
	i.p.dispatch(func() { onSnapshot(snap) })
}

// Helper methods for testing

// Seed stores attrs directly, bypassing error injection
func (p *Provider) Seed(tableName string, pk, sk storagemodels.Value, attrs map[string]storagemodels.Value) {
	p.mu.Lock()
	defer p.mu.Unlock()
	items, ok := p.tables[tableName]
	if !ok {
		items = make(map[string]*storedItem)
		p.tables[tableName] = items
	}
	items[itemKey(pk, sk)] = &storedItem{pk: pk, sk: sk, attrs: copyAttrs(attrs)}
}

// Attributes returns a copy of a stored item's attributes
func (p *Provider) Attributes(tableName string, pk, sk storagemodels.Value) (map[string]storagemodels.Value, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	stored, ok := p.tables[tableName][itemKey(pk, sk)]
	if !ok {
		return nil, false
	}
	return copyAttrs(stored.attrs), true
}

// Count returns the number of items stored in a table
func (p *Provider) Count(tableName string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.tables[tableName])
}

// Calls returns how many times an operation ("get", "put", "delete", "query") ran
func (p *Provider) Calls(op string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.calls[op]
}

// Clear removes all data
func (p *Provider) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tables = make(map[string]map[string]*storedItem)
}
