/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package badgerstore

import (
	"bytes"
	stderrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/suparena/activerecord/datastore"
	"github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/storagemodels"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type options struct {
	inMemory    bool
	synchronous bool
	logger      *zerolog.Logger
}

// Option configures Open.
type Option func(*options)

// InMemory keeps everything in memory. The directory is ignored.
func InMemory() Option {
	return func(o *options) { o.inMemory = true }
}

// Synchronous runs callbacks on the calling goroutine.
func Synchronous() Option {
	return func(o *options) { o.synchronous = true }
}

// WithLogger forwards Badger's own log output to l. Without it Badger is
// silent.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// Provider implements datastore.ConnectionProvider on top of a Badger
// database.
type Provider struct {
	db          *badger.DB
	synchronous bool
}

// Open opens or creates the database in dir. An empty dir implies InMemory.
func Open(dir string, opts ...Option) (*Provider, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	bopts := badger.DefaultOptions(dir)
	if dir == "" || o.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	if o.logger != nil {
		bopts = bopts.WithLogger(badgerLogger{o.logger.With().Str("component", "badger").Logger()})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Provider{db: db, synchronous: o.synchronous}, nil
}

// Close closes the database.
func (p *Provider) Close() error {
	return p.db.Close()
}

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

func (p *Provider) fail(onError datastore.ErrorFunc, err error) {
	code := codeOf(err)
	p.dispatch(func() { onError(code, err.Error()) })
}

func codeOf(err error) int {
	switch {
	case stderrors.Is(err, badger.ErrKeyNotFound):
		return errors.CodeOf(errors.ErrNotFound)
	case stderrors.Is(err, badger.ErrConflict), stderrors.Is(err, badger.ErrDBClosed):
		return errors.CodeOf(errors.New(errors.DataAccess, errors.ResourceUnavailable, ""))
	}
	return errors.CodeOf(err)
}

func tablePrefix(name string) []byte {
	return append([]byte(name), 0)
}

func itemKey(name string, pk, sk storagemodels.Value) []byte {
	key := tablePrefix(name)
	key = append(key, pk.KeyText()...)
	key = append(key, 0)
	return append(key, sk.KeyText()...)
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

// GetItems scans the table prefix in key order.
func (t *table) GetItems(onSnapshot datastore.SnapshotFunc, onError datastore.ErrorFunc) {
	for _, c := range t.conds {
		if err := c.Validate(); err != nil {
			t.p.fail(onError, errors.NewValidationError(c.Attribute, err.Error()))
			return
		}
	}

	prefix := tablePrefix(t.name)
	var snaps []*datastore.Snapshot
	err := t.p.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var doc document
			if err := it.Item().Value(func(val []byte) error { return doc.unmarshal(val) }); err != nil {
				return fmt.Errorf("decode %q: %w", bytes.ReplaceAll(it.Item().Key(), []byte{0}, []byte{'/'}), err)
			}
			attrs := doc.attributes()
			if !storagemodels.MatchAll(attrs, t.conds) {
				continue
			}
			snaps = append(snaps, &datastore.Snapshot{
				Attributes: attrs,
				Origin:     &item{p: t.p, table: t.name, pk: doc.PK.value(), sk: doc.SK.value()},
			})
		}
		return nil
	})
	if err != nil {
		t.p.fail(onError, err)
		return
	}

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

func (i *item) key() []byte { return itemKey(i.table, i.pk, i.sk) }

func (i *item) Get(onSnapshot datastore.SnapshotFunc, onError datastore.ErrorFunc) {
	snap := &datastore.Snapshot{}
	err := i.p.db.View(func(txn *badger.Txn) error {
		it, err := txn.Get(i.key())
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var doc document
		if err := it.Value(doc.unmarshal); err != nil {
			return err
		}
		snap.Attributes = doc.attributes()
		snap.Origin = i
		return nil
	})
	if err != nil {
		i.p.fail(onError, err)
		return
	}
	i.p.dispatch(func() { onSnapshot(snap) })
}

func (i *item) Push(attrs *storagemodels.Attributes, onSnapshot datastore.SnapshotFunc, onError datastore.ErrorFunc) {
	if i.pk.IsZero() {
		i.p.fail(onError, errors.NewValidationError("primaryKey", "item has no primary key"))
		return
	}

	doc := newDocument(i.pk, i.sk, attrs)
	val, err := json.Marshal(doc)
	if err == nil {
		err = i.p.db.Update(func(txn *badger.Txn) error {
			return txn.Set(i.key(), val)
		})
	}
	if err != nil {
		i.p.fail(onError, err)
		return
	}

	snap := &datastore.Snapshot{Attributes: doc.attributes(), Origin: i}
	i.p.dispatch(func() { onSnapshot(snap) })
}

func (i *item) Delete(onSnapshot datastore.SnapshotFunc, onError datastore.ErrorFunc) {
	var old document
	err := i.p.db.Update(func(txn *badger.Txn) error {
		it, err := txn.Get(i.key())
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.NewNotFoundError(i.table, i.pk.Text())
		}
		if err != nil {
			return err
		}
		if err := it.Value(old.unmarshal); err != nil {
			return err
		}
		return txn.Delete(i.key())
	})
	if err != nil {
		i.p.fail(onError, err)
		return
	}

	snap := &datastore.Snapshot{Attributes: old.attributes()}
	i.p.dispatch(func() { onSnapshot(snap) })
}
