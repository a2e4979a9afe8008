/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package providertest checks that a datastore.ConnectionProvider honours
// the callback contract activerecord relies on.
package providertest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/activerecord/datastore"
	"github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/storagemodels"
)

// Wait bounds every callback wait.
const Wait = 5 * time.Second

// Result is the outcome of a single item call.
type Result struct {
	Snapshot *datastore.Snapshot
	Err      *errors.Error
}

func await(t *testing.T, call func(datastore.SnapshotFunc, datastore.ErrorFunc)) Result {
	t.Helper()
	ch := make(chan Result, 1)
	call(
		func(s *datastore.Snapshot) { ch <- Result{Snapshot: s} },
		func(code int, msg string) { ch <- Result{Err: errors.FromProvider(code, msg)} },
	)
	select {
	case r := <-ch:
		return r
	case <-time.After(Wait):
		t.Fatal("provider callback was never invoked")
		return Result{}
	}
}

// Get waits for the item's Get callback.
func Get(t *testing.T, h datastore.ItemHandle) Result {
	t.Helper()
	return await(t, h.Get)
}

// Push waits for the item's Push callback.
func Push(t *testing.T, h datastore.ItemHandle, attrs *storagemodels.Attributes) Result {
	t.Helper()
	return await(t, func(s datastore.SnapshotFunc, e datastore.ErrorFunc) { h.Push(attrs, s, e) })
}

// Delete waits for the item's Delete callback.
func Delete(t *testing.T, h datastore.ItemHandle) Result {
	t.Helper()
	return await(t, h.Delete)
}

// Scan collects a GetItems stream up to its end marker.
func Scan(t *testing.T, h datastore.TableHandle) ([]*datastore.Snapshot, *errors.Error) {
	t.Helper()
	type event struct {
		snap *datastore.Snapshot
		end  bool
		err  *errors.Error
	}
	ch := make(chan event, 64)
	h.GetItems(
		func(s *datastore.Snapshot) {
			if s == nil {
				ch <- event{end: true}
				return
			}
			ch <- event{snap: s}
		},
		func(code int, msg string) { ch <- event{err: errors.FromProvider(code, msg)} },
	)

	var snaps []*datastore.Snapshot
	for {
		select {
		case ev := <-ch:
			switch {
			case ev.err != nil:
				return nil, ev.err
			case ev.end:
				return snaps, nil
			default:
				snaps = append(snaps, ev.snap)
			}
		case <-time.After(Wait):
			t.Fatal("GetItems never signalled the end of the stream")
			return nil, nil
		}
	}
}

func attrs(pairs ...any) *storagemodels.Attributes {
	a := storagemodels.NewAttributes()
	for i := 0; i+1 < len(pairs); i += 2 {
		a.Set(pairs[i].(string), pairs[i+1].(storagemodels.Value))
	}
	return a
}

// Run exercises conn against table, whose primary key attribute is "cnes"
// and secondary key attribute is "cap". The table must start empty.
func Run(t *testing.T, conn datastore.ConnectionProvider, table string) {
	s := storagemodels.String

	t.Run("PushGetDelete", func(t *testing.T) {
		tbl := conn.Table(table)
		require.Equal(t, table, tbl.Name())
		h := tbl.Item(s("1"), s("C1"))

		pushed := Push(t, h, attrs("cnes", s("1"), "cap", s("C1"), "name", s("Rio"), "beds", storagemodels.Int(12)))
		require.Nil(t, pushed.Err)
		require.NotNil(t, pushed.Snapshot)
		assert.Equal(t, "Rio", pushed.Snapshot.Attributes["name"].Text())
		assert.NotNil(t, pushed.Snapshot.Origin)

		got := Get(t, h)
		require.Nil(t, got.Err)
		require.False(t, got.Snapshot.Empty())
		assert.Equal(t, s("Rio"), got.Snapshot.Attributes["name"])
		assert.True(t, got.Snapshot.Attributes["beds"].Equal(storagemodels.Int(12)))
		require.NotNil(t, got.Snapshot.Origin)

		replaced := Push(t, got.Snapshot.Origin, attrs("cnes", s("1"), "cap", s("C1"), "name", s("Rio Updated")))
		require.Nil(t, replaced.Err)

		got = Get(t, h)
		require.Nil(t, got.Err)
		assert.Equal(t, "Rio Updated", got.Snapshot.Attributes["name"].Text())
		_, stale := got.Snapshot.Attributes["beds"]
		assert.False(t, stale, "push must replace the whole item")

		deleted := Delete(t, h)
		require.Nil(t, deleted.Err)
		require.NotNil(t, deleted.Snapshot)
		assert.Equal(t, "Rio Updated", deleted.Snapshot.Attributes["name"].Text())
		assert.Nil(t, deleted.Snapshot.Origin)

		got = Get(t, h)
		require.Nil(t, got.Err)
		assert.True(t, got.Snapshot.Empty())
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		r := Delete(t, conn.Table(table).Item(s("missing"), s("none")))
		require.NotNil(t, r.Err)
		assert.Equal(t, errors.ResourceNotFound, r.Err.Type)
	})

	t.Run("SecondaryKeyDistinguishesItems", func(t *testing.T) {
		tbl := conn.Table(table)
		require.Nil(t, Push(t, tbl.Item(s("2"), s("A")), attrs("cnes", s("2"), "cap", s("A"))).Err)
		require.Nil(t, Push(t, tbl.Item(s("2"), s("B")), attrs("cnes", s("2"), "cap", s("B"))).Err)

		a := Get(t, tbl.Item(s("2"), s("A")))
		b := Get(t, tbl.Item(s("2"), s("B")))
		assert.Equal(t, "A", a.Snapshot.Attributes["cap"].Text())
		assert.Equal(t, "B", b.Snapshot.Attributes["cap"].Text())

		require.Nil(t, Delete(t, tbl.Item(s("2"), s("A"))).Err)
		require.Nil(t, Delete(t, tbl.Item(s("2"), s("B"))).Err)
	})

	t.Run("GetItemsWhere", func(t *testing.T) {
		tbl := conn.Table(table)
		require.Nil(t, Push(t, tbl.Item(s("10"), s("rio")), attrs("cnes", s("10"), "cap", s("rio"), "beds", storagemodels.Int(5))).Err)
		require.Nil(t, Push(t, tbl.Item(s("11"), s("sp")), attrs("cnes", s("11"), "cap", s("sp"), "beds", storagemodels.Int(50))).Err)

		all, err := Scan(t, tbl)
		require.Nil(t, err)
		assert.Len(t, all, 2)
		for _, snap := range all {
			assert.NotNil(t, snap.Origin)
		}

		rio, err := Scan(t, tbl.Where(storagemodels.Equals("cap", s("rio"))))
		require.Nil(t, err)
		require.Len(t, rio, 1)
		assert.Equal(t, "10", rio[0].Attributes["cnes"].Text())

		big, err := Scan(t, tbl.Where(storagemodels.GreaterThan("beds", storagemodels.Int(10))))
		require.Nil(t, err)
		require.Len(t, big, 1)
		assert.Equal(t, "11", big[0].Attributes["cnes"].Text())

		none, err := Scan(t, tbl.Where(storagemodels.Equals("cap", s("rio")), storagemodels.Equals("cnes", s("11"))))
		require.Nil(t, err)
		assert.Empty(t, none)

		require.Nil(t, Delete(t, rio[0].Origin).Err)
		require.Nil(t, Delete(t, big[0].Origin).Err)
	})
}
