/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"github.com/suparena/activerecord/storagemodels"
)

// Snapshot is a point-in-time read of one stored item.
type Snapshot struct {
	// Attributes holds the item's attributes. Order is irrelevant.
	Attributes map[string]storagemodels.Value
	// Origin refers back to the stored item. It is nil for snapshots
	// returned by a delete.
	Origin ItemHandle
}

// Empty reports whether the snapshot carries no attributes.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Attributes) == 0
}

// SnapshotFunc receives snapshots. For GetItems a nil snapshot marks the end
// of the stream.
type SnapshotFunc func(snap *Snapshot)

// ErrorFunc receives a provider failure as a taxonomy code and message.
type ErrorFunc func(code int, message string)

// ConnectionProvider hands out table handles.
type ConnectionProvider interface {
	Table(name string) TableHandle
}

// TableHandle addresses one table.
type TableHandle interface {
	Name() string

	// Item addresses a single item. A zero secondary key means the table
	// has no secondary key.
	Item(primaryKey, secondaryKey storagemodels.Value) ItemHandle

	// Where narrows GetItems to items matching every condition. It returns
	// a new handle and leaves the receiver unchanged.
	Where(conds ...storagemodels.Condition) TableHandle

	// GetItems streams every matching item to onSnapshot, then calls it
	// once with nil. On failure onError is called instead of the end marker.
	GetItems(onSnapshot SnapshotFunc, onError ErrorFunc)
}

// ItemHandle addresses one item. Each call invokes exactly one of its
// callbacks, possibly on another goroutine.
type ItemHandle interface {
	// Get delivers the item, or an empty snapshot when it does not exist.
	Get(onSnapshot SnapshotFunc, onError ErrorFunc)

	// Push replaces the item with attrs and delivers the stored item.
	Push(attrs *storagemodels.Attributes, onSnapshot SnapshotFunc, onError ErrorFunc)

	// Delete removes the item and delivers its last attributes. Deleting a
	// missing item fails with a ResourceNotFound code.
	Delete(onSnapshot SnapshotFunc, onError ErrorFunc)
}
