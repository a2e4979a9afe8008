/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package activerecord

import (
	"sync"

	"github.com/suparena/activerecord/datastore"
)

// LifecycleState tracks where a record is relative to storage.
type LifecycleState int32

const (
	// StateTransient records have never been read from or written to storage,
	// or were deleted.
	StateTransient LifecycleState = iota
	StateFetching
	StateSaving
	StateDeleting
	// StatePersisted records hold an origin handle to their stored item.
	StatePersisted
	// StateFailed records saw their last operation fail. The origin, if
	// any, is kept.
	StateFailed
)

func (s LifecycleState) String() string {
	switch s {
	case StateTransient:
		return "Transient"
	case StateFetching:
		return "Fetching"
	case StateSaving:
		return "Saving"
	case StateDeleting:
		return "Deleting"
	case StatePersisted:
		return "Persisted"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Persisted is embedded in every record type a Store manages. It remembers
// the stored item the record last came from, so a later Delete can address
// it directly. The zero value is a transient record.
type Persisted struct {
	mu     sync.Mutex
	origin datastore.ItemHandle
	state  LifecycleState
}

// Record is implemented by pointers to structs embedding Persisted.
type Record interface {
	persisted() *Persisted
}

func (p *Persisted) persisted() *Persisted { return p }

// IsFromStorage reports whether the record has an origin handle.
func (p *Persisted) IsFromStorage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.origin != nil
}

// State returns the lifecycle state.
func (p *Persisted) State() LifecycleState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Origin returns the handle of the stored item, or nil.
func (p *Persisted) Origin() datastore.ItemHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.origin
}

func (p *Persisted) begin(state LifecycleState) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
}

func (p *Persisted) stored(origin datastore.ItemHandle) {
	p.mu.Lock()
	p.origin = origin
	p.state = StatePersisted
	p.mu.Unlock()
}

func (p *Persisted) detach() {
	p.mu.Lock()
	p.origin = nil
	p.state = StateTransient
	p.mu.Unlock()
}

func (p *Persisted) fail() {
	p.begin(StateFailed)
}

// BeforeSaver is called by Save before anything is written.
type BeforeSaver interface {
	BeforeSave() error
}

// BeforeCreator is called by Save, after BeforeSave, when the record has no
// origin. It typically assigns generated keys or creation timestamps.
type BeforeCreator interface {
	BeforeCreate() error
}
