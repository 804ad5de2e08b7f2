// Package dedupe defines the interface for idempotency tracking of
// recorded behavioral events.
package dedupe

import (
	"context"
	"sync"
)

// Default cache bound.
const defaultMaxSize = 50000

// Deduper records seen event IDs to ensure at-most-once recording.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if
	// not. Returns true if id was already seen, false if it was newly
	// recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing a retry.
	// Used when an event was marked seen but failed to be recorded
	// (e.g. queue backpressure).
	Unrecord(ctx context.Context, id string)

	// Size returns the number of tracked IDs.
	Size() int64
}

// inMemoryDeduper implements Deduper with a bounded map plus a FIFO
// ring of insertion order: when the ring is full the oldest id is
// evicted. Each id remembers its ring slot so Unrecord can free the
// slot instead of leaving a duplicate behind. maxSize <= 0 means
// unbounded.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // id -> its slot in order, -1 when unbounded
	order   []string       // ring buffer of ids in insertion order
	head    int            // next eviction slot
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration
// options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		seen:    map[string]int{},
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.maxSize > 0 {
		d.order = make([]string, 0, d.maxSize)
	}
	return d
}

// SeenAndRecord implements Deduper.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	slot := -1
	if d.maxSize > 0 {
		if len(d.order) < d.maxSize {
			slot = len(d.order)
			d.order = append(d.order, id)
		} else {
			// Evict the oldest slot to stay within the bound. A slot
			// freed by Unrecord is empty and evicts nothing.
			if evict := d.order[d.head]; evict != "" {
				delete(d.seen, evict)
			}
			slot = d.head
			d.order[d.head] = id
			d.head = (d.head + 1) % d.maxSize
		}
	}
	d.seen[id] = slot
	return false
}

// Unrecord implements Deduper.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	slot, ok := d.seen[id]
	if !ok {
		return
	}
	delete(d.seen, id)
	if slot >= 0 {
		// Free the slot so a later re-record of this id cannot be
		// evicted through a stale duplicate entry.
		d.order[slot] = ""
	}
}

// Size implements Deduper.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
