// Package store holds the dashboard's transient copy of what the API has returned.
//
// Each collection is replaced wholesale by a fetch and patched in place after a mutation the
// API has confirmed. Fetches are tagged with a generation ticket so that a slow response to a
// superseded request cannot overwrite a newer one.
package store

import (
	"sync"

	"sales_dashboard/internal/ledger"
)

// Ticket identifies one fetch generation of a collection.
type Ticket uint64

// Collection is a concurrency-safe list of T with a server-reported total.
type Collection[T any] struct {
	mu     sync.RWMutex
	items  []T
	total  int
	gen    Ticket
	loaded bool
}

// Begin starts a new fetch generation. Any earlier ticket becomes stale.
func (c *Collection[T]) Begin() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// Replace installs a fetch result if t is still the latest generation.
// It reports whether the result was applied.
func (c *Collection[T]) Replace(t Ticket, items []T, total int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t != c.gen {
		return false
	}
	c.items = append([]T(nil), items...)
	c.total = total
	c.loaded = true
	return true
}

// Fail empties the collection after a failed fetch, if t is still the latest generation.
func (c *Collection[T]) Fail(t Ticket) bool {
	return c.Replace(t, nil, 0)
}

// Snapshot returns a copy of the items and the total.
func (c *Collection[T]) Snapshot() ([]T, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out, c.total
}

// Items returns a copy of the items.
func (c *Collection[T]) Items() []T {
	items, _ := c.Snapshot()
	return items
}

// Total returns the last known total.
func (c *Collection[T]) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.total
}

// Loaded reports whether any fetch has completed.
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Prepend adds item at the front and counts it in the total.
func (c *Collection[T]) Prepend(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T{item}, c.items...)
	c.total++
}

// Append adds item at the end and counts it in the total.
func (c *Collection[T]) Append(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
	c.total++
}

// Update replaces every item matching match with fn(item). It reports whether any matched.
func (c *Collection[T]) Update(match func(T) bool, fn func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	found := false
	for i, it := range c.items {
		if match(it) {
			c.items[i] = fn(it)
			found = true
		}
	}
	return found
}

// Remove drops every item matching match, lowers the total accordingly and returns the
// number removed.
func (c *Collection[T]) Remove(match func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	removed := 0
	for _, it := range c.items {
		if match(it) {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	c.items = kept
	c.total -= removed
	if c.total < 0 {
		c.total = 0
	}
	return removed
}

// Clear empties the collection without starting a new generation.
func (c *Collection[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.total = 0
}

// Invalidate empties the collection and marks it unloaded. Fetches already in flight are
// discarded.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = nil
	c.total = 0
	c.loaded = false
}

// Store is the set of collections shared by the dashboard views. It is created once and
// passed to every view explicitly.
type Store struct {
	Customers    Collection[ledger.Customer]
	Sales        Collection[ledger.Sale]
	Payments     Collection[ledger.Payment]
	Transactions Collection[ledger.Transaction]
	Balances     Collection[ledger.Balance]
	Logs         Collection[ledger.Log]
	Backups      Collection[ledger.Backup]
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}
