// Package collections holds the client's in-memory copy of the server
// data. Collections are replaced wholesale after a refresh and patched
// only from confirmed server responses. All access happens on the UI
// event loop, so there is no locking.
package collections

import (
	"errors"

	"github.com/mkante/gestloc/internal/domain"
)

// ErrNotFound is returned by Patch when no element carries the id.
var ErrNotFound = errors.New("élément introuvable")

// Collection is an ordered set of records keyed by id. Order is the
// server's list order; SetAll and Append preserve it.
type Collection[T any] struct {
	id    func(T) int64
	items []T
}

func New[T any](id func(T) int64) *Collection[T] {
	return &Collection[T]{id: id}
}

// SetAll replaces the whole collection.
func (c *Collection[T]) SetAll(items []T) {
	c.items = make([]T, len(items))
	copy(c.items, items)
}

// Append adds a confirmed record at the end.
func (c *Collection[T]) Append(item T) {
	c.items = append(c.items, item)
}

// Remove drops the record with the given id, if present.
func (c *Collection[T]) Remove(id int64) {
	for i, item := range c.items {
		if c.id(item) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Patch applies fn to the record with the given id in place.
func (c *Collection[T]) Patch(id int64, fn func(*T)) error {
	for i := range c.items {
		if c.id(c.items[i]) == id {
			fn(&c.items[i])
			return nil
		}
	}

	return ErrNotFound
}

// Replace swaps the record with the given id for a confirmed server copy.
func (c *Collection[T]) Replace(id int64, item T) error {
	return c.Patch(id, func(t *T) { *t = item })
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id int64) (T, bool) {
	for _, item := range c.items {
		if c.id(item) == id {
			return item, true
		}
	}

	var zero T

	return zero, false
}

// All returns a copy of the records in stable order.
func (c *Collection[T]) All() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)

	return out
}

func (c *Collection[T]) Len() int { return len(c.items) }

// Snapshot aggregates every collection the client mirrors. Lookups across
// collections tolerate dangling references; they degrade, never error.
type Snapshot struct {
	Cities    *Collection[domain.City]
	Buildings *Collection[domain.Building]
	Floors    *Collection[domain.Floor]
	Units     *Collection[domain.Unit]
	Tenants   *Collection[domain.Tenant]
	Leases    *Collection[domain.Lease]
	Payments  *Collection[domain.Payment]
	Suppliers *Collection[domain.Supplier]
	Invoices  *Collection[domain.SupplierInvoice]
	Expenses  *Collection[domain.Expense]

	// Stats is the server-side monthly aggregate, replaced as-is.
	Stats []domain.MonthlyStat
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Cities:    New(func(v domain.City) int64 { return v.ID }),
		Buildings: New(func(v domain.Building) int64 { return v.ID }),
		Floors:    New(func(v domain.Floor) int64 { return v.ID }),
		Units:     New(func(v domain.Unit) int64 { return v.ID }),
		Tenants:   New(func(v domain.Tenant) int64 { return v.ID }),
		Leases:    New(func(v domain.Lease) int64 { return v.ID }),
		Payments:  New(func(v domain.Payment) int64 { return v.ID }),
		Suppliers: New(func(v domain.Supplier) int64 { return v.ID }),
		Invoices:  New(func(v domain.SupplierInvoice) int64 { return v.ID }),
		Expenses:  New(func(v domain.Expense) int64 { return v.ID }),
	}
}
