// Package inventory owns the machine's catalog of sellable items: lookup,
// stock decrement, and price/quantity mutation.
//
// Ledger is not safe for concurrent use. The Machine facade serializes all
// access under a single machine-wide lock.
package inventory

import (
	"errors"
	"fmt"

	"github.com/vendolabs/vendo/id"
	"github.com/vendolabs/vendo/types"
)

// Sentinel errors for inventory operations.
var (
	// ErrNotFound means no item with the given id exists in the ledger.
	ErrNotFound = errors.New("inventory: item not found")

	// ErrInsufficientStock means an item's quantity is lower than requested.
	ErrInsufficientStock = errors.New("inventory: insufficient stock")

	// ErrInvalidItem means an item is missing required fields.
	ErrInvalidItem = errors.New("inventory: invalid item")
)

// Item is a sellable product slot in the machine. Price is in minor
// currency units. Quantity never goes negative.
type Item struct {
	types.Entity
	ID       id.ItemID `json:"id"`
	Type     string    `json:"type"`
	Quantity int       `json:"quantity"`
	Price    int       `json:"price"`
	Currency string    `json:"currency"`
}

// Ledger holds the in-memory item catalog. Every item carries the ledger's
// configured currency; incoming currencies are discarded on write.
type Ledger struct {
	currency string
	items    []Item
}

// NewLedger creates a ledger in the given currency seeded with the given
// items. Seed item currencies are normalized to the ledger currency.
func NewLedger(currency string, items []Item) *Ledger {
	l := &Ledger{currency: currency, items: make([]Item, 0, len(items))}
	for _, it := range items {
		if it.ID.IsNil() {
			it.ID = id.NewItemID()
		}
		if it.CreatedAt.IsZero() {
			it.Entity = types.NewEntity()
		}
		it.Currency = currency
		l.items = append(l.items, it)
	}
	return l
}

// Currency returns the ledger's configured currency.
func (l *Ledger) Currency() string { return l.currency }

// SetCurrency changes the ledger currency and re-stamps every item with it.
// Price conversion between currencies is a stub: amounts are carried over
// unchanged.
func (l *Ledger) SetCurrency(currency string) {
	l.currency = currency
	for i := range l.items {
		l.items[i].Currency = currency
	}
}

// FindByID returns a copy of the item with the given id.
func (l *Ledger) FindByID(itemID string) (Item, error) {
	idx := l.indexByID(itemID)
	if idx < 0 {
		return Item{}, fmt.Errorf("%w: id %q", ErrNotFound, itemID)
	}
	return l.items[idx], nil
}

// FindByType returns a copy of the first item with the given type.
func (l *Ledger) FindByType(itemType string) (Item, error) {
	for i := range l.items {
		if l.items[i].Type == itemType {
			return l.items[i], nil
		}
	}
	return Item{}, fmt.Errorf("%w: type %q", ErrNotFound, itemType)
}

// Decrement reduces an item's stock by qty. The item is untouched when the
// remaining stock would go negative.
func (l *Ledger) Decrement(itemID string, qty int) error {
	idx := l.indexByID(itemID)
	if idx < 0 {
		return fmt.Errorf("%w: id %q", ErrNotFound, itemID)
	}
	if l.items[idx].Quantity < qty {
		return fmt.Errorf("%w: %q has %d, want %d", ErrInsufficientStock, l.items[idx].Type, l.items[idx].Quantity, qty)
	}
	l.items[idx].Quantity -= qty
	l.items[idx].Touch()
	return nil
}

// AddOrRestock merges an item into the catalog. When an item of the same
// type already exists, quantities are summed and the price is overwritten
// only when the incoming price is positive; the original id is retained.
// Otherwise the item is appended, generating an id when it has none. The
// ledger currency is forced either way. Returns the resulting item.
func (l *Ledger) AddOrRestock(item Item) (Item, error) {
	if item.Type == "" {
		return Item{}, fmt.Errorf("%w: missing type", ErrInvalidItem)
	}
	if item.Quantity < 0 || item.Price < 0 {
		return Item{}, fmt.Errorf("%w: negative quantity or price", ErrInvalidItem)
	}

	for i := range l.items {
		if l.items[i].Type == item.Type {
			l.items[i].Quantity += item.Quantity
			if item.Price > 0 {
				l.items[i].Price = item.Price
			}
			l.items[i].Currency = l.currency
			l.items[i].Touch()
			return l.items[i], nil
		}
	}

	if item.ID.IsNil() {
		item.ID = id.NewItemID()
	}
	item.Entity = types.NewEntity()
	item.Currency = l.currency
	l.items = append(l.items, item)
	return item, nil
}

// Remove deletes the item with the given id.
func (l *Ledger) Remove(itemID string) error {
	idx := l.indexByID(itemID)
	if idx < 0 {
		return fmt.Errorf("%w: id %q", ErrNotFound, itemID)
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	return nil
}

// ChangePrice overwrites an item's price, forcing the ledger currency.
// Returns the updated item.
func (l *Ledger) ChangePrice(itemID string, price int) (Item, error) {
	idx := l.indexByID(itemID)
	if idx < 0 {
		return Item{}, fmt.Errorf("%w: id %q", ErrNotFound, itemID)
	}
	l.items[idx].Price = price
	l.items[idx].Currency = l.currency
	l.items[idx].Touch()
	return l.items[idx], nil
}

// Items returns a copy of the catalog.
func (l *Ledger) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of catalog entries.
func (l *Ledger) Len() int { return len(l.items) }

func (l *Ledger) indexByID(itemID string) int {
	for i := range l.items {
		if l.items[i].ID.String() == itemID {
			return i
		}
	}
	return -1
}
