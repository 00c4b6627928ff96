package inventory

import (
	"errors"
	"testing"

	"github.com/vendolabs/vendo/id"
)

func seedLedger() (*Ledger, Item) {
	water := Item{ID: id.NewItemID(), Type: "water", Quantity: 10, Price: 80}
	l := NewLedger("KES", []Item{
		water,
		{ID: id.NewItemID(), Type: "energy_drink", Quantity: 20, Price: 180},
	})
	return l, water
}

func TestNewLedgerNormalizes(t *testing.T) {
	l := NewLedger("KES", []Item{{Type: "water", Quantity: 1, Price: 80, Currency: "USD"}})

	items := l.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ID.IsNil() {
		t.Error("seed item without id should get one generated")
	}
	if items[0].Currency != "KES" {
		t.Errorf("currency not normalized: got %q", items[0].Currency)
	}
}

func TestFind(t *testing.T) {
	l, water := seedLedger()

	byID, err := l.FindByID(water.ID.String())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID.Type != "water" {
		t.Errorf("got type %q, want water", byID.Type)
	}

	byType, err := l.FindByType("energy_drink")
	if err != nil {
		t.Fatalf("FindByType: %v", err)
	}
	if byType.Price != 180 {
		t.Errorf("got price %d, want 180", byType.Price)
	}

	if _, err := l.FindByID("item_nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
	if _, err := l.FindByType("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing type: got %v, want ErrNotFound", err)
	}
}

func TestDecrement(t *testing.T) {
	l, water := seedLedger()

	if err := l.Decrement(water.ID.String(), 4); err != nil {
		t.Fatalf("Decrement: %v", err)
	}
	got, _ := l.FindByID(water.ID.String())
	if got.Quantity != 6 {
		t.Errorf("quantity: got %d, want 6", got.Quantity)
	}

	// Draining to exactly zero is allowed.
	if err := l.Decrement(water.ID.String(), 6); err != nil {
		t.Fatalf("Decrement to zero: %v", err)
	}
	got, _ = l.FindByID(water.ID.String())
	if got.Quantity != 0 {
		t.Errorf("quantity: got %d, want 0", got.Quantity)
	}

	if err := l.Decrement(water.ID.String(), 1); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("overdraw: got %v, want ErrInsufficientStock", err)
	}
	got, _ = l.FindByID(water.ID.String())
	if got.Quantity != 0 {
		t.Errorf("failed decrement mutated quantity to %d", got.Quantity)
	}

	if err := l.Decrement("item_nope", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
}

func TestAddOrRestockMergesByType(t *testing.T) {
	l, water := seedLedger()

	merged, err := l.AddOrRestock(Item{Type: "water", Quantity: 5, Price: 90})
	if err != nil {
		t.Fatalf("AddOrRestock: %v", err)
	}

	if merged.ID.String() != water.ID.String() {
		t.Error("merge should retain the original item id")
	}
	if merged.Quantity != 15 {
		t.Errorf("quantity: got %d, want 15", merged.Quantity)
	}
	if merged.Price != 90 {
		t.Errorf("price: got %d, want 90", merged.Price)
	}
	if l.Len() != 2 {
		t.Errorf("merge should not add an entry, len=%d", l.Len())
	}
}

func TestAddOrRestockKeepsPriceWhenZero(t *testing.T) {
	l, water := seedLedger()

	merged, err := l.AddOrRestock(Item{Type: "water", Quantity: 5})
	if err != nil {
		t.Fatalf("AddOrRestock: %v", err)
	}
	if merged.Price != water.Price {
		t.Errorf("zero incoming price should keep %d, got %d", water.Price, merged.Price)
	}
}

func TestAddOrRestockAppendsNewType(t *testing.T) {
	l, _ := seedLedger()

	added, err := l.AddOrRestock(Item{Type: "soda", Quantity: 7, Price: 120, Currency: "USD"})
	if err != nil {
		t.Fatalf("AddOrRestock: %v", err)
	}
	if added.ID.IsNil() {
		t.Error("new item should get a generated id")
	}
	if added.Currency != "KES" {
		t.Errorf("currency should be forced to ledger currency, got %q", added.Currency)
	}
	if l.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", l.Len())
	}
}

func TestAddOrRestockRejectsInvalid(t *testing.T) {
	l, _ := seedLedger()

	if _, err := l.AddOrRestock(Item{Quantity: 1}); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("missing type: got %v, want ErrInvalidItem", err)
	}
	if _, err := l.AddOrRestock(Item{Type: "x", Quantity: -1}); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("negative quantity: got %v, want ErrInvalidItem", err)
	}
}

func TestRemove(t *testing.T) {
	l, water := seedLedger()

	if err := l.Remove(water.ID.String()); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if l.Len() != 1 {
		t.Errorf("expected 1 entry after remove, got %d", l.Len())
	}
	if err := l.Remove(water.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("double remove: got %v, want ErrNotFound", err)
	}
}

func TestChangePrice(t *testing.T) {
	l, water := seedLedger()

	updated, err := l.ChangePrice(water.ID.String(), 95)
	if err != nil {
		t.Fatalf("ChangePrice: %v", err)
	}
	if updated.Price != 95 || updated.Currency != "KES" {
		t.Errorf("got price=%d currency=%q", updated.Price, updated.Currency)
	}

	if _, err := l.ChangePrice("item_nope", 50); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	l, _ := seedLedger()

	items := l.Items()
	items[0].Quantity = 9999

	fresh := l.Items()
	if fresh[0].Quantity == 9999 {
		t.Error("mutating the returned slice leaked into the ledger")
	}
}

func TestSetCurrency(t *testing.T) {
	l, water := seedLedger()

	l.SetCurrency("USD")
	if l.Currency() != "USD" {
		t.Errorf("currency: got %q", l.Currency())
	}
	got, _ := l.FindByID(water.ID.String())
	if got.Currency != "USD" {
		t.Errorf("item currency not re-stamped: %q", got.Currency)
	}
	if got.Price != water.Price {
		t.Errorf("conversion is a stub, price should stay %d, got %d", water.Price, got.Price)
	}
}
