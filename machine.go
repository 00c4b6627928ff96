package vendo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vendolabs/vendo/change"
	"github.com/vendolabs/vendo/inventory"
	"github.com/vendolabs/vendo/register"
	"github.com/vendolabs/vendo/store"
)

// Defaults used when no option overrides them. The starting cash acts as
// the change float and must exceed the largest plausible single-purchase
// change.
const (
	DefaultCurrency     = "KES"
	DefaultStartingCash = 1000
	DefaultStoreTimeout = 5 * time.Second
)

// DefaultDenominations is the coin/note set the machine accepts out of the
// box, in minor currency units.
var DefaultDenominations = []int{1, 5, 10, 20, 50, 100, 200, 500, 1000}

func defaultCatalog() []inventory.Item {
	return []inventory.Item{
		{Type: "water", Quantity: 10, Price: 80},
		{Type: "energy_drink", Quantity: 20, Price: 180},
	}
}

// Machine is the vending machine engine. It owns one guarded state — the
// denomination set, the item ledger, and the cash register — and exposes
// the purchase and admin operations over it. Exactly one Machine should
// exist per process.
//
// All mutating operations serialize on a single machine-wide lock so that
// concurrent purchases can never interleave between a stock check and the
// matching decrement. Snapshot store calls happen outside the lock.
type Machine struct {
	mu            sync.RWMutex
	denominations []int
	currency      string
	ledger        *inventory.Ledger
	register      *register.Register
	restored      bool

	store        store.Store
	logger       *slog.Logger
	storeTimeout time.Duration

	// construction-time seed, consumed by New
	seedItems    []inventory.Item
	emptyCatalog bool
	startingCash int
}

// New creates a Machine with the built-in defaults, then applies options.
// The machine starts fresh; call Restore to load the latest snapshot.
func New(opts ...Option) *Machine {
	m := &Machine{
		denominations: append([]int(nil), DefaultDenominations...),
		currency:      DefaultCurrency,
		logger:        slog.Default(),
		storeTimeout:  DefaultStoreTimeout,
		startingCash:  DefaultStartingCash,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.seedItems == nil && !m.emptyCatalog {
		m.seedItems = defaultCatalog()
	}
	m.ledger = inventory.NewLedger(m.currency, m.seedItems)
	m.register = register.New(m.startingCash, m.currency)
	m.seedItems = nil

	return m
}

// Option configures a Machine instance.
type Option func(*Machine)

// WithStore sets the snapshot store used by Backup and Restore.
func WithStore(s store.Store) Option {
	return func(m *Machine) { m.store = s }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) { m.logger = logger }
}

// WithDenominations overrides the default denomination set.
func WithDenominations(denominations []int) Option {
	return func(m *Machine) {
		m.denominations = append([]int(nil), denominations...)
	}
}

// WithCurrency overrides the default currency.
func WithCurrency(currency string) Option {
	return func(m *Machine) { m.currency = currency }
}

// WithItems seeds the catalog instead of the built-in defaults.
func WithItems(items ...inventory.Item) Option {
	return func(m *Machine) {
		m.seedItems = append([]inventory.Item(nil), items...)
	}
}

// WithEmptyCatalog starts the machine with no items at all.
func WithEmptyCatalog() Option {
	return func(m *Machine) { m.emptyCatalog = true }
}

// WithStartingCash overrides the default change float.
func WithStartingCash(amount int) Option {
	return func(m *Machine) { m.startingCash = amount }
}

// WithStoreTimeout bounds each snapshot store call.
func WithStoreTimeout(d time.Duration) Option {
	return func(m *Machine) { m.storeTimeout = d }
}

// Receipt is the result of a successful purchase.
type Receipt struct {
	Item     inventory.Item   `json:"item"`
	Quantity int              `json:"quantity"`
	Cost     int              `json:"cost"`
	Message  string           `json:"message"`
	Change   change.Breakdown `json:"change"`
}

// Buy purchases qty units of an item against a tendered amount and returns
// the receipt with the minimum-coin change breakdown.
//
// The operation is atomic: the item lookup, stock check, funds check and
// change computation all happen before any mutation, so a failed purchase
// never decrements stock or touches the register.
func (m *Machine) Buy(itemID string, qty, tendered int) (Receipt, error) {
	if itemID == "" {
		return Receipt{}, fmt.Errorf("%w: missing item id", ErrInvalidInput)
	}
	if qty <= 0 {
		return Receipt{}, fmt.Errorf("%w: quantity %d", ErrInvalidAmount, qty)
	}
	if tendered < 0 {
		return Receipt{}, fmt.Errorf("%w: tendered %d", ErrInvalidAmount, tendered)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, err := m.ledger.FindByID(itemID)
	if err != nil {
		return Receipt{}, err
	}
	if item.Quantity < qty {
		return Receipt{}, fmt.Errorf("%w: %q has %d, want %d", ErrInsufficientStock, item.Type, item.Quantity, qty)
	}

	cost := item.Price * qty
	if tendered < cost {
		return Receipt{}, fmt.Errorf("%w: tendered %d, cost %d", ErrInsufficientFunds, tendered, cost)
	}

	breakdown, err := change.Minimal(tendered-cost, m.denominations)
	if err != nil {
		return Receipt{}, err
	}

	if err := m.ledger.Decrement(itemID, qty); err != nil {
		return Receipt{}, err
	}
	if cost > 0 {
		if _, err := m.register.Deposit(cost); err != nil {
			return Receipt{}, err
		}
	}

	item, _ = m.ledger.FindByID(itemID)
	m.logger.Info("item purchased",
		"item", item.Type,
		"quantity", qty,
		"cost", cost,
		"change", tendered-cost,
	)

	return Receipt{
		Item:     item,
		Quantity: qty,
		Cost:     cost,
		Message:  fmt.Sprintf("successfully bought %d unit(s) of %s for %s %d", qty, item.Type, item.Currency, cost),
		Change:   breakdown,
	}, nil
}

// AddOrRestock adds an item to the catalog or merges it into an existing
// entry of the same type. Returns the resulting item.
func (m *Machine) AddOrRestock(item inventory.Item) (inventory.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	merged, err := m.ledger.AddOrRestock(item)
	if err != nil {
		return inventory.Item{}, err
	}
	m.logger.Info("item stocked", "item", merged.Type, "quantity", merged.Quantity, "price", merged.Price)
	return merged, nil
}

// RemoveItem deletes an item from the catalog by id.
func (m *Machine) RemoveItem(itemID string) error {
	if itemID == "" {
		return fmt.Errorf("%w: missing item id", ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ledger.Remove(itemID); err != nil {
		return err
	}
	m.logger.Info("item removed", "id", itemID)
	return nil
}

// ChangePrice overwrites an item's price and returns the updated item.
func (m *Machine) ChangePrice(itemID string, price int) (inventory.Item, error) {
	if itemID == "" {
		return inventory.Item{}, fmt.Errorf("%w: missing item id", ErrInvalidInput)
	}
	if price < 0 {
		return inventory.Item{}, fmt.Errorf("%w: price %d", ErrInvalidAmount, price)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, err := m.ledger.ChangePrice(itemID, price)
	if err != nil {
		return inventory.Item{}, err
	}
	m.logger.Info("price changed", "item", item.Type, "price", price)
	return item, nil
}

// SetDenominations replaces the machine's denomination set.
func (m *Machine) SetDenominations(denominations []int) error {
	if err := change.ValidateDenominations(denominations); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.denominations = append([]int(nil), denominations...)
	m.logger.Info("denomination set changed", "denominations", m.denominations)
	return nil
}

// SetCurrency changes the machine currency, re-stamping every item and the
// register. Amount conversion between currencies is a stub: prices and the
// balance are carried over unchanged.
func (m *Machine) SetCurrency(currency string) error {
	if currency == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.currency = currency
	m.ledger.SetCurrency(currency)
	m.register.SetCurrency(currency)
	m.logger.Info("currency changed", "currency", currency)
	return nil
}

// Deposit adds cash to the register and returns the log entry.
func (m *Machine) Deposit(amount int) (register.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.register.Deposit(amount)
	if err != nil {
		return register.Entry{}, err
	}
	m.logger.Info("cash deposited", "amount", amount, "balance", m.register.Balance())
	return entry, nil
}

// Withdraw removes cash from the register and returns the log entry.
func (m *Machine) Withdraw(amount int) (register.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.register.Withdraw(amount)
	if err != nil {
		return register.Entry{}, err
	}
	m.logger.Info("cash withdrawn", "amount", amount, "balance", m.register.Balance())
	return entry, nil
}

// Items returns a copy of the catalog.
func (m *Machine) Items() []inventory.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ledger.Items()
}

// Balance returns the current register balance.
func (m *Machine) Balance() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.register.Balance()
}

// Logs returns a copy of the register's append-only transaction log.
func (m *Machine) Logs() []register.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.register.Log()
}

// Denominations returns a copy of the active denomination set.
func (m *Machine) Denominations() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.denominations...)
}

// Currency returns the machine currency.
func (m *Machine) Currency() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currency
}

// Restored reports whether the machine state came from a snapshot.
func (m *Machine) Restored() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.restored
}

// Backup serializes the current machine state and asks the snapshot store
// to durably persist it. One-shot: store failures are returned, not
// retried. The state lock is not held across the store call.
func (m *Machine) Backup(ctx context.Context) error {
	if m.store == nil {
		return ErrNoStore
	}

	m.mu.RLock()
	snap := m.snapshotLocked()
	m.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, m.storeTimeout)
	defer cancel()

	if err := m.store.SaveSnapshot(ctx, snap); err != nil {
		m.logger.Error("backup failed", "error", err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	m.logger.Info("machine state backed up", "stamp", snap.Stamp, "items", len(snap.Items))
	return nil
}

// Restore loads the most recent snapshot and overwrites the machine's
// denominations, currency, items and register balance with it. The
// register log is reset; logs are not restored.
//
// Restore is fail-soft: a missing snapshot or an unreachable store keeps
// the current in-memory state, logs the reason, and reports false.
func (m *Machine) Restore(ctx context.Context) bool {
	if m.store == nil {
		m.logger.Warn("restore skipped, no snapshot store configured")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, m.storeTimeout)
	defer cancel()

	snap, err := m.store.LoadLatest(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			m.logger.Info("no snapshot found, keeping current state")
		} else {
			m.logger.Warn("restore failed, keeping current state", "error", err)
		}
		return false
	}

	m.mu.Lock()
	m.denominations = append([]int(nil), snap.Denominations...)
	m.currency = snap.Currency
	m.ledger = inventory.NewLedger(snap.Currency, snap.Items)
	m.register.Reset(snap.Register.Amount, snap.Register.Currency)
	m.restored = true
	m.mu.Unlock()

	m.logger.Info("machine state restored",
		"stamp", snap.Stamp,
		"items", len(snap.Items),
		"balance", snap.Register.Amount,
	)
	return true
}

// snapshotLocked builds a deep copy of the current state. Callers must hold
// at least the read lock.
func (m *Machine) snapshotLocked() *store.Snapshot {
	return &store.Snapshot{
		Denominations: append([]int(nil), m.denominations...),
		Currency:      m.currency,
		Items:         m.ledger.Items(),
		Register: store.RegisterState{
			Amount:   m.register.Balance(),
			Currency: m.register.Currency(),
		},
		Stamp: time.Now().UTC(),
	}
}
