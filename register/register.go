// Package register owns the machine's cash balance and its append-only
// transaction log.
//
// Register is not safe for concurrent use. The Machine facade serializes
// all access under a single machine-wide lock.
package register

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for register operations.
var (
	// ErrInvalidAmount means a deposit or withdrawal amount is not positive.
	ErrInvalidAmount = errors.New("register: amount must be positive")

	// ErrInsufficientFunds means the balance cannot cover a withdrawal.
	ErrInsufficientFunds = errors.New("register: insufficient funds")
)

// Kind distinguishes the two log entry directions.
type Kind string

const (
	// KindAdd records a balance increase.
	KindAdd Kind = "add"
	// KindDeduct records a balance decrease.
	KindDeduct Kind = "deduct"
)

// Entry is one append-only log record. Every successful balance mutation
// appends exactly one entry.
type Entry struct {
	Kind      Kind      `json:"kind"`
	Amount    int       `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Register holds the machine's cash balance in minor currency units. The
// balance is mutated only through Deposit and Withdraw; the log is never
// truncated in-process.
type Register struct {
	balance  int
	currency string
	log      []Entry
}

// New creates a register with a starting balance. The starting float should
// exceed the largest plausible single-purchase change so early purchases can
// be served.
func New(balance int, currency string) *Register {
	return &Register{balance: balance, currency: currency}
}

// Deposit adds a positive amount to the balance and logs it.
func (r *Register) Deposit(amount int) (Entry, error) {
	if amount <= 0 {
		return Entry{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	r.balance += amount
	return r.append(KindAdd, amount), nil
}

// Withdraw removes a positive amount from the balance and logs it. The
// balance is untouched when it cannot cover the amount; withdrawing the
// exact balance succeeds and leaves it at zero.
func (r *Register) Withdraw(amount int) (Entry, error) {
	if amount <= 0 {
		return Entry{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if r.balance < amount {
		return Entry{}, fmt.Errorf("%w: balance %d, want %d", ErrInsufficientFunds, r.balance, amount)
	}
	r.balance -= amount
	return r.append(KindDeduct, amount), nil
}

// Balance returns the current balance.
func (r *Register) Balance() int { return r.balance }

// Currency returns the register currency.
func (r *Register) Currency() string { return r.currency }

// SetCurrency changes the register currency. Amount conversion is a stub:
// the balance is carried over unchanged.
func (r *Register) SetCurrency(currency string) { r.currency = currency }

// Log returns a copy of the append-only history, oldest first.
func (r *Register) Log() []Entry {
	out := make([]Entry, len(r.log))
	copy(out, r.log)
	return out
}

// Reset overwrites the balance and currency and clears the log. Used when
// restoring from a snapshot; logs are not restored.
func (r *Register) Reset(balance int, currency string) {
	r.balance = balance
	r.currency = currency
	r.log = nil
}

func (r *Register) append(kind Kind, amount int) Entry {
	entry := Entry{Kind: kind, Amount: amount, Timestamp: time.Now().UTC()}
	r.log = append(r.log, entry)
	return entry
}
