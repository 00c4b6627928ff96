package vendo

import (
	"errors"

	"github.com/vendolabs/vendo/change"
	"github.com/vendolabs/vendo/inventory"
	"github.com/vendolabs/vendo/register"
)

// Sentinel errors for common failure scenarios. Domain packages own their
// sentinels; the aliases here let callers match everything through the root
// package.
var (
	// Inventory errors
	ErrItemNotFound      = inventory.ErrNotFound
	ErrInsufficientStock = inventory.ErrInsufficientStock
	ErrInvalidItem       = inventory.ErrInvalidItem

	// Register errors
	ErrInsufficientFunds = register.ErrInsufficientFunds
	ErrInvalidAmount     = register.ErrInvalidAmount

	// Change errors
	ErrNoExactChange        = change.ErrNoExactChange
	ErrInvalidDenominations = change.ErrInvalidDenominations

	// Facade errors
	ErrInvalidInput = errors.New("vendo: invalid input")

	// Store errors
	ErrNoStore          = errors.New("vendo: no snapshot store configured")
	ErrNoSnapshot       = errors.New("vendo: no snapshot available")
	ErrStoreUnavailable = errors.New("vendo: snapshot store unavailable")
)

// IsNotFound returns true if the error means a looked-up entity is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrNoSnapshot)
}

// IsRejection returns true if the error is a precondition failure: the
// operation was refused and no state was mutated.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidItem) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidDenominations) ||
		errors.Is(err, ErrNoExactChange)
}

// IsRetryable returns true if the error is temporary and the operation can
// be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
