// Package vendo is an embeddable vending machine engine: an item catalog,
// a cash register with an append-only transaction log, and a minimum-coin
// change calculator, composed behind a single Machine facade.
//
// A Machine starts with sensible defaults and is tuned through functional
// options:
//
//	m := vendo.New(
//		vendo.WithCurrency("KES"),
//		vendo.WithStartingCash(1000),
//		vendo.WithStore(memory.New()),
//	)
//
// Purchases are atomic. Buy validates the item, its stock, the tendered
// amount, and the change breakdown before mutating anything, so a failed
// purchase never changes machine state:
//
//	receipt, err := m.Buy(itemID, 1, 200)
//	if err != nil {
//		// vendo.IsRejection(err) for refused purchases,
//		// vendo.IsNotFound(err) for unknown items.
//	}
//
// Machine state can be checkpointed to a snapshot store (in-memory,
// MongoDB or PostgreSQL backends live under store/) and loaded back on
// startup:
//
//	if err := m.Backup(ctx); err != nil { ... }
//	restored := m.Restore(ctx) // fail-soft, keeps current state on failure
//
// All amounts are integers in minor currency units. Machine is safe for
// concurrent use; the packages underneath it are not.
package vendo
