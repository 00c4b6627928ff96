package vendo

import (
	"github.com/vendolabs/vendo/change"
	"github.com/vendolabs/vendo/inventory"
	"github.com/vendolabs/vendo/register"
)

// Re-exported domain types so most callers only import the root package.
type (
	// Item is a sellable product slot in the machine.
	Item = inventory.Item

	// Breakdown maps a denomination to the number of coins returned.
	Breakdown = change.Breakdown

	// LogEntry is one record in the register's append-only log.
	LogEntry = register.Entry
)
