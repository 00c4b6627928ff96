// Package change computes minimum-coin change breakdowns for a cash
// register's denomination set.
package change

import (
	"errors"
	"fmt"
)

// Sentinel errors for change computation.
var (
	// ErrNoExactChange means the denomination set cannot represent the
	// requested amount exactly.
	ErrNoExactChange = errors.New("change: no exact change possible")

	// ErrInvalidAmount means the requested amount is negative.
	ErrInvalidAmount = errors.New("change: amount must be non-negative")

	// ErrInvalidDenominations means the denomination set is empty, contains
	// a non-positive value, or contains duplicates.
	ErrInvalidDenominations = errors.New("change: invalid denomination set")
)

// Breakdown maps a denomination to the number of coins of that denomination
// used. The zero-length breakdown is the valid change for amount 0.
type Breakdown map[int]int

// Sum returns the weighted total of the breakdown.
func (b Breakdown) Sum() int {
	total := 0
	for denom, count := range b {
		total += denom * count
	}
	return total
}

// Coins returns the total number of coins in the breakdown.
func (b Breakdown) Coins() int {
	total := 0
	for _, count := range b {
		total += count
	}
	return total
}

// ValidateDenominations checks that a denomination set is usable: non-empty,
// strictly positive values, no duplicates. A set without a unit coin is
// accepted; amounts it cannot represent fail with ErrNoExactChange at
// computation time.
func ValidateDenominations(denominations []int) error {
	if len(denominations) == 0 {
		return fmt.Errorf("%w: empty set", ErrInvalidDenominations)
	}
	seen := make(map[int]struct{}, len(denominations))
	for _, d := range denominations {
		if d <= 0 {
			return fmt.Errorf("%w: denomination %d is not positive", ErrInvalidDenominations, d)
		}
		if _, dup := seen[d]; dup {
			return fmt.Errorf("%w: duplicate denomination %d", ErrInvalidDenominations, d)
		}
		seen[d] = struct{}{}
	}
	return nil
}

// Minimal computes the minimum-coin decomposition of amount using the given
// denomination set via dynamic programming with a last-used trace table.
//
// minCoins[a] is the minimum number of coins summing to a; lastUsed[a]
// records a denomination index achieving that minimum, so the coin multiset
// is reconstructed by walking lastUsed from amount down to zero. Amounts the
// set cannot represent are kept unreachable and fail with ErrNoExactChange
// rather than silently approximating. O(len(denominations) × amount) time.
func Minimal(amount int, denominations []int) (Breakdown, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if err := ValidateDenominations(denominations); err != nil {
		return nil, err
	}
	if amount == 0 {
		return Breakdown{}, nil
	}

	const unreachable = int(^uint(0) >> 1)

	minCoins := make([]int, amount+1)
	lastUsed := make([]int, amount+1)
	for a := 1; a <= amount; a++ {
		minCoins[a] = unreachable
		lastUsed[a] = -1
	}

	for a := 1; a <= amount; a++ {
		for i, denom := range denominations {
			if denom > a || minCoins[a-denom] == unreachable {
				continue
			}
			if minCoins[a-denom]+1 < minCoins[a] {
				minCoins[a] = minCoins[a-denom] + 1
				lastUsed[a] = i
			}
		}
	}

	if minCoins[amount] == unreachable {
		return nil, fmt.Errorf("%w: amount %d with denominations %v", ErrNoExactChange, amount, denominations)
	}

	breakdown := make(Breakdown)
	for a := amount; a > 0; a -= denominations[lastUsed[a]] {
		breakdown[denominations[lastUsed[a]]]++
	}
	return breakdown, nil
}
