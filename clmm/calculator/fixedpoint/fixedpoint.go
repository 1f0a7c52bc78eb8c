// Package fixedpoint pins down the decimal conventions shared by every
// calculator package: where division rounds, and how amounts are normalized
// before they leave the engine.
package fixedpoint

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// QuoPrecision is the number of fractional digits kept by Quo. Internal
	// accumulators carry this precision; changing it changes every computed
	// amount in the engine.
	QuoPrecision = 20

	// AmountScale is the fixed number of decimal places of every
	// outward-facing token amount.
	AmountScale = 18
)

var (
	Zero = decimal.New(0, 0)
	One  = decimal.New(1, 0)

	// MaxUint128 caps liquidity quantities (2^128 - 1).
	MaxUint128 = decimal.NewFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)), 0)
)

// Quo divides a by b at QuoPrecision fractional digits, rounding half away
// from zero. All division in the engine goes through here; multiplication
// and addition stay exact.
func Quo(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, QuoPrecision)
}

// Normalize18 truncates d to AmountScale decimal places, rounding toward
// zero. Applied to every amount surfaced to callers; never applied to
// internal accumulators.
func Normalize18(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(AmountScale)
}
