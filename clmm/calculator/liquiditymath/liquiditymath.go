// Package liquiditymath applies signed liquidity deltas to unsigned
// liquidity values.
package liquiditymath

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/galaswap/clmm-engine-go/clmm/calculator/fixedpoint"
)

var (
	ErrNegativeLiquidity = errors.New("liquidity cannot be negative")
	ErrLiquidityOverflow = errors.New("liquidity overflow")
)

// AddDelta returns x + delta, failing if the result would drop below zero or
// exceed the uint128 range liquidity is carried in. x is never mutated;
// decimals are immutable values.
func AddDelta(x, delta decimal.Decimal) (decimal.Decimal, error) {
	next := x.Add(delta)
	if next.Sign() < 0 {
		return decimal.Decimal{}, ErrNegativeLiquidity
	}
	if next.GreaterThan(fixedpoint.MaxUint128) {
		return decimal.Decimal{}, ErrLiquidityOverflow
	}
	return next, nil
}
