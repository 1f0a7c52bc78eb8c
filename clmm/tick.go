package clmm

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/galaswap/clmm-engine-go/clmm/calculator/liquiditymath"
)

// TickState holds the per-tick accumulators. FeeGrowthOutside0 and
// FeeGrowthOutside1 are relative values: they only have meaning as a pair
// with the global accumulators at the same moment, and flip interpretation
// every time the tick is crossed.
type TickState struct {
	Tick              int32
	LiquidityGross    decimal.Decimal
	LiquidityNet      decimal.Decimal
	FeeGrowthOutside0 decimal.Decimal
	FeeGrowthOutside1 decimal.Decimal
	Initialised       bool
}

// Update applies a liquidity delta to the tick as the lower or upper bound
// of a position. It reports whether the tick flipped between initialised and
// uninitialised. On error the tick is left unmodified.
//
// The first time a tick at or below the current tick gains liquidity, its
// outside accumulators are seeded with the current global values; all fee
// growth so far is treated as having happened below it.
func (t *TickState) Update(tickCurrent int32, liquidityDelta, feeGrowthGlobal0, feeGrowthGlobal1, maxLiquidity decimal.Decimal, upper bool) (bool, error) {
	grossBefore := t.LiquidityGross
	grossAfter, err := liquiditymath.AddDelta(grossBefore, liquidityDelta)
	if err != nil {
		return false, fmt.Errorf("tick %d: %w", t.Tick, err)
	}
	if grossAfter.GreaterThan(maxLiquidity) {
		return false, fmt.Errorf("tick %d: gross liquidity above per-tick maximum: %w", t.Tick, liquiditymath.ErrLiquidityOverflow)
	}

	if grossBefore.IsZero() && t.Tick <= tickCurrent {
		t.FeeGrowthOutside0 = feeGrowthGlobal0
		t.FeeGrowthOutside1 = feeGrowthGlobal1
	}
	t.LiquidityGross = grossAfter
	if upper {
		t.LiquidityNet = t.LiquidityNet.Sub(liquidityDelta)
	} else {
		t.LiquidityNet = t.LiquidityNet.Add(liquidityDelta)
	}
	t.Initialised = !grossAfter.IsZero()
	return grossAfter.IsZero() != grossBefore.IsZero(), nil
}

// Cross transitions the tick as the price moves through it and returns the
// net liquidity to apply in the crossing direction. The outside accumulators
// are mirrored against the globals so that FeeGrowthInside stays consistent
// on the other side.
func (t *TickState) Cross(feeGrowthGlobal0, feeGrowthGlobal1 decimal.Decimal) decimal.Decimal {
	t.FeeGrowthOutside0 = feeGrowthGlobal0.Sub(t.FeeGrowthOutside0)
	t.FeeGrowthOutside1 = feeGrowthGlobal1.Sub(t.FeeGrowthOutside1)
	return t.LiquidityNet
}

// FeeGrowthInside returns the fee growth accumulated between two ticks.
// Uninitialised bounding ticks carry zero outside values, which yields the
// full global growth when the range spans the whole curve.
func FeeGrowthInside(lower, upper TickState, tickCurrent int32, feeGrowthGlobal0, feeGrowthGlobal1 decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	var below0, below1 decimal.Decimal
	if tickCurrent >= lower.Tick {
		below0 = lower.FeeGrowthOutside0
		below1 = lower.FeeGrowthOutside1
	} else {
		below0 = feeGrowthGlobal0.Sub(lower.FeeGrowthOutside0)
		below1 = feeGrowthGlobal1.Sub(lower.FeeGrowthOutside1)
	}

	var above0, above1 decimal.Decimal
	if tickCurrent < upper.Tick {
		above0 = upper.FeeGrowthOutside0
		above1 = upper.FeeGrowthOutside1
	} else {
		above0 = feeGrowthGlobal0.Sub(upper.FeeGrowthOutside0)
		above1 = feeGrowthGlobal1.Sub(upper.FeeGrowthOutside1)
	}

	inside0 := feeGrowthGlobal0.Sub(below0).Sub(above0)
	inside1 := feeGrowthGlobal1.Sub(below1).Sub(above1)
	return inside0, inside1
}
