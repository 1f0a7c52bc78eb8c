// Package tickmath converts between integer tick indices and decimal square
// root prices, and holds the tick-spacing rules shared by the whole engine.
//
// The price at tick t is 1.0001^t, so the square root price is
// 1.0001^(t/2). Both directions intentionally go through float64: the
// decimal value is seeded from the shortest decimal representation of the
// float64 power, and the inverse rounds the fractional tick half away from
// zero. Every price in the engine is derived from this arithmetic; neither
// side can be swapped for a higher-precision rule without shifting amounts
// everywhere downstream.
package tickmath

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/galaswap/clmm-engine-go/clmm/calculator/fixedpoint"
)

const (
	// MinTick is the lowest tick index a pool can reference.
	MinTick int32 = -887272
	// MaxTick is the highest tick index a pool can reference.
	MaxTick int32 = 887272
)

var (
	ErrTickOutOfBounds      = errors.New("tick out of bounds")
	ErrInvalidRange         = errors.New("invalid tick range")
	ErrZeroTickSpacing      = errors.New("tick spacing must be greater than zero")
	ErrUnknownFeeTier       = errors.New("unknown fee tier")
	ErrSqrtPriceNotPositive = errors.New("sqrt price must be greater than zero")

	// MinSqrtPrice and MaxSqrtPrice are the sqrt prices at MinTick and
	// MaxTick. They bound every price limit a swap may be given.
	MinSqrtPrice = mustSqrtPrice(MinTick)
	MaxSqrtPrice = mustSqrtPrice(MaxTick)

	// feeTierSpacing is the fixed fee (in pips) to tick-spacing table.
	feeTierSpacing = map[uint32]int32{
		500:   10,
		3000:  60,
		10000: 200,
	}

	logBase = math.Log(1.0001)
)

// TickToSqrtPrice returns sqrt(1.0001^tick) as a decimal.
func TickToSqrtPrice(tick int32) (decimal.Decimal, error) {
	if tick < MinTick || tick > MaxTick {
		return decimal.Decimal{}, fmt.Errorf("%w: %d", ErrTickOutOfBounds, tick)
	}
	return decimal.NewFromFloat(math.Pow(1.0001, float64(tick)/2)), nil
}

// SqrtPriceToTick returns the tick whose price is nearest to sqrtPrice², as
// round(log_1.0001(sqrtPrice²)) with ties rounded half away from zero.
//
// This is the inverse of TickToSqrtPrice only up to that rounding; the two
// functions round-trip for every tick in range but the last decimal digit of
// an arbitrary price may map either way.
func SqrtPriceToTick(sqrtPrice decimal.Decimal) (int32, error) {
	if sqrtPrice.Sign() <= 0 {
		return 0, ErrSqrtPriceNotPositive
	}
	f, _ := sqrtPrice.Float64()
	tick := math.Round(math.Log(f*f) / logBase)
	if tick < float64(MinTick) || tick > float64(MaxTick) {
		return 0, fmt.Errorf("%w: sqrt price %s", ErrTickOutOfBounds, sqrtPrice)
	}
	return int32(tick), nil
}

// SpaceTick truncates tick toward zero to the nearest multiple of spacing.
func SpaceTick(tick, spacing int32) (int32, error) {
	if spacing == 0 {
		return 0, ErrZeroTickSpacing
	}
	return (tick / spacing) * spacing, nil
}

// CheckTicks validates a position's tick range.
func CheckTicks(tickLower, tickUpper int32) error {
	if tickLower >= tickUpper {
		return fmt.Errorf("%w: Lower Tick is greater than Upper Tick", ErrInvalidRange)
	}
	if tickLower < MinTick {
		return fmt.Errorf("%w: Lower Tick is less than Min Tick", ErrInvalidRange)
	}
	if tickUpper > MaxTick {
		return fmt.Errorf("%w: Upper Tick is greater than Max Tick", ErrInvalidRange)
	}
	return nil
}

// TickSpacingToMaxLiquidityPerTick returns the cap on a single tick's gross
// liquidity: (2^128 - 1) spread evenly over every spacing-aligned tick.
func TickSpacingToMaxLiquidityPerTick(spacing int32) (decimal.Decimal, error) {
	if spacing == 0 {
		return decimal.Decimal{}, ErrZeroTickSpacing
	}
	// Integer division truncates toward zero, which is floor for the
	// positive bound and ceil for the negative one.
	maxAligned := (MaxTick / spacing) * spacing
	minAligned := (MinTick / spacing) * spacing
	numTicks := int64((maxAligned-minAligned)/spacing) + 1
	return fixedpoint.Quo(fixedpoint.MaxUint128, decimal.NewFromInt(numTicks)).Floor(), nil
}

// SpacingForFee returns the tick spacing of a fee tier, given in pips.
func SpacingForFee(fee uint32) (int32, error) {
	spacing, ok := feeTierSpacing[fee]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownFeeTier, fee)
	}
	return spacing, nil
}

func mustSqrtPrice(tick int32) decimal.Decimal {
	p, err := TickToSqrtPrice(tick)
	if err != nil {
		panic(err)
	}
	return p
}
