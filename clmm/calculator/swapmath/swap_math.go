// Package swapmath computes a single step of a swap: how far the price moves
// within one tick interval and what amounts change hands, fee included.
package swapmath

import (
	"github.com/shopspring/decimal"

	"github.com/galaswap/clmm-engine-go/clmm/calculator/fixedpoint"
	"github.com/galaswap/clmm-engine-go/clmm/calculator/sqrtpricemath"
)

// PipsDenominator converts a fee in pips to a fraction. 500 pips = 0.05%.
var PipsDenominator = decimal.NewFromInt(1_000_000)

// SwapStep is the outcome of one step of the swap loop. AmountIn and
// AmountOut are both non-negative; FeeAmount is charged on top of AmountIn
// in the input token.
type SwapStep struct {
	SqrtPriceNext decimal.Decimal
	AmountIn      decimal.Decimal
	AmountOut     decimal.Decimal
	FeeAmount     decimal.Decimal
}

// ComputeSwapStep advances the price from sqrtPriceCurrent toward
// sqrtPriceTarget, stopping early if amountRemaining runs out first.
//
// The trade direction is inferred from the price ordering: a target at or
// below the current price consumes token0. A non-negative amountRemaining
// means the input amount is specified (exact in); a negative one specifies
// the output amount (exact out). The returned price never moves past the
// target.
func ComputeSwapStep(sqrtPriceCurrent, sqrtPriceTarget, liquidity, amountRemaining decimal.Decimal, feePips uint32) (SwapStep, error) {
	zeroForOne := sqrtPriceCurrent.GreaterThanOrEqual(sqrtPriceTarget)
	exactIn := amountRemaining.Sign() >= 0
	fee := decimal.NewFromInt(int64(feePips))

	var step SwapStep
	if exactIn {
		amountRemainingLessFee := fixedpoint.Quo(amountRemaining.Mul(PipsDenominator.Sub(fee)), PipsDenominator)
		if zeroForOne {
			step.AmountIn = sqrtpricemath.GetAmount0Delta(sqrtPriceTarget, sqrtPriceCurrent, liquidity)
		} else {
			step.AmountIn = sqrtpricemath.GetAmount1Delta(sqrtPriceCurrent, sqrtPriceTarget, liquidity)
		}
		if amountRemainingLessFee.GreaterThanOrEqual(step.AmountIn) {
			step.SqrtPriceNext = sqrtPriceTarget
		} else {
			next, err := sqrtpricemath.GetNextSqrtPriceFromInput(sqrtPriceCurrent, liquidity, amountRemainingLessFee, zeroForOne)
			if err != nil {
				return SwapStep{}, err
			}
			step.SqrtPriceNext = next
		}
	} else {
		if zeroForOne {
			step.AmountOut = sqrtpricemath.GetAmount1Delta(sqrtPriceTarget, sqrtPriceCurrent, liquidity)
		} else {
			step.AmountOut = sqrtpricemath.GetAmount0Delta(sqrtPriceCurrent, sqrtPriceTarget, liquidity)
		}
		if amountRemaining.Neg().GreaterThanOrEqual(step.AmountOut) {
			step.SqrtPriceNext = sqrtPriceTarget
		} else {
			next, err := sqrtpricemath.GetNextSqrtPriceFromOutput(sqrtPriceCurrent, liquidity, amountRemaining.Neg(), zeroForOne)
			if err != nil {
				return SwapStep{}, err
			}
			step.SqrtPriceNext = next
		}
	}

	max := sqrtPriceTarget.Equal(step.SqrtPriceNext)
	if zeroForOne {
		if !(max && exactIn) {
			step.AmountIn = sqrtpricemath.GetAmount0Delta(step.SqrtPriceNext, sqrtPriceCurrent, liquidity)
		}
		if !(max && !exactIn) {
			step.AmountOut = sqrtpricemath.GetAmount1Delta(step.SqrtPriceNext, sqrtPriceCurrent, liquidity)
		}
	} else {
		if !(max && exactIn) {
			step.AmountIn = sqrtpricemath.GetAmount1Delta(sqrtPriceCurrent, step.SqrtPriceNext, liquidity)
		}
		if !(max && !exactIn) {
			step.AmountOut = sqrtpricemath.GetAmount0Delta(sqrtPriceCurrent, step.SqrtPriceNext, liquidity)
		}
	}

	// An exact-out step never pays out more than was asked for.
	if !exactIn && step.AmountOut.GreaterThan(amountRemaining.Neg()) {
		step.AmountOut = amountRemaining.Neg()
	}

	if exactIn && !step.SqrtPriceNext.Equal(sqrtPriceTarget) {
		// The whole remainder is consumed; whatever the curve did not
		// absorb is the fee.
		step.FeeAmount = amountRemaining.Sub(step.AmountIn)
	} else {
		step.FeeAmount = fixedpoint.Quo(step.AmountIn.Mul(fee), PipsDenominator.Sub(fee))
	}
	return step, nil
}
