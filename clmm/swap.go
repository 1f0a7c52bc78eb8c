package clmm

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/galaswap/clmm-engine-go/clmm/calculator/fixedpoint"
	"github.com/galaswap/clmm-engine-go/clmm/calculator/liquiditymath"
	"github.com/galaswap/clmm-engine-go/clmm/calculator/swapmath"
	"github.com/galaswap/clmm-engine-go/clmm/calculator/tickmath"
)

// swapState carries the running swap across tick intervals. The fee growth
// accumulator is the one for the input token only; the other side cannot
// change during a swap.
type swapState struct {
	amountRemaining  decimal.Decimal
	amountCalculated decimal.Decimal
	sqrtPrice        decimal.Decimal
	tick             int32
	feeGrowthGlobal  decimal.Decimal
	protocolFee      decimal.Decimal
	liquidity        decimal.Decimal
}

type stepComputations struct {
	sqrtPriceStart decimal.Decimal
	tickNext       int32
	initialised    bool
	sqrtPriceNext  decimal.Decimal
	amountIn       decimal.Decimal
	amountOut      decimal.Decimal
	feeAmount      decimal.Decimal
}

// Swap trades one token for the other, walking the price tick interval by
// tick interval until the specified amount is used up or the price limit is
// reached.
//
// A positive amountSpecified fixes the input amount (exact in); a negative
// one fixes the output amount (exact out). zeroForOne trades token0 for
// token1 and moves the price down. Returned amounts are signed from the
// pool's point of view: positive flows into the pool, negative flows out.
//
// The swap is atomic: ticks crossed along the way are staged and the pool is
// only written once the whole walk has succeeded.
func (p *Pool) Swap(zeroForOne bool, amountSpecified, sqrtPriceLimit decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	var zero decimal.Decimal
	if amountSpecified.IsZero() {
		return zero, zero, fmt.Errorf("%w: amount specified must not be zero", ErrInvalidArgument)
	}
	if zeroForOne {
		if sqrtPriceLimit.GreaterThanOrEqual(p.SqrtPrice) || sqrtPriceLimit.LessThan(tickmath.MinSqrtPrice) {
			return zero, zero, fmt.Errorf("%w: limit %s, price %s", ErrPriceLimitOutOfRange, sqrtPriceLimit, p.SqrtPrice)
		}
	} else {
		if sqrtPriceLimit.LessThanOrEqual(p.SqrtPrice) || sqrtPriceLimit.GreaterThan(tickmath.MaxSqrtPrice) {
			return zero, zero, fmt.Errorf("%w: limit %s, price %s", ErrPriceLimitOutOfRange, sqrtPriceLimit, p.SqrtPrice)
		}
	}

	exactInput := amountSpecified.Sign() > 0
	state := swapState{
		amountRemaining: amountSpecified,
		sqrtPrice:       p.SqrtPrice,
		tick:            p.TickCurrent,
		liquidity:       p.Liquidity,
	}
	if zeroForOne {
		state.feeGrowthGlobal = p.FeeGrowthGlobal0
	} else {
		state.feeGrowthGlobal = p.FeeGrowthGlobal1
	}
	crossed := map[int32]TickState{}

	// Every iteration either consumes amount or moves at least one bitmap
	// word, so the walk is bounded by the number of spaced ticks.
	maxSteps := int((tickmath.MaxTick-tickmath.MinTick)/p.TickSpacing) + 2
	steps := 0
	for !state.amountRemaining.IsZero() && !state.sqrtPrice.Equal(sqrtPriceLimit) {
		if steps++; steps > maxSteps {
			return zero, zero, ErrSwapDidNotConverge
		}

		var step stepComputations
		step.sqrtPriceStart = state.sqrtPrice
		step.tickNext, step.initialised = p.bitmap.NextInitialisedTickWithinSameWord(state.tick, p.TickSpacing, zeroForOne)
		if step.tickNext < tickmath.MinTick || step.tickNext > tickmath.MaxTick {
			// The search ran off the end of the tick range; nothing is
			// left to swap against.
			break
		}
		var err error
		step.sqrtPriceNext, err = tickmath.TickToSqrtPrice(step.tickNext)
		if err != nil {
			return zero, zero, err
		}

		target := step.sqrtPriceNext
		if (zeroForOne && step.sqrtPriceNext.LessThan(sqrtPriceLimit)) ||
			(!zeroForOne && step.sqrtPriceNext.GreaterThan(sqrtPriceLimit)) {
			target = sqrtPriceLimit
		}

		result, err := swapmath.ComputeSwapStep(state.sqrtPrice, target, state.liquidity, state.amountRemaining, p.Fee)
		if err != nil {
			return zero, zero, err
		}
		state.sqrtPrice = result.SqrtPriceNext
		step.amountIn = result.AmountIn
		step.amountOut = result.AmountOut
		step.feeAmount = result.FeeAmount

		if exactInput {
			state.amountRemaining = state.amountRemaining.Sub(step.amountIn.Add(step.feeAmount))
			state.amountCalculated = state.amountCalculated.Sub(step.amountOut)
		} else {
			state.amountRemaining = state.amountRemaining.Add(step.amountOut)
			state.amountCalculated = state.amountCalculated.Add(step.amountIn.Add(step.feeAmount))
		}

		if p.ProtocolFeeRate.Sign() > 0 {
			delta := step.feeAmount.Mul(p.ProtocolFeeRate)
			step.feeAmount = step.feeAmount.Sub(delta)
			state.protocolFee = state.protocolFee.Add(delta)
		}
		if state.liquidity.Sign() > 0 {
			state.feeGrowthGlobal = state.feeGrowthGlobal.Add(fixedpoint.Quo(step.feeAmount, state.liquidity))
		}

		if state.sqrtPrice.Equal(step.sqrtPriceNext) {
			if step.initialised {
				tickState, ok := crossed[step.tickNext]
				if !ok {
					tickState = p.ticks[step.tickNext]
				}
				var global0, global1 decimal.Decimal
				if zeroForOne {
					global0, global1 = state.feeGrowthGlobal, p.FeeGrowthGlobal1
				} else {
					global0, global1 = p.FeeGrowthGlobal0, state.feeGrowthGlobal
				}
				liquidityNet := tickState.Cross(global0, global1)
				crossed[step.tickNext] = tickState
				if zeroForOne {
					liquidityNet = liquidityNet.Neg()
				}
				state.liquidity, err = liquiditymath.AddDelta(state.liquidity, liquidityNet)
				if err != nil {
					return zero, zero, err
				}
			}
			if zeroForOne {
				state.tick = step.tickNext - 1
			} else {
				state.tick = step.tickNext
			}
		} else if !state.sqrtPrice.Equal(step.sqrtPriceStart) {
			state.tick, err = tickmath.SqrtPriceToTick(state.sqrtPrice)
			if err != nil {
				return zero, zero, err
			}
		}
	}

	p.SqrtPrice = state.sqrtPrice
	p.TickCurrent = state.tick
	p.Liquidity = state.liquidity
	if zeroForOne {
		p.FeeGrowthGlobal0 = state.feeGrowthGlobal
		p.ProtocolFees0 = p.ProtocolFees0.Add(state.protocolFee)
	} else {
		p.FeeGrowthGlobal1 = state.feeGrowthGlobal
		p.ProtocolFees1 = p.ProtocolFees1.Add(state.protocolFee)
	}
	for tick, tickState := range crossed {
		p.ticks[tick] = tickState
	}

	var amount0, amount1 decimal.Decimal
	if zeroForOne == exactInput {
		amount0 = amountSpecified.Sub(state.amountRemaining)
		amount1 = state.amountCalculated
	} else {
		amount0 = state.amountCalculated
		amount1 = amountSpecified.Sub(state.amountRemaining)
	}
	return amount0, amount1, nil
}
