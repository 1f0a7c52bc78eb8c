// Package sqrtpricemath computes token amount deltas between sqrt prices and
// the next sqrt price a trade moves the pool to.
//
// With L the liquidity and sa < sb two sqrt prices:
//
//	amount0 = L * (sb - sa) / (sa * sb)
//	amount1 = L * (sb - sa)
//
// Division happens once per formula, through fixedpoint.Quo.
package sqrtpricemath

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/galaswap/clmm-engine-go/clmm/calculator/fixedpoint"
)

var (
	ErrLiquidityZero      = errors.New("liquidity must be greater than zero")
	ErrSqrtPriceZero      = errors.New("sqrt price must be greater than zero")
	ErrAmountExhaustsPool = errors.New("output amount exceeds pool reserves at this liquidity")
)

// GetAmount0Delta returns the token0 amount between two sqrt prices at the
// given liquidity. The order of the two prices does not matter; the sign of
// the result follows the sign of liquidity.
func GetAmount0Delta(sqrtPriceA, sqrtPriceB, liquidity decimal.Decimal) decimal.Decimal {
	if sqrtPriceA.GreaterThan(sqrtPriceB) {
		sqrtPriceA, sqrtPriceB = sqrtPriceB, sqrtPriceA
	}
	numerator := liquidity.Mul(sqrtPriceB.Sub(sqrtPriceA))
	return fixedpoint.Quo(numerator, sqrtPriceB.Mul(sqrtPriceA))
}

// GetAmount1Delta returns the token1 amount between two sqrt prices at the
// given liquidity. Multiplication only; no rounding occurs.
func GetAmount1Delta(sqrtPriceA, sqrtPriceB, liquidity decimal.Decimal) decimal.Decimal {
	if sqrtPriceA.GreaterThan(sqrtPriceB) {
		sqrtPriceA, sqrtPriceB = sqrtPriceB, sqrtPriceA
	}
	return liquidity.Mul(sqrtPriceB.Sub(sqrtPriceA))
}

// GetNextSqrtPriceFromInput returns the sqrt price after spending amountIn of
// the input token against the given liquidity.
//
// Adding token0 (zeroForOne) moves the price down:
//
//	next = L * s / (L + amountIn * s)
//
// Adding token1 moves it up:
//
//	next = s + amountIn / L
func GetNextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn decimal.Decimal, zeroForOne bool) (decimal.Decimal, error) {
	if sqrtPrice.Sign() <= 0 {
		return decimal.Decimal{}, ErrSqrtPriceZero
	}
	if liquidity.Sign() <= 0 {
		return decimal.Decimal{}, ErrLiquidityZero
	}
	if zeroForOne {
		denominator := liquidity.Add(amountIn.Mul(sqrtPrice))
		return fixedpoint.Quo(liquidity.Mul(sqrtPrice), denominator), nil
	}
	return sqrtPrice.Add(fixedpoint.Quo(amountIn, liquidity)), nil
}

// GetNextSqrtPriceFromOutput returns the sqrt price after paying out
// amountOut of the output token against the given liquidity. The mirror of
// GetNextSqrtPriceFromInput: zeroForOne pays out token1 (price down), the
// other direction pays out token0 (price up).
func GetNextSqrtPriceFromOutput(sqrtPrice, liquidity, amountOut decimal.Decimal, zeroForOne bool) (decimal.Decimal, error) {
	if sqrtPrice.Sign() <= 0 {
		return decimal.Decimal{}, ErrSqrtPriceZero
	}
	if liquidity.Sign() <= 0 {
		return decimal.Decimal{}, ErrLiquidityZero
	}
	if zeroForOne {
		next := sqrtPrice.Sub(fixedpoint.Quo(amountOut, liquidity))
		if next.Sign() <= 0 {
			return decimal.Decimal{}, ErrAmountExhaustsPool
		}
		return next, nil
	}
	denominator := liquidity.Sub(amountOut.Mul(sqrtPrice))
	if denominator.Sign() <= 0 {
		return decimal.Decimal{}, ErrAmountExhaustsPool
	}
	return fixedpoint.Quo(liquidity.Mul(sqrtPrice), denominator), nil
}
