package swapmath

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeSwapStep(t *testing.T) {
	liquidity := decimal.NewFromInt(10000)
	one := decimal.NewFromInt(1)
	farBelow := dec("0.5")
	farAbove := dec("2")

	t.Run("exact in, amount runs out before target", func(t *testing.T) {
		step, err := ComputeSwapStep(one, farBelow, liquidity, decimal.NewFromInt(5), 500)
		require.NoError(t, err)
		assert.True(t, dec("0.9995004996253122502").Equal(step.SqrtPriceNext), "next %s", step.SqrtPriceNext)
		assert.True(t, dec("4.99750000000000002964").Equal(step.AmountIn), "in %s", step.AmountIn)
		assert.True(t, dec("4.995003746877498").Equal(step.AmountOut), "out %s", step.AmountOut)
		assert.True(t, dec("0.00249999999999997036").Equal(step.FeeAmount), "fee %s", step.FeeAmount)
		// Fee plus curve input account for the full remainder.
		assert.True(t, step.AmountIn.Add(step.FeeAmount).Equal(decimal.NewFromInt(5)))
	})

	t.Run("exact in, one for zero", func(t *testing.T) {
		step, err := ComputeSwapStep(one, farAbove, liquidity, decimal.NewFromInt(5), 500)
		require.NoError(t, err)
		assert.True(t, dec("1.00049975").Equal(step.SqrtPriceNext), "next %s", step.SqrtPriceNext)
		assert.True(t, dec("4.99500374687749797039").Equal(step.AmountOut), "out %s", step.AmountOut)
	})

	t.Run("exact in, target reached first", func(t *testing.T) {
		target := dec("0.9999") // a hair below current
		step, err := ComputeSwapStep(one, target, liquidity, decimal.NewFromInt(100), 500)
		require.NoError(t, err)
		assert.True(t, target.Equal(step.SqrtPriceNext))
		// amount0 to move 1 -> 0.9999 at L=10000.
		assert.True(t, dec("1.00010001000100010001").Equal(step.AmountIn), "in %s", step.AmountIn)
		assert.True(t, dec("1").Equal(step.AmountOut), "out %s", step.AmountOut)
		// Fee is charged on the partial input, not the full remainder.
		assert.True(t, step.AmountIn.Add(step.FeeAmount).LessThan(decimal.NewFromInt(100)))
	})

	t.Run("exact out, amount satisfied before target", func(t *testing.T) {
		step, err := ComputeSwapStep(one, farBelow, liquidity, decimal.NewFromInt(-2), 500)
		require.NoError(t, err)
		assert.True(t, dec("0.9998").Equal(step.SqrtPriceNext), "next %s", step.SqrtPriceNext)
		assert.True(t, dec("2").Equal(step.AmountOut), "out %s", step.AmountOut)
		assert.True(t, dec("2.00040008001600320064").Equal(step.AmountIn), "in %s", step.AmountIn)
		assert.True(t, dec("0.00100070039020310315").Equal(step.FeeAmount), "fee %s", step.FeeAmount)
	})

	t.Run("exact out never pays more than requested", func(t *testing.T) {
		step, err := ComputeSwapStep(one, farBelow, liquidity, decimal.NewFromInt(-2), 500)
		require.NoError(t, err)
		assert.False(t, step.AmountOut.GreaterThan(decimal.NewFromInt(2)))
	})

	t.Run("price never moves past the target", func(t *testing.T) {
		target := dec("0.99999")
		step, err := ComputeSwapStep(one, target, liquidity, decimal.NewFromInt(1000), 500)
		require.NoError(t, err)
		assert.True(t, step.SqrtPriceNext.GreaterThanOrEqual(target))
	})

	t.Run("zero liquidity jumps to target with zero amounts", func(t *testing.T) {
		step, err := ComputeSwapStep(one, farBelow, decimal.Zero, decimal.NewFromInt(5), 500)
		require.NoError(t, err)
		assert.True(t, farBelow.Equal(step.SqrtPriceNext))
		assert.True(t, step.AmountIn.IsZero())
		assert.True(t, step.AmountOut.IsZero())
		assert.True(t, step.FeeAmount.IsZero())
	})

	t.Run("zero fee charges nothing on a capped step", func(t *testing.T) {
		target := dec("0.9999")
		step, err := ComputeSwapStep(one, target, liquidity, decimal.NewFromInt(100), 0)
		require.NoError(t, err)
		assert.True(t, step.FeeAmount.IsZero())
	})
}
