package clmm

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galaswap/clmm-engine-go/clmm/calculator/tickmath"
)

func newSwapPool(t *testing.T) *Pool {
	t.Helper()
	pool := newTestPool(t)
	_, _, err := pool.Mint("alice", -100, 100, decimal.NewFromInt(10000))
	require.NoError(t, err)
	return pool
}

func TestSwapValidation(t *testing.T) {
	pool := newSwapPool(t)

	t.Run("zero amount", func(t *testing.T) {
		_, _, err := pool.Swap(true, decimal.Zero, tickmath.MinSqrtPrice)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("limit on the wrong side of the price", func(t *testing.T) {
		_, _, err := pool.Swap(true, decimal.NewFromInt(5), decimal.NewFromInt(2))
		assert.ErrorIs(t, err, ErrPriceLimitOutOfRange)
		_, _, err = pool.Swap(false, decimal.NewFromInt(5), dec("0.5"))
		assert.ErrorIs(t, err, ErrPriceLimitOutOfRange)
	})

	t.Run("limit beyond the tick range", func(t *testing.T) {
		_, _, err := pool.Swap(true, decimal.NewFromInt(5), tickmath.MinSqrtPrice.Sub(dec("0.0000001")))
		assert.ErrorIs(t, err, ErrPriceLimitOutOfRange)
		_, _, err = pool.Swap(false, decimal.NewFromInt(5), tickmath.MaxSqrtPrice.Add(decimal.NewFromInt(1)))
		assert.ErrorIs(t, err, ErrPriceLimitOutOfRange)
	})
}

func TestSwapExactInput(t *testing.T) {
	t.Run("zero for one within one interval", func(t *testing.T) {
		pool := newSwapPool(t)
		amount0, amount1, err := pool.Swap(true, decimal.NewFromInt(5), tickmath.MinSqrtPrice)
		require.NoError(t, err)

		assert.True(t, decimal.NewFromInt(5).Equal(amount0), "amount0 %s", amount0)
		assert.True(t, dec("-4.995003746877498").Equal(amount1), "amount1 %s", amount1)
		assert.True(t, dec("0.9995004996253122502").Equal(pool.SqrtPrice), "price %s", pool.SqrtPrice)
		assert.Equal(t, int32(-10), pool.TickCurrent)
		assert.True(t, dec("0.00000025").Equal(pool.FeeGrowthGlobal0), "growth %s", pool.FeeGrowthGlobal0)
		assert.True(t, pool.FeeGrowthGlobal1.IsZero())
		assert.True(t, decimal.NewFromInt(10000).Equal(pool.Liquidity))
	})

	t.Run("one for zero within one interval", func(t *testing.T) {
		pool := newSwapPool(t)
		amount0, amount1, err := pool.Swap(false, decimal.NewFromInt(5), tickmath.MaxSqrtPrice)
		require.NoError(t, err)

		assert.True(t, dec("-4.99500374687749797039").Equal(amount0), "amount0 %s", amount0)
		assert.True(t, decimal.NewFromInt(5).Equal(amount1), "amount1 %s", amount1)
		assert.True(t, dec("1.00049975").Equal(pool.SqrtPrice), "price %s", pool.SqrtPrice)
		assert.Equal(t, int32(10), pool.TickCurrent)
		assert.True(t, pool.FeeGrowthGlobal0.IsZero())
	})

	t.Run("drains the range and keeps walking to the limit", func(t *testing.T) {
		pool := newSwapPool(t)
		limit, err := tickmath.TickToSqrtPrice(-200)
		require.NoError(t, err)

		amount0, amount1, err := pool.Swap(true, decimal.NewFromInt(100), limit)
		require.NoError(t, err)

		assert.True(t, dec("50.14777011556480621531").Equal(amount0), "amount0 %s", amount0)
		assert.True(t, dec("-49.872720707486").Equal(amount1), "amount1 %s", amount1)
		assert.True(t, limit.Equal(pool.SqrtPrice))
		assert.Equal(t, int32(-200), pool.TickCurrent)
		assert.True(t, pool.Liquidity.IsZero(), "liquidity after leaving the range: %s", pool.Liquidity)
		assert.True(t, dec("0.00000250738850577824").Equal(pool.FeeGrowthGlobal0), "growth %s", pool.FeeGrowthGlobal0)

		// The crossed tick mirrors the global growth accumulated below it.
		lower, ok := pool.Tick(-100)
		require.True(t, ok)
		assert.True(t, pool.FeeGrowthGlobal0.Equal(lower.FeeGrowthOutside0))
		assert.True(t, decimal.NewFromInt(10000).Equal(lower.LiquidityNet))
	})

	t.Run("stops exactly at the price limit", func(t *testing.T) {
		pool := newSwapPool(t)
		limit := dec("0.9998")
		amount0, amount1, err := pool.Swap(true, decimal.NewFromInt(100), limit)
		require.NoError(t, err)

		assert.True(t, limit.Equal(pool.SqrtPrice))
		assert.True(t, dec("2.00140078040620630379").Equal(amount0), "amount0 %s", amount0)
		assert.True(t, dec("-2").Equal(amount1), "amount1 %s", amount1)
	})
}

func TestSwapExactOutput(t *testing.T) {
	pool := newSwapPool(t)
	amount0, amount1, err := pool.Swap(true, decimal.NewFromInt(-2), tickmath.MinSqrtPrice)
	require.NoError(t, err)

	assert.True(t, dec("-2").Equal(amount1), "amount1 %s", amount1)
	assert.True(t, dec("2.00140078040620630379").Equal(amount0), "amount0 %s", amount0)
	assert.True(t, dec("0.9998").Equal(pool.SqrtPrice), "price %s", pool.SqrtPrice)
	assert.Equal(t, int32(-4), pool.TickCurrent)
}

func TestSwapProtocolFee(t *testing.T) {
	pool := newSwapPool(t)
	require.NoError(t, pool.ConfigureProtocolFee(dec("0.5")))

	amount0, amount1, err := pool.Swap(true, decimal.NewFromInt(5), tickmath.MinSqrtPrice)
	require.NoError(t, err)

	// Trader amounts do not change; the protocol's cut comes out of the
	// liquidity providers' share.
	assert.True(t, decimal.NewFromInt(5).Equal(amount0))
	assert.True(t, dec("-4.995003746877498").Equal(amount1))
	assert.True(t, dec("0.00124999999999998518").Equal(pool.ProtocolFees0), "protocol %s", pool.ProtocolFees0)
	assert.True(t, dec("0.000000125").Equal(pool.FeeGrowthGlobal0), "growth %s", pool.FeeGrowthGlobal0)

	got0, got1 := pool.CollectProtocolFees()
	assert.True(t, dec("0.00124999999999998518").Equal(got0))
	assert.True(t, got1.IsZero())
	assert.True(t, pool.ProtocolFees0.IsZero())
}

func TestSwapWithoutLiquidity(t *testing.T) {
	pool := newTestPool(t)
	limit, err := tickmath.TickToSqrtPrice(-100)
	require.NoError(t, err)

	amount0, amount1, err := pool.Swap(true, decimal.NewFromInt(5), limit)
	require.NoError(t, err)

	assert.True(t, amount0.IsZero())
	assert.True(t, amount1.IsZero())
	assert.True(t, limit.Equal(pool.SqrtPrice))
}

func TestSwapStopsAtTickRangeEnd(t *testing.T) {
	t.Run("walking down from the lowest word", func(t *testing.T) {
		start, err := tickmath.TickToSqrtPrice(-887270)
		require.NoError(t, err)
		pool, err := NewPool("GALA", "GUSDC", 500, start)
		require.NoError(t, err)
		require.Equal(t, int32(-887270), pool.TickCurrent)

		amount0, amount1, err := pool.Swap(true, decimal.NewFromInt(5), tickmath.MinSqrtPrice)
		require.NoError(t, err)

		// The next word floors below the minimum tick, so the walk ends
		// before taking another step.
		assert.True(t, amount0.IsZero())
		assert.True(t, amount1.IsZero())
		assert.True(t, start.Equal(pool.SqrtPrice), "price %s", pool.SqrtPrice)
		assert.Equal(t, int32(-887270), pool.TickCurrent)
		assert.GreaterOrEqual(t, pool.TickCurrent, tickmath.MinTick)
	})

	t.Run("walking up from the highest word", func(t *testing.T) {
		start, err := tickmath.TickToSqrtPrice(887270)
		require.NoError(t, err)
		pool, err := NewPool("GALA", "GUSDC", 500, start)
		require.NoError(t, err)

		amount0, amount1, err := pool.Swap(false, decimal.NewFromInt(5), tickmath.MaxSqrtPrice)
		require.NoError(t, err)

		assert.True(t, amount0.IsZero())
		assert.True(t, amount1.IsZero())
		assert.True(t, start.Equal(pool.SqrtPrice), "price %s", pool.SqrtPrice)
		assert.Equal(t, int32(887270), pool.TickCurrent)
		assert.LessOrEqual(t, pool.TickCurrent, tickmath.MaxTick)
	})
}

func TestSwapRoundTripConservation(t *testing.T) {
	pool := newSwapPool(t)

	in0, out1, err := pool.Swap(true, decimal.NewFromInt(5), tickmath.MinSqrtPrice)
	require.NoError(t, err)
	out0, in1, err := pool.Swap(false, out1.Neg(), tickmath.MaxSqrtPrice)
	require.NoError(t, err)

	// Fees make the round trip strictly lossy for the trader.
	assert.True(t, out0.Neg().LessThan(in0), "got back %s for %s", out0.Neg(), in0)
	assert.True(t, out1.Neg().Equal(in1), "second leg input %s vs %s", in1, out1.Neg())
}
