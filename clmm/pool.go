// Package clmm implements a concentrated-liquidity pool: tick-indexed
// liquidity, positions over tick ranges, fee accounting and swaps.
//
// All mutating operations are atomic. Preconditions are validated and
// intermediate results computed on value copies before any field of the pool
// is written, so a returned error always leaves the pool exactly as it was.
package clmm

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/galaswap/clmm-engine-go/clmm/calculator/liquiditymath"
	"github.com/galaswap/clmm-engine-go/clmm/calculator/sqrtpricemath"
	"github.com/galaswap/clmm-engine-go/clmm/calculator/tickbitmap"
	"github.com/galaswap/clmm-engine-go/clmm/calculator/tickmath"
)

// Pool is the full state of one concentrated-liquidity pool. Exported fields
// are scalar state; ticks, positions and the bitmap are only reachable
// through methods so that every write path keeps them consistent.
type Pool struct {
	Token0              string
	Token1              string
	Fee                 uint32
	TickSpacing         int32
	SqrtPrice           decimal.Decimal
	TickCurrent         int32
	Liquidity           decimal.Decimal
	FeeGrowthGlobal0    decimal.Decimal
	FeeGrowthGlobal1    decimal.Decimal
	ProtocolFeeRate     decimal.Decimal
	ProtocolFees0       decimal.Decimal
	ProtocolFees1       decimal.Decimal
	MaxLiquidityPerTick decimal.Decimal

	bitmap    tickbitmap.Bitmap
	ticks     map[int32]TickState
	positions map[PositionID]PositionState
}

// NewPool creates an empty pool at the given starting sqrt price. token0
// must sort lexicographically before token1 and the fee must be a known
// tier.
func NewPool(token0, token1 string, fee uint32, sqrtPrice decimal.Decimal) (*Pool, error) {
	if token0 == "" || token1 == "" {
		return nil, fmt.Errorf("%w: token symbols must not be empty", ErrInvalidArgument)
	}
	if token0 >= token1 {
		return nil, fmt.Errorf("%w: token0 %q must sort before token1 %q", ErrInvalidArgument, token0, token1)
	}
	spacing, err := tickmath.SpacingForFee(fee)
	if err != nil {
		return nil, fmt.Errorf("%w: fee %d", ErrInvalidArgument, fee)
	}
	if sqrtPrice.LessThan(tickmath.MinSqrtPrice) || sqrtPrice.GreaterThan(tickmath.MaxSqrtPrice) {
		return nil, fmt.Errorf("%w: sqrt price %s outside the tick range", ErrInvalidArgument, sqrtPrice)
	}
	tick, err := tickmath.SqrtPriceToTick(sqrtPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, err)
	}
	maxLiquidity, err := tickmath.TickSpacingToMaxLiquidityPerTick(spacing)
	if err != nil {
		return nil, err
	}
	return &Pool{
		Token0:              token0,
		Token1:              token1,
		Fee:                 fee,
		TickSpacing:         spacing,
		SqrtPrice:           sqrtPrice,
		TickCurrent:         tick,
		MaxLiquidityPerTick: maxLiquidity,
		bitmap:              tickbitmap.Bitmap{},
		ticks:               map[int32]TickState{},
		positions:           map[PositionID]PositionState{},
	}, nil
}

// Key returns the pool's identity.
func (p *Pool) Key() PoolKey {
	return PoolKey{Token0: p.Token0, Token1: p.Token1, Fee: p.Fee}
}

// Tick returns a copy of the tick's state.
func (p *Pool) Tick(tick int32) (TickState, bool) {
	t, ok := p.ticks[tick]
	return t, ok
}

// Ticks returns copies of all initialised ticks ordered by tick index.
func (p *Pool) Ticks() []TickState {
	out := make([]TickState, 0, len(p.ticks))
	for _, t := range p.ticks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out
}

// Position returns a copy of the position's state.
func (p *Pool) Position(id PositionID) (PositionState, bool) {
	pos, ok := p.positions[id]
	return pos, ok
}

// Positions returns copies of all positions ordered by owner and range.
func (p *Pool) Positions() []PositionState {
	out := make([]PositionState, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Owner != b.Owner {
			return a.Owner < b.Owner
		}
		if a.TickLower != b.TickLower {
			return a.TickLower < b.TickLower
		}
		return a.TickUpper < b.TickUpper
	})
	return out
}

// Clone returns a deep copy of the pool.
func (p *Pool) Clone() *Pool {
	c := *p
	c.bitmap = make(tickbitmap.Bitmap, len(p.bitmap))
	for word, bits := range p.bitmap {
		c.bitmap[word] = bits.Clone()
	}
	c.ticks = make(map[int32]TickState, len(p.ticks))
	for tick, state := range p.ticks {
		c.ticks[tick] = state
	}
	c.positions = make(map[PositionID]PositionState, len(p.positions))
	for id, pos := range p.positions {
		c.positions[id] = pos
	}
	return &c
}

// Mint adds liquidity to the owner's position over [tickLower, tickUpper]
// and returns the token amounts the owner must pay in.
func (p *Pool) Mint(owner string, tickLower, tickUpper int32, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Decimal{}, decimal.Decimal{}, fmt.Errorf("%w: mint amount must be positive", ErrInvalidArgument)
	}
	return p.modifyPosition(owner, tickLower, tickUpper, amount)
}

// Burn removes liquidity from the owner's position and returns the token
// amounts released back to the owner. Fees accrued up to the burn are
// settled into the position's owed balances and stay collectable.
func (p *Pool) Burn(owner string, tickLower, tickUpper int32, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Decimal{}, decimal.Decimal{}, fmt.Errorf("%w: burn amount must be positive", ErrInvalidArgument)
	}
	id := PositionID{Owner: owner, TickLower: tickLower, TickUpper: tickUpper}
	if _, ok := p.positions[id]; !ok {
		return decimal.Decimal{}, decimal.Decimal{}, fmt.Errorf("%w: %s", ErrPositionNotFound, id)
	}
	amount0, amount1, err := p.modifyPosition(owner, tickLower, tickUpper, amount.Neg())
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return amount0.Abs(), amount1.Abs(), nil
}

// Collect withdraws up to the requested amounts from the position's owed
// balances. The position is poked first so fees accrued since the last
// touch are included.
func (p *Pool) Collect(owner string, tickLower, tickUpper int32, requested0, requested1 decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if requested0.Sign() < 0 || requested1.Sign() < 0 {
		return decimal.Decimal{}, decimal.Decimal{}, fmt.Errorf("%w: requested amounts must not be negative", ErrInvalidArgument)
	}
	id := PositionID{Owner: owner, TickLower: tickLower, TickUpper: tickUpper}
	pos, ok := p.positions[id]
	if !ok {
		return decimal.Decimal{}, decimal.Decimal{}, fmt.Errorf("%w: %s", ErrPositionNotFound, id)
	}
	if pos.Liquidity.Sign() > 0 {
		if _, _, err := p.modifyPosition(owner, tickLower, tickUpper, decimal.Zero); err != nil {
			return decimal.Decimal{}, decimal.Decimal{}, err
		}
		pos = p.positions[id]
	}
	if requested0.GreaterThan(pos.TokensOwed0) || requested1.GreaterThan(pos.TokensOwed1) {
		return decimal.Decimal{}, decimal.Decimal{}, fmt.Errorf("%w: owed %s/%s, requested %s/%s",
			ErrInsufficientAccrued, pos.TokensOwed0, pos.TokensOwed1, requested0, requested1)
	}
	pos.TokensOwed0 = pos.TokensOwed0.Sub(requested0)
	pos.TokensOwed1 = pos.TokensOwed1.Sub(requested1)
	p.positions[id] = pos
	return requested0, requested1, nil
}

// ConfigureProtocolFee sets the fraction of swap fees diverted to the
// protocol. The rate is a fraction in [0, 1].
func (p *Pool) ConfigureProtocolFee(rate decimal.Decimal) error {
	if rate.Sign() < 0 || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: protocol fee rate %s must be within [0, 1]", ErrInvalidArgument, rate)
	}
	p.ProtocolFeeRate = rate
	return nil
}

// CollectProtocolFees withdraws the accumulated protocol fees and resets
// them to zero.
func (p *Pool) CollectProtocolFees() (decimal.Decimal, decimal.Decimal) {
	amount0 := p.ProtocolFees0
	amount1 := p.ProtocolFees1
	p.ProtocolFees0 = decimal.Zero
	p.ProtocolFees1 = decimal.Zero
	return amount0, amount1
}

// modifyPosition is the single write path for position liquidity. It stages
// every change on copies and commits only after all checks pass. Returned
// amounts are signed from the pool's point of view: positive flows into the
// pool, negative flows out.
func (p *Pool) modifyPosition(owner string, tickLower, tickUpper int32, liquidityDelta decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	var zero decimal.Decimal
	if err := tickmath.CheckTicks(tickLower, tickUpper); err != nil {
		return zero, zero, err
	}
	if tickLower%p.TickSpacing != 0 || tickUpper%p.TickSpacing != 0 {
		return zero, zero, fmt.Errorf("%w: ticks must be multiples of spacing %d", ErrInvalidArgument, p.TickSpacing)
	}

	id := PositionID{Owner: owner, TickLower: tickLower, TickUpper: tickUpper}
	pos, ok := p.positions[id]
	if !ok {
		pos = PositionState{Owner: owner, TickLower: tickLower, TickUpper: tickUpper}
	}

	lower, ok := p.ticks[tickLower]
	if !ok {
		lower = TickState{Tick: tickLower}
	}
	upper, ok := p.ticks[tickUpper]
	if !ok {
		upper = TickState{Tick: tickUpper}
	}

	var flippedLower, flippedUpper bool
	if !liquidityDelta.IsZero() {
		var err error
		flippedLower, err = lower.Update(p.TickCurrent, liquidityDelta, p.FeeGrowthGlobal0, p.FeeGrowthGlobal1, p.MaxLiquidityPerTick, false)
		if err != nil {
			return zero, zero, err
		}
		flippedUpper, err = upper.Update(p.TickCurrent, liquidityDelta, p.FeeGrowthGlobal0, p.FeeGrowthGlobal1, p.MaxLiquidityPerTick, true)
		if err != nil {
			return zero, zero, err
		}
	}

	inside0, inside1 := FeeGrowthInside(lower, upper, p.TickCurrent, p.FeeGrowthGlobal0, p.FeeGrowthGlobal1)
	if err := pos.Update(liquidityDelta, inside0, inside1); err != nil {
		return zero, zero, err
	}

	var amount0, amount1 decimal.Decimal
	poolLiquidity := p.Liquidity
	if !liquidityDelta.IsZero() {
		sqrtLower, err := tickmath.TickToSqrtPrice(tickLower)
		if err != nil {
			return zero, zero, err
		}
		sqrtUpper, err := tickmath.TickToSqrtPrice(tickUpper)
		if err != nil {
			return zero, zero, err
		}
		switch {
		case p.TickCurrent < tickLower:
			// Price below the range: the position is entirely token0.
			amount0 = sqrtpricemath.GetAmount0Delta(sqrtLower, sqrtUpper, liquidityDelta)
		case p.TickCurrent < tickUpper:
			amount0 = sqrtpricemath.GetAmount0Delta(p.SqrtPrice, sqrtUpper, liquidityDelta)
			amount1 = sqrtpricemath.GetAmount1Delta(sqrtLower, p.SqrtPrice, liquidityDelta)
			poolLiquidity, err = liquiditymath.AddDelta(p.Liquidity, liquidityDelta)
			if err != nil {
				return zero, zero, err
			}
		default:
			// Price above the range: the position is entirely token1.
			amount1 = sqrtpricemath.GetAmount1Delta(sqrtLower, sqrtUpper, liquidityDelta)
		}
	}

	// All checks passed; commit.
	if !liquidityDelta.IsZero() {
		if flippedLower {
			_ = p.bitmap.FlipTick(tickLower, p.TickSpacing)
		}
		if flippedUpper {
			_ = p.bitmap.FlipTick(tickUpper, p.TickSpacing)
		}
		removing := liquidityDelta.Sign() < 0
		if flippedLower && removing {
			delete(p.ticks, tickLower)
		} else {
			p.ticks[tickLower] = lower
		}
		if flippedUpper && removing {
			delete(p.ticks, tickUpper)
		} else {
			p.ticks[tickUpper] = upper
		}
		p.Liquidity = poolLiquidity
	}
	p.positions[id] = pos
	return amount0, amount1, nil
}
