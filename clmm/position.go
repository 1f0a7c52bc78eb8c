package clmm

import (
	"github.com/shopspring/decimal"

	"github.com/galaswap/clmm-engine-go/clmm/calculator/liquiditymath"
)

// PositionState is a single owner's liquidity over one tick range, together
// with the fees it has earned but not yet collected.
type PositionState struct {
	Owner                string
	TickLower            int32
	TickUpper            int32
	Liquidity            decimal.Decimal
	FeeGrowthInsideLast0 decimal.Decimal
	FeeGrowthInsideLast1 decimal.Decimal
	TokensOwed0          decimal.Decimal
	TokensOwed1          decimal.Decimal
}

// ID returns the position's identity within its pool.
func (p *PositionState) ID() PositionID {
	return PositionID{Owner: p.Owner, TickLower: p.TickLower, TickUpper: p.TickUpper}
}

// Update settles fees accrued since the last touch against the liquidity
// held over that period, then applies the liquidity delta. The inside
// checkpoints are always replaced; owed amounts only ever grow.
func (p *PositionState) Update(liquidityDelta, feeGrowthInside0, feeGrowthInside1 decimal.Decimal) error {
	next, err := liquiditymath.AddDelta(p.Liquidity, liquidityDelta)
	if err != nil {
		return err
	}

	owed0 := feeGrowthInside0.Sub(p.FeeGrowthInsideLast0).Mul(p.Liquidity)
	owed1 := feeGrowthInside1.Sub(p.FeeGrowthInsideLast1).Mul(p.Liquidity)

	p.Liquidity = next
	p.FeeGrowthInsideLast0 = feeGrowthInside0
	p.FeeGrowthInsideLast1 = feeGrowthInside1
	if owed0.Sign() > 0 {
		p.TokensOwed0 = p.TokensOwed0.Add(owed0)
	}
	if owed1.Sign() > 0 {
		p.TokensOwed1 = p.TokensOwed1.Add(owed1)
	}
	return nil
}
