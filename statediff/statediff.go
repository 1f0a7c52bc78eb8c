// Package statediff computes the changes between two snapshots of a pool
// and applies them back. The diff lists whole changed records rather than
// field-level patches, which keeps applying it trivial: upsert everything
// listed, drop everything removed.
package statediff

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/galaswap/clmm-engine-go/clmm"
)

// CoreState is the scalar half of a pool snapshot.
type CoreState struct {
	SqrtPrice        decimal.Decimal `json:"sqrtPrice"`
	TickCurrent      int32           `json:"tickCurrent"`
	Liquidity        decimal.Decimal `json:"liquidity"`
	FeeGrowthGlobal0 decimal.Decimal `json:"feeGrowthGlobal0"`
	FeeGrowthGlobal1 decimal.Decimal `json:"feeGrowthGlobal1"`
	ProtocolFeeRate  decimal.Decimal `json:"protocolFeeRate"`
	ProtocolFees0    decimal.Decimal `json:"protocolFees0"`
	ProtocolFees1    decimal.Decimal `json:"protocolFees1"`
}

// PoolDiff describes how a pool changed between two snapshots.
type PoolDiff struct {
	// Core holds the new scalar state when any of it changed, nil
	// otherwise.
	Core *CoreState `json:"core,omitempty"`

	Ticks            []clmm.TickState     `json:"ticks,omitempty"`
	RemovedTicks     []int32              `json:"removedTicks,omitempty"`
	Positions        []clmm.PositionState `json:"positions,omitempty"`
	RemovedPositions []clmm.PositionID    `json:"removedPositions,omitempty"`
}

// IsEmpty reports whether the diff contains no changes.
func (d PoolDiff) IsEmpty() bool {
	return d.Core == nil &&
		len(d.Ticks) == 0 && len(d.RemovedTicks) == 0 &&
		len(d.Positions) == 0 && len(d.RemovedPositions) == 0
}

func coreOf(p *clmm.Pool) CoreState {
	return CoreState{
		SqrtPrice:        p.SqrtPrice,
		TickCurrent:      p.TickCurrent,
		Liquidity:        p.Liquidity,
		FeeGrowthGlobal0: p.FeeGrowthGlobal0,
		FeeGrowthGlobal1: p.FeeGrowthGlobal1,
		ProtocolFeeRate:  p.ProtocolFeeRate,
		ProtocolFees0:    p.ProtocolFees0,
		ProtocolFees1:    p.ProtocolFees1,
	}
}

func coreChanged(old, new CoreState) bool {
	return !old.SqrtPrice.Equal(new.SqrtPrice) ||
		old.TickCurrent != new.TickCurrent ||
		!old.Liquidity.Equal(new.Liquidity) ||
		!old.FeeGrowthGlobal0.Equal(new.FeeGrowthGlobal0) ||
		!old.FeeGrowthGlobal1.Equal(new.FeeGrowthGlobal1) ||
		!old.ProtocolFeeRate.Equal(new.ProtocolFeeRate) ||
		!old.ProtocolFees0.Equal(new.ProtocolFees0) ||
		!old.ProtocolFees1.Equal(new.ProtocolFees1)
}

func tickChanged(old, new clmm.TickState) bool {
	return !old.LiquidityGross.Equal(new.LiquidityGross) ||
		!old.LiquidityNet.Equal(new.LiquidityNet) ||
		!old.FeeGrowthOutside0.Equal(new.FeeGrowthOutside0) ||
		!old.FeeGrowthOutside1.Equal(new.FeeGrowthOutside1) ||
		old.Initialised != new.Initialised
}

func positionChanged(old, new clmm.PositionState) bool {
	return !old.Liquidity.Equal(new.Liquidity) ||
		!old.FeeGrowthInsideLast0.Equal(new.FeeGrowthInsideLast0) ||
		!old.FeeGrowthInsideLast1.Equal(new.FeeGrowthInsideLast1) ||
		!old.TokensOwed0.Equal(new.TokensOwed0) ||
		!old.TokensOwed1.Equal(new.TokensOwed1)
}

// Diff returns the changes that turn the old snapshot into the new one.
func Diff(old, new *clmm.Pool) PoolDiff {
	var diff PoolDiff
	if newCore := coreOf(new); coreChanged(coreOf(old), newCore) {
		diff.Core = &newCore
	}

	oldTicks := map[int32]clmm.TickState{}
	for _, tick := range old.Ticks() {
		oldTicks[tick.Tick] = tick
	}
	for _, tick := range new.Ticks() {
		before, exists := oldTicks[tick.Tick]
		if !exists || tickChanged(before, tick) {
			diff.Ticks = append(diff.Ticks, tick)
		}
		delete(oldTicks, tick.Tick)
	}
	for index := range oldTicks {
		diff.RemovedTicks = append(diff.RemovedTicks, index)
	}
	sort.Slice(diff.RemovedTicks, func(i, j int) bool { return diff.RemovedTicks[i] < diff.RemovedTicks[j] })

	oldPositions := map[clmm.PositionID]clmm.PositionState{}
	for _, pos := range old.Positions() {
		oldPositions[pos.ID()] = pos
	}
	for _, pos := range new.Positions() {
		before, exists := oldPositions[pos.ID()]
		if !exists || positionChanged(before, pos) {
			diff.Positions = append(diff.Positions, pos)
		}
		delete(oldPositions, pos.ID())
	}
	for id := range oldPositions {
		diff.RemovedPositions = append(diff.RemovedPositions, id)
	}
	sort.Slice(diff.RemovedPositions, func(i, j int) bool {
		a, b := diff.RemovedPositions[i], diff.RemovedPositions[j]
		if a.Owner != b.Owner {
			return a.Owner < b.Owner
		}
		if a.TickLower != b.TickLower {
			return a.TickLower < b.TickLower
		}
		return a.TickUpper < b.TickUpper
	})

	return diff
}

// Apply returns a new pool built from the previous snapshot with the diff
// applied. The previous pool is not modified.
func Apply(prev *clmm.Pool, diff PoolDiff) (*clmm.Pool, error) {
	next := prev.Clone()
	if diff.Core != nil {
		next.SqrtPrice = diff.Core.SqrtPrice
		next.TickCurrent = diff.Core.TickCurrent
		next.Liquidity = diff.Core.Liquidity
		next.FeeGrowthGlobal0 = diff.Core.FeeGrowthGlobal0
		next.FeeGrowthGlobal1 = diff.Core.FeeGrowthGlobal1
		next.ProtocolFeeRate = diff.Core.ProtocolFeeRate
		next.ProtocolFees0 = diff.Core.ProtocolFees0
		next.ProtocolFees1 = diff.Core.ProtocolFees1
	}
	for _, index := range diff.RemovedTicks {
		next.RemoveTick(index)
	}
	for _, tick := range diff.Ticks {
		if err := next.PutTick(tick); err != nil {
			return nil, err
		}
	}
	for _, id := range diff.RemovedPositions {
		next.RemovePosition(id)
	}
	for _, pos := range diff.Positions {
		next.PutPosition(pos)
	}
	return next, nil
}
