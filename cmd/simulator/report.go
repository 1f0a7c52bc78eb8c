package main

import (
	"encoding/json"
	"io"

	"github.com/galaswap/clmm-engine-go/clmm/calculator/fixedpoint"
	"github.com/galaswap/clmm-engine-go/registry"
)

type tickReport struct {
	Tick           int32  `json:"tick"`
	LiquidityGross string `json:"liquidityGross"`
	LiquidityNet   string `json:"liquidityNet"`
}

type positionReport struct {
	Owner       string `json:"owner"`
	TickLower   int32  `json:"tickLower"`
	TickUpper   int32  `json:"tickUpper"`
	Liquidity   string `json:"liquidity"`
	TokensOwed0 string `json:"tokensOwed0"`
	TokensOwed1 string `json:"tokensOwed1"`
}

type poolReport struct {
	Pool             string           `json:"pool"`
	SqrtPrice        string           `json:"sqrtPrice"`
	Tick             int32            `json:"tick"`
	Liquidity        string           `json:"liquidity"`
	FeeGrowthGlobal0 string           `json:"feeGrowthGlobal0"`
	FeeGrowthGlobal1 string           `json:"feeGrowthGlobal1"`
	ProtocolFees0    string           `json:"protocolFees0"`
	ProtocolFees1    string           `json:"protocolFees1"`
	Ticks            []tickReport     `json:"ticks,omitempty"`
	Positions        []positionReport `json:"positions,omitempty"`
}

// WriteReport dumps the final state of every pool as indented JSON. Token
// amounts are truncated to 18 decimal places at this boundary; internal
// state keeps its full precision.
func WriteReport(w io.Writer, reg *registry.Registry) error {
	reports := make([]poolReport, 0)
	for _, pool := range reg.All() {
		report := poolReport{
			Pool:             pool.Key().String(),
			SqrtPrice:        pool.SqrtPrice.String(),
			Tick:             pool.TickCurrent,
			Liquidity:        pool.Liquidity.String(),
			FeeGrowthGlobal0: pool.FeeGrowthGlobal0.String(),
			FeeGrowthGlobal1: pool.FeeGrowthGlobal1.String(),
			ProtocolFees0:    fixedpoint.Normalize18(pool.ProtocolFees0).String(),
			ProtocolFees1:    fixedpoint.Normalize18(pool.ProtocolFees1).String(),
		}
		for _, tick := range pool.Ticks() {
			report.Ticks = append(report.Ticks, tickReport{
				Tick:           tick.Tick,
				LiquidityGross: tick.LiquidityGross.String(),
				LiquidityNet:   tick.LiquidityNet.String(),
			})
		}
		for _, pos := range pool.Positions() {
			report.Positions = append(report.Positions, positionReport{
				Owner:       pos.Owner,
				TickLower:   pos.TickLower,
				TickUpper:   pos.TickUpper,
				Liquidity:   pos.Liquidity.String(),
				TokensOwed0: fixedpoint.Normalize18(pos.TokensOwed0).String(),
				TokensOwed1: fixedpoint.Normalize18(pos.TokensOwed1).String(),
			})
		}
		reports = append(reports, report)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
