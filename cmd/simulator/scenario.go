package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/galaswap/clmm-engine-go/clmm"
	"github.com/galaswap/clmm-engine-go/clmm/calculator/fixedpoint"
	"github.com/galaswap/clmm-engine-go/registry"
	"github.com/galaswap/clmm-engine-go/statediff"
)

// Scenario is a YAML-described sequence of pool operations.
type Scenario struct {
	Pools      []PoolSpec  `yaml:"pools"`
	Operations []Operation `yaml:"operations"`
}

// PoolSpec creates one pool before the operations run.
type PoolSpec struct {
	Token0          string `yaml:"token0"`
	Token1          string `yaml:"token1"`
	Fee             uint32 `yaml:"fee"`
	SqrtPrice       string `yaml:"sqrtPrice"`
	ProtocolFeeRate string `yaml:"protocolFeeRate,omitempty"`
}

// Operation is one step of a scenario. Op selects which fields apply.
type Operation struct {
	Op     string `yaml:"op"`
	Token0 string `yaml:"token0"`
	Token1 string `yaml:"token1"`
	Fee    uint32 `yaml:"fee"`

	Owner     string `yaml:"owner,omitempty"`
	TickLower int32  `yaml:"tickLower,omitempty"`
	TickUpper int32  `yaml:"tickUpper,omitempty"`
	Amount    string `yaml:"amount,omitempty"`

	Amount0 string `yaml:"amount0,omitempty"`
	Amount1 string `yaml:"amount1,omitempty"`

	ZeroForOne     bool   `yaml:"zeroForOne,omitempty"`
	SqrtPriceLimit string `yaml:"sqrtPriceLimit,omitempty"`
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(s.Pools) == 0 {
		return nil, fmt.Errorf("scenario defines no pools")
	}
	return &s, nil
}

// Run creates the scenario's pools and applies its operations in order.
// Each operation logs the settled amounts and the state it touched.
func (s *Scenario) Run(reg *registry.Registry, logger *zap.Logger) error {
	for _, spec := range s.Pools {
		sqrtPrice, err := decimal.NewFromString(spec.SqrtPrice)
		if err != nil {
			return fmt.Errorf("pool %s/%s: sqrt price: %w", spec.Token0, spec.Token1, err)
		}
		pool, err := reg.CreatePool(spec.Token0, spec.Token1, spec.Fee, sqrtPrice)
		if err != nil {
			return err
		}
		if spec.ProtocolFeeRate != "" {
			rate, err := decimal.NewFromString(spec.ProtocolFeeRate)
			if err != nil {
				return fmt.Errorf("pool %s: protocol fee rate: %w", pool.Key(), err)
			}
			if err := pool.ConfigureProtocolFee(rate); err != nil {
				return err
			}
		}
		logger.Info("pool created",
			zap.String("pool", pool.Key().String()),
			zap.String("sqrt_price", pool.SqrtPrice.String()),
			zap.Int32("tick", pool.TickCurrent),
		)
	}

	for i, op := range s.Operations {
		if err := s.apply(reg, logger, i, op); err != nil {
			return fmt.Errorf("operation %d (%s): %w", i, op.Op, err)
		}
	}
	return nil
}

func (s *Scenario) apply(reg *registry.Registry, logger *zap.Logger, index int, op Operation) error {
	pool, err := reg.Pool(clmm.PoolKey{Token0: op.Token0, Token1: op.Token1, Fee: op.Fee})
	if err != nil {
		return err
	}
	before := pool.Clone()

	var amount0, amount1 decimal.Decimal
	switch op.Op {
	case "mint":
		amount, err := decimal.NewFromString(op.Amount)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		amount0, amount1, err = pool.Mint(op.Owner, op.TickLower, op.TickUpper, amount)
		if err != nil {
			return err
		}
	case "burn":
		amount, err := decimal.NewFromString(op.Amount)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		amount0, amount1, err = pool.Burn(op.Owner, op.TickLower, op.TickUpper, amount)
		if err != nil {
			return err
		}
	case "collect":
		requested0, err := decimal.NewFromString(op.Amount0)
		if err != nil {
			return fmt.Errorf("amount0: %w", err)
		}
		requested1, err := decimal.NewFromString(op.Amount1)
		if err != nil {
			return fmt.Errorf("amount1: %w", err)
		}
		amount0, amount1, err = pool.Collect(op.Owner, op.TickLower, op.TickUpper, requested0, requested1)
		if err != nil {
			return err
		}
	case "swap":
		amount, err := decimal.NewFromString(op.Amount)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		limit, err := decimal.NewFromString(op.SqrtPriceLimit)
		if err != nil {
			return fmt.Errorf("sqrt price limit: %w", err)
		}
		amount0, amount1, err = pool.Swap(op.ZeroForOne, amount, limit)
		if err != nil {
			return err
		}
	case "collectProtocolFees":
		amount0, amount1 = pool.CollectProtocolFees()
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}

	diff := statediff.Diff(before, pool)
	logger.Info("operation applied",
		zap.Int("index", index),
		zap.String("op", op.Op),
		zap.String("pool", pool.Key().String()),
		zap.String("amount0", fixedpoint.Normalize18(amount0).String()),
		zap.String("amount1", fixedpoint.Normalize18(amount1).String()),
		zap.String("sqrt_price", pool.SqrtPrice.String()),
		zap.Int32("tick", pool.TickCurrent),
		zap.Int("ticks_changed", len(diff.Ticks)+len(diff.RemovedTicks)),
		zap.Int("positions_changed", len(diff.Positions)+len(diff.RemovedPositions)),
	)
	return nil
}
