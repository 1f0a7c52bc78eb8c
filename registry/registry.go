// Package registry manages the set of pools keyed by token pair and fee
// tier. There is at most one pool per (token0, token1, fee) triple.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/galaswap/clmm-engine-go/clmm"
)

var (
	// ErrConflict is returned when a pool with the same key already exists.
	ErrConflict = errors.New("conflict")
	// ErrPoolNotFound is returned when no pool exists for the given key.
	ErrPoolNotFound = errors.New("pool not found")
)

// Registry holds live pools. It is not safe for concurrent use; callers
// serialize access the same way they serialize pool mutations.
type Registry struct {
	pools map[clmm.PoolKey]*clmm.Pool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{pools: map[clmm.PoolKey]*clmm.Pool{}}
}

// CreatePool creates and registers a pool for the token pair and fee tier
// at the given starting sqrt price. Token ordering and fee validation are
// delegated to the pool constructor.
func (r *Registry) CreatePool(token0, token1 string, fee uint32, sqrtPrice decimal.Decimal) (*clmm.Pool, error) {
	pool, err := clmm.NewPool(token0, token1, fee, sqrtPrice)
	if err != nil {
		return nil, err
	}
	key := pool.Key()
	if _, exists := r.pools[key]; exists {
		return nil, fmt.Errorf("%w: pool %s already exists", ErrConflict, key)
	}
	r.pools[key] = pool
	return pool, nil
}

// Pool returns the pool for the given key.
func (r *Registry) Pool(key clmm.PoolKey) (*clmm.Pool, error) {
	pool, ok := r.pools[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, key)
	}
	return pool, nil
}

// All returns every registered pool ordered by key.
func (r *Registry) All() []*clmm.Pool {
	out := make([]*clmm.Pool, 0, len(r.pools))
	for _, pool := range r.pools {
		out = append(out, pool)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key(), out[j].Key()
		if a.Token0 != b.Token0 {
			return a.Token0 < b.Token0
		}
		if a.Token1 != b.Token1 {
			return a.Token1 < b.Token1
		}
		return a.Fee < b.Fee
	})
	return out
}
