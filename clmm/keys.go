package clmm

import "fmt"

// PoolKey identifies a pool by its ordered token pair and fee tier. Token0
// must sort lexicographically before Token1.
type PoolKey struct {
	Token0 string
	Token1 string
	Fee    uint32
}

func (k PoolKey) String() string {
	return fmt.Sprintf("%s/%s@%d", k.Token0, k.Token1, k.Fee)
}

// PositionID identifies a position within a pool. The same owner can hold
// independent positions over different tick ranges.
type PositionID struct {
	Owner     string
	TickLower int32
	TickUpper int32
}

func (id PositionID) String() string {
	return fmt.Sprintf("%s[%d,%d]", id.Owner, id.TickLower, id.TickUpper)
}
