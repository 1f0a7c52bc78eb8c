package clmm

import "fmt"

// Snapshot restore helpers. These install whole records as-is and are meant
// for rebuilding a pool from a diff; normal state transitions go through
// Mint, Burn, Collect and Swap.

// PutTick installs a tick snapshot and keeps the bitmap in sync with its
// Initialised flag. A snapshot with Initialised false removes the tick.
func (p *Pool) PutTick(t TickState) error {
	if t.Tick%p.TickSpacing != 0 {
		return fmt.Errorf("%w: tick %d not aligned to spacing %d", ErrInvalidArgument, t.Tick, p.TickSpacing)
	}
	if p.bitmap.Initialised(t.Tick, p.TickSpacing) != t.Initialised {
		_ = p.bitmap.FlipTick(t.Tick, p.TickSpacing)
	}
	if t.Initialised {
		p.ticks[t.Tick] = t
	} else {
		delete(p.ticks, t.Tick)
	}
	return nil
}

// RemoveTick drops a tick and clears its bitmap flag.
func (p *Pool) RemoveTick(tick int32) {
	if p.bitmap.Initialised(tick, p.TickSpacing) {
		_ = p.bitmap.FlipTick(tick, p.TickSpacing)
	}
	delete(p.ticks, tick)
}

// PutPosition installs a position snapshot.
func (p *Pool) PutPosition(pos PositionState) {
	p.positions[pos.ID()] = pos
}

// RemovePosition drops a position.
func (p *Pool) RemovePosition(id PositionID) {
	delete(p.positions, id)
}
