// Package tickbitmap tracks which spacing-aligned ticks carry liquidity.
//
// Ticks are compressed by the pool's tick spacing and packed 256 per word;
// word i holds compressed ticks [i*256, i*256+255]. Only non-zero words are
// stored, so an empty bitmap costs nothing regardless of tick range.
package tickbitmap

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/galaswap/clmm-engine-go/clmm/calculator/bitmath"
)

// ErrTickNotSpaced is returned when a tick is not a multiple of the spacing.
var ErrTickNotSpaced = errors.New("tick not aligned to tick spacing")

// Bitmap maps word index to the 256-bit word of initialised flags.
type Bitmap map[int32]*uint256.Int

var one = uint256.NewInt(1)

// position splits a compressed tick into its word index and bit position.
// The shift is arithmetic, so negative compressed ticks floor correctly.
func position(compressed int32) (word int32, bit uint) {
	word = compressed >> 8
	bit = uint(compressed - word*256)
	return word, bit
}

// compress floors tick/spacing toward negative infinity.
func compress(tick, spacing int32) int32 {
	c := tick / spacing
	if tick < 0 && tick%spacing != 0 {
		c--
	}
	return c
}

// FlipTick toggles the initialised flag of tick. Words that become zero are
// removed, so flipping the same tick twice restores the bitmap exactly.
func (b Bitmap) FlipTick(tick, spacing int32) error {
	if tick%spacing != 0 {
		return fmt.Errorf("%w: tick %d, spacing %d", ErrTickNotSpaced, tick, spacing)
	}
	word, bit := position(tick / spacing)
	mask := new(uint256.Int).Lsh(one, bit)
	current, ok := b[word]
	if !ok {
		current = new(uint256.Int)
	}
	next := new(uint256.Int).Xor(current, mask)
	if next.IsZero() {
		delete(b, word)
		return nil
	}
	b[word] = next
	return nil
}

// Initialised reports whether the tick's flag is set. Misaligned ticks are
// never initialised.
func (b Bitmap) Initialised(tick, spacing int32) bool {
	if tick%spacing != 0 {
		return false
	}
	word, bit := position(tick / spacing)
	current, ok := b[word]
	if !ok {
		return false
	}
	mask := new(uint256.Int).Lsh(one, bit)
	return !new(uint256.Int).And(current, mask).IsZero()
}

// NextInitialisedTickWithinSameWord scans one word of the bitmap for the
// nearest initialised tick. With lte it looks at or below tick; otherwise
// strictly above. When the word holds no initialised tick in that direction
// it returns the word's boundary tick and false, which lets the swap loop
// advance a whole word at a time.
func (b Bitmap) NextInitialisedTickWithinSameWord(tick, spacing int32, lte bool) (int32, bool) {
	if lte {
		word, bit := position(compress(tick, spacing))
		// All bits at or below the current position. bit+1 can be 256;
		// the shift wraps to zero and the subtraction yields all ones.
		mask := new(uint256.Int).Lsh(one, bit+1)
		mask.Sub(mask, one)
		if current, ok := b[word]; ok {
			masked := new(uint256.Int).And(current, mask)
			if !masked.IsZero() {
				return (word*256 + int32(bitmath.MostSignificantBit(masked))) * spacing, true
			}
		}
		return word * 256 * spacing, false
	}

	word, bit := position(compress(tick, spacing) + 1)
	// All bits at or above the next position.
	mask := new(uint256.Int).Lsh(one, bit)
	mask.Sub(mask, one)
	mask.Not(mask)
	if current, ok := b[word]; ok {
		masked := new(uint256.Int).And(current, mask)
		if !masked.IsZero() {
			return (word*256 + int32(bitmath.LeastSignificantBit(masked))) * spacing, true
		}
	}
	return (word*256 + 255) * spacing, false
}
