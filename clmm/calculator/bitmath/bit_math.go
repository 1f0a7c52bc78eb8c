// Package bitmath provides bit scanning over the 256-bit words used by the
// tick bitmap.
package bitmath

import (
	"math/bits"

	"github.com/holiman/uint256"
)

// MostSignificantBit returns the index of the highest set bit of word, where
// bit 0 is the least significant bit.
//
// For a zero word it returns 0. That is a documented quirk of the original
// routine, not a "no result" signal; callers mask the word first and only
// consult the scan when the masked word is non-zero.
func MostSignificantBit(word *uint256.Int) uint {
	if word.IsZero() {
		return 0
	}
	return uint(word.BitLen() - 1)
}

// LeastSignificantBit returns the index of the lowest set bit of word.
//
// For a zero word it returns 255, the same documented quirk as
// MostSignificantBit.
func LeastSignificantBit(word *uint256.Int) uint {
	if word.IsZero() {
		return 255
	}
	for i, limb := range word {
		if limb != 0 {
			return uint(i*64 + bits.TrailingZeros64(limb))
		}
	}
	// Unreachable: a non-zero word has a non-zero limb.
	return 255
}
