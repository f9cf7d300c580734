// Package bitpos names the single-bit masks of a 32-bit register.
package bitpos

import "math/bits"

// Pos is a one-bit mask. Bit5 is 1<<5, not the number 5.
type Pos uint32

const (
	Bit0 Pos = 1 << iota
	Bit1
	Bit2
	Bit3
	Bit4
	Bit5
	Bit6
	Bit7
	Bit8
	Bit9
	Bit10
	Bit11
	Bit12
	Bit13
	Bit14
	Bit15
	Bit16
	Bit17
	Bit18
	Bit19
	Bit20
	Bit21
	Bit22
	Bit23
	Bit24
	Bit25
	Bit26
	Bit27
	Bit28
	Bit29
	Bit30
	Bit31
)

// Index returns the bit number of p. Index of a zero or multi-bit mask is
// the position of its lowest set bit, or 32 for zero.
func (p Pos) Index() int { return bits.TrailingZeros32(uint32(p)) }

// Single reports whether p has exactly one bit set.
func (p Pos) Single() bool { return bits.OnesCount32(uint32(p)) == 1 }
