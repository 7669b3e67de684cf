//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package transpositiontable

import (
	. "github.com/corvidchess/corvid/internal/types"
)

// TtEntry is one slot of a cluster. It stores a truncated 16-bit key (the
// full key only needs to disambiguate within a cluster, not across the
// whole table) plus move/value/eval/depth and a bit-packed flags byte.
type TtEntry struct {
	key16 uint16
	move  uint16 // 16-bit move part of a Move, see Move.MoveOf()
	value int16
	eval  int16
	depth uint8
	flags uint8 // genBits(5) | pvBit(1) | bound(2)
}

// TtEntrySize is the size in bytes of one TtEntry.
const TtEntrySize = 10

// ClusterSize is the number of entries sharing one hash bucket. Probing a
// key checks all entries in its cluster for a key16 match before falling
// back to the weakest slot on a miss, which trades a little probe cost for
// far fewer collisions than one-entry-per-bucket.
const ClusterSize = 3

const (
	boundMask  = uint8(0b0000_0011)
	pvBitMask  = uint8(0b0000_0100)
	pvShift    = 2
	genMask    = uint8(0b1111_1000)
	genShift   = 3
	genCycle   = uint8(32) // 5 bits of generation
)

func makeFlags(gen uint8, pv bool, bound Bound) uint8 {
	f := uint8(bound) & boundMask
	if pv {
		f |= pvBitMask
	}
	f |= (gen % genCycle) << genShift
	return f
}

// Key16 returns the truncated key stored in this slot.
func (e *TtEntry) Key16() uint16 {
	return e.key16
}

// Move returns the stored best/refutation move (without its sort value).
func (e *TtEntry) Move() Move {
	return Move(e.move)
}

// Value returns the stored search value, still TT-relative (see
// types.Value.ToTT/FromTT for ply-relative translation).
func (e *TtEntry) Value() Value {
	return Value(e.value)
}

// Eval returns the stored static evaluation of the position.
func (e *TtEntry) Eval() Value {
	return Value(e.eval)
}

// Depth returns the depth this entry was stored at.
func (e *TtEntry) Depth() int {
	return int(e.depth)
}

// Bound returns the bound type (exact / upper / lower / none).
func (e *TtEntry) Bound() Bound {
	return Bound(e.flags & boundMask)
}

// IsPv reports whether this position was searched as part of a PV line at
// any point, even if a later, shallower probe stored a non-PV bound.
func (e *TtEntry) IsPv() bool {
	return e.flags&pvBitMask != 0
}

// Generation returns the raw 5-bit generation counter this entry was last
// written with.
func (e *TtEntry) Generation() uint8 {
	return (e.flags & genMask) >> genShift
}

// isEmpty reports whether this slot has never been written.
func (e *TtEntry) isEmpty() bool {
	return e.depth == 0 && e.bound() == BoundNone
}

func (e *TtEntry) bound() Bound {
	return Bound(e.flags & boundMask)
}

// relativeAge returns how many generations old this entry is relative to
// currentGen, wrapping around the 5-bit generation cycle.
func (e *TtEntry) relativeAge(currentGen uint8) uint8 {
	return (genCycle + currentGen - e.Generation()) % genCycle
}

// replacementScore is the value minimized to find the weakest slot in a
// cluster on a miss: depth - 8*age, so a deep-but-stale entry can still
// outrank a shallow-but-fresh one within a few generations.
func (e *TtEntry) replacementScore(currentGen uint8) int {
	return int(e.depth) - 8*int(e.relativeAge(currentGen))
}

// save overwrites this slot, preserving the PV flag if it was already set
// and refusing to demote an exact bound to a shallower non-exact one for
// the same key.
func (e *TtEntry) save(key16 uint16, move Move, value Value, eval Value, depth int, bound Bound, pv bool, gen uint8) {
	sameKey := e.key16 == key16

	if move != MoveNone || !sameKey {
		e.move = uint16(move.MoveOf())
	}

	if sameKey && e.bound() == BoundExact && bound != BoundExact && depth < int(e.depth) {
		// keep the stronger, deeper exact entry; still refresh its generation
		// and PV flag so it isn't mistaken for stale.
		e.flags = makeFlags(gen, pv || e.IsPv(), e.bound())
		return
	}

	e.key16 = key16
	e.value = int16(value)
	e.eval = int16(eval)
	e.depth = uint8(depth)
	e.flags = makeFlags(gen, pv || (sameKey && e.IsPv()), bound)
}
