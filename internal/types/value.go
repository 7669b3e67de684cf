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

package types

import "fmt"

// Value is a signed centipawn score from the perspective of the side to move.
// The upper part of the range is reserved for mate and tablebase encodings so
// that ordinary evaluations never collide with a forced-mate distance.
type Value int32

// Reserved value ranges. MaxPly bounds every search stack and ply-indexed
// array; Mate/Infinite/None sit above any plausible centipawn evaluation so
// a single integer comparison distinguishes "mate in N" from "a slightly
// better position".
const (
	MaxPly int = 246

	ValueZero  Value = 0
	Infinite   Value = 32001
	ValueNone  Value = 32002
	Mate       Value = 32000
	TbValue          = Mate - Value(MaxPly)
	TbWinInMax       = TbValue - Value(MaxPly)

	// ValueNA is the sentinel a Move encodes when no search value has been
	// attached to it yet. It doubles as the zero-offset for packing a Value
	// into the unused 16 bits of a Move.
	ValueNA Value = -ValueNone
)

// MateIn returns the score for delivering mate in p plies.
func MateIn(p int) Value {
	return Mate - Value(p)
}

// MatedIn returns the score for being mated in p plies.
func MatedIn(p int) Value {
	return -Mate + Value(p)
}

// IsWin reports whether v is a proven or tablebase win.
func (v Value) IsWin() bool {
	return v >= TbWinInMax
}

// IsLoss reports whether v is a proven or tablebase loss.
func (v Value) IsLoss() bool {
	return v <= -TbWinInMax
}

// IsDecisive reports whether v is a win or a loss.
func (v Value) IsDecisive() bool {
	return v.IsWin() || v.IsLoss()
}

// IsValid reports whether v carries a real score (as opposed to ValueNone).
func (v Value) IsValid() bool {
	return v != ValueNone
}

// IsCheckMateValue reports whether v encodes a forced mate for either side.
func (v Value) IsCheckMateValue() bool {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	return abs > Mate-Value(MaxPly) && abs <= Mate
}

// ToTT converts a search value at the given ply into the ply-independent
// form stored in the transposition table: mate scores are shifted so two
// entries reached via different paths to the same position compare equal.
func (v Value) ToTT(ply int) Value {
	if !v.IsValid() {
		return v
	}
	switch {
	case v.IsWin():
		return v + Value(ply)
	case v.IsLoss():
		return v - Value(ply)
	default:
		return v
	}
}

// FromTT converts a transposition-table value back into a search value
// relative to ply. When the stored mate lies beyond the 50-move counter's
// horizon it is clamped so it is never reported as provably forced.
func (v Value) FromTT(ply int, rule50 int) Value {
	if !v.IsValid() {
		return v
	}
	switch {
	case v.IsWin():
		if v >= TbValue && Mate-v > Value(MaxPly-rule50) {
			return TbWinInMax - 1
		}
		return v - Value(ply)
	case v.IsLoss():
		if v <= -TbValue && Mate+v > Value(MaxPly-rule50) {
			return -TbWinInMax + 1
		}
		return v + Value(ply)
	default:
		return v
	}
}

// String formats a value the way a UCI "info score" field would: a mate
// distance when decisive, otherwise a plain centipawn number.
func (v Value) String() string {
	switch {
	case v == ValueNone:
		return "N/A"
	case v.IsCheckMateValue():
		plies := Mate - v
		if v < 0 {
			plies = Mate + v
		}
		moves := (int(plies) + 1) / 2
		if v < 0 {
			moves = -moves
		}
		return fmt.Sprintf("mate %d", moves)
	default:
		return fmt.Sprintf("cp %d", v)
	}
}
