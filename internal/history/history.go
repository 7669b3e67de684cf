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

// Package history provides data structures and functionality to manage
// history driven move tables (butterfly, capture, pawn-structure,
// continuation, low-ply and correction histories) used by move ordering
// and static evaluation correction.
package history

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	. "github.com/corvidchess/corvid/internal/types"
)

var out = message.NewPrinter(language.German)

// gravity update parameters shared by every table below: h ← h + bonus −
// h·|bonus|/limit, clamped to ±limit. The pull-toward-zero term keeps a
// table from saturating after a long run of one-sided bonuses.
const (
	mainLimit         = 1 << 14
	captureLimit      = 1 << 14
	pawnLimit         = 1 << 14
	continuationLimit = 1 << 15
	lowPlyLimit       = 1 << 13
	corrLimit         = 1 << 12
	lowPlyMaxPly      = 8
	corrTableSize     = 1 << 14
)

func gravityUpdate(h int32, bonus int32, limit int32) int32 {
	bonus = clamp32(bonus, -limit, limit)
	h += bonus - h*abs32(bonus)/limit
	return clamp32(h, -limit, limit)
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// History is a data structure updated during search to provide the move
// generator and the evaluator with information gathered from prior
// searches: move ordering bonuses and static-eval corrections.
type History struct {
	// HistoryCount is the butterfly history, indexed [color][from][to].
	HistoryCount [ColorLength][SqLength][SqLength]int64

	// CounterMoves stores, for the move that was just played, the
	// quiet reply that most often refuted it, indexed [from][to] of
	// the move being replied to.
	CounterMoves [SqLength][SqLength]Move

	// Capture is the capture history, indexed [attacker piece][to
	// square][captured piece type].
	Capture [PieceLength][SqLength][PtLength]int32

	// Pawn is the pawn-structure history, indexed [pawn structure
	// bucket][piece][to square]. It rewards/punishes quiet moves
	// conditioned on the pawn skeleton they were played in.
	Pawn [corrTableSize][PieceLength][SqLength]int32

	// Continuation is a two-ply continuation history: the bonus for
	// playing (piece, to) given the previous move was (prevPiece,
	// prevTo), split by whether the side to move is in check and
	// whether the previous move was a capture.
	Continuation [2][2][PieceLength][SqLength][PieceLength][SqLength]int32

	// LowPly is a small supplementary butterfly table that only
	// applies near the root (ply < lowPlyMaxPly), where move ordering
	// has an outsized effect on the rest of the search tree.
	LowPly [lowPlyMaxPly][SqLength][SqLength]int32

	// PawnCorr corrects the static eval based on the pawn structure
	// alone, indexed [bucket][color].
	PawnCorr [corrTableSize][ColorLength]int32

	// MinorCorr corrects the static eval based on minor piece
	// placement, indexed [bucket][color].
	MinorCorr [corrTableSize][ColorLength]int32

	// NonPawnCorr corrects the static eval based on non-pawn material
	// placement, indexed [bucket][color of the material][color to
	// move], since the same material skeleton can mean different
	// things depending on whose turn it is.
	NonPawnCorr [corrTableSize][ColorLength][ColorLength]int32

	// ContinuationCorr corrects the static eval conditioned on the
	// move that led to the position, indexed [piece][to square].
	ContinuationCorr [PieceLength][SqLength]int32
}

// NewHistory creates a new History instance.
func NewHistory() *History {
	return &History{}
}

// UpdateMain applies a gravity-updated bonus to the butterfly history
// for a quiet move, e.g. on a beta cutoff (positive bonus) or when a
// move was tried and failed to raise alpha (negative bonus).
func (h *History) UpdateMain(c Color, from, to Square, bonus int32) {
	h.HistoryCount[c][from][to] = int64(gravityUpdate(int32(h.HistoryCount[c][from][to]), bonus, mainLimit))
}

// UpdateCapture applies a gravity-updated bonus to the capture history
// for the move of attacker capturing a piece of type captured, landing
// on to.
func (h *History) UpdateCapture(attacker Piece, to Square, captured PieceType, bonus int32) {
	h.Capture[attacker][to][captured] = gravityUpdate(h.Capture[attacker][to][captured], bonus, captureLimit)
}

// UpdatePawn applies a gravity-updated bonus to the pawn-structure
// history for piece moving to to, in the pawn structure identified by
// pawnKey.
func (h *History) UpdatePawn(pawnKey Key, piece Piece, to Square, bonus int32) {
	idx := bucket(pawnKey)
	h.Pawn[idx][piece][to] = gravityUpdate(h.Pawn[idx][piece][to], bonus, pawnLimit)
}

// continuationEntry returns the table slot for the continuation from
// (prevPiece, prevTo) into (piece, to).
func (h *History) continuationEntry(inCheck, prevWasCapture bool, prevPiece Piece, prevTo Square, piece Piece, to Square) *int32 {
	return &h.Continuation[b2i(inCheck)][b2i(prevWasCapture)][prevPiece][prevTo][piece][to]
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// UpdateContinuation applies a gravity-updated bonus to the
// continuation history entry that follows (prevPiece, prevTo) with
// (piece, to).
func (h *History) UpdateContinuation(inCheck, prevWasCapture bool, prevPiece Piece, prevTo Square, piece Piece, to Square, bonus int32) {
	e := h.continuationEntry(inCheck, prevWasCapture, prevPiece, prevTo, piece, to)
	*e = gravityUpdate(*e, bonus, continuationLimit)
}

// ContinuationScore returns the current continuation history bonus
// for playing (piece, to) after (prevPiece, prevTo) was played.
func (h *History) ContinuationScore(inCheck, prevWasCapture bool, prevPiece Piece, prevTo Square, piece Piece, to Square) int32 {
	return *h.continuationEntry(inCheck, prevWasCapture, prevPiece, prevTo, piece, to)
}

// UpdateLowPly applies a gravity-updated bonus to the low-ply
// supplementary history, a no-op beyond lowPlyMaxPly.
func (h *History) UpdateLowPly(ply int, from, to Square, bonus int32) {
	if ply >= lowPlyMaxPly {
		return
	}
	h.LowPly[ply][from][to] = gravityUpdate(h.LowPly[ply][from][to], bonus, lowPlyLimit)
}

// bucket folds a zobrist key down into a correction-table index.
func bucket(key Key) uint32 {
	return uint32(key) & (corrTableSize - 1)
}

// UpdatePawnCorrection nudges the pawn correction entry toward the
// error observed between the search result and the static eval,
// scaled by depth: deeper results are more trustworthy.
func (h *History) UpdatePawnCorrection(pawnKey Key, c Color, searchValue, staticEval Value, depth int) {
	idx := bucket(pawnKey)
	bonus := correctionBonus(searchValue, staticEval, depth)
	h.PawnCorr[idx][c] = gravityUpdate(h.PawnCorr[idx][c], bonus, corrLimit)
}

// UpdateMinorCorrection is the minor-piece analogue of
// UpdatePawnCorrection, indexed by a caller-supplied minor-piece
// structure key (typically a zobrist fold over knight/bishop squares).
func (h *History) UpdateMinorCorrection(minorKey Key, c Color, searchValue, staticEval Value, depth int) {
	idx := bucket(minorKey)
	bonus := correctionBonus(searchValue, staticEval, depth)
	h.MinorCorr[idx][c] = gravityUpdate(h.MinorCorr[idx][c], bonus, corrLimit)
}

// UpdateNonPawnCorrection is the non-pawn-material analogue, indexed by
// the color whose material the key covers and the color to move.
func (h *History) UpdateNonPawnCorrection(materialKey Key, materialColor, sideToMove Color, searchValue, staticEval Value, depth int) {
	idx := bucket(materialKey)
	bonus := correctionBonus(searchValue, staticEval, depth)
	h.NonPawnCorr[idx][materialColor][sideToMove] = gravityUpdate(h.NonPawnCorr[idx][materialColor][sideToMove], bonus, corrLimit)
}

// UpdateContinuationCorrection nudges the continuation correction
// entry for the move (piece, to) that led to the position being
// corrected.
func (h *History) UpdateContinuationCorrection(piece Piece, to Square, searchValue, staticEval Value, depth int) {
	bonus := correctionBonus(searchValue, staticEval, depth)
	h.ContinuationCorr[piece][to] = gravityUpdate(h.ContinuationCorr[piece][to], bonus, corrLimit)
}

func correctionBonus(searchValue, staticEval Value, depth int) int32 {
	diff := int32(searchValue) - int32(staticEval)
	bonus := diff * int32(depth) / 8
	return clamp32(bonus, -corrLimit, corrLimit)
}

// correction weights and the divisor the weighted sum is scaled by
// before being added to a raw static eval.
const (
	pawnCorrWeight        = 9536
	minorCorrWeight       = 8494
	nonPawnCorrWeight     = 10132
	continuationCorrWeight = 7156
	corrDivisor           = 131072
)

// CorrectedStaticEval applies the pawn, minor, non-pawn and
// continuation corrections on top of a raw static eval, weighting each
// term and dividing by corrDivisor, then clamping the result away from
// decisive (mate-range) values since corrections are never meant to
// turn a quiet eval into a claimed mate.
func (h *History) CorrectedStaticEval(raw Value, pawnKey, minorKey, nonPawnKeyUs, nonPawnKeyThem Key, us Color, lastMovePiece Piece, lastMoveTo Square) Value {
	nonPawn := h.NonPawnCorr[bucket(nonPawnKeyUs)][us][us] +
		h.NonPawnCorr[bucket(nonPawnKeyThem)][us.Flip()][us]
	var continuation int32
	if lastMovePiece != PieceNone {
		continuation = h.ContinuationCorr[lastMovePiece][lastMoveTo]
	}

	weighted := pawnCorrWeight*h.PawnCorr[bucket(pawnKey)][us] +
		minorCorrWeight*h.MinorCorr[bucket(minorKey)][us] +
		nonPawnCorrWeight*nonPawn +
		continuationCorrWeight*continuation

	corrected := int32(raw) + weighted/corrDivisor
	limit := int32(TbWinInMax) - 1
	return Value(clamp32(corrected, -limit, limit))
}

func (h History) String() string {
	sb := strings.Builder{}
	for sf := SqA1; sf < SqNone; sf++ {
		for st := SqA1; st < SqNone; st++ {
			sb.WriteString(out.Sprintf("Move=%s%s: ", sf.String(), st.String()))
			for c := White; c <= 1; c++ {
				count := h.HistoryCount[c][sf][st]
				sb.WriteString(out.Sprintf("%s=%-7d ", c.String(), count))
			}
			m := h.CounterMoves[sf][st]
			sb.WriteString(out.Sprintf("cm=%s\n", m.StringUci()))
		}
	}
	return sb.String()
}
