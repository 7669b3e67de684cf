/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package history

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/corvidchess/corvid/internal/types"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	assert.EqualValues(t, 0, h.HistoryCount[White][SqE2][SqE4])
	assert.Equal(t, MoveNone, h.CounterMoves[SqE2][SqE4])
}

func TestUpdateMainGrowsTowardBonusAndClamps(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 100; i++ {
		h.UpdateMain(White, SqE2, SqE4, 2000)
	}
	assert.Greater(t, h.HistoryCount[White][SqE2][SqE4], int64(0))
	assert.LessOrEqual(t, h.HistoryCount[White][SqE2][SqE4], int64(mainLimit))

	for i := 0; i < 100; i++ {
		h.UpdateMain(White, SqE2, SqE4, -2000)
	}
	assert.Less(t, h.HistoryCount[White][SqE2][SqE4], int64(mainLimit))
}

func TestUpdateCapture(t *testing.T) {
	h := NewHistory()
	piece := MakePiece(White, Knight)
	h.UpdateCapture(piece, SqD5, Pawn, 500)
	assert.Greater(t, h.Capture[piece][SqD5][Pawn], int32(0))
}

func TestUpdatePawnBucketsByKey(t *testing.T) {
	h := NewHistory()
	piece := MakePiece(White, Rook)
	h.UpdatePawn(Key(12345), piece, SqA1, 300)
	assert.Greater(t, h.Pawn[bucket(Key(12345))][piece][SqA1], int32(0))
}

func TestContinuationRoundTrip(t *testing.T) {
	h := NewHistory()
	prevPiece := MakePiece(Black, Queen)
	piece := MakePiece(White, Bishop)
	h.UpdateContinuation(false, true, prevPiece, SqD8, piece, SqG5, 400)
	score := h.ContinuationScore(false, true, prevPiece, SqD8, piece, SqG5)
	assert.Greater(t, score, int32(0))

	// a different inCheck/capture split must not alias the same slot
	other := h.ContinuationScore(true, true, prevPiece, SqD8, piece, SqG5)
	assert.EqualValues(t, 0, other)
}

func TestUpdateLowPlyNoopBeyondMaxPly(t *testing.T) {
	h := NewHistory()
	h.UpdateLowPly(lowPlyMaxPly, SqA2, SqA4, 999)
	for i := range h.LowPly {
		for j := range h.LowPly[i] {
			for k := range h.LowPly[i][j] {
				assert.EqualValues(t, 0, h.LowPly[i][j][k])
			}
		}
	}
	h.UpdateLowPly(0, SqA2, SqA4, 999)
	assert.Greater(t, h.LowPly[0][SqA2][SqA4], int32(0))
}

func TestCorrectionsNudgeStaticEval(t *testing.T) {
	h := NewHistory()
	raw := Value(30)

	// no corrections stored yet: eval passes through
	assert.Equal(t, raw, h.CorrectedStaticEval(raw, 1, 2, 3, 4, White, PieceNone, SqNone))

	// a large positive correction applied many times moves the eval up
	for i := 0; i < 50; i++ {
		h.UpdatePawnCorrection(Key(1), White, Value(400), raw, 10)
	}
	corrected := h.CorrectedStaticEval(raw, 1, 2, 3, 4, White, PieceNone, SqNone)
	assert.Greater(t, corrected, raw)
}

func TestCorrectedStaticEvalNeverReachesMateRange(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 10_000; i++ {
		h.UpdatePawnCorrection(Key(7), White, Value(Infinite), Value(0), 100)
		h.UpdateMinorCorrection(Key(7), White, Value(Infinite), Value(0), 100)
		h.UpdateNonPawnCorrection(Key(7), White, White, Value(Infinite), Value(0), 100)
	}
	corrected := h.CorrectedStaticEval(Value(0), 7, 7, 7, 7, White, PieceNone, SqNone)
	assert.True(t, corrected.IsValid())
	assert.Less(t, corrected, Mate)
	assert.Less(t, int32(corrected), int32(TbWinInMax))
}

func TestGravityUpdatePullsTowardZeroUnderRepeatedOppositeBonus(t *testing.T) {
	v := int32(0)
	for i := 0; i < 20; i++ {
		v = gravityUpdate(v, 1000, mainLimit)
	}
	saturated := v
	// a single opposite bonus should pull it down, not leave it unchanged
	v = gravityUpdate(v, -1000, mainLimit)
	assert.Less(t, v, saturated)
}

func TestStringDoesNotPanic(t *testing.T) {
	h := NewHistory()
	assert.NotPanics(t, func() {
		_ = h.String()
	})
}
