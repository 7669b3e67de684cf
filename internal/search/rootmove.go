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

package search

import (
	"sort"

	"github.com/corvidchess/corvid/internal/moveslice"
	. "github.com/corvidchess/corvid/internal/types"
)

// NodeType distinguishes the root node, a principal-variation node
// searched with a full window, and a non-PV node searched with a
// null window. Several prunings (null move, razoring, ProbCut) and
// extensions (singular, IIR) only apply - or apply differently -
// depending on which of these a search() call is working on.
type NodeType uint8

const (
	NonPV NodeType = iota
	PV
	Root
)

// RootMove tracks everything the iterative-deepening driver needs to
// remember about one root move across iterations: its own principal
// variation, its score history (used both for the UCI "info" output
// and to size the next iteration's aspiration window) and the
// tablebase/effort bookkeeping used to break ties between moves that
// finish with an equal score.
type RootMove struct {
	Move Move
	PV   moveslice.MoveSlice

	Score            Value
	PreviousScore    Value
	AverageScore     Value
	UciScore         Value
	MeanSquaredScore int64
	SelDepth         int

	TbRank  int32
	TbScore Value
	Effort  uint64

	ScoreLowerbound bool
	ScoreUpperbound bool
}

// RootMoveList is the ordered set of moves being searched at the
// root. It is re-sorted by Score at the end of every completed
// iteration so the next iteration begins with the best move found
// so far - any further improvement is then guaranteed genuine and
// any unfinished iteration can still fall back to it.
type RootMoveList []RootMove

// NewRootMoveList seeds a root move list from a legal move
// generation result. Score, PreviousScore, AverageScore and UciScore
// start at ValueNA so aspirationSearch can tell an unscored move and
// centre its window on the previous iteration's value instead of
// reading a bogus previous score.
func NewRootMoveList(moves *moveslice.MoveSlice) *RootMoveList {
	list := make(RootMoveList, 0, moves.Len())
	for _, m := range *moves {
		list = append(list, RootMove{
			Move:          m.MoveOf(),
			Score:         ValueNA,
			PreviousScore: ValueNA,
			AverageScore:  ValueNA,
			UciScore:      ValueNA,
		})
	}
	return &list
}

// Len returns the number of root moves.
func (l *RootMoveList) Len() int { return len(*l) }

// At returns a pointer to the root move at index i so callers can
// both read and update it in place.
func (l *RootMoveList) At(i int) *RootMove { return &(*l)[i] }

// Sort orders the list by Score, descending.
func (l *RootMoveList) Sort() {
	sort.SliceStable(*l, func(i, j int) bool { return (*l)[i].Score > (*l)[j].Score })
}

// Find returns the index of move in the list, or -1 if it is absent.
func (l *RootMoveList) Find(m Move) int {
	for i := range *l {
		if (*l)[i].Move == m {
			return i
		}
	}
	return -1
}

// UpdateScore records a finished search result for the root move at
// index i. AverageScore folds the new score into a running average
// and MeanSquaredScore keeps the signed square of the current score;
// both feed the aspiration window delta in aspirationSearch.
func (l *RootMoveList) UpdateScore(i int, score Value) {
	rm := &(*l)[i]
	rm.PreviousScore = rm.Score
	rm.Score = score
	rm.UciScore = score
	if rm.AverageScore == ValueNA {
		rm.AverageScore = score
	} else {
		rm.AverageScore = (rm.AverageScore + score) / 2
	}
	sq := int64(score) * int64(score)
	if score < 0 {
		sq = -sq
	}
	rm.MeanSquaredScore = sq
}

// btoi converts a bool to 0/1, used by the formulas in alphabeta.go
// that SPEC_FULL.md expresses with C-style boolean arithmetic
// (ttPv && !PV, improving, ...).
func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
