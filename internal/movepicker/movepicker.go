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

// Package movepicker supplies search nodes with moves in the order
// most likely to produce an early beta cutoff: the transposition-table
// move, then captures (good ones first, ranked by MVV-LVA plus capture
// history, SEE-losing ones held back to the very end), then the two
// killer moves, then quiet moves ranked by butterfly and continuation
// history. It takes its moves from internal/movegen's
// GeneratePseudoLegalMoves (called once for captures and once for
// non-captures) and adds its own history-table scoring on top.
package movepicker

import (
	"sort"

	"github.com/corvidchess/corvid/internal/history"
	"github.com/corvidchess/corvid/internal/movegen"
	"github.com/corvidchess/corvid/internal/position"
	"github.com/corvidchess/corvid/internal/see"
	. "github.com/corvidchess/corvid/internal/types"
)

type stage int

const (
	stageGoodCaptures stage = iota
	stageKillers
	stageQuiets
	stageBadCaptures
	stageDone
)

type scored struct {
	move  Move
	score int64
}

// Picker drives move ordering for a single search node. It is built
// fresh for every node (cheap - it only holds slice headers sized to
// the node's move count) and consumed one move at a time via Next
// until it returns MoveNone.
type Picker struct {
	mg   *movegen.Movegen
	hist *history.History
	p    *position.Position

	ttMove  Move
	killers [2]Move

	us             Color
	inCheck        bool
	prevWasCapture bool
	prevPiece      Piece
	prevTo         Square

	stage       stage
	ttReturned  bool
	captures    []scored
	capIdx      int
	badCaptures []scored
	badIdx      int
	killerIdx   int
	quiets      []scored
	quietIdx    int
}

// New builds a picker for the node about to be searched at position
// p. ttMove is the hash move for this node (MoveNone if there wasn't
// one) and killers the ply's two killer-move slots; both are
// surfaced first, ahead of anything movepicker scores itself, since
// they are cheaper signals of a good move than re-deriving one from
// history tables.
func New(mg *movegen.Movegen, hist *history.History, p *position.Position, ttMove Move, killers [2]Move) *Picker {
	pk := &Picker{
		mg:      mg,
		hist:    hist,
		p:       p,
		ttMove:  ttMove,
		killers: killers,
		us:      p.NextPlayer(),
		inCheck: p.HasCheck(),
	}
	if lastMove := p.LastMove(); lastMove != MoveNone {
		pk.prevTo = lastMove.To()
		pk.prevPiece = p.GetPiece(pk.prevTo)
		pk.prevWasCapture = p.LastCapturedPiece() != PieceNone
	} else {
		pk.prevTo = SqNone
	}
	return pk
}

// Next returns the next move to try in this node, or MoveNone once
// every pseudo-legal move has been returned. The caller is still
// responsible for DoMove/WasLegalMove - Picker only orders pseudo-legal
// moves, it does not verify legality.
func (pk *Picker) Next() Move {
	if !pk.ttReturned {
		pk.ttReturned = true
		if pk.ttMove != MoveNone {
			return pk.ttMove
		}
	}

	for {
		switch pk.stage {
		case stageGoodCaptures:
			if pk.captures == nil && pk.badCaptures == nil {
				pk.fillCaptures()
			}
			for pk.capIdx < len(pk.captures) {
				m := pk.captures[pk.capIdx].move
				pk.capIdx++
				if m == pk.ttMove {
					continue
				}
				return m
			}
			pk.stage = stageKillers
		case stageKillers:
			if pk.quiets == nil {
				pk.fillQuiets()
			}
			for pk.killerIdx < 2 {
				k := pk.killers[pk.killerIdx]
				pk.killerIdx++
				if k == MoveNone || k == pk.ttMove {
					continue
				}
				// killers are kept per ply, so only return one that was
				// generated as a quiet move in this position
				for _, q := range pk.quiets {
					if q.move == k {
						return k
					}
				}
			}
			pk.stage = stageQuiets
		case stageQuiets:
			if pk.quiets == nil {
				pk.fillQuiets()
			}
			for pk.quietIdx < len(pk.quiets) {
				m := pk.quiets[pk.quietIdx].move
				pk.quietIdx++
				if m == pk.ttMove || m == pk.killers[0] || m == pk.killers[1] {
					continue
				}
				return m
			}
			pk.stage = stageBadCaptures
		case stageBadCaptures:
			for pk.badIdx < len(pk.badCaptures) {
				m := pk.badCaptures[pk.badIdx].move
				pk.badIdx++
				if m == pk.ttMove {
					continue
				}
				return m
			}
			pk.stage = stageDone
			return MoveNone
		default:
			return MoveNone
		}
	}
}

// fillCaptures generates every pseudo-legal capture, scores it by
// MVV-LVA (the captured piece's value minus the attacker's value) plus
// capture history, and splits the result into a
// SEE-winning ("good") bucket searched first and a SEE-losing ("bad")
// bucket held back until after quiets - a losing capture is rarely
// better than an ordinary quiet move.
func (pk *Picker) fillCaptures() {
	capturesPtr := pk.mg.GeneratePseudoLegalMoves(pk.p, movegen.GenCap)
	pk.captures = make([]scored, 0, capturesPtr.Len())
	pk.badCaptures = make([]scored, 0, 4)
	for i := 0; i < capturesPtr.Len(); i++ {
		m := capturesPtr.At(i)
		attacker := pk.p.GetPiece(m.From())
		victim := pk.p.GetPiece(m.To())
		captured := victim.TypeOf()
		mvvLva := int64(victim.ValueOf() - attacker.ValueOf())
		histBonus := int64(pk.hist.Capture[attacker][m.To()][captured])
		s := scored{move: m.MoveOf(), score: mvvLva + histBonus}
		if see.See(pk.p, m.MoveOf()) >= 0 {
			pk.captures = append(pk.captures, s)
		} else {
			pk.badCaptures = append(pk.badCaptures, s)
		}
	}
	sort.SliceStable(pk.captures, func(i, j int) bool { return pk.captures[i].score > pk.captures[j].score })
	sort.SliceStable(pk.badCaptures, func(i, j int) bool { return pk.badCaptures[i].score > pk.badCaptures[j].score })
}

// fillQuiets generates every pseudo-legal non-capture and scores it by
// the butterfly (main) history plus the two-ply continuation history,
// the same signals alphabeta.go's beta-cutoff bookkeeping feeds via
// UpdateMain/UpdateContinuation. Without a previous move (no history,
// or right after a null move) only the butterfly history counts.
func (pk *Picker) fillQuiets() {
	quietsPtr := pk.mg.GeneratePseudoLegalMoves(pk.p, movegen.GenNonCap)
	pk.quiets = make([]scored, 0, quietsPtr.Len())
	for i := 0; i < quietsPtr.Len(); i++ {
		m := quietsPtr.At(i)
		piece := pk.p.GetPiece(m.From())
		main := pk.hist.HistoryCount[pk.us][m.From()][m.To()]
		var cont int64
		if pk.prevTo != SqNone {
			cont = int64(pk.hist.ContinuationScore(pk.inCheck, pk.prevWasCapture, pk.prevPiece, pk.prevTo, piece, m.To()))
		}
		pk.quiets = append(pk.quiets, scored{move: m.MoveOf(), score: main + cont})
	}
	sort.SliceStable(pk.quiets, func(i, j int) bool { return pk.quiets[i].score > pk.quiets[j].score })
}
