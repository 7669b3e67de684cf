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

// Package timeman computes the optimum and maximum time budget for a
// search from the current clock state, and tracks the iteration-wise
// signals (eval trend, best-move stability, depth progress) that let
// the main worker decide when an iterative-deepening search has used
// enough of that budget to stop early or should keep going.
package timeman

import (
	"math"
	"time"

	. "github.com/corvidchess/corvid/internal/types"
)

// Config holds the clock-independent knobs a time manager is built with.
type Config struct {
	// MoveOverhead reserves time for communication/GUI lag so the
	// engine never loses on time because of it.
	MoveOverhead time.Duration
	// MinimumThinkingTime is a floor under the optimum time for a move,
	// even when the clock would otherwise allow less.
	MinimumThinkingTime time.Duration
	// SlowMover scales the optimum time estimate up or down, in percent
	// of the "natural" share of remaining time (100 = unscaled).
	SlowMover int
}

// DefaultConfig mirrors common UCI option defaults.
func DefaultConfig() Config {
	return Config{
		MoveOverhead:        30 * time.Millisecond,
		MinimumThinkingTime: 20 * time.Millisecond,
		SlowMover:           100,
	}
}

// Manager computes and tracks the time budget for one search. It is
// created fresh for each `go` command and mutated across iterations.
type Manager struct {
	cfg Config

	start   time.Time
	optimum time.Duration
	maximum time.Duration

	prevTimeReduction float64
}

// NewManager creates a Manager with the given configuration.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg, prevTimeReduction: 1.0}
}

// Init computes optimum/maximum from the clock state for the side to
// move and starts the internal clock. gamePhaseFactor is 0 (endgame) to
// 1 (opening), used the way the teacher's setupTimeControl estimates
// how many moves remain when the GUI doesn't tell us.
func (m *Manager) Init(remaining, increment time.Duration, movesToGo int, gamePhaseFactor float64, legalMoveCount int) {
	m.start = time.Now()

	movesLeft := movesToGo
	if movesLeft <= 0 {
		movesLeft = 15 + int(25*gamePhaseFactor)
	}

	timeLeft := remaining + time.Duration(int64(movesLeft)*increment.Nanoseconds())
	timeLeft -= m.cfg.MoveOverhead * time.Duration(movesLeft)
	if timeLeft < 0 {
		timeLeft = 0
	}

	optimum := time.Duration(timeLeft.Nanoseconds()/int64(movesLeft)) * time.Duration(m.cfg.SlowMover) / 100
	if optimum < m.cfg.MinimumThinkingTime {
		optimum = m.cfg.MinimumThinkingTime
	}

	if legalMoveCount == 1 && optimum > 502*time.Millisecond {
		optimum = 502 * time.Millisecond
	}

	maximum := time.Duration(4 * optimum.Nanoseconds())
	if cap := remaining - m.cfg.MoveOverhead; cap > 0 && maximum > cap {
		maximum = cap
	}
	if legalMoveCount == 1 && maximum > 502*time.Millisecond {
		maximum = 502 * time.Millisecond
	}
	if maximum < optimum {
		maximum = optimum
	}

	m.optimum = optimum
	m.maximum = maximum
}

// Optimum returns the initial, unscaled optimum time budget computed by Init.
func (m *Manager) Optimum() time.Duration { return m.optimum }

// Maximum returns the hard ceiling a search must never cross.
func (m *Manager) Maximum() time.Duration { return m.maximum }

// Elapsed returns the wall time since Init.
func (m *Manager) Elapsed() time.Duration { return time.Since(m.start) }

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TotalTime recomputes the scaled time budget for the current
// iteration from the signals Stockfish-style time managers use:
//   - prevAvg/bestVal/prevIterVal: the root score trend across the last
//     few completed iterations, used to detect a falling evaluation.
//   - completedDepth/lastBestMoveDepth: how long ago the best move last
//     changed, used to ease off once it has stabilized.
//   - totBestMoveChanges/nThreads: how often the best move has changed
//     across all search threads, used to detect instability.
//
// The result is capped at Maximum() and is never below zero.
func (m *Manager) TotalTime(prevAvg, bestVal, prevIterVal Value, completedDepth, lastBestMoveDepth, totBestMoveChanges, nThreads int) time.Duration {
	if nThreads < 1 {
		nThreads = 1
	}

	fallingEval := clampF((11.325+2.115*float64(prevAvg-bestVal)+0.987*float64(prevIterVal-bestVal))/100, 0.569, 1.57)

	timeReduction := 0.723 + 0.79/(1.104+math.Exp(-0.5189*(float64(completedDepth-lastBestMoveDepth)-11.57)))

	bestMoveInstability := 1.04 + 1.8956*float64(totBestMoveChanges)/float64(nThreads)

	total := float64(m.optimum) * fallingEval * (1.455 + m.prevTimeReduction) / (2.2375 * timeReduction) * bestMoveInstability
	m.prevTimeReduction = timeReduction

	if total < 0 {
		total = 0
	}
	result := time.Duration(total)
	if result > m.maximum {
		result = m.maximum
	}
	return result
}

// ShouldStop reports whether the search should stop given the elapsed
// time, the scaled total-time budget for this iteration, how deep the
// search has completed, and the fraction of total nodes spent
// searching the current best move (nodeEffort, 0..1).
func (m *Manager) ShouldStop(totalTime time.Duration, completedDepth int, nodeEffort float64) bool {
	elapsed := m.Elapsed()
	if elapsed > totalTime || elapsed > m.maximum {
		return true
	}
	return completedDepth >= 10 && nodeEffort >= 0.924 && elapsed > time.Duration(float64(totalTime)*0.666)
}
