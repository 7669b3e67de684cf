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

// Package threadpool generalises a single search.Search instance into N of
// them searching the same position in parallel, sharing one transposition
// table. It owns the decision of which worker's result is reported to the
// UCI user interface and exposes the same start/stop/wait surface
// search.Search does, so internal/uci only needs to swap the type it holds.
package threadpool

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/op/go-logging"

	"github.com/corvidchess/corvid/internal/config"
	myLogging "github.com/corvidchess/corvid/internal/logging"
	"github.com/corvidchess/corvid/internal/position"
	"github.com/corvidchess/corvid/internal/search"
	"github.com/corvidchess/corvid/internal/transpositiontable"
	. "github.com/corvidchess/corvid/internal/types"
	"github.com/corvidchess/corvid/internal/uciInterface"
	"github.com/corvidchess/corvid/internal/util"
)

// Pool owns a fixed set of search.Search workers and the transposition
// table they share. Worker 0 is the "main" worker: it alone gets the
// real UciDriver installed, so it alone streams "info depth/score/pv"
// progress exactly the way a lone search.Search would. Every worker
// (including worker 0) has its own automatic bestmove reporting turned
// off via Search.SetReportBestMove(false) - the pool, not the worker,
// decides which single result is the pool's bestmove once every worker
// has stopped.
type Pool struct {
	log *logging.Logger

	uciHandlerPtr uciInterface.UciDriver

	workers []*search.Search
	tt      *transpositiontable.TtTable

	nodeCounter uint64

	initSemaphore *semaphore.Weighted
	isRunning     *semaphore.Weighted

	lastResult *search.Result
}

// NewPool creates a pool of n workers (n clamped to at least 1). The
// transposition table is allocated lazily, on the first StartSearch or
// IsReady,
// sized from config.Settings.Search.TTSize exactly as a lone
// search.Search would size its own.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	workers := make([]*search.Search, n)
	for i := range workers {
		workers[i] = search.NewSearch()
		workers[i].SetReportBestMove(false)
	}
	return &Pool{
		log:           myLogging.GetLog(),
		workers:       workers,
		initSemaphore: semaphore.NewWeighted(int64(1)),
		isRunning:     semaphore.NewWeighted(int64(1)),
	}
}

// Threads returns the number of workers in the pool.
func (pl *Pool) Threads() int {
	return len(pl.workers)
}

// SetUciHandler installs the handler the pool's main worker streams
// progress through, and that the pool itself calls SendResult on once
// the best of all workers' results has been chosen.
func (pl *Pool) SetUciHandler(h uciInterface.UciDriver) {
	pl.uciHandlerPtr = h
	pl.workers[0].SetUciHandler(h)
}

// NewGame stops any running search and clears the shared table and
// every worker's history, exactly as a lone search.Search.NewGame does.
func (pl *Pool) NewGame() {
	pl.StopSearch()
	if pl.tt != nil {
		pl.tt.Clear()
	}
	for _, w := range pl.workers {
		w.NewGame()
	}
}

// StartSearch starts every worker on a copy of p under the same
// limits sl. Returns once every worker has finished its own
// initialization, mirroring search.Search.StartSearch.
func (pl *Pool) StartSearch(p position.Position, sl search.Limits) {
	_ = pl.initSemaphore.Acquire(context.TODO(), 1)
	go pl.run(&p, &sl)
	_ = pl.initSemaphore.Acquire(context.TODO(), 1)
	pl.initSemaphore.Release(1)
}

// StopSearch stops every worker as quickly as possible and waits for
// the pool to settle on a final result. Every worker is signalled
// before any of them is waited on, so a slow worker does not delay
// the others' shutdown.
func (pl *Pool) StopSearch() {
	for _, w := range pl.workers {
		w.RequestStop()
	}
	pl.WaitWhileSearching()
}

// PonderHit forwards to every worker.
func (pl *Pool) PonderHit() {
	for _, w := range pl.workers {
		w.PonderHit()
	}
}

// IsSearching reports whether the pool has an active search running.
func (pl *Pool) IsSearching() bool {
	if !pl.isRunning.TryAcquire(1) {
		return true
	}
	pl.isRunning.Release(1)
	return false
}

// WaitWhileSearching blocks until the pool's current search has ended.
func (pl *Pool) WaitWhileSearching() {
	_ = pl.isRunning.Acquire(context.TODO(), 1)
	pl.isRunning.Release(1)
}

// IsReady initializes every worker (book, table) and reports readiness
// once all of them are done - forwarding through worker 0's uci handler
// since only it has one installed.
func (pl *Pool) IsReady() {
	pl.ensureTT()
	var g errgroup.Group
	for _, w := range pl.workers {
		w := w
		g.Go(func() error {
			w.IsReady()
			return nil
		})
	}
	_ = g.Wait()
}

// ClearHash clears the shared transposition table. Ignored with a
// warning while searching.
func (pl *Pool) ClearHash() {
	if pl.IsSearching() {
		pl.log.Warning("Can't clear hash while searching.")
		return
	}
	if pl.tt != nil {
		pl.tt.Clear()
	}
}

// ResizeCache reallocates the shared table at the current
// config.Settings.Search.TTSize and re-installs it on every worker.
// Ignored with a warning while searching.
func (pl *Pool) ResizeCache() {
	if pl.IsSearching() {
		pl.log.Warning("Can't resize hash while searching.")
		return
	}
	pl.tt = nil
	pl.ensureTT()
	pl.log.Debug(util.GcWithStats())
}

// LastSearchResult returns the result of the worker the pool picked as
// best after the last completed search.
func (pl *Pool) LastSearchResult() search.Result {
	if pl.lastResult == nil {
		return search.Result{}
	}
	return *pl.lastResult
}

// NodesVisited returns the combined node count across every worker for
// the last (or current) search - the C7 node-count aggregation. Safe to
// call while a search is running: every worker bumps this atomically as
// it visits nodes (Search.SetNodeCounter/countNode), so this is a live
// total, not just a snapshot taken after the workers stop.
func (pl *Pool) NodesVisited() uint64 {
	return atomic.LoadUint64(&pl.nodeCounter)
}

// //////////////////////////////////////////////////////
// Private
// //////////////////////////////////////////////////////

// ensureTT allocates the shared table if none exists yet and installs
// it (and a shared node counter) on every worker.
func (pl *Pool) ensureTT() {
	if pl.tt == nil {
		sizeInMByte := config.Settings.Search.TTSize
		if sizeInMByte == 0 {
			sizeInMByte = 64
		}
		pl.tt = transpositiontable.NewTtTable(sizeInMByte)
	}
	pl.nodeCounter = 0
	for _, w := range pl.workers {
		w.SetTT(pl.tt)
		w.SetNodeCounter(&pl.nodeCounter)
	}
}

// run launches every worker on position p under limits sl using an
// errgroup so worker initialization (book loading, table sizing)
// overlaps instead of serializing one worker after another, waits for
// all of them to finish searching, and then picks and reports the
// single best result.
func (pl *Pool) run(p *position.Position, sl *search.Limits) {
	if !pl.isRunning.TryAcquire(1) {
		pl.log.Error("Pool search already running")
		pl.initSemaphore.Release(1)
		return
	}
	defer pl.isRunning.Release(1)

	pl.ensureTT()
	pl.tt.AgeEntries()

	var g errgroup.Group
	for _, w := range pl.workers {
		w := w
		g.Go(func() error {
			w.StartSearch(*p, *sl)
			return nil
		})
	}
	_ = g.Wait()

	// every worker is past its own init phase and running in the
	// background now - release the caller waiting in StartSearch.
	pl.initSemaphore.Release(1)

	for _, w := range pl.workers {
		w.WaitWhileSearching()
	}

	best := pl.pickBestThread()
	pl.lastResult = &best
	if pl.uciHandlerPtr != nil {
		pl.uciHandlerPtr.SendResult(best.BestMove, best.PonderMove)
	}
}

// pickBestThread ranks every worker's result by search depth first,
// then by score, and returns a copy annotated with which worker it
// came from and the pool-wide node total.
func (pl *Pool) pickBestThread() search.Result {
	bestIdx := 0
	best := pl.workers[0].LastSearchResult()
	for i := 1; i < len(pl.workers); i++ {
		r := pl.workers[i].LastSearchResult()
		if r.BestMove == MoveNone {
			continue
		}
		if r.SearchDepth > best.SearchDepth ||
			(r.SearchDepth == best.SearchDepth && r.BestValue > best.BestValue) {
			best = r
			bestIdx = i
		}
	}
	best.ThreadID = bestIdx
	best.Nodes = pl.NodesVisited()
	return best
}
