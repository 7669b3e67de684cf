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

// Package transpositiontable implements the shared transposition table
// (cache) for the search: a fixed-size array of clusters, each holding a
// handful of entries, addressed by the low bits of a position's zobrist
// key. Resize and Clear are not safe to call while a search is using the
// table; Probe and Store are safe to call concurrently from multiple
// worker goroutines sharing one table, matching the C7 thread-pool model.
package transpositiontable

import (
	"math"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	myLogging "github.com/corvidchess/corvid/internal/logging"
	. "github.com/corvidchess/corvid/internal/types"
	"github.com/corvidchess/corvid/internal/util"
)

var out = message.NewPrinter(language.German)

// MaxSizeInMB is the maximal memory usage allowed for a single table.
const MaxSizeInMB = 65_536

// MB is the byte size of one megabyte, used throughout Resize/sizing math.
const MB = 1024 * 1024

// cluster is the unit of hashing: ClusterSize entries sharing one bucket.
type cluster struct {
	entries [ClusterSize]TtEntry
}

// TtTable is the shared transposition table.
type TtTable struct {
	log                *logging.Logger
	data               []cluster
	sizeInByte         uint64
	hashKeyMask        uint64
	maxNumberOfEntries uint64
	numberOfEntries    uint64
	generation         uint8
	Stats              TtStats
}

// TtStats holds statistical counters on tt usage. Fields are updated with
// sync/atomic since Probe/Store can run concurrently across worker threads.
type TtStats struct {
	numberOfPuts       uint64
	numberOfCollisions uint64
	numberOfOverwrites uint64
	numberOfUpdates    uint64
	numberOfProbes     uint64
	numberOfHits       uint64
	numberOfMisses     uint64
}

// NewTtTable creates a table sized to at most sizeInMByte megabytes, rounded
// down to a power-of-two number of clusters.
func NewTtTable(sizeInMByte int) *TtTable {
	tt := &TtTable{log: myLogging.GetLog()}
	tt.Resize(sizeInMByte)
	return tt
}

// Resize resizes the table, clearing all entries. Not safe to call
// concurrently with a running search.
func (tt *TtTable) Resize(sizeInMByte int) {
	if sizeInMByte > MaxSizeInMB {
		tt.log.Error(out.Sprintf("Requested size for TT of %d MB reduced to max of %d MB", sizeInMByte, MaxSizeInMB))
		sizeInMByte = MaxSizeInMB
	}

	clusterSize := uint64(unsafe.Sizeof(cluster{}))
	sizeInByte := uint64(sizeInMByte) * MB
	maxClusters := uint64(0)
	if sizeInByte >= clusterSize {
		maxClusters = 1 << uint64(math.Floor(math.Log2(float64(sizeInByte/clusterSize))))
	}

	tt.maxNumberOfEntries = maxClusters
	tt.hashKeyMask = 0
	if maxClusters > 0 {
		tt.hashKeyMask = maxClusters - 1
	}
	tt.sizeInByte = maxClusters * clusterSize
	tt.data = make([]cluster, maxClusters)
	tt.numberOfEntries = 0
	tt.generation = 0
	tt.Stats = TtStats{}

	tt.log.Info(out.Sprintf("TT Size %d MByte, Capacity %d clusters of %d entries (%d Byte/entry) (Requested were %d MBytes)",
		tt.sizeInByte/MB, tt.maxNumberOfEntries, ClusterSize, TtEntrySize, sizeInMByte))
	tt.log.Debug(util.MemStat())
}

// NewSearch bumps the table's generation counter. Call once per root
// iterative-deepening search (not per node): stale entries age out of the
// replacement calculation without the old per-entry sweep having to touch
// every slot.
func (tt *TtTable) NewSearch() {
	tt.generation++
}

// key16 truncates a full zobrist key to the 16 bits stored per entry; the
// cluster address already disambiguates most of the remaining bits.
func key16(key Key) uint16 {
	return uint16(key >> 48)
}

func (tt *TtTable) clusterOf(key Key) *cluster {
	if tt.maxNumberOfEntries == 0 {
		return nil
	}
	return &tt.data[uint64(key)&tt.hashKeyMask]
}

// Probe looks up key's cluster for a matching entry. ttHit reports whether
// the entry's truncated key matched; the returned entry is always a valid
// pointer into the table (either the match, or the cluster's weakest slot,
// ready to be overwritten by Store) unless the table has zero capacity.
func (tt *TtTable) Probe(key Key) (entry *TtEntry, ttHit bool) {
	atomic.AddUint64(&tt.Stats.numberOfProbes, 1)

	c := tt.clusterOf(key)
	if c == nil {
		return nil, false
	}

	k16 := key16(key)
	var weakest *TtEntry
	weakestScore := math.MaxInt32
	for i := range c.entries {
		e := &c.entries[i]
		if e.key16 == k16 && !e.isEmpty() {
			atomic.AddUint64(&tt.Stats.numberOfHits, 1)
			return e, true
		}
		score := e.replacementScore(tt.generation)
		if e.isEmpty() {
			score = math.MinInt32
		}
		if score < weakestScore {
			weakestScore = score
			weakest = e
		}
	}
	atomic.AddUint64(&tt.Stats.numberOfMisses, 1)
	return weakest, false
}

// GetEntry is like Probe but never updates statistics; useful for read-only
// inspection (e.g. UCI "go" pre-search book/TT peeks).
func (tt *TtTable) GetEntry(key Key) *TtEntry {
	c := tt.clusterOf(key)
	if c == nil {
		return nil
	}
	k16 := key16(key)
	for i := range c.entries {
		e := &c.entries[i]
		if e.key16 == k16 && !e.isEmpty() {
			return e
		}
	}
	return nil
}

// Store writes an entry for key into its cluster, following the replacement
// policy described in TtEntry.save: an exact match overwrites in place,
// otherwise the cluster's weakest slot (by depth - 8*age) is reused.
func (tt *TtTable) Store(key Key, move Move, value Value, eval Value, depth int, bound Bound, pv bool) {
	c := tt.clusterOf(key)
	if c == nil {
		return
	}

	atomic.AddUint64(&tt.Stats.numberOfPuts, 1)

	k16 := key16(key)
	var target *TtEntry
	weakestScore := math.MaxInt32
	for i := range c.entries {
		e := &c.entries[i]
		if e.key16 == k16 {
			target = e
			break
		}
		if e.isEmpty() {
			target = e
			break
		}
		if score := e.replacementScore(tt.generation); score < weakestScore {
			weakestScore = score
			target = e
		}
	}

	switch {
	case target.isEmpty():
		tt.numberOfEntries++
	case target.key16 != k16:
		atomic.AddUint64(&tt.Stats.numberOfCollisions, 1)
		atomic.AddUint64(&tt.Stats.numberOfOverwrites, 1)
	default:
		atomic.AddUint64(&tt.Stats.numberOfUpdates, 1)
	}

	target.save(k16, move, value, eval, depth, bound, pv, tt.generation)
}

// Clear discards all entries.
func (tt *TtTable) Clear() {
	tt.data = make([]cluster, tt.maxNumberOfEntries)
	tt.numberOfEntries = 0
	tt.generation = 0
	tt.Stats = TtStats{}
}

// Hashfull returns how full the table is in permill, as reported by UCI's
// "info hashfull".
func (tt *TtTable) Hashfull() int {
	if tt.maxNumberOfEntries == 0 {
		return 0
	}
	total := tt.maxNumberOfEntries * ClusterSize
	return int((1000 * tt.numberOfEntries) / total)
}

// String returns a human-readable summary of size and hit-rate statistics.
func (tt *TtTable) String() string {
	probes := atomic.LoadUint64(&tt.Stats.numberOfProbes)
	hits := atomic.LoadUint64(&tt.Stats.numberOfHits)
	misses := atomic.LoadUint64(&tt.Stats.numberOfMisses)
	return out.Sprintf("TT: size %d MB clusters %d entries %d (%d%%) puts %d "+
		"updates %d collisions %d overwrites %d probes %d hits %d (%d%%) misses %d (%d%%)",
		tt.sizeInByte/MB, tt.maxNumberOfEntries, tt.numberOfEntries, tt.Hashfull()/10,
		atomic.LoadUint64(&tt.Stats.numberOfPuts), atomic.LoadUint64(&tt.Stats.numberOfUpdates),
		atomic.LoadUint64(&tt.Stats.numberOfCollisions), atomic.LoadUint64(&tt.Stats.numberOfOverwrites),
		probes, hits, (hits*100)/(1+probes), misses, (misses*100)/(1+probes))
}

// Len returns the number of occupied entries in the table.
func (tt *TtTable) Len() uint64 {
	return tt.numberOfEntries
}

// AgeEntries is kept for callers still using the old per-search aging hook;
// it now simply advances the generation counter (see NewSearch) instead of
// sweeping every entry, so it is safe to call even on a large table.
func (tt *TtTable) AgeEntries() {
	startTime := time.Now()
	tt.NewSearch()
	tt.log.Debug(out.Sprintf("Advanced TT generation to %d in %d us\n", tt.generation, time.Since(startTime).Microseconds()))
}
