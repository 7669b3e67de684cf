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

package transpositiontable

import (
	"math/rand"
	"os"
	"path"
	"runtime"
	"testing"
	"time"
	"unsafe"

	logging2 "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"

	"github.com/corvidchess/corvid/internal/config"
	"github.com/corvidchess/corvid/internal/logging"
	"github.com/corvidchess/corvid/internal/position"
	. "github.com/corvidchess/corvid/internal/types"
)

var logTest *logging2.Logger

// make tests run in the projects root directory
func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "../..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}

// Setup the tests
func TestMain(m *testing.M) {
	config.Setup()
	logTest = logging.GetTestLog()
	code := m.Run()
	os.Exit(code)
}

func TestEntrySize(t *testing.T) {
	e := TtEntry{}
	assert.EqualValues(t, TtEntrySize, unsafe.Sizeof(e))
	logTest.Debugf("Size of Entry %d bytes", unsafe.Sizeof(e))
}

func TestNew(t *testing.T) {
	// 30-byte clusters (3 entries of 10 bytes); the count is rounded down
	// to a power of two
	tt := NewTtTable(2)
	assert.Equal(t, uint64(65_536), tt.maxNumberOfEntries)
	assert.Equal(t, int(tt.maxNumberOfEntries), cap(tt.data))

	tt = NewTtTable(64)
	assert.Equal(t, uint64(2_097_152), tt.maxNumberOfEntries)

	tt = NewTtTable(4_096)
	assert.Equal(t, uint64(134_217_728), tt.maxNumberOfEntries)
}

func TestGetAndProbe(t *testing.T) {
	tt := NewTtTable(64)
	pos := position.NewPosition()
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	tt.Store(pos.ZobristKey(), move, Value(111), Value(222), 5, BoundExact, false)

	e := tt.GetEntry(pos.ZobristKey())
	assert.NotNil(t, e)
	assert.Equal(t, move, e.Move())
	assert.EqualValues(t, 5, e.Depth())
	assert.Equal(t, BoundExact, e.Bound())

	entry, hit := tt.Probe(pos.ZobristKey())
	assert.True(t, hit)
	assert.Equal(t, move, entry.Move())
	assert.EqualValues(t, 5, entry.Depth())

	// not in tt
	pos.DoMove(move)
	entry, hit = tt.Probe(pos.ZobristKey())
	assert.False(t, hit)
	assert.NotNil(t, entry) // weakest slot in cluster, ready for Store
}

func TestClear(t *testing.T) {
	tt := NewTtTable(1)
	pos := position.NewPosition()
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	tt.Store(pos.ZobristKey(), move, Value(111), Value(222), 5, BoundExact, false)
	assert.EqualValues(t, 1, tt.Len())

	_, hit := tt.Probe(pos.ZobristKey())
	assert.True(t, hit)

	tt.Clear()

	assert.EqualValues(t, 0, tt.Len())
	_, hit = tt.Probe(pos.ZobristKey())
	assert.False(t, hit)
}

func TestNewSearchAges(t *testing.T) {
	tt := NewTtTable(4)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	tt.Store(111, move, Value(1), Value(1), 10, BoundExact, false)
	entry, hit := tt.Probe(111)
	assert.True(t, hit)
	assert.EqualValues(t, 0, entry.Generation())

	tt.NewSearch()
	tt.NewSearch()

	entry, hit = tt.Probe(111)
	assert.True(t, hit)
	assert.EqualValues(t, 2, entry.relativeAge(tt.generation))
}

func TestStoreAndOverwrite(t *testing.T) {
	tt := NewTtTable(4)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	// store and probe
	tt.Store(111, move, Value(111), Value(11), 4, BoundUpper, false)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 1, tt.Stats.numberOfPuts)
	e, hit := tt.Probe(111)
	assert.True(t, hit)
	assert.EqualValues(t, move, e.Move())
	assert.EqualValues(t, 111, e.Value())
	assert.EqualValues(t, 4, e.Depth())
	assert.Equal(t, BoundUpper, e.Bound())

	// update in place (same key)
	tt.Store(111, move, Value(112), Value(12), 5, BoundLower, true)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 2, tt.Stats.numberOfPuts)
	assert.EqualValues(t, 1, tt.Stats.numberOfUpdates)
	assert.EqualValues(t, 0, tt.Stats.numberOfCollisions)
	e, hit = tt.Probe(111)
	assert.True(t, hit)
	assert.EqualValues(t, 112, e.Value())
	assert.EqualValues(t, 5, e.Depth())
	assert.Equal(t, BoundLower, e.Bound())
	assert.True(t, e.IsPv())

	// exact entry protects against a shallower non-exact overwrite for the same key
	tt.Store(111, move, Value(112), Value(12), 5, BoundExact, false)
	tt.Store(111, move, Value(999), Value(99), 3, BoundUpper, false)
	e, hit = tt.Probe(111)
	assert.True(t, hit)
	assert.Equal(t, BoundExact, e.Bound())
	assert.EqualValues(t, 5, e.Depth())
}

func TestClusterCollision(t *testing.T) {
	tt := NewTtTable(1)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	// fill the cluster for this key fully with distinct keys so the next
	// store must evict the weakest one
	base := Key(111)
	for i := 0; i < ClusterSize; i++ {
		k := base + Key(i)*Key(tt.maxNumberOfEntries) // same cluster, different key16 in general
		tt.Store(k, move, Value(i), Value(i), 1+i, BoundExact, false)
	}
	assert.LessOrEqual(t, int(tt.Len()), ClusterSize)
}

func TestHashfull(t *testing.T) {
	tt := NewTtTable(1)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)
	assert.Equal(t, 0, tt.Hashfull())
	// 1000 entries in distinct clusters of a 98304-slot table: 10 permill
	for k := 1; k <= 1000; k++ {
		tt.Store(Key(k), move, Value(1), Value(1), 1, BoundExact, false)
	}
	assert.Greater(t, tt.Hashfull(), 0)
}

func TestTimingTTe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	tt := NewTtTable(1_024)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	const rounds = 5
	const iterations uint64 = 5_000_000

	for r := 1; r <= rounds; r++ {
		out.Printf("Round %d\n", r)
		key := Key(rand.Uint64())
		depth := int(rand.Int31n(128))
		value := Value(rand.Int31n(int32(Infinite)))
		bound := Bound(rand.Int31n(3) + 1)
		start := time.Now()
		for i := uint64(0); i < iterations; i++ {
			tt.Store(key+Key(i), move, value, value, depth, bound, false)
		}
		for i := uint64(0); i < iterations; i++ {
			k := Key(key + Key(2*i))
			_, _ = tt.Probe(k)
		}
		elapsed := time.Since(start)
		out.Println(tt.String())
		out.Printf("TimingTT took %d ns for %d iterations (1 store 1 probe)\n", elapsed.Nanoseconds(), iterations)
		out.Printf("1 store/probe in %d ns: %d tts\n",
			elapsed.Nanoseconds()/int64(iterations),
			(iterations*uint64(time.Second.Nanoseconds()))/uint64(elapsed.Nanoseconds()))
	}
}
