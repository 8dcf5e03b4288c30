package zekku

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRadixSortUint32MatchesStdlibSort(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 22))
	keys := make([]uint32, 500)
	for i := range keys {
		keys[i] = rng.Uint32()
	}
	want := make([]uint32, len(keys))
	copy(want, keys)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

	radixSortUint32(keys)
	assert.Equal(t, want, keys)
}

func TestRadixSortUint32SmallSlices(t *testing.T) {
	empty := []uint32{}
	radixSortUint32(empty)
	assert.Empty(t, empty)

	single := []uint32{7}
	radixSortUint32(single)
	assert.Equal(t, []uint32{7}, single)
}

func TestDedupUint32RemovesDuplicates(t *testing.T) {
	keys := []uint32{5, 1, 5, 3, 1, 1, 2}
	got := dedupUint32(keys)
	assert.Equal(t, []uint32{1, 2, 3, 5}, got)
}

func TestDedupHandlesEchoedStraddlerCollapsesToOne(t *testing.T) {
	// Simulates the superseded duplicate-per-quadrant query policy: the same
	// straddling payload reported once per child it was echoed into.
	handles := []BoxHandle{{Index: 3}, {Index: 1}, {Index: 3}, {Index: 3}, {Index: 2}}
	got := DedupHandles(handles)
	indices := make([]uint32, len(got))
	for i, h := range got {
		indices[i] = h.Index
	}
	assert.Equal(t, []uint32{1, 2, 3}, indices)
}
