package zekku

// radixSortUint32 sorts keys in place with an LSD radix sort over four 8-bit
// digit passes, ping-ponging between keys and a scratch buffer of the same
// length.
//
// This is not used by BoxTree's own query path: straddle-promotion (see
// insertAt in boxtree.go) stamps every payload at exactly one node, so
// QueryFunc never produces duplicates to begin with. It exists because
// spec.md's superseded design stamped a straddling box into every child it
// overlapped and relied on a sort-then-dedup pass to remove the resulting
// echoes before returning results to the caller; this function reconstructs
// that pass, and radixsort_test.go exercises it on its own.
func radixSortUint32(keys []uint32) {
	n := len(keys)
	if n < 2 {
		return
	}
	scratch := make([]uint32, n)
	src, dst := keys, scratch
	var count [257]int
	for shift := uint(0); shift < 32; shift += 8 {
		for i := range count {
			count[i] = 0
		}
		for _, k := range src {
			d := (k >> shift) & 0xFF
			count[d+1]++
		}
		for i := 1; i < len(count); i++ {
			count[i] += count[i-1]
		}
		for _, k := range src {
			d := (k >> shift) & 0xFF
			dst[count[d]] = k
			count[d]++
		}
		src, dst = dst, src
	}
	if &src[0] != &keys[0] {
		copy(keys, src)
	}
}

// dedupUint32 sorts keys via radixSortUint32 and removes adjacent duplicates
// in place, returning the deduplicated prefix.
func dedupUint32(keys []uint32) []uint32 {
	radixSortUint32(keys)
	if len(keys) == 0 {
		return keys
	}
	w := 1
	for r := 1; r < len(keys); r++ {
		if keys[r] != keys[w-1] {
			keys[w] = keys[r]
			w++
		}
	}
	return keys[:w]
}

// DedupHandles returns a new slice holding handles sorted by payload index
// with duplicates removed; handles itself is left unchanged. It documents and exercises the superseded
// echo-then-dedup query policy described in radixSortUint32's comment; a
// tree built with this package's straddle-promotion insert never needs it on
// its own query path.
func DedupHandles(handles []BoxHandle) []BoxHandle {
	keys := make([]uint32, len(handles))
	byKey := make(map[uint32]BoxHandle, len(handles))
	for i, h := range handles {
		keys[i] = h.Index
		byKey[h.Index] = h
	}
	keys = dedupUint32(keys)
	out := make([]BoxHandle, len(keys))
	for i, k := range keys {
		out[i] = byKey[k]
	}
	return out
}
