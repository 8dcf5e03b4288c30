package zekku

import "sort"

// Index is the integer kind a tree's exposed handles are expressed in.
// Internally the node Pool always hands out uint32 bucket indices; Index only
// bounds how narrow the caller is allowed to make the public handle type, and
// every insert asserts the pool's live capacity still fits inside it.
type Index interface {
	~uint16 | ~uint32 | ~uint64 | ~uint
}

// maxIndex returns the largest value representable by I.
func maxIndex[I Index]() uint64 {
	var zero I
	return uint64(^zero)
}

type nodeState uint8

const (
	stateLeaf nodeState = iota
	stateStem
	stateLink
)

// pointNode is a bucket of up to nc payloads (a leaf), a four-way fan-out
// (a stem), or a singly-linked overflow chain of leaves (a link), mirroring
// rob05c/quadtree's Points/Nw/Ne/Sw/Se layout generalized to the three states
// spec.md §4.2 calls for.
type pointNode[T any] struct {
	slots    []T
	count    int
	children [4]uint32
	state    nodeState
	hash     uint64
}

// hashVec2 folds a position into the node's coincidence-detection hash. XOR
// collapses an even number of bitwise-equal positions to 0 but leaves an odd
// number nonzero, so insertAt confirms a nonzero hash over an odd count by
// comparing positions directly. A zero hash over positions that are not all
// equal only routes that leaf into an overflow chain instead of a split.
func hashVec2[F any](tr Trait[F], p Vec2[F]) uint64 {
	return tr.Bits(p.X) ^ (tr.Bits(p.Y) * 0x9E3779B97F4A7C15)
}

// PointHandle names a single payload slot: the node it lives in and its
// index within that node's slots. Node is exposed in the caller-chosen
// integer kind I; Slot is always uint16 since it is bounded by leaf capacity.
type PointHandle[I Index] struct {
	Node I
	Slot uint16
}

// PointHandleLess gives PointHandle a total order, node first then slot.
func PointHandleLess[I Index](a, b PointHandle[I]) bool {
	if a.Node != b.Node {
		return a.Node < b.Node
	}
	return a.Slot < b.Slot
}

// PointTree is a point quadtree over payload kind T, scalar kind F, and
// handle integer kind I. Insert stores T by value; Query visits payloads
// inside a caller-supplied Shape.
//
// PointTree is not safe for concurrent use.
type PointTree[T any, F any, I Index] struct {
	world AABB[F]
	tr    Trait[F]
	nc    int
	posOf func(*T) Vec2[F]
	nodes *Pool[pointNode[T]]
	root  uint32
	cfg   config
}

// NewPointTree creates a PointTree covering world, using tr for all scalar
// arithmetic and posOf to extract a payload's position.
func NewPointTree[T any, F any, I Index](world AABB[F], tr Trait[F], posOf func(*T) Vec2[F], opts ...Option) *PointTree[T, F, I] {
	c := applyOptions(opts)
	nodes := NewPool[pointNode[T]](WithRand(c.rng))
	root := nodes.Allocate(pointNode[T]{slots: make([]T, c.leafCapacity), state: stateLeaf})
	return &PointTree[T, F, I]{
		world: world,
		tr:    tr,
		nc:    c.leafCapacity,
		posOf: posOf,
		nodes: nodes,
		root:  root,
		cfg:   c,
	}
}

// Insert adds t at the position posOf(t) extracts, returning a handle to it.
// If that position falls outside the world box, or the node pool outgrows I,
// the failure is panicked (the default) or returned, per WithFailFast.
func (pt *PointTree[T, F, I]) Insert(t T) (PointHandle[I], error) {
	var zero PointHandle[I]
	pos := pt.posOf(&t)
	if !pt.world.Contains(pos) {
		return zero, fail(pt.cfg.failFast, &OutOfRangeError{What: "position"})
	}
	h, err := pt.insertAt(pt.root, pt.world, t, pos)
	if err != nil {
		return zero, err
	}
	if uint64(pt.nodes.Cap()) > maxIndex[I]() {
		return h, fail(pt.cfg.failFast, &HandleCapacityExceededError{
			Capacity: uint64(pt.nodes.Cap()),
			MaxIndex: maxIndex[I](),
		})
	}
	return h, nil
}

// insertAt places (payload, pos) somewhere at or below cur/box, splitting or
// extending an overflow chain as needed, per spec.md §4.2.
func (pt *PointTree[T, F, I]) insertAt(cur uint32, box AABB[F], payload T, pos Vec2[F]) (PointHandle[I], error) {
	var zero PointHandle[I]
	node := pt.nodes.Get(cur)
	switch node.state {
	case stateStem:
		q := box.Quadrant(pos)
		return pt.insertAt(node.children[q], box.Sub(q), payload, pos)

	case stateLink:
		return pt.insertAt(node.children[0], box, payload, pos)

	default: // stateLeaf
		if node.count < pt.nc {
			slot := node.count
			node.slots[slot] = payload
			node.hash ^= hashVec2(pt.tr, pos)
			node.count++
			return PointHandle[I]{Node: I(cur), Slot: uint16(slot)}, nil
		}

		coincident := node.hash == 0
		if !coincident && node.count%2 == 1 {
			h := hashVec2(pt.tr, pos)
			coincident = true
			for i := 0; i < node.count && coincident; i++ {
				coincident = hashVec2(pt.tr, pt.posOf(&node.slots[i])) == h
			}
		}

		if !coincident {
			// Not every existing slot is bitwise-coincident: split into a
			// stem and redistribute, the same recursive-subdivide-then-
			// reinsert policy as rob05c/quadtree's Subdivide.
			old := make([]T, len(node.slots))
			copy(old, node.slots)
			oldCount := node.count

			var children [4]uint32
			for i := 0; i < 4; i++ {
				children[i] = pt.nodes.Allocate(pointNode[T]{slots: make([]T, pt.nc), state: stateLeaf})
			}
			// Allocate may have grown the pool and invalidated node; refetch
			// before mutating it further.
			node = pt.nodes.Get(cur)
			node.state = stateStem
			node.children = children
			node.slots = nil
			node.count = 0
			node.hash = 0

			for i := 0; i < oldCount; i++ {
				oldPos := pt.posOf(&old[i])
				if _, err := pt.insertAt(cur, box, old[i], oldPos); err != nil {
					return zero, err
				}
			}
			return pt.insertAt(cur, box, payload, pos)
		}

		// Every existing slot is bitwise-coincident with every other: a
		// split would recurse forever since all nc+1 points land in the
		// same child every time. Extend an overflow chain instead.
		newLeaf := pt.nodes.Allocate(pointNode[T]{slots: make([]T, pt.nc), state: stateLeaf})
		node = pt.nodes.Get(cur)
		node.children[0] = newLeaf
		node.state = stateLink
		return pt.insertAt(newLeaf, box, payload, pos)
	}
}

// Deref returns a pointer to the payload h names. Behavior is undefined if h
// is stale.
func (pt *PointTree[T, F, I]) Deref(h PointHandle[I]) *T {
	node := pt.nodes.Get(uint32(h.Node))
	return &node.slots[h.Slot]
}

// QueryFunc invokes f for every payload whose position is in shape, pruning
// subtrees whose box doesn't intersect shape.
func (pt *PointTree[T, F, I]) QueryFunc(shape Shape[F], f func(PointHandle[I], *T)) {
	pt.queryAt(pt.root, pt.world, shape, func(h PointHandle[I], t *T) bool {
		f(h, t)
		return true
	})
}

// QueryMutFunc is QueryFunc, but f may mutate the payload in place (it is
// handed a pointer into the tree's own storage) and stop early by returning
// false.
func (pt *PointTree[T, F, I]) QueryMutFunc(shape Shape[F], f func(PointHandle[I], *T) bool) {
	pt.queryAt(pt.root, pt.world, shape, f)
}

// Query collects every payload in shape into a slice, ordered by Vec2Less
// over position. Payloads at equal positions are in no defined order
// relative to each other.
func (pt *PointTree[T, F, I]) Query(shape Shape[F]) []T {
	var out []T
	pt.QueryFunc(shape, func(_ PointHandle[I], t *T) { out = append(out, *t) })
	sort.Slice(out, func(i, j int) bool {
		return Vec2Less(pt.tr, pt.posOf(&out[i]), pt.posOf(&out[j]))
	})
	return out
}

func (pt *PointTree[T, F, I]) queryAt(cur uint32, box AABB[F], shape Shape[F], f func(PointHandle[I], *T) bool) bool {
	if !shape.Intersects(box) {
		return true
	}
	node := pt.nodes.Get(cur)
	switch node.state {
	case stateStem:
		for q := 0; q < 4; q++ {
			if !pt.queryAt(node.children[q], box.Sub(q), shape, f) {
				return false
			}
		}
		return true
	case stateLink:
		for i := 0; i < node.count; i++ {
			if shape.Contains(pt.posOf(&node.slots[i])) {
				if !f(PointHandle[I]{Node: I(cur), Slot: uint16(i)}, &node.slots[i]) {
					return false
				}
			}
		}
		return pt.queryAt(node.children[0], box, shape, f)
	default: // stateLeaf
		for i := 0; i < node.count; i++ {
			if shape.Contains(pt.posOf(&node.slots[i])) {
				if !f(PointHandle[I]{Node: I(cur), Slot: uint16(i)}, &node.slots[i]) {
					return false
				}
			}
		}
		return true
	}
}

// sibling builds a fresh, empty PointTree over the same world, trait,
// position extractor, and options as pt. Map and its variants insert into a
// sibling rather than mutating pt in place.
func (pt *PointTree[T, F, I]) sibling() *PointTree[T, F, I] {
	return NewPointTree[T, F, I](pt.world, pt.tr, pt.posOf,
		WithLeafCapacity(pt.nc),
		WithFailFast(pt.cfg.failFast),
		WithRand(pt.cfg.rng),
		WithLogger(pt.cfg.logger))
}

// Map builds and returns a new PointTree holding f(t) for every payload t in
// pt, visited under QueryAll via the read-only traversal. pt itself is
// unmodified.
func (pt *PointTree[T, F, I]) Map(f func(T) T) *PointTree[T, F, I] {
	q := pt.sibling()
	pt.QueryFunc(QueryAll[F]{}, func(_ PointHandle[I], t *T) {
		_, _ = q.Insert(f(*t))
	})
	return q
}

// MapMut is Map, but visits payloads through the mutable traversal
// (QueryMutFunc) rather than the read-only one; f still returns the value
// to insert into the new tree rather than editing pt's storage.
func (pt *PointTree[T, F, I]) MapMut(f func(T) T) *PointTree[T, F, I] {
	q := pt.sibling()
	pt.QueryMutFunc(QueryAll[F]{}, func(_ PointHandle[I], t *T) bool {
		_, _ = q.Insert(f(*t))
		return true
	})
	return q
}

// MapIf is Map, but only payloads matching pred are transformed and
// inserted into the new tree; the rest are dropped.
func (pt *PointTree[T, F, I]) MapIf(f func(T) T, pred func(T) bool) *PointTree[T, F, I] {
	q := pt.sibling()
	pt.QueryFunc(QueryAll[F]{}, func(_ PointHandle[I], t *T) {
		if pred(*t) {
			_, _ = q.Insert(f(*t))
		}
	})
	return q
}

// MapMutIf is MapMut, but only payloads matching pred are transformed and
// inserted into the new tree; the rest are dropped.
func (pt *PointTree[T, F, I]) MapMutIf(f func(T) T, pred func(T) bool) *PointTree[T, F, I] {
	q := pt.sibling()
	pt.QueryMutFunc(QueryAll[F]{}, func(_ PointHandle[I], t *T) bool {
		if pred(*t) {
			_, _ = q.Insert(f(*t))
		}
		return true
	})
	return q
}
