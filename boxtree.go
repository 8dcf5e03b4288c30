package zekku

// boxNode is a bucket of up to nc stamped box-payload indices (a leaf), a
// four-way fan-out holding its own unbounded list of straddling payloads plus
// four children (a stem), or a continuation of an overflow chain (a link).
// Leaf vs stem vs link is the two-boolean tag isStem/isLink describes;
// isStem && isLink is never produced.
type boxNode struct {
	slots    []uint32 // leaf/link: fixed len nc, valid up to count. stem: straddlers, grows by append.
	count    int      // leaf/link only
	hash     uint64
	children [4]uint32 // stem: four quadrant children. leaf/link when isLink: children[0] is the chain continuation.
	isStem   bool
	isLink   bool
}

// hashBox folds a box into a node's coincidence-detection hash, the same
// XOR-approximation policy as hashVec2.
func hashBox[F any](tr Trait[F], b AABB[F]) uint64 {
	h := hashVec2(tr, b.Center)
	h ^= hashVec2(tr, b.Half) * 0xC2B2AE3D27D4EB4F
	return h
}

// quadrantFit reports which single quadrant of nodeBox fully contains objBox,
// if any. A box that straddles either split line fits no single quadrant and
// must be stamped at nodeBox's own stem instead of being pushed down and
// duplicated into more than one child.
func quadrantFit[F any](tr Trait[F], nodeBox, objBox AABB[F]) (int, bool) {
	center := nodeBox.Center
	lo := Vec2[F]{X: tr.Sub(objBox.Center.X, objBox.Half.X), Y: tr.Sub(objBox.Center.Y, objBox.Half.Y)}
	hi := Vec2[F]{X: tr.Add(objBox.Center.X, objBox.Half.X), Y: tr.Add(objBox.Center.Y, objBox.Half.Y)}

	north := tr.LessEqual(hi.Y, center.Y)
	south := tr.Less(center.Y, lo.Y)
	west := tr.LessEqual(hi.X, center.X)
	east := tr.Less(center.X, lo.X)

	if !north && !south {
		return 0, false
	}
	if !west && !east {
		return 0, false
	}
	q := 0
	if south {
		q |= 2
	}
	if east {
		q |= 1
	}
	return q, true
}

// BoxHandle names a single payload in a BoxTree's canonical payload pool.
// Unlike PointHandle it is always a plain uint32: a box payload lives in
// exactly one place (its own pool slot), never duplicated across nodes, so
// there is no per-node slot component to encode.
type BoxHandle struct {
	Index uint32
}

// BoxTree is a bounding-box quadtree over payload kind T, scalar kind F, and
// node-handle integer kind I. Payloads are stored once each, in a canonical
// Pool; straddling boxes are stamped at the lowest stem that fully encloses
// them rather than duplicated into every child they overlap, so Query never
// has to deduplicate results.
//
// BoxTree is not safe for concurrent use.
type BoxTree[T any, F any, I Index] struct {
	world    AABB[F]
	tr       Trait[F]
	nc       int
	boxOf    func(*T) AABB[F]
	payloads *Pool[T]
	nodes    *Pool[boxNode]
	root     uint32
	cfg      config
}

// NewBoxTree creates a BoxTree covering world, using tr for all scalar
// arithmetic and boxOf to extract a payload's bounding box.
func NewBoxTree[T any, F any, I Index](world AABB[F], tr Trait[F], boxOf func(*T) AABB[F], opts ...Option) *BoxTree[T, F, I] {
	c := applyOptions(opts)
	nodes := NewPool[boxNode](WithRand(c.rng))
	root := nodes.Allocate(boxNode{slots: make([]uint32, c.leafCapacity)})
	return &BoxTree[T, F, I]{
		world:    world,
		tr:       tr,
		nc:       c.leafCapacity,
		boxOf:    boxOf,
		payloads: NewPool[T](WithRand(c.rng)),
		nodes:    nodes,
		root:     root,
		cfg:      c,
	}
}

// Insert adds t at the box boxOf(t) extracts, returning a handle to it. If
// that box isn't fully contained in the world box, or the node pool outgrows
// I, the failure is panicked (the default) or returned, per WithFailFast.
func (bt *BoxTree[T, F, I]) Insert(t T) (BoxHandle, error) {
	objBox := bt.boxOf(&t)
	if !bt.world.ContainsBox(objBox) {
		return BoxHandle{}, fail(bt.cfg.failFast, &OutOfRangeError{What: "box"})
	}
	idx := bt.payloads.Allocate(t)
	h := BoxHandle{Index: idx}
	if err := bt.insertAt(bt.root, bt.world, idx, objBox); err != nil {
		return h, err
	}
	if uint64(bt.nodes.Cap()) > maxIndex[I]() {
		return h, fail(bt.cfg.failFast, &HandleCapacityExceededError{
			Capacity: uint64(bt.nodes.Cap()),
			MaxIndex: maxIndex[I](),
		})
	}
	return h, nil
}

func (bt *BoxTree[T, F, I]) insertAt(cur uint32, nodeBox AABB[F], payloadIdx uint32, objBox AABB[F]) error {
	node := bt.nodes.Get(cur)

	if node.isStem {
		if q, fits := quadrantFit(bt.tr, nodeBox, objBox); fits {
			return bt.insertAt(node.children[q], nodeBox.Sub(q), payloadIdx, objBox)
		}
		node.slots = append(node.slots, payloadIdx)
		node.hash ^= hashBox(bt.tr, objBox)
		return nil
	}

	if node.isLink {
		return bt.insertAt(node.children[0], nodeBox, payloadIdx, objBox)
	}

	// Leaf.
	if node.count < bt.nc {
		node.slots[node.count] = payloadIdx
		node.hash ^= hashBox(bt.tr, objBox)
		node.count++
		return nil
	}

	if node.hash != 0 {
		old := make([]uint32, node.count)
		copy(old, node.slots[:node.count])

		var children [4]uint32
		for i := 0; i < 4; i++ {
			children[i] = bt.nodes.Allocate(boxNode{slots: make([]uint32, bt.nc)})
		}
		node = bt.nodes.Get(cur)
		node.isStem = true
		node.children = children
		node.slots = nil
		node.count = 0
		node.hash = 0

		for _, idx := range old {
			box := bt.boxOf(bt.payloads.Get(idx))
			if err := bt.insertAt(cur, nodeBox, idx, box); err != nil {
				return err
			}
		}
		return bt.insertAt(cur, nodeBox, payloadIdx, objBox)
	}

	// Every existing box is bitwise-coincident with every other: splitting
	// would just recreate the same overflowing leaf at the next level down.
	newLeaf := bt.nodes.Allocate(boxNode{slots: make([]uint32, bt.nc)})
	node = bt.nodes.Get(cur)
	node.children[0] = newLeaf
	node.isLink = true
	return bt.insertAt(newLeaf, nodeBox, payloadIdx, objBox)
}

// Deref returns a pointer to the payload h names. Behavior is undefined if h
// is stale.
func (bt *BoxTree[T, F, I]) Deref(h BoxHandle) *T {
	return bt.payloads.Get(h.Index)
}

// QueryFunc invokes f for every payload whose box intersects shape.
// Straddle-promotion means every payload is visited at most once, so no
// caller-side deduplication is needed.
func (bt *BoxTree[T, F, I]) QueryFunc(shape Shape[F], f func(BoxHandle, *T)) {
	bt.queryAt(bt.root, bt.world, shape, func(h BoxHandle, t *T) bool {
		f(h, t)
		return true
	})
}

// QueryMutFunc is QueryFunc, but f may mutate the payload in place and stop
// the traversal early by returning false.
func (bt *BoxTree[T, F, I]) QueryMutFunc(shape Shape[F], f func(BoxHandle, *T) bool) {
	bt.queryAt(bt.root, bt.world, shape, f)
}

// Query collects every payload whose box intersects shape into a slice.
func (bt *BoxTree[T, F, I]) Query(shape Shape[F]) []T {
	var out []T
	bt.QueryFunc(shape, func(_ BoxHandle, t *T) { out = append(out, *t) })
	return out
}

func (bt *BoxTree[T, F, I]) queryAt(cur uint32, nodeBox AABB[F], shape Shape[F], f func(BoxHandle, *T) bool) bool {
	if !shape.Intersects(nodeBox) {
		return true
	}
	node := bt.nodes.Get(cur)

	if node.isStem {
		for _, idx := range node.slots {
			t := bt.payloads.Get(idx)
			if shape.Intersects(bt.boxOf(t)) {
				if !f(BoxHandle{Index: idx}, t) {
					return false
				}
			}
		}
		for q := 0; q < 4; q++ {
			if !bt.queryAt(node.children[q], nodeBox.Sub(q), shape, f) {
				return false
			}
		}
		return true
	}

	for i := 0; i < node.count; i++ {
		idx := node.slots[i]
		t := bt.payloads.Get(idx)
		if shape.Intersects(bt.boxOf(t)) {
			if !f(BoxHandle{Index: idx}, t) {
				return false
			}
		}
	}
	if node.isLink {
		return bt.queryAt(node.children[0], nodeBox, shape, f)
	}
	return true
}

// Apply invokes f on every live payload in place, then rebuilds the node
// tree from scratch against the (possibly now-relocated) boxes. Payload
// indices, and therefore every BoxHandle, survive Apply unchanged; any
// node-path state a caller cached outside the tree does not.
func (bt *BoxTree[T, F, I]) Apply(f func(*T)) error {
	for it := bt.payloads.Begin(); it.Next(); {
		f(it.Value())
	}

	nodes := NewPool[boxNode](WithRand(bt.cfg.rng))
	root := nodes.Allocate(boxNode{slots: make([]uint32, bt.nc)})
	bt.nodes = nodes
	bt.root = root

	for it := bt.payloads.Begin(); it.Next(); {
		idx := it.Handle()
		box := bt.boxOf(it.Value())
		if err := bt.insertAt(bt.root, bt.world, idx, box); err != nil {
			return err
		}
	}
	if uint64(bt.nodes.Cap()) > maxIndex[I]() {
		return fail(bt.cfg.failFast, &HandleCapacityExceededError{
			Capacity: uint64(bt.nodes.Cap()),
			MaxIndex: maxIndex[I](),
		})
	}
	return nil
}
