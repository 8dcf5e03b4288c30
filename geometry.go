package zekku

import "math"

// Vec2 is an ordered pair (x, y) over scalar kind F.
type Vec2[F any] struct {
	X, Y F
}

// Vec2Less gives Vec2 its total order: first by X, then by Y.
func Vec2Less[F any](tr Trait[F], a, b Vec2[F]) bool {
	if tr.Less(a.X, b.X) {
		return true
	}
	if tr.Less(b.X, a.X) {
		return false
	}
	return tr.Less(a.Y, b.Y)
}

// Shape is anything a tree can query against: the AABB-intersection
// predicate prunes subtrees, and Contains (for PointTree) filters candidate
// points within a surviving subtree. Trees never type-switch on Shape;
// callers may supply their own implementation.
type Shape[F any] interface {
	Intersects(b AABB[F]) bool
	Contains(p Vec2[F]) bool
}

// AABB is an axis-aligned bounding box: a center and strictly non-negative
// half-extents. Corners are Center +/- Half.
type AABB[F any] struct {
	Center Vec2[F]
	Half   Vec2[F]
	Tr     Trait[F]
}

// NewAABB builds an AABB with the given center, half-extents, and trait.
func NewAABB[F any](center, half Vec2[F], tr Trait[F]) AABB[F] {
	return AABB[F]{Center: center, Half: half, Tr: tr}
}

// Contains reports whether p lies within b, boundary included.
func (b AABB[F]) Contains(p Vec2[F]) bool {
	tr := b.Tr
	lo := tr.Sub(b.Center.X, b.Half.X)
	hi := tr.Add(b.Center.X, b.Half.X)
	if tr.Less(p.X, lo) || tr.Less(hi, p.X) {
		return false
	}
	lo = tr.Sub(b.Center.Y, b.Half.Y)
	hi = tr.Add(b.Center.Y, b.Half.Y)
	if tr.Less(p.Y, lo) || tr.Less(hi, p.Y) {
		return false
	}
	return true
}

// ContainsBox reports whether b fully contains other (all four corners).
func (b AABB[F]) ContainsBox(other AABB[F]) bool {
	tr := b.Tr
	dx := tr.Abs(tr.Sub(b.Center.X, other.Center.X))
	dy := tr.Abs(tr.Sub(b.Center.Y, other.Center.Y))
	return tr.LessEqual(tr.Add(dx, other.Half.X), b.Half.X) &&
		tr.LessEqual(tr.Add(dy, other.Half.Y), b.Half.Y)
}

// Intersects reports whether b and other overlap, boundary counting as
// intersecting: |dc| <= s1+s2 componentwise.
func (b AABB[F]) Intersects(other AABB[F]) bool {
	tr := b.Tr
	dx := tr.Abs(tr.Sub(b.Center.X, other.Center.X))
	dy := tr.Abs(tr.Sub(b.Center.Y, other.Center.Y))
	return tr.LessEqual(dx, tr.Add(b.Half.X, other.Half.X)) &&
		tr.LessEqual(dy, tr.Add(b.Half.Y, other.Half.Y))
}

// Quadrant indices: (south<<1) | east.
const (
	QuadNW = 0
	QuadNE = 1
	QuadSW = 2
	QuadSE = 3
)

// Sub returns the quadrant-q child sub-box: both extents halved, center
// shifted by (+-Half.X/2, +-Half.Y/2).
func (b AABB[F]) Sub(q int) AABB[F] {
	tr := b.Tr
	halfX := tr.Mul(b.Half.X, tr.OneHalf())
	halfY := tr.Mul(b.Half.Y, tr.OneHalf())
	cx, cy := b.Center.X, b.Center.Y
	if q&2 != 0 { // south
		cy = tr.Add(cy, halfY)
	} else {
		cy = tr.Sub(cy, halfY)
	}
	if q&1 != 0 { // east
		cx = tr.Add(cx, halfX)
	} else {
		cx = tr.Sub(cx, halfX)
	}
	return AABB[F]{Center: Vec2[F]{X: cx, Y: cy}, Half: Vec2[F]{X: halfX, Y: halfY}, Tr: tr}
}

// Quadrant classifies p against b's center for the purpose of descending
// into a child: strict '>' routes boundary points to the south/east child.
func (b AABB[F]) Quadrant(p Vec2[F]) int {
	tr := b.Tr
	q := 0
	if tr.Less(b.Center.Y, p.Y) {
		q |= 2
	}
	if tr.Less(b.Center.X, p.X) {
		q |= 1
	}
	return q
}

// Circle is a center and radius.
type Circle[F any] struct {
	Center Vec2[F]
	Radius F
	Tr     Trait[F]
}

// Contains reports whether p lies within (or on) the circle.
func (c Circle[F]) Contains(p Vec2[F]) bool {
	tr := c.Tr
	dx := tr.Sub(p.X, c.Center.X)
	dy := tr.Sub(p.Y, c.Center.Y)
	return tr.IsWithin(dx, dy, c.Radius)
}

// Intersects uses the Minkowski-shrunk distance test against b.
func (c Circle[F]) Intersects(b AABB[F]) bool {
	tr := c.Tr
	dx := tr.Abs(tr.Sub(c.Center.X, b.Center.X))
	dy := tr.Abs(tr.Sub(c.Center.Y, b.Center.Y))
	dx = tr.Sub(dx, b.Half.X)
	if tr.Less(dx, tr.Zero()) {
		dx = tr.Zero()
	}
	dy = tr.Sub(dy, b.Half.Y)
	if tr.Less(dy, tr.Zero()) {
		dy = tr.Zero()
	}
	return tr.IsWithin(dx, dy, c.Radius)
}

// Line is a segment between two endpoints.
type Line[F any, D Wide] struct {
	A, B Vec2[F]
	Tr   WideTrait[F, D]
}

// cross returns the 2-D cross product ax*by - ay*bx, widened.
func cross[F any, D Wide](tr WideTrait[F, D], ax, ay, bx, by F) D {
	return tr.LongMultiply(ax, by) - tr.LongMultiply(ay, bx)
}

// isZeroF reports whether a equals the trait's zero, without requiring F to
// be comparable with ==.
func isZeroF[F any](tr Trait[F], a F) bool {
	z := tr.Zero()
	return tr.LessEqual(a, z) && tr.LessEqual(z, a)
}

// IntersectsLine reports whether l and other cross, via the 2-D
// cross-product parametric test using widened products.
func (l Line[F, D]) IntersectsLine(other Line[F, D]) bool {
	tr := l.Tr
	rx, ry := tr.Sub(l.B.X, l.A.X), tr.Sub(l.B.Y, l.A.Y)
	sx, sy := tr.Sub(other.B.X, other.A.X), tr.Sub(other.B.Y, other.A.Y)
	denom := cross[F, D](tr, rx, ry, sx, sy)
	if denom == 0 {
		return false // parallel (or collinear; treated as non-crossing)
	}
	qpx, qpy := tr.Sub(other.A.X, l.A.X), tr.Sub(other.A.Y, l.A.Y)
	tNum := cross[F, D](tr, qpx, qpy, sx, sy)
	uNum := cross[F, D](tr, qpx, qpy, rx, ry)

	t := float64(tNum) / float64(denom)
	u := float64(uNum) / float64(denom)
	return 0 <= t && t <= 1 && 0 <= u && u <= 1
}

// IntersectsAABB clips the parametric segment against each axis's slab, the
// same method jakecoffman/cp's BB.SegmentQuery uses for ray/segment-vs-box.
func (l Line[F, D]) IntersectsAABB(b AABB[F]) bool {
	tr := l.Tr
	lo := Vec2[F]{X: tr.Sub(b.Center.X, b.Half.X), Y: tr.Sub(b.Center.Y, b.Half.Y)}
	hi := Vec2[F]{X: tr.Add(b.Center.X, b.Half.X), Y: tr.Add(b.Center.Y, b.Half.Y)}

	one := tr.Add(tr.OneHalf(), tr.OneHalf())
	tmin, tmax := tr.Zero(), one

	clipAxis := func(a0, a1, axLo, axHi F) bool {
		delta := tr.Sub(a1, a0)
		if isZeroF(tr, delta) {
			return !(tr.Less(a0, axLo) || tr.Less(axHi, a0))
		}
		t1 := tr.Div(tr.Sub(axLo, a0), delta)
		t2 := tr.Div(tr.Sub(axHi, a0), delta)
		if tr.Less(t2, t1) {
			t1, t2 = t2, t1
		}
		if tr.Less(tmin, t1) {
			tmin = t1
		}
		if tr.Less(t2, tmax) {
			tmax = t2
		}
		return true
	}

	if !clipAxis(l.A.X, l.B.X, lo.X, hi.X) {
		return false
	}
	if !clipAxis(l.A.Y, l.B.Y, lo.Y, hi.Y) {
		return false
	}
	return tr.LessEqual(tmin, tmax) && tr.LessEqual(tr.Zero(), tmax) && tr.LessEqual(tmin, one)
}

// Intersects is IntersectsAABB; together with Contains it makes Line a Shape.
func (l Line[F, D]) Intersects(b AABB[F]) bool {
	return l.IntersectsAABB(b)
}

// Contains reports whether p lies on the segment: collinear (zero widened
// cross product) and its projection parameter within [0, 1].
func (l Line[F, D]) Contains(p Vec2[F]) bool {
	tr := l.Tr
	dx, dy := tr.Sub(l.B.X, l.A.X), tr.Sub(l.B.Y, l.A.Y)
	px, py := tr.Sub(p.X, l.A.X), tr.Sub(p.Y, l.A.Y)
	if cross[F, D](tr, dx, dy, px, py) != 0 {
		return false
	}
	if isZeroF(tr, dx) && isZeroF(tr, dy) {
		return isZeroF(tr, px) && isZeroF(tr, py)
	}
	one := tr.Add(tr.OneHalf(), tr.OneHalf())
	var t F
	if tr.Less(tr.Abs(dy), tr.Abs(dx)) {
		t = tr.Div(px, dx)
	} else {
		t = tr.Div(py, dy)
	}
	return tr.LessEqual(tr.Zero(), t) && tr.LessEqual(t, one)
}

// IntersectsCircle substitutes the parametric line into the circle equation
// and solves with widened arithmetic.
func (l Line[F, D]) IntersectsCircle(c Circle[F]) bool {
	tr := l.Tr
	if c.Contains(l.A) || c.Contains(l.B) {
		return true
	}
	dx, dy := tr.Sub(l.B.X, l.A.X), tr.Sub(l.B.Y, l.A.Y)
	fx, fy := tr.Sub(l.A.X, c.Center.X), tr.Sub(l.A.Y, c.Center.Y)

	a := float64(tr.LongMultiply(dx, dx)) + float64(tr.LongMultiply(dy, dy))
	bq := 2 * (float64(tr.LongMultiply(fx, dx)) + float64(tr.LongMultiply(fy, dy)))
	cq := float64(tr.LongMultiply(fx, fx)) + float64(tr.LongMultiply(fy, fy)) - float64(tr.LongMultiply(c.Radius, c.Radius))

	disc := bq*bq - 4*a*cq
	if disc < 0 {
		return false
	}
	sq := math.Sqrt(disc)
	t1 := (-bq - sq) / (2 * a)
	t2 := (-bq + sq) / (2 * a)
	inUnit := func(t float64) bool { return 0 <= t && t <= 1 }
	return inUnit(t1) || inUnit(t2)
}

// QueryAll is a shape that matches everything; used by Map/MapIf-style
// full-tree traversals.
type QueryAll[F any] struct{}

func (QueryAll[F]) Intersects(AABB[F]) bool { return true }
func (QueryAll[F]) Contains(Vec2[F]) bool   { return true }
