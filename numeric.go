package zekku

import "math"

// Trait is the numeric contract the trees and geometry types need from a
// scalar kind F. It exists so PointTree, BoxTree, and the geometry types can
// operate over either IEEE floats or a fixed-point scalar without any
// conditional compilation on the scalar: callers inject the Trait for their F
// once, at construction.
//
// Go has no operator overloading for generic type parameters over struct
// types, so arithmetic and comparisons that spec.md expresses as operators
// (+, -, <, etc.) are methods here instead.
type Trait[F any] interface {
	Add(a, b F) F
	Sub(a, b F) F
	Mul(a, b F) F
	// Div is not part of spec.md's minimal numeric-trait contract, but Line's
	// segment-vs-AABB slab clip and point-on-segment projection need a ratio
	// expressed in F, not just comparisons; every scalar kind with OneHalf
	// (an exact 0.5) naturally supports division too.
	Div(a, b F) F
	Neg(a F) F
	Zero() F
	// OneHalf is the exact representation of 0.5 in F.
	OneHalf() F
	Less(a, b F) bool
	LessEqual(a, b F) bool
	Abs(a F) F
	Hypot(a, b F) F
	// IsWithin reports dx*dx+dy*dy <= r*r using whatever internal precision
	// avoids overflow for F.
	IsWithin(dx, dy, r F) bool
	// Bits returns a reproducible bit pattern for a: equal values of F must
	// produce equal Bits. Not part of spec.md's numeric-trait contract, but
	// needed by PointTree/BoxTree's per-node XOR coincidence hash, which
	// otherwise has no way to fold an arbitrary scalar kind into a uint64.
	Bits(a F) uint64
}

// Wide is the constraint on a Trait's widened product type D. In practice
// every fixed-point or float scalar kind widens into one of these built-in
// numeric kinds, so D gets native +, -, *, /, <, == from Go itself instead of
// needing its own Trait; only F (which may be an arbitrary struct, e.g. a
// fixed-point type) needs the full method-based Trait.
type Wide interface {
	~int32 | ~int64 | ~float32 | ~float64
}

// WideTrait extends Trait with the widened-product operations spec.md's
// Line intersection tests need: an exact product type D wide enough to hold
// F*F without loss, and a square root back down to F.
type WideTrait[F any, D Wide] interface {
	Trait[F]
	LongMultiply(a, b F) D
	Sqrt(d D) F
}

// Float64Trait implements Trait[float64] and WideTrait[float64, float64]
// using the standard library's math package. It is the only scalar kind this
// module ships; a fixed-point scalar is an external collaborator per
// spec.md's non-goals, and would implement the same two interfaces.
type Float64Trait struct{}

var _ WideTrait[float64, float64] = Float64Trait{}

func (Float64Trait) Add(a, b float64) float64 { return a + b }
func (Float64Trait) Sub(a, b float64) float64 { return a - b }
func (Float64Trait) Mul(a, b float64) float64 { return a * b }
func (Float64Trait) Div(a, b float64) float64 { return a / b }
func (Float64Trait) Neg(a float64) float64    { return -a }
func (Float64Trait) Zero() float64            { return 0 }
func (Float64Trait) OneHalf() float64         { return 0.5 }

func (Float64Trait) Less(a, b float64) bool      { return a < b }
func (Float64Trait) LessEqual(a, b float64) bool { return a <= b }

func (Float64Trait) Abs(a float64) float64   { return math.Abs(a) }
func (Float64Trait) Hypot(a, b float64) float64 { return math.Hypot(a, b) }

func (Float64Trait) IsWithin(dx, dy, r float64) bool {
	return dx*dx+dy*dy <= r*r
}

func (Float64Trait) Bits(a float64) uint64 { return math.Float64bits(a) }

// LongMultiply returns the product of a and b. float64's 53-bit mantissa
// already gives ample headroom for the magnitudes this index deals with, so
// no wider intermediate type is used; a scalar kind that actually needs exact
// widening (e.g. a fixed-point type backed by int32) would return a wider
// integer type here instead.
func (Float64Trait) LongMultiply(a, b float64) float64 { return a * b }

func (Float64Trait) Sqrt(d float64) float64 { return math.Sqrt(d) }
