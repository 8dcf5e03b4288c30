package zekku

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat64TraitArithmetic(t *testing.T) {
	var tr Float64Trait
	assert.Equal(t, 5.0, tr.Add(2, 3))
	assert.Equal(t, -1.0, tr.Sub(2, 3))
	assert.Equal(t, 6.0, tr.Mul(2, 3))
	assert.Equal(t, 2.0, tr.Div(6, 3))
	assert.Equal(t, -2.0, tr.Neg(2))
	assert.Equal(t, 0.0, tr.Zero())
	assert.Equal(t, 0.5, tr.OneHalf())
}

func TestFloat64TraitOrdering(t *testing.T) {
	var tr Float64Trait
	assert.True(t, tr.Less(1, 2))
	assert.False(t, tr.Less(2, 1))
	assert.True(t, tr.LessEqual(2, 2))
	assert.True(t, tr.LessEqual(1, 2))
	assert.False(t, tr.LessEqual(2, 1))
}

func TestFloat64TraitAbsHypot(t *testing.T) {
	var tr Float64Trait
	assert.Equal(t, 3.0, tr.Abs(-3))
	assert.Equal(t, 5.0, tr.Hypot(3, 4))
}

func TestFloat64TraitIsWithin(t *testing.T) {
	var tr Float64Trait
	assert.True(t, tr.IsWithin(3, 4, 5))
	assert.True(t, tr.IsWithin(0, 0, 0))
	assert.False(t, tr.IsWithin(3, 4, 4.999))
}

func TestFloat64TraitBits(t *testing.T) {
	var tr Float64Trait
	assert.Equal(t, tr.Bits(1.5), tr.Bits(1.5))
	assert.NotEqual(t, tr.Bits(1.5), tr.Bits(2.5))
	assert.Equal(t, math.Float64bits(0), tr.Bits(0))
}

func TestFloat64TraitWide(t *testing.T) {
	var tr Float64Trait
	assert.Equal(t, 6.0, tr.LongMultiply(2, 3))
	assert.Equal(t, 3.0, tr.Sqrt(9))
}

// fixedQ16_16 is a signed 16.16 fixed-point scalar, test-only: it exists
// solely to exercise Trait/WideTrait against a scalar kind other than
// float64, the way spec.md §2 says the trait abstraction is meant to permit.
// It is backed by int32 (16 integer bits, 16 fraction bits) and widens
// through WideTrait into int64, one of the kinds Wide allows.
type fixedQ16_16 int32

const fixedScale = 1 << 16

func toFixed(f float64) fixedQ16_16 { return fixedQ16_16(math.Round(f * fixedScale)) }
func (f fixedQ16_16) toFloat() float64 { return float64(f) / fixedScale }

// isqrt64 returns floor(sqrt(x)) for x >= 0, using math.Sqrt as a seed and
// correcting for float64 rounding at the boundary.
func isqrt64(x int64) int64 {
	if x <= 0 {
		return 0
	}
	r := int64(math.Sqrt(float64(x)))
	for r > 0 && r*r > x {
		r--
	}
	for (r+1)*(r+1) <= x {
		r++
	}
	return r
}

type FixedTrait struct{}

var _ WideTrait[fixedQ16_16, int64] = FixedTrait{}

func (FixedTrait) Add(a, b fixedQ16_16) fixedQ16_16 { return a + b }
func (FixedTrait) Sub(a, b fixedQ16_16) fixedQ16_16 { return a - b }
func (FixedTrait) Mul(a, b fixedQ16_16) fixedQ16_16 {
	return fixedQ16_16((int64(a) * int64(b)) >> 16)
}
func (FixedTrait) Div(a, b fixedQ16_16) fixedQ16_16 {
	return fixedQ16_16((int64(a) << 16) / int64(b))
}
func (FixedTrait) Neg(a fixedQ16_16) fixedQ16_16 { return -a }
func (FixedTrait) Zero() fixedQ16_16             { return 0 }
func (FixedTrait) OneHalf() fixedQ16_16          { return fixedQ16_16(1 << 15) }

func (FixedTrait) Less(a, b fixedQ16_16) bool      { return a < b }
func (FixedTrait) LessEqual(a, b fixedQ16_16) bool { return a <= b }

func (FixedTrait) Abs(a fixedQ16_16) fixedQ16_16 {
	if a < 0 {
		return -a
	}
	return a
}

// Hypot computes sqrt(a*a+b*b) by widening to int64 before taking the
// integer square root: a, b are already scaled by 2^16, so a*a+b*b is
// scaled by 2^32 and its integer square root comes back out scaled by 2^16,
// exactly fixedQ16_16's native scale.
func (FixedTrait) Hypot(a, b fixedQ16_16) fixedQ16_16 {
	sum := int64(a)*int64(a) + int64(b)*int64(b)
	return fixedQ16_16(isqrt64(sum))
}

func (FixedTrait) IsWithin(dx, dy, r fixedQ16_16) bool {
	d := int64(dx)*int64(dx) + int64(dy)*int64(dy)
	return d <= int64(r)*int64(r)
}

func (FixedTrait) Bits(a fixedQ16_16) uint64 { return uint64(uint32(a)) }

// LongMultiply returns the exact widened product of two fixedQ16_16 values
// without rescaling; ratios built from it (as Line's intersection tests do)
// cancel the shared 2^32 scale factor regardless.
func (FixedTrait) LongMultiply(a, b fixedQ16_16) int64 { return int64(a) * int64(b) }

// Sqrt inverts LongMultiply's scale: d is a 2^32-scaled squared magnitude,
// and isqrt64 brings it back to fixedQ16_16's native 2^16 scale.
func (FixedTrait) Sqrt(d int64) fixedQ16_16 { return fixedQ16_16(isqrt64(d)) }

func TestFixedTraitArithmeticMatchesFloat64WithinFixedPrecision(t *testing.T) {
	var tr FixedTrait
	const eps = 1.0 / fixedScale

	a, b := toFixed(3.5), toFixed(1.25)
	assert.InDelta(t, 4.75, tr.Add(a, b).toFloat(), eps)
	assert.InDelta(t, 2.25, tr.Sub(a, b).toFloat(), eps)
	assert.InDelta(t, 4.375, tr.Mul(a, b).toFloat(), eps)
	assert.InDelta(t, 2.8, tr.Div(a, b).toFloat(), eps)
	assert.InDelta(t, -3.5, tr.Neg(a).toFloat(), eps)
	assert.Equal(t, 0.0, tr.Zero().toFloat())
	assert.Equal(t, 0.5, tr.OneHalf().toFloat())
}

func TestFixedTraitOrdering(t *testing.T) {
	var tr FixedTrait
	lo, hi := toFixed(1), toFixed(2)
	assert.True(t, tr.Less(lo, hi))
	assert.False(t, tr.Less(hi, lo))
	assert.True(t, tr.LessEqual(lo, lo))
	assert.False(t, tr.LessEqual(hi, lo))
}

func TestFixedTraitAbsHypot(t *testing.T) {
	var tr FixedTrait
	const eps = 4.0 / fixedScale
	assert.Equal(t, toFixed(3), tr.Abs(toFixed(-3)))
	assert.InDelta(t, 5.0, tr.Hypot(toFixed(3), toFixed(4)).toFloat(), eps)
}

func TestFixedTraitIsWithin(t *testing.T) {
	var tr FixedTrait
	assert.True(t, tr.IsWithin(toFixed(3), toFixed(4), toFixed(5)))
	assert.False(t, tr.IsWithin(toFixed(3), toFixed(4), toFixed(4)))
}

func TestFixedTraitBits(t *testing.T) {
	var tr FixedTrait
	a := toFixed(1.5)
	assert.Equal(t, tr.Bits(a), tr.Bits(a))
	assert.NotEqual(t, tr.Bits(toFixed(1.5)), tr.Bits(toFixed(2.5)))
}

func TestFixedTraitWide(t *testing.T) {
	var tr FixedTrait
	const eps = 4.0 / fixedScale
	a, b := toFixed(2), toFixed(3)
	assert.Equal(t, int64(a)*int64(b), tr.LongMultiply(a, b))
	nine := tr.LongMultiply(toFixed(3), toFixed(3))
	assert.InDelta(t, 3.0, tr.Sqrt(nine).toFloat(), eps)
}
