package lattice

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WrapTolerance is the cartesian distance (Angstrom) within which a
// fractional coordinate is considered to lie on a cell boundary.
const WrapTolerance = 0.05

// degenerateRatio bounds |det(B)| / (|a||b||c|); below it the cell has no
// usable volume.
const degenerateRatio = 1e-10

// Basis holds the three cell vectors a, b, c in cartesian units. Computed
// once per load and read-only afterwards.
type Basis [3]mgl64.Vec3

// NewBasis builds a basis from the row-major 3x3 cell of a descriptor.
func NewBasis(cell [3][3]float64) Basis {
	var b Basis
	for i := range cell {
		b[i] = mgl64.Vec3{cell[i][0], cell[i][1], cell[i][2]}
	}
	return b
}

// Columns returns B transposed, the matrix mapping a fractional column
// vector onto its cartesian position.
func (b Basis) Columns() mgl64.Mat3 {
	return mgl64.Mat3FromCols(b[0], b[1], b[2])
}

// Lengths returns |a|, |b|, |c|.
func (b Basis) Lengths() [3]float64 {
	return [3]float64{b[0].Len(), b[1].Len(), b[2].Len()}
}

// Degenerate reports whether the basis vectors do not span 3D space.
func (b Basis) Degenerate() bool {
	l := b.Lengths()
	scale := l[0] * l[1] * l[2]
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return true
	}
	return math.Abs(b.Columns().Det())/scale < degenerateRatio
}

// ToCartesian maps a fractional position f onto f.x*a + f.y*b + f.z*c.
func (b Basis) ToCartesian(f mgl64.Vec3) mgl64.Vec3 {
	return b[0].Mul(f[0]).Add(b[1].Mul(f[1])).Add(b[2].Mul(f[2]))
}

// ToFractional is the inverse of ToCartesian. It fails with
// ErrDegenerateCell instead of producing NaN or Inf.
func (b Basis) ToFractional(c mgl64.Vec3) (mgl64.Vec3, error) {
	inv, err := b.inverse()
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return inv.Mul3x1(c), nil
}

// AllToFractional converts a batch of cartesian positions, inverting the
// basis only once.
func (b Basis) AllToFractional(cart []mgl64.Vec3) ([]mgl64.Vec3, error) {
	inv, err := b.inverse()
	if err != nil {
		return nil, err
	}
	out := make([]mgl64.Vec3, len(cart))
	for i, c := range cart {
		out[i] = inv.Mul3x1(c)
	}
	return out, nil
}

func (b Basis) inverse() (mgl64.Mat3, error) {
	if b.Degenerate() {
		return mgl64.Mat3{}, ErrDegenerateCell
	}
	return b.Columns().Inv(), nil
}

// Center returns the geometric center of the cell, (a+b+c)/2.
func (b Basis) Center() mgl64.Vec3 {
	return b[0].Add(b[1]).Add(b[2]).Mul(0.5)
}

// AlmostEqual reports whether a fractional coordinate lies within tolerance
// of target, measured as a cartesian displacement along axis.
func AlmostEqual(target, coordinate float64, axis mgl64.Vec3, tolerance float64) bool {
	return math.Abs(coordinate-target)*axis.Len() < tolerance
}

// Wrap moves coordinates sitting on the far face of the cell (fractional 1
// on a periodic axis) back onto the near face. Non-periodic axes are left
// untouched.
func Wrap(f mgl64.Vec3, b Basis, pbc Periodicity) mgl64.Vec3 {
	for i := 0; i < 3; i++ {
		if pbc[i] && AlmostEqual(1, f[i], b[i], WrapTolerance) {
			f[i] -= 1
		}
	}
	return f
}
