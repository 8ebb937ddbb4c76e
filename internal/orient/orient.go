// Package orient picks the initial view rotation for a structure.
//
// Chains are laid along x and turned to show their depth, slabs are viewed
// from slightly above the periodic plane and bulk crystals are stood on
// their c axis with a small tilt. All rotations are in world space and are
// composed by premultiplication.
package orient

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/structview/internal/lattice"
)

const (
	ChainYaw   = math.Pi / 4
	ChainPitch = math.Pi / 9
	SlabTilt   = -math.Pi / 6
	BulkTiltB  = -math.Pi / 6
	BulkTiltC  = math.Pi / 12
)

var (
	unitX = mgl64.Vec3{1, 0, 0}
	unitY = mgl64.Vec3{0, 1, 0}
	unitZ = mgl64.Vec3{0, 0, 1}
)

// For returns the root rotation for a structure of the given classification
// seen through a camera with orientation cam.
func For(cls lattice.Classification, b lattice.Basis, cam mgl64.Quat) mgl64.Quat {
	up := cam.Rotate(unitY)
	right := cam.Rotate(unitX)
	forward := cam.Rotate(mgl64.Vec3{0, 0, -1})

	switch cls.Dim {
	case lattice.OneD:
		q := align(b[cls.Axes[0]], unitX)
		q = mgl64.QuatRotate(ChainYaw, up).Mul(q)
		return mgl64.QuatRotate(ChainPitch, right).Mul(q)

	case lattice.TwoD:
		a1, a2 := b[cls.Axes[0]], b[cls.Axes[1]]
		normal := a1.Cross(a2)
		if degenerate(normal) {
			var axis mgl64.Vec3
			axis[3-cls.Axes[0]-cls.Axes[1]] = 1
			normal = axis
		}
		q := align(normal, unitZ)
		q = align(q.Rotate(a1), unitX).Mul(q)
		return mgl64.QuatRotate(SlabTilt, right).Mul(q)

	case lattice.ThreeD:
		q := align(b[2], unitY)
		bb, cc := q.Rotate(b[1]), q.Rotate(b[2])
		q2 := align(bb.Cross(cc), unitZ)
		q = q2.Mul(q)
		bb, cc = q2.Rotate(bb), q2.Rotate(cc)

		if tilt := forward.Cross(bb); !degenerate(tilt) {
			q = mgl64.QuatRotate(BulkTiltB, tilt.Normalize()).Mul(q)
		}
		if tilt := forward.Cross(cc); !degenerate(tilt) {
			q = mgl64.QuatRotate(BulkTiltC, tilt.Normalize()).Mul(q)
		}
		return q.Normalize()
	}
	return mgl64.QuatIdent()
}

// align rotates from onto the direction of to. Zero vectors give the
// identity.
func align(from, to mgl64.Vec3) mgl64.Quat {
	if degenerate(from) || degenerate(to) {
		return mgl64.QuatIdent()
	}
	f, t := from.Normalize(), to.Normalize()
	cos := f.Dot(t)
	if cos < -1+1e-12 {
		axis := unitX.Cross(f)
		if degenerate(axis) {
			axis = unitY.Cross(f)
		}
		return mgl64.QuatRotate(math.Pi, axis.Normalize())
	}
	// (1+cos, sin·n) normalizes to the half-angle form.
	return mgl64.Quat{W: 1 + cos, V: f.Cross(t)}.Normalize()
}

func degenerate(v mgl64.Vec3) bool {
	return v.Len() < 1e-9
}
