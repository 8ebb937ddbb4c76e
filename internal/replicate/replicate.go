// Package replicate duplicates atoms along periodic axes so that a rendered
// structure conveys its periodicity.
package replicate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/structview/internal/lattice"
)

const (
	// ChainTarget is the rendered extent (Angstrom) aimed for along a 1D axis.
	ChainTarget = 15.0
	// SlabTarget is the rendered extent aimed for along each 2D axis.
	SlabTarget = 12.0
)

// Atom is one atom instance. Several instances may share a Source index when
// they are periodic copies of the same descriptor entry.
type Atom struct {
	Source     int
	Number     int
	Fractional mgl64.Vec3
	Position   mgl64.Vec3
}

// Translate returns a copy shifted by whole cells along the basis.
func (a Atom) Translate(cells mgl64.Vec3, basis lattice.Basis) Atom {
	a.Fractional = a.Fractional.Add(cells)
	a.Position = a.Position.Add(basis.ToCartesian(cells))
	return a
}

// Options selects which replication rules are active.
type Options struct {
	// AllowRepeat enables the grid of copies for 2D structures.
	AllowRepeat bool
	// ShowCopies enables boundary mirror images for 3D structures.
	ShowCopies bool
}

// Repetitions is the number of extra cells needed along v to approach
// target: max(floor(target/|v|)-1, 1).
func Repetitions(v mgl64.Vec3, target float64) int {
	l := v.Len()
	if l == 0 {
		return 1
	}
	n := int(math.Floor(target/l)) - 1
	if n < 1 {
		return 1
	}
	return n
}

// Replicate expands atoms according to the dimensionality branch in cls.
// The input slice is not modified; originals keep their order at the front
// of the result except in 3D, where each atom is followed by its copies.
func Replicate(atoms []Atom, basis lattice.Basis, cls lattice.Classification, opt Options) []Atom {
	switch cls.Dim {
	case lattice.OneD:
		return chain(atoms, basis, cls.Axes[0])
	case lattice.TwoD:
		return slab(atoms, basis, cls.Axes[0], cls.Axes[1], opt.AllowRepeat)
	case lattice.ThreeD:
		if opt.ShowCopies {
			return boundaryCopies(atoms, basis)
		}
	}
	out := make([]Atom, len(atoms))
	copy(out, atoms)
	return out
}

func chain(atoms []Atom, basis lattice.Basis, d int) []Atom {
	multiplier := Repetitions(basis[d], ChainTarget)
	out := make([]Atom, 0, len(atoms)*(2*multiplier+1))
	out = append(out, atoms...)
	for i := 1; i <= multiplier; i++ {
		var front, back mgl64.Vec3
		front[d] = float64(i)
		back[d] = -float64(i)
		for _, a := range atoms {
			out = append(out, a.Translate(front, basis))
		}
		for _, a := range atoms {
			out = append(out, a.Translate(back, basis))
		}
	}
	return out
}

func slab(atoms []Atom, basis lattice.Basis, d1, d2 int, repeat bool) []Atom {
	width, height := 0, 0
	if repeat {
		width = Repetitions(basis[d1], SlabTarget)
		height = Repetitions(basis[d2], SlabTarget)
	}
	out := make([]Atom, 0, len(atoms)*(width+1)*(height+1))
	out = append(out, atoms...)
	for i := 0; i <= width; i++ {
		for j := 0; j <= height; j++ {
			if i == 0 && j == 0 {
				continue
			}
			var shift mgl64.Vec3
			shift[d1] = float64(i)
			shift[d2] = float64(j)
			for _, a := range atoms {
				out = append(out, a.Translate(shift, basis))
			}
		}
	}
	return out
}

// boundaryCopies adds, for every atom lying on one or more cell faces at
// fractional 0, the images on the opposite faces: 1 for a face, 3 for an
// edge and 7 for a corner.
func boundaryCopies(atoms []Atom, basis lattice.Basis) []Atom {
	out := make([]Atom, 0, len(atoms))
	for _, a := range atoms {
		out = append(out, a)
		var onBoundary []int
		for axis := 0; axis < 3; axis++ {
			if lattice.AlmostEqual(0, a.Fractional[axis], basis[axis], lattice.WrapTolerance) {
				onBoundary = append(onBoundary, axis)
			}
		}
		for mask := 1; mask < 1<<len(onBoundary); mask++ {
			var shift mgl64.Vec3
			for bit, axis := range onBoundary {
				if mask&(1<<bit) != 0 {
					shift[axis] = 1
				}
			}
			out = append(out, a.Translate(shift, basis))
		}
	}
	return out
}
