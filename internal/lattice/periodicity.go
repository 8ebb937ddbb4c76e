package lattice

import "fmt"

// Periodicity flags, per cell axis, whether the structure repeats along it.
type Periodicity [3]bool

// FullyPeriodic is the default when a descriptor omits pbc.
var FullyPeriodic = Periodicity{true, true, true}

// Count returns the number of periodic axes.
func (p Periodicity) Count() int {
	n := 0
	for _, v := range p {
		if v {
			n++
		}
	}
	return n
}

// Dimensionality is the number of periodic directions of a structure.
type Dimensionality int

const (
	ZeroD Dimensionality = iota
	OneD
	TwoD
	ThreeD
)

func (d Dimensionality) String() string {
	switch d {
	case ZeroD, OneD, TwoD, ThreeD:
		return fmt.Sprintf("%dD", int(d))
	}
	return fmt.Sprintf("Dimensionality(%d)", int(d))
}

// Classification is the dimensionality of a structure together with its
// periodic axes: one axis for 1D, an ordered pair for 2D, none otherwise.
type Classification struct {
	Dim  Dimensionality
	Axes []int
}

// Classify determines the dimensionality branch for p. For two periodic axes
// the pair is picked by scanning dim = 0..2 for p[dim] && p[dim+1] &&
// !p[dim+2] (indices mod 3), so [true,false,true] yields [2,0].
func Classify(p Periodicity) Classification {
	switch p.Count() {
	case 3:
		return Classification{Dim: ThreeD}
	case 0:
		return Classification{Dim: ZeroD}
	case 1:
		for d := 0; d < 3; d++ {
			if p[d] {
				return Classification{Dim: OneD, Axes: []int{d}}
			}
		}
	}
	for d := 0; d < 3; d++ {
		if p[d] && p[(d+1)%3] && !p[(d+2)%3] {
			return Classification{Dim: TwoD, Axes: []int{d, (d + 1) % 3}}
		}
	}
	// unreachable: exactly two flags are set here
	return Classification{Dim: TwoD}
}
