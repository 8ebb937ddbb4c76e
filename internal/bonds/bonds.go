// Package bonds infers or builds the bond list between rendered atoms.
package bonds

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/structview/internal/elements"
	"github.com/san-kum/structview/internal/replicate"
)

// ToleranceFactor widens the sum of covalent radii when deciding whether two
// atoms are bonded.
const ToleranceFactor = 1.1

// ErrIndexRange indicates an explicit bond referencing a missing atom.
var ErrIndexRange = errors.New("bonds: atom index out of range")

// Mode selects how bonds are produced for a structure.
type Mode int

const (
	Auto Mode = iota
	Off
	Explicit
)

func (m Mode) String() string {
	switch m {
	case Auto:
		return "auto"
	case Off:
		return "off"
	case Explicit:
		return "explicit"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Pair is an explicit bond between two atom indices.
type Pair [2]int

// Bond connects atoms I and J of the rendered atom list.
type Bond struct {
	I, J       int
	Start, End mgl64.Vec3
}

// Length returns the distance between the bonded atoms.
func (b Bond) Length() float64 {
	return b.End.Sub(b.Start).Len()
}

// Params are the configuration multipliers entering the bond predicate.
type Params struct {
	RadiusScale float64
	BondScale   float64
}

// DefaultParams leaves covalent radii unscaled.
func DefaultParams() Params {
	return Params{RadiusScale: 1, BondScale: 1}
}

// Threshold is the largest distance at which atoms with numbers z1 and z2
// are considered bonded.
func (p Params) Threshold(z1, z2 int) float64 {
	r1 := p.RadiusScale * elements.CovalentRadius(z1)
	r2 := p.RadiusScale * elements.CovalentRadius(z2)
	return p.BondScale * ToleranceFactor * (r1 + r2)
}

// Bonded reports whether a and b are within bonding distance. The boundary
// is inclusive.
func (p Params) Bonded(a, b replicate.Atom) bool {
	return a.Position.Sub(b.Position).Len() <= p.Threshold(a.Number, b.Number)
}

// minChunk is the number of rows below which Detect stays on one goroutine.
const minChunk = 64

// Detect tests every unordered pair i<j. Rows are split across workers for
// large inputs; the result is ordered by (i, j) either way.
func Detect(atoms []replicate.Atom, p Params) []Bond {
	n := len(atoms)
	if n < 2 {
		return nil
	}

	rows := make([][]Bond, n)
	parallelFor(n, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			var row []Bond
			for j := i + 1; j < n; j++ {
				if p.Bonded(atoms[i], atoms[j]) {
					row = append(row, Bond{I: i, J: j, Start: atoms[i].Position, End: atoms[j].Position})
				}
			}
			rows[i] = row
		}
	})

	var out []Bond
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

// FromPairs builds exactly the requested bonds, in order, as given.
func FromPairs(atoms []replicate.Atom, pairs []Pair) ([]Bond, error) {
	out := make([]Bond, 0, len(pairs))
	for _, pr := range pairs {
		i, j := pr[0], pr[1]
		if i < 0 || j < 0 || i >= len(atoms) || j >= len(atoms) {
			return nil, fmt.Errorf("%w: [%d %d] with %d atoms", ErrIndexRange, i, j, len(atoms))
		}
		out = append(out, Bond{I: i, J: j, Start: atoms[i].Position, End: atoms[j].Position})
	}
	return out, nil
}

// Build dispatches on mode.
func Build(mode Mode, atoms []replicate.Atom, pairs []Pair, p Params) ([]Bond, error) {
	switch mode {
	case Off:
		return nil, nil
	case Explicit:
		return FromPairs(atoms, pairs)
	default:
		return Detect(atoms, p), nil
	}
}

func parallelFor(n, minChunk int, fn func(start, end int)) {
	workers := 4
	if n <= minChunk {
		fn(0, n)
		return
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
