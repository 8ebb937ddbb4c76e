// Package lattice converts between fractional and cartesian coordinates and
// classifies the periodicity of a structure.
//
// Positions follow the row-vector convention: a fractional vector f maps to
// the cartesian point
//
//	c = f.x*a + f.y*b + f.z*c
//
// where a, b, c are the rows of the cell. [Basis.ToFractional] inverts this
// and reports [ErrDegenerateCell] for a singular cell.
//
// # Dimensionality
//
// [Classify] maps the three pbc flags onto 0D, 1D, 2D or 3D and selects the
// periodic axes used by the replicator and the view orienter:
//
//	lattice.Classify(lattice.Periodicity{false, true, true})
//	// => {Dim: 2D, Axes: [1 2]}
package lattice
