package structure

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/structview/internal/elements"
	"github.com/san-kum/structview/internal/lattice"
	"github.com/san-kum/structview/internal/replicate"
)

// Matrix3 holds three row vectors.
type Matrix3 [3][3]float64

// Descriptor is the in-memory structure description accepted by the viewer.
// Exactly one of ScaledPositions and Positions, and one of AtomicNumbers and
// ChemicalSymbols, must be set.
type Descriptor struct {
	Cell            *Matrix3     `json:"cell,omitempty" yaml:"cell,omitempty"`
	PBC             []bool       `json:"pbc,omitempty" yaml:"pbc,omitempty"`
	ScaledPositions [][3]float64 `json:"scaledPositions,omitempty" yaml:"scaledPositions,omitempty"`
	Positions       [][3]float64 `json:"positions,omitempty" yaml:"positions,omitempty"`
	AtomicNumbers   []int        `json:"atomicNumbers,omitempty" yaml:"atomicNumbers,omitempty"`
	ChemicalSymbols []string     `json:"chemicalSymbols,omitempty" yaml:"chemicalSymbols,omitempty"`
	PrimitiveCell   *Matrix3     `json:"primitiveCell,omitempty" yaml:"primitiveCell,omitempty"`
	Bonds           BondSpec     `json:"bonds" yaml:"bonds"`
	Tags            *Tags        `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Category names a group of tagged atoms.
type Category string

const (
	Adsorbates    Category = "adsorbates"
	Substitutions Category = "substitutions"
	Interstitials Category = "interstitials"
	Unknowns      Category = "unknowns"
	Outliers      Category = "outliers"
)

// Categories lists the index-based tag groups in recoloring order.
var Categories = []Category{Adsorbates, Unknowns, Interstitials, Substitutions, Outliers}

// Tags marks special atoms by descriptor index. Vacancies are not atoms and
// carry their own position.
type Tags struct {
	Adsorbates    []int     `json:"adsorbates,omitempty" yaml:"adsorbates,omitempty"`
	Substitutions []int     `json:"substitutions,omitempty" yaml:"substitutions,omitempty"`
	Interstitials []int     `json:"interstitials,omitempty" yaml:"interstitials,omitempty"`
	Unknowns      []int     `json:"unknowns,omitempty" yaml:"unknowns,omitempty"`
	Outliers      []int     `json:"outliers,omitempty" yaml:"outliers,omitempty"`
	Vacancies     []Vacancy `json:"vacancies,omitempty" yaml:"vacancies,omitempty"`
}

// Indices returns the atom indices tagged with c.
func (t *Tags) Indices(c Category) []int {
	if t == nil {
		return nil
	}
	switch c {
	case Adsorbates:
		return t.Adsorbates
	case Substitutions:
		return t.Substitutions
	case Interstitials:
		return t.Interstitials
	case Unknowns:
		return t.Unknowns
	case Outliers:
		return t.Outliers
	}
	return nil
}

// Vacancy is an empty lattice site. Position is fractional; Label is the
// atomic number of the missing atom.
type Vacancy struct {
	Position [3]float64 `json:"position" yaml:"position"`
	Label    int        `json:"label" yaml:"label"`
}

// Structure is a validated descriptor with resolved species and both
// coordinate systems computed.
type Structure struct {
	Basis lattice.Basis
	// HasCell is false for molecules given without a cell.
	HasCell   bool
	Primitive *lattice.Basis
	PBC       lattice.Periodicity
	Class     lattice.Classification
	Numbers   []int
	// Fractional is nil when the cell cannot be inverted and no scaled
	// positions were given.
	Fractional []mgl64.Vec3
	Cartesian  []mgl64.Vec3
	Bonds      BondSpec
	Tags       Tags
}

// Len returns the number of atoms.
func (s *Structure) Len() int {
	return len(s.Numbers)
}

// Atoms returns one instance per descriptor entry, ready for replication.
func (s *Structure) Atoms() []replicate.Atom {
	atoms := make([]replicate.Atom, len(s.Numbers))
	for i, z := range s.Numbers {
		atoms[i] = replicate.Atom{Source: i, Number: z, Position: s.Cartesian[i]}
		if s.Fractional != nil {
			atoms[i].Fractional = s.Fractional[i]
		}
	}
	return atoms
}

// TagOf returns the first category containing atom i.
func (s *Structure) TagOf(i int) (Category, bool) {
	for _, c := range Categories {
		for _, idx := range s.Tags.Indices(c) {
			if idx == i {
				return c, true
			}
		}
	}
	return "", false
}

// Validate checks the descriptor without computing coordinates. Checks run in
// a fixed order and the first failure is returned.
func (d *Descriptor) Validate() error {
	_, err := d.validate()
	return err
}

func (d *Descriptor) validate() ([]int, error) {
	if d.ScaledPositions == nil && d.Positions == nil {
		return nil, invalid("positions", ErrNoPositions, "")
	}
	if d.AtomicNumbers == nil && d.ChemicalSymbols == nil {
		return nil, invalid("atomicNumbers", ErrNoSpecies, "")
	}
	if !d.Bonds.valid() {
		return nil, invalid("bonds", ErrInvalidBonds, "mode %v", d.Bonds.Mode)
	}
	if d.ScaledPositions != nil && d.Positions != nil {
		return nil, invalid("positions", ErrAmbiguousPositions, "")
	}

	numbers, err := d.resolveSpecies()
	if err != nil {
		return nil, err
	}

	if d.Positions != nil && len(d.Positions) != len(numbers) {
		return nil, invalid("positions", ErrLengthMismatch, "%d positions, %d species", len(d.Positions), len(numbers))
	}
	if d.ScaledPositions != nil && len(d.ScaledPositions) != len(numbers) {
		return nil, invalid("scaledPositions", ErrLengthMismatch, "%d scaled positions, %d species", len(d.ScaledPositions), len(numbers))
	}

	if d.PBC != nil && len(d.PBC) != 3 {
		return nil, invalid("pbc", ErrPeriodicity, "got %d entries", len(d.PBC))
	}
	if d.Cell == nil {
		if d.ScaledPositions != nil {
			return nil, invalid("cell", ErrMissingCell, "scaled positions need a cell")
		}
		if d.periodicity().Count() > 0 {
			return nil, invalid("cell", ErrMissingCell, "periodic structure needs a cell")
		}
	}

	if d.Tags != nil {
		for _, c := range Categories {
			for _, idx := range d.Tags.Indices(c) {
				if idx < 0 || idx >= len(numbers) {
					return nil, invalid("tags", ErrTagIndex, "%s index %d with %d atoms", c, idx, len(numbers))
				}
			}
		}
	}
	return numbers, nil
}

func (d *Descriptor) resolveSpecies() ([]int, error) {
	if d.AtomicNumbers != nil {
		for i, z := range d.AtomicNumbers {
			if !elements.Valid(z) {
				return nil, invalid("atomicNumbers", ErrAtomicNumberRange, "atom %d has Z=%d", i, z)
			}
		}
		return d.AtomicNumbers, nil
	}
	numbers := make([]int, len(d.ChemicalSymbols))
	for i, s := range d.ChemicalSymbols {
		z, ok := elements.Number(s)
		if !ok {
			return nil, invalid("chemicalSymbols", ErrUnknownSymbol, "atom %d is %q", i, s)
		}
		numbers[i] = z
	}
	return numbers, nil
}

func (d *Descriptor) periodicity() lattice.Periodicity {
	if len(d.PBC) != 3 {
		return lattice.FullyPeriodic
	}
	return lattice.Periodicity{d.PBC[0], d.PBC[1], d.PBC[2]}
}

// Prepare validates the descriptor and computes fractional and cartesian
// positions. With wrap set, scaled positions sitting on the far face of a
// periodic axis are moved onto the near face. A 3D structure given in
// cartesian coordinates needs an invertible cell.
func (d *Descriptor) Prepare(wrap bool) (*Structure, error) {
	numbers, err := d.validate()
	if err != nil {
		return nil, err
	}

	s := &Structure{
		PBC:     d.periodicity(),
		Numbers: append([]int(nil), numbers...),
		Bonds:   d.Bonds,
	}
	s.Class = lattice.Classify(s.PBC)
	if d.Tags != nil {
		s.Tags = *d.Tags
	}
	if d.Cell != nil {
		s.HasCell = true
		s.Basis = lattice.NewBasis(*d.Cell)
	}
	if d.PrimitiveCell != nil {
		p := lattice.NewBasis(*d.PrimitiveCell)
		s.Primitive = &p
	}

	if d.ScaledPositions != nil {
		s.Fractional = make([]mgl64.Vec3, len(d.ScaledPositions))
		s.Cartesian = make([]mgl64.Vec3, len(d.ScaledPositions))
		for i, p := range d.ScaledPositions {
			f := mgl64.Vec3(p)
			if wrap {
				f = lattice.Wrap(f, s.Basis, s.PBC)
			}
			s.Fractional[i] = f
			s.Cartesian[i] = s.Basis.ToCartesian(f)
		}
		return s, nil
	}

	s.Cartesian = make([]mgl64.Vec3, len(d.Positions))
	for i, p := range d.Positions {
		s.Cartesian[i] = mgl64.Vec3(p)
	}
	if !s.HasCell {
		return s, nil
	}
	frac, err := s.Basis.AllToFractional(s.Cartesian)
	switch {
	case err == nil:
		s.Fractional = frac
	case s.Class.Dim == lattice.ThreeD:
		return nil, &ValidationError{Field: "cell", Err: err}
	}
	return s, nil
}
