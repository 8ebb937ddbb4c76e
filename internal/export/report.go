package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/structview/internal/elements"
	"github.com/san-kum/structview/internal/scene"
)

// Species is one element of a report.
type Species struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Number int    `json:"number" yaml:"number"`
	Count  int    `json:"count" yaml:"count"`
	Color  string `json:"color" yaml:"color"`
}

// Cell holds lattice vector lengths in Å and the angles alpha, beta and
// gamma in degrees.
type Cell struct {
	Lengths [3]float64 `json:"lengths" yaml:"lengths,flow"`
	Angles  [3]float64 `json:"angles" yaml:"angles,flow"`
}

// BondStats summarizes the drawn bond lengths.
type BondStats struct {
	Count int     `json:"count" yaml:"count"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Mean  float64 `json:"mean" yaml:"mean"`
}

// Report describes a loaded structure as it is drawn.
type Report struct {
	Formula        string    `json:"formula" yaml:"formula"`
	Dimensionality string    `json:"dimensionality" yaml:"dimensionality"`
	PBC            [3]bool   `json:"pbc" yaml:"pbc,flow"`
	Atoms          int       `json:"atoms" yaml:"atoms"`
	Rendered       int       `json:"rendered_atoms" yaml:"rendered_atoms"`
	BondMode       string    `json:"bond_mode" yaml:"bond_mode"`
	Bonds          BondStats `json:"bonds" yaml:"bonds"`
	Cell           *Cell     `json:"cell,omitempty" yaml:"cell,omitempty"`
	Species        []Species `json:"species" yaml:"species"`
	// BondLengths are sorted ascending.
	BondLengths []float64 `json:"bond_lengths,omitempty" yaml:"bond_lengths,omitempty,flow"`
}

// NewReport summarizes the scene's structure, atom instances and bonds.
func NewReport(sc *scene.Scene) *Report {
	s := sc.Structure
	r := &Report{
		Formula:        elements.Formula(s.Numbers),
		Dimensionality: s.Class.Dim.String(),
		PBC:            s.PBC,
		Atoms:          s.Len(),
		Rendered:       len(sc.Instances),
		BondMode:       s.Bonds.Mode.String(),
	}

	counts := make(map[int]int)
	for _, z := range s.Numbers {
		counts[z]++
	}
	for _, e := range elements.Legend(s.Numbers) {
		r.Species = append(r.Species, Species{
			Symbol: e.Symbol,
			Number: e.Number,
			Count:  counts[e.Number],
			Color:  fmt.Sprintf("#%06x", e.Color),
		})
	}

	if s.HasCell {
		r.Cell = &Cell{
			Lengths: s.Basis.Lengths(),
			Angles: [3]float64{
				angle(s.Basis[1], s.Basis[2]),
				angle(s.Basis[0], s.Basis[2]),
				angle(s.Basis[0], s.Basis[1]),
			},
		}
	}

	for _, b := range sc.BondList {
		r.BondLengths = append(r.BondLengths, b.Length())
	}
	sort.Float64s(r.BondLengths)
	if n := len(r.BondLengths); n > 0 {
		sum := 0.0
		for _, l := range r.BondLengths {
			sum += l
		}
		r.Bonds = BondStats{Count: n, Min: r.BondLengths[0], Max: r.BondLengths[n-1], Mean: sum / float64(n)}
	}
	return r
}

// angle returns the angle between u and v in degrees, or zero when either
// vector vanishes.
func angle(u, v mgl64.Vec3) float64 {
	lu, lv := u.Len(), v.Len()
	if lu == 0 || lv == 0 {
		return 0
	}
	c := mgl64.Clamp(u.Dot(v)/(lu*lv), -1, 1)
	return mgl64.RadToDeg(math.Acos(c))
}

// Encode writes r as indented JSON, or as YAML when format is "yaml".
func Encode(w io.Writer, r *Report, format string) error {
	switch format {
	case "", "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(r); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("export: unknown report format %q", format)
}

// WriteReport saves r to path in the given format.
func WriteReport(path string, r *Report, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(file, r, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
