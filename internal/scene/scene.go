package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/structview/internal/bonds"
	"github.com/san-kum/structview/internal/config"
	"github.com/san-kum/structview/internal/elements"
	"github.com/san-kum/structview/internal/lattice"
	"github.com/san-kum/structview/internal/replicate"
	"github.com/san-kum/structview/internal/structure"
)

const (
	OutlineColor   uint32 = 0x000000
	BondColor      uint32 = 0xffffff
	AtomOutline           = 0.03
	BondRadius            = 0.08
	BondOutline           = 0.02
	VacancyOpacity        = 0.25
	TagScale              = 1.15
)

// TagColors maps each tag category to its outline color.
var TagColors = map[structure.Category]uint32{
	structure.Adsorbates:    0xd70000,
	structure.Unknowns:      0xd75f00,
	structure.Interstitials: 0xaf8700,
	structure.Substitutions: 0x0087ff,
	structure.Outliers:      0x8700af,
}

// Scene is the assembled node tree for one structure. Root carries the view
// orientation; everything except the lights hangs below it.
type Scene struct {
	Root      *Node
	Corners   *Node
	Cell      *Node
	Primitive *Node
	Atoms     *Node
	Bonds     *Node
	Vacancies *Node
	// Info holds the overlay drawn on top of the structure.
	Info   *Node
	Params *Node
	Arcs   *Node
	Lights *Node

	Structure *structure.Structure
	Instances []replicate.Atom
	BondList  []bonds.Bond
	Legend    []elements.Entry
	Box       BoundaryBox
	// Center is the view center subtracted from all geometry.
	Center mgl64.Vec3

	LegendVisible bool
	TagsVisible   bool
	ShadowsOn     bool

	atomNodes []*Node
	bondNodes map[bonds.Pair]*Node
	labels    []*Node
}

// Assemble builds the scene for s. atoms are the rendered instances after
// replication and bondList the bonds between them.
func Assemble(s *structure.Structure, atoms []replicate.Atom, bondList []bonds.Bond, opts *config.Options) *Scene {
	sc := &Scene{
		Root:      NewGroup("root"),
		Atoms:     NewGroup("atoms"),
		Bonds:     NewGroup("bonds"),
		Vacancies: NewGroup("vacancies"),
		Info:      NewGroup("info"),
		Lights:    newLights(),
		Structure: s,
		Instances: atoms,
		BondList:  bondList,
		Legend:    elements.Legend(s.Numbers),
		bondNodes: make(map[bonds.Pair]*Node, len(bondList)),
	}

	sc.Box = NewBoundaryBox(s.Cartesian, s.Numbers, opts.RadiusScale)
	sc.Corners = NewNode("corners", Points)
	sc.Corners.Vertices = sc.Box[:]
	sc.Corners.Visible = false

	// Molecules are drawn with a collapsed cell.
	pbc := s.PBC
	if s.Class.Dim == lattice.ZeroD {
		pbc = lattice.Periodicity{}
	}
	sc.Cell = NewCell("cell", s.Basis, pbc, false)
	if s.Primitive != nil {
		sc.Primitive = NewCell("primitive", *s.Primitive, pbc, true)
	} else {
		sc.Primitive = NewGroup("primitive")
	}

	for i, a := range atoms {
		n := newAtom(fmt.Sprintf("atom%d", i), a.Position, a.Number, opts.RadiusScale, 1)
		sc.atomNodes = append(sc.atomNodes, n)
		sc.Atoms.Add(n)
	}
	for i, v := range s.Tags.Vacancies {
		pos := s.Basis.ToCartesian(mgl64.Vec3(v.Position))
		sc.Vacancies.Add(newAtom(fmt.Sprintf("vacancy%d", i), pos, v.Label, opts.RadiusScale, VacancyOpacity))
	}
	sc.Vacancies.Visible = false
	sc.Atoms.Add(sc.Vacancies)

	for _, b := range bondList {
		n := newBond(b, opts.BondScale)
		sc.bondNodes[bonds.Pair{b.I, b.J}] = n
		sc.Bonds.Add(n)
	}

	sc.Params, sc.Arcs, sc.labels = newParameters(s.Basis, s.PBC)
	sc.Info.Add(sc.Params, sc.Arcs)

	sc.Root.Add(sc.Corners, sc.Cell, sc.Primitive, sc.Atoms, sc.Bonds, sc.Info)
	sc.center(opts)
	sc.Apply(opts)
	sc.Root.UpdateWorld()
	return sc
}

func newAtom(name string, pos mgl64.Vec3, z int, radiusScale, opacity float64) *Node {
	radius := radiusScale * elements.CovalentRadius(z)
	fill := Solid(elements.Color(z))
	outline := Material{Color: OutlineColor, Opacity: 1, BackSide: true}
	if opacity < 1 {
		fill.Opacity, fill.Transparent = opacity, true
		outline.Opacity, outline.Transparent = opacity, true
	}

	g := NewGroup(name)
	g.Position = pos
	g.Text = elements.Symbol(z)
	g.Add(
		NewSphere("fill", mgl64.Vec3{}, radius, fill),
		NewSphere("outline", mgl64.Vec3{}, radius+AtomOutline, outline),
	)
	return g
}

func newBond(b bonds.Bond, bondScale float64) *Node {
	radius := BondRadius * bondScale
	g := NewGroup(fmt.Sprintf("bond%d-%d", b.I, b.J))
	g.Add(
		NewCylinder("fill", b.Start, b.End, radius, Solid(BondColor)),
		NewCylinder("outline", b.Start, b.End, radius+BondOutline,
			Material{Color: OutlineColor, Opacity: 1, BackSide: true}),
	)
	return g
}

// center shifts all geometry so the configured view center sits at the
// origin, then applies the user translation to atoms and bonds.
func (sc *Scene) center(opts *config.Options) {
	s := sc.Structure
	switch opts.ViewCenter.Mode {
	case config.COC:
		sc.Center = s.Basis.Center()
	case config.Fixed:
		sc.Center = mgl64.Vec3(opts.ViewCenter.Point)
	default:
		var sum mgl64.Vec3
		for _, p := range s.Cartesian {
			sum = sum.Add(p)
		}
		if len(s.Cartesian) > 0 {
			sc.Center = sum.Mul(1 / float64(len(s.Cartesian)))
		}
	}

	shift := sc.Center.Mul(-1)
	for _, n := range []*Node{sc.Corners, sc.Cell, sc.Primitive, sc.Params, sc.Arcs} {
		n.Position = n.Position.Add(shift)
	}
	move := shift.Add(mgl64.Vec3(opts.Translation))
	sc.Atoms.Position = sc.Atoms.Position.Add(move)
	sc.Bonds.Position = sc.Bonds.Position.Add(move)
}

// AtomNode returns the group drawn for instance i.
func (sc *Scene) AtomNode(i int) *Node {
	if i < 0 || i >= len(sc.atomNodes) {
		return nil
	}
	return sc.atomNodes[i]
}

// BondNode returns the group drawn for the bond between instances i and j.
func (sc *Scene) BondNode(i, j int) *Node {
	if i > j {
		i, j = j, i
	}
	return sc.bondNodes[bonds.Pair{i, j}]
}

// Labels returns the text nodes whose screen size follows the zoom.
func (sc *Scene) Labels() []*Node {
	return sc.labels
}

// Release detaches every node so the old tree can be collected.
func (sc *Scene) Release() {
	sc.Root.Clear()
	sc.Lights.Clear()
	sc.atomNodes = nil
	sc.bondNodes = nil
	sc.labels = nil
}

// BoundaryBox holds the eight corners of the axis-aligned box enclosing the
// atoms, padded by the largest atom radius.
type BoundaryBox [8]mgl64.Vec3

func NewBoundaryBox(positions []mgl64.Vec3, numbers []int, radiusScale float64) BoundaryBox {
	var box BoundaryBox
	if len(positions) == 0 {
		return box
	}
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range positions {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], p[k])
			hi[k] = math.Max(hi[k], p[k])
		}
	}
	pad := 0.0
	for _, z := range numbers {
		pad = math.Max(pad, radiusScale*elements.CovalentRadius(z))
	}
	pv := mgl64.Vec3{pad, pad, pad}
	origin, opposite := lo.Sub(pv), hi.Add(pv)
	size := opposite.Sub(origin)

	box[0], box[1] = origin, opposite
	for k := 0; k < 3; k++ {
		var edge mgl64.Vec3
		edge[k] = size[k]
		box[2+k] = origin.Add(edge)
		box[5+k] = opposite.Sub(edge)
	}
	return box
}

func newLights() *Node {
	g := NewGroup("lights")
	add := func(name string, kind Kind, pos mgl64.Vec3, color uint32, intensity float64) {
		n := NewNode(name, kind)
		n.Position = pos
		n.Material = Solid(color)
		n.Intensity = intensity
		g.Add(n)
	}
	add("key", DirectionalLight, mgl64.Vec3{0, 0, 20}, 0xffffff, 0.45)
	add("fill", DirectionalLight, mgl64.Vec3{-20, 0, -20}, 0xffffff, 0.3)
	add("back", DirectionalLight, mgl64.Vec3{20, 0, -20}, 0xffffff, 0.25)
	add("ambient", AmbientLight, mgl64.Vec3{}, 0x404040, 1.7)
	g.UpdateWorld()
	return g
}
