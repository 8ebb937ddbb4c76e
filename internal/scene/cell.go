package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/structview/internal/lattice"
)

const (
	CellColor     uint32 = 0x000000
	DimColor      uint32 = 0x999999
	CellLineWidth        = 1.5
	// collapseLength is the shortest non-periodic axis still drawn.
	collapseLength = 1e-3
)

// NewCell draws the twelve edges of the parallelepiped spanned by b. Edges
// along or adjacent to a non-periodic axis are dashed grey; they are left out
// entirely when every non-periodic axis has zero length.
func NewCell(name string, b lattice.Basis, pbc lattice.Periodicity, dashed bool) *Node {
	g := NewGroup(name)

	collapsed := true
	for i, l := range b.Lengths() {
		if !pbc[i] && l > collapseLength {
			collapsed = false
		}
	}
	anyOpen := pbc.Count() < 3

	solid := Material{Color: CellColor, Opacity: 1, Dashed: dashed, LineWidth: CellLineWidth}
	dim := Material{Color: DimColor, Opacity: 1, Dashed: true, LineWidth: CellLineWidth}

	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		bi, bj, bk := b[i], b[j], b[k]
		edges := []struct {
			from mgl64.Vec3
			dim  bool
		}{
			{mgl64.Vec3{}, !pbc[i]},
			{bj, !pbc[i] || !pbc[j]},
			{bk, !pbc[i] || !pbc[k]},
			{bj.Add(bk), anyOpen},
		}
		for e, edge := range edges {
			if edge.dim && collapsed {
				continue
			}
			m := solid
			if edge.dim {
				m = dim
			}
			g.Add(NewLine(fmt.Sprintf("edge%d-%d", i, e), m, edge.from, edge.from.Add(bi)))
		}
	}
	return g
}
