package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/structview/internal/config"
)

// Apply sets every display toggle from opts.
func (sc *Scene) Apply(opts *config.Options) {
	sc.SetParams(opts.ShowParam)
	sc.SetCell(opts.ShowCell)
	sc.SetLegend(opts.ShowLegend)
	sc.SetBonds(opts.ShowBonds)
	sc.SetShadows(opts.ShowShadows)
	sc.SetTags(opts.ShowTags)
	sc.SetVacancies(opts.ShowVacancies)
}

func (sc *Scene) SetParams(on bool) {
	sc.Info.Visible = on
}

func (sc *Scene) SetCell(on bool) {
	sc.Cell.Visible = on
	sc.Primitive.Visible = on
}

func (sc *Scene) SetLegend(on bool) {
	sc.LegendVisible = on
}

func (sc *Scene) SetBonds(on bool) {
	sc.Bonds.Visible = on
}

func (sc *Scene) SetVacancies(on bool) {
	sc.Vacancies.Visible = on
}

// SetShadows switches shadow casting on the directional lights and on the
// atom and bond fills.
func (sc *Scene) SetShadows(on bool) {
	sc.ShadowsOn = on
	for _, l := range sc.Lights.Children() {
		if l.Kind == DirectionalLight {
			l.CastShadow = on
		}
	}
	for _, group := range []*Node{sc.Atoms, sc.Bonds} {
		group.Walk(func(n *Node) bool {
			if n.Name == "fill" {
				n.CastShadow = on
				n.ReceiveShadow = on
			}
			return true
		})
	}
}

// SetTags recolors the outline of every tagged atom, including its periodic
// copies. Turning tags off restores black outlines.
func (sc *Scene) SetTags(on bool) {
	sc.TagsVisible = on
	for i, a := range sc.Instances {
		outline := sc.atomNodes[i].Find("outline")
		if outline == nil {
			continue
		}
		cat, tagged := sc.Structure.TagOf(a.Source)
		if on && tagged {
			outline.Material.Color = TagColors[cat]
			outline.Scale = mgl64.Vec3{TagScale, TagScale, TagScale}
		} else {
			outline.Material.Color = OutlineColor
			outline.Scale = mgl64.Vec3{1, 1, 1}
		}
	}
}
