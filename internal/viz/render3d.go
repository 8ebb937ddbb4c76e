package viz

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/structview/internal/camera"
	"github.com/san-kum/structview/internal/scene"
)

// primitive is one projected drawing command.
type primitive struct {
	depth float64
	draw  func(c *Canvas)
}

// Render draws the visible scene onto c with a painter's algorithm: shapes
// are sorted far to near and opaque spheres erase what lies behind them.
// Labels are drawn last. The camera viewport should match c.Pixels.
func Render(c *Canvas, sc *scene.Scene, cam *camera.Ortho, th Theme) {
	if c == nil || sc == nil || cam == nil {
		return
	}
	ppu := cam.PixelsPerUnit()

	var shapes, labels []primitive
	sc.Root.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		switch n.Kind {
		case scene.Sphere:
			if p, ok := sphere(n, cam, ppu); ok {
				shapes = append(shapes, p)
			}
		case scene.Cylinder, scene.Cone:
			if n.Material.BackSide {
				break
			}
			a := n.LocalToWorld(mgl64.Vec3{0, -n.Length / 2, 0})
			b := n.LocalToWorld(mgl64.Vec3{0, n.Length / 2, 0})
			shapes = append(shapes, segment(a, b, n.Material, cam))
		case scene.Line:
			for i := 1; i < len(n.Vertices); i++ {
				a := n.LocalToWorld(n.Vertices[i-1])
				b := n.LocalToWorld(n.Vertices[i])
				shapes = append(shapes, segment(a, b, n.Material, cam))
			}
		case scene.Label:
			at := n.WorldPosition()
			px := cam.Project(at)
			text, color := n.Text, n.Material.Color
			labels = append(labels, primitive{
				depth: cam.Depth(at),
				draw: func(c *Canvas) {
					c.PutText(round(px.X())-len([]rune(text)), round(px.Y()), text, color)
				},
			})
		}
		return true
	})

	sort.SliceStable(shapes, func(i, j int) bool { return shapes[i].depth > shapes[j].depth })
	sort.SliceStable(labels, func(i, j int) bool { return labels[i].depth > labels[j].depth })
	for _, p := range shapes {
		p.draw(c)
	}
	for _, p := range labels {
		p.draw(c)
	}
}

// sphere projects a fill or tagged outline sphere. Untagged outlines are
// implied by the fill's rim and produce nothing.
func sphere(n *scene.Node, cam *camera.Ortho, ppu float64) (primitive, bool) {
	m := n.Material
	if m.BackSide && m.Color == scene.OutlineColor {
		return primitive{}, false
	}
	center := n.WorldPosition()
	px := cam.Project(center)
	r := round(n.Radius * n.World().Col(0).Vec3().Len() * ppu)
	x, y := round(px.X()), round(px.Y())

	p := primitive{depth: cam.Depth(center)}
	switch {
	case m.BackSide:
		// Tagged outline: a ring just outside the fill, drawn before it.
		p.depth += n.Radius
		p.draw = func(c *Canvas) { c.DrawCircle(x, y, r+1, m.Color, false) }
	case m.Transparent:
		p.draw = func(c *Canvas) { c.DrawCircle(x, y, r, m.Color, true) }
	default:
		p.draw = func(c *Canvas) {
			c.ClearDisc(x, y, r)
			c.DrawCircle(x, y, r, m.Color, false)
		}
	}
	return p, true
}

func segment(a, b mgl64.Vec3, m scene.Material, cam *camera.Ortho) primitive {
	pa, pb := cam.Project(a), cam.Project(b)
	x0, y0, x1, y1 := round(pa.X()), round(pa.Y()), round(pb.X()), round(pb.Y())
	return primitive{
		depth: (cam.Depth(a) + cam.Depth(b)) / 2,
		draw:  func(c *Canvas) { c.DrawSegment(x0, y0, x1, y1, m.Color, m.Dashed) },
	}
}
