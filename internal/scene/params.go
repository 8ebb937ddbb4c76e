package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/structview/internal/lattice"
)

const (
	InfoColor       uint32 = 0x000000
	AngleLabelColor uint32 = 0xffffff
	ParamRadius            = 0.09
	ParamOpacity           = 0.75
	AxisRadius             = 0.02
	ArrowRadius            = 0.1
	ArrowLength            = 0.5
	// AxisOvershoot is how far the axis line extends past the basis vector.
	AxisOvershoot = 1.3
	LabelOffset   = 0.8
	LabelScale    = 1.5
	ArcPoints     = 21
)

// AxisColors color the a, b and c overlays.
var AxisColors = [3]uint32{0xc52929, 0x47a823, 0x3b5796}

var (
	axisLabels  = [3]string{"a", "b", "c"}
	angleLabels = [3]string{"γ", "α", "β"}
)

// newParameters builds the lattice parameter overlay for the periodic axes
// of b: a translucent cylinder per basis vector with an axis arrow and a
// label, plus the angle arcs between consecutive periodic vectors.
func newParameters(b lattice.Basis, pbc lattice.Periodicity) (params, arcs *Node, labels []*Node) {
	params = NewGroup("params")
	arcs = NewGroup("arcs")
	periodic := pbc.Count()

	axis := 0
	for i := 0; i < 3; i++ {
		if !pbc[i] {
			continue
		}
		v1, v2, v3 := b[i], b[(i+1)%3], b[(i+2)%3]
		l1 := v1.Len()
		if l1 == 0 {
			axis++
			continue
		}
		color := AxisColors[axis]

		label := NewLabel("label-"+axisLabels[axis], axisLabels[axis],
			v1.Mul(0.5).Add(labelOffset(v1, v2, v3)), color)
		label.Scale = mgl64.Vec3{LabelScale, LabelScale, 1}
		labels = append(labels, label)

		tip := v1.Mul(1 + AxisOvershoot/l1)
		arrow := NewCylinder("arrow-"+axisLabels[axis], tip, tip.Add(v1.Mul(ArrowLength/l1)), ArrowRadius, Solid(InfoColor))
		arrow.Kind = Cone

		params.Add(
			label,
			NewCylinder("param-"+axisLabels[axis], mgl64.Vec3{}, v1, ParamRadius,
				Material{Color: color, Opacity: ParamOpacity, Transparent: true}),
			NewCylinder("axis-"+axisLabels[axis], mgl64.Vec3{}, tip, AxisRadius, Solid(InfoColor)),
			arrow,
		)

		if periodic == 3 || (periodic == 2 && axis == 0) {
			name := angleLabels[axis]
			if periodic == 2 {
				name = angleLabels[0]
			}
			next := v2
			if periodic == 2 && !pbc[(i+1)%3] {
				next = v3
			}
			if arc, lbl := newArc(name, v1, next); arc != nil {
				arcs.Add(arc, lbl)
				labels = append(labels, lbl)
			}
		}
		axis++
	}
	return params, arcs, labels
}

// labelOffset pushes an axis label away from the other basis vectors.
func labelOffset(v1, v2, v3 mgl64.Vec3) mgl64.Vec3 {
	var off mgl64.Vec3
	switch {
	case v2.Len() == 0:
		off = v1.Cross(v1.Cross(v3))
	case v3.Len() == 0:
		off = v1.Cross(v1.Cross(v2))
	default:
		off = v1.Cross(v3).Sub(v1.Cross(v2))
	}
	if off.Len() == 0 {
		return off
	}
	return off.Normalize().Mul(LabelOffset)
}

// newArc traces the angle between v1 and v2 in their common plane.
func newArc(name string, v1, v2 mgl64.Vec3) (arc, label *Node) {
	l1, l2 := v1.Len(), v2.Len()
	if l1 == 0 || l2 == 0 {
		return nil, nil
	}
	u := v1.Mul(1 / l1)
	w := v2.Sub(u.Mul(v2.Dot(u)))
	if w.Len() < 1e-9 {
		return nil, nil
	}
	w = w.Normalize()
	angle := math.Acos(mgl64.Clamp(v1.Dot(v2)/(l1*l2), -1, 1))
	radius := math.Max(math.Min(l1/4, l2/4), 1)

	points := make([]mgl64.Vec3, ArcPoints)
	for k := range points {
		t := angle * float64(k) / float64(ArcPoints-1)
		points[k] = u.Mul(radius * math.Cos(t)).Add(w.Mul(radius * math.Sin(t)))
	}
	arc = NewLine("arc-"+name, Material{Color: InfoColor, Opacity: 1, Dashed: true, LineWidth: 2}, points...)

	p := points[9]
	label = NewLabel("label-"+name, name, p.Mul(1+0.3/p.Len()), AngleLabelColor)
	label.Scale = mgl64.Vec3{LabelScale, LabelScale, 1}
	return arc, label
}
