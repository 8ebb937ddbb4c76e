package camera

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrEmptyBounds = errors.New("camera: bounds have no extent on screen")

// Projector is what Fit needs from a camera.
type Projector interface {
	NDCAt(p mgl64.Vec3, zoom float64) mgl64.Vec3
	Viewport() (width, height int)
	Orientation() mgl64.Quat
}

// centerTolerance is the NDC offset below which a point counts as level with
// the bounds center and receives no margin on that axis.
const centerTolerance = 1e-9

// minSpan is the pixel extent below which the bounds are flat on that axis.
const minSpan = 1e-6

// Fit returns the zoom factor at which points fill the viewport. Points are
// projected at zoom 1 and pushed outwards from their common center by margin,
// given in NDC units along the camera right and up axes. The factor is the
// tighter of the horizontal and vertical ratios so the whole box stays
// visible.
func Fit(p Projector, points []mgl64.Vec3, margin float64) (float64, error) {
	w, h := p.Viewport()
	if w <= 0 || h <= 0 {
		return 0, ErrViewport
	}
	if len(points) == 0 {
		return 0, ErrEmptyBounds
	}

	var center mgl64.Vec3
	for _, pt := range points {
		center = center.Add(pt)
	}
	center = center.Mul(1 / float64(len(points)))
	c := p.NDCAt(center, 1)

	q := p.Orientation()
	right := q.Rotate(mgl64.Vec3{margin, 0, 0})
	up := q.Rotate(mgl64.Vec3{0, margin, 0})

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range points {
		n := p.NDCAt(pt, 1)
		d := n.Sub(c)
		switch {
		case d.X() > centerTolerance:
			n = n.Add(right)
		case d.X() < -centerTolerance:
			n = n.Sub(right)
		}
		switch {
		case d.Y() > centerTolerance:
			n = n.Add(up)
		case d.Y() < -centerTolerance:
			n = n.Sub(up)
		}
		x := (n.X() + 1) * float64(w) / 2
		y := (-n.Y() + 1) * float64(h) / 2
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	spanX, spanY := maxX-minX, maxY-minY
	if spanX < minSpan {
		spanX = 0
	}
	if spanY < minSpan {
		spanY = 0
	}
	switch {
	case spanX <= 0 && spanY <= 0:
		return 0, ErrEmptyBounds
	case spanX <= 0:
		return float64(h) / spanY, nil
	case spanY <= 0:
		return float64(w) / spanX, nil
	}
	return math.Min(float64(w)/spanX, float64(h)/spanY), nil
}
