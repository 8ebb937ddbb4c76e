package camera

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultViewWidth = 10.0
	DefaultNear      = -100.0
	DefaultFar       = 1000.0
	DefaultDistance  = 20.0
	// LabelSize is the label scale at one pixel per world unit.
	LabelSize = 8.0
)

var ErrViewport = errors.New("camera: viewport has no area")

// Ortho is an orthographic camera looking down -z from DefaultDistance. The
// visible region is ViewWidth world units across at zoom 1; the height
// follows the viewport aspect ratio.
type Ortho struct {
	ViewWidth float64
	Near, Far float64
	Position  mgl64.Vec3
	Rotation  mgl64.Quat
	Zoom      float64

	width, height int
}

func NewOrtho(width, height int) *Ortho {
	c := &Ortho{
		ViewWidth: DefaultViewWidth,
		Near:      DefaultNear,
		Far:       DefaultFar,
		Position:  mgl64.Vec3{0, 0, DefaultDistance},
		Rotation:  mgl64.QuatIdent(),
		Zoom:      1,
	}
	c.Resize(width, height)
	return c
}

// Resize updates the viewport. Dimensions below one pixel are clamped.
func (c *Ortho) Resize(width, height int) {
	c.width, c.height = max(width, 1), max(height, 1)
}

func (c *Ortho) Viewport() (width, height int) { return c.width, c.height }

func (c *Ortho) Orientation() mgl64.Quat { return c.Rotation }

func (c *Ortho) Aspect() float64 {
	return float64(c.width) / float64(c.height)
}

// Frustum returns the view volume at zoom 1.
func (c *Ortho) Frustum() (left, right, bottom, top float64) {
	hw := c.ViewWidth / 2
	hh := hw / c.Aspect()
	return -hw, hw, -hh, hh
}

// View is the world to camera transform.
func (c *Ortho) View() mgl64.Mat4 {
	world := mgl64.Translate3D(c.Position[0], c.Position[1], c.Position[2]).Mul4(c.Rotation.Mat4())
	return world.Inv()
}

func (c *Ortho) Projection() mgl64.Mat4 {
	return c.projection(c.Zoom)
}

func (c *Ortho) projection(zoom float64) mgl64.Mat4 {
	l, r, b, t := c.Frustum()
	return mgl64.Ortho(l/zoom, r/zoom, b/zoom, t/zoom, c.Near, c.Far)
}

// NDC projects a world point into normalized device coordinates.
func (c *Ortho) NDC(p mgl64.Vec3) mgl64.Vec3 {
	return c.NDCAt(p, c.Zoom)
}

// NDCAt projects as NDC would with the camera at the given zoom.
func (c *Ortho) NDCAt(p mgl64.Vec3, zoom float64) mgl64.Vec3 {
	clip := c.projection(zoom).Mul4(c.View()).Mul4x1(p.Vec4(1))
	return clip.Vec3().Mul(1 / clip.W())
}

// ToPixels maps NDC onto the viewport with y growing downwards.
func (c *Ortho) ToPixels(ndc mgl64.Vec3) mgl64.Vec2 {
	return mgl64.Vec2{
		(ndc.X() + 1) * float64(c.width) / 2,
		(-ndc.Y() + 1) * float64(c.height) / 2,
	}
}

// Project returns the pixel position of a world point.
func (c *Ortho) Project(p mgl64.Vec3) mgl64.Vec2 {
	return c.ToPixels(c.NDC(p))
}

// Depth is the distance of p in front of the camera.
func (c *Ortho) Depth(p mgl64.Vec3) float64 {
	return -c.View().Mul4x1(p.Vec4(1)).Z()
}

// Unproject maps a pixel position and NDC depth back into world space.
func (c *Ortho) Unproject(x, y, depth float64) (mgl64.Vec3, error) {
	win := mgl64.Vec3{x, float64(c.height) - y, (depth + 1) / 2}
	return mgl64.UnProject(win, c.View(), c.Projection(), 0, 0, c.width, c.height)
}

func (c *Ortho) Right() mgl64.Vec3 { return c.Rotation.Rotate(mgl64.Vec3{1, 0, 0}) }
func (c *Ortho) Up() mgl64.Vec3    { return c.Rotation.Rotate(mgl64.Vec3{0, 1, 0}) }

// Forward is the viewing direction.
func (c *Ortho) Forward() mgl64.Vec3 { return c.Rotation.Rotate(mgl64.Vec3{0, 0, -1}) }

// PixelsPerUnit is the on-screen length of one world unit.
func (c *Ortho) PixelsPerUnit() float64 {
	a := c.Project(c.Position)
	b := c.Project(c.Position.Add(c.Right()))
	return b.Sub(a).Len()
}

// LabelScale keeps text legible across zoom levels: labels shrink with the
// square root of the magnification.
func (c *Ortho) LabelScale() float64 {
	d := c.PixelsPerUnit()
	if d <= 0 {
		return 1
	}
	return LabelSize / math.Sqrt(d)
}
