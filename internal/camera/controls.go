package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/structview/internal/config"
)

const (
	MinZoom = 0.05
	MaxZoom = 50.0

	// Step sizes at the default speeds.
	rotateStep = math.Pi / 36
	panStep    = 0.05
	zoomStep   = 0.04
)

// Controls turns discrete input steps into camera and orientation changes.
type Controls struct {
	EnableZoom   bool
	EnableRotate bool
	EnablePan    bool
	ZoomSpeed    float64
	RotateSpeed  float64
	PanSpeed     float64
}

func ControlsFrom(opts *config.Options) Controls {
	return Controls{
		EnableZoom:   opts.EnableZoom,
		EnableRotate: opts.EnableRotate,
		EnablePan:    opts.EnablePan,
		ZoomSpeed:    opts.ZoomSpeed,
		RotateSpeed:  opts.RotateSpeed,
		PanSpeed:     opts.PanSpeed,
	}
}

// Rotate turns the object orientation q about the camera up axis by dx steps
// and about the camera right axis by dy steps.
func (c Controls) Rotate(cam *Ortho, q mgl64.Quat, dx, dy float64) (mgl64.Quat, bool) {
	if !c.EnableRotate || (dx == 0 && dy == 0) {
		return q, false
	}
	step := rotateStep * c.RotateSpeed / config.DefaultRotateSpeed
	if dx != 0 {
		q = mgl64.QuatRotate(dx*step, cam.Up()).Mul(q)
	}
	if dy != 0 {
		q = mgl64.QuatRotate(dy*step, cam.Right()).Mul(q)
	}
	return q.Normalize(), true
}

// Pan moves the view content by dx, dy steps in screen directions. Steps
// shrink as the camera zooms in.
func (c Controls) Pan(cam *Ortho, dx, dy float64) bool {
	if !c.EnablePan || (dx == 0 && dy == 0) {
		return false
	}
	step := panStep * c.PanSpeed / cam.Zoom
	move := cam.Right().Mul(dx * step).Add(cam.Up().Mul(dy * step))
	cam.Position = cam.Position.Sub(move)
	return true
}

// Zoom multiplies the camera zoom per step, positive steps zooming in.
func (c Controls) Zoom(cam *Ortho, steps float64) bool {
	if !c.EnableZoom || steps == 0 {
		return false
	}
	cam.Zoom = mgl64.Clamp(cam.Zoom*math.Pow(1+zoomStep*c.ZoomSpeed, steps), MinZoom, MaxZoom)
	return true
}
