package viewer

import (
	"context"
	"errors"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/structview/internal/bonds"
	"github.com/san-kum/structview/internal/camera"
	"github.com/san-kum/structview/internal/config"
	"github.com/san-kum/structview/internal/lattice"
	"github.com/san-kum/structview/internal/logging"
	"github.com/san-kum/structview/internal/orient"
	"github.com/san-kum/structview/internal/replicate"
	"github.com/san-kum/structview/internal/scene"
	"github.com/san-kum/structview/internal/structure"
)

// ErrNoStructure is returned by operations that need a loaded structure.
var ErrNoStructure = errors.New("viewer: no structure loaded")

// LoadResult reports the outcome of a load. Message is a human readable
// summary suitable for a status line.
type LoadResult struct {
	OK      bool
	Message string
	Err     error
}

// State is a snapshot of the view for display.
type State struct {
	Class    lattice.Classification
	Rotation mgl64.Quat
	Zoom     float64
	Atoms    int
	Bonds    int
	Loaded   bool
}

// StructureLoader is the capability a render loop drives: load a
// descriptor, or drop whatever is shown.
type StructureLoader interface {
	Load(d *structure.Descriptor) LoadResult
	Clear()
}

// Viewer owns the scene and camera for one canvas. All methods are safe for
// concurrent use; drawing goes through Render so it never observes a scene
// being rebuilt.
type Viewer struct {
	mu       sync.Mutex
	opts     *config.Options
	cam      *camera.Ortho
	controls camera.Controls
	scene    *scene.Scene
	last     *structure.Descriptor
	seq      uint64
}

var _ StructureLoader = (*Viewer)(nil)

// New creates a viewer for a canvas of the given pixel size. A nil opts
// uses the defaults.
func New(width, height int, opts *config.Options) *Viewer {
	if opts == nil {
		opts = config.DefaultOptions()
	}
	opts = opts.Clone()
	cam := camera.NewOrtho(width, height)
	cam.Zoom = opts.ZoomLevel
	return &Viewer{
		opts:     opts,
		cam:      cam,
		controls: camera.ControlsFrom(opts),
	}
}

// Load replaces the current structure. A failed load leaves the previous
// scene untouched and is logged once.
func (v *Viewer) Load(d *structure.Descriptor) LoadResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.load(d)
}

func (v *Viewer) load(d *structure.Descriptor) LoadResult {
	log := logging.Logger()
	if d == nil {
		return v.fail(ErrNoStructure)
	}

	s, err := d.Prepare(v.opts.Wrap)
	if err != nil {
		return v.fail(err)
	}

	atoms := replicate.Replicate(s.Atoms(), s.Basis, s.Class, replicate.Options{
		AllowRepeat: v.opts.AllowRepeat,
		ShowCopies:  v.opts.ShowCopies,
	})
	params := bonds.Params{RadiusScale: v.opts.RadiusScale, BondScale: v.opts.BondScale}
	bondList, err := bonds.Build(s.Bonds.Mode, atoms, s.Bonds.Pairs, params)
	if err != nil {
		return v.fail(err)
	}

	if v.scene != nil {
		v.scene.Release()
	}
	v.scene = scene.Assemble(s, atoms, bondList, v.opts)
	v.last = d

	w, h := v.cam.Viewport()
	v.cam = camera.NewOrtho(w, h)
	v.cam.Zoom = v.opts.ZoomLevel
	v.scene.Root.Rotation = orient.For(s.Class, s.Basis, v.cam.Rotation)
	v.scene.Root.UpdateWorld()
	if v.opts.AutoFit {
		if err := v.fit(); err != nil {
			log.Debug("fit skipped", "err", err)
		}
	}

	log.Info("structure loaded",
		"dim", s.Class.Dim,
		"atoms", len(atoms),
		"bonds", len(bondList),
		"bondMode", s.Bonds.Mode)
	return LoadResult{
		OK:      true,
		Message: summary(s, len(atoms), len(bondList)),
	}
}

func (v *Viewer) fail(err error) LoadResult {
	logging.Logger().Warn("structure rejected", "err", err)
	return LoadResult{Message: err.Error(), Err: err}
}

// Clear drops the current structure.
func (v *Viewer) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.scene != nil {
		v.scene.Release()
	}
	v.scene = nil
	v.last = nil
}

// Reload rebuilds the scene from the last descriptor, picking up option
// changes that affect geometry.
func (v *Viewer) Reload() LoadResult {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.last == nil {
		return LoadResult{Message: ErrNoStructure.Error(), Err: ErrNoStructure}
	}
	return v.load(v.last)
}

// Begin starts an asynchronous load and returns its sequence number. Only
// the result of the most recent Begin is applied by Complete.
func (v *Viewer) Begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	return v.seq
}

// Complete applies the outcome of the load started with seq. Results of
// superseded loads are dropped and reported as stale.
func (v *Viewer) Complete(seq uint64, d *structure.Descriptor, fetchErr error) (res LoadResult, stale bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		logging.Logger().Debug("stale load dropped", "seq", seq, "current", v.seq)
		return LoadResult{}, true
	}
	if fetchErr != nil {
		return v.fail(fetchErr), false
	}
	return v.load(d), false
}

// LoadAsync fetches source in the background. The channel receives exactly
// one result, or is closed without one when a newer load supersedes it.
func (v *Viewer) LoadAsync(ctx context.Context, source string) <-chan LoadResult {
	seq := v.Begin()
	out := make(chan LoadResult, 1)
	go func() {
		defer close(out)
		d, err := structure.Fetch(ctx, source)
		if res, stale := v.Complete(seq, d, err); !stale {
			out <- res
		}
	}()
	return out
}

// Fit zooms the camera so the boundary box fills the canvas.
func (v *Viewer) Fit() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fit()
}

func (v *Viewer) fit() error {
	if v.scene == nil {
		return ErrNoStructure
	}
	v.scene.Root.UpdateWorld()
	corners := make([]mgl64.Vec3, len(v.scene.Box))
	for i, p := range v.scene.Corners.Vertices {
		corners[i] = v.scene.Corners.LocalToWorld(p)
	}
	factor, err := camera.Fit(v.cam, corners, v.opts.FitMargin)
	if err != nil {
		return err
	}
	v.cam.Zoom = factor * v.opts.ZoomLevel
	return nil
}

// Resize updates the canvas size and refits when auto-resize is on.
func (v *Viewer) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cam.Resize(width, height)
	if v.opts.AutoResize && v.opts.AutoFit && v.scene != nil {
		if err := v.fit(); err != nil {
			logging.Logger().Debug("fit skipped", "err", err)
		}
	}
}

// Options returns a copy of the current options.
func (v *Viewer) Options() *config.Options {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.opts.Clone()
}

// Update applies fn to a copy of the options. Display toggles take effect
// immediately; options that change geometry rebuild the scene. A failed
// rebuild leaves both the options and the scene as they were.
func (v *Viewer) Update(fn func(*config.Options)) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := v.opts.Clone()
	fn(next)
	if err := next.Validate(); err != nil {
		return err
	}
	prev := v.opts
	rebuild := geometryChanged(prev, next)
	v.opts = next
	v.controls = camera.ControlsFrom(next)

	if v.scene == nil {
		return nil
	}
	if rebuild {
		if res := v.load(v.last); !res.OK {
			v.opts = prev
			v.controls = camera.ControlsFrom(prev)
			return res.Err
		}
		return nil
	}
	v.scene.Apply(next)
	return nil
}

func geometryChanged(a, b *config.Options) bool {
	return a.RadiusScale != b.RadiusScale ||
		a.BondScale != b.BondScale ||
		a.Wrap != b.Wrap ||
		a.ShowCopies != b.ShowCopies ||
		a.AllowRepeat != b.AllowRepeat ||
		a.ViewCenter != b.ViewCenter ||
		a.Translation != b.Translation ||
		a.ZoomLevel != b.ZoomLevel ||
		a.FitMargin != b.FitMargin
}

// Rotate turns the structure by dx, dy control steps.
func (v *Viewer) Rotate(dx, dy float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.scene == nil {
		return false
	}
	q, ok := v.controls.Rotate(v.cam, v.scene.Root.Rotation, dx, dy)
	v.scene.Root.Rotation = q
	return ok
}

// Spin turns the structure by angle radians about the camera up axis. It
// ignores the control settings and is meant for scripted turntables.
func (v *Viewer) Spin(angle float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.scene == nil {
		return false
	}
	q := mgl64.QuatRotate(angle, v.cam.Up()).Mul(v.scene.Root.Rotation)
	v.scene.Root.Rotation = q.Normalize()
	return true
}

func (v *Viewer) Pan(dx, dy float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.controls.Pan(v.cam, dx, dy)
}

func (v *Viewer) Zoom(steps float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.controls.Zoom(v.cam, steps)
}

// ResetView restores the initial orientation, position and zoom.
func (v *Viewer) ResetView() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.scene == nil {
		return ErrNoStructure
	}
	s := v.scene.Structure
	w, h := v.cam.Viewport()
	v.cam = camera.NewOrtho(w, h)
	v.cam.Zoom = v.opts.ZoomLevel
	v.scene.Root.Rotation = orient.For(s.Class, s.Basis, v.cam.Rotation)
	if v.opts.AutoFit {
		return v.fit()
	}
	return nil
}

// Render updates world transforms and label sizes, then calls draw with the
// scene and camera. draw must not retain either after returning. Nothing is
// drawn while no structure is loaded.
func (v *Viewer) Render(draw func(sc *scene.Scene, cam *camera.Ortho)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.scene == nil {
		return false
	}
	s := scene.LabelScale * v.cam.LabelScale()
	for _, l := range v.scene.Labels() {
		l.Scale = mgl64.Vec3{s, s, 1}
	}
	v.scene.Root.UpdateWorld()
	draw(v.scene, v.cam)
	return true
}

// State returns a snapshot of the current view.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := State{Zoom: v.cam.Zoom, Rotation: mgl64.QuatIdent()}
	if v.scene == nil {
		return st
	}
	st.Loaded = true
	st.Class = v.scene.Structure.Class
	st.Rotation = v.scene.Root.Rotation
	st.Atoms = len(v.scene.Instances)
	st.Bonds = len(v.scene.BondList)
	return st
}
