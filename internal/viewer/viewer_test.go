package viewer_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/structview/internal/bonds"
	"github.com/san-kum/structview/internal/camera"
	"github.com/san-kum/structview/internal/config"
	"github.com/san-kum/structview/internal/lattice"
	"github.com/san-kum/structview/internal/scene"
	"github.com/san-kum/structview/internal/structure"
	"github.com/san-kum/structview/internal/viewer"
)

func rockSalt() *structure.Descriptor {
	return &structure.Descriptor{
		Cell: &structure.Matrix3{{5.64, 0, 0}, {0, 5.64, 0}, {0, 0, 5.64}},
		PBC:  []bool{true, true, true},
		ScaledPositions: [][3]float64{
			{0, 0, 0}, {0, 0.5, 0.5}, {0.5, 0, 0.5}, {0.5, 0.5, 0},
			{0.5, 0, 0}, {0, 0.5, 0}, {0, 0, 0.5}, {0.5, 0.5, 0.5},
		},
		ChemicalSymbols: []string{"Na", "Na", "Na", "Na", "Cl", "Cl", "Cl", "Cl"},
	}
}

func oxygen() *structure.Descriptor {
	return &structure.Descriptor{
		PBC:           []bool{false, false, false},
		Positions:     [][3]float64{{0, 0.5, 0}, {0, 1.5, 0}},
		AtomicNumbers: []int{8, 8},
	}
}

func graphene() *structure.Descriptor {
	return &structure.Descriptor{
		Cell:            &structure.Matrix3{{2.46, 0, 0}, {-1.23, 2.13, 0}, {0, 0, 10}},
		PBC:             []bool{true, true, false},
		ScaledPositions: [][3]float64{{0, 0, 0.5}, {1.0 / 3, 2.0 / 3, 0.5}},
		ChemicalSymbols: []string{"C", "C"},
	}
}

var _ = Describe("Viewer", func() {
	var v *viewer.Viewer

	BeforeEach(func() {
		v = viewer.New(800, 600, nil)
	})

	Describe("loading", func() {
		It("builds a bulk crystal", func() {
			res := v.Load(rockSalt())
			Expect(res.OK).To(BeTrue())
			Expect(res.Err).NotTo(HaveOccurred())
			Expect(res.Message).To(ContainSubstring("Cl4Na4 3D"))

			st := v.State()
			Expect(st.Loaded).To(BeTrue())
			Expect(st.Class.Dim).To(Equal(lattice.ThreeD))
			Expect(st.Atoms).To(Equal(8))
			Expect(st.Bonds).To(Equal(12))
		})

		It("builds a molecule without a cell", func() {
			res := v.Load(oxygen())
			Expect(res.OK).To(BeTrue())

			st := v.State()
			Expect(st.Class.Dim).To(Equal(lattice.ZeroD))
			Expect(st.Atoms).To(Equal(2))
			Expect(st.Bonds).To(Equal(1))
			Expect(st.Rotation).To(Equal(mgl64.QuatIdent()))
		})

		It("rejects a descriptor without species", func() {
			d := oxygen()
			d.AtomicNumbers = nil

			res := v.Load(d)
			Expect(res.OK).To(BeFalse())
			Expect(res.Err).To(MatchError(structure.ErrNoSpecies))
			Expect(res.Message).To(ContainSubstring("atomicNumbers or chemicalSymbols"))
			Expect(v.State().Loaded).To(BeFalse())
		})

		It("keeps the previous structure when a load fails", func() {
			Expect(v.Load(rockSalt()).OK).To(BeTrue())

			d := oxygen()
			d.Bonds = structure.ExplicitBonds(bonds.Pair{0, 5})
			res := v.Load(d)
			Expect(res.OK).To(BeFalse())
			Expect(errors.Is(res.Err, bonds.ErrIndexRange)).To(BeTrue())
			Expect(v.State().Atoms).To(Equal(8))
		})

		It("repeats a slab in its plane", func() {
			Expect(v.Load(graphene()).OK).To(BeTrue())
			st := v.State()
			Expect(st.Class.Dim).To(Equal(lattice.TwoD))
			Expect(st.Atoms).To(BeNumerically(">", 2))
		})

		It("honours explicit and disabled bonds", func() {
			d := rockSalt()
			d.Bonds = structure.ExplicitBonds(bonds.Pair{0, 4}, bonds.Pair{4, 0})
			Expect(v.Load(d).OK).To(BeTrue())
			Expect(v.State().Bonds).To(Equal(1))

			d.Bonds = structure.NoBonds()
			Expect(v.Load(d).OK).To(BeTrue())
			Expect(v.State().Bonds).To(BeZero())
		})

		It("clears the scene", func() {
			Expect(v.Load(oxygen()).OK).To(BeTrue())
			v.Clear()
			Expect(v.State().Loaded).To(BeFalse())
			Expect(v.Render(func(*scene.Scene, *camera.Ortho) {})).To(BeFalse())
			Expect(v.Reload().Err).To(MatchError(viewer.ErrNoStructure))
		})
	})

	Describe("asynchronous loading", func() {
		It("drops superseded results", func() {
			first := v.Begin()
			second := v.Begin()

			_, stale := v.Complete(first, rockSalt(), nil)
			Expect(stale).To(BeTrue())
			Expect(v.State().Loaded).To(BeFalse())

			res, stale := v.Complete(second, oxygen(), nil)
			Expect(stale).To(BeFalse())
			Expect(res.OK).To(BeTrue())
			Expect(v.State().Atoms).To(Equal(2))
		})

		It("reports fetch failures", func() {
			seq := v.Begin()
			res, stale := v.Complete(seq, nil, os.ErrNotExist)
			Expect(stale).To(BeFalse())
			Expect(res.OK).To(BeFalse())
			Expect(res.Err).To(MatchError(os.ErrNotExist))
		})

		It("loads a file in the background", func() {
			path := filepath.Join(GinkgoT().TempDir(), "o2.yaml")
			Expect(os.WriteFile(path, []byte(`
pbc: [false, false, false]
positions: [[0, 0, 0], [0, 0, 1.2]]
chemicalSymbols: [O, O]
`), 0o644)).To(Succeed())

			var res viewer.LoadResult
			Eventually(v.LoadAsync(context.Background(), path)).Should(Receive(&res))
			Expect(res.OK).To(BeTrue())
			Expect(v.State().Bonds).To(Equal(1))
		})
	})

	Describe("camera fitting", func() {
		It("zooms out as the margin grows", func() {
			Expect(v.Load(rockSalt()).OK).To(BeTrue())
			tight := v.State().Zoom

			Expect(v.Update(func(o *config.Options) { o.FitMargin = 1.5 })).To(Succeed())
			Expect(v.State().Zoom).To(BeNumerically("<", tight))
		})

		It("scales the fitted zoom by the zoom level", func() {
			Expect(v.Load(oxygen()).OK).To(BeTrue())
			base := v.State().Zoom
			Expect(v.Update(func(o *config.Options) { o.ZoomLevel = 2 })).To(Succeed())
			Expect(v.State().Zoom).To(BeNumerically("~", 2*base, 1e-9))
		})

		It("refits on resize", func() {
			Expect(v.Load(rockSalt()).OK).To(BeTrue())
			before := v.State().Zoom
			v.Resize(800, 300)
			Expect(v.State().Zoom).To(BeNumerically("<", before))
		})

		It("keeps the zoom on resize when auto-resize is off", func() {
			Expect(v.Update(func(o *config.Options) { o.AutoResize = false })).To(Succeed())
			Expect(v.Load(rockSalt()).OK).To(BeTrue())
			before := v.State().Zoom
			v.Resize(800, 300)
			Expect(v.State().Zoom).To(Equal(before))
		})

		It("needs a structure", func() {
			Expect(v.Fit()).To(MatchError(viewer.ErrNoStructure))
		})
	})

	Describe("options", func() {
		BeforeEach(func() {
			Expect(v.Load(rockSalt()).OK).To(BeTrue())
		})

		It("applies display toggles in place", func() {
			var before *scene.Scene
			v.Render(func(sc *scene.Scene, _ *camera.Ortho) { before = sc })

			Expect(v.Update(func(o *config.Options) { o.ShowBonds = false })).To(Succeed())
			v.Render(func(sc *scene.Scene, _ *camera.Ortho) {
				Expect(sc).To(BeIdenticalTo(before))
				Expect(sc.Bonds.Visible).To(BeFalse())
			})
		})

		It("rebuilds when geometry options change", func() {
			Expect(v.Update(func(o *config.Options) { o.ShowCopies = true })).To(Succeed())
			Expect(v.State().Atoms).To(BeNumerically(">", 8))
		})

		It("keeps the options when a rebuild fails", func() {
			Expect(v.Update(func(o *config.Options) { o.ShowCopies = true })).To(Succeed())
			d := rockSalt()
			d.Bonds = structure.ExplicitBonds(bonds.Pair{0, 20})
			Expect(v.Load(d).OK).To(BeTrue())
			atoms := v.State().Atoms
			Expect(atoms).To(Equal(27))

			err := v.Update(func(o *config.Options) { o.ShowCopies = false })
			Expect(errors.Is(err, bonds.ErrIndexRange)).To(BeTrue())
			Expect(v.Options().ShowCopies).To(BeTrue())
			Expect(v.State().Atoms).To(Equal(atoms))

			Expect(v.Update(func(o *config.Options) { o.ShowBonds = false })).To(Succeed())
			Expect(v.State().Bonds).To(Equal(1))
		})

		It("rejects invalid values", func() {
			err := v.Update(func(o *config.Options) { o.RadiusScale = -1 })
			Expect(err).To(MatchError(config.ErrInvalidOption))
			Expect(v.Options().RadiusScale).To(Equal(1.0))
		})
	})

	Describe("controls", func() {
		BeforeEach(func() {
			Expect(v.Load(rockSalt()).OK).To(BeTrue())
		})

		It("rotates, pans and zooms", func() {
			start := v.State()
			Expect(v.Rotate(1, 0)).To(BeTrue())
			Expect(v.State().Rotation).NotTo(Equal(start.Rotation))
			Expect(v.Zoom(1)).To(BeTrue())
			Expect(v.State().Zoom).To(BeNumerically(">", start.Zoom))
			Expect(v.Pan(1, 1)).To(BeTrue())

			Expect(v.ResetView()).To(Succeed())
			Expect(v.State().Rotation.ApproxEqual(start.Rotation)).To(BeTrue())
			Expect(v.State().Zoom).To(BeNumerically("~", start.Zoom, 1e-9))
		})

		It("spins a full turn back to the start", func() {
			start := v.State().Rotation
			for i := 0; i < 8; i++ {
				Expect(v.Spin(math.Pi / 4)).To(BeTrue())
			}
			end := v.State().Rotation
			Expect(math.Abs(end.Dot(start))).To(BeNumerically("~", 1, 1e-9))
		})

		It("respects disabled controls", func() {
			Expect(v.Update(func(o *config.Options) {
				o.EnableRotate = false
				o.EnableZoom = false
			})).To(Succeed())
			Expect(v.Rotate(1, 1)).To(BeFalse())
			Expect(v.Zoom(1)).To(BeFalse())
		})
	})

	Describe("rendering", func() {
		It("sizes labels from the zoom", func() {
			Expect(v.Load(rockSalt()).OK).To(BeTrue())
			Expect(v.Render(func(sc *scene.Scene, cam *camera.Ortho) {
				Expect(sc.Labels()).NotTo(BeEmpty())
				want := scene.LabelScale * cam.LabelScale()
				for _, l := range sc.Labels() {
					Expect(l.Scale.X()).To(BeNumerically("~", want, 1e-12))
				}
			})).To(BeTrue())
		})
	})
})

type fakeLoader struct {
	loads int
}

func (f *fakeLoader) Load(*structure.Descriptor) viewer.LoadResult {
	f.loads++
	return viewer.LoadResult{OK: true}
}

func (f *fakeLoader) Clear() {}

var _ = Describe("Driver", func() {
	It("draws only after a change", func() {
		loader := &fakeLoader{}
		d := viewer.NewDriver(loader)
		d.Fetch = func(context.Context, string) (*structure.Descriptor, error) {
			return oxygen(), nil
		}

		frames := 0
		draw := func() { frames++ }
		Expect(d.Tick(draw)).To(BeTrue())
		Expect(d.Tick(draw)).To(BeFalse())

		Expect(d.Open(context.Background(), "o2.json").OK).To(BeTrue())
		Expect(loader.loads).To(Equal(1))
		Expect(d.Tick(draw)).To(BeTrue())
		Expect(frames).To(Equal(2))
	})

	It("surfaces fetch errors without loading", func() {
		loader := &fakeLoader{}
		d := viewer.NewDriver(loader)
		d.Fetch = func(context.Context, string) (*structure.Descriptor, error) {
			return nil, os.ErrNotExist
		}
		res := d.Open(context.Background(), "missing.json")
		Expect(res.OK).To(BeFalse())
		Expect(res.Err).To(MatchError(os.ErrNotExist))
		Expect(loader.loads).To(BeZero())
	})
})
