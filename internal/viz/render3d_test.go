package viz

import (
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/structview/internal/camera"
	"github.com/san-kum/structview/internal/config"
	"github.com/san-kum/structview/internal/scene"
	"github.com/san-kum/structview/internal/structure"
	"github.com/san-kum/structview/internal/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// single builds a scene holding only root's children, viewed by a 40x40
// pixel camera at four pixels per unit.
func single(nodes ...*scene.Node) (*scene.Scene, *camera.Ortho) {
	root := scene.NewGroup("root")
	root.Add(nodes...)
	root.UpdateWorld()
	return &scene.Scene{Root: root}, camera.NewOrtho(40, 40)
}

func dots(c *Canvas) int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for v := r - blank; v != 0; v &= v - 1 {
				n++
			}
		}
	}
	return n
}

func TestRenderSphere(t *testing.T) {
	sc, cam := single(scene.NewSphere("fill", mgl64.Vec3{}, 2, scene.Solid(0xff0000)))
	c := NewCanvas(20, 10)
	Render(c, sc, cam, ThemeCyberpunk)

	assert.True(t, dot(c, 28, 20))
	assert.True(t, dot(c, 12, 20))
	assert.False(t, dot(c, 20, 20))
	assert.Equal(t, int32(0xff0000), c.Ink[5][14])
}

func TestRenderSphereOccludesFartherLines(t *testing.T) {
	// The line lies behind the sphere along the view direction.
	line := scene.NewLine("edge", scene.Solid(0xffffff), mgl64.Vec3{-4, 0, -5}, mgl64.Vec3{4, 0, -5})
	sc, cam := single(line, scene.NewSphere("fill", mgl64.Vec3{}, 2, scene.Solid(0xff0000)))
	c := NewCanvas(20, 10)
	Render(c, sc, cam, ThemeCyberpunk)

	assert.False(t, dot(c, 20, 20))
	assert.True(t, dot(c, 36, 20))
}

func TestRenderSkipsHiddenAndPlainOutlines(t *testing.T) {
	hidden := scene.NewSphere("fill", mgl64.Vec3{}, 2, scene.Solid(0xff0000))
	hidden.Visible = false
	outline := scene.NewSphere("outline", mgl64.Vec3{}, 2, scene.Material{Color: scene.OutlineColor, Opacity: 1, BackSide: true})
	sc, cam := single(hidden, outline)
	c := NewCanvas(20, 10)
	Render(c, sc, cam, ThemeCyberpunk)
	assert.Zero(t, dots(c))

	outline.Material.Color = 0x00ff00
	Render(c, sc, cam, ThemeCyberpunk)
	assert.True(t, dot(c, 29, 20))
}

func TestRenderCylinderAndLabel(t *testing.T) {
	cyl := scene.NewCylinder("bond", mgl64.Vec3{-2, 0, 0}, mgl64.Vec3{2, 0, 0}, 0.1, scene.Solid(0x00ff00))
	label := scene.NewLabel("label-x", "a", mgl64.Vec3{0, 2, 0}, 0xff0000)
	sc, cam := single(cyl, label)
	c := NewCanvas(20, 10)
	Render(c, sc, cam, ThemeCyberpunk)

	for x := 12; x <= 28; x++ {
		assert.True(t, dot(c, x, 20), "x=%d", x)
	}
	assert.Equal(t, 'a', c.Text[3][9])
}

func TestRenderNilArguments(t *testing.T) {
	c := NewCanvas(2, 2)
	assert.NotPanics(t, func() { Render(c, nil, nil, ThemeOcean) })
	assert.Zero(t, dots(c))
}

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
		PBC:             []bool{false, false, false},
		Positions:       [][3]float64{{0, 0, 0}, {0, 0, 1.2}},
		ChemicalSymbols: []string{"O", "O"},
	}
}

func TestDrawViewer(t *testing.T) {
	c := NewCanvas(60, 30)
	v := viewer.New(120, 120, nil)
	v.Resize(c.Pixels())

	_, ok := Draw(c, v, ThemeCyberpunk)
	assert.False(t, ok)
	assert.Zero(t, dots(c))

	require.True(t, v.Load(rockSalt()).OK)
	snap, ok := Draw(c, v, ThemeCyberpunk)
	require.True(t, ok)
	full := dots(c)
	assert.Positive(t, full)
	assert.True(t, snap.LegendVisible)
	require.Len(t, snap.Legend, 2)
	assert.Equal(t, "Cl", snap.Legend[0].Symbol)
	require.Len(t, snap.BondLengths, 12)
	assert.InDelta(t, 2.82, snap.BondLengths[0], 1e-9)

	require.NoError(t, v.Update(func(o *config.Options) {
		o.ShowBonds = false
		o.ShowCell = false
		o.ShowParam = false
		o.ShowLegend = false
	}))
	snap, _ = Draw(c, v, ThemeCyberpunk)
	assert.Less(t, dots(c), full)
	assert.False(t, snap.LegendVisible)
}

func TestTurntableAndGIF(t *testing.T) {
	v := viewer.New(100, 100, nil)
	require.True(t, v.Load(oxygen()).OK)
	start := v.State().Rotation

	frames := Turntable(v, 20, 10, 4, ThemePaper)
	require.Len(t, frames, 4)
	assert.Equal(t, 20*frameCellW, frames[0].Bounds().Dx())
	assert.Equal(t, 10*frameCellH, frames[0].Bounds().Dy())
	assert.InDelta(t, 1, abs(v.State().Rotation.Dot(start)), 1e-9)

	path := filepath.Join(t.TempDir(), "turn.gif")
	require.NoError(t, SaveGIF(path, frames))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 4)

	assert.Error(t, SaveGIF(path, nil))
	assert.Empty(t, Turntable(viewer.New(10, 10, nil), 4, 4, 3, ThemePaper))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
