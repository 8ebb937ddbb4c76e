package viz

import (
	"fmt"
	"image"
	"image/gif"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/structview/internal/camera"
	"github.com/san-kum/structview/internal/elements"
	"github.com/san-kum/structview/internal/scene"
	"github.com/san-kum/structview/internal/viewer"
)

const (
	PanelWidth = 34

	// Size of one character cell in recorded frames.
	frameCellW = 8
	frameCellH = 16
	// Frame delay in 1/100 s.
	frameDelay = 8
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	helpStyle   = KeyHint.MarginTop(1)
)

// Snapshot is what the side panel needs to know about the drawn scene.
type Snapshot struct {
	Legend        []elements.Entry
	LegendVisible bool
	// BondLengths are sorted ascending.
	BondLengths []float64
}

// Draw clears c and renders the viewer's scene onto it. It reports false
// when no structure is loaded.
func Draw(c *Canvas, v *viewer.Viewer, th Theme) (Snapshot, bool) {
	c.Clear()
	var snap Snapshot
	ok := v.Render(func(sc *scene.Scene, cam *camera.Ortho) {
		Render(c, sc, cam, th)
		snap.Legend = append([]elements.Entry(nil), sc.Legend...)
		snap.LegendVisible = sc.LegendVisible
		snap.BondLengths = make([]float64, len(sc.BondList))
		for i, b := range sc.BondList {
			snap.BondLengths[i] = b.Length()
		}
		sort.Float64s(snap.BondLengths)
	})
	return snap, ok
}

// PanelInfo is the content of the side panel.
type PanelInfo struct {
	Title     string
	Message   string
	Failed    bool
	Loading   bool
	Recording bool
	Frames    int
	Tick      int
	State     viewer.State
	Snapshot
}

// Panel renders the status, metrics, legend and bond length chart.
func Panel(p PanelInfo, th Theme) string {
	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(p.Title), th.Primary, th.Secondary) + "\n")

	switch {
	case p.Loading:
		s.WriteString(StatusLoading.Render(AnimatedSpinner(p.Tick)+" loading") + "\n")
	case p.Failed:
		s.WriteString(StatusError.Render("✗ "+p.Message) + "\n")
	case p.Message != "":
		s.WriteString(StatusReady.Render("● "+p.Message) + "\n")
	}
	if p.Recording {
		s.WriteString(StatusRecording.Render(fmt.Sprintf("● REC %d", p.Frames)) + "\n")
	}
	s.WriteString(Separator(PanelWidth-4) + "\n")

	if p.State.Loaded {
		metric := func(label, value string) {
			s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
		}
		metric("Lattice", p.State.Class.Dim.String())
		metric("Atoms", fmt.Sprint(p.State.Atoms))
		metric("Bonds", fmt.Sprint(p.State.Bonds))
		metric("Zoom", fmt.Sprintf("%.2f", p.State.Zoom))
	} else {
		s.WriteString(Subtle.Render("no structure") + "\n")
	}

	if p.LegendVisible && len(p.Legend) > 0 {
		s.WriteString("\n" + HeaderStyle.Render("Elements") + "\n")
		for _, e := range p.Legend {
			s.WriteString(Swatch(e, th) + "\n")
		}
	}

	if n := len(p.BondLengths); n > 1 {
		chart := asciigraph.Plot(p.BondLengths,
			asciigraph.Height(4),
			asciigraph.Width(PanelWidth-12),
			asciigraph.Precision(2),
			asciigraph.Caption("bond lengths (Å)"))
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	} else if n == 1 {
		s.WriteString("\n" + MetricLabel.Render("Bond") + MetricValue.Render(fmt.Sprintf("%.3f Å", p.BondLengths[0])) + "\n")
	}

	s.WriteString(helpStyle.Render("←→↑↓ rotate  +/- zoom\nf fit  r reset  ? help  q quit"))
	return GlassPanel.Width(PanelWidth).Render(s.String())
}

// Turntable renders frames of one full turn about the vertical axis onto a
// canvas of cols x rows cells. The viewer is resized to the canvas and left
// at its starting orientation.
func Turntable(v *viewer.Viewer, cols, rows, frames int, th Theme) []*image.Paletted {
	c := NewCanvas(cols, rows)
	v.Resize(c.Pixels())
	out := make([]*image.Paletted, 0, frames)
	step := 2 * math.Pi / float64(max(frames, 1))
	for n := 0; n < frames; n++ {
		if _, ok := Draw(c, v, th); !ok {
			break
		}
		out = append(out, c.Image(th, frameCellW, frameCellH))
		v.Spin(step)
	}
	return out
}

// SaveGIF writes frames as a looping animation.
func SaveGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return fmt.Errorf("save %s: no frames", path)
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, frameDelay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
