package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/structview/internal/elements"
	"github.com/san-kum/structview/internal/viewer"
	"github.com/stretchr/testify/assert"
)

func TestInkKeepsDarkColorsVisible(t *testing.T) {
	dark := ThemeCyberpunk
	assert.Equal(t, dark.Text, dark.Ink(0x000000))
	assert.Equal(t, lipgloss.Color("#ff0000"), dark.Ink(0xff0000))
	assert.Equal(t, lipgloss.Color("#ffffff"), dark.Ink(0xffffff))

	light := ThemePaper
	assert.Equal(t, light.Text, light.Ink(0xffffff))
	assert.Equal(t, lipgloss.Color("#000000"), light.Ink(0x000000))
}

func TestThemeLookup(t *testing.T) {
	assert.Equal(t, "ocean", GetTheme("ocean").Name)
	assert.Equal(t, "cyberpunk", GetTheme("nope").Name)
	assert.Equal(t, []string{"cyberpunk", "retro", "ocean", "paper"}, ThemeNames())

	assert.Equal(t, "retro", NextTheme(ThemeCyberpunk).Name)
	assert.Equal(t, "cyberpunk", NextTheme(ThemePaper).Name)
	assert.True(t, GetTheme("paper").Light)
}

func TestHexColors(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#1a2b3c"), Hex(0x1a2b3c))
	r, g, b := parseHex("#1A2b3c")
	assert.Equal(t, []int{0x1a, 0x2b, 0x3c}, []int{r, g, b})
	r, g, b = parseHex("86")
	assert.Equal(t, []int{255, 255, 255}, []int{r, g, b})
	assert.Equal(t, "#00ff00", hexColor(-4, 300, 0))
}

func TestStyleHelpers(t *testing.T) {
	assert.Equal(t, "───", SparklineChart(nil, 3))
	assert.NotEmpty(t, SparklineChart([]float64{1, 2, 3, 2}, 10))
	assert.Empty(t, GradientText("", "#000000", "#ffffff"))
	assert.NotPanics(t, func() { BoxWithTitle("a very long title indeed", "x", 4) })
	assert.NotPanics(t, func() { Separator(2) })
	assert.Equal(t, "⠋", AnimatedSpinner(10))

	sw := Swatch(elements.Entry{Symbol: "Na", Number: 11, Color: elements.Color(11)}, ThemeCyberpunk)
	assert.True(t, strings.Contains(sw, "Na"))
	assert.True(t, strings.Contains(sw, "Z=11"))
}

func TestPanelSections(t *testing.T) {
	empty := Panel(PanelInfo{Title: "structview", Failed: true, Message: "bad cell"}, ThemeCyberpunk)
	assert.Contains(t, empty, "bad cell")
	assert.Contains(t, empty, "no structure")
	assert.NotContains(t, empty, "Elements")

	full := Panel(PanelInfo{
		Title:     "structview",
		Recording: true,
		Frames:    3,
		State:     viewer.State{Loaded: true, Atoms: 4, Bonds: 1, Zoom: 1},
		Snapshot: Snapshot{
			Legend:        elements.Legend([]int{11, 17}),
			LegendVisible: true,
			BondLengths:   []float64{2.82},
		},
	}, ThemeOcean)
	for _, want := range []string{"REC 3", "Atoms", "Elements", "Cl", "Na", "2.820 Å"} {
		assert.Contains(t, full, want)
	}
}
