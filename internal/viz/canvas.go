package viz

import (
	"image"
	"image/color"
	"image/color/palette"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const (
	blank = 0x2800
	noInk = -1
)

// Canvas is a grid of braille cells. Each cell carries the color of the last
// dot drawn into it and may be overwritten by a text rune.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]int32
	Text          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 1), max(h, 1)
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Ink:    make([][]int32, h),
		Text:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]int32, w)
		c.Text[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Pixels returns the canvas size in sub-pixels.
func (c *Canvas) Pixels() (w, h int) {
	return c.Width * 2, c.Height * 4
}

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	return row, col, col < c.Width && row < c.Height
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Paint sets a pixel and colors its cell.
func (c *Canvas) Paint(x, y int, color uint32) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Ink[row][col] = int32(color & 0xffffff)
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = noInk
			c.Text[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	c.line(x0, y0, x1, y1, func(x, y, _ int) { c.Set(x, y) })
}

// DrawSegment draws a colored line. Dashed lines alternate runs of three
// dots.
func (c *Canvas) DrawSegment(x0, y0, x1, y1 int, color uint32, dashed bool) {
	c.line(x0, y0, x1, y1, func(x, y, i int) {
		if dashed && (i/3)%2 == 1 {
			return
		}
		c.Paint(x, y, color)
	})
}

func (c *Canvas) line(x0, y0, x1, y1 int, plot func(x, y, i int)) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for i := 0; ; i++ {
		plot(x0, y0, i)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws a circle outline with the midpoint algorithm. Radii below
// one pixel plot a single dot.
func (c *Canvas) DrawCircle(cx, cy, r int, color uint32, dashed bool) {
	if r < 1 {
		c.Paint(cx, cy, color)
		return
	}
	x, y, d := r, 0, 1-r
	for i := 0; x >= y; i++ {
		if !dashed || i%2 == 0 {
			for _, p := range [8][2]int{
				{x, y}, {y, x}, {-y, x}, {-x, y},
				{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
			} {
				c.Paint(cx+p[0], cy+p[1], color)
			}
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// ClearDisc erases the dots strictly inside radius r of (cx, cy), along with
// any text whose cell center falls inside.
func (c *Canvas) ClearDisc(cx, cy, r int) {
	if r < 2 {
		return
	}
	inner := (r - 1) * (r - 1)
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > inner {
				continue
			}
			c.Unset(x, y)
			if x%2 == 0 && y%4 == 1 {
				if row, col, ok := c.cell(x, y); ok {
					c.Text[row][col] = 0
				}
			}
		}
	}
}

// PutText writes s starting at the cell containing sub-pixel (x, y).
func (c *Canvas) PutText(x, y int, s string, color uint32) {
	row, col := y/4, x/2
	if y < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if col >= 0 && col < c.Width {
			c.Text[row][col] = r
			c.Ink[row][col] = int32(color & 0xffffff)
		}
		col++
	}
}

func (c *Canvas) glyph(row, col int) rune {
	if t := c.Text[row][col]; t != 0 {
		return t
	}
	return c.Grid[row][col]
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j := range row {
			b.WriteRune(c.glyph(i, j))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Render returns the canvas with each cell colored through theme th. Runs of
// equal ink share one style.
func (c *Canvas) Render(th Theme) string {
	var b strings.Builder
	for i, row := range c.Grid {
		var run strings.Builder
		ink := int32(noInk)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if ink == noInk {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(th.Ink(uint32(ink))).Render(run.String()))
			}
			run.Reset()
		}
		for j := range row {
			if c.Ink[i][j] != ink {
				flush()
				ink = c.Ink[i][j]
			}
			run.WriteRune(c.glyph(i, j))
		}
		flush()
		b.WriteString("\n")
	}
	return b.String()
}

// Image rasterizes the dots, cellW x cellH pixels per cell, onto the theme
// background. Text cells are drawn as solid blocks.
func (c *Canvas) Image(th Theme, cellW, cellH int) *image.Paletted {
	imgW, imgH := c.Width*cellW, c.Height*cellH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), palette.WebSafe)
	bg := rgb(th.Background)
	for y := 0; y < imgH; y++ {
		for x := 0; x < imgW; x++ {
			img.Set(x, y, bg)
		}
	}

	dotW, dotH := max(cellW/2, 1), max(cellH/4, 1)
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			fg := rgb(th.Text)
			if ink := c.Ink[row][col]; ink != noInk {
				fg = rgb(th.Ink(uint32(ink)))
			}
			pattern := int(c.Grid[row][col] - blank)
			if c.Text[row][col] != 0 {
				pattern = 0xff
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					baseX, baseY := col*cellW+dx*dotW, row*cellH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.Set(baseX+px, baseY+py, fg)
						}
					}
				}
			}
		}
	}
	return img
}

func rgb(c lipgloss.Color) color.RGBA {
	r, g, b := parseHex(string(c))
	return color.RGBA{uint8(r), uint8(g), uint8(b), 0xff}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func round(v float64) int {
	return int(math.Round(v))
}
