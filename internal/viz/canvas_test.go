package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func dot(c *Canvas, x, y int) bool {
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	w, h := c.Pixels()
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, h)

	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)
	assert.Equal(t, "⠁⢀\n", c.String())

	c.Unset(0, 0)
	assert.Equal(t, rune(blank), c.Grid[0][0])
	assert.True(t, dot(c, 3, 3))
}

func TestCanvasInk(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	assert.Equal(t, int32(noInk), c.Ink[0][0])
	c.Paint(2, 0, 0xff0000)
	assert.Equal(t, int32(0xff0000), c.Ink[0][1])

	c.Clear()
	assert.Equal(t, int32(noInk), c.Ink[0][1])
	assert.Equal(t, "⠀⠀\n", c.String())
}

func TestDrawSegmentDashed(t *testing.T) {
	solid := NewCanvas(6, 1)
	solid.DrawSegment(0, 0, 11, 0, 0xffffff, false)
	assert.Equal(t, "⠉⠉⠉⠉⠉⠉\n", solid.String())

	dashed := NewCanvas(6, 1)
	dashed.DrawSegment(0, 0, 11, 0, 0xffffff, true)
	assert.Equal(t, "⠉⠁⠀⠉⠁⠀\n", dashed.String())
}

func TestDrawLineDiagonal(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		assert.True(t, dot(c, i, i), "pixel %d", i)
	}
}

func TestDrawCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawCircle(10, 10, 6, 0x00ff00, false)
	assert.True(t, dot(c, 16, 10))
	assert.True(t, dot(c, 4, 10))
	assert.True(t, dot(c, 10, 4))
	assert.True(t, dot(c, 10, 16))
	assert.False(t, dot(c, 10, 10))

	tiny := NewCanvas(2, 1)
	tiny.DrawCircle(1, 1, 0, 0xffffff, false)
	assert.True(t, dot(tiny, 1, 1))
}

func TestClearDisc(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 10, 19, 10)
	c.PutText(10, 9, "X", 0xffffff)

	c.ClearDisc(10, 10, 5)
	assert.False(t, dot(c, 10, 10))
	assert.False(t, dot(c, 13, 10))
	assert.True(t, dot(c, 16, 10))
	assert.True(t, dot(c, 0, 10))
	assert.Equal(t, rune(0), c.Text[2][5])
}

func TestPutText(t *testing.T) {
	c := NewCanvas(4, 2)
	c.PutText(2, 4, "Na", 0x0000ff)
	c.PutText(6, 4, "clipped", 0x0000ff)
	c.PutText(0, 100, "gone", 0x0000ff)

	assert.Equal(t, "⠀⠀⠀⠀\n⠀Nac\n", c.String())
	assert.Equal(t, int32(0x0000ff), c.Ink[1][1])
	assert.Contains(t, c.Render(ThemeCyberpunk), "Nac")
}

func TestCanvasImage(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Paint(0, 0, 0xff0000)

	img := c.Image(ThemeCyberpunk, 2, 4)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})
	r, g, b, _ = img.At(1, 1).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, g, b})
}

func TestCanvasMinimumSize(t *testing.T) {
	c := NewCanvas(0, -3)
	assert.Equal(t, 1, c.Width)
	assert.Equal(t, 1, c.Height)
	assert.True(t, strings.HasSuffix(c.String(), "\n"))
}
