package export

import (
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/san-kum/structview/internal/viz"
)

// Braille dot-to-bit mapping
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// CanvasToSVG converts a braille canvas to SVG. Every dot becomes a circle
// in its cell's ink; text cells become <text> elements. scale is the size
// of one sub-pixel.
func CanvasToSVG(canvas *viz.Canvas, th viz.Theme, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, th.Background)

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			fill := th.Text
			if ink := canvas.Ink[row][col]; ink >= 0 {
				fill = th.Ink(uint32(ink))
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			if t := canvas.Text[row][col]; t != 0 {
				fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="%.1f" font-family="monospace" fill="%s">%s</text>
`, baseX, baseY+scale*3.5, scale*4, fill, html.EscapeString(string(t)))
				continue
			}

			pattern := int(canvas.Grid[row][col] - 0x2800)
			if pattern <= 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill)
				}
			}
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteSVG saves the canvas as an SVG file.
func WriteSVG(path string, canvas *viz.Canvas, th viz.Theme, scale float64) error {
	return os.WriteFile(path, []byte(CanvasToSVG(canvas, th, scale)), 0o644)
}
