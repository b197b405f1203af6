package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/backlight/internal/grid"
	"github.com/san-kum/backlight/internal/render"
)

// FrameToSVG draws a frame as one circle per cell.
func FrameToSVG(f grid.Frame, p render.Palette, cellSize float64) string {
	if f.Rows() == 0 || f.Cols() == 0 {
		return ""
	}
	l := render.NewLayout(f.Rows(), f.Cols(), cellSize)
	width := cellSize * float64(f.Cols())
	height := cellSize * float64(f.Rows())

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, hex(p.Background)))

	// one group per color keeps the file small
	for _, g := range []struct {
		cell grid.Cell
		fill color.RGBA
	}{{grid.Off, p.Mark}, {grid.On, p.Light}} {
		sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", hex(g.fill)))
		for r := 0; r < f.Rows(); r++ {
			for c := 0; c < f.Cols(); c++ {
				if f.At(r, c) != g.cell {
					continue
				}
				cx, cy := l.Center(r, c)
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, l.DotRadius))
			}
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
