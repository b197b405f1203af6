// Package render rasterizes dot matrices into images.
package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/san-kum/backlight/internal/anim"
	"github.com/san-kum/backlight/internal/grid"
)

// Palette maps cell states to colors. Off cells use Mark, On cells use Light.
type Palette struct {
	Background color.RGBA
	Mark       color.RGBA
	Light      color.RGBA
}

var DefaultPalette = Palette{
	Background: color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff},
	Mark:       color.RGBA{A: 0xff},
	Light:      color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

// Colors returns the export palette: background, mark, light.
func (p Palette) Colors() color.Palette {
	return color.Palette{p.Background, p.Mark, p.Light}
}

// FadeColor is the Light color interpolated towards Mark; factor 1 is Light.
func (p Palette) FadeColor(factor float64) color.RGBA {
	return anim.Lerp(p.Mark, p.Light, factor)
}

// DefaultCellSize is the pixel pitch of one dot in exported images.
const DefaultCellSize = 20

// Renderer draws one filled dot per cell.
type Renderer struct {
	CellSize int
	Palette  Palette
}

func New(cellSize int, p Palette) Renderer {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return Renderer{CellSize: cellSize, Palette: p}
}

// Fit returns a renderer whose cell size makes a rows x cols frame as large
// as possible within w x h pixels, at least one pixel per cell.
func (r Renderer) Fit(rows, cols, w, h int) Renderer {
	l := FitLayout(rows, cols, float64(w), float64(h))
	return Renderer{CellSize: max(1, int(l.CellSize)), Palette: r.Palette}
}

func (r Renderer) Layout(rows, cols int) Layout {
	return NewLayout(rows, cols, float64(r.CellSize))
}

// Frame renders an export frame with the static two-color mapping.
func (r Renderer) Frame(f grid.Frame) *image.Paletted {
	l := r.Layout(f.Rows(), f.Cols())
	w, h := l.Size()
	img := image.NewPaletted(image.Rect(0, 0, w, h), r.Palette.Colors())
	r.paint(img, l, f.At, r.Palette.Light)
	return img
}

// Live renders the current view. When fading, On cells take the fade color
// for factor instead of the static Light color.
func (r Renderer) Live(m grid.Matrix, fading bool, factor float64) *image.RGBA {
	l := r.Layout(m.Rows(), m.Cols())
	w, h := l.Size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	light := r.Palette.Light
	if fading {
		light = r.Palette.FadeColor(factor)
	}
	r.paint(img, l, m.At, light)
	return img
}

func (r Renderer) paint(dst draw.Image, l Layout, at func(r, c int) grid.Cell, light color.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.Palette.Background), image.Point{}, draw.Src)
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Cols; col++ {
			c := r.Palette.Mark
			if at(row, col) == grid.On {
				c = light
			}
			cx, cy := l.Center(row, col)
			fillDot(dst, cx, cy, l.DotRadius, c)
		}
	}
}

// fillDot sets every pixel whose centre lies within radius of (cx, cy).
// Hard edges keep exported frames on the palette.
func fillDot(dst draw.Image, cx, cy, radius float64, c color.Color) {
	r2 := radius * radius
	minX, maxX := int(cx-radius), int(cx+radius)+1
	minY, maxY := int(cy-radius), int(cy+radius)+1
	b := dst.Bounds()
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !(image.Point{X: x, Y: y}).In(b) {
				continue
			}
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r2 {
				dst.Set(x, y, c)
			}
		}
	}
}

// Thumbnail scales src to fit within w x h, keeping its aspect ratio.
// Nearest-neighbour sampling keeps the dot colors exact.
func Thumbnail(src image.Image, w, h int) *image.RGBA {
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 || w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	tw, th := w, sb.Dy()*w/sb.Dx()
	if th > h {
		tw, th = sb.Dx()*h/sb.Dy(), h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return dst
}
