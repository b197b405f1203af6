// Package raster turns text into binary dot matrices using
// golang.org/x/image/font.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/backlight/internal/grid"
)

// DefaultThreshold is the luma above which a rendered pixel becomes On.
const DefaultThreshold = 128

// Font rasterizes text with an OpenType font at 72 DPI, one pixel per dot.
type Font struct {
	font      *opentype.Font
	Threshold uint8
}

// NewFont parses the embedded Go Regular font.
func NewFont() (*Font, error) {
	return ParseFont(goregular.TTF)
}

// ParseFont parses OpenType or TrueType font data.
func ParseFont(data []byte) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("raster: failed to parse font: %w", err)
	}
	return &Font{font: f, Threshold: DefaultThreshold}, nil
}

func (f *Font) face(size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("raster: font size must be positive, got %f", size)
	}
	return opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Measure implements grid.Rasterizer.
func (f *Font) Measure(text string, fontSize float64) (float64, error) {
	face, err := f.face(fontSize)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = face.Close()
	}()
	return fixedToFloat64(font.MeasureString(face, text)), nil
}

// TextToBitmap implements grid.Rasterizer. The text is drawn white on black
// from the left edge, vertically centred on its ascent+descent box, then
// thresholded to two states.
func (f *Font) TextToBitmap(text string, fontSize float64, rows, cols int) (grid.Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return grid.Matrix{}, fmt.Errorf("raster: invalid bitmap size %dx%d", rows, cols)
	}
	face, err := f.face(fontSize)
	if err != nil {
		return grid.Matrix{}, err
	}
	defer func() {
		_ = face.Close()
	}()

	img := image.NewGray(image.Rect(0, 0, cols, rows))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	metrics := face.Metrics()
	ascent := fixedToFloat64(metrics.Ascent)
	descent := fixedToFloat64(metrics.Descent)
	baseline := (float64(rows)-(ascent+descent))/2 + ascent

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.Int26_6(baseline * 64)},
	}
	d.DrawString(text)

	return Threshold(img, f.Threshold), nil
}

// Threshold converts a grayscale image into a matrix, On where luma > t.
func Threshold(img image.Image, t uint8) grid.Matrix {
	b := img.Bounds()
	m := grid.NewMatrix(b.Dy(), b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if g.Y > t {
				m.Set(y-b.Min.Y, x-b.Min.X, grid.On)
			}
		}
	}
	return m
}

func fixedToFloat64(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
