// Package transform computes what the display window shows: rotation of the
// content matrix followed by column addressing into it.
package transform

import (
	"math"

	"github.com/san-kum/backlight/internal/grid"
)

// Rotate turns every On cell of src about the grid centre by degrees
// (clockwise on screen for positive angles). It is a forward point scatter:
// destinations are rounded to the nearest cell, cells landing outside the
// grid are dropped, collisions keep the last write and some destinations may
// receive nothing. Positions are rounded in float32. The angle is used as
// given, without normalisation.
func Rotate(src grid.Matrix, degrees float64) grid.Matrix {
	if degrees == 0 {
		return src.Clone()
	}
	rows, cols := src.Rows(), src.Cols()
	out := grid.NewMatrix(rows, cols)

	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx := float64(cols-1) / 2
	cy := float64(rows-1) / 2

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := src.At(r, c)
			if v == grid.Off {
				continue
			}
			dx := float64(c) - cx
			dy := float64(r) - cy
			// single precision drops the trig residue, so quarter turns
			// land exactly on .5 and round up
			rx := float32(dx*cos - dy*sin)
			ry := float32(dx*sin + dy*cos)
			out.Set(roundHalfUp(float64(ry+float32(cy))), roundHalfUp(float64(rx+float32(cx))), v)
		}
	}
	return out
}

// SelectMode picks the addressing mode for the current interaction state.
func SelectMode(scrolling bool, totalCols, displayCols int) grid.Mode {
	switch {
	case scrolling:
		return grid.Wrap
	case totalCols > displayCols:
		return grid.Clamp
	default:
		return grid.Identity
	}
}

// Params describe one rendered view of the content.
type Params struct {
	DisplayCols int
	// Start is the first column of the static Clamp window.
	Start int
	// Scrolling selects Wrap addressing with Offset.
	Scrolling bool
	Offset    int
	Degrees   float64
}

// View rotates the full-width source first and then windows it.
func View(src grid.Matrix, p Params) grid.Matrix {
	if p.Degrees != 0 {
		src = Rotate(src, p.Degrees)
	}
	mode := SelectMode(p.Scrolling, src.Cols(), p.DisplayCols)
	return grid.Window(src, p.DisplayCols, mode, p.Offset, p.Start)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
