package render

import "math"

// DotRadiusRatio is the dot radius relative to the cell size.
const DotRadiusRatio = 0.15

// HitRadiusRatio is how far from a dot centre a pointer still selects it,
// in dot radii.
const HitRadiusRatio = 2.5

// Layout places cells on a square pixel pitch.
type Layout struct {
	Rows, Cols int
	CellSize   float64
	DotRadius  float64
}

func NewLayout(rows, cols int, cellSize float64) Layout {
	return Layout{
		Rows:      rows,
		Cols:      cols,
		CellSize:  cellSize,
		DotRadius: cellSize * DotRadiusRatio,
	}
}

// FitLayout picks the largest cell size that fits the grid into w x h.
func FitLayout(rows, cols int, w, h float64) Layout {
	cell := math.Min(w/float64(cols), h/float64(rows))
	return NewLayout(rows, cols, cell)
}

// Size returns the image size in whole pixels.
func (l Layout) Size() (int, int) {
	return int(l.CellSize * float64(l.Cols)), int(l.CellSize * float64(l.Rows))
}

func (l Layout) Center(r, c int) (float64, float64) {
	return l.CellSize * (float64(c) + 0.5), l.CellSize * (float64(r) + 0.5)
}

// HitTest returns the first cell, in row-major order, whose centre lies
// within HitRadiusRatio dot radii of (x, y).
func (l Layout) HitTest(x, y float64) (int, int, bool) {
	limit := l.DotRadius * HitRadiusRatio
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			cx, cy := l.Center(r, c)
			if math.Hypot(x-cx, y-cy) <= limit {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}
