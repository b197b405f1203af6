package anim

import (
	"time"

	"github.com/san-kum/backlight/internal/grid"
)

// DefaultRevealInterval is the time between two column steps.
const DefaultRevealInterval = 100 * time.Millisecond

// Phase of the column reveal.
type Phase int

const (
	Show Phase = iota
	Hide
)

func (p Phase) String() string {
	if p == Hide {
		return "hide"
	}
	return "show"
}

// Reveal shows the source one column per tick, then hides it one column per
// tick, forever. The phase flips on the tick that handles the last column, so
// a full show+hide cycle takes exactly 2*cols ticks.
type Reveal struct {
	source  grid.Matrix
	working grid.Matrix
	phase   Phase
	index   int
	running bool
}

// Start begins at Show(0) with a blank working matrix. Empty content is ignored.
func (r *Reveal) Start(src grid.Matrix) bool {
	if src.Empty() {
		return false
	}
	r.source = src.Clone()
	r.working = grid.NewMatrix(src.Rows(), src.Cols())
	r.phase = Show
	r.index = 0
	r.running = true
	return true
}

func (r *Reveal) Tick() {
	if !r.running {
		return
	}
	total := r.source.Cols()
	switch r.phase {
	case Show:
		r.working.CopyColumn(r.source, r.index)
	case Hide:
		r.working.ClearColumn(r.index)
	}
	r.index++
	if r.index >= total {
		r.index = 0
		if r.phase == Show {
			r.phase = Hide
		} else {
			r.phase = Show
		}
	}
}

// Stop discards the working matrix.
func (r *Reveal) Stop() {
	r.running = false
	r.source = grid.Matrix{}
	r.working = grid.Matrix{}
	r.phase = Show
	r.index = 0
}

func (r *Reveal) Running() bool { return r.running }

func (r *Reveal) State() (Phase, int) { return r.phase, r.index }

// Working returns a copy of the partially revealed content.
func (r *Reveal) Working() (grid.Matrix, bool) {
	if !r.running {
		return grid.Matrix{}, false
	}
	return r.working.Clone(), true
}
