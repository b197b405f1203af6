package grid

import (
	"fmt"
	"math"
)

// Snapshot is a deep copy of a State handed to observers.
type Snapshot struct {
	Display     Matrix
	Extended    Matrix
	HasExtended bool
	Start       int
}

// TotalCols is the width of the content behind the window.
func (s Snapshot) TotalCols() int {
	if s.HasExtended {
		return s.Extended.Cols()
	}
	return s.Display.Cols()
}

// Source returns the extended content, or the display when there is none.
func (s Snapshot) Source() Matrix {
	if s.HasExtended {
		return s.Extended
	}
	return s.Display
}

// State owns the display matrix and the optional extended content matrix.
type State struct {
	rows, cols  int
	display     Matrix
	extended    Matrix
	hasExtended bool
	start       int
	observers   []func(Snapshot)
}

func NewState(rows, cols int) *State {
	return &State{
		rows:    rows,
		cols:    cols,
		display: NewMatrix(rows, cols),
	}
}

func (s *State) Rows() int         { return s.rows }
func (s *State) Cols() int         { return s.cols }
func (s *State) DisplayStart() int { return s.start }
func (s *State) HasExtended() bool { return s.hasExtended }

// TotalCols returns the extended width, or the display width without one.
func (s *State) TotalCols() int {
	if s.hasExtended {
		return s.extended.cols
	}
	return s.cols
}

// Display returns a copy of the display matrix.
func (s *State) Display() Matrix { return s.display.Clone() }

// Extended returns a copy of the extended matrix, if any.
func (s *State) Extended() (Matrix, bool) {
	if !s.hasExtended {
		return Matrix{}, false
	}
	return s.extended.Clone(), true
}

// Subscribe registers fn to receive a snapshot after every change.
func (s *State) Subscribe(fn func(Snapshot)) {
	s.observers = append(s.observers, fn)
	fn(s.Snapshot())
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{Display: s.display.Clone(), HasExtended: s.hasExtended, Start: s.start}
	if s.hasExtended {
		snap.Extended = s.extended.Clone()
	}
	return snap
}

func (s *State) notify() {
	if len(s.observers) == 0 {
		return
	}
	for _, fn := range s.observers {
		fn(s.Snapshot())
	}
}

// SetCell writes one display cell. Out-of-range positions are ignored and
// reported by the false return.
func (s *State) SetCell(r, c int, v Cell) bool {
	if !s.display.Set(r, c, v) {
		return false
	}
	s.notify()
	return true
}

// EditCell is SetCell for pointer edits: with extended content present the
// cell under the window is written through, so drawn dots travel with the
// content when it scrolls.
func (s *State) EditCell(r, c int, v Cell) bool {
	if !s.display.Set(r, c, v) {
		return false
	}
	if s.hasExtended {
		s.extended.Set(r, Clamp.SourceCol(c, 0, s.start, s.extended.cols), v)
	}
	s.notify()
	return true
}

// HasContent reports whether there is anything to animate or export.
func (s *State) HasContent() bool {
	return s.hasExtended || s.display.Count() > 0
}

func (s *State) At(r, c int) Cell { return s.display.At(r, c) }

// Promote replaces the extended content with a copy of the display, so that
// freehand drawings can scroll and export like text.
func (s *State) Promote() {
	s.extended = s.display.Clone()
	s.hasExtended = true
	s.start = 0
	s.notify()
}

// Clear blanks the display and discards extended content.
func (s *State) Clear() { s.Reset() }

// Reset blanks the display and discards extended content.
func (s *State) Reset() {
	s.display.Fill(Off)
	s.extended = Matrix{}
	s.hasExtended = false
	s.start = 0
	s.notify()
}

// Restore copies a saved display matrix in. Mismatched dimensions leave the
// state unchanged.
func (s *State) Restore(m Matrix) error {
	if m.rows != s.rows || m.cols != s.cols {
		return fmt.Errorf("restore %dx%d into %dx%d: %w", m.rows, m.cols, s.rows, s.cols, ErrDimensionMismatch)
	}
	copy(s.display.cells, m.cells)
	s.notify()
	return nil
}

// RestoreExtended installs extended content and recentres the window.
func (s *State) RestoreExtended(m Matrix) error {
	if m.rows != s.rows {
		return fmt.Errorf("restore %d rows into %d: %w", m.rows, s.rows, ErrDimensionMismatch)
	}
	if m.cols < s.cols {
		return fmt.Errorf("restore %d cols into %d: %w", m.cols, s.cols, ErrNarrowContent)
	}
	s.setExtended(m.Clone())
	s.notify()
	return nil
}

func (s *State) setExtended(m Matrix) {
	s.extended = m
	s.hasExtended = true
	s.start = CenterStart(m.cols, s.cols)
	w := Window(m, s.cols, Clamp, 0, s.start)
	copy(s.display.cells, w.cells)
}

// DrawContent rasterizes text into extended content and shows the centred
// window of it. Empty text leaves a cleared grid with no extended content.
func (s *State) DrawContent(rz Rasterizer, text string, size Size) error {
	s.display.Fill(Off)
	s.extended = Matrix{}
	s.hasExtended = false
	s.start = 0

	text = NormalizeText(text)
	if text == "" {
		s.notify()
		return nil
	}

	fontSize := float64(s.rows) * size.Scale()
	width, err := rz.Measure(text, fontSize)
	if err != nil {
		s.notify()
		return fmt.Errorf("measure %q: %w", text, err)
	}
	totalCols := TotalColsFor(width, s.cols)

	m, err := rz.TextToBitmap(text, fontSize, s.rows, totalCols)
	if err != nil {
		s.notify()
		return fmt.Errorf("rasterize %q: %w", text, err)
	}
	if m.rows != s.rows || m.cols != totalCols {
		s.notify()
		return fmt.Errorf("rasterizer returned %dx%d, want %dx%d: %w", m.rows, m.cols, s.rows, totalCols, ErrDimensionMismatch)
	}

	s.setExtended(m)
	s.notify()
	return nil
}

// TotalColsFor returns max(displayCols, round(width)).
func TotalColsFor(width float64, displayCols int) int {
	w := int(math.Floor(width + 0.5))
	if w < displayCols {
		return displayCols
	}
	return w
}
