package grid

import (
	"fmt"
	"strings"
)

// Cell is the state of a single dot.
type Cell uint8

const (
	// Off is drawn in the dark mark color. Blank content is Off.
	Off Cell = 0
	// On is drawn in the light color that matches the page background.
	On Cell = 1
)

// Matrix is a rows x cols block of cells. The zero value is an empty matrix.
type Matrix struct {
	rows, cols int
	cells      []Cell
}

func NewMatrix(rows, cols int) Matrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return Matrix{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

// FromRows builds a matrix from a row slice, rejecting ragged input.
func FromRows(rows [][]Cell) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, nil
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != m.cols {
			return Matrix{}, fmt.Errorf("row %d has %d cells, want %d: %w", r, len(row), m.cols, ErrRaggedMatrix)
		}
		copy(m.cells[r*m.cols:], row)
	}
	return m, nil
}

// FromInts decodes the persisted 0/1 representation.
func FromInts(rows [][]int) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, nil
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != m.cols {
			return Matrix{}, fmt.Errorf("row %d has %d cells, want %d: %w", r, len(row), m.cols, ErrRaggedMatrix)
		}
		for c, v := range row {
			if v != 0 && v != 1 {
				return Matrix{}, fmt.Errorf("cell (%d,%d)=%d: %w", r, c, v, ErrInvalidCell)
			}
			m.cells[r*m.cols+c] = Cell(v)
		}
	}
	return m, nil
}

// Parse reads an ASCII sketch where '#' is On and '.' is Off.
func Parse(lines ...string) (Matrix, error) {
	rows := make([][]Cell, len(lines))
	for r, line := range lines {
		row := make([]Cell, 0, len(line))
		for _, ch := range line {
			switch ch {
			case '#':
				row = append(row, On)
			case '.':
				row = append(row, Off)
			default:
				return Matrix{}, fmt.Errorf("line %d: unexpected %q", r, ch)
			}
		}
		rows[r] = row
	}
	return FromRows(rows)
}

func (m Matrix) Rows() int { return m.rows }
func (m Matrix) Cols() int { return m.cols }

// Empty reports whether the matrix has no cells.
func (m Matrix) Empty() bool { return m.rows == 0 || m.cols == 0 }

func (m Matrix) InBounds(r, c int) bool {
	return r >= 0 && r < m.rows && c >= 0 && c < m.cols
}

// At returns the cell at (r, c); out-of-range reads return Off.
func (m Matrix) At(r, c int) Cell {
	if !m.InBounds(r, c) {
		return Off
	}
	return m.cells[r*m.cols+c]
}

// Set writes the cell at (r, c) and reports whether it was in range.
func (m Matrix) Set(r, c int, v Cell) bool {
	if !m.InBounds(r, c) {
		return false
	}
	m.cells[r*m.cols+c] = v
	return true
}

func (m Matrix) Fill(v Cell) {
	for i := range m.cells {
		m.cells[i] = v
	}
}

// Clone returns a deep copy that shares nothing with m.
func (m Matrix) Clone() Matrix {
	c := Matrix{rows: m.rows, cols: m.cols, cells: make([]Cell, len(m.cells))}
	copy(c.cells, m.cells)
	return c
}

func (m Matrix) Equal(o Matrix) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.cells {
		if m.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Count returns the number of On cells.
func (m Matrix) Count() int {
	n := 0
	for _, v := range m.cells {
		if v == On {
			n++
		}
	}
	return n
}

// ColumnCounts returns the number of On cells in each column.
func (m Matrix) ColumnCounts() []int {
	counts := make([]int, m.cols)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if m.cells[r*m.cols+c] == On {
				counts[c]++
			}
		}
	}
	return counts
}

// CopyColumn copies column c of src into column c of m.
func (m Matrix) CopyColumn(src Matrix, c int) {
	for r := 0; r < m.rows && r < src.rows; r++ {
		m.Set(r, c, src.At(r, c))
	}
}

func (m Matrix) ClearColumn(c int) {
	for r := 0; r < m.rows; r++ {
		m.Set(r, c, Off)
	}
}

// Ints encodes the matrix in the persisted 0/1 representation.
func (m Matrix) Ints() [][]int {
	out := make([][]int, m.rows)
	for r := range out {
		row := make([]int, m.cols)
		for c := range row {
			row[c] = int(m.cells[r*m.cols+c])
		}
		out[r] = row
	}
	return out
}

func (m Matrix) String() string {
	var b strings.Builder
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if m.cells[r*m.cols+c] == On {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
