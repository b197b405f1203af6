package grid

// Mode maps display columns to source columns.
type Mode int

const (
	// Identity reads source column c; source and display widths match.
	Identity Mode = iota
	// Wrap reads (c+offset) mod totalCols, the scrolling marquee.
	Wrap
	// Clamp reads min(start+c, totalCols-1), a static window into wider content.
	Clamp
)

func (m Mode) String() string {
	switch m {
	case Wrap:
		return "wrap"
	case Clamp:
		return "clamp"
	default:
		return "identity"
	}
}

// SourceCol returns the source column read by display column c.
func (m Mode) SourceCol(c, offset, start, totalCols int) int {
	switch m {
	case Wrap:
		return mod(c+offset, totalCols)
	case Clamp:
		src := start + c
		if src > totalCols-1 {
			src = totalCols - 1
		}
		if src < 0 {
			src = 0
		}
		return src
	default:
		return c
	}
}

// Window copies a rows x displayCols window out of src. For Wrap the offset
// selects the first column; for Clamp start does. Identity requires src to be
// at least displayCols wide; missing columns read as Off.
func Window(src Matrix, displayCols int, mode Mode, offset, start int) Matrix {
	out := NewMatrix(src.rows, displayCols)
	if src.Empty() {
		return out
	}
	for r := 0; r < src.rows; r++ {
		for c := 0; c < displayCols; c++ {
			out.cells[r*displayCols+c] = src.At(r, mode.SourceCol(c, offset, start, src.cols))
		}
	}
	return out
}

// CenterStart returns the first column of a window centred in totalCols.
func CenterStart(totalCols, displayCols int) int {
	if totalCols > displayCols {
		return (totalCols - displayCols) / 2
	}
	return 0
}

func mod(a, n int) int {
	if n <= 0 {
		return 0
	}
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
