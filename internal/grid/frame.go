package grid

// Frame is an immutable display-window snapshot. Once built it never aliases
// live state.
type Frame struct {
	m Matrix
}

// NewFrame captures a copy of m.
func NewFrame(m Matrix) Frame {
	return Frame{m: m.Clone()}
}

// FrameFromInts decodes a persisted frame.
func FrameFromInts(rows [][]int) (Frame, error) {
	m, err := FromInts(rows)
	if err != nil {
		return Frame{}, err
	}
	return Frame{m: m}, nil
}

func (f Frame) Rows() int          { return f.m.rows }
func (f Frame) Cols() int          { return f.m.cols }
func (f Frame) At(r, c int) Cell   { return f.m.At(r, c) }
func (f Frame) Equal(o Frame) bool { return f.m.Equal(o.m) }
func (f Frame) Ints() [][]int      { return f.m.Ints() }
func (f Frame) String() string     { return f.m.String() }

// Matrix returns a mutable copy of the frame contents.
func (f Frame) Matrix() Matrix { return f.m.Clone() }
