// Package sequence synthesizes the frame cycle of a marquee pass for export
// and playback.
package sequence

import (
	"errors"
	"fmt"

	"github.com/san-kum/backlight/internal/grid"
)

// DefaultDelayMs is the per-frame delay of an exported marquee.
const DefaultDelayMs = 250

var (
	ErrEmptySequence = errors.New("sequence: no frames")
	ErrInvalidDelay  = errors.New("sequence: delay must be positive")
	ErrFrameShape    = errors.New("sequence: frames differ in shape")
)

// Sequence is an ordered list of frames played with a uniform delay and
// looped forever.
type Sequence struct {
	Frames  []grid.Frame
	DelayMs int
}

func (s Sequence) Len() int { return len(s.Frames) }

// Rows and Cols report the frame shape; zero for an empty sequence.
func (s Sequence) Rows() int {
	if len(s.Frames) == 0 {
		return 0
	}
	return s.Frames[0].Rows()
}

func (s Sequence) Cols() int {
	if len(s.Frames) == 0 {
		return 0
	}
	return s.Frames[0].Cols()
}

// Validate checks the delay and that every frame has the same shape.
func (s Sequence) Validate() error {
	if len(s.Frames) == 0 {
		return ErrEmptySequence
	}
	if s.DelayMs <= 0 {
		return fmt.Errorf("delay %d: %w", s.DelayMs, ErrInvalidDelay)
	}
	rows, cols := s.Rows(), s.Cols()
	for i, f := range s.Frames {
		if f.Rows() != rows || f.Cols() != cols {
			return fmt.Errorf("frame %d is %dx%d, want %dx%d: %w", i, f.Rows(), f.Cols(), rows, cols, ErrFrameShape)
		}
	}
	return nil
}

// GenerateCycle builds totalCols+displayCols frames; frame k is the Wrap
// window at offset k, so content enters on one side and leaves the other.
// Frames are copies and never alias extended.
func GenerateCycle(extended grid.Matrix, displayCols int) []grid.Frame {
	totalCols := extended.Cols()
	if extended.Empty() || displayCols <= 0 {
		return nil
	}
	count := totalCols + displayCols
	frames := make([]grid.Frame, 0, count)
	for offset := 0; offset < count; offset++ {
		w := grid.Window(extended, displayCols, grid.Wrap, offset, 0)
		frames = append(frames, grid.NewFrame(w))
	}
	return frames
}

// Cycle wraps GenerateCycle with a delay.
func Cycle(extended grid.Matrix, displayCols, delayMs int) (Sequence, error) {
	seq := Sequence{Frames: GenerateCycle(extended, displayCols), DelayMs: delayMs}
	if err := seq.Validate(); err != nil {
		return Sequence{}, err
	}
	return seq, nil
}

// Encode returns the persisted representation of the frames.
func (s Sequence) Encode() [][][]int {
	out := make([][][]int, len(s.Frames))
	for i, f := range s.Frames {
		out[i] = f.Ints()
	}
	return out
}

// Decode rebuilds a sequence from its persisted representation.
func Decode(frames [][][]int, delayMs int) (Sequence, error) {
	seq := Sequence{Frames: make([]grid.Frame, 0, len(frames)), DelayMs: delayMs}
	for i, raw := range frames {
		f, err := grid.FrameFromInts(raw)
		if err != nil {
			return Sequence{}, fmt.Errorf("frame %d: %w", i, err)
		}
		seq.Frames = append(seq.Frames, f)
	}
	if err := seq.Validate(); err != nil {
		return Sequence{}, err
	}
	return seq, nil
}
