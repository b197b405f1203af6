package grid

import (
	"errors"
	"testing"
)

func TestFromIntsValidation(t *testing.T) {
	tests := []struct {
		name string
		in   [][]int
		want error
	}{
		{"ragged", [][]int{{0, 1}, {1}}, ErrRaggedMatrix},
		{"bad value", [][]int{{0, 2}}, ErrInvalidCell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromInts(tt.in); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	m, err := FromInts([][]int{{0, 1}, {1, 0}})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if m.At(0, 1) != On || m.At(1, 1) != Off {
		t.Error("unexpected decoded cells")
	}
}

func TestWindowModes(t *testing.T) {
	src, err := Parse(
		"#.....",
		".#....",
	)
	if err != nil {
		t.Fatal(err)
	}

	wrap := Window(src, 4, Wrap, 5, 0)
	// column 0 reads source 5, column 1 reads source 0
	if wrap.At(0, 1) != On || wrap.At(1, 2) != On {
		t.Errorf("unexpected wrap window:\n%s", wrap)
	}

	clamp := Window(src, 4, Clamp, 0, 4)
	// columns 2 and 3 clamp to source 5
	if clamp.Cols() != 4 || clamp.Count() != 0 {
		t.Errorf("unexpected clamp window:\n%s", clamp)
	}

	id := Window(src, 4, Identity, 0, 0)
	if id.At(0, 0) != On || id.At(1, 1) != On {
		t.Errorf("unexpected identity window:\n%s", id)
	}
}

func TestSourceColNegativeOffset(t *testing.T) {
	if got := Wrap.SourceCol(0, -1, 0, 24); got != 23 {
		t.Errorf("expected 23, got %d", got)
	}
	if got := Clamp.SourceCol(30, 0, 0, 24); got != 23 {
		t.Errorf("expected clamp to 23, got %d", got)
	}
}

func TestFrameIsSnapshot(t *testing.T) {
	m := NewMatrix(2, 2)
	f := NewFrame(m)
	m.Set(0, 0, On)
	if f.At(0, 0) != Off {
		t.Error("frame aliases its source")
	}
	cp := f.Matrix()
	cp.Set(1, 1, On)
	if f.At(1, 1) != Off {
		t.Error("frame matrix copy aliases the frame")
	}
}
