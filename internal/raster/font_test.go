package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/san-kum/backlight/internal/grid"
)

func newFont(t *testing.T) *Font {
	t.Helper()
	f, err := NewFont()
	if err != nil {
		t.Fatalf("new font failed: %v", err)
	}
	return f
}

func TestMeasureMonotonic(t *testing.T) {
	f := newFont(t)

	short, err := f.Measure("AB", 15)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	long, err := f.Measure("ABCDEFGH", 15)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if short <= 0 || long <= short {
		t.Errorf("expected 0 < %f < %f", short, long)
	}

	large, _ := f.Measure("AB", 18)
	if large <= short {
		t.Errorf("expected larger size to measure wider: %f <= %f", large, short)
	}
}

func TestMeasureInvalidSize(t *testing.T) {
	f := newFont(t)
	if _, err := f.Measure("A", 0); err == nil {
		t.Error("expected error for zero font size")
	}
}

func TestTextToBitmapShape(t *testing.T) {
	f := newFont(t)
	for _, cols := range []int{20, 24, 57} {
		m, err := f.TextToBitmap("HELLO", 15, 15, cols)
		if err != nil {
			t.Fatalf("rasterize failed: %v", err)
		}
		if m.Rows() != 15 || m.Cols() != cols {
			t.Errorf("expected 15x%d, got %dx%d", cols, m.Rows(), m.Cols())
		}
		if m.Count() == 0 {
			t.Error("expected some lit cells")
		}
	}
}

func TestDrawContentWithFont(t *testing.T) {
	f := newFont(t)
	st := grid.NewState(15, 20)
	text := "HELLO WORLD"
	if err := st.DrawContent(f, text, grid.SizeMedium); err != nil {
		t.Fatalf("draw content failed: %v", err)
	}
	width, _ := f.Measure(text, 15)
	want := grid.TotalColsFor(width, 20)
	if st.TotalCols() != want {
		t.Errorf("expected %d total cols, got %d", want, st.TotalCols())
	}
	ext, ok := st.Extended()
	if !ok || ext.Rows() != 15 || ext.Cols() != want {
		t.Fatal("unexpected extended shape")
	}
}

func TestThreshold(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.SetGray(0, 0, color.Gray{Y: 128})
	img.SetGray(1, 0, color.Gray{Y: 129})
	img.SetGray(2, 0, color.Gray{Y: 255})

	m := Threshold(img, DefaultThreshold)
	if m.At(0, 0) != grid.Off || m.At(0, 1) != grid.On || m.At(0, 2) != grid.On {
		t.Errorf("unexpected threshold result: %s", m)
	}
}
