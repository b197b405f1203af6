package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/backlight/internal/engine"
	"github.com/san-kum/backlight/internal/grid"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer prints frames as plain text, for terminals where the
// interactive app is not wanted.
type LiveRenderer struct {
	out   io.Writer
	title string
	ansi  bool
}

func NewLiveRenderer(out io.Writer, title string, ansi bool) *LiveRenderer {
	return &LiveRenderer{out: out, title: title, ansi: ansi}
}

// FrameText draws On cells as '●' and Off cells as '·'.
func FrameText(f grid.Frame) string {
	var b strings.Builder
	for r := 0; r < f.Rows(); r++ {
		for c := 0; c < f.Cols(); c++ {
			if f.At(r, c) == grid.On {
				b.WriteString("● ")
			} else {
				b.WriteString("· ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (r *LiveRenderer) Render(f grid.Frame, index, total int) {
	var b strings.Builder
	if r.ansi {
		b.WriteString(clearScreen)
	}
	b.WriteString(fmt.Sprintf("  %s  %d/%d\n", r.title, index+1, total))
	b.WriteString("  " + strings.Repeat("-", f.Cols()*2) + "\n")
	for _, line := range strings.SplitAfter(FrameText(f), "\n") {
		if line == "" {
			continue
		}
		b.WriteString("  " + line)
	}
	b.WriteString("  " + strings.Repeat("-", f.Cols()*2) + "\n")
	fmt.Fprint(r.out, b.String())
}

// Play shows loops full passes of p, or loops forever when loops <= 0,
// until ctx is done.
func (r *LiveRenderer) Play(ctx context.Context, p *engine.Player, loops int) error {
	r.Start()
	defer r.Stop()

	shown := 0
	for {
		r.Render(p.Frame(), p.Index(), p.Len())
		shown++
		if loops > 0 && shown >= loops*p.Len() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Interval()):
		}
		p.Advance()
	}
}

func (r *LiveRenderer) Start() {
	if r.ansi {
		fmt.Fprint(r.out, hideCursor)
	}
}

func (r *LiveRenderer) Stop() {
	if r.ansi {
		fmt.Fprint(r.out, showCursor)
	}
}
