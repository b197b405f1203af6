package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/backlight/internal/anim"
	"github.com/san-kum/backlight/internal/engine"
	"github.com/san-kum/backlight/internal/export"
	"github.com/san-kum/backlight/internal/grid"
	"github.com/san-kum/backlight/internal/sequence"
	"github.com/san-kum/backlight/internal/transform"
	"github.com/san-kum/backlight/internal/tui"
)

// drawn rasterizes text onto a fresh engine.
func drawn(a *app, text string) (*engine.Engine, error) {
	eng, err := a.engine()
	if err != nil {
		return nil, err
	}
	if err := eng.DrawText(text); err != nil {
		return nil, err
	}
	return eng, nil
}

// windowed applies the --offset and --rotate flags to the drawn content.
func windowed(eng *engine.Engine) grid.Frame {
	p := eng.Preview()
	return grid.NewFrame(transform.View(p.Source(), transform.Params{
		DisplayCols: eng.Cols(),
		Start:       p.Start,
		Scrolling:   offset >= 0,
		Offset:      max(offset, 0),
		Degrees:     degrees,
	}))
}

func renderText(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	eng, err := drawn(a, args[0])
	if err != nil {
		return err
	}
	st := eng.Status()
	fmt.Printf("%q  %dx%d  content %d cols  %s\n\n", args[0], eng.Rows(), eng.Cols(), st.TotalCols, st.TextSize)
	fmt.Print(tui.FrameText(windowed(eng)))
	return nil
}

func inspectText(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	eng, err := drawn(a, args[0])
	if err != nil {
		return err
	}

	src := eng.Preview().Source()
	counts := src.ColumnCounts()
	profile := make([]float64, len(counts))
	for i, n := range counts {
		profile[i] = float64(n)
	}
	fmt.Println(asciigraph.Plot(profile,
		asciigraph.Height(eng.Rows()),
		asciigraph.Width(min(len(profile)*2, 120)),
		asciigraph.Caption(fmt.Sprintf("lit dots per column (%d cols, %d lit)", src.Cols(), src.Count())),
	))
	fmt.Println()

	period := a.cfg.FadePeriod()
	const samples = 80
	curve := make([]float64, samples+1)
	for i := range curve {
		curve[i] = anim.FactorAt(period*time.Duration(i)/samples, period)
	}
	fmt.Println(asciigraph.Plot(curve,
		asciigraph.Height(8),
		asciigraph.Width(samples),
		asciigraph.Caption(fmt.Sprintf("fade factor over one %s period", period)),
	))
	fmt.Println()

	seq, err := sequence.Cycle(src, eng.Cols(), eng.ExportDelayMs())
	if err != nil {
		return err
	}
	fmt.Printf("marquee cycle: %d frames at %dms (%s per pass)\n",
		seq.Len(), seq.DelayMs, time.Duration(seq.Len()*seq.DelayMs)*time.Millisecond)
	return nil
}

func exportText(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	eng, err := drawn(a, args[0])
	if err != nil {
		return err
	}
	st, err := a.store()
	if err != nil {
		return err
	}

	recName := name
	if recName == "" {
		recName = args[0]
	}
	// zero delay falls back to the speed level
	job, err := eng.BeginExport(recName, delayMs)
	if err != nil {
		return err
	}
	defer eng.FinishExport()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec, err := a.exporter(st).Run(ctx, job)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s (%d frames, %dms)\n", rec.ID, len(rec.Frames), rec.DelayMs)
	fmt.Printf("  %s\n", rec.MediaPath)
	return nil
}

func snapshotText(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	eng, err := drawn(a, args[0])
	if err != nil {
		return err
	}
	frame := windowed(eng)

	kind := strings.ToLower(format)
	if kind == "" {
		kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), ".")
	}

	r := a.renderer()
	if fitW > 0 && fitH > 0 {
		r = r.Fit(frame.Rows(), frame.Cols(), fitW, fitH)
	}

	switch kind {
	case "svg":
		svg := export.FrameToSVG(frame, r.Palette, float64(r.CellSize))
		if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
			return err
		}
	case "png":
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		img := r.Live(frame.Matrix(), false, 0)
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	default:
		return errors.New("snapshot format must be png or svg")
	}

	a.logger.Info("snapshot written", "path", outPath, "format", kind)
	return nil
}
