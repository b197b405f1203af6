package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/san-kum/backlight/internal/anim"
	"github.com/san-kum/backlight/internal/export"
	"github.com/san-kum/backlight/internal/grid"
	"github.com/san-kum/backlight/internal/render"
	"github.com/san-kum/backlight/internal/sequence"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEngine(t *testing.T, rows, cols int) (*Engine, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	e := New(Options{
		Rows:             rows,
		Cols:             cols,
		SpeedLevel:       anim.DefaultSpeedLevel,
		RotateSpeedLevel: anim.DefaultSpeedLevel,
		Clock:            clk.Now,
	})
	return e, clk
}

func mustParse(t *testing.T, lines ...string) grid.Matrix {
	t.Helper()
	m, err := grid.Parse(lines...)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return m
}

func TestMarqueeTicks(t *testing.T) {
	e, _ := newTestEngine(t, 2, 3)
	if err := e.SetContent(mustParse(t, "#....", ".#...")); err != nil {
		t.Fatalf("set content failed: %v", err)
	}

	tok, ok := e.StartMotion(anim.Marquee)
	if !ok {
		t.Fatal("expected marquee to start")
	}
	for i := 0; i < 6; i++ {
		interval, ok := e.Tick(tok)
		if !ok || interval != 250*time.Millisecond {
			t.Fatalf("tick %d: ok=%v interval=%v", i, ok, interval)
		}
	}
	// offset wraps modulo the content width
	if got := e.Status().Offset; got != 1 {
		t.Errorf("expected offset 1, got %d", got)
	}
	want := mustParse(t, "...", "#..")
	if !e.View().Matrix().Equal(want) {
		t.Errorf("unexpected view:\n%s", e.View())
	}

	e.StopMotion()
	if _, ok := e.Tick(tok); ok {
		t.Error("tick accepted after stop")
	}
	if s := e.Status(); s.Offset != 0 || s.Moving {
		t.Errorf("expected reset motion state, got %+v", s)
	}
}

func TestMotionWithoutContentIsNoop(t *testing.T) {
	e, _ := newTestEngine(t, 2, 3)
	for _, k := range anim.MotionKinds {
		if _, ok := e.StartMotion(k); ok {
			t.Errorf("%v started with no content", k)
		}
	}
	if _, ok := e.StartFade(); ok {
		t.Error("fade started with no content")
	}
	if _, ok := e.StartReveal(); ok {
		t.Error("reveal started with no content")
	}
	if _, ok := e.StartMotion(anim.FadeEffect); ok {
		t.Error("fade is not a motion kind")
	}
}

func TestFreehandStaysIdentityUntilMotion(t *testing.T) {
	e, _ := newTestEngine(t, 2, 2)
	e.SetCell(0, 1, grid.On)
	if e.Preview().HasExtended {
		t.Error("freehand edit should not create extended content")
	}
	if _, ok := e.StartMotion(anim.Marquee); !ok {
		t.Fatal("drawn content should scroll")
	}
	if s := e.Status(); !s.HasExtended || s.TotalCols != 2 {
		t.Errorf("expected promoted content of width 2, got %+v", s)
	}
}

func TestRotateTicks(t *testing.T) {
	e, _ := newTestEngine(t, 3, 3)
	e.SetCell(0, 1, grid.On)

	cw, _ := e.StartMotion(anim.RotateCW)
	for i := 0; i < 18; i++ {
		e.Tick(cw)
	}
	if got := e.Status().Degrees; got != 90 {
		t.Fatalf("expected 90 degrees, got %v", got)
	}
	if e.View().At(1, 2) != grid.On {
		t.Errorf("expected top cell rotated to the right:\n%s", e.View())
	}

	ccw, _ := e.StartMotion(anim.RotateCCW)
	e.Tick(ccw)
	if got := e.Status().Degrees; got != -5 {
		t.Errorf("expected -5 degrees after restart, got %v", got)
	}
	if _, ok := e.Tick(cw); ok {
		t.Error("clockwise token still live")
	}
}

func TestPointerCancelsMotionOnly(t *testing.T) {
	e, _ := newTestEngine(t, 15, 20)
	e.SetCell(0, 0, grid.On)
	mt, _ := e.StartMotion(anim.Marquee)
	ft, _ := e.StartFade()
	rt, _ := e.StartReveal()

	l := render.NewLayout(15, 20, 20)
	if !e.Pointer(l, 390, 290) {
		t.Fatal("expected a hit on the last cell")
	}
	if e.Preview().Display.At(14, 19) != grid.On {
		t.Error("pointer did not draw")
	}
	if _, ok := e.Tick(mt); ok {
		t.Error("motion survived pointer input")
	}
	if _, ok := e.Tick(ft); !ok {
		t.Error("fade cancelled by pointer input")
	}
	if _, ok := e.Tick(rt); !ok {
		t.Error("reveal cancelled by pointer input")
	}

	e.SetEditMode(Erase)
	e.Pointer(l, 390, 290)
	if e.Preview().Display.At(14, 19) != grid.Off {
		t.Error("erase did not clear the cell")
	}
	if e.Pointer(l, 20, 20) {
		t.Error("press between dots should miss")
	}
}

func TestFadeTicks(t *testing.T) {
	e, clk := newTestEngine(t, 1, 1)
	e.SetCell(0, 0, grid.On)

	tok, ok := e.StartFade()
	if !ok {
		t.Fatal("expected fade to start")
	}
	if _, again := e.StartFade(); again {
		t.Error("second start should be a no-op")
	}
	clk.Advance(500 * time.Millisecond)
	e.Tick(tok)
	if f, active := e.FadeFactor(); !active || f != 0.5 {
		t.Errorf("expected factor 0.5, got %v (active %v)", f, active)
	}

	e.StopFade()
	if f, active := e.FadeFactor(); active || f != 1 {
		t.Errorf("expected factor 1 after stop, got %v", f)
	}
	if _, ok := e.Tick(tok); ok {
		t.Error("fade tick accepted after stop")
	}
}

func TestRevealCycle(t *testing.T) {
	e, _ := newTestEngine(t, 2, 3)
	if err := e.SetContent(mustParse(t, "###", "#.#")); err != nil {
		t.Fatal(err)
	}
	tok, ok := e.StartReveal()
	if !ok {
		t.Fatal("expected reveal to start")
	}

	e.Tick(tok)
	if want := mustParse(t, "#..", "#.."); !e.View().Matrix().Equal(want) {
		t.Errorf("after one tick:\n%s", e.View())
	}
	for i := 0; i < 2; i++ {
		e.Tick(tok)
	}
	if s := e.Status(); s.RevealPhase != anim.Hide || s.RevealIndex != 0 {
		t.Errorf("expected Hide(0), got %v(%d)", s.RevealPhase, s.RevealIndex)
	}
	for i := 0; i < 3; i++ {
		e.Tick(tok)
	}
	if s := e.Status(); s.RevealPhase != anim.Show || s.RevealIndex != 0 {
		t.Errorf("expected Show(0), got %v(%d)", s.RevealPhase, s.RevealIndex)
	}
	if e.View().Matrix().Count() != 0 {
		t.Error("expected blank working matrix after a full cycle")
	}

	e.StopReveal()
	if !e.View().Matrix().Equal(mustParse(t, "###", "#.#")) {
		t.Error("view should return to the display after stop")
	}
}

func TestSetSpeedKeepsToken(t *testing.T) {
	e, _ := newTestEngine(t, 1, 2)
	e.SetCell(0, 0, grid.On)
	tok, _ := e.StartMotion(anim.Marquee)

	e.SetSpeed(19)
	interval, ok := e.Tick(tok)
	if !ok || interval != 25*time.Millisecond {
		t.Errorf("expected 25ms on the same token, got %v %v", interval, ok)
	}
	e.SetSpeed(99)
	if e.Speed() != 19 {
		t.Errorf("expected clamp to 19, got %d", e.Speed())
	}
	if e.ExportDelayMs() != 25 {
		t.Errorf("expected export delay 25, got %d", e.ExportDelayMs())
	}
}

func TestBeginExport(t *testing.T) {
	e, _ := newTestEngine(t, 2, 2)
	if _, err := e.BeginExport("x", 0); !errors.Is(err, grid.ErrNoContent) {
		t.Errorf("expected ErrNoContent, got %v", err)
	}

	e.SetCell(0, 0, grid.On)
	job, err := e.BeginExport("x", 0)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if job.DelayMs != 250 || job.DisplayCols != 2 {
		t.Errorf("unexpected job %+v", job)
	}
	if _, err := e.BeginExport("y", 0); !errors.Is(err, export.ErrInFlight) {
		t.Errorf("expected ErrInFlight, got %v", err)
	}

	e.SetCell(1, 1, grid.On)
	if job.Extended.At(1, 1) != grid.Off {
		t.Error("job sees edits made after it began")
	}
	e.FinishExport()
	if _, err := e.BeginExport("z", 100); err != nil {
		t.Errorf("begin after finish failed: %v", err)
	}
}

func TestResetStopsEverything(t *testing.T) {
	e, _ := newTestEngine(t, 2, 2)
	e.SetCell(0, 0, grid.On)
	e.StartMotion(anim.RotateCW)
	e.StartFade()
	e.StartReveal()

	e.Reset()
	if got := e.Scheduler().Running(); len(got) != 0 {
		t.Errorf("expected nothing running, got %v", got)
	}
	if s := e.Status(); s.HasExtended || s.Revealing || s.FadeActive {
		t.Errorf("unexpected status after reset %+v", s)
	}
}

func TestPlayerLoops(t *testing.T) {
	m := mustParse(t, "#..", ".#.")
	seq, err := sequence.Cycle(m, 2, 120)
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewPlayer(seq)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < p.Len(); i++ {
		p.Advance()
	}
	if p.Index() != 0 || !p.Frame().Equal(seq.Frames[0]) {
		t.Errorf("expected loop back to frame 0, at %d", p.Index())
	}
	if p.Interval() != 120*time.Millisecond {
		t.Errorf("unexpected interval %v", p.Interval())
	}
	if p.SetDelay(0) {
		t.Error("zero delay accepted")
	}

	if _, err := NewPlayer(sequence.Sequence{DelayMs: 10}); !errors.Is(err, sequence.ErrEmptySequence) {
		t.Errorf("expected ErrEmptySequence, got %v", err)
	}
}

func TestClearLeavesNothingToAnimate(t *testing.T) {
	e, _ := newTestEngine(t, 3, 4)
	wide := grid.NewMatrix(3, 6)
	wide.Fill(grid.On)
	if err := e.SetContent(wide); err != nil {
		t.Fatal(err)
	}
	e.StartFade()

	e.Clear()
	if _, ok := e.StartMotion(anim.Marquee); ok {
		t.Error("marquee started after clear")
	}
	if _, err := e.BeginExport("x", 0); !errors.Is(err, grid.ErrNoContent) {
		t.Errorf("expected ErrNoContent after clear, got %v", err)
	}
	if !e.Status().FadeActive {
		t.Error("clear should leave a running fade alone")
	}
}

func TestRotateSpeedIsSeparate(t *testing.T) {
	e := New(Options{Rows: 3, Cols: 3, SpeedLevel: 10, RotateSpeedLevel: 19})
	e.SetCell(1, 1, grid.On)

	tok, _ := e.StartMotion(anim.RotateCW)
	if interval, _ := e.Tick(tok); interval != 2*time.Millisecond {
		t.Errorf("expected rotate level 19 (2ms), got %v", interval)
	}
	if e.Speed() != 19 {
		t.Errorf("expected speed to report the rotate level, got %d", e.Speed())
	}

	e.SetSpeed(0)
	if interval, _ := e.Tick(tok); interval != 38*time.Millisecond {
		t.Errorf("expected 38ms after slowing rotation, got %v", interval)
	}
	if e.ExportDelayMs() != 250 {
		t.Errorf("rotate speed leaked into the marquee level: %dms", e.ExportDelayMs())
	}

	e.StopMotion()
	if e.Speed() != 10 {
		t.Errorf("expected the marquee level when idle, got %d", e.Speed())
	}
	mq, _ := e.StartMotion(anim.Marquee)
	if interval, _ := e.Tick(mq); interval != 250*time.Millisecond {
		t.Errorf("expected marquee at 250ms, got %v", interval)
	}
}
