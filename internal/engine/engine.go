// Package engine ties the display state to its animations. It is driven by a
// single cooperative loop: callers start animations, schedule the returned
// tokens and feed them back through Tick. Nothing here starts goroutines or
// takes locks.
package engine

import (
	"log/slog"
	"time"

	"github.com/san-kum/backlight/internal/anim"
	"github.com/san-kum/backlight/internal/export"
	"github.com/san-kum/backlight/internal/grid"
	"github.com/san-kum/backlight/internal/render"
	"github.com/san-kum/backlight/internal/transform"
)

// FadeFrameInterval is how often the fade color is resampled.
const FadeFrameInterval = 50 * time.Millisecond

// EditMode selects what a pointer press writes.
type EditMode int

const (
	Draw EditMode = iota
	Erase
)

func (m EditMode) String() string {
	if m == Erase {
		return "erase"
	}
	return "draw"
}

func (m EditMode) Cell() grid.Cell {
	if m == Erase {
		return grid.Off
	}
	return grid.On
}

type Options struct {
	Rows, Cols int
	Rasterizer grid.Rasterizer
	TextSize   grid.Size

	// SpeedLevel drives the marquee and the export delay, RotateSpeedLevel
	// both rotations.
	SpeedLevel       int
	RotateSpeedLevel int

	FadePeriod     time.Duration
	RevealInterval time.Duration
	Logger         *slog.Logger
	Clock          func() time.Time
}

type Engine struct {
	state   *grid.State
	preview grid.Snapshot
	rz      grid.Rasterizer

	sched  *anim.Scheduler
	fade   *anim.Fade
	reveal anim.Reveal

	offset  int
	degrees float64

	mode           EditMode
	size           grid.Size
	speed          int
	rotateSpeed    int
	revealInterval time.Duration
	exporting      bool

	logger *slog.Logger
	now    func() time.Time
}

func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.TextSize == 0 {
		opts.TextSize = grid.SizeMedium
	}
	if opts.RevealInterval <= 0 {
		opts.RevealInterval = anim.DefaultRevealInterval
	}
	e := &Engine{
		state:          grid.NewState(opts.Rows, opts.Cols),
		rz:             opts.Rasterizer,
		sched:          anim.NewScheduler(),
		fade:           anim.NewFade(opts.FadePeriod),
		size:           opts.TextSize,
		speed:          anim.ClampLevel(opts.SpeedLevel),
		rotateSpeed:    anim.ClampLevel(opts.RotateSpeedLevel),
		revealInterval: opts.RevealInterval,
		logger:         opts.Logger,
		now:            opts.Clock,
	}
	e.state.Subscribe(func(s grid.Snapshot) { e.preview = s })
	return e
}

func (e *Engine) Rows() int { return e.state.Rows() }
func (e *Engine) Cols() int { return e.state.Cols() }

// Preview is the latest snapshot published by the display state.
func (e *Engine) Preview() grid.Snapshot { return e.preview }

func (e *Engine) EditMode() EditMode         { return e.mode }
func (e *Engine) SetEditMode(m EditMode)     { e.mode = m }
func (e *Engine) TextSize() grid.Size        { return e.size }
func (e *Engine) SetTextSize(s grid.Size)    { e.size = s }
func (e *Engine) Scheduler() *anim.Scheduler { return e.sched }

// DrawText replaces the content with rasterized text. Motion and reveal stop
// because their progress refers to the old content; fade keeps running.
func (e *Engine) DrawText(text string) error {
	if e.rz == nil {
		return grid.ErrNoContent
	}
	e.StopMotion()
	e.StopReveal()
	if err := e.state.DrawContent(e.rz, text, e.size); err != nil {
		return err
	}
	e.logger.Debug("text drawn", "text", text, "size", e.size, "total_cols", e.state.TotalCols())
	return nil
}

// SetContent installs an already rasterized content matrix.
func (e *Engine) SetContent(m grid.Matrix) error {
	e.StopMotion()
	e.StopReveal()
	if m.Cols() == e.Cols() {
		if err := e.state.Restore(m); err != nil {
			return err
		}
		e.state.Promote()
		return nil
	}
	return e.state.RestoreExtended(m)
}

// SetCell writes one display cell; out-of-range positions are ignored.
func (e *Engine) SetCell(r, c int, v grid.Cell) bool {
	return e.state.EditCell(r, c, v)
}

// Pointer applies the edit mode to the cell under (x, y) in layout space.
// Any press cancels the running motion; fade and reveal keep going.
func (e *Engine) Pointer(l render.Layout, x, y float64) bool {
	e.StopMotion()
	r, c, ok := l.HitTest(x, y)
	if !ok {
		return false
	}
	return e.state.EditCell(r, c, e.mode.Cell())
}

// Clear discards all content. Unlike Reset, a running fade keeps going.
func (e *Engine) Clear() {
	e.StopMotion()
	e.StopReveal()
	e.state.Clear()
}

// Reset stops everything and discards all content.
func (e *Engine) Reset() {
	for _, k := range e.sched.Running() {
		e.stop(k)
	}
	e.state.Reset()
}

// StartMotion makes kind the only running motion. Offset and rotation start
// from zero. With nothing drawn it is a no-op.
func (e *Engine) StartMotion(kind anim.Kind) (anim.Token, bool) {
	if !kind.Motion() || !e.state.HasContent() {
		return anim.Token{}, false
	}
	for _, k := range e.sched.StopAllExcept(kind, anim.MotionKinds...) {
		e.logger.Debug("motion stopped", "kind", k, "by", kind)
	}
	if !e.state.HasExtended() {
		e.state.Promote()
	}
	e.offset, e.degrees = 0, 0
	interval := anim.Interval(kind, e.level(kind))
	tok := e.sched.Start(kind, interval)
	e.logger.Debug("motion started", "kind", kind, "interval", interval)
	return tok, true
}

// StopMotion stops any motion and resets offset and rotation.
func (e *Engine) StopMotion() {
	for _, k := range anim.MotionKinds {
		e.sched.Stop(k)
	}
	e.offset, e.degrees = 0, 0
}

// ToggleMotion starts kind, or stops it when it is already running.
func (e *Engine) ToggleMotion(kind anim.Kind) (anim.Token, bool) {
	if e.sched.Active(kind) {
		e.StopMotion()
		return anim.Token{}, false
	}
	return e.StartMotion(kind)
}

func (e *Engine) StartFade() (anim.Token, bool) {
	if !e.state.HasContent() || !e.fade.Start(e.now()) {
		return anim.Token{}, false
	}
	return e.sched.Start(anim.FadeEffect, FadeFrameInterval), true
}

func (e *Engine) StopFade() {
	e.sched.Stop(anim.FadeEffect)
	e.fade.Stop()
}

func (e *Engine) StartReveal() (anim.Token, bool) {
	if !e.state.HasContent() || e.reveal.Running() {
		return anim.Token{}, false
	}
	if !e.reveal.Start(e.preview.Source()) {
		return anim.Token{}, false
	}
	return e.sched.Start(anim.RevealEffect, e.revealInterval), true
}

func (e *Engine) StopReveal() {
	e.sched.Stop(anim.RevealEffect)
	e.reveal.Stop()
}

func (e *Engine) stop(kind anim.Kind) {
	switch kind {
	case anim.FadeEffect:
		e.StopFade()
	case anim.RevealEffect:
		e.StopReveal()
	default:
		e.StopMotion()
	}
}

// Tick advances the animation tok belongs to. A stale token is ignored and
// reports false; otherwise the interval to the next tick is returned.
func (e *Engine) Tick(tok anim.Token) (time.Duration, bool) {
	interval, ok := e.sched.Accept(tok)
	if !ok {
		return 0, false
	}
	switch tok.Kind {
	case anim.Marquee:
		if total := e.preview.TotalCols(); total > 0 {
			e.offset = (e.offset + anim.MarqueeStep) % total
		}
	case anim.RotateCW:
		e.degrees += anim.RotateStep
	case anim.RotateCCW:
		e.degrees -= anim.RotateStep
	case anim.FadeEffect:
		e.fade.Update(e.now())
	case anim.RevealEffect:
		e.reveal.Tick()
	}
	return interval, true
}

func (e *Engine) level(kind anim.Kind) int {
	if kind == anim.Marquee {
		return e.speed
	}
	return e.rotateSpeed
}

// Speed returns the level of the running motion, or the marquee level when
// nothing moves.
func (e *Engine) Speed() int {
	k, ok := e.sched.ActiveMotion()
	if !ok {
		return e.speed
	}
	return e.level(k)
}

// SetSpeed changes the level of the running motion, or the marquee level
// when idle. A running motion keeps its token and picks up the new interval
// on its next tick.
func (e *Engine) SetSpeed(level int) {
	level = anim.ClampLevel(level)
	k, ok := e.sched.ActiveMotion()
	if ok && k != anim.Marquee {
		e.rotateSpeed = level
	} else {
		e.speed = level
	}
	if ok {
		e.sched.SetInterval(k, anim.Interval(k, level))
	}
}

// ExportDelayMs is the frame delay matching the current marquee speed.
func (e *Engine) ExportDelayMs() int {
	return anim.MarqueeLevels[e.speed]
}

// View returns the frame currently on screen.
func (e *Engine) View() grid.Frame {
	_, moving := e.sched.ActiveMotion()
	if !moving && !e.reveal.Running() {
		return grid.NewFrame(e.preview.Display)
	}
	src := e.preview.Source()
	if w, ok := e.reveal.Working(); ok {
		src = w
	}
	return grid.NewFrame(transform.View(src, transform.Params{
		DisplayCols: e.Cols(),
		Start:       e.preview.Start,
		Scrolling:   e.sched.Active(anim.Marquee),
		Offset:      e.offset,
		Degrees:     e.degrees,
	}))
}

// FadeFactor returns the current fade factor and whether fade is running.
func (e *Engine) FadeFactor() (float64, bool) {
	return e.fade.Factor(), e.fade.Active()
}

// Status is a read-only summary of the animation state.
type Status struct {
	Motion      anim.Kind
	Moving      bool
	Offset      int
	Degrees     float64
	FadeActive  bool
	FadeFactor  float64
	Revealing   bool
	RevealPhase anim.Phase
	RevealIndex int
	Speed       int
	EditMode    EditMode
	TextSize    grid.Size
	TotalCols   int
	HasExtended bool
	Exporting   bool
}

func (e *Engine) Status() Status {
	motion, moving := e.sched.ActiveMotion()
	phase, idx := e.reveal.State()
	return Status{
		Motion:      motion,
		Moving:      moving,
		Offset:      e.offset,
		Degrees:     e.degrees,
		FadeActive:  e.fade.Active(),
		FadeFactor:  e.fade.Factor(),
		Revealing:   e.reveal.Running(),
		RevealPhase: phase,
		RevealIndex: idx,
		Speed:       e.Speed(),
		EditMode:    e.mode,
		TextSize:    e.size,
		TotalCols:   e.preview.TotalCols(),
		HasExtended: e.preview.HasExtended,
		Exporting:   e.exporting,
	}
}

// BeginExport snapshots the content for an export job and marks one export
// in flight. The job is independent of later edits.
func (e *Engine) BeginExport(name string, delayMs int) (export.Job, error) {
	if e.exporting {
		return export.Job{}, export.ErrInFlight
	}
	if !e.state.HasContent() {
		return export.Job{}, grid.ErrNoContent
	}
	if delayMs <= 0 {
		delayMs = e.ExportDelayMs()
	}
	e.exporting = true
	return export.JobFromSnapshot(e.state.Snapshot(), name, delayMs), nil
}

// FinishExport clears the in-flight mark.
func (e *Engine) FinishExport() { e.exporting = false }

func (e *Engine) Exporting() bool { return e.exporting }
