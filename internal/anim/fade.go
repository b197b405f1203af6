package anim

import (
	"image/color"
	"math"
	"time"
)

// DefaultFadePeriod is one full 1 -> 0 -> 1 cycle.
const DefaultFadePeriod = 2000 * time.Millisecond

// Fade is a continuous interpolation factor that runs 1 -> 0 -> 1 over Period
// while active and rests at 1 otherwise.
type Fade struct {
	Period  time.Duration
	active  bool
	started time.Time
	factor  float64
}

func NewFade(period time.Duration) *Fade {
	if period <= 0 {
		period = DefaultFadePeriod
	}
	return &Fade{Period: period, factor: 1}
}

// Start begins the cycle at now. Starting an active fade does nothing.
func (f *Fade) Start(now time.Time) bool {
	if f.active {
		return false
	}
	f.active = true
	f.started = now
	f.factor = 1
	return true
}

// Stop cancels the cycle and snaps the factor back to 1.
func (f *Fade) Stop() {
	f.active = false
	f.factor = 1
}

func (f *Fade) Active() bool    { return f.active }
func (f *Fade) Factor() float64 { return f.factor }

// Update recomputes the factor for now and returns it.
func (f *Fade) Update(now time.Time) float64 {
	if !f.active {
		f.factor = 1
		return f.factor
	}
	f.factor = FactorAt(now.Sub(f.started), f.Period)
	return f.factor
}

// FactorAt is the triangle wave |1 - 2*phase| for phase = elapsed/period mod 1.
func FactorAt(elapsed, period time.Duration) float64 {
	if period <= 0 {
		return 1
	}
	e := elapsed % period
	if e < 0 {
		e += period
	}
	phase := float64(e) / float64(period)
	return math.Abs(1 - 2*phase)
}

// Lerp interpolates each channel as from + (to-from)*factor, truncating.
func Lerp(from, to color.RGBA, factor float64) color.RGBA {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	ch := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*factor)
	}
	return color.RGBA{
		R: ch(from.R, to.R),
		G: ch(from.G, to.G),
		B: ch(from.B, to.B),
		A: 0xff,
	}
}
