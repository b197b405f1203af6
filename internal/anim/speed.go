package anim

import "time"

// Speed levels in milliseconds per tick, slowest first.
var (
	MarqueeLevels = []int{
		500, 475, 450, 425, 400, 375, 350, 325, 300, 275,
		250, 225, 200, 175, 150, 125, 100, 75, 50, 25,
	}
	RotateLevels = []int{
		38, 36, 34, 32, 30, 28, 26, 24, 22, 20,
		20, 18, 16, 14, 12, 10, 8, 6, 4, 2,
	}
)

// DefaultSpeedLevel gives 250ms for the marquee and 20ms for rotation.
const DefaultSpeedLevel = 10

// Per-tick motion steps.
const (
	MarqueeStep = 1
	RotateStep  = 5.0
)

// Levels returns the speed table for a motion kind.
func Levels(kind Kind) []int {
	if kind == Marquee {
		return MarqueeLevels
	}
	return RotateLevels
}

// ClampLevel limits idx to the valid range of the table.
func ClampLevel(idx int) int {
	if idx < 0 {
		return 0
	}
	if idx >= len(MarqueeLevels) {
		return len(MarqueeLevels) - 1
	}
	return idx
}

// Interval returns the tick period of kind at speed level idx.
func Interval(kind Kind, idx int) time.Duration {
	return time.Duration(Levels(kind)[ClampLevel(idx)]) * time.Millisecond
}
