package engine

import (
	"time"

	"github.com/san-kum/backlight/internal/grid"
	"github.com/san-kum/backlight/internal/sequence"
)

// Player loops over a saved frame sequence.
type Player struct {
	seq   sequence.Sequence
	index int
}

func NewPlayer(seq sequence.Sequence) (*Player, error) {
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	return &Player{seq: seq}, nil
}

func (p *Player) Frame() grid.Frame { return p.seq.Frames[p.index] }
func (p *Player) Index() int        { return p.index }
func (p *Player) Len() int          { return p.seq.Len() }

// Advance moves to the next frame, wrapping at the end, and returns it.
func (p *Player) Advance() grid.Frame {
	p.index = (p.index + 1) % p.seq.Len()
	return p.Frame()
}

// Interval is the delay between two frames.
func (p *Player) Interval() time.Duration {
	return time.Duration(p.seq.DelayMs) * time.Millisecond
}

// SetDelay changes the playback speed; non-positive delays are ignored.
func (p *Player) SetDelay(delayMs int) bool {
	if delayMs <= 0 {
		return false
	}
	p.seq.DelayMs = delayMs
	return true
}
