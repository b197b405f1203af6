package anim

import (
	"sort"
	"time"
)

// Kind identifies an animation slot.
type Kind int

const (
	Marquee Kind = iota
	RotateCW
	RotateCCW
	FadeEffect
	RevealEffect
)

var kindNames = map[Kind]string{
	Marquee:      "marquee",
	RotateCW:     "rotate-cw",
	RotateCCW:    "rotate-ccw",
	FadeEffect:   "fade",
	RevealEffect: "reveal",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// MotionKinds move the content and are mutually exclusive.
var MotionKinds = []Kind{Marquee, RotateCW, RotateCCW}

func (k Kind) Motion() bool {
	return k == Marquee || k == RotateCW || k == RotateCCW
}

// Token identifies one started periodic task. A tick is only honoured while
// its token is the current one for its kind.
type Token struct {
	Kind Kind
	Seq  uint64
}

type slot struct {
	token    Token
	interval time.Duration
}

// Scheduler keeps one slot per animation kind.
type Scheduler struct {
	seq   uint64
	slots map[Kind]slot
}

func NewScheduler() *Scheduler {
	return &Scheduler{slots: make(map[Kind]slot)}
}

// Start (re)starts the periodic task for kind and returns its token. Any
// earlier token for the same kind becomes stale.
func (s *Scheduler) Start(kind Kind, interval time.Duration) Token {
	s.seq++
	tok := Token{Kind: kind, Seq: s.seq}
	s.slots[kind] = slot{token: tok, interval: interval}
	return tok
}

// Stop cancels the task for kind. Stopping an idle kind is a no-op.
func (s *Scheduler) Stop(kind Kind) bool {
	if _, ok := s.slots[kind]; !ok {
		return false
	}
	delete(s.slots, kind)
	return true
}

// StopAllExcept cancels every active kind other than keep, restricted to
// among when given. It returns the kinds it stopped in ascending order.
func (s *Scheduler) StopAllExcept(keep Kind, among ...Kind) []Kind {
	var stopped []Kind
	for kind := range s.slots {
		if kind == keep {
			continue
		}
		if len(among) > 0 && !contains(among, kind) {
			continue
		}
		stopped = append(stopped, kind)
	}
	sort.Slice(stopped, func(i, j int) bool { return stopped[i] < stopped[j] })
	for _, kind := range stopped {
		delete(s.slots, kind)
	}
	return stopped
}

func (s *Scheduler) Active(kind Kind) bool {
	_, ok := s.slots[kind]
	return ok
}

// Running lists the active kinds in ascending order.
func (s *Scheduler) Running() []Kind {
	kinds := make([]Kind, 0, len(s.slots))
	for kind := range s.slots {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ActiveMotion returns the running motion kind, if any.
func (s *Scheduler) ActiveMotion() (Kind, bool) {
	for _, kind := range MotionKinds {
		if s.Active(kind) {
			return kind, true
		}
	}
	return 0, false
}

// Accept reports whether tok is still the live token of its kind and returns
// the interval to the next tick.
func (s *Scheduler) Accept(tok Token) (time.Duration, bool) {
	sl, ok := s.slots[tok.Kind]
	if !ok || sl.token != tok {
		return 0, false
	}
	return sl.interval, true
}

// SetInterval changes the period of a running task without invalidating it.
func (s *Scheduler) SetInterval(kind Kind, interval time.Duration) bool {
	sl, ok := s.slots[kind]
	if !ok {
		return false
	}
	sl.interval = interval
	s.slots[kind] = sl
	return true
}

func (s *Scheduler) Interval(kind Kind) (time.Duration, bool) {
	sl, ok := s.slots[kind]
	return sl.interval, ok
}

func contains(kinds []Kind, k Kind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}
