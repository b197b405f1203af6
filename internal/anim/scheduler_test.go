package anim_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/backlight/internal/anim"
)

var _ = Describe("Scheduler", func() {
	var s *anim.Scheduler

	BeforeEach(func() {
		s = anim.NewScheduler()
	})

	It("accepts ticks for the live token", func() {
		tok := s.Start(anim.Marquee, 250*time.Millisecond)
		interval, ok := s.Accept(tok)
		Expect(ok).To(BeTrue())
		Expect(interval).To(Equal(250 * time.Millisecond))
	})

	It("rejects ticks after stop, idempotently", func() {
		tok := s.Start(anim.RotateCW, 20*time.Millisecond)
		Expect(s.Stop(anim.RotateCW)).To(BeTrue())
		Expect(s.Stop(anim.RotateCW)).To(BeFalse())
		_, ok := s.Accept(tok)
		Expect(ok).To(BeFalse())
	})

	It("invalidates the old token when a kind restarts", func() {
		old := s.Start(anim.Marquee, time.Second)
		fresh := s.Start(anim.Marquee, time.Second)
		_, ok := s.Accept(old)
		Expect(ok).To(BeFalse())
		_, ok = s.Accept(fresh)
		Expect(ok).To(BeTrue())
	})

	It("stops all motion except the kept kind", func() {
		s.Start(anim.RotateCW, time.Millisecond)
		s.Start(anim.FadeEffect, time.Millisecond)
		s.Start(anim.Marquee, time.Millisecond)

		stopped := s.StopAllExcept(anim.Marquee, anim.MotionKinds...)
		Expect(stopped).To(Equal([]anim.Kind{anim.RotateCW}))
		Expect(s.Running()).To(Equal([]anim.Kind{anim.Marquee, anim.FadeEffect}))

		kind, ok := s.ActiveMotion()
		Expect(ok).To(BeTrue())
		Expect(kind).To(Equal(anim.Marquee))
	})

	It("stops every kind when no group is given", func() {
		s.Start(anim.FadeEffect, time.Millisecond)
		s.Start(anim.RevealEffect, time.Millisecond)
		Expect(s.StopAllExcept(anim.Marquee)).To(HaveLen(2))
		Expect(s.Running()).To(BeEmpty())
	})

	It("changes the interval without invalidating the token", func() {
		tok := s.Start(anim.Marquee, 250*time.Millisecond)
		Expect(s.SetInterval(anim.Marquee, anim.Interval(anim.Marquee, 19))).To(BeTrue())
		interval, ok := s.Accept(tok)
		Expect(ok).To(BeTrue())
		Expect(interval).To(Equal(25 * time.Millisecond))
	})
})

var _ = Describe("speed levels", func() {
	It("defaults to the device timings", func() {
		Expect(anim.Interval(anim.Marquee, anim.DefaultSpeedLevel)).To(Equal(250 * time.Millisecond))
		Expect(anim.Interval(anim.RotateCW, anim.DefaultSpeedLevel)).To(Equal(20 * time.Millisecond))
	})

	It("clamps out-of-range levels", func() {
		Expect(anim.Interval(anim.Marquee, -3)).To(Equal(500 * time.Millisecond))
		Expect(anim.Interval(anim.RotateCCW, 99)).To(Equal(2 * time.Millisecond))
	})
})
