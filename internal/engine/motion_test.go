package engine_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/backlight/internal/anim"
	"github.com/san-kum/backlight/internal/engine"
	"github.com/san-kum/backlight/internal/grid"
)

var _ = Describe("Motion exclusion", func() {
	var e *engine.Engine

	BeforeEach(func() {
		e = engine.New(engine.Options{Rows: 15, Cols: 20, SpeedLevel: anim.DefaultSpeedLevel})
		content := grid.NewMatrix(15, 24)
		content.Set(7, 3, grid.On)
		Expect(e.SetContent(content)).To(Succeed())
	})

	It("stops rotation and resets the angle when the marquee starts", func() {
		rot, ok := e.StartMotion(anim.RotateCW)
		Expect(ok).To(BeTrue())
		for i := 0; i < 4; i++ {
			_, ok = e.Tick(rot)
			Expect(ok).To(BeTrue())
		}
		Expect(e.Status().Degrees).To(Equal(20.0))

		mq, ok := e.StartMotion(anim.Marquee)
		Expect(ok).To(BeTrue())
		Expect(e.Status().Degrees).To(BeZero())
		Expect(e.Scheduler().Active(anim.RotateCW)).To(BeFalse())

		_, ok = e.Tick(rot)
		Expect(ok).To(BeFalse())
		_, ok = e.Tick(mq)
		Expect(ok).To(BeTrue())
		Expect(e.Status().Offset).To(Equal(1))
		Expect(e.Status().Degrees).To(BeZero())
	})

	It("keeps fade and reveal running across motion changes", func() {
		ft, ok := e.StartFade()
		Expect(ok).To(BeTrue())
		rt, ok := e.StartReveal()
		Expect(ok).To(BeTrue())

		e.StartMotion(anim.RotateCCW)
		e.StartMotion(anim.Marquee)
		e.StopMotion()

		_, ok = e.Tick(ft)
		Expect(ok).To(BeTrue())
		_, ok = e.Tick(rt)
		Expect(ok).To(BeTrue())
	})

	It("toggles a running motion off", func() {
		_, ok := e.ToggleMotion(anim.Marquee)
		Expect(ok).To(BeTrue())
		_, ok = e.ToggleMotion(anim.Marquee)
		Expect(ok).To(BeFalse())
		Expect(e.Status().Moving).To(BeFalse())
	})

	It("shows the centred window while idle", func() {
		view := e.View()
		Expect(view.Cols()).To(Equal(20))
		// start is 2, so content column 3 appears at display column 1
		Expect(view.At(7, 1)).To(Equal(grid.On))
	})
})
