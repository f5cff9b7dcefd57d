package clock_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/gbsim/timing/clock"
)

var _ = Describe("Clock", func() {
	var c *clock.Clock

	BeforeEach(func() {
		c = clock.New()
	})

	It("should default to the DMG frequency and frame budget", func() {
		Expect(c.Frequency()).To(Equal(clock.DMGFrequency))
		Expect(c.CyclesPerFrame()).To(Equal(uint64(70224)))
	})

	It("should accumulate cycles monotonically", func() {
		c.Tick(4)
		c.Tick(12)
		Expect(c.Cycles()).To(Equal(uint64(16)))
	})

	It("should convert cycles to emulated time", func() {
		c.Tick(4194304)
		Expect(float64(c.Now())).To(BeNumerically("~", 1.0, 1e-9))
		Expect(c.Elapsed()).To(BeNumerically("~", time.Second, time.Microsecond))
	})

	It("should honor a custom frequency", func() {
		c = clock.New(clock.WithFrequency(1*sim.MHz), clock.WithCyclesPerFrame(1000))
		c.Tick(1000)
		Expect(c.Elapsed()).To(BeNumerically("~", time.Millisecond, time.Microsecond))
		Expect(c.FrameDone()).To(BeTrue())
	})

	Describe("frames", func() {
		It("should report a frame done once the budget is consumed", func() {
			c.Tick(clock.CyclesPerFrame - 4)
			Expect(c.FrameDone()).To(BeFalse())

			c.Tick(4)
			Expect(c.FrameDone()).To(BeTrue())
		})

		It("should carry overshoot into the next frame", func() {
			c.Tick(clock.CyclesPerFrame + 8)
			c.EndFrame()

			Expect(c.Frames()).To(Equal(uint64(1)))
			Expect(c.FrameCycles()).To(Equal(uint64(8)))
		})

		It("should not carry a deficit", func() {
			c.Tick(100)
			c.EndFrame()

			Expect(c.FrameCycles()).To(BeZero())
		})

		It("should summarize totals", func() {
			c.Tick(clock.CyclesPerFrame)
			c.EndFrame()

			stats := c.Stats()
			Expect(stats.Cycles).To(Equal(clock.CyclesPerFrame))
			Expect(stats.Frames).To(Equal(uint64(1)))
			Expect(stats.Elapsed).To(BeNumerically("~", 16742*time.Microsecond, 10*time.Microsecond))
		})
	})

	Describe("Pacer", func() {
		It("should not wait when behind wall time", func() {
			p := clock.NewPacer(c)
			Expect(p.Ahead()).To(BeNumerically("<=", 0))
			Expect(p.Wait(context.Background())).To(Succeed())
		})

		It("should report emulated time ahead of wall time", func() {
			p := clock.NewPacer(c)
			c.Tick(uint64(clock.DMGFrequency)) // one emulated second
			Expect(p.Ahead()).To(BeNumerically(">", 900*time.Millisecond))
		})

		It("should return early when cancelled", func() {
			p := clock.NewPacer(c)
			c.Tick(uint64(clock.DMGFrequency) * 10)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Expect(p.Wait(ctx)).To(MatchError(context.Canceled))
		})

		It("should sleep until wall time catches up", func() {
			p := clock.NewPacer(c)
			c.Tick(uint64(clock.DMGFrequency) / 100) // 10ms

			start := time.Now()
			Expect(p.Wait(context.Background())).To(Succeed())
			Expect(time.Since(start)).To(BeNumerically(">=", 5*time.Millisecond))
		})
	})
})
