// Package clock provides cycle accounting and real-time pacing for the
// emulated CPU.
//
// The clock only counts; it never drives execution. The execution engine
// adds the cost of every step and the host loop reads the total to decide
// when a frame is complete and how long to sleep.
package clock

import (
	"context"
	"time"

	"github.com/sarchlab/akita/v4/sim"
)

// DMGFrequency is the clock frequency of the original Game Boy.
const DMGFrequency = 4194304 * sim.Hz

// CyclesPerFrame is the number of clock cycles in one LCD frame (~59.7 Hz).
const CyclesPerFrame uint64 = 70224

// Clock accumulates elapsed CPU cycles.
type Clock struct {
	freq           sim.Freq
	cyclesPerFrame uint64

	cycles     uint64
	frameStart uint64
	frames     uint64
}

// Option configures a Clock.
type Option func(*Clock)

// WithFrequency sets the clock frequency.
func WithFrequency(f sim.Freq) Option {
	return func(c *Clock) {
		c.freq = f
	}
}

// WithCyclesPerFrame sets the frame budget.
func WithCyclesPerFrame(n uint64) Option {
	return func(c *Clock) {
		c.cyclesPerFrame = n
	}
}

// New creates a clock at DMG frequency with the standard frame budget.
func New(opts ...Option) *Clock {
	c := &Clock{
		freq:           DMGFrequency,
		cyclesPerFrame: CyclesPerFrame,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tick adds n elapsed cycles.
func (c *Clock) Tick(n uint64) {
	c.cycles += n
}

// Cycles returns the total number of elapsed cycles.
func (c *Clock) Cycles() uint64 {
	return c.cycles
}

// Frequency returns the clock frequency.
func (c *Clock) Frequency() sim.Freq {
	return c.freq
}

// CyclesPerFrame returns the frame budget.
func (c *Clock) CyclesPerFrame() uint64 {
	return c.cyclesPerFrame
}

// Now returns the emulated time elapsed since the clock started.
func (c *Clock) Now() sim.VTimeInSec {
	return sim.VTimeInSec(float64(c.cycles) * float64(c.freq.Period()))
}

// Elapsed returns the emulated time as a wall-clock duration.
func (c *Clock) Elapsed() time.Duration {
	return c.durationOf(c.cycles)
}

func (c *Clock) durationOf(cycles uint64) time.Duration {
	seconds := float64(cycles) * float64(c.freq.Period())
	return time.Duration(seconds * float64(time.Second))
}

// FrameCycles returns the cycles elapsed in the current frame.
func (c *Clock) FrameCycles() uint64 {
	return c.cycles - c.frameStart
}

// FrameDone reports whether the current frame's budget has been consumed.
func (c *Clock) FrameDone() bool {
	return c.FrameCycles() >= c.cyclesPerFrame
}

// EndFrame closes the current frame. Cycles past the budget carry over into
// the next frame so the long-run frame rate stays exact.
func (c *Clock) EndFrame() {
	c.frames++
	c.frameStart += c.cyclesPerFrame
	if c.frameStart > c.cycles {
		c.frameStart = c.cycles
	}
}

// Frames returns the number of completed frames.
func (c *Clock) Frames() uint64 {
	return c.frames
}

// Stats is a point-in-time summary of the clock.
type Stats struct {
	Cycles  uint64
	Frames  uint64
	Elapsed time.Duration
}

// Stats returns the current totals.
func (c *Clock) Stats() Stats {
	return Stats{
		Cycles:  c.cycles,
		Frames:  c.frames,
		Elapsed: c.Elapsed(),
	}
}

// Pacer throttles a host loop so emulated time does not run ahead of wall
// time.
type Pacer struct {
	clock *Clock
	start time.Time
	base  uint64
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer starts pacing from the clock's current cycle count.
func NewPacer(c *Clock) *Pacer {
	return &Pacer{
		clock: c,
		start: time.Now(),
		base:  c.Cycles(),
		now:   time.Now,
		sleep: sleepContext,
	}
}

// Ahead returns how far emulated time is ahead of wall time. A negative
// value means the emulation is running behind.
func (p *Pacer) Ahead() time.Duration {
	emulated := p.clock.durationOf(p.clock.Cycles() - p.base)
	return emulated - p.now().Sub(p.start)
}

// Wait sleeps until wall time catches up with emulated time. It returns
// early with the context's error if the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	d := p.Ahead()
	if d <= 0 {
		return ctx.Err()
	}
	return p.sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
