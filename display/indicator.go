package display

import (
	"time"

	"github.com/calvinmclean/autolift"
	"github.com/calvinmclean/autolift/actuator"
)

// DefaultIndicatorPeriod is the time between two LEDs of the fill animation
const DefaultIndicatorPeriod = 300 * time.Millisecond

// Bar is an 8-LED output, bit 0 at the bottom
type Bar interface {
	WriteBar(byte)
}

// Indicator fills the LED bar upward while going up and downward while going down
type Indicator struct {
	out    Bar
	period time.Duration

	mode    autolift.Direction
	off     bool
	last    time.Time
	step    int
	pattern byte
}

var _ actuator.Indicator = &Indicator{}

func NewIndicator(out Bar, period time.Duration) *Indicator {
	if period <= 0 {
		period = DefaultIndicatorPeriod
	}
	i := &Indicator{out: out, period: period}
	i.reset(autolift.DirectionNone, time.Time{})
	i.off = true
	return i
}

func (i *Indicator) reset(mode autolift.Direction, now time.Time) {
	i.mode = mode
	i.step = 0
	i.pattern = 0
	i.last = now
	i.out.WriteBar(0)
}

// Show implements actuator.Indicator
func (i *Indicator) Show(dir autolift.Direction, now time.Time) {
	if dir == autolift.DirectionNone {
		if !i.off {
			i.out.WriteBar(0)
			i.off = true
			i.mode = autolift.DirectionNone
		}
		return
	}

	if i.mode != dir || i.off {
		i.off = false
		i.reset(dir, now)
	}

	if now.Sub(i.last) < i.period {
		return
	}
	i.last = now

	if dir == autolift.DirectionUp {
		i.pattern |= 1 << i.step
	} else {
		i.pattern |= 0x80 >> i.step
	}
	i.out.WriteBar(i.pattern)

	i.step++
	if i.step >= 8 {
		i.step = 0
		i.pattern = 0
	}
}

// Pattern returns the last pattern written while animating
func (i *Indicator) Pattern() byte {
	if i.off {
		return 0
	}
	return i.pattern
}
