// Package button turns raw switch levels into single-fire press events.
package button

import (
	"time"

	"github.com/calvinmclean/autolift"
)

// DefaultDebounce is how long a raw level must hold before it is accepted
const DefaultDebounce = 60 * time.Millisecond

// Reader reads the raw level of one input pin. true is a high level
type Reader interface {
	Get() bool
}

// ReaderFunc adapts a function to Reader
type ReaderFunc func() bool

func (f ReaderFunc) Get() bool { return f() }

// Channel debounces a single input
type Channel struct {
	reader   Reader
	onLevel  bool
	debounce time.Duration

	rawPrev    bool
	lastChange time.Time

	stable     bool
	stablePrev bool
}

// NewChannel creates a Channel and seeds every level from the current raw reading, so an input
// already held at startup does not fire
func NewChannel(r Reader, onLevel bool, debounce time.Duration, now time.Time) *Channel {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	raw := r.Get()
	return &Channel{
		reader:     r,
		onLevel:    onLevel,
		debounce:   debounce,
		rawPrev:    raw,
		lastChange: now,
		stable:     raw,
		stablePrev: raw,
	}
}

// Poll samples the input and returns true exactly once for each debounced transition into the on level
func (c *Channel) Poll(now time.Time) bool {
	raw := c.reader.Get()

	if raw != c.rawPrev {
		c.rawPrev = raw
		c.lastChange = now
	}

	if now.Sub(c.lastChange) >= c.debounce && c.stable != raw {
		c.stablePrev = c.stable
		c.stable = raw
	}

	if c.stablePrev != c.stable {
		c.stablePrev = c.stable
		return c.stable == c.onLevel
	}

	return false
}

// Stable returns the last accepted level
func (c *Channel) Stable() bool {
	return c.stable
}

// Bank holds one Channel per button role
type Bank struct {
	channels [autolift.NumButtons]*Channel
}

// NewBank builds a Bank. Every input is active-low, like the pulled-up push buttons on the board
func NewBank(readers [autolift.NumButtons]Reader, debounce time.Duration, now time.Time) *Bank {
	b := &Bank{}
	for i, r := range readers {
		b.channels[i] = NewChannel(r, false, debounce, now)
	}
	return b
}

// Pressed polls the channel for role b. Unknown roles are never pressed
func (b *Bank) Pressed(role autolift.Button, now time.Time) bool {
	if !role.Valid() || b.channels[role] == nil {
		return false
	}
	return b.channels[role].Poll(now)
}

// Scan polls every channel in role order and returns the roles that fired
func (b *Bank) Scan(now time.Time) []autolift.Button {
	var pressed []autolift.Button
	for i := range autolift.NumButtons {
		role := autolift.Button(i)
		if b.Pressed(role, now) {
			pressed = append(pressed, role)
		}
	}
	return pressed
}
