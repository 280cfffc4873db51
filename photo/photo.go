// Package photo fuses the three floor beam sensors into a single floor/transit reading.
//
// Beam changes arrive on two paths. Pin interrupts call Notify, which only posts a timestamp into a
// single-slot mailbox. Task, run once per loop tick, takes the notification after a debounce window
// and re-reads the beams. Task also re-reads the beams on a fixed poll interval so a missed
// interrupt is recovered within one interval.
package photo

import (
	"sync/atomic"
	"time"

	"github.com/calvinmclean/autolift"
)

const (
	DefaultDebounce     = 30 * time.Millisecond
	DefaultPollInterval = 50 * time.Millisecond
	DefaultBootGuard    = 200 * time.Millisecond
)

// Sensors reads the three beams. An element is true when the beam at that floor is broken
type Sensors interface {
	Beams() [3]bool
}

// Config has the timing values for the Fusion
type Config struct {
	Debounce     time.Duration
	PollInterval time.Duration
	// BootGuard ignores notifications for this long after Init to absorb power-up glitches.
	// Zero uses DefaultBootGuard and a negative value disables it
	BootGuard time.Duration
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.BootGuard < 0 {
		c.BootGuard = 0
	} else if c.BootGuard == 0 {
		c.BootGuard = DefaultBootGuard
	}
	return c
}

// Fusion holds the last committed beam triple
type Fusion struct {
	sensors Sensors
	cfg     Config

	edge mailbox

	boot     time.Time
	lastPoll time.Time
	raw      [3]bool
}

// New creates a Fusion. Init must be called before the first Task
func New(s Sensors, cfg Config) *Fusion {
	return &Fusion{sensors: s, cfg: cfg.withDefaults()}
}

// Init reads the beams once to get a baseline and starts the boot guard
func (f *Fusion) Init(now time.Time) {
	f.edge.clear()
	f.boot = now
	f.lastPoll = now
	f.raw = f.sensors.Beams()
}

// Notify records a beam edge. It is safe to call from an interrupt handler or another goroutine
func (f *Fusion) Notify(now time.Time) {
	if now.Sub(f.boot) < f.cfg.BootGuard {
		return
	}
	f.edge.post(now)
}

// Task runs both update paths and returns true if the committed triple changed
func (f *Fusion) Task(now time.Time) bool {
	changed := false

	if f.edge.take(now, f.cfg.Debounce) {
		changed = f.refresh() || changed
	}

	if now.Sub(f.lastPoll) >= f.cfg.PollInterval {
		f.lastPoll = now
		changed = f.refresh() || changed
	}

	return changed
}

func (f *Fusion) refresh() bool {
	n := f.sensors.Beams()
	if n == f.raw {
		return false
	}
	f.raw = n
	return true
}

// Raw returns the committed beam triple
func (f *Fusion) Raw() [3]bool {
	return f.raw
}

// State decodes the committed beam triple. It is never cached so it always agrees with Raw
func (f *Fusion) State() autolift.PhotoState {
	return Decode(f.raw)
}

// Decode maps a beam triple to a PhotoState
func Decode(raw [3]bool) autolift.PhotoState {
	sum := 0
	for _, broken := range raw {
		if broken {
			sum++
		}
	}

	switch sum {
	case 0:
		return autolift.PhotoUnknown
	case 1:
		switch {
		case raw[0]:
			return autolift.PhotoFloor1
		case raw[1]:
			return autolift.PhotoFloor2
		default:
			return autolift.PhotoFloor3
		}
	case 2:
		if raw[0] && raw[1] {
			return autolift.PhotoMove12
		}
		if raw[1] && raw[2] {
			return autolift.PhotoMove23
		}
		// 1 and 3 without 2 is not physically possible
		return autolift.PhotoError
	default:
		return autolift.PhotoError
	}
}

// mailbox is a single-slot, overwrite-on-post notification. Producers only ever set it; the tick is
// the single consumer
type mailbox struct {
	pending atomic.Bool
	at      atomic.Int64
}

func (m *mailbox) post(now time.Time) {
	m.at.Store(now.UnixNano())
	m.pending.Store(true)
}

// take consumes the notification once it is at least window old
func (m *mailbox) take(now time.Time, window time.Duration) bool {
	if !m.pending.Load() {
		return false
	}
	if now.UnixNano()-m.at.Load() < int64(window) {
		return false
	}
	m.pending.Store(false)
	return true
}

func (m *mailbox) clear() {
	m.pending.Store(false)
	m.at.Store(0)
}
