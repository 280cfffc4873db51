package sim

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/calvinmclean/autolift"
	"github.com/calvinmclean/autolift/actuator"
	"github.com/calvinmclean/autolift/button"
	"github.com/calvinmclean/autolift/display"
)

// Pin is a pulled-up push button input: it reads low while pressed
type Pin struct {
	pressed atomic.Bool
}

var _ button.Reader = &Pin{}

func (p *Pin) Get() bool {
	return !p.pressed.Load()
}

func (p *Pin) Set(pressed bool) {
	p.pressed.Store(pressed)
}

// Panel has one Pin for every button role
type Panel struct {
	pins [autolift.NumButtons]Pin
}

func (p *Panel) Press(b autolift.Button) {
	if b.Valid() {
		p.pins[b].Set(true)
	}
}

func (p *Panel) Release(b autolift.Button) {
	if b.Valid() {
		p.pins[b].Set(false)
	}
}

// Readers returns the pins as button.Readers in role order
func (p *Panel) Readers() [autolift.NumButtons]button.Reader {
	var r [autolift.NumButtons]button.Reader
	for i := range p.pins {
		r[i] = &p.pins[i]
	}
	return r
}

// Servo records the last door position
type Servo struct {
	pos    atomic.Int64
	writes atomic.Int64
}

var _ actuator.PositionWriter = &Servo{}

func (s *Servo) SetPosition(p int) error {
	s.pos.Store(int64(p))
	s.writes.Add(1)
	return nil
}

func (s *Servo) Position() int {
	return int(s.pos.Load())
}

// Outputs records what is shown on the LED bar and the digits
type Outputs struct {
	mu     sync.Mutex
	bar    byte
	digits display.Frame
}

var (
	_ display.Bar    = &Outputs{}
	_ display.Digits = &Outputs{}
)

func (o *Outputs) WriteBar(b byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bar = b
}

func (o *Outputs) ShowDigit(pos int, pattern byte) {
	if pos < 0 || pos >= len(o.digits) {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.digits[pos] = pattern
}

func (o *Outputs) Bar() byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bar
}

// Digits returns the last pattern shown on each digit
func (o *Outputs) Digits() display.Frame {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.digits
}

// Board is a complete simulated elevator
type Board struct {
	Shaft   *Shaft
	Panel   *Panel
	Servo   *Servo
	Outputs *Outputs
}

func NewBoard(cfg ShaftConfig, mode actuator.StepMode, clock func() time.Time) *Board {
	return &Board{
		Shaft:   NewShaft(cfg, mode, clock),
		Panel:   &Panel{},
		Servo:   &Servo{},
		Outputs: &Outputs{},
	}
}
