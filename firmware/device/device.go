//go:build tinygo

// Package device binds the controller's hardware interfaces to the board's pins.
package device

import (
	"errors"
	"machine"
	"time"

	"tinygo.org/x/drivers/servo"
	"tinygo.org/x/drivers/shiftregister"

	"github.com/calvinmclean/autolift"
	"github.com/calvinmclean/autolift/actuator"
	"github.com/calvinmclean/autolift/button"
	"github.com/calvinmclean/autolift/console"
	"github.com/calvinmclean/autolift/display"
	"github.com/calvinmclean/autolift/photo"
	"github.com/calvinmclean/autolift/scheduler"
)

// Coils drives the stepper coil pins
type Coils struct {
	pins [4]machine.Pin
}

var _ actuator.PhaseWriter = &Coils{}

func NewCoils(cfg StepperConfig) *Coils {
	for _, p := range cfg.Pins {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	return &Coils{pins: cfg.Pins}
}

func (c *Coils) WritePhase(phase [4]bool) {
	for i, p := range c.pins {
		p.Set(phase[i])
	}
}

// Beams reads the floor beam sensors
type Beams struct {
	photo.Pins
	pins [3]machine.Pin
}

var _ photo.Sensors = &Beams{}

func NewBeams(cfg BeamConfig) *Beams {
	b := &Beams{pins: cfg.Pins}
	b.BrokenHigh = cfg.BrokenHigh
	for i, p := range cfg.Pins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		b.Pins.Pins[i] = p
	}
	return b
}

// OnEdge calls notify on every level change of any beam pin
func (b *Beams) OnEdge(notify func(time.Time)) error {
	for _, p := range b.pins {
		err := p.SetInterrupt(machine.PinToggle, func(machine.Pin) {
			notify(time.Now())
		})
		if err != nil {
			return errors.New("error setting beam interrupt: " + err.Error())
		}
	}
	return nil
}

// Door positions the door servo. Positions are angles in degrees
type Door struct {
	servo servo.Servo
}

var _ actuator.PositionWriter = &Door{}

func NewDoor(cfg ServoConfig) (*Door, error) {
	s, err := servo.New(cfg.PWM, cfg.Pin)
	if err != nil {
		return nil, errors.New("error creating servo: " + err.Error())
	}
	return &Door{servo: s}, nil
}

func (d *Door) SetPosition(angle int) error {
	return d.servo.SetAngle(angle)
}

// Outputs is the LED bar and the display segments on two chained 74HC595s, plus a select pin per
// display digit. The bar is the second register in the chain
type Outputs struct {
	sr      *shiftregister.Device
	digits  [4]machine.Pin
	bar     byte
	segment byte
}

var (
	_ display.Bar    = &Outputs{}
	_ display.Digits = &Outputs{}
)

func NewOutputs(cfg ShiftRegisterConfig, digits [4]machine.Pin) *Outputs {
	sr := shiftregister.New(shiftregister.SIXTEEN_BITS, cfg.Latch, cfg.Clock, cfg.Data)
	sr.Configure()
	for _, p := range digits {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}
	o := &Outputs{sr: sr, digits: digits}
	o.write()
	return o
}

func (o *Outputs) write() {
	o.sr.WriteMask(uint32(o.bar)<<8 | uint32(o.segment))
}

func (o *Outputs) WriteBar(b byte) {
	o.bar = b
	o.write()
}

func (o *Outputs) ShowDigit(pos int, pattern byte) {
	for _, p := range o.digits {
		p.High()
	}
	if pos < 0 || pos >= len(o.digits) {
		return
	}
	o.segment = pattern
	o.write()
	o.digits[pos].Low()
}

// Device has every hardware backend of the board
type Device struct {
	Beams    *Beams
	Hardware scheduler.Hardware
}

// New configures the pins and builds the scheduler hardware. Console output goes to machine.Serial
func New(cfg Config) (*Device, error) {
	var buttons [autolift.NumButtons]button.Reader
	for i, p := range cfg.Buttons {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		buttons[i] = p
	}

	door, err := NewDoor(cfg.Servo)
	if err != nil {
		return nil, err
	}

	beams := NewBeams(cfg.Beams)
	outputs := NewOutputs(cfg.Outputs, cfg.Digits)

	return &Device{
		Beams: beams,
		Hardware: scheduler.Hardware{
			Buttons: buttons,
			Beams:   beams,
			Coils:   NewCoils(cfg.Stepper),
			Servo:   door,
			Bar:     outputs,
			Digits:  outputs,
			Console: machine.Serial,
		},
	}, nil
}

// PumpSerial moves every received byte into rx. It stops early when rx is full; the console reports
// the overflow
func PumpSerial(rx *console.Ring) {
	for machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			return
		}
		if rx.Put(b) != nil {
			return
		}
	}
}
