package actuator

import (
	"errors"
	"time"

	"github.com/calvinmclean/autolift"
)

const (
	DefaultDoorClosed     = 40
	DefaultDoorOpen       = 240
	defaultDoorStepPeriod = 20 * time.Millisecond
)

// Door is the contract for the door drive. Open and Close only set a target; Run moves toward it
type Door interface {
	Open()
	Close()
	IsOpened() bool
	IsClosed() bool
	Run(now time.Time)
}

// PositionWriter sets the door servo position
type PositionWriter interface {
	SetPosition(int) error
}

// Ramp moves the door servo one position unit per StepPeriod toward its target
type Ramp struct {
	out PositionWriter
	cfg DoorConfig

	current int
	target  int
	moving  bool
	prev    time.Time

	// lastErr is the most recent write error. The ramp keeps going since the next write may succeed
	lastErr error
}

var _ Door = &Ramp{}

// NewRamp creates a Ramp parked at the closed position
func NewRamp(out PositionWriter, cfg DoorConfig) (*Ramp, error) {
	if out == nil {
		return nil, errors.New("missing PositionWriter")
	}
	if cfg.ClosedPosition == 0 && cfg.OpenPosition == 0 {
		cfg.ClosedPosition = DefaultDoorClosed
		cfg.OpenPosition = DefaultDoorOpen
	}
	if cfg.ClosedPosition == cfg.OpenPosition {
		return nil, errors.New("open and closed positions must differ")
	}
	if cfg.StepPeriod == 0 {
		cfg.StepPeriod = defaultDoorStepPeriod
	}

	r := &Ramp{
		out:     out,
		cfg:     cfg,
		current: cfg.ClosedPosition,
		target:  cfg.ClosedPosition,
	}

	err := out.SetPosition(r.current)
	if err != nil {
		return nil, errors.New("error setting initial door position: " + err.Error())
	}

	return r, nil
}

func (r *Ramp) Open() {
	r.target = r.cfg.OpenPosition
	r.moving = true
}

func (r *Ramp) Close() {
	r.target = r.cfg.ClosedPosition
	r.moving = true
}

func (r *Ramp) IsOpened() bool {
	return r.current == r.cfg.OpenPosition
}

func (r *Ramp) IsClosed() bool {
	return r.current == r.cfg.ClosedPosition
}

// Position returns the current servo position
func (r *Ramp) Position() int {
	return r.current
}

// Err returns the last error from the PositionWriter
func (r *Ramp) Err() error {
	return r.lastErr
}

// Run moves one unit toward the target if a step period has passed
func (r *Ramp) Run(now time.Time) {
	if !r.moving {
		return
	}
	if now.Sub(r.prev) < r.cfg.StepPeriod {
		return
	}
	r.prev = now

	switch {
	case r.current < r.target:
		r.current++
	case r.current > r.target:
		r.current--
	default:
		r.moving = false
	}

	r.lastErr = r.out.SetPosition(r.current)
}

// DoorPosition maps the door to the coarse position shown on the console
func DoorPosition(d Door) autolift.DoorPosition {
	switch {
	case d.IsOpened():
		return autolift.DoorOpen
	case d.IsClosed():
		return autolift.DoorClosed
	default:
		return autolift.DoorHold
	}
}
