// Package dispatch is the elevator's control core: the call queues, the car state machine and the
// dispatch policy. It owns no goroutines; the scheduler calls Tick once per loop iteration.
package dispatch

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/calvinmclean/autolift"
	"github.com/calvinmclean/autolift/actuator"
)

const (
	DefaultDoorWait    = 6000 * time.Millisecond
	DefaultMoveTimeout = 20000 * time.Millisecond
)

var ErrInvalidFloor = errors.New("invalid floor")

// Timing has the Core's timeouts
type Timing struct {
	DoorWait    time.Duration
	MoveTimeout time.Duration
}

// Core runs the car. It is not safe for concurrent use
type Core struct {
	stepper   actuator.Stepper
	door      actuator.Door
	indicator actuator.Indicator
	timing    Timing
	log       zerolog.Logger
	listeners []Listener

	state  autolift.State
	floor  int
	target int

	doorOpenedAt time.Time
	moveStart    time.Time

	queues Queues

	// lastTick is used to timestamp events raised outside of Tick
	lastTick time.Time
}

// New creates a Core in Idle at floor 1. The first exact floor reading corrects the floor
func New(stepper actuator.Stepper, door actuator.Door, indicator actuator.Indicator, timing Timing, log zerolog.Logger) (*Core, error) {
	if stepper == nil || door == nil {
		return nil, errors.New("stepper and door are required")
	}
	if indicator == nil {
		indicator = actuator.NoopIndicator{}
	}
	if timing.DoorWait <= 0 {
		timing.DoorWait = DefaultDoorWait
	}
	if timing.MoveTimeout <= 0 {
		timing.MoveTimeout = DefaultMoveTimeout
	}

	return &Core{
		stepper:   stepper,
		door:      door,
		indicator: indicator,
		timing:    timing,
		log:       log,
		state:     autolift.StateIdle,
		floor:     autolift.MinFloor,
		target:    autolift.MinFloor,
	}, nil
}

// Subscribe adds a Listener
func (c *Core) Subscribe(l Listener) {
	c.listeners = append(c.listeners, l)
}

func (c *Core) emit(e Event) {
	if e.Time.IsZero() {
		e.Time = c.lastTick
	}
	for _, l := range c.listeners {
		l.OnEvent(e)
	}
}

func (c *Core) setState(s autolift.State, now time.Time) {
	if s == c.state {
		return
	}
	from := c.state
	c.state = s
	c.log.Debug().Stringer("from", from).Stringer("to", s).Int("floor", c.floor).Msg("state")
	c.emit(Event{Kind: EventTransition, Time: now, From: from, To: s, Floor: c.floor})
}

// State returns the current machine state
func (c *Core) State() autolift.State { return c.state }

// Floor returns the confirmed floor
func (c *Core) Floor() int { return c.floor }

// Target returns the floor of the current or last move
func (c *Core) Target() int { return c.target }

// Direction is the direction the car is moving in, or DirectionNone
func (c *Core) Direction() autolift.Direction { return c.state.Direction() }

// Queues returns a copy of the pending requests
func (c *Core) Queues() Queues { return c.queues }

func (c *Core) request(kind RequestKind, flags *[autolift.MaxFloor + 1]bool, floor int) error {
	if !autolift.ValidFloor(floor) {
		return ErrInvalidFloor
	}
	if !set(flags, floor) {
		return nil
	}
	c.log.Info().Stringer("kind", kind).Int("floor", floor).Msg("request")
	c.emit(Event{Kind: EventRequest, Floor: floor, Request: kind})
	return nil
}

// RequestCar registers a call from inside the car
func (c *Core) RequestCar(floor int) error {
	return c.request(RequestCar, &c.queues.Car, floor)
}

// RequestHallUp registers an up call from the landing at floor
func (c *Core) RequestHallUp(floor int) error {
	return c.request(RequestHallUp, &c.queues.HallUp, floor)
}

// RequestHallDown registers a down call from the landing at floor
func (c *Core) RequestHallDown(floor int) error {
	return c.request(RequestHallDown, &c.queues.HallDown, floor)
}

// EmergencyStop halts the motor immediately and suspends everything until Resume
func (c *Core) EmergencyStop(now time.Time) {
	c.stepper.Stop()
	c.indicator.Show(autolift.DirectionNone, now)
	if c.state == autolift.StateEmergencyStop {
		return
	}
	c.log.Warn().Stringer("state", c.state).Int("floor", c.floor).Msg("emergency stop")
	c.emit(Event{Kind: EventEmergency, Time: now, Floor: c.floor})
	c.setState(autolift.StateEmergencyStop, now)
}

// Resume leaves EmergencyStop for Idle. The interrupted move or door cycle is dropped. It returns
// false if the car was not stopped
func (c *Core) Resume() bool {
	if c.state != autolift.StateEmergencyStop {
		return false
	}
	c.target = c.floor
	c.log.Info().Int("floor", c.floor).Msg("resume")
	c.emit(Event{Kind: EventResume, Floor: c.floor})
	c.setState(autolift.StateIdle, c.lastTick)
	return true
}

// HandleButtons applies the presses from one input scan. Emergency takes precedence and ends
// handling for this scan
func (c *Core) HandleButtons(pressed []autolift.Button, now time.Time) {
	for _, b := range pressed {
		if b == autolift.ButtonEmergency {
			c.EmergencyStop(now)
			return
		}
	}

	for _, b := range pressed {
		c.handleButton(b, now)
	}
}

func (c *Core) handleButton(b autolift.Button, now time.Time) {
	var err error
	switch b {
	case autolift.ButtonOpen:
		if c.state != autolift.StateEmergencyStop && !c.state.Moving() {
			c.setState(autolift.StateDoorOpening, now)
		}
	case autolift.ButtonClose:
		if c.state == autolift.StateDoorOpening || c.state == autolift.StateDoorWait {
			c.setState(autolift.StateDoorClosing, now)
		}
	case autolift.ButtonCar1:
		err = c.RequestCar(1)
	case autolift.ButtonCar2:
		err = c.RequestCar(2)
	case autolift.ButtonCar3:
		err = c.RequestCar(3)
	case autolift.ButtonHallUp1:
		err = c.RequestHallUp(1)
	case autolift.ButtonHallUp2:
		err = c.RequestHallUp(2)
	case autolift.ButtonHallDown2:
		err = c.RequestHallDown(2)
	case autolift.ButtonHallDown3:
		err = c.RequestHallDown(3)
	}
	if err != nil {
		c.log.Error().Err(err).Stringer("button", b).Msg("error handling button")
	}
}

// Tick advances the state machine using the latest fused floor reading
func (c *Core) Tick(now time.Time, photo autolift.PhotoState) {
	c.lastTick = now

	if f, ok := photo.Floor(); ok {
		c.floor = f
	}

	switch c.state {
	case autolift.StateEmergencyStop:
		c.stepper.Stop()
		c.indicator.Show(autolift.DirectionNone, now)
		return

	case autolift.StateIdle:
		c.decide(now)

	case autolift.StateMovingUp, autolift.StateMovingDown:
		c.move(now, photo)

	case autolift.StateDoorOpening:
		c.door.Open()
		if c.door.IsOpened() {
			c.doorOpenedAt = now
			c.log.Info().Int("floor", c.floor).Msg("door open")
			c.setState(autolift.StateDoorWait, now)
		}

	case autolift.StateDoorWait:
		if now.Sub(c.doorOpenedAt) >= c.timing.DoorWait {
			c.setState(autolift.StateDoorClosing, now)
		}

	case autolift.StateDoorClosing:
		c.door.Close()
		if c.door.IsClosed() {
			c.log.Info().Int("floor", c.floor).Msg("door closed")
			if !c.decide(now) {
				c.setState(autolift.StateIdle, now)
			}
		}
	}

	c.indicator.Show(c.state.Direction(), now)
}

// decide serves the current floor or starts toward the next request. It returns false when there is
// nothing to do
func (c *Core) decide(now time.Time) bool {
	if c.queues.ShouldStop(c.floor, autolift.DirectionNone) {
		c.stopHere(now)
		return true
	}

	next, ok := c.queues.NextTarget(c.floor, autolift.DirectionNone)
	if !ok {
		return false
	}
	if next == c.floor {
		c.stopHere(now)
		return true
	}

	// a door cycle abandoned by an emergency stop can leave the door open
	if !c.door.IsClosed() {
		c.door.Close()
		c.setState(autolift.StateIdle, now)
		return true
	}

	c.startMove(next, now)
	return true
}

func (c *Core) stopHere(now time.Time) {
	c.queues.Consume(c.floor)
	c.log.Info().Int("floor", c.floor).Msg("stop")
	c.setState(autolift.StateDoorOpening, now)
}

func (c *Core) startMove(target int, now time.Time) {
	if target == c.floor {
		return
	}

	c.target = target
	c.moveStart = now

	dir := autolift.DirectionDown
	state := autolift.StateMovingDown
	if target > c.floor {
		dir = autolift.DirectionUp
		state = autolift.StateMovingUp
	}

	c.stepper.StartContinuous(dir)
	c.log.Info().Int("floor", c.floor).Int("target", target).Stringer("dir", dir).Msg("move start")
	c.setState(state, now)
}

func (c *Core) move(now time.Time, photo autolift.PhotoState) {
	if now.Sub(c.moveStart) > c.timing.MoveTimeout {
		c.stepper.Stop()
		c.log.Warn().Int("floor", c.floor).Int("target", c.target).Dur("elapsed", now.Sub(c.moveStart)).Msg("move timeout")
		c.emit(Event{Kind: EventMoveTimeout, Time: now, Floor: c.floor})
		c.setState(autolift.StateIdle, now)
		return
	}

	if f, ok := photo.Floor(); !ok || f != c.target {
		return
	}

	c.stepper.Stop()
	c.log.Info().Int("floor", c.floor).Msg("arrive")
	c.emit(Event{Kind: EventArrive, Time: now, Floor: c.floor})

	// with nothing further ahead every call here is served, whichever way it points
	dir := c.state.Direction()
	if c.queues.ShouldStop(c.floor, dir) || (!c.queues.Ahead(c.floor, dir) && c.queues.Pending(c.floor)) {
		c.stopHere(now)
		return
	}

	if next, ok := c.queues.NextTarget(c.floor, dir); ok {
		c.startMove(next, now)
		return
	}

	c.setState(autolift.StateIdle, now)
}

// Status fills in the parts of a Status the Core owns
func (c *Core) Status() autolift.Status {
	return autolift.Status{
		Floor: c.floor,
		State: c.state,
		Door:  actuator.DoorPosition(c.door),
		Queue: c.queues.String(),
	}
}
