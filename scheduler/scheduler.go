// Package scheduler owns every controller component and runs them in a fixed order once per tick.
package scheduler

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/calvinmclean/autolift"
	"github.com/calvinmclean/autolift/actuator"
	"github.com/calvinmclean/autolift/button"
	"github.com/calvinmclean/autolift/console"
	"github.com/calvinmclean/autolift/dispatch"
	"github.com/calvinmclean/autolift/display"
	"github.com/calvinmclean/autolift/photo"
)

// Hardware is the set of backends the scheduler drives. Bar and Digits are optional
type Hardware struct {
	Buttons [autolift.NumButtons]button.Reader
	Beams   photo.Sensors
	Coils   actuator.PhaseWriter
	Servo   actuator.PositionWriter
	Bar     display.Bar
	Digits  display.Digits
	Console io.Writer
}

func (hw Hardware) validate() error {
	for i, r := range hw.Buttons {
		if r == nil {
			return fmt.Errorf("missing reader for button %s", autolift.Button(i))
		}
	}
	if hw.Beams == nil {
		return errors.New("missing beam sensors")
	}
	if hw.Console == nil {
		return errors.New("missing console output")
	}
	return nil
}

// Scheduler is the single control loop. It is not safe for concurrent use except for Notify and the
// console Rx ring
type Scheduler struct {
	cfg Config
	log zerolog.Logger

	buttons   *button.Bank
	fusion    *photo.Fusion
	stepper   *actuator.Sequencer
	door      *actuator.Ramp
	indicator actuator.Indicator
	scanner   *display.Scanner
	core      *dispatch.Core
	console   *console.Console
}

var _ console.Controller = &Scheduler{}

// New wires the components. now is the power-up time used to seed debouncers and the boot guard
func New(hw Hardware, cfg Config, log zerolog.Logger, now time.Time) (*Scheduler, error) {
	err := hw.validate()
	if err != nil {
		return nil, err
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{cfg: cfg, log: log}

	s.stepper, err = actuator.NewSequencer(hw.Coils, cfg.stepperConfig())
	if err != nil {
		return nil, fmt.Errorf("error creating stepper: %w", err)
	}

	s.door, err = actuator.NewRamp(hw.Servo, cfg.doorConfig())
	if err != nil {
		return nil, fmt.Errorf("error creating door: %w", err)
	}

	s.indicator = actuator.NoopIndicator{}
	if hw.Bar != nil {
		s.indicator = display.NewIndicator(hw.Bar, cfg.IndicatorPeriod)
	}
	if hw.Digits != nil {
		s.scanner = display.NewScanner(hw.Digits)
	}

	s.core, err = dispatch.New(s.stepper, s.door, s.indicator, dispatch.Timing{
		DoorWait:    cfg.DoorWait,
		MoveTimeout: cfg.MoveTimeout,
	}, log.With().Str("component", "dispatch").Logger())
	if err != nil {
		return nil, fmt.Errorf("error creating dispatch core: %w", err)
	}

	s.buttons = button.NewBank(hw.Buttons, cfg.ButtonDebounce, now)

	s.fusion = photo.New(hw.Beams, cfg.photoConfig())
	s.fusion.Init(now)

	s.console = console.New(s, hw.Console, log.With().Str("component", "console").Logger())

	return s, nil
}

// Start prints the console banner and the first floor reading
func (s *Scheduler) Start() {
	s.log.Info().Str("photo", s.fusion.State().String()).Msg("starting control loop")
	s.console.Ready()
	s.console.Task()
}

// Notify is the beam edge handler. It may be called from an interrupt or another goroutine
func (s *Scheduler) Notify(now time.Time) {
	s.fusion.Notify(now)
}

// Rx is the console receive ring
func (s *Scheduler) Rx() *console.Ring {
	return s.console.Rx()
}

// Subscribe adds a listener for dispatch events
func (s *Scheduler) Subscribe(l dispatch.Listener) {
	s.core.Subscribe(l)
}

// Config returns the running config
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Tick runs one loop iteration: sensors, buttons, the state machine, actuators, outputs, console
func (s *Scheduler) Tick(now time.Time) {
	if s.fusion.Task(now) {
		s.log.Debug().Str("photo", s.fusion.State().String()).Msg("photo changed")
	}

	pressed := s.buttons.Scan(now)
	if len(pressed) > 0 {
		s.core.HandleButtons(pressed, now)
	}

	s.core.Tick(now, s.fusion.State())

	s.stepper.Task(now)
	s.door.Run(now)
	if err := s.door.Err(); err != nil {
		s.log.Error().Err(err).Msg("error moving door")
	}

	if s.scanner != nil {
		st := s.core.Status()
		s.scanner.Set(display.NewFrame(st.Floor, st.Door == autolift.DoorOpen))
		s.scanner.Scan()
	}

	s.console.Task()
}

// Status implements console.Controller
func (s *Scheduler) Status() autolift.Status {
	st := s.core.Status()
	st.Raw = s.fusion.Raw()
	st.Photo = s.fusion.State()
	return st
}

// RequestCar implements console.Controller
func (s *Scheduler) RequestCar(floor int) error {
	return s.core.RequestCar(floor)
}

// RequestHallUp registers an up call, for panels outside the button bank
func (s *Scheduler) RequestHallUp(floor int) error {
	return s.core.RequestHallUp(floor)
}

// RequestHallDown registers a down call, for panels outside the button bank
func (s *Scheduler) RequestHallDown(floor int) error {
	return s.core.RequestHallDown(floor)
}

// Resume implements console.Controller
func (s *Scheduler) Resume() bool {
	return s.core.Resume()
}

// EmergencyStop stops the car on behalf of a panel outside the button bank
func (s *Scheduler) EmergencyStop(now time.Time) {
	s.core.EmergencyStop(now)
}

// Queues returns a copy of the pending calls
func (s *Scheduler) Queues() dispatch.Queues {
	return s.core.Queues()
}
