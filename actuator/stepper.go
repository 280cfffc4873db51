// Package actuator has the non-blocking motor drivers used by the dispatch core. Hardware access goes
// through the small writer interfaces so the same drivers run on the board and in the simulator.
package actuator

import (
	"errors"
	"time"

	"github.com/calvinmclean/autolift"
)

const defaultStepPeriod = 2 * time.Millisecond

type StepMode int

const (
	StepModeFull StepMode = iota
	StepModeHalf
)

// Stepper is the contract the dispatch core uses to drive the hoist motor. It has no notion of
// position: the core decides when to stop from the floor sensors
type Stepper interface {
	StartContinuous(autolift.Direction)
	Stop()
	IsBusy() bool
	Task(now time.Time)
}

// PhaseWriter energizes the four coils
type PhaseWriter interface {
	WritePhase([4]bool)
}

var (
	// 8-step half-step halfStepSequence
	halfStepSequence = [8][4]bool{
		{true, false, false, false},
		{true, true, false, false},
		{false, true, false, false},
		{false, true, true, false},
		{false, false, true, false},
		{false, false, true, true},
		{false, false, false, true},
		{true, false, false, true},
	}

	// 4-step sequence
	fullStepSequence = [4][4]bool{
		{true, false, false, false},
		{false, true, false, false},
		{false, false, true, false},
		{false, false, false, true},
	}
)

// Sequencer runs a 4-coil stepper continuously, one phase per StepPeriod, from the main loop
type Sequencer struct {
	out        PhaseWriter
	stepMode   StepMode
	stepPeriod time.Duration
	reverse    bool

	currentStep int
	prevStep    time.Time
	busy        bool
	dir         autolift.Direction
}

var _ Stepper = &Sequencer{}

func NewSequencer(out PhaseWriter, cfg StepperConfig) (*Sequencer, error) {
	if out == nil {
		return nil, errors.New("missing PhaseWriter")
	}
	if cfg.StepMode != StepModeFull && cfg.StepMode != StepModeHalf {
		return nil, errors.New("invalid StepMode")
	}

	if cfg.StepPeriod == 0 {
		cfg.StepPeriod = defaultStepPeriod
	}

	s := &Sequencer{
		out:        out,
		stepMode:   cfg.StepMode,
		stepPeriod: cfg.StepPeriod,
		reverse:    cfg.Reverse,
		dir:        autolift.DirectionUp,
	}
	s.applyStep()
	return s, nil
}

// StartContinuous starts stepping in dir until Stop. DirectionNone stops the motor
func (s *Sequencer) StartContinuous(dir autolift.Direction) {
	if dir == autolift.DirectionNone {
		s.Stop()
		return
	}
	s.dir = dir
	s.busy = true
}

// Stop halts stepping and parks on phase 0. The coil stays energized to hold the car
func (s *Sequencer) Stop() {
	s.busy = false
	s.currentStep = 0
	s.applyStep()
}

func (s *Sequencer) IsBusy() bool {
	return s.busy
}

// Direction is the direction of the last StartContinuous
func (s *Sequencer) Direction() autolift.Direction {
	return s.dir
}

// Task advances one step if the motor is running and a step period has passed
func (s *Sequencer) Task(now time.Time) {
	if !s.busy {
		return
	}
	if now.Sub(s.prevStep) < s.stepPeriod {
		return
	}
	s.prevStep = now

	forward := s.dir == autolift.DirectionUp
	if s.reverse {
		forward = !forward
	}

	if forward {
		s.stepForward()
	} else {
		s.stepBackward()
	}
}

func (s *Sequencer) sequenceLen() int {
	if s.stepMode == StepModeHalf {
		return 8
	}
	return 4
}

func (s *Sequencer) applyStep() {
	var sequence [4]bool
	switch s.stepMode {
	default:
		fallthrough
	case StepModeFull:
		sequence = fullStepSequence[s.currentStep]
	case StepModeHalf:
		sequence = halfStepSequence[s.currentStep]
	}

	s.out.WritePhase(sequence)
}

func (s *Sequencer) stepForward() {
	s.currentStep = (s.currentStep + 1) % s.sequenceLen()
	s.applyStep()
}

func (s *Sequencer) stepBackward() {
	sequenceLen := s.sequenceLen()
	s.currentStep = (s.currentStep - 1 + sequenceLen) % sequenceLen
	s.applyStep()
}

// PhaseIndex returns the position of p in the step table for mode, or -1
func PhaseIndex(mode StepMode, p [4]bool) int {
	if mode == StepModeHalf {
		for i, seq := range halfStepSequence {
			if seq == p {
				return i
			}
		}
		return -1
	}
	for i, seq := range fullStepSequence {
		if seq == p {
			return i
		}
	}
	return -1
}
