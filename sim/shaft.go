// Package sim is an in-memory elevator used by the host simulator and the end-to-end tests. It
// implements every hardware interface the scheduler needs.
package sim

import (
	"sync"
	"time"

	"github.com/calvinmclean/autolift"
	"github.com/calvinmclean/autolift/actuator"
)

const (
	DefaultFloorSteps = 400
	DefaultBeamWidth  = 60
)

// ShaftConfig describes the shaft geometry in motor steps
type ShaftConfig struct {
	// FloorSteps is the distance between two floors
	FloorSteps int
	// BeamWidth is how far from a floor's level the car still breaks only that floor's beam
	BeamWidth int
	// StartFloor is where the car is parked at power-up
	StartFloor int
}

func (c ShaftConfig) withDefaults() ShaftConfig {
	if c.FloorSteps <= 0 {
		c.FloorSteps = DefaultFloorSteps
	}
	if c.BeamWidth <= 0 || c.BeamWidth*2 >= c.FloorSteps {
		c.BeamWidth = DefaultBeamWidth
	}
	if !autolift.ValidFloor(c.StartFloor) {
		c.StartFloor = autolift.MinFloor
	}
	return c
}

// Shaft models the car position. It counts coil phase changes as steps and breaks the beams
// accordingly: only the floor's beam near a floor, both neighbors in between
type Shaft struct {
	mu sync.Mutex

	cfg   ShaftConfig
	mode  actuator.StepMode
	clock func() time.Time

	position  int
	lastPhase int
	beams     [3]bool
	overrides [3]*bool
	onEdge    func(time.Time)
}

// NewShaft creates a Shaft for a motor driven in mode. clock timestamps the edge notifications
func NewShaft(cfg ShaftConfig, mode actuator.StepMode, clock func() time.Time) *Shaft {
	cfg = cfg.withDefaults()
	if clock == nil {
		clock = time.Now
	}
	s := &Shaft{
		cfg:       cfg,
		mode:      mode,
		clock:     clock,
		position:  FloorPosition(cfg, cfg.StartFloor),
		lastPhase: -1,
	}
	s.beams = s.sense()
	return s
}

// FloorPosition is the step count at which the car is level with floor
func FloorPosition(cfg ShaftConfig, floor int) int {
	return (floor - autolift.MinFloor) * cfg.withDefaults().FloorSteps
}

// OnEdge sets the function called whenever a beam changes, like a pin interrupt
func (s *Shaft) OnEdge(f func(time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEdge = f
}

// WritePhase implements actuator.PhaseWriter. A move to the next phase in the table is one step
// up, to the previous phase one step down
func (s *Shaft) WritePhase(p [4]bool) {
	idx := actuator.PhaseIndex(s.mode, p)
	if idx < 0 {
		return
	}

	s.mu.Lock()
	prev := s.lastPhase
	s.lastPhase = idx
	if prev < 0 || prev == idx {
		s.mu.Unlock()
		return
	}

	n := 4
	if s.mode == actuator.StepModeHalf {
		n = 8
	}
	switch idx {
	case (prev + 1) % n:
		s.position++
	case (prev - 1 + n) % n:
		s.position--
	}
	s.mu.Unlock()

	s.update()
}

// Override forces beam i broken or clear until ClearOverrides. It is used to inject sensor faults
func (s *Shaft) Override(i int, broken bool) {
	if i < 0 || i >= len(s.overrides) {
		return
	}
	s.mu.Lock()
	s.overrides[i] = &broken
	s.mu.Unlock()
	s.update()
}

func (s *Shaft) ClearOverrides() {
	s.mu.Lock()
	s.overrides = [3]*bool{}
	s.mu.Unlock()
	s.update()
}

// Beams implements photo.Sensors
func (s *Shaft) Beams() [3]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beams
}

// Position returns the car position in steps
func (s *Shaft) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Level returns the floor the car is level with, if it is exactly at one
func (s *Shaft) Level() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.position%s.cfg.FloorSteps != 0 {
		return 0, false
	}
	f := s.position/s.cfg.FloorSteps + autolift.MinFloor
	return f, autolift.ValidFloor(f)
}

func (s *Shaft) update() {
	s.mu.Lock()
	n := s.sense()
	changed := n != s.beams
	s.beams = n
	onEdge := s.onEdge
	s.mu.Unlock()

	if changed && onEdge != nil {
		onEdge(s.clock())
	}
}

// sense must be called with mu held
func (s *Shaft) sense() [3]bool {
	var beams [3]bool
	for i := range beams {
		d := s.position - i*s.cfg.FloorSteps
		if d < 0 {
			d = -d
		}
		switch {
		case d <= s.cfg.BeamWidth:
			beams[i] = true
		case d < s.cfg.FloorSteps-s.cfg.BeamWidth:
			// in transit next to this floor
			beams[i] = true
		}
	}

	for i, o := range s.overrides {
		if o != nil {
			beams[i] = *o
		}
	}
	return beams
}
