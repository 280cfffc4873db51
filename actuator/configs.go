package actuator

import "time"

// StepperConfig ...
type StepperConfig struct {
	StepMode StepMode
	// StepPeriod is the time between two phase changes while running
	StepPeriod time.Duration
	// Reverse swaps which rotation is "up", for motors wired the other way round
	Reverse bool
}

// DoorConfig has the endpoint positions and speed of the door servo. Positions are in the units the
// PositionWriter expects
type DoorConfig struct {
	ClosedPosition int
	OpenPosition   int
	StepPeriod     time.Duration
}
