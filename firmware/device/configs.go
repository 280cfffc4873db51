//go:build tinygo

package device

import (
	"machine"

	"tinygo.org/x/drivers/servo"

	"github.com/calvinmclean/autolift"
)

// StepperConfig has the four coil driver pins, in sequence order
type StepperConfig struct {
	Pins [4]machine.Pin
}

// ServoConfig has device-level values for setting up the door Servo
type ServoConfig struct {
	Pin machine.Pin
	PWM servo.PWM
}

// ShiftRegisterConfig has the pins of a 74HC595 chain
type ShiftRegisterConfig struct {
	Latch machine.Pin
	Clock machine.Pin
	Data  machine.Pin
}

// BeamConfig has the beam sensor pins from floor 1 up
type BeamConfig struct {
	Pins [3]machine.Pin
	// BrokenHigh is for receivers that drive the line high while the beam is broken
	BrokenHigh bool
}

// Config is the complete board wiring
type Config struct {
	Buttons [autolift.NumButtons]machine.Pin
	Beams   BeamConfig
	Stepper StepperConfig
	Servo   ServoConfig
	// Outputs drives the LED bar and the display segments
	Outputs ShiftRegisterConfig
	// Digits select the display digits, active low, left to right
	Digits [4]machine.Pin
}
