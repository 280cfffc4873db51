//go:build tinygo

package main

import (
	"machine"
	"time"

	"github.com/rs/zerolog"

	"github.com/calvinmclean/autolift"
	"github.com/calvinmclean/autolift/firmware/device"
	"github.com/calvinmclean/autolift/scheduler"
)

func main() {
	var buttons [autolift.NumButtons]machine.Pin
	buttons[autolift.ButtonHallUp1] = machine.GP2
	buttons[autolift.ButtonHallUp2] = machine.GP3
	buttons[autolift.ButtonHallDown2] = machine.GP4
	buttons[autolift.ButtonHallDown3] = machine.GP5
	buttons[autolift.ButtonClose] = machine.GP6
	buttons[autolift.ButtonOpen] = machine.GP7
	buttons[autolift.ButtonCar1] = machine.GP8
	buttons[autolift.ButtonCar2] = machine.GP9
	buttons[autolift.ButtonCar3] = machine.GP10
	buttons[autolift.ButtonEmergency] = machine.GP11

	d, err := device.New(device.Config{
		Buttons: buttons,
		Beams: device.BeamConfig{
			Pins: [3]machine.Pin{machine.GP12, machine.GP13, machine.GP14},
		},
		Stepper: device.StepperConfig{
			Pins: [4]machine.Pin{machine.GP16, machine.GP17, machine.GP18, machine.GP19},
		},
		Servo: device.ServoConfig{
			PWM: machine.PWM3,
			Pin: machine.GP22,
		},
		Outputs: device.ShiftRegisterConfig{
			Latch: machine.GP20,
			Clock: machine.GP21,
			Data:  machine.GP15,
		},
		Digits: [4]machine.Pin{machine.GP26, machine.GP27, machine.GP28, machine.GP0},
	})
	if err != nil {
		panic(err)
	}

	cfg := scheduler.DefaultConfig()
	cfg.HalfStep = true
	cfg.StepPeriod = 3000 * time.Microsecond
	cfg.DoorClosedPosition = 20
	cfg.DoorOpenPosition = 160

	s, err := scheduler.New(d.Hardware, cfg, zerolog.Nop(), time.Now())
	if err != nil {
		panic(err)
	}

	err = d.Beams.OnEdge(s.Notify)
	if err != nil {
		panic(err)
	}

	s.Start()

	for {
		now := time.Now()

		device.PumpSerial(s.Rx())
		s.Tick(now)

		time.Sleep(cfg.TickInterval - time.Since(now))
	}
}
