package autolift

import "strconv"

const (
	// MinFloor and MaxFloor bound every floor number used by the controller
	MinFloor = 1
	MaxFloor = 3
	// NumFloors is the fixed number of served floors
	NumFloors = MaxFloor - MinFloor + 1
)

// ValidFloor reports whether f is a served floor
func ValidFloor(f int) bool {
	return f >= MinFloor && f <= MaxFloor
}

// State is the state of the car's control state machine
type State int

const (
	StateIdle State = iota
	StateMovingUp
	StateMovingDown
	StateDoorOpening
	StateDoorWait
	StateDoorClosing
	StateEmergencyStop
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateMovingUp:
		return "MOVING_UP"
	case StateMovingDown:
		return "MOVING_DOWN"
	case StateDoorOpening:
		return "DOOR_OPENING"
	case StateDoorWait:
		return "DOOR_OPEN"
	case StateDoorClosing:
		return "DOOR_CLOSING"
	case StateEmergencyStop:
		return "EMG_STOP"
	default:
		return "?"
	}
}

// Moving is true for the two motion states
func (s State) Moving() bool {
	return s == StateMovingUp || s == StateMovingDown
}

// Direction is a travel direction. DirectionNone also means "idle" when used as a scan preference
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "UP"
	case DirectionDown:
		return "DOWN"
	default:
		return "NONE"
	}
}

// Direction returns the travel direction implied by the state
func (s State) Direction() Direction {
	switch s {
	case StateMovingUp:
		return DirectionUp
	case StateMovingDown:
		return DirectionDown
	default:
		return DirectionNone
	}
}

// Button is one of the fixed discrete input roles
type Button int

const (
	ButtonHallUp1 Button = iota
	ButtonHallUp2
	ButtonHallDown2
	ButtonHallDown3
	ButtonClose
	ButtonOpen
	ButtonCar1
	ButtonCar2
	ButtonCar3
	ButtonEmergency

	NumButtons = int(ButtonEmergency) + 1
)

func (b Button) String() string {
	switch b {
	case ButtonHallUp1:
		return "HALL_UP_1"
	case ButtonHallUp2:
		return "HALL_UP_2"
	case ButtonHallDown2:
		return "HALL_DOWN_2"
	case ButtonHallDown3:
		return "HALL_DOWN_3"
	case ButtonClose:
		return "CLOSE"
	case ButtonOpen:
		return "OPEN"
	case ButtonCar1:
		return "CAR_1"
	case ButtonCar2:
		return "CAR_2"
	case ButtonCar3:
		return "CAR_3"
	case ButtonEmergency:
		return "EMERGENCY"
	default:
		return "UNKNOWN"
	}
}

// Valid is false for indexes outside the fixed roles
func (b Button) Valid() bool {
	return b >= 0 && int(b) < NumButtons
}

// PhotoState is the floor/transit reading derived from the three beam sensors
type PhotoState int

const (
	PhotoUnknown PhotoState = iota
	PhotoFloor1
	PhotoFloor2
	PhotoFloor3
	PhotoMove12
	PhotoMove23
	PhotoError
)

func (p PhotoState) String() string {
	switch p {
	case PhotoFloor1, PhotoFloor2, PhotoFloor3:
		f, _ := p.Floor()
		return "FLOOR=" + strconv.Itoa(f)
	case PhotoMove12:
		return "MOVE 1~2"
	case PhotoMove23:
		return "MOVE 2~3"
	case PhotoUnknown:
		return "MOVING"
	case PhotoError:
		return "ERROR"
	default:
		return "?"
	}
}

// Simple collapses every transit value into MOVING. This is what residents see
func (p PhotoState) Simple() string {
	switch p {
	case PhotoFloor1, PhotoFloor2, PhotoFloor3, PhotoError:
		return p.String()
	default:
		return "MOVING"
	}
}

// Floor returns the floor for exact readings and false for transit, unknown and error
func (p PhotoState) Floor() (int, bool) {
	switch p {
	case PhotoFloor1:
		return 1, true
	case PhotoFloor2:
		return 2, true
	case PhotoFloor3:
		return 3, true
	default:
		return 0, false
	}
}

// DoorPosition is the coarse door position reported on the console
type DoorPosition int

const (
	DoorHold DoorPosition = iota
	DoorOpen
	DoorClosed
)

func (d DoorPosition) String() string {
	switch d {
	case DoorOpen:
		return "OPEN"
	case DoorClosed:
		return "CLOSE"
	default:
		return "HOLD"
	}
}

// Status is a read-only snapshot of the controller used by peripherals and the console
type Status struct {
	Raw   [3]bool
	Photo PhotoState
	Floor int
	State State
	Door  DoorPosition
	Queue string
}
