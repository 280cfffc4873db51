package dispatch

import (
	"time"

	"github.com/calvinmclean/autolift"
)

type EventKind int

const (
	EventTransition EventKind = iota
	EventRequest
	EventArrive
	EventMoveTimeout
	EventEmergency
	EventResume
)

func (k EventKind) String() string {
	switch k {
	case EventTransition:
		return "transition"
	case EventRequest:
		return "request"
	case EventArrive:
		return "arrive"
	case EventMoveTimeout:
		return "move_timeout"
	case EventEmergency:
		return "emergency"
	case EventResume:
		return "resume"
	default:
		return "unknown"
	}
}

// RequestKind tells which queue a request went into
type RequestKind int

const (
	RequestCar RequestKind = iota
	RequestHallUp
	RequestHallDown
)

func (k RequestKind) String() string {
	switch k {
	case RequestCar:
		return "C"
	case RequestHallUp:
		return "HU"
	case RequestHallDown:
		return "HD"
	default:
		return "?"
	}
}

// Event describes something the Core did. From and To are only set for transitions, Request only for
// requests
type Event struct {
	Kind    EventKind
	Time    time.Time
	From    autolift.State
	To      autolift.State
	Floor   int
	Request RequestKind
}

// Listener receives Events synchronously from the control loop, so it must not block
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }
