package dispatch

import (
	"strconv"
	"strings"

	"github.com/calvinmclean/autolift"
)

// Queues holds the pending requests. Index 0 is unused so floors index directly
type Queues struct {
	Car      [autolift.MaxFloor + 1]bool
	HallUp   [autolift.MaxFloor + 1]bool
	HallDown [autolift.MaxFloor + 1]bool
}

// set raises a flag and reports whether it was newly set
func set(flags *[autolift.MaxFloor + 1]bool, floor int) bool {
	if !autolift.ValidFloor(floor) || flags[floor] {
		return false
	}
	flags[floor] = true
	return true
}

// Pending reports whether any request exists at floor
func (q Queues) Pending(floor int) bool {
	if !autolift.ValidFloor(floor) {
		return false
	}
	return q.Car[floor] || q.HallUp[floor] || q.HallDown[floor]
}

// Any reports whether any request exists at all
func (q Queues) Any() bool {
	for f := autolift.MinFloor; f <= autolift.MaxFloor; f++ {
		if q.Pending(f) {
			return true
		}
	}
	return false
}

// ShouldStop applies the stop rule at floor for the current movement. Car calls always stop the
// car; hall calls only stop it when they agree with the direction, or either one when idle
func (q Queues) ShouldStop(floor int, dir autolift.Direction) bool {
	if !autolift.ValidFloor(floor) {
		return false
	}
	if q.Car[floor] {
		return true
	}

	switch dir {
	case autolift.DirectionUp:
		return q.HallUp[floor]
	case autolift.DirectionDown:
		return q.HallDown[floor]
	default:
		return q.HallUp[floor] || q.HallDown[floor]
	}
}

// Ahead reports whether any request lies strictly beyond floor in dir
func (q Queues) Ahead(floor int, dir autolift.Direction) bool {
	var ok bool
	switch dir {
	case autolift.DirectionUp:
		_, ok = q.scan(floor+1, +1)
	case autolift.DirectionDown:
		_, ok = q.scan(floor-1, -1)
	}
	return ok
}

// Consume clears every flag at floor together
func (q *Queues) Consume(floor int) {
	if !autolift.ValidFloor(floor) {
		return
	}
	q.Car[floor] = false
	q.HallUp[floor] = false
	q.HallDown[floor] = false
}

// Clear drops every request
func (q *Queues) Clear() {
	*q = Queues{}
}

// NextTarget picks the next floor to serve from floor using the direction-locked nearest request
// rule. While moving it prefers requests strictly ahead, then the nearest one behind. When idle it
// searches outward, checking the upper floor first at each distance
func (q Queues) NextTarget(floor int, dir autolift.Direction) (int, bool) {
	switch dir {
	case autolift.DirectionUp:
		if f, ok := q.scan(floor+1, +1); ok {
			return f, true
		}
		return q.scan(floor-1, -1)
	case autolift.DirectionDown:
		if f, ok := q.scan(floor-1, -1); ok {
			return f, true
		}
		return q.scan(floor+1, +1)
	}

	for dist := 0; dist < autolift.NumFloors; dist++ {
		if up := floor + dist; q.Pending(up) {
			return up, true
		}
		if down := floor - dist; q.Pending(down) {
			return down, true
		}
	}
	return 0, false
}

func (q Queues) scan(from, step int) (int, bool) {
	for f := from; f >= autolift.MinFloor && f <= autolift.MaxFloor; f += step {
		if q.Pending(f) {
			return f, true
		}
	}
	return 0, false
}

// String formats the active flags like [ C2 HU1 HD3 ]
func (q Queues) String() string {
	var sb strings.Builder
	sb.WriteString("[")

	write := func(prefix string, flags *[autolift.MaxFloor + 1]bool) {
		for f := autolift.MinFloor; f <= autolift.MaxFloor; f++ {
			if flags[f] {
				sb.WriteString(" " + prefix + strconv.Itoa(f))
			}
		}
	}
	write("C", &q.Car)
	write("HU", &q.HallUp)
	write("HD", &q.HallDown)

	sb.WriteString(" ]")
	return sb.String()
}
