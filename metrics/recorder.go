package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/calvinmclean/autolift"
	"github.com/calvinmclean/autolift/dispatch"
)

// Recorder updates the metrics from dispatch events and pushed console lines
type Recorder struct {
	startTime time.Time
	moveStart time.Time
}

var _ dispatch.Listener = &Recorder{}

func NewRecorder(now time.Time) *Recorder {
	setState(autolift.StateIdle)
	return &Recorder{startTime: now}
}

// OnEvent implements dispatch.Listener. It runs on the control loop so it only touches metrics
func (r *Recorder) OnEvent(e dispatch.Event) {
	switch e.Kind {
	case dispatch.EventTransition:
		TransitionsTotal.WithLabelValues(e.To.String()).Inc()
		setState(e.To)
		if e.To.Moving() && !e.From.Moving() {
			r.moveStart = e.Time
		}
	case dispatch.EventRequest:
		RequestsTotal.WithLabelValues(e.Request.String(), strconv.Itoa(e.Floor)).Inc()
	case dispatch.EventArrive:
		ArrivalsTotal.WithLabelValues(strconv.Itoa(e.Floor)).Inc()
		if !r.moveStart.IsZero() {
			TravelDuration.Observe(e.Time.Sub(r.moveStart).Seconds())
			r.moveStart = time.Time{}
		}
	case dispatch.EventMoveTimeout:
		MoveTimeouts.Inc()
		r.moveStart = time.Time{}
	case dispatch.EventEmergency:
		EmergencyStops.Inc()
		r.moveStart = time.Time{}
	}

	if autolift.ValidFloor(e.Floor) {
		Floor.Set(float64(e.Floor))
	}
}

// ObserveLine records a floor reading pushed by a remote controller
func (r *Recorder) ObserveLine(line string) {
	line = strings.TrimSpace(line)
	switch {
	case line == "MOVING", line == "ERROR":
	case strings.HasPrefix(line, "FLOOR="):
		f, err := strconv.Atoi(strings.TrimPrefix(line, "FLOOR="))
		if err != nil || !autolift.ValidFloor(f) {
			return
		}
		Floor.Set(float64(f))
	default:
		return
	}
	PhotoReadings.WithLabelValues(line).Inc()
}

// Collect updates the periodic metrics
func (r *Recorder) Collect(now time.Time) {
	Uptime.Set(now.Sub(r.startTime).Seconds())
}

func setState(s autolift.State) {
	for st := autolift.StateIdle; st <= autolift.StateEmergencyStop; st++ {
		v := 0.0
		if st == s {
			v = 1
		}
		State.WithLabelValues(st.String()).Set(v)
	}
}
