package scheduler

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinmclean/autolift"
	"github.com/calvinmclean/autolift/dispatch"
	"github.com/calvinmclean/autolift/display"
	"github.com/calvinmclean/autolift/sim"
)

type rig struct {
	t      *testing.T
	now    time.Time
	board  *sim.Board
	sched  *Scheduler
	out    *bytes.Buffer
	events []dispatch.Event
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PhotoBootGuard = -1
	cfg.StepPeriod = time.Millisecond
	cfg.DoorStepPeriod = time.Millisecond
	cfg.DoorClosedPosition = 40
	cfg.DoorOpenPosition = 60
	cfg.DoorWait = 100 * time.Millisecond
	cfg.MoveTimeout = 2 * time.Second
	cfg.IndicatorPeriod = 10 * time.Millisecond
	return cfg
}

func newRig(t *testing.T, cfg Config) *rig {
	t.Helper()

	r := &rig{
		t:   t,
		now: time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC),
		out: &bytes.Buffer{},
	}
	r.board = sim.NewBoard(sim.ShaftConfig{FloorSteps: 200, BeamWidth: 50}, cfg.StepMode(), r.Now)

	s, err := New(Hardware{
		Buttons: r.board.Panel.Readers(),
		Beams:   r.board.Shaft,
		Coils:   r.board.Shaft,
		Servo:   r.board.Servo,
		Bar:     r.board.Outputs,
		Digits:  r.board.Outputs,
		Console: r.out,
	}, cfg, zerolog.Nop(), r.now)
	require.NoError(t, err)

	r.board.Shaft.OnEdge(s.Notify)
	s.Subscribe(dispatch.ListenerFunc(func(e dispatch.Event) {
		r.events = append(r.events, e)
	}))
	s.Start()

	r.sched = s
	return r
}

func (r *rig) Now() time.Time {
	return r.now
}

func (r *rig) tick() {
	r.now = r.now.Add(time.Millisecond)
	r.sched.Tick(r.now)
}

func (r *rig) run(d time.Duration) {
	for range int(d / time.Millisecond) {
		r.tick()
	}
}

// runUntil ticks until cond is true, for at most limit
func (r *rig) runUntil(limit time.Duration, cond func() bool) bool {
	for range int(limit / time.Millisecond) {
		r.tick()
		if cond() {
			return true
		}
	}
	return false
}

func (r *rig) send(line string) {
	_, err := io.WriteString(r.sched.Rx(), line)
	require.NoError(r.t, err)
}

func (r *rig) state() autolift.State {
	return r.sched.Status().State
}

func (r *rig) inState(s autolift.State) func() bool {
	return func() bool { return r.state() == s }
}

func (r *rig) hasEvent(kind dispatch.EventKind) bool {
	for _, e := range r.events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func TestNewMissingHardware(t *testing.T) {
	_, err := New(Hardware{}, DefaultConfig(), zerolog.Nop(), time.Now())
	require.Error(t, err)
}

func TestStartAndStatus(t *testing.T) {
	r := newRig(t, testConfig())
	assert.Equal(t, "CMD READY\r\nFLOOR=1\r\n", r.out.String())
	r.out.Reset()

	r.send("status\r\n")
	r.tick()

	assert.Equal(t, "RAW=100 FLOOR=1\r\nFLOOR=1\r\nSTATE=IDLE\r\nDOOR=CLOSE\r\nQUEUE=[ ]\r\n", r.out.String())
}

func TestConsoleCallToTopFloor(t *testing.T) {
	r := newRig(t, testConfig())

	r.send("CALL 3\r\n")
	r.tick()
	assert.Contains(t, r.out.String(), "OK: CALL 3\r\n")

	require.True(t, r.runUntil(50*time.Millisecond, r.inState(autolift.StateMovingUp)))
	require.True(t, r.runUntil(100*time.Millisecond, func() bool { return r.board.Outputs.Bar() != 0 }))
	assert.Equal(t, autolift.StateMovingUp, r.state())

	require.True(t, r.runUntil(3*time.Second, r.inState(autolift.StateDoorWait)))

	status := r.sched.Status()
	assert.Equal(t, 3, status.Floor)
	assert.Equal(t, autolift.PhotoFloor3, status.Photo)
	assert.Equal(t, autolift.DoorOpen, status.Door)
	assert.Equal(t, "[ ]", status.Queue)
	assert.True(t, r.hasEvent(dispatch.EventArrive))

	assert.Equal(t, byte(0), r.board.Outputs.Bar())
	r.run(4 * time.Millisecond)
	assert.Equal(t, display.NewFrame(3, true), r.board.Outputs.Digits())

	out := r.out.String()
	assert.Contains(t, out, "MOVING\r\n")
	assert.Contains(t, out, "FLOOR=3\r\n")

	// the door closes again after the wait
	require.True(t, r.runUntil(time.Second, r.inState(autolift.StateIdle)))
	assert.Equal(t, autolift.DoorClosed, r.sched.Status().Door)
}

func TestCarButtonOneFloor(t *testing.T) {
	r := newRig(t, testConfig())

	r.board.Panel.Press(autolift.ButtonCar2)
	r.run(20 * time.Millisecond)
	assert.Equal(t, autolift.StateIdle, r.state(), "press is not accepted before the debounce time")

	require.True(t, r.runUntil(100*time.Millisecond, r.inState(autolift.StateMovingUp)))
	r.board.Panel.Release(autolift.ButtonCar2)

	require.True(t, r.runUntil(3*time.Second, r.inState(autolift.StateDoorOpening)))
	assert.Equal(t, 2, r.sched.Status().Floor)
	assert.Equal(t, autolift.PhotoFloor2, r.sched.Status().Photo)
	assert.False(t, r.sched.Queues().Any())
}

func TestHallCallFromBelow(t *testing.T) {
	r := newRig(t, testConfig())
	require.NoError(t, r.sched.RequestCar(3))
	require.True(t, r.runUntil(3*time.Second, r.inState(autolift.StateDoorWait)))

	require.NoError(t, r.sched.RequestHallUp(1))
	require.True(t, r.runUntil(time.Second, r.inState(autolift.StateMovingDown)))
	require.True(t, r.runUntil(3*time.Second, r.inState(autolift.StateDoorOpening)))
	assert.Equal(t, 1, r.sched.Status().Floor)
	assert.False(t, r.sched.Queues().Any())
}

func TestOppositeHallCallsAreBothServed(t *testing.T) {
	r := newRig(t, testConfig())
	require.NoError(t, r.sched.RequestHallDown(3))
	require.True(t, r.runUntil(100*time.Millisecond, r.inState(autolift.StateMovingUp)))
	require.NoError(t, r.sched.RequestHallUp(1))

	require.True(t, r.runUntil(3*time.Second, r.inState(autolift.StateDoorOpening)))
	assert.Equal(t, 3, r.sched.Status().Floor)

	require.True(t, r.runUntil(time.Second, r.inState(autolift.StateMovingDown)))
	require.True(t, r.runUntil(3*time.Second, r.inState(autolift.StateDoorOpening)))
	assert.Equal(t, 1, r.sched.Status().Floor)
	assert.False(t, r.sched.Queues().Any())
}

func TestEmergencyAndResume(t *testing.T) {
	r := newRig(t, testConfig())

	r.send("CALL 3\r\n")
	require.True(t, r.runUntil(50*time.Millisecond, r.inState(autolift.StateMovingUp)))
	r.run(10 * time.Millisecond)

	r.board.Panel.Press(autolift.ButtonEmergency)
	require.True(t, r.runUntil(100*time.Millisecond, r.inState(autolift.StateEmergencyStop)))

	stoppedAt := r.board.Shaft.Position()
	r.run(100 * time.Millisecond)
	assert.Equal(t, stoppedAt, r.board.Shaft.Position())
	r.board.Panel.Release(autolift.ButtonEmergency)

	r.out.Reset()
	r.send("STATUS\r\n")
	r.tick()
	assert.Contains(t, r.out.String(), "STATE=EMG_STOP\r\n")
	assert.Contains(t, r.out.String(), "QUEUE=[ C3 ]\r\n")

	r.out.Reset()
	r.send("resume\r\n")
	r.tick()
	assert.Equal(t, "RESUME OK\r\n", r.out.String())
	assert.True(t, r.hasEvent(dispatch.EventResume))

	require.True(t, r.runUntil(3*time.Second, r.inState(autolift.StateDoorWait)))
	assert.Equal(t, 3, r.sched.Status().Floor)
}

func TestResumeWhenRunning(t *testing.T) {
	r := newRig(t, testConfig())
	r.out.Reset()

	r.send("RESUME\r\n")
	r.tick()

	assert.Equal(t, "RESUME OK\r\n", r.out.String())
	assert.Equal(t, autolift.StateIdle, r.state())
	assert.False(t, r.hasEvent(dispatch.EventResume))
}

func TestMoveTimeoutWithDeadSensors(t *testing.T) {
	cfg := testConfig()
	cfg.MoveTimeout = 150 * time.Millisecond
	r := newRig(t, cfg)

	for i := range 3 {
		r.board.Shaft.Override(i, false)
	}

	r.send("CALL 2\r\n")
	require.True(t, r.runUntil(500*time.Millisecond, func() bool { return r.hasEvent(dispatch.EventMoveTimeout) }))

	r.out.Reset()
	r.send("STATUS\r\n")
	r.tick()
	assert.Contains(t, r.out.String(), "RAW=000 MOVING\r\n")
}

func TestSensorErrorIsPushed(t *testing.T) {
	r := newRig(t, testConfig())
	r.out.Reset()

	r.board.Shaft.Override(2, true)
	require.True(t, r.runUntil(100*time.Millisecond, func() bool {
		return r.sched.Status().Photo == autolift.PhotoError
	}))
	assert.Equal(t, "ERROR\r\n", r.out.String())

	r.board.Shaft.ClearOverrides()
	r.run(100 * time.Millisecond)
	assert.Equal(t, "ERROR\r\nFLOOR=1\r\n", r.out.String())
}
