package dispatch

import (
	"testing"

	"github.com/calvinmclean/autolift"
	"github.com/stretchr/testify/assert"
)

func TestQueuesSetIsIdempotent(t *testing.T) {
	var q Queues
	assert.True(t, set(&q.Car, 2))
	before := q
	assert.False(t, set(&q.Car, 2))
	assert.Equal(t, before, q)

	assert.False(t, set(&q.Car, 0))
	assert.False(t, set(&q.Car, 4))
}

func TestQueuesConsume(t *testing.T) {
	var q Queues
	for f := autolift.MinFloor; f <= autolift.MaxFloor; f++ {
		q.Car[f] = true
		q.HallUp[f] = true
		q.HallDown[f] = true
	}

	q.Consume(2)

	assert.False(t, q.Pending(2))
	assert.True(t, q.Car[1] && q.HallUp[1] && q.HallDown[1])
	assert.True(t, q.Car[3] && q.HallUp[3] && q.HallDown[3])
}

func TestQueuesShouldStop(t *testing.T) {
	tests := []struct {
		name     string
		q        Queues
		dir      autolift.Direction
		expected bool
	}{
		{"CarAlwaysStops", Queues{Car: [4]bool{2: true}}, autolift.DirectionUp, true},
		{"HallUpWhileUp", Queues{HallUp: [4]bool{2: true}}, autolift.DirectionUp, true},
		{"HallDownWhileUp", Queues{HallDown: [4]bool{2: true}}, autolift.DirectionUp, false},
		{"HallDownWhileDown", Queues{HallDown: [4]bool{2: true}}, autolift.DirectionDown, true},
		{"HallUpWhileDown", Queues{HallUp: [4]bool{2: true}}, autolift.DirectionDown, false},
		{"IdleEitherHall", Queues{HallDown: [4]bool{2: true}}, autolift.DirectionNone, true},
		{"Nothing", Queues{HallDown: [4]bool{3: true}}, autolift.DirectionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.q.ShouldStop(2, tt.dir))
		})
	}
}

func TestQueuesNextTarget(t *testing.T) {
	tests := []struct {
		name     string
		q        Queues
		floor    int
		dir      autolift.Direction
		expected int
		ok       bool
	}{
		{"Empty", Queues{}, 2, autolift.DirectionNone, 0, false},
		{"UpNearestAhead", Queues{Car: [4]bool{1: true, 3: true}, HallDown: [4]bool{2: true}}, 1, autolift.DirectionUp, 2, true},
		{"UpFallsBackBehind", Queues{Car: [4]bool{1: true}}, 3, autolift.DirectionUp, 1, true},
		{"UpIgnoresCurrent", Queues{Car: [4]bool{2: true}}, 2, autolift.DirectionUp, 0, false},
		{"DownNearestAhead", Queues{Car: [4]bool{1: true, 2: true}}, 3, autolift.DirectionDown, 2, true},
		{"DownFallsBackAbove", Queues{HallUp: [4]bool{2: true}}, 1, autolift.DirectionDown, 2, true},
		{"IdleCurrentFirst", Queues{Car: [4]bool{1: true, 2: true, 3: true}}, 2, autolift.DirectionNone, 2, true},
		{"IdleUpperFirstAtEqualDistance", Queues{Car: [4]bool{1: true, 3: true}}, 2, autolift.DirectionNone, 3, true},
		{"IdleNearest", Queues{HallUp: [4]bool{1: true}, HallDown: [4]bool{3: true}}, 1, autolift.DirectionNone, 1, true},
		{"IdleFar", Queues{HallDown: [4]bool{3: true}}, 1, autolift.DirectionNone, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := tt.q.NextTarget(tt.floor, tt.dir)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestQueuesString(t *testing.T) {
	var q Queues
	assert.Equal(t, "[ ]", q.String())

	q.Car[3] = true
	q.Car[2] = true
	q.HallUp[1] = true
	q.HallDown[2] = true
	assert.Equal(t, "[ C2 C3 HU1 HD2 ]", q.String())
	assert.True(t, q.Any())

	q.Clear()
	assert.False(t, q.Any())
}

func TestQueuesAhead(t *testing.T) {
	q := Queues{HallDown: [4]bool{3: true}, HallUp: [4]bool{1: true}}

	assert.True(t, q.Ahead(2, autolift.DirectionUp))
	assert.True(t, q.Ahead(2, autolift.DirectionDown))
	assert.False(t, q.Ahead(3, autolift.DirectionUp))
	assert.False(t, q.Ahead(1, autolift.DirectionDown))
	assert.False(t, q.Ahead(1, autolift.DirectionNone))
}
