package display

import (
	"testing"
	"time"

	"github.com/calvinmclean/autolift"
	"github.com/stretchr/testify/assert"
)

func TestNewFrame(t *testing.T) {
	tests := []struct {
		name     string
		floor    int
		doorOpen bool
		expected Frame
	}{
		{"ClosedFloor1", 1, false, Frame{PatternClose1, PatternClose2, SegB | SegC, PatternF}},
		{"OpenFloor3", 3, true, Frame{PatternOpen1, PatternOpen2, SegA | SegB | SegC | SegD | SegG, PatternF}},
		{"UnknownFloor", 0, false, Frame{PatternClose1, PatternClose2, digitPatterns[0], PatternF}},
		{"OutOfRange", 12, false, Frame{PatternClose1, PatternClose2, PatternBlank, PatternF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewFrame(tt.floor, tt.doorOpen))
		})
	}
}

type recordDigits struct {
	shown [][2]int
}

func (r *recordDigits) ShowDigit(pos int, pattern byte) {
	r.shown = append(r.shown, [2]int{pos, int(pattern)})
}

func TestScanner(t *testing.T) {
	out := &recordDigits{}
	s := NewScanner(out)
	s.Set(NewFrame(2, false))

	for range 5 {
		s.Scan()
	}

	assert.Equal(t, [][2]int{
		{0, int(PatternClose1)},
		{1, int(PatternClose2)},
		{2, int(Digit(2))},
		{3, int(PatternF)},
		{0, int(PatternClose1)},
	}, out.shown)
}

type recordBar struct {
	writes []byte
}

func (r *recordBar) WriteBar(b byte) {
	r.writes = append(r.writes, b)
}

func (r *recordBar) last() byte {
	return r.writes[len(r.writes)-1]
}

func TestIndicatorUp(t *testing.T) {
	bar := &recordBar{}
	ind := NewIndicator(bar, 0)
	start := time.Unix(0, 0)

	ind.Show(autolift.DirectionUp, start)
	assert.Equal(t, byte(0), bar.last())

	ind.Show(autolift.DirectionUp, start.Add(100*time.Millisecond))
	assert.Equal(t, byte(0), bar.last())

	expected := []byte{0x01, 0x03, 0x07, 0x0F, 0x1F, 0x3F, 0x7F, 0xFF}
	now := start
	for _, e := range expected {
		now = now.Add(DefaultIndicatorPeriod)
		ind.Show(autolift.DirectionUp, now)
		assert.Equal(t, e, bar.last())
	}

	// wraps after the bar is full
	now = now.Add(DefaultIndicatorPeriod)
	ind.Show(autolift.DirectionUp, now)
	assert.Equal(t, byte(0x01), bar.last())
}

func TestIndicatorDown(t *testing.T) {
	bar := &recordBar{}
	ind := NewIndicator(bar, 10*time.Millisecond)
	now := time.Unix(0, 0)

	ind.Show(autolift.DirectionDown, now)
	for _, e := range []byte{0x80, 0xC0, 0xE0} {
		now = now.Add(10 * time.Millisecond)
		ind.Show(autolift.DirectionDown, now)
		assert.Equal(t, e, bar.last())
	}
	assert.Equal(t, byte(0xE0), ind.Pattern())
}

func TestIndicatorOffAndDirectionChange(t *testing.T) {
	bar := &recordBar{}
	ind := NewIndicator(bar, 10*time.Millisecond)
	now := time.Unix(0, 0)

	ind.Show(autolift.DirectionUp, now)
	now = now.Add(10 * time.Millisecond)
	ind.Show(autolift.DirectionUp, now)
	assert.Equal(t, byte(0x01), bar.last())

	ind.Show(autolift.DirectionNone, now)
	assert.Equal(t, byte(0), bar.last())
	assert.Equal(t, byte(0), ind.Pattern())

	writes := len(bar.writes)
	ind.Show(autolift.DirectionNone, now)
	assert.Len(t, bar.writes, writes)

	// switching direction restarts from an empty bar
	ind.Show(autolift.DirectionUp, now)
	now = now.Add(10 * time.Millisecond)
	ind.Show(autolift.DirectionUp, now)
	ind.Show(autolift.DirectionDown, now)
	assert.Equal(t, byte(0), bar.last())
	now = now.Add(10 * time.Millisecond)
	ind.Show(autolift.DirectionDown, now)
	assert.Equal(t, byte(0x80), bar.last())
}
