// Package display builds the patterns for the four-digit door/floor display and animates the
// direction LED bar.
package display

// Segment bit positions as wired on the 74HC595 driving the digits
const (
	SegB  byte = 1 << 0
	SegD  byte = 1 << 1
	SegE  byte = 1 << 2
	SegG  byte = 1 << 3
	SegC  byte = 1 << 4
	SegF  byte = 1 << 5
	SegA  byte = 1 << 6
	SegDP byte = 1 << 7
)

const (
	PatternBlank  byte = 0x00
	PatternF           = SegA | SegE | SegF | SegG
	PatternClose1      = SegA | SegB | SegC | SegD
	PatternClose2      = SegA | SegF | SegE | SegD
	PatternOpen1       = SegF | SegE
	PatternOpen2       = SegB | SegC
)

var digitPatterns = [10]byte{
	SegA | SegB | SegC | SegD | SegE | SegF,
	SegB | SegC,
	SegA | SegB | SegD | SegE | SegG,
	SegA | SegB | SegC | SegD | SegG,
	SegB | SegC | SegF | SegG,
	SegA | SegC | SegD | SegF | SegG,
	SegA | SegC | SegD | SegE | SegF | SegG,
	SegA | SegB | SegC,
	SegA | SegB | SegC | SegD | SegE | SegF | SegG,
	SegA | SegB | SegC | SegD | SegF | SegG,
}

// Digit returns the pattern for 0-9 and blank for anything else
func Digit(n int) byte {
	if n < 0 || n >= len(digitPatterns) {
		return PatternBlank
	}
	return digitPatterns[n]
}

// Frame is the content of the four digits, left to right
type Frame [4]byte

// NewFrame shows the door as a pair of glyphs, then the floor digit and an F
func NewFrame(floor int, doorOpen bool) Frame {
	f := Frame{PatternClose1, PatternClose2, Digit(floor), PatternF}
	if doorOpen {
		f[0] = PatternOpen1
		f[1] = PatternOpen2
	}
	return f
}

// Digits drives one multiplexed digit at a time
type Digits interface {
	// ShowDigit lights digit pos with pattern and turns the other digits off
	ShowDigit(pos int, pattern byte)
}

// Scanner refreshes a multiplexed display one digit per call, so the loop never blocks on a full scan
type Scanner struct {
	out   Digits
	frame Frame
	next  int
}

func NewScanner(out Digits) *Scanner {
	return &Scanner{out: out}
}

// Set replaces the frame shown on the next scans
func (s *Scanner) Set(f Frame) {
	s.frame = f
}

// Frame returns the frame being shown
func (s *Scanner) Frame() Frame {
	return s.frame
}

// Scan lights the next digit
func (s *Scanner) Scan() {
	s.out.ShowDigit(s.next, s.frame[s.next])
	s.next = (s.next + 1) % len(s.frame)
}
