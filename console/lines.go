package console

import "errors"

// MaxLineLength is the longest accepted command line, without the terminator
const MaxLineLength = 63

// ErrLineTooLong is reported once for a line that exceeded MaxLineLength. The rest of that line is
// discarded up to the next terminator
var ErrLineTooLong = errors.New("LINE TOO LONG")

// lineBuffer assembles CR or LF terminated lines
type lineBuffer struct {
	buf        [MaxLineLength]byte
	n          int
	discarding bool
	// reported is set when the discarded line was already answered
	reported bool
}

// feed adds one byte. It returns a complete line with ok set, or ErrLineTooLong at the end of a
// discarded line. Empty lines are ignored
func (l *lineBuffer) feed(b byte) (string, bool, error) {
	if b == '\r' || b == '\n' {
		if l.discarding {
			l.discarding = false
			if l.reported {
				l.reported = false
				return "", false, nil
			}
			return "", false, ErrLineTooLong
		}
		if l.n == 0 {
			return "", false, nil
		}
		line := string(l.buf[:l.n])
		l.n = 0
		return line, true, nil
	}

	if l.discarding {
		return "", false, nil
	}
	if l.n == len(l.buf) {
		l.discard()
		return "", false, nil
	}
	l.buf[l.n] = b
	l.n++
	return "", false, nil
}

// discard drops the partial line and everything up to the next terminator
func (l *lineBuffer) discard() {
	l.n = 0
	l.discarding = true
}

// drop discards like discard but the caller has already reported the line
func (l *lineBuffer) drop() {
	l.discard()
	l.reported = true
}
