package console

import (
	"errors"
	"sync/atomic"
)

// ErrOverflow is returned by Put when the consumer has fallen behind and the byte was dropped
var ErrOverflow = errors.New("receive buffer overflow")

// Ring is a bounded single-producer, single-consumer byte queue. Put is called from the receive
// interrupt or reader goroutine and Get from the control loop
type Ring struct {
	buf  []byte
	mask uint32

	head atomic.Uint32
	tail atomic.Uint32

	overflow atomic.Bool
}

// NewRing creates a Ring holding at least size bytes, rounded up to a power of two
func NewRing(size int) *Ring {
	n := 1
	for n < size {
		n <<= 1
	}
	return &Ring{buf: make([]byte, n), mask: uint32(n - 1)}
}

// Put appends b. When the ring is full b is dropped, the overflow flag is raised and ErrOverflow is
// returned
func (r *Ring) Put(b byte) error {
	head := r.head.Load()
	if head-r.tail.Load() == uint32(len(r.buf)) {
		r.overflow.Store(true)
		return ErrOverflow
	}
	r.buf[head&r.mask] = b
	r.head.Store(head + 1)
	return nil
}

// Get removes the oldest byte
func (r *Ring) Get() (byte, bool) {
	tail := r.tail.Load()
	if tail == r.head.Load() {
		return 0, false
	}
	b := r.buf[tail&r.mask]
	r.tail.Store(tail + 1)
	return b, true
}

// Len is the number of buffered bytes
func (r *Ring) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// TakeOverflow reports whether bytes were dropped since the last call and clears the flag
func (r *Ring) TakeOverflow() bool {
	return r.overflow.Swap(false)
}

// Write puts every byte of p, so a Ring can be the target of io.Copy. It stops at the first overflow
func (r *Ring) Write(p []byte) (int, error) {
	for i, b := range p {
		err := r.Put(b)
		if err != nil {
			return i, err
		}
	}
	return len(p), nil
}
