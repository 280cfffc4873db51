package journal

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/calvinmclean/autolift/dispatch"
)

// ErrNoSession is returned when recording before a session was created
var ErrNoSession = errors.New("no session")

const (
	defaultQueueSize = 64
	requestTimeout   = 5 * time.Second
)

type entryKind int

const (
	entryEvent entryKind = iota
	entryStage
)

type entry struct {
	kind entryKind
	text string
	time time.Time
}

// Recorder forwards dispatch events to a Journal from its own goroutine so the control loop never
// waits on the network. Entries are dropped when the queue is full
type Recorder struct {
	journal Journal
	log     zerolog.Logger
	entries chan entry
}

var _ dispatch.Listener = &Recorder{}

func NewRecorder(j Journal, log zerolog.Logger) *Recorder {
	return &Recorder{
		journal: j,
		log:     log,
		entries: make(chan entry, defaultQueueSize),
	}
}

// OnEvent implements dispatch.Listener
func (r *Recorder) OnEvent(e dispatch.Event) {
	switch e.Kind {
	case dispatch.EventTransition:
		r.enqueue(entry{entryStage, e.To.String(), e.Time})
	case dispatch.EventRequest:
		r.enqueue(entry{entryEvent, "CALL " + e.Request.String() + strconv.Itoa(e.Floor), e.Time})
	case dispatch.EventArrive:
		r.enqueue(entry{entryEvent, "ARRIVE " + strconv.Itoa(e.Floor), e.Time})
	case dispatch.EventMoveTimeout:
		r.enqueue(entry{entryEvent, "MOVE TIMEOUT AT " + strconv.Itoa(e.Floor), e.Time})
	case dispatch.EventEmergency:
		r.enqueue(entry{entryEvent, "EMERGENCY STOP AT " + strconv.Itoa(e.Floor), e.Time})
	case dispatch.EventResume:
		r.enqueue(entry{entryEvent, "RESUME AT " + strconv.Itoa(e.Floor), e.Time})
	}
}

// Note records a free-form event, like a floor reading pushed by a remote controller
func (r *Recorder) Note(text string, now time.Time) {
	r.enqueue(entry{entryEvent, text, now})
}

func (r *Recorder) enqueue(e entry) {
	select {
	case r.entries <- e:
	default:
		r.log.Warn().Str("entry", e.text).Msg("journal queue full, dropping entry")
	}
}

// Run sends queued entries until ctx is done. Entries still queued then are flushed before
// returning
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.flush()
			return
		case e := <-r.entries:
			r.send(context.Background(), e)
		}
	}
}

func (r *Recorder) flush() {
	for {
		select {
		case e := <-r.entries:
			r.send(context.Background(), e)
		default:
			return
		}
	}
}

func (r *Recorder) send(ctx context.Context, e entry) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var err error
	switch e.kind {
	case entryStage:
		err = r.journal.AddStage(ctx, e.text, e.time)
	default:
		err = r.journal.AddEvent(ctx, e.text, e.time)
	}
	if err != nil {
		r.log.Error().Err(err).Str("entry", e.text).Msg("error recording journal entry")
	}
}
