package search

import (
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// EventKind tells what happened at a search position.
type EventKind int

const (
	// EventAttempt means a candidate matched an obligation and is being
	// expanded.
	EventAttempt EventKind = iota
	// EventReject means a candidate or an obligation failed.
	EventReject
	// EventClose means an obligation was closed by a candidate.
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventAttempt:
		return "attempt"
	case EventReject:
		return "reject"
	case EventClose:
		return "close"
	default:
		return "unknown"
	}
}

// Event is one step of a search.
type Event struct {
	Kind      EventKind
	Depth     int
	Candidate string
	Pattern   term.Term
	Steps     int
	Err       error
}

// Tracer receives the events of a search in the order they happen.
// Tracing never changes the outcome of a search.
type Tracer interface {
	Trace(ev Event)
}

// TracerFunc adapts a function to a Tracer.
type TracerFunc func(ev Event)

func (f TracerFunc) Trace(ev Event) { f(ev) }

// Recorder is a Tracer that keeps every event.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Trace(ev Event) {
	r.Events = append(r.Events, ev)
}

// Candidates returns the candidates of the recorded events of one kind.
func (r *Recorder) Candidates(kind EventKind) []string {
	var out []string
	for _, ev := range r.Events {
		if ev.Kind == kind {
			out = append(out, ev.Candidate)
		}
	}
	return out
}

type nopTracer struct{}

func (nopTracer) Trace(Event) {}
