package sim

import (
	"fmt"

	"github.com/vovakirdan/handbeat/internal/chart"
)

// Kind is the type of a simulation event.
type Kind int

const (
	KindHit Kind = iota
	KindMiss
	KindSessionEnd
)

func (k Kind) String() string {
	switch k {
	case KindHit:
		return "hit"
	case KindMiss:
		return "miss"
	case KindSessionEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is emitted when a note resolves or the session ends.
type Event struct {
	Kind    Kind
	Note    chart.Note // zero for KindSessionEnd
	Quality Quality    // KindHit only
	Flaw    Flaw       // KindHit only
	Time    float64    // playback time of the tick that produced the event
	Victory bool       // KindSessionEnd only
}

func (e Event) String() string {
	switch e.Kind {
	case KindHit:
		return fmt.Sprintf("hit %s %v", e.Quality, e.Note)
	case KindMiss:
		return fmt.Sprintf("miss %v", e.Note)
	default:
		return fmt.Sprintf("end victory=%v", e.Victory)
	}
}

// Sink receives events in order. Returning false stops the current tick; notes not yet
// examined stay active and pending.
type Sink interface {
	Publish(e Event) bool
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(e Event) bool

// Publish calls f.
func (f SinkFunc) Publish(e Event) bool {
	return f(e)
}

// Queue collects events and never stops a tick.
type Queue struct {
	events []Event
}

// Publish appends e.
func (q *Queue) Publish(e Event) bool {
	q.events = append(q.events, e)
	return true
}

// Drain returns the queued events and empties the queue.
func (q *Queue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.events)
}
