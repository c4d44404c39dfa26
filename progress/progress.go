// Package progress reports build progress without going through a global.
//
// Unlike dlog, a build's progress listener is passed explicitly into
// builder.NewBuilder as a Sink value — spec.md's design notes call out the
// reference implementation's global mutable progress state as something a
// rewrite should not repeat.
package progress

import (
	"sync"
	"time"
)

// Event is a single progress update.
type Event struct {
	Status       string
	FinishStatus string
	Current      uint32
	Total        uint32
}

// Done reports whether the event represents the terminal update for its
// status key.
func (e Event) Done() bool {
	return e.Current == e.Total
}

// Sink receives progress updates during a build.
type Sink interface {
	Report(current, total uint32, status, finishStatus string)
}

// NoopSink discards every update.
type NoopSink struct{}

func (NoopSink) Report(current, total uint32, status, finishStatus string) {}

// ChannelSink is a single-producer/single-consumer sink: Report is called
// from the build goroutine, Drain is called from a consumer goroutine (or
// the same one, after Build returns) to read buffered events.
//
// Updates for a given status key are throttled to once per 100ms, except
// the terminal update (current == total), which is never throttled. Any
// update, the terminal one included, is dropped when the buffer is full.
type ChannelSink struct {
	events chan Event
	mu     sync.Mutex
	last   map[string]time.Time
}

// NewChannelSink creates a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{
		events: make(chan Event, buffer),
		last:   make(map[string]time.Time),
	}
}

const throttleInterval = 100 * time.Millisecond

func (s *ChannelSink) Report(current, total uint32, status, finishStatus string) {
	done := current == total

	s.mu.Lock()
	now := time.Now()
	last, seen := s.last[status]
	if !done && seen && now.Sub(last) < throttleInterval {
		s.mu.Unlock()
		return
	}
	s.last[status] = now
	s.mu.Unlock()

	select {
	case s.events <- Event{Status: status, FinishStatus: finishStatus, Current: current, Total: total}:
	default:
		// consumer isn't keeping up; drop rather than block the build.
	}
}

// Close signals that no further events will be produced. Callers must call
// this once the build finishes so Drain's range loop terminates.
func (s *ChannelSink) Close() {
	close(s.events)
}

// Drain invokes cb for every buffered event until the sink is closed.
func (s *ChannelSink) Drain(cb func(Event)) {
	for e := range s.events {
		cb(e)
	}
}
