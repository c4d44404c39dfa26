package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopSinkDiscards(t *testing.T) {
	var s NoopSink
	s.Report(1, 10, "build", "done")
}

func TestChannelSinkThrottles(t *testing.T) {
	s := NewChannelSink(16)
	for i := 0; i < 50; i++ {
		s.Report(uint32(i), 100, "scoring", "scored")
	}
	s.Report(100, 100, "scoring", "scored")
	s.Close()

	var events []Event
	s.Drain(func(e Event) { events = append(events, e) })

	// the tight loop above runs well under 100ms, so only the first report
	// and the terminal (current==total) report should survive throttling.
	assert.True(t, len(events) >= 1)
	assert.True(t, events[len(events)-1].Done())
}

func TestChannelSinkAllowsAfterInterval(t *testing.T) {
	s := NewChannelSink(16)
	s.Report(1, 10, "build", "")
	time.Sleep(120 * time.Millisecond)
	s.Report(2, 10, "build", "")
	s.Close()

	var count int
	s.Drain(func(e Event) { count++ })
	assert.Equal(t, 2, count)
}
