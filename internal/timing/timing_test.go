package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances by a fixed amount on every reading.
type fakeClock struct {
	now  time.Time
	tick time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.tick)
	return c.now
}

func newTestTracker(tick time.Duration) *Tracker {
	t := New()
	clock := &fakeClock{now: time.Date(2026, 8, 25, 1, 0, 0, 0, time.UTC), tick: tick}
	t.now = clock.Now
	return t
}

func TestTrackerAccumulates(t *testing.T) {
	tr := newTestTracker(time.Second)

	tr.Start("main") // t=1
	tr.Stop("main")  // t=2, +1s
	tr.Start("main") // t=3
	tr.Stop("main")  // t=4, +1s

	assert.Equal(t, 2*time.Second, tr.Durations()["main"])
}

func TestTrackerOpenWindowNotCounted(t *testing.T) {
	tr := newTestTracker(time.Second)

	tr.Start("compress")
	_, seen := tr.Durations()["compress"]
	assert.False(t, seen)

	tr.Stop("compress")
	assert.Equal(t, time.Second, tr.Durations()["compress"])
}

func TestTrackerStopWithoutStartIgnored(t *testing.T) {
	tr := newTestTracker(time.Second)
	tr.Stop("never-started")
	assert.Empty(t, tr.Durations())
}

func TestTrackerRestartDiscardsOpenWindow(t *testing.T) {
	tr := newTestTracker(time.Second)

	tr.Start("main") // t=1
	tr.Start("main") // t=2, restarts the window
	tr.Stop("main")  // t=3, +1s

	assert.Equal(t, time.Second, tr.Durations()["main"])
}

func TestReportKeepsStartOrder(t *testing.T) {
	tr := newTestTracker(500 * time.Millisecond)

	tr.Start("initialize")
	tr.Stop("initialize")
	tr.Start("main")
	tr.Stop("main")
	tr.Start("compress")
	tr.Stop("compress")

	assert.Equal(t,
		"group: initialize = 0.5 seconds\ngroup: main = 0.5 seconds\ngroup: compress = 0.5 seconds",
		tr.Report(), "groups report in the order they were first started")
}

func TestReportOmitsOpenGroups(t *testing.T) {
	tr := newTestTracker(500 * time.Millisecond)

	tr.Start("initialize")
	tr.Stop("initialize")
	tr.Start("main") // never stopped

	assert.Equal(t, "group: initialize = 0.5 seconds", tr.Report())
}

func TestReportEmpty(t *testing.T) {
	assert.Equal(t, "", New().Report())
}
