// Package timing accumulates named start/stop pairs so a run can report
// how long each maintenance phase took. Time spent is accumulated by group,
// so a group may be started and stopped repeatedly.
package timing

import (
	"fmt"
	"strings"
	"time"
)

type Tracker struct {
	open  map[string]time.Time
	total map[string]time.Duration
	order []string
	now   func() time.Time
}

func New() *Tracker {
	return &Tracker{
		open:  make(map[string]time.Time),
		total: make(map[string]time.Duration),
		now:   time.Now,
	}
}

// Start opens a timing window for group. Calling Start twice without an
// intervening Stop restarts the window.
func (t *Tracker) Start(group string) {
	if _, seen := t.total[group]; !seen {
		if _, opened := t.open[group]; !opened {
			t.order = append(t.order, group)
		}
	}
	t.open[group] = t.now()
}

// Stop closes the current window for group and adds it to the group total.
// A Stop without a matching Start is ignored.
func (t *Tracker) Stop(group string) {
	started, ok := t.open[group]
	if !ok {
		return
	}
	delete(t.open, group)
	t.total[group] += t.now().Sub(started)
}

// Durations returns the accumulated time per group. Open windows are not
// counted.
func (t *Tracker) Durations() map[string]time.Duration {
	out := make(map[string]time.Duration, len(t.total))
	for group, d := range t.total {
		out[group] = d
	}
	return out
}

// Report renders the accumulated durations, one group per line, in the
// order the groups were first started. Groups never stopped are left out.
func (t *Tracker) Report() string {
	var b strings.Builder
	for _, group := range t.order {
		d, ok := t.total[group]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "group: %s = %.1f seconds\n", group, d.Seconds())
	}
	return strings.TrimRight(b.String(), "\n")
}
