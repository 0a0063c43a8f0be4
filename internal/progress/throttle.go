// Package progress rate-limits the per-file notifications emitted by scans and copies.
package progress

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval forwards at most about 30 notifications per second.
const DefaultInterval = time.Second / 30

// Event is a forwarded notification: the latest path and how many paths were seen so far.
type Event struct {
	Path  string
	Count int
}

// Throttle counts every visited path and forwards the first one, then at most one per
// interval. It is meant to be used from a single goroutine.
type Throttle struct {
	sometimes *rate.Sometimes
	forward   func(Event)
	count     int
}

// NewThrottle returns a Throttle forwarding to fn. A non-positive interval forwards
// every event.
func NewThrottle(interval time.Duration, fn func(Event)) *Throttle {
	s := &rate.Sometimes{Interval: interval}
	if interval <= 0 {
		s = &rate.Sometimes{Every: 1}
	}
	return &Throttle{sometimes: s, forward: fn}
}

// Visit has the shape of fstree.VisitFunc.
func (t *Throttle) Visit(path string) {
	t.count++
	ev := Event{Path: path, Count: t.count}
	t.sometimes.Do(func() {
		t.forward(ev)
	})
}

// Count returns the number of paths visited so far.
func (t *Throttle) Count() int {
	return t.count
}
