package main

import "time"

// refresher debounces source-mutation notifications so an edit storm
// triggers one rebuild instead of many. Every notification resets the
// deadline; only the last notification in a burst fires. There is no
// cancelable in-flight rebuild: a rebuild is assumed fast relative to
// the debounce window, so a pending request is simply replaced.
type refresher struct {
	delay    time.Duration
	deadline time.Time
	pending  bool
}

func newRefresher(delay time.Duration) *refresher {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &refresher{delay: delay}
}

// Notify records a mutation and pushes the rebuild deadline out.
func (r *refresher) Notify(now time.Time) {
	r.pending = true
	r.deadline = now.Add(r.delay)
}

// Due reports whether a debounced rebuild should run now, and consumes
// the pending request when it does.
func (r *refresher) Due(now time.Time) bool {
	if !r.pending || now.Before(r.deadline) {
		return false
	}
	r.pending = false
	return true
}

// Pending reports whether a notification is waiting out its delay.
func (r *refresher) Pending() bool {
	return r.pending
}
