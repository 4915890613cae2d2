package geocode

import (
	"sync"
	"time"
)

// Debouncer delays function calls by a fixed quiet period, keyed by an
// arbitrary string. A new call for a key cancels that key's pending call;
// calls for different keys never interfere. Used to coalesce per-keystroke
// address edits into a single geocode refresh per location; without it,
// every keystroke would cost one remote call.
//
// Note the delay applies to the invocation itself, not just its result: the
// function does not start running until the quiet period has passed with no
// newer call for the same key.
type Debouncer struct {
	quiet time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewDebouncer builds a Debouncer with the given quiet period.
func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{
		quiet:  quiet,
		timers: make(map[string]*time.Timer),
	}
}

// Call schedules fn to run after the quiet period, cancelling any previously
// scheduled call for the same key that has not fired yet. fn runs on its own
// goroutine.
func (d *Debouncer) Call(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		// Only clear our own entry; a newer call may have replaced it.
		if d.timers[key] == timer {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = timer
}

// Stop cancels every pending call. Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
