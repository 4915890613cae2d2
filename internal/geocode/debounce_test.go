package geocode_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dkowalski/truck-logbook/internal/geocode"
)

func TestDebouncer_OnlyLastCallRunsPerKey(t *testing.T) {
	d := geocode.NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var ran atomic.Int32
	var last atomic.Int32

	// Rapid "keystrokes": each call cancels the previous pending one.
	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Call("loc-1", func() {
			ran.Add(1)
			last.Store(n)
		})
		time.Sleep(5 * time.Millisecond)
	}

	// Wait well past the quiet period for the surviving call to fire.
	time.Sleep(100 * time.Millisecond)

	assert.EqualValues(t, 1, ran.Load(), "exactly one call should survive the burst")
	assert.EqualValues(t, 5, last.Load(), "the surviving call is the most recent one")
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	d := geocode.NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var ranA, ranB atomic.Bool

	// Both scheduled inside the same quiet period; B must not cancel A.
	d.Call("loc-a", func() { ranA.Store(true) })
	d.Call("loc-b", func() { ranB.Store(true) })

	time.Sleep(100 * time.Millisecond)

	assert.True(t, ranA.Load(), "a call for one key must not cancel another key's call")
	assert.True(t, ranB.Load())
}

func TestDebouncer_CallDelaysInvocation(t *testing.T) {
	d := geocode.NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var ran atomic.Bool
	d.Call("loc-1", func() { ran.Store(true) })

	// The delay applies to the invocation itself, not just its result.
	time.Sleep(10 * time.Millisecond)
	assert.False(t, ran.Load(), "must not run during the quiet period")

	time.Sleep(100 * time.Millisecond)
	assert.True(t, ran.Load())
}

func TestDebouncer_StopCancelsAllPendingCalls(t *testing.T) {
	d := geocode.NewDebouncer(20 * time.Millisecond)

	var ran atomic.Int32
	d.Call("loc-a", func() { ran.Add(1) })
	d.Call("loc-b", func() { ran.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, ran.Load())
}
