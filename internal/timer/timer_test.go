package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduleFiresOnce(t *testing.T) {
	w := New()
	defer w.Close()

	w.Schedule(5*time.Millisecond, 0)
	select {
	case <-w.Fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	require.False(t, w.Pending())
}

func TestCancelPreventsFiring(t *testing.T) {
	w := New()
	defer w.Close()

	id := w.Schedule(20*time.Millisecond, 0)
	w.Cancel(id)
	select {
	case <-w.Fired:
		t.Fatal("cancelled timer fired")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestMinResolutionFloorsShortDelays(t *testing.T) {
	w := New()
	defer w.Close()
	w.SetMinResolution(50 * time.Millisecond)

	start := time.Now()
	w.Schedule(time.Millisecond, 0)
	<-w.Fired
	require.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}
