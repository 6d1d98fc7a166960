package discogs

import (
	"context"
	"sync"
	"time"
)

const (
	windowLength   = 15 * time.Second
	trackedWindows = 3
	upperBound     = 45
	lowerBound     = 40
	sleepStep      = 100 * time.Millisecond
)

// rateTracker keeps the request count over the last few 15-second windows and
// adapts a per-request pause: pause grows while the minute total exceeds the
// source API's budget, shrinks back to zero once there is headroom.
type rateTracker struct {
	mu          sync.Mutex
	windows     [trackedWindows]int
	windowStart time.Time
	count       int
	sleepTime   time.Duration
}

func newRateTracker() *rateTracker {
	return &rateTracker{windowStart: time.Now()}
}

// wait pauses before a request according to the current pacing, then records
// the request. Returns early with the context error on cancellation.
func (t *rateTracker) wait(ctx context.Context) error {
	t.mu.Lock()
	pause := t.sleepTime
	t.mu.Unlock()

	if pause > 0 {
		timer := time.NewTimer(pause)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	t.record()
	return nil
}

func (t *rateTracker) record() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if now.Sub(t.windowStart) >= windowLength {
		copy(t.windows[:], t.windows[1:])
		t.windows[trackedWindows-1] = t.count

		total := t.count
		for _, w := range t.windows {
			total += w
		}

		if total > upperBound {
			t.sleepTime += sleepStep
		} else if total < lowerBound && t.sleepTime >= sleepStep {
			t.sleepTime -= sleepStep
		}

		t.count = 0
		t.windowStart = now
	}

	t.count++
}
