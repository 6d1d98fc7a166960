package discogs

import (
	"context"
	"testing"
	"time"
)

func TestWaitWithoutPacingReturnsImmediately(t *testing.T) {
	tr := newRateTracker()

	start := time.Now()
	if err := tr.wait(context.Background()); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("fresh tracker should not pause")
	}
	if tr.count != 1 {
		t.Errorf("request not recorded, count = %d", tr.count)
	}
}

func TestWaitHonorsCancellation(t *testing.T) {
	tr := newRateTracker()
	tr.sleepTime = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tr.wait(ctx); err == nil {
		t.Errorf("cancelled context should abort the pause")
	}
}

func TestRecordAdjustsPacing(t *testing.T) {
	tr := newRateTracker()

	// simulate a busy minute: closed windows already hold 3 * 16 requests,
	// and the current window is over budget too
	tr.windows = [trackedWindows]int{16, 16, 16}
	tr.count = 10
	tr.windowStart = time.Now().Add(-windowLength)

	tr.record()
	if tr.sleepTime != sleepStep {
		t.Errorf("over budget should add pacing, sleepTime = %v", tr.sleepTime)
	}
	if tr.count != 1 {
		t.Errorf("window rollover should reset the counter, count = %d", tr.count)
	}

	// an idle minute relaxes the pacing again
	tr.windows = [trackedWindows]int{0, 0, 0}
	tr.count = 0
	tr.windowStart = time.Now().Add(-windowLength)

	tr.record()
	if tr.sleepTime != 0 {
		t.Errorf("under budget should remove pacing, sleepTime = %v", tr.sleepTime)
	}
}
