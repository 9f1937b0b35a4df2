package batch

import (
	"sync"
	"testing"
)

func TestProgressTracker(t *testing.T) {
	tracker := newProgressTracker(10, newTestLogger(t))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.update("doc.pdf")
		}()
	}
	wg.Wait()

	if got := tracker.count(); got != 10 {
		t.Errorf("count = %d, want 10", got)
	}
	tracker.finish()
}
