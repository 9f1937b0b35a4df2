package batch

import (
	"sync"

	"github.com/platinummonkey/outliner/internal/logger"
)

// progressTracker logs a monotonic completion counter for a batch run.
// Safe for concurrent use; updates arrive from the collector goroutine
// but tests may drive it directly.
type progressTracker struct {
	mu      sync.Mutex
	total   int
	current int
	logger  *logger.Logger
}

func newProgressTracker(total int, log *logger.Logger) *progressTracker {
	return &progressTracker{total: total, logger: log}
}

// update advances the counter by one completed item and logs it.
func (t *progressTracker) update(itemName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current++
	percentage := float64(t.current) / float64(t.total) * 100
	t.logger.WithFields(
		"completed", t.current,
		"total", t.total,
		"percent", percentage,
		"file", itemName,
	).Info("Progress")
}

// count returns the number of completed items.
func (t *progressTracker) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// finish logs batch completion.
func (t *progressTracker) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger.WithFields("total", t.total, "completed", t.current).Info("All files processed")
}
