package uploader

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// MergeStats tracks how many collections a merge appended versus
// replaced. Counters are atomic so a progress reporter on another
// goroutine can read them mid-run.
type MergeStats struct {
	added    int64
	replaced int64
}

// NewMergeStats creates a zeroed MergeStats.
func NewMergeStats() *MergeStats {
	return &MergeStats{}
}

// RecordAdd increments the added counter.
func (s *MergeStats) RecordAdd() {
	atomic.AddInt64(&s.added, 1)
}

// RecordReplace increments the replaced counter.
func (s *MergeStats) RecordReplace() {
	atomic.AddInt64(&s.replaced, 1)
}

// Added returns the number of collections appended to the fallback set.
func (s *MergeStats) Added() int64 {
	return atomic.LoadInt64(&s.added)
}

// Replaced returns the number of existing collections overwritten.
func (s *MergeStats) Replaced() int64 {
	return atomic.LoadInt64(&s.replaced)
}

// Total returns the total number of merged collections.
func (s *MergeStats) Total() int64 {
	return s.Added() + s.Replaced()
}

// Reset resets all counters to zero.
func (s *MergeStats) Reset() {
	atomic.StoreInt64(&s.added, 0)
	atomic.StoreInt64(&s.replaced, 0)
}

// String returns a human-readable summary of the statistics.
func (s *MergeStats) String() string {
	return fmt.Sprintf("added=%d replaced=%d total=%d", s.Added(), s.Replaced(), s.Total())
}

// LogSummary logs a summary of the merge at INFO level.
func (s *MergeStats) LogSummary(logger *slog.Logger) {
	logger.Info("fallback merge complete",
		"added", s.Added(),
		"replaced", s.Replaced(),
		"total", s.Total(),
	)
}
