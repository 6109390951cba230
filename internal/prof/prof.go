// Package prof provides an opt-in timing probe for the five pipeline stages.
// It is deliberately minimal: a package-level slice guarded by a mutex, not a
// metrics exporter. pipeline.Run records one entry per completed stage on
// every run; entries accumulate until SnapshotAndReset drains them.
package prof

import (
	"sync"
	"time"
)

// Entry represents a single stage timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

var (
	mu     sync.Mutex
	record []Entry
)

// Track logs the duration since start under name. Call as:
//
//	defer prof.Track(time.Now(), "analyze")
func Track(start time.Time, name string) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Entry{Label: name, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns the collected timing entries and clears them.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(record))
	copy(out, record)
	record = nil
	return out
}
