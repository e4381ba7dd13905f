// Package monitor collects fire-and-forget counters describing hybrid
// activity. Nothing in the core's correctness path depends on this package;
// it is a thin observability sink covering reads, writes, and migration
// lifecycle events.
package monitor

import (
	"sync/atomic"
)

// WorkloadStats is a set of atomic counters describing a Hybrid's activity.
type WorkloadStats struct {
	ReadCount  uint64
	WriteCount uint64
	HitCount   uint64

	MigrationStarts   uint64
	MigrationComplete uint64
	MigrationAborts   uint64
}

func NewWorkloadStats() *WorkloadStats {
	return &WorkloadStats{}
}

func (ws *WorkloadStats) RecordRead() {
	atomic.AddUint64(&ws.ReadCount, 1)
}

func (ws *WorkloadStats) RecordWrite() {
	atomic.AddUint64(&ws.WriteCount, 1)
}

func (ws *WorkloadStats) RecordHit() {
	atomic.AddUint64(&ws.HitCount, 1)
}

func (ws *WorkloadStats) RecordMigrationStart() {
	atomic.AddUint64(&ws.MigrationStarts, 1)
}

func (ws *WorkloadStats) RecordMigrationComplete() {
	atomic.AddUint64(&ws.MigrationComplete, 1)
}

func (ws *WorkloadStats) RecordMigrationAbort() {
	atomic.AddUint64(&ws.MigrationAborts, 1)
}

func (ws *WorkloadStats) GetReadWriteRatio() float64 {
	reads := atomic.LoadUint64(&ws.ReadCount)
	writes := atomic.LoadUint64(&ws.WriteCount)

	if writes == 0 {
		if reads > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(reads) / float64(writes)
}

// Snapshot returns a point-in-time copy of every counter, for reporting.
func (ws *WorkloadStats) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"reads":              atomic.LoadUint64(&ws.ReadCount),
		"writes":             atomic.LoadUint64(&ws.WriteCount),
		"hits":               atomic.LoadUint64(&ws.HitCount),
		"migration_starts":   atomic.LoadUint64(&ws.MigrationStarts),
		"migration_complete": atomic.LoadUint64(&ws.MigrationComplete),
		"migration_aborts":   atomic.LoadUint64(&ws.MigrationAborts),
	}
}
