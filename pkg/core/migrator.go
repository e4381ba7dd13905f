package core

import (
	"log"

	"hybridkv/pkg/common"
	"hybridkv/pkg/core/base"
	"hybridkv/pkg/core/delta"
)

// runMigrator is the migrator's entire lifetime: one long-lived goroutine,
// parked on the buffered trigger channel until a migration is signalled or
// the hybrid is closed.
func (h *Hybrid) runMigrator() {
	defer h.wg.Done()
	for {
		select {
		case <-h.migrateCh:
			h.runMigration()
		case <-h.done:
			return
		}
	}
}

// runMigration executes Preparing -> Draining1 -> Swapping -> Draining2 ->
// Finalizing. It holds migrationMu for its entire run, per the locking
// discipline: the insert path only ever holds migrationMu briefly, to hand
// off to this goroutine, never concurrently with it.
func (h *Hybrid) runMigration() {
	h.migrationMu.Lock()
	defer h.migrationMu.Unlock()

	ro := h.dRo.Load()
	buf := ro.ExtractAll()

	// Draining1: drain into B_w. B_r keeps serving reads untouched.
	if drained, ok := h.drainInto(h.bW.Load(), buf); !ok {
		h.abortMigration(drained, len(buf))
		return
	}

	// Swapping: B_w and B_r trade roles. Readers spin-yield across the swap.
	h.baseReadable.Store(false)
	oldBw, oldBr := h.bW.Load(), h.bR.Load()
	h.bW.Store(oldBr)
	h.bR.Store(oldBw)
	h.baseReadable.Store(true)

	// Draining2: the same buffer goes into the new B_w (the pre-swap B_r),
	// establishing I4 — both physical bases now hold every drained key.
	if drained, ok := h.drainInto(h.bW.Load(), buf); !ok {
		h.abortMigration(drained, len(buf))
		return
	}

	// Finalizing: D_ro's keys are now in both bases, safe to discard.
	h.dRo.Store(delta.New(h.cfg.Bloom.ExpectedItems, h.cfg.Bloom.FalsePositiveRate))
	h.roSize.Store(0)

	h.migrationInProgress.Store(false)
	h.stats.RecordMigrationComplete()
	log.Printf("[Migration] completed, drained %d keys", len(buf))
}

// drainInto inserts every buffered entry into bw under baseLock exclusive,
// checking cancellation between entries. Returns the number of entries
// actually inserted and false if the migrator was asked to abort partway
// through.
func (h *Hybrid) drainInto(bw *base.Index, buf []common.KeyValue) (int, bool) {
	h.baseLock.Lock()
	defer h.baseLock.Unlock()

	for i, kv := range buf {
		if h.cancel.Load() {
			return i, false
		}
		bw.Insert(kv)
	}
	return len(buf), true
}

// abortMigration handles MigrationAborted: the hybrid is being torn down,
// so the only remaining obligation is to leave state consistent enough for
// Close to finish joining this goroutine.
func (h *Hybrid) abortMigration(drained, total int) {
	h.migrationInProgress.Store(false)
	h.baseReadable.Store(true)
	h.stats.RecordMigrationAbort()
	log.Printf("[Migration] aborted after draining %d of %d keys", drained, total)
}
