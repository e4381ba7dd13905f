package bench

import (
	"path/filepath"
	"testing"
)

func TestRecordAndRecent(t *testing.T) {
	dir := t.TempDir()
	h, err := OpenHistory(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer h.Close()

	if err := h.Record(Run{Name: "run-1", BuildTimeNs: 1000, InitialKeys: 100}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := h.Record(Run{Name: "run-2", BuildTimeNs: 2000, InitialKeys: 200}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := h.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Name != "run-2" {
		t.Fatalf("expected most recent first, got %q", runs[0].Name)
	}
}
