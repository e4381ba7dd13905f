package structure

import "testing"

func TestBloomFilterNoFalseNegatives(t *testing.T) {
	bf := NewBloomFilter(1000, 0.01)
	for i := uint64(0); i < 1000; i++ {
		bf.Add(i * 7)
	}
	for i := uint64(0); i < 1000; i++ {
		if !bf.Contains(i * 7) {
			t.Fatalf("false negative for key %d", i*7)
		}
	}
}

func TestBloomFilterClear(t *testing.T) {
	bf := NewBloomFilter(100, 0.01)
	bf.Add(42)
	if !bf.Contains(42) {
		t.Fatal("expected membership before clear")
	}
	bf.Clear()
	if bf.Contains(42) {
		t.Fatal("expected no membership after clear (every bit is unset, so no key can match)")
	}
	stats := bf.Stats()
	if stats["bloom_count"].(uint) != 0 {
		t.Fatalf("expected count reset to 0, got %v", stats["bloom_count"])
	}
}
