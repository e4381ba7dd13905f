package delta

import (
	"math"
	"testing"

	"hybridkv/pkg/common"
)

func TestInsertAndLookup(t *testing.T) {
	idx := New(100, 0.01)
	for i := uint64(0); i < 50; i++ {
		idx.Insert(common.KeyValue{Key: i, Value: i * 100})
	}
	for i := uint64(0); i < 50; i++ {
		v, ok := idx.EqualityLookup(i)
		if !ok || v != i*100 {
			t.Fatalf("key %d: got %d, %v", i, v, ok)
		}
	}
	if _, ok := idx.EqualityLookup(999); ok {
		t.Fatal("expected miss for absent key")
	}
	if idx.Size() != 50 {
		t.Fatalf("size: got %d want 50", idx.Size())
	}
}

func TestInsertOverwriteDoesNotDoubleCount(t *testing.T) {
	idx := New(100, 0.01)
	idx.Insert(common.KeyValue{Key: 1, Value: 10})
	idx.Insert(common.KeyValue{Key: 1, Value: 20})
	if idx.Size() != 1 {
		t.Fatalf("size after overwrite: got %d want 1", idx.Size())
	}
	v, _ := idx.EqualityLookup(1)
	if v != 20 {
		t.Fatalf("expected overwritten value 20, got %d", v)
	}
}

func TestRangeQueryOrderAndBounds(t *testing.T) {
	idx := New(100, 0.01)
	for i := uint64(0); i < 20; i++ {
		idx.Insert(common.KeyValue{Key: i, Value: i})
	}
	var seen []common.Key
	idx.RangeQuery(5, 10, func(k common.Key, v common.Value) bool {
		seen = append(seen, k)
		return true
	})
	if len(seen) != 6 {
		t.Fatalf("expected 6 keys in [5,10], got %d", len(seen))
	}
	for i, k := range seen {
		if k != common.Key(5+i) {
			t.Fatalf("range not in order: %v", seen)
		}
	}
}

func TestRangeQueryAtMaxUint64UpperBound(t *testing.T) {
	idx := New(100, 0.01)
	idx.Insert(common.KeyValue{Key: math.MaxUint64 - 1, Value: 1})
	idx.Insert(common.KeyValue{Key: math.MaxUint64, Value: 2})

	var seen []common.Key
	idx.RangeQuery(math.MaxUint64-1, math.MaxUint64, func(k common.Key, v common.Value) bool {
		seen = append(seen, k)
		return true
	})
	if len(seen) != 2 {
		t.Fatalf("expected both keys at the uint64 boundary, got %v", seen)
	}
}

func TestExtractAllIsSortedAndComplete(t *testing.T) {
	idx := New(100, 0.01)
	keys := []uint64{5, 3, 8, 1, 9, 2}
	for _, k := range keys {
		idx.Insert(common.KeyValue{Key: k, Value: k})
	}
	out := idx.ExtractAll()
	if len(out) != len(keys) {
		t.Fatalf("expected %d entries, got %d", len(keys), len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].Key >= out[i].Key {
			t.Fatalf("extracted entries not sorted: %v", out)
		}
	}
}

func TestClearEmptiesIndex(t *testing.T) {
	idx := New(100, 0.01)
	idx.Insert(common.KeyValue{Key: 1, Value: 1})
	idx.Clear()
	if idx.Size() != 0 {
		t.Fatalf("size after clear: got %d", idx.Size())
	}
	if _, ok := idx.EqualityLookup(1); ok {
		t.Fatal("expected miss after clear")
	}
}
