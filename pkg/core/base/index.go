// Package base implements the read-optimized base index: an exact lookup
// structure over a sorted slice of records, fronted by a two-layer
// recursive model (pkg/model) that predicts each key's position and bounds
// the search window around it.
//
// Insert is upsert-capable so the index can absorb new keys anywhere in
// its existing key range, not only at the tail, without invalidating the
// trained model.
package base

import (
	"sort"

	"hybridkv/pkg/common"
	"hybridkv/pkg/model"
)

// linearScanThreshold bounds how large a predicted search window has to be
// before falling back to binary search instead of a straight scan.
const linearScanThreshold = 16

// Index is the base index: an ordered mapping from common.Key to
// common.Value, mutated only by BulkLoad (once, at construction) and by the
// migrator's Insert calls thereafter.
type Index struct {
	records []common.KeyValue
	model   model.Model
	minErr  int
	maxErr  int
	fanout  int
}

// New returns an empty base index. BulkLoad must be called before it holds
// any data (an empty index answers every EqualityLookup with a miss).
func New(fanout int) *Index {
	return &Index{fanout: fanout}
}

// BulkLoad performs a one-shot construction from already-sorted, unique
// data. O(n).
func (idx *Index) BulkLoad(sorted []common.KeyValue) {
	idx.records = make([]common.KeyValue, len(sorted))
	copy(idx.records, sorted)

	keys := make([]uint64, len(sorted))
	for i, r := range sorted {
		keys[i] = r.Key
	}

	rmi := model.NewRMIModel(idx.fanout)
	rmi.Train(keys)
	idx.model = rmi
	idx.minErr, idx.maxErr = rmi.ErrorBound()
}

// EqualityLookup returns the value for key, or (0, false) on a miss.
func (idx *Index) EqualityLookup(key common.Key) (common.Value, bool) {
	if len(idx.records) == 0 {
		return 0, false
	}

	predicted := idx.model.Predict(key)
	low, high := predicted+idx.minErr, predicted+idx.maxErr
	if low < 0 {
		low = 0
	}
	if high >= len(idx.records) {
		high = len(idx.records) - 1
	}
	if low > high {
		return 0, false
	}

	if high-low < linearScanThreshold {
		for i := low; i <= high; i++ {
			if idx.records[i].Key == key {
				return idx.records[i].Value, true
			}
			if idx.records[i].Key > key {
				return 0, false
			}
		}
		return 0, false
	}

	window := idx.records[low : high+1]
	i := sort.Search(len(window), func(i int) bool { return window[i].Key >= key })
	if i < len(window) && window[i].Key == key {
		return window[i].Value, true
	}
	return 0, false
}

// Insert upserts a single key. If key already exists its value is
// overwritten in place with no effect on the error bound. Otherwise it is
// inserted at its sorted position, shifting every later record's true
// position by one; the running error bound is widened in O(1) to account
// for that shift instead of retraining the model. Must be safe to call
// repeatedly while a migration is draining into this instance.
func (idx *Index) Insert(kv common.KeyValue) {
	i := sort.Search(len(idx.records), func(i int) bool { return idx.records[i].Key >= kv.Key })

	if i < len(idx.records) && idx.records[i].Key == kv.Key {
		idx.records[i].Value = kv.Value
		return
	}

	idx.records = append(idx.records, common.KeyValue{})
	copy(idx.records[i+1:], idx.records[i:])
	idx.records[i] = kv

	if idx.model == nil {
		return
	}
	newEntryErr := i - idx.model.Predict(kv.Key)
	if newEntryErr < idx.minErr {
		idx.minErr = newEntryErr
	}
	if idx.maxErr+1 > newEntryErr {
		idx.maxErr++
	} else {
		idx.maxErr = newEntryErr
	}
}

// Size returns the number of distinct keys held.
func (idx *Index) Size() int {
	return len(idx.records)
}

// SizeInBytes estimates the in-memory footprint of the records and model.
func (idx *Index) SizeInBytes() int {
	size := len(idx.records) * 16
	if idx.model != nil {
		size += idx.model.SizeInBytes()
	}
	return size
}
