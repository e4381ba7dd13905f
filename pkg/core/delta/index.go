// Package delta implements the write-optimized delta index: an ordered,
// in-memory buffer that accepts foreground inserts while a base index is
// being trained or migrated.
//
// The index itself carries no internal lock; it is not safe for concurrent
// use on its own. Callers are expected to serialize access externally
// (the hybrid orchestrator does this with its own delta lock), which keeps
// the hot insert/lookup paths free of any synchronization overhead.
package delta

import (
	"math"

	"github.com/google/btree"

	"hybridkv/pkg/common"
	"hybridkv/pkg/core/structure"
)

const btreeDegree = 32

type item struct {
	key common.Key
	val common.Value
}

func (i item) Less(than btree.Item) bool {
	return i.key < than.(item).key
}

// Index is the delta index: an ordered btree map plus a bloom filter that
// lets EqualityLookup short-circuit on a definite miss without touching the
// tree.
type Index struct {
	tree  *btree.BTree
	bloom *structure.BloomFilter
	count int
}

// New returns an empty delta index sized for roughly expectedItems inserts
// before its next migration.
func New(expectedItems uint, falsePositiveRate float64) *Index {
	return &Index{
		tree:  btree.New(btreeDegree),
		bloom: structure.NewBloomFilter(expectedItems, falsePositiveRate),
	}
}

// Insert upserts a single key. Safe to call only under the hybrid's
// delta_lock held for writing.
func (idx *Index) Insert(kv common.KeyValue) {
	before := idx.tree.ReplaceOrInsert(item{key: kv.Key, val: kv.Value})
	if before == nil {
		idx.count++
	}
	idx.bloom.Add(kv.Key)
}

// EqualityLookup returns the value for key, or (0, false) on a miss. Safe
// to call under either a shared or exclusive hold of delta_lock.
func (idx *Index) EqualityLookup(key common.Key) (common.Value, bool) {
	if !idx.bloom.Contains(key) {
		return 0, false
	}
	found := idx.tree.Get(item{key: key})
	if found == nil {
		return 0, false
	}
	return found.(item).val, true
}

// RangeQuery folds every key in [low, high] into fn in ascending order.
// Iteration stops early if fn returns false.
func (idx *Index) RangeQuery(low, high common.Key, fn func(common.Key, common.Value) bool) {
	visit := func(i btree.Item) bool {
		it := i.(item)
		if it.key > high {
			return false
		}
		return fn(it.key, it.val)
	}

	if high == math.MaxUint64 {
		// high+1 would wrap to 0, turning AscendRange's exclusive upper
		// bound into an empty range. Walk unbounded above and let visit
		// stop at high instead — here that's never, since high is already
		// the largest representable key.
		idx.tree.AscendGreaterOrEqual(item{key: low}, visit)
		return
	}
	idx.tree.AscendRange(item{key: low}, item{key: high + 1}, visit)
}

// ExtractAll returns every entry in ascending key order, for the migrator
// to drain into a base index. O(n).
func (idx *Index) ExtractAll() []common.KeyValue {
	out := make([]common.KeyValue, 0, idx.count)
	idx.tree.Ascend(func(i btree.Item) bool {
		it := i.(item)
		out = append(out, common.KeyValue{Key: it.key, Value: it.val})
		return true
	})
	return out
}

// Size returns the number of distinct keys held.
func (idx *Index) Size() int {
	return idx.count
}

// Clear empties the index. Per the pointer-reset convention used by the
// hybrid orchestrator, callers holding the sole reference to a drained
// instance may prefer to simply allocate a fresh Index instead of calling
// Clear; Clear exists for callers that want to reuse the backing btree.
func (idx *Index) Clear() {
	idx.tree.Clear(false)
	idx.bloom.Clear()
	idx.count = 0
}
