// Package structure holds small self-contained data structures shared by
// the core index adapters. The Bloom filter here carries no internal lock:
// its caller (the delta index) is already serialized by the orchestrator's
// own lock, so an inner lock would only add contention for no benefit.
package structure

import (
	"hash/fnv"
	"math"
)

// BloomFilter is a fixed-size bit-array membership filter with double
// hashing (fnv + xor-fold) standing in for k independent hash functions.
type BloomFilter struct {
	bitset []bool
	k      uint
	m      uint
	count  uint
}

// NewBloomFilter sizes a filter for n expected items at false-positive rate
// p using the standard optimal m/k formulas.
func NewBloomFilter(n uint, p float64) *BloomFilter {
	if n == 0 {
		n = 1
	}
	m := uint(math.Ceil(float64(n) * math.Log(p) / math.Log(1.0/math.Pow(2.0, math.Log(2.0)))))
	if m == 0 {
		m = 1
	}
	k := uint(math.Ceil((float64(m) / float64(n)) * math.Log(2.0)))
	if k == 0 {
		k = 1
	}

	return &BloomFilter{
		bitset: make([]bool, m),
		k:      k,
		m:      m,
	}
}

// Add records key's membership.
func (bf *BloomFilter) Add(key uint64) {
	h1, h2 := hash1(key), hash2(key)
	for i := uint(0); i < bf.k; i++ {
		pos := (h1 + uint32(i)*h2) % uint32(bf.m)
		bf.bitset[pos] = true
	}
	bf.count++
}

// Contains reports whether key may be present. False positives are
// possible; false negatives are not.
func (bf *BloomFilter) Contains(key uint64) bool {
	h1, h2 := hash1(key), hash2(key)
	for i := uint(0); i < bf.k; i++ {
		pos := (h1 + uint32(i)*h2) % uint32(bf.m)
		if !bf.bitset[pos] {
			return false
		}
	}
	return true
}

// Clear resets the filter to empty in place, reusing the backing array.
func (bf *BloomFilter) Clear() {
	for i := range bf.bitset {
		bf.bitset[i] = false
	}
	bf.count = 0
}

func hash1(n uint64) uint32 {
	h := fnv.New32a()
	h.Write([]byte{
		byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24),
		byte(n >> 32), byte(n >> 40), byte(n >> 48), byte(n >> 56),
	})
	return h.Sum32()
}

func hash2(n uint64) uint32 {
	return uint32(n ^ (n >> 32))
}

// Stats reports current filter sizing and the number of Add calls since the
// last Clear.
func (bf *BloomFilter) Stats() map[string]interface{} {
	return map[string]interface{}{
		"bloom_bits_size": bf.m,
		"bloom_hashes":    bf.k,
		"bloom_count":     bf.count,
	}
}
