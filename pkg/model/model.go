// Package model implements the learned-model layer used by the base index:
// a recursive model index (RMI) whose leaves are simple linear regressions
// mapping a key to its predicted position in a sorted array.
package model

// Model is the abstraction the base index programs against, so its
// internals (currently an RMI) can be swapped for a different learned
// model without touching the base index adapter.
type Model interface {
	Train(keys []uint64)
	Predict(key uint64) (pos int)
	ErrorBound() (min, max int)
	SizeInBytes() int
}
