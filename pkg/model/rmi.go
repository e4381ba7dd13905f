package model

// RMIModel is a two-layer recursive model index.
// Layer 1: a range partition over the key space picks a bucket.
// Layer 2: a linear regression within that bucket predicts a position.
type RMIModel struct {
	globalMin uint64
	globalMax uint64
	fanout    int
	buckets   []*LinearModel

	minErr int
	maxErr int
}

func NewRMIModel(fanout int) *RMIModel {
	return &RMIModel{
		fanout:  fanout,
		buckets: make([]*LinearModel, fanout),
	}
}

func (rmi *RMIModel) bucketFor(key uint64) int {
	keyRange := float64(rmi.globalMax - rmi.globalMin)
	if keyRange == 0 {
		return 0
	}
	idx := int(float64(key-rmi.globalMin) / keyRange * float64(rmi.fanout))
	if idx >= rmi.fanout {
		idx = rmi.fanout - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Train fits layer 1's bucket boundaries and layer 2's per-bucket linear
// models against sorted keys, whose position is their own index.
func (rmi *RMIModel) Train(keys []uint64) {
	if len(keys) == 0 {
		return
	}

	rmi.globalMin = keys[0]
	rmi.globalMax = keys[len(keys)-1]

	bucketKeys := make([][]uint64, rmi.fanout)
	bucketPoss := make([][]int, rmi.fanout)

	for i, key := range keys {
		idx := rmi.bucketFor(key)
		bucketKeys[idx] = append(bucketKeys[idx], key)
		bucketPoss[idx] = append(bucketPoss[idx], i)
	}

	for i := 0; i < rmi.fanout; i++ {
		rmi.buckets[i] = NewLinearModel()
		rmi.buckets[i].TrainWithPos(bucketKeys[i], bucketPoss[i])
	}

	rmi.minErr, rmi.maxErr = 0, 0
	for i, key := range keys {
		err := i - rmi.Predict(key)
		if err < rmi.minErr {
			rmi.minErr = err
		}
		if err > rmi.maxErr {
			rmi.maxErr = err
		}
	}
}

// Predict returns the predicted position of key in the array Train was
// called with.
func (rmi *RMIModel) Predict(key uint64) int {
	if rmi.globalMax == rmi.globalMin && len(rmi.buckets) == 0 {
		return 0
	}
	b := rmi.buckets[rmi.bucketFor(key)]
	if b == nil {
		return 0
	}
	return b.Predict(key)
}

// ErrorBound returns the (min, max) prediction error observed at Train
// time: the true position always lies within [predicted+min, predicted+max].
func (rmi *RMIModel) ErrorBound() (min, max int) {
	return rmi.minErr, rmi.maxErr
}

func (rmi *RMIModel) SizeInBytes() int {
	size := 8 + 8 + 8 + 8 + 8 // globalMin, globalMax, fanout, minErr, maxErr
	for _, b := range rmi.buckets {
		if b != nil {
			size += b.SizeInBytes()
		}
	}
	return size
}
