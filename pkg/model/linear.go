package model

// LinearModel is a least-squares fit of position as a function of key:
// pos ≈ Slope*key + Intercept.
type LinearModel struct {
	Slope     float64
	Intercept float64
	n         float64
	sumX      float64
	sumY      float64
	sumXY     float64
	sumXX     float64
}

func NewLinearModel() *LinearModel {
	return &LinearModel{}
}

// TrainWithPos fits the model to keys against explicit positions, which
// need not be the keys' own index (e.g. inside an RMI bucket, position is
// the key's global offset, not its offset within the bucket).
func (lm *LinearModel) TrainWithPos(keys []uint64, positions []int) {
	lm.n, lm.sumX, lm.sumY, lm.sumXY, lm.sumXX = 0, 0, 0, 0, 0

	for i, key := range keys {
		x := float64(key)
		y := float64(positions[i])

		lm.n++
		lm.sumX += x
		lm.sumY += y
		lm.sumXY += x * y
		lm.sumXX += x * x
	}
	lm.solve()
}

func (lm *LinearModel) solve() {
	if lm.n == 0 {
		lm.Slope, lm.Intercept = 0, 0
		return
	}
	denominator := lm.n*lm.sumXX - lm.sumX*lm.sumX
	if denominator == 0 {
		lm.Slope = 0
		lm.Intercept = lm.sumY / lm.n
	} else {
		lm.Slope = (lm.n*lm.sumXY - lm.sumX*lm.sumY) / denominator
		lm.Intercept = (lm.sumY - lm.Slope*lm.sumX) / lm.n
	}
}

func (lm *LinearModel) Predict(key uint64) int {
	return int(lm.Slope*float64(key) + lm.Intercept)
}

func (lm *LinearModel) SizeInBytes() int {
	return 7 * 8 // seven float64 fields
}
