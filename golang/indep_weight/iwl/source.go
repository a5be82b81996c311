package iwl

// NewIndependentSource builds the product of Bernoulli(params[j]) distributions over {0,1}^d.
// Degenerate parameters 0 and 1 give exact zeros, a coordinate fixed to v contributes 1 when
// the outcome bit equals v and 0 otherwise.
func NewIndependentSource(params []float64) Distribution {
	d := len(params)
	q := make(Distribution, 1<<d)
	for x := range q {
		prob := 1.0
		for j, pj := range params {
			if Bit(x, j, d) == 1 {
				prob *= pj
			} else {
				prob *= 1 - pj
			}
		}
		q[x] = prob
	}
	return q
}
