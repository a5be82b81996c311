package iwl

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Candidate is the best vertex found for one configuration and reference outcome.
type Candidate struct {
	Configuration string    // e.g. "0*1", '*' marks a free coordinate
	Reference     string    // reference outcome as a bit string
	Weight        float64   // mixture weight reached by the candidate source
	Params        []float64 // Bernoulli parameters of the candidate source
	Vertex        []float64 `json:",omitempty"` // log-odds solution, empty for point masses
}

// Result is the outcome of Search.
type Result struct {
	Dimension     int
	Weight        float64
	Configuration string      // configuration of Params, empty when nothing was accepted
	Params        []float64   // first maximizer in enumeration order
	Maximizers    [][]float64 // distinct parameter vectors tied with the optimum
	Candidates    []Candidate
}

// Source builds the maximizing independent source, nil when there is no maximizer.
func (result Result) Source() Distribution {
	if result.Params == nil {
		return nil
	}
	return NewIndependentSource(result.Params)
}

// Decompose splits p into the maximizing independent source q and the residual r with
// p = Weight*q + (1-Weight)*r. The residual is nil when the weight is one.
func (result Result) Decompose(p Distribution) (q, r Distribution, err error) {
	if len(p) != 1<<result.Dimension {
		return nil, nil, errors.Wrapf(ErrDimensionMismatch, "distribution of length %d for dimension %d", len(p), result.Dimension)
	}

	q = result.Source()
	if q == nil {
		r = make(Distribution, len(p))
		copy(r, p)
		return nil, r, nil
	}
	if result.Weight >= 1 {
		return q, nil, nil
	}

	r = make(Distribution, len(p))
	total := 0.0
	for x := range p {
		// round-off may leave tiny negative remainders
		val := p[x] - result.Weight*q[x]
		if val < 0 {
			val = 0
		}
		r[x] = val
		total += val
	}
	if total <= 0 {
		return q, nil, nil
	}
	for x := range r {
		r[x] /= total
	}
	return q, r, nil
}

// Save writes the result as indented JSON.
func (result Result) Save(filename string) error {
	dest, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "can't open file %s to write", filename)
	}
	defer func() { _ = dest.Close() }()

	resultByteRepr, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal result")
	}
	_, err = dest.Write(resultByteRepr)
	return err
}

// LoadResult reads a result written by Save.
func LoadResult(filename string) (result Result, err error) {
	source, err := os.Open(filename)
	if err != nil {
		return Result{}, errors.Wrapf(err, "open %s", filename)
	}
	defer func() { _ = source.Close() }()

	decoder := json.NewDecoder(source)
	if err = decoder.Decode(&result); err != nil {
		return Result{}, errors.Wrapf(err, "decode %s", filename)
	}
	return result, nil
}
