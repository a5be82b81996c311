package iwl

import (
	"math"
	"math/bits"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gorgonia.org/tensor"
)

// NormTolerance is the per-outcome slack allowed when checking that a distribution sums to one.
var NormTolerance = 1e-9

// Distribution is a probability distribution over {0,1}^d. The outcome x is the bit string whose
// coordinate 0 is the most significant bit, so the slice is in lexicographic order of bit strings.
type Distribution []float64

// NewDistribution validates values and returns a copy of them as a Distribution.
func NewDistribution(values []float64) (Distribution, error) {
	p := make(Distribution, len(values))
	copy(p, values)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that p is non-empty, has a power-of-two length, has no negative or NaN
// entries and sums to one.
func (p Distribution) Validate() error {
	n := len(p)
	if n == 0 {
		return ErrEmptyDistribution
	}
	if n&(n-1) != 0 {
		return errors.Wrapf(ErrNotPowerOfTwo, "length %d", n)
	}

	sum := 0.0
	for ind, val := range p {
		if !(val >= 0) {
			return errors.Wrapf(ErrNegativeProbability, "entry %d = %g", ind, val)
		}
		sum += val
	}
	if math.Abs(sum-1) > NormTolerance*float64(n) {
		return errors.Wrapf(ErrNotNormalized, "sum = %.12g", sum)
	}
	return nil
}

// Dimension returns d, the number of binary coordinates.
func (p Distribution) Dimension() int {
	return bits.TrailingZeros(uint(len(p)))
}

// Bit returns the value of coordinate j in the outcome x of a d-dimensional distribution.
func Bit(x, j, d int) int {
	return (x >> (d - 1 - j)) & 1
}

// OutcomeString formats the outcome x as a bit string of length d.
func OutcomeString(x, d int) string {
	var sb strings.Builder
	for j := 0; j < d; j++ {
		sb.WriteByte(byte('0' + Bit(x, j, d)))
	}
	return sb.String()
}

// Support returns indices of the outcomes with non-zero probability.
func (p Distribution) Support() []int {
	support := make([]int, 0, len(p))
	for x, val := range p {
		if val > 0 {
			support = append(support, x)
		}
	}
	return support
}

// Tensor views the distribution as a 2x2x...x2 tensor with one axis per coordinate.
func (p Distribution) Tensor() *tensor.Dense {
	d := p.Dimension()
	shape := make([]int, d)
	for ind := range shape {
		shape[ind] = 2
	}
	backing := make([]float64, len(p))
	copy(backing, p)
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing))
}

// Permute reorders coordinates: coordinate i of the result is coordinate axes[i] of p.
func (p Distribution) Permute(axes []int) (Distribution, error) {
	d := p.Dimension()
	if len(axes) != d {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d axes for dimension %d", len(axes), d)
	}

	identity := true
	for ind, axis := range axes {
		if axis != ind {
			identity = false
		}
	}
	if identity {
		permuted := make(Distribution, len(p))
		copy(permuted, p)
		return permuted, nil
	}

	transposed, err := tensor.Transpose(p.Tensor(), axes...)
	if err != nil {
		return nil, errors.Wrap(err, "transpose")
	}
	data := transposed.Data().([]float64)
	permuted := make(Distribution, len(data))
	copy(permuted, data)
	return permuted, nil
}

// Marginals returns P(x_j = 1) for every coordinate j.
func (p Distribution) Marginals() ([]float64, error) {
	d := p.Dimension()
	marginals := make([]float64, d)
	if d == 1 {
		marginals[0] = p[1]
		return marginals, nil
	}

	for j := 0; j < d; j++ {
		current := p.Tensor()
		// sum out the higher axes first so lower axis numbers stay valid
		for axis := d - 1; axis >= 0; axis-- {
			if axis == j {
				continue
			}
			summed, err := current.Sum(axis)
			if err != nil {
				return nil, errors.Wrapf(err, "sum along axis %d", axis)
			}
			current = summed
		}
		marginals[j] = current.Data().([]float64)[1]
	}
	return marginals, nil
}

// Mix returns weight*q + (1-weight)*r.
func Mix(weight float64, q, r Distribution) (Distribution, error) {
	if len(q) != len(r) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "lengths %d and %d", len(q), len(r))
	}
	mixed := make(Distribution, len(q))
	for x := range q {
		mixed[x] = weight*q[x] + (1-weight)*r[x]
	}
	return mixed, nil
}

// ReadDistributionNpy reads a distribution from a npy file. Any shape is accepted, the data is
// taken in row-major order.
func ReadDistributionNpy(fileName string) (Distribution, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fileName)
	}
	defer func() { _ = f.Close() }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "npy header of %s", fileName)
	}

	var values []float64
	if err = r.Read(&values); err != nil {
		return nil, errors.Wrapf(err, "npy data of %s", fileName)
	}
	return NewDistribution(values)
}

// WriteNpy writes a float vector (parameters or a distribution) to a npy file.
func WriteNpy(fileName string, values []float64) error {
	dst, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "create %s", fileName)
	}
	if err = npyio.Write(dst, values); err != nil {
		_ = dst.Close()
		return errors.Wrapf(err, "write %s", fileName)
	}
	return dst.Close()
}
