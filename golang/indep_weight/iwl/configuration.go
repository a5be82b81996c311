package iwl

import (
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/combin"
)

// Coordinate tells whether a coordinate of an independent source is fixed at 0, fixed at 1
// or free to be optimized.
type Coordinate int

const (
	Fixed0 Coordinate = iota
	Fixed1
	Free
)

// freeSentinel is the parameter used for free coordinates when only the support of a source matters.
const freeSentinel = 0.5

// Sentinel returns the Bernoulli parameter used to build a support-testing source.
func (c Coordinate) Sentinel() float64 {
	switch c {
	case Fixed0:
		return 0
	case Fixed1:
		return 1
	}
	return freeSentinel
}

func (c Coordinate) String() string {
	switch c {
	case Fixed0:
		return "0"
	case Fixed1:
		return "1"
	}
	return "*"
}

// Configuration assigns every coordinate to Fixed0, Fixed1 or Free.
type Configuration []Coordinate

// ParseConfiguration reads a configuration written as a string over {'0', '1', '*'}.
func ParseConfiguration(s string) (Configuration, error) {
	c := make(Configuration, len(s))
	for ind, ch := range s {
		switch ch {
		case '0':
			c[ind] = Fixed0
		case '1':
			c[ind] = Fixed1
		case '*':
			c[ind] = Free
		default:
			return nil, errors.Errorf("unexpected symbol %q at position %d of configuration %q", ch, ind, s)
		}
	}
	return c, nil
}

func (c Configuration) String() string {
	var sb strings.Builder
	for _, coordinate := range c {
		sb.WriteString(coordinate.String())
	}
	return sb.String()
}

// Sentinels returns per-coordinate parameters with free coordinates read as 0.5.
func (c Configuration) Sentinels() []float64 {
	params := make([]float64, len(c))
	for ind, coordinate := range c {
		params[ind] = coordinate.Sentinel()
	}
	return params
}

// Source builds the support-testing independent source of the configuration.
func (c Configuration) Source() Distribution {
	return NewIndependentSource(c.Sentinels())
}

// Variables returns the indices of free coordinates in increasing order.
func (c Configuration) Variables() []int {
	variables := make([]int, 0, len(c))
	for ind, coordinate := range c {
		if coordinate == Free {
			variables = append(variables, ind)
		}
	}
	return variables
}

// IsDegenerate reports whether the configuration has no free coordinate, i.e. describes a point mass.
func (c Configuration) IsDegenerate() bool {
	return len(c.Variables()) == 0
}

// Outcome returns the outcome index of a degenerate configuration.
func (c Configuration) Outcome() int {
	x := 0
	for _, coordinate := range c {
		x <<= 1
		if coordinate == Fixed1 {
			x |= 1
		}
	}
	return x
}

// Configurations enumerates {Fixed0, Fixed1, Free}^d in lexicographic order, last coordinate fastest.
func Configurations(d int) []Configuration {
	lens := make([]int, d)
	for ind := range lens {
		lens[ind] = 3
	}

	result := make([]Configuration, 0)
	generator := combin.NewCartesianGenerator(lens)
	product := make([]int, d)
	for generator.Next() {
		generator.Product(product)
		c := make(Configuration, d)
		for ind, val := range product {
			c[ind] = Coordinate(val)
		}
		result = append(result, c)
	}
	return result
}
