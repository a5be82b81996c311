package iwl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestInequalitySystemRows(t *testing.T) {
	p := Distribution{0.24, 0.56, 0.06, 0.14}
	c := Configuration{Free, Free}
	sys := NewInequalitySystem(p, 0, c)

	require.Equal(t, []int{1, 2, 3}, sys.Outcomes)
	assert.Equal(t, []float64{0, 1}, sys.A.RawRowView(0))
	assert.Equal(t, []float64{1, 0}, sys.A.RawRowView(1))
	assert.Equal(t, []float64{1, 1}, sys.A.RawRowView(2))
	assert.InDelta(t, math.Log(0.56/0.24), sys.B.AtVec(0), 1e-15)
	assert.InDelta(t, math.Log(0.06/0.24), sys.B.AtVec(1), 1e-15)
	assert.InDelta(t, math.Log(0.14/0.24), sys.B.AtVec(2), 1e-15)
}

func TestInequalitySystemSkipsHolesAndFixedSupport(t *testing.T) {
	p := Distribution{0.4, 0, 0.3, 0.3}
	// only the outcomes 10 and 11 are in the support of "1*"
	sys := NewInequalitySystem(p, 2, Configuration{Fixed1, Free})
	assert.Equal(t, []int{3}, sys.Outcomes)
	assert.Equal(t, []float64{1}, sys.A.RawRowView(0))
	assert.InDelta(t, 0.0, sys.B.AtVec(0), 1e-15)

	// the hole at 01 gives no row
	sys = NewInequalitySystem(p, 0, Configuration{Free, Free})
	assert.Equal(t, []int{2, 3}, sys.Outcomes)
}

func TestVerticesUniform(t *testing.T) {
	p := Distribution{0.25, 0.25, 0.25, 0.25}
	sys := NewInequalitySystem(p, 0, Configuration{Free, Free})
	vertices := sys.Vertices(DefaultEpsilon)
	require.Len(t, vertices, 3)
	for _, y := range vertices {
		assert.InDelta(t, 0.0, y.AtVec(0), 1e-15)
		assert.InDelta(t, 0.0, y.AtVec(1), 1e-15)
		assert.InDelta(t, 1.0, sys.Objective(p, y), 1e-15)
	}
}

func TestVerticesSkipSingularSubsets(t *testing.T) {
	sys := InequalitySystem{
		Configuration: Configuration{Free, Free},
		Variables:     []int{0, 1},
		Outcomes:      []int{1, 2, 3},
		A:             mat.NewDense(3, 2, []float64{1, 1, 1, 1, 1, 0}),
		B:             mat.NewVecDense(3, []float64{0, 0, 0}),
	}
	vertices := sys.Vertices(DefaultEpsilon)
	// the two equal rows form a singular subsystem
	assert.Len(t, vertices, 2)
}

func TestVerticesToleranceIsMonotone(t *testing.T) {
	p := Distribution{0.05, 0.2, 0.1, 0.15, 0.12, 0.08, 0.2, 0.1}
	c := Configuration{Free, Free, Free}
	for k := range p {
		sys := NewInequalitySystem(p, k, c)
		tight := len(sys.Vertices(1e-5))
		loose := len(sys.Vertices(1e-3))
		assert.GreaterOrEqual(t, loose, tight, "reference %s", OutcomeString(k, 3))
	}
}

func TestSolveVerticesOneCoordinate(t *testing.T) {
	p := Distribution{0.3, 0.7}

	candidate, ok := SolveVertices(p, 0, Configuration{Free}, 0)
	require.True(t, ok)
	assert.InDelta(t, 1.0, candidate.Weight, 1e-12)
	assert.InDelta(t, 0.7, candidate.Params[0], 1e-12)
	assert.Equal(t, "*", candidate.Configuration)
	assert.Equal(t, "0", candidate.Reference)
	assert.InDelta(t, math.Log(7.0/3.0), candidate.Vertex[0], 1e-12)

	// the reference bit 1 flips the log-odds
	candidate, ok = SolveVertices(p, 1, Configuration{Free}, 0)
	require.True(t, ok)
	assert.InDelta(t, 1.0, candidate.Weight, 1e-12)
	assert.InDelta(t, 0.7, candidate.Params[0], 1e-12)
}

func TestSolveVerticesProduct(t *testing.T) {
	p := NewIndependentSource([]float64{0.2, 0.7})
	candidate, ok := SolveVertices(p, 0, Configuration{Free, Free}, DefaultEpsilon)
	require.True(t, ok)
	assert.InDelta(t, 1.0, candidate.Weight, 1e-12)
	assert.InDeltaSlice(t, []float64{0.2, 0.7}, candidate.Params, 1e-12)
}

func TestSolveVerticesKeepsFixedCoordinates(t *testing.T) {
	p := Distribution{0.1, 0.2, 0.3, 0.4}
	candidate, ok := SolveVertices(p, 2, Configuration{Fixed1, Free}, DefaultEpsilon)
	require.True(t, ok)
	assert.Equal(t, 1.0, candidate.Params[0])
	// Q = (0, 0, 3/7, 4/7) scaled by 0.7 fits exactly
	assert.InDelta(t, 0.7, candidate.Weight, 1e-12)
	assert.InDelta(t, 4.0/7.0, candidate.Params[1], 1e-12)
}

func TestSolveVerticesNoRows(t *testing.T) {
	p := Distribution{0, 0, 1, 0}
	_, ok := SolveVertices(p, 2, Configuration{Fixed1, Free}, DefaultEpsilon)
	assert.False(t, ok)
}
