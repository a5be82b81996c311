package iwl

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/combin"
)

// DefaultEpsilon is the additive slack of the feasibility check A*y <= b + eps.
// A smaller value rejects true vertices spoiled by round-off, a larger one accepts infeasible points.
const DefaultEpsilon = 1e-5

// InequalitySystem holds the log-likelihood-ratio constraints A*y <= b of one configuration
// against one reference outcome. Row r compares Outcomes[r] with Reference; column l is the
// free coordinate Variables[l].
type InequalitySystem struct {
	Configuration Configuration
	Reference     int
	Variables     []int
	Outcomes      []int
	A             *mat.Dense // nil when there are no rows or no variables
	B             *mat.VecDense
}

// NewInequalitySystem builds the constraints for configuration c and reference outcome k.
// Only outcomes where both p and the configuration source are positive produce rows.
func NewInequalitySystem(p Distribution, k int, c Configuration) InequalitySystem {
	d := len(c)
	q := c.Source()
	sys := InequalitySystem{Configuration: c, Reference: k, Variables: c.Variables()}
	e := len(sys.Variables)

	var rowsA, rowsB []float64
	for j := range p {
		if j == k || p[j] <= 0 || q[j] <= 0 {
			continue
		}
		sys.Outcomes = append(sys.Outcomes, j)
		for _, v := range sys.Variables {
			if Bit(j, v, d) != Bit(k, v, d) {
				rowsA = append(rowsA, 1)
			} else {
				rowsA = append(rowsA, 0)
			}
		}
		rowsB = append(rowsB, math.Log(p[j]/p[k]))
	}

	if len(sys.Outcomes) > 0 && e > 0 {
		sys.A = mat.NewDense(len(sys.Outcomes), e, rowsA)
		sys.B = mat.NewVecDense(len(sys.Outcomes), rowsB)
	}
	return sys
}

// Rows returns the number of constraints.
func (sys InequalitySystem) Rows() int {
	return len(sys.Outcomes)
}

// Feasible checks A*y <= b + eps row by row.
func (sys InequalitySystem) Feasible(y *mat.VecDense, eps float64) bool {
	if sys.A == nil {
		return false
	}
	var ay mat.VecDense
	ay.MulVec(sys.A, y)
	for r := 0; r < sys.Rows(); r++ {
		if ay.AtVec(r) > sys.B.AtVec(r)+eps {
			return false
		}
	}
	return true
}

// Vertices enumerates every size-e subset of rows, solves the square subsystem and keeps the
// feasible solutions. Singular subsystems are skipped. Vertices are returned in subset order
// and may repeat when several subsets meet at the same point.
func (sys InequalitySystem) Vertices(eps float64) []*mat.VecDense {
	e := len(sys.Variables)
	n := sys.Rows()
	if sys.A == nil || n < e {
		return nil
	}

	vertices := make([]*mat.VecDense, 0)
	subA := mat.NewDense(e, e, nil)
	subB := mat.NewVecDense(e, nil)
	subset := make([]int, e)

	generator := combin.NewCombinationGenerator(n, e)
	for generator.Next() {
		generator.Combination(subset)
		for row, r := range subset {
			subA.SetRow(row, sys.A.RawRowView(r))
			subB.SetVec(row, sys.B.AtVec(r))
		}

		y := mat.NewVecDense(e, nil)
		if err := y.SolveVec(subA, subB); err != nil {
			continue
		}
		if sys.Feasible(y, eps) {
			vertices = append(vertices, y)
		}
	}
	return vertices
}

// Objective is P_K * prod(1 + exp(y_l)), the mixture weight reached at the vertex y.
func (sys InequalitySystem) Objective(p Distribution, y *mat.VecDense) float64 {
	objective := p[sys.Reference]
	for l := 0; l < y.Len(); l++ {
		objective *= 1 + math.Exp(y.AtVec(l))
	}
	return objective
}

// Params maps a vertex back to Bernoulli parameters. A free coordinate gets the logistic
// transform of its log-odds, flipped when the reference bit is 1; fixed coordinates keep 0 or 1.
func (sys InequalitySystem) Params(y *mat.VecDense) []float64 {
	d := len(sys.Configuration)
	params := sys.Configuration.Sentinels()
	for l, j := range sys.Variables {
		s := math.Exp(y.AtVec(l))
		if Bit(sys.Reference, j, d) == 1 {
			s = 1 / s
		}
		params[j] = s / (1 + s)
	}
	return params
}

// SolveVertices returns the best vertex of the polyhedron of configuration c with reference
// outcome k. ok is false when no vertex passes the feasibility check. A non-positive eps
// selects DefaultEpsilon.
func SolveVertices(p Distribution, k int, c Configuration, eps float64) (candidate Candidate, ok bool) {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	sys := NewInequalitySystem(p, k, c)

	var best *mat.VecDense
	bestValue := 0.0
	for _, y := range sys.Vertices(eps) {
		value := sys.Objective(p, y)
		if best == nil || value > bestValue {
			best = y
			bestValue = value
		}
	}
	if best == nil {
		return Candidate{}, false
	}

	return Candidate{
		Configuration: c.String(),
		Reference:     OutcomeString(k, len(c)),
		Weight:        bestValue,
		Params:        sys.Params(best),
		Vertex:        mat.Col(nil, 0, best),
	}, true
}

// degenerateCandidate is the point mass of a configuration without free coordinates.
// Its weight is the probability p puts on that outcome.
func degenerateCandidate(p Distribution, c Configuration) (Candidate, bool) {
	x := c.Outcome()
	if p[x] <= 0 {
		return Candidate{}, false
	}
	return Candidate{
		Configuration: c.String(),
		Reference:     OutcomeString(x, len(c)),
		Weight:        p[x],
		Params:        c.Sentinels(),
	}, true
}
