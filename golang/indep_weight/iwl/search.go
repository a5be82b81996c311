package iwl

import (
	"log"
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// DefaultTieTolerance is the default gap under which two weights count as the same optimum.
const DefaultTieTolerance = 1e-9

// SearchParams collect the knobs of Search. The zero value is usable.
type SearchParams struct {
	Epsilon        float64 // feasibility slack, DefaultEpsilon when not positive
	TieTolerance   float64 // DefaultTieTolerance when not positive
	ThreadsNum     int     // workers for (configuration, reference) pairs, 1 when below 2
	SkipDegenerate bool    // drop point-mass configurations and search free ones only
	PrintMessages  bool
}

func (params SearchParams) withDefaults() SearchParams {
	if params.Epsilon <= 0 {
		params.Epsilon = DefaultEpsilon
	}
	if params.TieTolerance <= 0 {
		params.TieTolerance = DefaultTieTolerance
	}
	if params.ThreadsNum < 1 {
		params.ThreadsNum = 1
	}
	return params
}

// searchJob is one evaluation: a configuration with a reference outcome, or a point mass.
type searchJob struct {
	configuration Configuration
	reference     int
	degenerate    bool
}

func (job searchJob) solve(p Distribution, epsilon float64) (Candidate, bool) {
	if job.degenerate {
		return degenerateCandidate(p, job.configuration)
	}
	return SolveVertices(p, job.reference, job.configuration, epsilon)
}

// searchJobs lists the evaluations in enumeration order: configurations lexicographically,
// then reference outcomes in the support of the configuration source.
func searchJobs(p Distribution, params SearchParams) []searchJob {
	jobs := make([]searchJob, 0)
	for _, c := range Configurations(p.Dimension()) {
		if !Compatible(c, p) {
			continue
		}
		if c.IsDegenerate() {
			if !params.SkipDegenerate {
				jobs = append(jobs, searchJob{configuration: c, degenerate: true})
			}
			continue
		}

		q := c.Source()
		references := 0
		for x, prob := range q {
			if prob > 0 {
				jobs = append(jobs, searchJob{configuration: c, reference: x})
				references++
			}
		}
		if params.PrintMessages {
			e := len(c.Variables())
			log.Printf("Configuration %s: %d reference outcomes, up to %d square solves each\n",
				c, references, combin.Binomial(references-1, e))
		}
	}
	return jobs
}

// Search computes the independent weight of p: the largest lambda such that
// p = lambda*Q + (1-lambda)*R with Q a product of Bernoulli distributions.
//
// Every compatible configuration with free coordinates is tried against every reference
// outcome in its support and the best vertex of each polyhedron is kept. Configurations
// without free coordinates are point masses and count with weight p(x) unless
// params.SkipDegenerate is set. When p has holes this can exceed the free-only search:
// [0.5, 0, 0, 0.5] has weight 0.5 by default and 0 with SkipDegenerate. The global optimum
// is the first candidate reaching the maximal weight in enumeration order; this tie-break is
// arbitrary, Result.Maximizers lists all tied parameter vectors.
func Search(p Distribution, params SearchParams) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	params = params.withDefaults()
	d := p.Dimension()
	if d == 0 {
		return Result{Weight: 1, Params: []float64{}, Maximizers: [][]float64{{}}}, nil
	}

	jobs := searchJobs(p, params)
	results := make([]Candidate, len(jobs))
	accepted := make([]bool, len(jobs))

	if params.ThreadsNum == 1 {
		for ind, job := range jobs {
			results[ind], accepted[ind] = job.solve(p, params.Epsilon)
		}
	} else {
		taskPool := NewPool(params.ThreadsNum)
		for ind, job := range jobs {
			taskPool.AddTask(&TaskSolveVertices{
				p:         p,
				job:       job,
				epsilon:   params.Epsilon,
				results:   results,
				accepted:  accepted,
				resultInd: ind,
			})
		}
		taskPool.Close()
		taskPool.WaitAll()
	}

	result := foldCandidates(d, results, accepted, params.TieTolerance)
	if params.PrintMessages {
		log.Printf("Independent weight = %.6g over %d candidates from %d evaluations\n",
			result.Weight, len(result.Candidates), len(jobs))
	}
	return result, nil
}

// foldCandidates reduces the per-job results in job order by maximum weight.
func foldCandidates(d int, results []Candidate, accepted []bool, tieTolerance float64) Result {
	result := Result{Dimension: d, Candidates: make([]Candidate, 0)}

	bestWeight := 0.0
	bestInd := -1
	for ind, candidate := range results {
		if !accepted[ind] {
			continue
		}
		result.Candidates = append(result.Candidates, candidate)
		if bestInd == -1 || candidate.Weight > bestWeight {
			bestWeight = candidate.Weight
			bestInd = len(result.Candidates) - 1
		}
	}
	if bestInd == -1 {
		return result
	}

	best := result.Candidates[bestInd]
	result.Weight = math.Max(0, math.Min(bestWeight, 1))
	result.Configuration = best.Configuration
	result.Params = append([]float64(nil), best.Params...)

	for _, candidate := range result.Candidates {
		if bestWeight-candidate.Weight > tieTolerance {
			continue
		}
		duplicate := false
		for _, known := range result.Maximizers {
			if sameParams(known, candidate.Params, tieTolerance) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			result.Maximizers = append(result.Maximizers, append([]float64(nil), candidate.Params...))
		}
	}
	return result
}

func sameParams(a, b []float64, tolerance float64) bool {
	if len(a) != len(b) {
		return false
	}
	for ind := range a {
		if math.Abs(a[ind]-b[ind]) > tolerance {
			return false
		}
	}
	return true
}

// IndependentWeight validates values and runs Search with default parameters.
// It returns the weight and the first maximizing parameter vector.
func IndependentWeight(values []float64) (float64, []float64, error) {
	p, err := NewDistribution(values)
	if err != nil {
		return 0, nil, err
	}
	result, err := Search(p, SearchParams{})
	if err != nil {
		return 0, nil, err
	}
	return result.Weight, result.Params, nil
}
