package subset

import (
	"errors"
	"fmt"
	"math/rand"

	"localsearch/neigh"
	"localsearch/problem"
)

// ErrInconsistentSizeBounds is returned by NewSumProblem when minSize and
// maxSize are negative, out of order, or exceed the universe size.
var ErrInconsistentSizeBounds = errors.New("subset: inconsistent size bounds")

// ScoreFunc returns the contribution of a single ID to a solution's
// objective; SumProblem's objective is the sum over selected IDs.
type ScoreFunc func(id int) float64

// SumProblem is a subset-selection problem whose objective is the sum of
// per-ID scores over the selected set, subject to a selection-size
// constraint enforced as a PenalizingValidation (the penalty is the
// distance, in IDs, to the nearest feasible size).
type SumProblem struct {
	universe         []int
	score            ScoreFunc
	minSize, maxSize int
	maximize         bool
}

var _ problem.Problem[*Solution] = (*SumProblem)(nil)

// NewSumProblem builds a SumProblem over universe. Pass minSize == maxSize
// for a fixed-size problem. maximize selects the optimization orientation.
func NewSumProblem(universe []int, score ScoreFunc, minSize, maxSize int, maximize bool) (*SumProblem, error) {
	if minSize < 0 || maxSize < minSize || maxSize > len(universe) {
		return nil, fmt.Errorf("%w: minSize=%d maxSize=%d universe=%d", ErrInconsistentSizeBounds, minSize, maxSize, len(universe))
	}
	uni := append([]int(nil), universe...)
	return &SumProblem{universe: uni, score: score, minSize: minSize, maxSize: maxSize, maximize: maximize}, nil
}

// Evaluate implements problem.Problem.
func (p *SumProblem) Evaluate(s *Solution) problem.Evaluation {
	var total float64
	for id := range s.selected {
		total += p.score(id)
	}
	return problem.NewEvaluation(total)
}

// Validate implements problem.Problem: a PenalizingValidation whose penalty
// is the distance from |selected| to the nearest size in [minSize, maxSize].
func (p *SumProblem) Validate(s *Solution) problem.Validation {
	n := s.NumSelectedIDs()
	var penalty float64
	switch {
	case n < p.minSize:
		penalty = float64(p.minSize - n)
	case n > p.maxSize:
		penalty = float64(n - p.maxSize)
	}
	return problem.NewPenalizingValidation(penalty)
}

// RejectSolution implements problem.Problem.
func (p *SumProblem) RejectSolution(s *Solution) bool {
	return !p.Validate(s).Passed()
}

// CreateRandomSolution implements problem.Problem: selects a uniformly
// random subset of size drawn from [minSize, maxSize].
func (p *SumProblem) CreateRandomSolution(rng *rand.Rand) *Solution {
	size := p.minSize
	if p.maxSize > p.minSize {
		size += rng.Intn(p.maxSize - p.minSize + 1)
	}
	shuffled := append([]int(nil), p.universe...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if size > len(shuffled) {
		size = len(shuffled)
	}
	return NewFromSelection(p.universe, shuffled[:size])
}

// Minimizing implements problem.Problem.
func (p *SumProblem) Minimizing() bool { return !p.maximize }

// EvaluateMove implements problem.DeltaEvaluator: the sum objective can be
// updated incrementally from the swapped IDs' scores alone.
func (p *SumProblem) EvaluateMove(move neigh.Move[*Solution], current *Solution, currentEval problem.Evaluation) problem.Evaluation {
	sm, ok := move.(SwapMove)
	if !ok {
		panic("subset: SumProblem.EvaluateMove: unsupported move type")
	}
	return problem.NewEvaluation(currentEval.Value() - p.score(sm.Del) + p.score(sm.Add))
}
