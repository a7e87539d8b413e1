package problem_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localsearch/problem"
)

type noopProblem struct {
	minimizing bool
}

func (noopProblem) Evaluate(s int) problem.Evaluation       { return problem.NewEvaluation(float64(s)) }
func (noopProblem) Validate(int) problem.Validation         { return problem.Pass }
func (noopProblem) RejectSolution(int) bool                 { return false }
func (noopProblem) CreateRandomSolution(_ *rand.Rand) int   { return 0 }
func (p noopProblem) Minimizing() bool                      { return p.minimizing }

func TestOrientation(t *testing.T) {
	max := noopProblem{minimizing: false}
	min := noopProblem{minimizing: true}
	assert.Equal(t, 1.0, problem.Orientation[int](max))
	assert.Equal(t, -1.0, problem.Orientation[int](min))
}

func TestDeltaOrientedPositiveMeansBetter(t *testing.T) {
	max := noopProblem{minimizing: false}
	min := noopProblem{minimizing: true}

	// Maximizing: a larger value is better, so delta(new=10, old=5) > 0.
	assert.Greater(t, problem.Delta[int](max, problem.NewEvaluation(10), problem.NewEvaluation(5)), 0.0)
	// Minimizing: a smaller value is better, so delta(new=5, old=10) > 0.
	assert.Greater(t, problem.Delta[int](min, problem.NewEvaluation(5), problem.NewEvaluation(10)), 0.0)
	// Minimizing: a larger value is worse, so delta(new=10, old=5) < 0.
	assert.Less(t, problem.Delta[int](min, problem.NewEvaluation(10), problem.NewEvaluation(5)), 0.0)
}

func TestSimplePenalizingValidation(t *testing.T) {
	v := problem.NewPenalizingValidation(0)
	require.True(t, v.Passed())
	require.Equal(t, 0.0, v.Penalty())

	v = problem.NewPenalizingValidation(3.5)
	require.False(t, v.Passed())
	require.Equal(t, 3.5, v.Penalty())

	// A negative penalty is clamped to 0 and treated as passing.
	v = problem.NewPenalizingValidation(-1)
	require.True(t, v.Passed())
	require.Equal(t, 0.0, v.Penalty())
}

func TestEvaluationWithDelta(t *testing.T) {
	e := problem.NewEvaluation(42).WithDelta("meta")
	assert.Equal(t, 42.0, e.Value())
	assert.Equal(t, "meta", e.Delta)
}
