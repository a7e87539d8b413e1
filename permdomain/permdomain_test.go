package permdomain_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localsearch/permdomain"
)

func TestNewFlowShopProblemValidatesDimensions(t *testing.T) {
	_, err := permdomain.NewFlowShopProblem(0, 3, nil)
	assert.ErrorIs(t, err, permdomain.ErrInvalidInstance)

	_, err = permdomain.NewFlowShopProblem(2, 3, []int{1, 2, 3})
	assert.ErrorIs(t, err, permdomain.ErrInvalidInstance)

	_, err = permdomain.NewFlowShopProblem(1, 2, []int{1, -1})
	assert.ErrorIs(t, err, permdomain.ErrInvalidInstance)
}

func TestMakespanTwoJobsTwoMachines(t *testing.T) {
	// Job 0: (5, 1), Job 1: (1, 5).
	p, err := permdomain.NewFlowShopProblem(2, 2, []int{5, 1, 1, 5})
	require.NoError(t, err)

	// Order [0, 1]: machine0 finishes job0 at 5, job1 at 6.
	// machine1 finishes job0 at max(5,0)+1=6, job1 at max(6,6)+5=11.
	assert.Equal(t, 11, p.Makespan([]int{0, 1}))

	// Order [1, 0]: machine0 finishes job1 at 1, job0 at 6.
	// machine1 finishes job1 at max(1,0)+5=6, job0 at max(6,6)+1=7.
	assert.Equal(t, 7, p.Makespan([]int{1, 0}))
}

func TestFlowShopProblemEvaluateMatchesMakespan(t *testing.T) {
	p, err := permdomain.NewFlowShopProblem(3, 2, []int{
		3, 2,
		1, 4,
		2, 2,
	})
	require.NoError(t, err)

	s := permdomain.New([]int{1, 0, 2})
	eval := p.Evaluate(s)
	assert.Equal(t, float64(p.Makespan(s.Order())), eval.Value())
}

func TestFlowShopProblemIsMinimizing(t *testing.T) {
	p, err := permdomain.NewFlowShopProblem(1, 1, []int{4})
	require.NoError(t, err)
	assert.True(t, p.Minimizing())
}

func TestCreateRandomSolutionIsAPermutation(t *testing.T) {
	p, err := permdomain.NewFlowShopProblem(6, 3, make([]int, 18))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	s := p.CreateRandomSolution(rng)
	assert.Len(t, s.Order(), 6)

	seen := make(map[int]bool)
	for _, job := range s.Order() {
		assert.False(t, seen[job], "job %d repeated in permutation", job)
		seen[job] = true
	}
	assert.Len(t, seen, 6)
}

func TestSolutionEqualsAndClone(t *testing.T) {
	a := permdomain.New([]int{0, 1, 2})
	b := a.Clone()
	assert.True(t, a.Equals(b))

	b.Order()[0], b.Order()[1] = b.Order()[1], b.Order()[0]
	assert.False(t, a.Equals(b))
	// Original must be untouched by mutation of the clone.
	assert.Equal(t, []int{0, 1, 2}, a.Order())
}

func TestSwapMoveUndoSoundness(t *testing.T) {
	s := permdomain.Identity(5)
	before := append([]int(nil), s.Order()...)

	m := permdomain.SwapMove{I: 1, J: 3}
	m.Apply(s)
	assert.NotEqual(t, before, s.Order())
	m.Undo(s)
	assert.Equal(t, before, s.Order())
}

func TestInsertMoveUndoSoundness(t *testing.T) {
	s := permdomain.Identity(6)
	before := append([]int(nil), s.Order()...)

	m := permdomain.InsertMove{From: 1, To: 4}
	m.Apply(s)
	assert.NotEqual(t, before, s.Order())
	m.Undo(s)
	assert.Equal(t, before, s.Order())

	m2 := permdomain.InsertMove{From: 4, To: 1}
	m2.Apply(s)
	m2.Undo(s)
	assert.Equal(t, before, s.Order())
}

func TestSwapNeighbourhoodAllMovesCoversEveryPair(t *testing.T) {
	s := permdomain.Identity(4)
	moves := permdomain.SwapNeighbourhood{}.GetAllMoves(s)
	assert.Len(t, moves, 6) // C(4,2)
}

func TestInsertNeighbourhoodAllMovesExcludesIdentity(t *testing.T) {
	s := permdomain.Identity(4)
	moves := permdomain.InsertNeighbourhood{}.GetAllMoves(s)
	assert.Len(t, moves, 12) // 4*3
	for _, mv := range moves {
		im := mv.(permdomain.InsertMove)
		assert.NotEqual(t, im.From, im.To)
	}
}

func TestSwapNeighbourhoodRandomMoveRequiresTwoPositions(t *testing.T) {
	s := permdomain.Identity(1)
	_, ok := permdomain.SwapNeighbourhood{}.GetRandomMove(s, rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

func TestInsertNeighbourhoodRandomMoveProducesDistinctPositions(t *testing.T) {
	s := permdomain.Identity(5)
	rng := rand.New(rand.NewSource(4))
	mv, ok := permdomain.InsertNeighbourhood{}.GetRandomMove(s, rng)
	require.True(t, ok)
	im := mv.(permdomain.InsertMove)
	assert.NotEqual(t, im.From, im.To)
}
