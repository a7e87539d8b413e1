package subset_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localsearch/subset"
)

func universe(n int) []int {
	u := make([]int, n)
	for i := range u {
		u[i] = i
	}
	return u
}

func assertPartition(t *testing.T, s *subset.Solution, uni []int) {
	t.Helper()
	seen := make(map[int]bool, len(uni))
	for _, id := range s.SelectedIDs() {
		assert.False(t, seen[id], "id %d appears twice", id)
		seen[id] = true
	}
	for _, id := range s.UnselectedIDs() {
		assert.False(t, seen[id], "id %d appears in both selected and unselected", id)
		seen[id] = true
	}
	assert.Len(t, seen, len(uni), "selected ∪ unselected must equal the universe")
}

func TestSwapMoveUndoSoundness(t *testing.T) {
	uni := universe(10)
	s := subset.NewFromSelection(uni, []int{0, 1, 2})
	before := s.Clone()

	m := subset.NewSwapMove(5, 1)
	m.Apply(s)
	assert.NotEqual(t, before.SelectedIDs(), s.SelectedIDs())

	m.Undo(s)
	assert.Equal(t, before.SelectedIDs(), s.SelectedIDs())
	assert.Equal(t, before.UnselectedIDs(), s.UnselectedIDs())
}

func TestPartitionInvariantAfterSwaps(t *testing.T) {
	uni := universe(10)
	s := subset.NewFromSelection(uni, []int{0, 1, 2})
	sizeBefore := s.NumSelectedIDs()

	moves := []subset.SwapMove{
		subset.NewSwapMove(3, 0),
		subset.NewSwapMove(4, 1),
		subset.NewSwapMove(5, 2),
	}
	for _, m := range moves {
		m.Apply(s)
		assertPartition(t, s, uni)
		assert.Equal(t, sizeBefore, s.NumSelectedIDs(), "swap must preserve selection size")
	}
}

func TestSingleSwapNeighbourhoodAllMoves(t *testing.T) {
	uni := universe(5)
	s := subset.NewFromSelection(uni, []int{0, 1})
	n := subset.NewSingleSwapNeighbourhood()

	moves := n.GetAllMoves(s)
	assert.Len(t, moves, 2*3) // |selected| * |unselected|
}

func TestSingleSwapNeighbourhoodEmptyWhenFullySelected(t *testing.T) {
	uni := universe(3)
	s := subset.NewFromSelection(uni, uni)
	n := subset.NewSingleSwapNeighbourhood()

	assert.Empty(t, n.GetAllMoves(s))
	_, ok := n.GetRandomMove(s, rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

func TestSingleSwapNeighbourhoodRespectsFixedIDs(t *testing.T) {
	uni := universe(5)
	s := subset.NewFromSelection(uni, []int{3, 0, 1})
	n := subset.NewSingleSwapNeighbourhoodWithFixedIDs([]int{3})

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		move, ok := n.GetRandomMove(s, rng)
		require.True(t, ok)
		sm := move.(subset.SwapMove)
		assert.NotEqual(t, 3, sm.Add, "fixed ID must never be swapped in")
		assert.NotEqual(t, 3, sm.Del, "fixed ID must never be swapped out")
	}
	for _, m := range n.GetAllMoves(s) {
		sm := m.(subset.SwapMove)
		assert.NotEqual(t, 3, sm.Add)
		assert.NotEqual(t, 3, sm.Del)
	}
}

func TestSumProblemEvaluateAndDelta(t *testing.T) {
	uni := universe(10)
	score := func(id int) float64 { return float64(id) }
	p, err := subset.NewSumProblem(uni, score, 3, 3, true)
	require.NoError(t, err)

	s := subset.NewFromSelection(uni, []int{7, 8, 9})
	eval := p.Evaluate(s)
	assert.Equal(t, 24.0, eval.Value())

	move := subset.NewSwapMove(0, 7) // swap out the worst of the three, in the worst remaining
	delta := p.EvaluateMove(move, s, eval)
	assert.Equal(t, 24.0-7+0, delta.Value())
}

func TestSumProblemSizeConstraintPenalizes(t *testing.T) {
	uni := universe(5)
	p, err := subset.NewSumProblem(uni, func(int) float64 { return 1 }, 2, 2, true)
	require.NoError(t, err)

	s := subset.NewFromSelection(uni, []int{0, 1, 2})
	v := p.Validate(s)
	assert.False(t, v.Passed())
	assert.True(t, p.RejectSolution(s))

	s2 := subset.NewFromSelection(uni, []int{0, 1})
	assert.False(t, p.RejectSolution(s2))
}

func TestNewSumProblemRejectsInconsistentBounds(t *testing.T) {
	_, err := subset.NewSumProblem(universe(5), func(int) float64 { return 0 }, 4, 2, false)
	assert.ErrorIs(t, err, subset.ErrInconsistentSizeBounds)
}

func TestCreateRandomSolutionRespectsSizeBounds(t *testing.T) {
	uni := universe(5)
	p, err := subset.NewSumProblem(uni, func(int) float64 { return 0 }, 2, 2, true)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		s := p.CreateRandomSolution(rng)
		assert.Equal(t, 2, s.NumSelectedIDs())
	}
}
