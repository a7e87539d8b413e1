package randomdescent_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localsearch/neigh"
	"localsearch/problem"
	"localsearch/randomdescent"
	"localsearch/search"
	"localsearch/stopcrit"
	"localsearch/subset"
)

// TestRandomDescentPreservesSelectionSize is scenario S3: universe 5,
// subset size 2, single-swap, random descent with MaxSteps=1000. Every
// observed solution must have exactly 2 selected IDs.
func TestRandomDescentPreservesSelectionSize(t *testing.T) {
	universe := []int{0, 1, 2, 3, 4}
	p, err := subset.NewSumProblem(universe, func(id int) float64 { return float64(id) }, 2, 2, true)
	require.NoError(t, err)

	ns, err := search.NewNeighbourhoodSearch[*subset.Solution](
		"s3", p,
		[]neigh.Neighbourhood[*subset.Solution]{subset.NewSingleSwapNeighbourhood()},
		rand.New(rand.NewSource(3)),
		randomdescent.New[*subset.Solution](),
	)
	require.NoError(t, err)
	require.NoError(t, ns.SetCurrentSolution(subset.NewFromSelection(universe, []int{0, 1})))
	require.NoError(t, ns.AddStopCriterion(stopcrit.MaxSteps{Steps: 1000}))

	var sizes []int
	recorder := &sizeRecorder{onModified: func(s *subset.Solution) {
		sizes = append(sizes, s.NumSelectedIDs())
	}}
	require.NoError(t, ns.AddSearchListener(recorder))

	require.NoError(t, ns.Start())

	require.NotEmpty(t, sizes)
	for _, size := range sizes {
		assert.Equal(t, 2, size)
	}
}

type sizeRecorder struct {
	search.BaseNeighbourhoodListener[*subset.Solution]
	onModified func(*subset.Solution)
}

func (r *sizeRecorder) ModifiedCurrentSolution(_ *search.NeighbourhoodSearch[*subset.Solution], newCurrent *subset.Solution, _ problem.Evaluation) {
	r.onModified(newCurrent)
}

func TestRandomDescentOnlyAcceptsImprovements(t *testing.T) {
	universe := []int{0, 1, 2, 3, 4, 5}
	p, err := subset.NewSumProblem(universe, func(id int) float64 { return float64(id) }, 3, 3, true)
	require.NoError(t, err)

	ns, err := search.NewNeighbourhoodSearch[*subset.Solution](
		"improve-only", p,
		[]neigh.Neighbourhood[*subset.Solution]{subset.NewSingleSwapNeighbourhood()},
		rand.New(rand.NewSource(9)),
		randomdescent.New[*subset.Solution](),
	)
	require.NoError(t, err)
	require.NoError(t, ns.SetCurrentSolution(subset.NewFromSelection(universe, []int{0, 1, 2})))
	require.NoError(t, ns.AddStopCriterion(stopcrit.MaxSteps{Steps: 500}))

	require.NoError(t, ns.Start())

	accepted := ns.GetNumAcceptedMoves()
	rejected := ns.GetNumRejectedMoves()
	assert.EqualValues(t, 500, accepted+rejected)
	assert.Greater(t, accepted, int64(0))

	// Only improving moves are accepted, so the current solution is always
	// the best one seen.
	curEval, ok := ns.GetCurrentSolutionEvaluation()
	require.True(t, ok)
	bestEval, ok := ns.GetBestSolutionEvaluation()
	require.True(t, ok)
	assert.Equal(t, bestEval.Value(), curEval.Value())
}
