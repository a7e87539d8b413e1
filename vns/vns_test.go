package vns_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localsearch/neigh"
	"localsearch/permdomain"
	"localsearch/search"
	"localsearch/stopcrit"
	"localsearch/subset"
	"localsearch/vns"
)

func TestVNSFindsOptimalFixedSizeSelection(t *testing.T) {
	universe := make([]int, 10)
	for i := range universe {
		universe[i] = i
	}
	p, err := subset.NewSumProblem(universe, func(id int) float64 { return float64(id) }, 3, 3, true)
	require.NoError(t, err)

	ns, err := search.NewNeighbourhoodSearch[*subset.Solution](
		"vns", p,
		[]neigh.Neighbourhood[*subset.Solution]{subset.NewSingleSwapNeighbourhood()},
		rand.New(rand.NewSource(1)),
		vns.New[*subset.Solution](),
	)
	require.NoError(t, err)
	require.NoError(t, ns.SetCurrentSolution(subset.NewFromSelection(universe, []int{0, 1, 2})))
	require.NoError(t, ns.AddStopCriterion(stopcrit.MaxSteps{Steps: 1000}))

	require.NoError(t, ns.Start())

	best, ok := ns.GetBestSolutionEvaluation()
	require.True(t, ok)
	assert.Equal(t, 24.0, best.Value())
}

func TestVNSAdvancesThroughMultipleNeighbourhoods(t *testing.T) {
	inst, err := permdomain.NewFlowShopProblem(4, 3, []int{
		5, 3, 2,
		1, 6, 4,
		4, 2, 5,
		3, 3, 3,
	})
	require.NoError(t, err)

	ns, err := search.NewNeighbourhoodSearch[*permdomain.Solution](
		"vns-flowshop", inst,
		[]neigh.Neighbourhood[*permdomain.Solution]{
			permdomain.SwapNeighbourhood{},
			permdomain.InsertNeighbourhood{},
		},
		rand.New(rand.NewSource(2)),
		vns.New[*permdomain.Solution](),
	)
	require.NoError(t, err)
	require.NoError(t, ns.SetCurrentSolution(permdomain.Identity(4)))
	require.NoError(t, ns.AddStopCriterion(stopcrit.MaxSteps{Steps: 500}))

	require.NoError(t, ns.Start())

	// The search must converge (self-stop) well before the step cap, since
	// the flow-shop instance is tiny and both neighbourhoods are finite.
	assert.Less(t, ns.GetSteps(), int64(500))
	_, ok := ns.GetBestSolutionEvaluation()
	require.True(t, ok)
}
