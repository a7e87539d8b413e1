// Package paralleltempering implements parallel tempering (replica
// exchange): a ladder of replicas, each running an independent Metropolis
// random walk at its own fixed temperature, advance concurrently for a
// fixed number of steps and then pause so the orchestrator can attempt
// swaps between temperature-adjacent replicas. Unlike the other concrete
// searches in this module, parallel tempering genuinely needs multiple
// cooperating goroutines rather than a single step loop, so it is modeled
// as its own orchestrator over several *search.NeighbourhoodSearch[S]
// replicas instead of a single search.Stepper.
package paralleltempering

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"localsearch/neigh"
	"localsearch/problem"
	"localsearch/search"
	"localsearch/searchlog"
	"localsearch/solution"
	"localsearch/stopcrit"
)

// metropolisStepper draws one random move per step and accepts it
// unconditionally on improvement, otherwise with Metropolis probability
// exp(delta/temp), where delta is already oriented so positive means
// better (see problem.Delta).
type metropolisStepper[S solution.Type[S]] struct {
	temp float64
}

func (m *metropolisStepper[S]) Step(ns *search.NeighbourhoodSearch[S]) error {
	neighbourhoods := ns.Neighbourhoods()
	if len(neighbourhoods) == 0 {
		ns.Stop()
		return nil
	}
	cur, ok := ns.GetCurrentSolution()
	if !ok {
		return nil
	}
	n := neighbourhoods[ns.RNG().Intn(len(neighbourhoods))]
	move, ok := n.GetRandomMove(cur, ns.RNG())
	if !ok {
		return nil
	}
	if !ns.ValidateMove(move) {
		ns.RejectMove(move)
		return nil
	}
	curEval, _ := ns.GetCurrentSolutionEvaluation()
	delta := problem.Delta(ns.Problem(), ns.EvaluateMove(move), curEval)
	accept := delta > 0
	if !accept {
		accept = ns.RNG().Float64() < math.Exp(delta/m.temp)
	}
	if accept {
		ns.AcceptMove(move)
	} else {
		ns.RejectMove(move)
	}
	return nil
}

// ctxStopCriterion stops a replica's current round as soon as the run's
// context is cancelled, independent of its step-count stop criterion.
type ctxStopCriterion struct {
	ctx context.Context
}

func (c ctxStopCriterion) ShouldStop(stopcrit.SearchMetadata) bool {
	return c.ctx.Err() != nil
}

// Run orchestrates a ladder of replicas against a shared problem and
// neighbourhood set.
type Run[S solution.Type[S]] struct {
	cfg      Config
	prob     problem.Problem[S]
	neighs   []neigh.Neighbourhood[S]
	log      searchlog.Logger
	replicas []*search.NeighbourhoodSearch[S]
	temps    []float64
}

// Option configures a Run at construction time.
type Option[S solution.Type[S]] func(*Run[S])

// WithLogger overrides the default no-op logger, propagated to every
// replica.
func WithLogger[S solution.Type[S]](l searchlog.Logger) Option[S] {
	return func(r *Run[S]) { r.log = l }
}

// New validates cfg and constructs a Run with cfg.Replicas independently
// seeded replicas, each a *search.NeighbourhoodSearch[S] driven by a
// metropolisStepper at its own temperature.
func New[S solution.Type[S]](
	cfg Config,
	p problem.Problem[S],
	neighbourhoods []neigh.Neighbourhood[S],
	seed uint64,
	opts ...Option[S],
) (*Run[S], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("paralleltempering: problem must not be nil")
	}
	if len(neighbourhoods) == 0 {
		return nil, fmt.Errorf("paralleltempering: at least one neighbourhood is required")
	}
	r := &Run[S]{
		cfg:    cfg,
		prob:   p,
		neighs: neighbourhoods,
		log:    searchlog.NoOp(),
		temps:  cfg.temperatures(),
	}
	for _, opt := range opts {
		opt(r)
	}

	src := rand.New(rand.NewSource(int64(seed)))
	replicas := make([]*search.NeighbourhoodSearch[S], cfg.Replicas)
	for i := 0; i < cfg.Replicas; i++ {
		replicaRNG := rand.New(rand.NewSource(src.Int63()))
		stepper := &metropolisStepper[S]{temp: r.temps[i]}
		ns, err := search.NewNeighbourhoodSearch(
			fmt.Sprintf("paralleltempering-replica-%d", i),
			p, neighbourhoods, replicaRNG, stepper,
			search.WithLogger[S](r.log),
		)
		if err != nil {
			return nil, err
		}
		if err := ns.AddStopCriterion(stopcrit.MaxSteps{Steps: cfg.StepsPerRound}); err != nil {
			return nil, err
		}
		replicas[i] = ns
	}
	r.replicas = replicas
	return r, nil
}

// Replicas returns the ladder's underlying searches, ordered by ascending
// temperature. Exposed so callers can attach listeners (while every
// replica is Idle, i.e. before Run is called).
func (r *Run[S]) Replicas() []*search.NeighbourhoodSearch[S] { return r.replicas }

// Run drives every replica concurrently, round by round, attempting
// temperature-adjacent swaps between rounds, until ctx is cancelled. It
// returns the best solution and evaluation observed across all replicas.
func (r *Run[S]) Run(ctx context.Context) (best S, bestEval problem.Evaluation, err error) {
	for i, ns := range r.replicas {
		if err := ns.AddStopCriterion(ctxStopCriterion{ctx: ctx}); err != nil {
			var zero S
			return zero, problem.Evaluation{}, fmt.Errorf("paralleltempering: replica %d: %w", i, err)
		}
	}

	for ctx.Err() == nil {
		var g errgroup.Group
		for _, ns := range r.replicas {
			ns := ns
			g.Go(func() error {
				return ns.Start()
			})
		}
		if err := g.Wait(); err != nil {
			var zero S
			return zero, problem.Evaluation{}, err
		}
		if ctx.Err() != nil {
			break
		}
		r.attemptSwaps()
	}

	return r.bestAcrossReplicas()
}

// attemptSwaps walks the temperature ladder bottom-up, proposing a swap of
// current solutions between each pair of temperature-adjacent replicas with
// the standard parallel-tempering acceptance probability
// min(1, exp((beta_i - beta_j) * (e_i - e_j))), where e is the solution's
// energy (lower is better, regardless of the problem's own orientation)
// and beta = 1/temperature.
func (r *Run[S]) attemptSwaps() {
	orientation := problem.Orientation(r.prob)
	for i := 0; i < len(r.replicas)-1; i++ {
		j := i + 1
		ci, okI := r.replicas[i].GetCurrentSolution()
		ei, _ := r.replicas[i].GetCurrentSolutionEvaluation()
		cj, okJ := r.replicas[j].GetCurrentSolution()
		ej, _ := r.replicas[j].GetCurrentSolutionEvaluation()
		if !okI || !okJ {
			continue
		}

		energyI := -orientation * ei.Value()
		energyJ := -orientation * ej.Value()
		betaI := 1 / r.temps[i]
		betaJ := 1 / r.temps[j]
		delta := (betaI - betaJ) * (energyI - energyJ)

		accept := delta >= 0
		if !accept {
			accept = r.replicas[i].RNG().Float64() < math.Exp(delta)
		}
		if !accept {
			continue
		}
		// SetCurrentSolution requires Idle, which every replica is between
		// rounds; swap failures here would indicate a lifecycle bug, not a
		// recoverable runtime condition.
		if err := r.replicas[i].SetCurrentSolution(cj); err != nil {
			panic(fmt.Sprintf("paralleltempering: swap replica %d: %v", i, err))
		}
		if err := r.replicas[j].SetCurrentSolution(ci); err != nil {
			panic(fmt.Sprintf("paralleltempering: swap replica %d: %v", j, err))
		}
		r.log.Debug("replica swap accepted", "lo", i, "hi", j, "deltaEnergy", delta)
	}
}

func (r *Run[S]) bestAcrossReplicas() (best S, bestEval problem.Evaluation, err error) {
	var hasBest bool
	for _, ns := range r.replicas {
		eval, ok := ns.GetBestSolutionEvaluation()
		if !ok {
			continue
		}
		if !hasBest || problem.Delta(r.prob, eval, bestEval) > 0 {
			sol, _ := ns.GetBestSolution()
			best = sol
			bestEval = eval
			hasBest = true
		}
	}
	if !hasBest {
		return best, bestEval, fmt.Errorf("paralleltempering: no replica produced a solution")
	}
	return best, bestEval, nil
}
