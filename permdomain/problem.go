package permdomain

import (
	"errors"
	"fmt"
	"math/rand"

	"localsearch/problem"
)

// ErrInvalidInstance is returned by NewFlowShopProblem when the processing
// time matrix is inconsistent with the declared job/machine counts.
var ErrInvalidInstance = errors.New("permdomain: invalid flow-shop instance")

// FlowShopProblem is the permutation flow-shop scheduling problem: find a
// job order minimizing the makespan across a sequence of machines, each job
// processed on every machine in the same order.
type FlowShopProblem struct {
	jobs, machines int
	procTimes      []int // job*machines + machine
}

var _ problem.Problem[*Solution] = (*FlowShopProblem)(nil)

// NewFlowShopProblem builds a FlowShopProblem. procTimes must have length
// jobs*machines, row-major by job.
func NewFlowShopProblem(jobs, machines int, procTimes []int) (*FlowShopProblem, error) {
	if jobs <= 0 || machines <= 0 {
		return nil, fmt.Errorf("%w: jobs=%d machines=%d", ErrInvalidInstance, jobs, machines)
	}
	if len(procTimes) != jobs*machines {
		return nil, fmt.Errorf("%w: procTimes length must be %d (got %d)", ErrInvalidInstance, jobs*machines, len(procTimes))
	}
	for i, v := range procTimes {
		if v < 0 {
			return nil, fmt.Errorf("%w: procTimes[%d]=%d must be >= 0", ErrInvalidInstance, i, v)
		}
	}
	pt := make([]int, len(procTimes))
	copy(pt, procTimes)
	return &FlowShopProblem{jobs: jobs, machines: machines, procTimes: pt}, nil
}

// RandomFlowShopProblem builds a FlowShopProblem with processing times
// drawn uniformly from [minTime, maxTime].
func RandomFlowShopProblem(jobs, machines, minTime, maxTime int, rng *rand.Rand) (*FlowShopProblem, error) {
	if maxTime < minTime {
		return nil, fmt.Errorf("%w: maxTime %d < minTime %d", ErrInvalidInstance, maxTime, minTime)
	}
	pt := make([]int, jobs*machines)
	span := maxTime - minTime + 1
	for i := range pt {
		pt[i] = minTime
		if span > 1 {
			pt[i] += rng.Intn(span)
		}
	}
	return NewFlowShopProblem(jobs, machines, pt)
}

func (p *FlowShopProblem) time(job, machine int) int {
	return p.procTimes[job*p.machines+machine]
}

// Makespan computes the completion time of the last job on the last
// machine for the given job order.
func (p *FlowShopProblem) Makespan(order []int) int {
	completion := make([]int, p.machines)
	for _, job := range order {
		completion[0] += p.time(job, 0)
		for m := 1; m < p.machines; m++ {
			left := completion[m-1]
			up := completion[m]
			if left > up {
				completion[m] = left + p.time(job, m)
			} else {
				completion[m] = up + p.time(job, m)
			}
		}
	}
	return completion[p.machines-1]
}

// Evaluate implements problem.Problem.
func (p *FlowShopProblem) Evaluate(s *Solution) problem.Evaluation {
	return problem.NewEvaluation(float64(p.Makespan(s.Order())))
}

// Validate implements problem.Problem: every Solution constructed through
// this package is, by invariant, a permutation of [0, jobs), so validation
// always passes.
func (p *FlowShopProblem) Validate(*Solution) problem.Validation {
	return problem.Pass
}

// RejectSolution implements problem.Problem.
func (p *FlowShopProblem) RejectSolution(*Solution) bool { return false }

// CreateRandomSolution implements problem.Problem.
func (p *FlowShopProblem) CreateRandomSolution(rng *rand.Rand) *Solution {
	s := Identity(p.jobs)
	rng.Shuffle(len(s.order), func(i, j int) { s.order[i], s.order[j] = s.order[j], s.order[i] })
	return s
}

// Minimizing implements problem.Problem.
func (p *FlowShopProblem) Minimizing() bool { return true }
