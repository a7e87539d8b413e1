// Package problem defines the objective/constraint contract consumed by the
// search engine: evaluation, validation and random-solution construction.
package problem

import (
	"math/rand"

	"localsearch/neigh"
)

// Evaluation wraps the real-valued objective of a solution, plus optional
// opaque delta metadata produced by a problem's delta-evaluation path.
// Delta is never interpreted by the engine; it exists purely so a
// DeltaEvaluator can stash bookkeeping it will need on a later call.
type Evaluation struct {
	value float64
	Delta any
}

// NewEvaluation wraps a plain objective value.
func NewEvaluation(value float64) Evaluation {
	return Evaluation{value: value}
}

// WithDelta attaches opaque delta metadata to an evaluation.
func (e Evaluation) WithDelta(delta any) Evaluation {
	e.Delta = delta
	return e
}

// Value returns the wrapped objective value.
func (e Evaluation) Value() float64 {
	return e.value
}

// Validation reports whether a solution satisfies a problem's mandatory
// constraints.
type Validation interface {
	Passed() bool
}

// PenalizingValidation extends Validation with a nonnegative penalty that
// softly discourages a constraint violation instead of outright rejecting
// the solution. Penalty must be 0 iff Passed returns true.
type PenalizingValidation interface {
	Validation
	Penalty() float64
}

// SimpleValidation is a plain pass/fail Validation.
type SimpleValidation bool

// Passed implements Validation.
func (v SimpleValidation) Passed() bool { return bool(v) }

// Pass is the canonical passing SimpleValidation.
const Pass = SimpleValidation(true)

// Fail is the canonical failing SimpleValidation.
const Fail = SimpleValidation(false)

// SimplePenalizingValidation wraps a nonnegative penalty. Penalty 0 means
// the validation passed.
type SimplePenalizingValidation struct {
	penalty float64
}

// NewPenalizingValidation builds a SimplePenalizingValidation. A negative
// penalty is clamped to 0 and treated as passing.
func NewPenalizingValidation(penalty float64) SimplePenalizingValidation {
	if penalty < 0 {
		penalty = 0
	}
	return SimplePenalizingValidation{penalty: penalty}
}

// Passed implements Validation.
func (v SimplePenalizingValidation) Passed() bool { return v.penalty == 0 }

// Penalty implements PenalizingValidation.
func (v SimplePenalizingValidation) Penalty() float64 { return v.penalty }

// Problem is the objective/constraint contract for solutions of type S.
type Problem[S any] interface {
	// Evaluate computes the objective of a complete solution.
	Evaluate(s S) Evaluation
	// Validate checks a complete solution against the problem's constraints.
	Validate(s S) Validation
	// RejectSolution is a convenience: true iff Validate(s) fails mandatory
	// validation (Passed() == false).
	RejectSolution(s S) bool
	// CreateRandomSolution builds a solution drawn from the solution space,
	// reproducible given rng.
	CreateRandomSolution(rng *rand.Rand) S
	// Minimizing reports the optimization orientation: true to minimize the
	// objective, false to maximize it.
	Minimizing() bool
}

// DeltaEvaluator is an optional capability: a problem may evaluate the
// neighbour obtained by applying move to current more cheaply than a full
// re-evaluation, given the already-known evaluation of current.
type DeltaEvaluator[S any] interface {
	EvaluateMove(move neigh.Move[S], current S, currentEval Evaluation) Evaluation
}

// DeltaValidator is the validation analogue of DeltaEvaluator.
type DeltaValidator[S any] interface {
	ValidateMove(move neigh.Move[S], current S, currentValidation Validation) Validation
}

// Orientation returns +1 for maximizing problems and -1 for minimizing ones,
// so that delta := Orientation(p) * (newEval - oldEval) is positive exactly
// when newEval improves on oldEval.
func Orientation[S any](p Problem[S]) float64 {
	if p.Minimizing() {
		return -1
	}
	return 1
}

// Delta computes the signed improvement of newEval relative to oldEval,
// oriented so that a positive value always means "better", regardless of
// whether p maximizes or minimizes.
func Delta[S any](p Problem[S], newEval, oldEval Evaluation) float64 {
	return Orientation(p) * (newEval.Value() - oldEval.Value())
}
