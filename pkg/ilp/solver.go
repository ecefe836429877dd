package ilp

import "time"

// DefaultTimeout bounds a solve whenever the caller passes a non-positive
// budget to a solver constructor.
const DefaultTimeout = 30 * time.Second

// Status describes the outcome of a solve.
type Status uint8

const (
	// StatusNoSolution means no assignment was found within the budget.
	StatusNoSolution Status = iota
	// StatusFeasible means an assignment was found but optimality was not
	// proven before the budget ran out.
	StatusFeasible
	// StatusOptimal means the returned assignment was proven minimal.
	StatusOptimal
)

func (s Status) String() string {
	switch s {
	case StatusNoSolution:
		return "no-solution"
	case StatusFeasible:
		return "feasible"
	case StatusOptimal:
		return "optimal"
	}
	return "unknown"
}

// Solution is the assignment found by a Solver. Values is indexed by Var and
// is nil when Status is StatusNoSolution; Objective is the achieved objective
// value.
type Solution struct {
	Status    Status
	Values    []int64
	Objective int64
}

// Solver solves a finalized Model. The absence of a solution is reported
// through StatusNoSolution, not through an error: the error return is
// reserved for engine faults.
type Solver interface {
	Solve(model Model) (Solution, error)
}
