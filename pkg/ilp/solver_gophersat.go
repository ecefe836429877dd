package ilp

import (
	"time"

	"github.com/crillab/gophersat/solver"
)

type gophersatSolver struct {
	timeout time.Duration
}

// NewGophersatSolver returns a pure-Go Solver backed by gophersat's
// pseudo-boolean optimizer. Bounded integers are flattened to unary bits, so
// the backend is suited to the narrow slack domains of scheduling models. A
// non-positive timeout falls back to DefaultTimeout.
func NewGophersatSolver(timeout time.Duration) Solver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &gophersatSolver{timeout: timeout}
}

type gophersatOutcome struct {
	cost int
	bits []bool
}

func (s *gophersatSolver) Solve(model Model) (Solution, error) {
	pb := toPseudoBoolean(model)
	if pb.infeasible {
		return Solution{Status: StatusNoSolution}, nil
	}

	constrs := make([]solver.PBConstr, 0, len(pb.constraints))
	for _, constr := range pb.constraints {
		constrs = append(constrs, solver.GtEq(constr.lits, constr.coeffs, constr.atLeast))
	}

	costLits := make([]solver.Lit, 0, len(pb.objective))
	weights := make([]int, 0, len(pb.objective))
	for _, bit := range pb.objective {
		costLits = append(costLits, solver.IntToLit(int32(bit)))
		weights = append(weights, 1)
	}

	problem := solver.ParsePBConstrs(constrs)
	problem.SetCostFunc(costLits, weights)
	engine := solver.New(problem)

	outcomes := make(chan gophersatOutcome, 1)
	go func() {
		cost := engine.Minimize()
		if cost < 0 {
			outcomes <- gophersatOutcome{cost: -1}
			return
		}
		outcomes <- gophersatOutcome{cost: cost, bits: engine.Model()}
	}()

	select {
	case outcome := <-outcomes:
		if outcome.cost < 0 {
			return Solution{Status: StatusNoSolution}, nil
		}
		return Solution{
			Status:    StatusOptimal,
			Values:    pb.decode(outcome.bits),
			Objective: int64(outcome.cost) + pb.objectiveBase,
		}, nil
	case <-time.After(s.timeout):
		// The engine exposes no interruption hook; an expired solve is
		// abandoned along with its goroutine.
		return Solution{Status: StatusNoSolution}, nil
	}
}
