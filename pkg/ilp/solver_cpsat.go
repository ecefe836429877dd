package ilp

import (
	"fmt"
	"math"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"
)

type cpsatSolver struct {
	timeout time.Duration
}

// NewCpsatSolver returns a Solver backed by OR-Tools CP-SAT. A non-positive
// timeout falls back to DefaultTimeout.
func NewCpsatSolver(timeout time.Duration) Solver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &cpsatSolver{timeout: timeout}
}

func (s *cpsatSolver) Solve(model Model) (Solution, error) {
	builder := cpmodel.NewCpModelBuilder()

	vars := make([]cpmodel.IntVar, len(model.domains))
	for i, d := range model.domains {
		vars[i] = builder.NewIntVar(d.lb, d.ub)
	}

	for _, c := range model.constraints {
		expr := cpmodel.NewLinearExpr()
		for i, v := range c.vars {
			expr.AddTerm(vars[v], c.coeff(i))
		}
		switch c.sense {
		case senseEq:
			builder.AddEquality(expr, cpmodel.NewConstant(c.rhs))
		case senseLe:
			builder.AddLessOrEqual(expr, cpmodel.NewConstant(c.rhs))
		}
	}

	objective := cpmodel.NewLinearExpr()
	for _, v := range model.objective {
		objective.Add(vars[v])
	}
	builder.Minimize(objective)

	modelProto, err := builder.Model()
	if err != nil {
		return Solution{}, fmt.Errorf("cannot build cp-sat model: %v", err)
	}
	params := &sppb.SatParameters{
		MaxTimeInSeconds: proto.Float64(s.timeout.Seconds()),
	}
	response, err := cpmodel.SolveCpModelWithParameters(modelProto, params)
	if err != nil {
		return Solution{}, fmt.Errorf("cp-sat execution failed: %v", err)
	}

	status := response.GetStatus()
	if status != cmpb.CpSolverStatus_OPTIMAL && status != cmpb.CpSolverStatus_FEASIBLE {
		return Solution{Status: StatusNoSolution}, nil
	}

	values := make([]int64, len(vars))
	for i, v := range vars {
		values[i] = cpmodel.SolutionIntegerValue(response, v)
	}

	solution := Solution{
		Status:    StatusFeasible,
		Values:    values,
		Objective: int64(math.Round(response.GetObjectiveValue())),
	}
	if status == cmpb.CpSolverStatus_OPTIMAL {
		solution.Status = StatusOptimal
	}
	return solution, nil
}
