package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/schedkit/schedkit/pkg/ilp"
)

type slackScheduler struct {
	solver ilp.Solver
	logger *zap.Logger
}

// NewScheduler returns a Scheduler that formulates every scheduling rule as a
// soft constraint and asks solver for an assignment of minimum total
// violation. A nil logger disables logging.
func NewScheduler(solver ilp.Solver, logger *zap.Logger) Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &slackScheduler{
		solver: solver,
		logger: logger,
	}
}

func (scheduler *slackScheduler) BuildAndSolve(input ScheduleInput) (*Schedule, error) {
	//** Declare decision variables
	builder := ilp.NewBuilder()
	space := newVariableSpace(builder, input)

	//** Assemble constraint families
	state := constraintState{input: input, space: space}
	softConstraints := assembleConstraints(state)

	//** Register slacks and compose the objective
	slacks := registerSoftConstraints(builder, softConstraints)

	model := builder.Model()
	scheduler.logger.Info("model finalized",
		zap.Int("classes", space.size()),
		zap.Int("variables", model.NumVariables()),
		zap.Int("constraints", model.NumConstraints()),
	)

	//** Solve
	solution, err := scheduler.solver.Solve(model)
	if err != nil {
		return nil, fmt.Errorf("solver failed: %w", err)
	}
	if solution.Status == ilp.StatusNoSolution { // Return nil if no assignment was found within the budget
		scheduler.logger.Warn("no assignment found within the time budget")
		return nil, nil
	}

	//** Report relaxed rules
	violations := collectViolations(slacks, solution)
	for _, violation := range violations {
		scheduler.logger.Warn("rule relaxed",
			zap.String("kind", string(violation.Kind)),
			zap.String("entity", violation.Entity),
			zap.String("context", violation.Context),
			zap.Int64("slack", violation.Amount),
		)
	}

	//** Extract the timetable
	schedule := &Schedule{
		Entries:     extractEntries(space, input, solution),
		Violations:  violations,
		TotalSlack:  solution.Objective,
		Variables:   model.NumVariables(),
		Constraints: model.NumConstraints(),
	}
	scheduler.logger.Info("schedule extracted",
		zap.String("status", solution.Status.String()),
		zap.Int("entries", len(schedule.Entries)),
		zap.Int("violations", len(violations)),
		zap.Int64("totalSlack", schedule.TotalSlack),
	)
	return schedule, nil
}

func (scheduler *slackScheduler) Verify(schedule *Schedule, input ScheduleInput) bool {
	return verify(schedule, input)
}
