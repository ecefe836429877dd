package model

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/schedkit/schedkit/pkg/ilp"
)

// Slack ceilings per constraint family, sized for the default five-day,
// five-slot grid.
const (
	subjectSlackMax     = 10
	clashSlackMax       = 1
	teacherWeekSlackMax = 20
	teacherDaySlackMax  = 5
	fixedClassSlackMax  = 1
)

type constraintState struct {
	input ScheduleInput
	space *variableSpace
}

// softConstraint is one relaxable rule instance over the decision variables:
// sum(vars) + slack == rhs when equal is set, sum(vars) - slack <= rhs
// otherwise, with the slack bounded by slackMax and tagged with meta.
type softConstraint struct {
	vars     []ilp.Var
	rhs      int64
	equal    bool
	slackMax int64
	meta     SlackMeta
}

// Each subject must realize exactly its weekly session count, anywhere on the
// grid and in any room.
func subjectSessionConstraints(state constraintState) []softConstraint {
	constraints := make([]softConstraint, 0, len(state.input.Subjects))
	for _, name := range sortedSubjectNames(state.input.Subjects) {
		subject := state.input.Subjects[name]

		vars := make([]ilp.Var, 0)
		for _, day := range state.input.Days {
			for _, slot := range state.input.Slots {
				for _, room := range state.input.Rooms {
					vars = append(vars, state.space.mustVar(classKey{subject.Batch, name, day, slot, room}))
				}
			}
		}

		constraints = append(constraints, softConstraint{
			vars:     vars,
			rhs:      int64(subject.SessionsPerWeek),
			equal:    true,
			slackMax: subjectSlackMax,
			meta:     SlackMeta{Kind: SlackSubject, Entity: name, Context: subject.Batch},
		})
	}
	return constraints
}

// A batch attends at most one class per day and slot.
func batchClashConstraints(state constraintState) []softConstraint {
	subjectNames := sortedSubjectNames(state.input.Subjects)

	constraints := make([]softConstraint, 0)
	for _, batch := range state.input.Batches {
		names := lo.Filter(subjectNames, func(name string, _ int) bool {
			return state.input.Subjects[name].Batch == batch
		})

		for _, day := range state.input.Days {
			for _, slot := range state.input.Slots {
				vars := make([]ilp.Var, 0, len(names)*len(state.input.Rooms))
				for _, name := range names {
					for _, room := range state.input.Rooms {
						vars = append(vars, state.space.mustVar(classKey{batch, name, day, slot, room}))
					}
				}

				constraints = append(constraints, softConstraint{
					vars:     vars,
					rhs:      1,
					slackMax: clashSlackMax,
					meta:     SlackMeta{Kind: SlackBatchClash, Entity: batch, Context: fmt.Sprintf("%v-%v", day, slot)},
				})
			}
		}
	}
	return constraints
}

// A room hosts at most one class per day and slot, across all batches.
func roomClashConstraints(state constraintState) []softConstraint {
	subjectNames := sortedSubjectNames(state.input.Subjects)

	constraints := make([]softConstraint, 0)
	for _, room := range state.input.Rooms {
		for _, day := range state.input.Days {
			for _, slot := range state.input.Slots {
				vars := make([]ilp.Var, 0, len(subjectNames))
				for _, name := range subjectNames {
					subject := state.input.Subjects[name]
					vars = append(vars, state.space.mustVar(classKey{subject.Batch, name, day, slot, room}))
				}

				constraints = append(constraints, softConstraint{
					vars:     vars,
					rhs:      1,
					slackMax: clashSlackMax,
					meta:     SlackMeta{Kind: SlackRoomClash, Entity: room, Context: fmt.Sprintf("%v-%v", day, slot)},
				})
			}
		}
	}
	return constraints
}

// A teacher's week is capped by MaxLoad and each of their days by the shared
// MaxClassesPerDay, one cap instance per declared teacher. Subjects naming an
// undeclared teacher contribute to no cap.
func teacherLoadConstraints(state constraintState) []softConstraint {
	subjectNames := sortedSubjectNames(state.input.Subjects)

	constraints := make([]softConstraint, 0)
	for _, teacherName := range sortedTeacherNames(state.input.Teachers) {
		teacher := state.input.Teachers[teacherName]
		names := lo.Filter(subjectNames, func(name string, _ int) bool {
			return state.input.Subjects[name].Teacher == teacherName
		})

		weekVars := make([]ilp.Var, 0)
		dayVars := make(map[string][]ilp.Var, len(state.input.Days))
		for _, name := range names {
			subject := state.input.Subjects[name]
			for _, day := range state.input.Days {
				for _, slot := range state.input.Slots {
					for _, room := range state.input.Rooms {
						variable := state.space.mustVar(classKey{subject.Batch, name, day, slot, room})
						weekVars = append(weekVars, variable)
						dayVars[day] = append(dayVars[day], variable)
					}
				}
			}
		}

		constraints = append(constraints, softConstraint{
			vars:     weekVars,
			rhs:      int64(teacher.MaxLoad),
			slackMax: teacherWeekSlackMax,
			meta:     SlackMeta{Kind: SlackTeacherWeek, Entity: teacherName, Context: "All"},
		})
		for _, day := range state.input.Days {
			constraints = append(constraints, softConstraint{
				vars:     dayVars[day],
				rhs:      int64(state.input.MaxClassesPerDay),
				slackMax: teacherDaySlackMax,
				meta:     SlackMeta{Kind: SlackTeacherDay, Entity: teacherName, Context: day},
			})
		}
	}
	return constraints
}

// Every fixed class is pinned to its exact placement. The slack records an
// unhonored pin instead of making the model infeasible.
func fixedClassConstraints(state constraintState) []softConstraint {
	constraints := make([]softConstraint, 0, len(state.input.FixedClasses))
	for _, fixed := range state.input.FixedClasses {
		variable := state.space.mustVar(classKey{fixed.Batch, fixed.Subject, fixed.Day, fixed.Slot, fixed.Room})
		constraints = append(constraints, softConstraint{
			vars:     []ilp.Var{variable},
			rhs:      1,
			equal:    true,
			slackMax: fixedClassSlackMax,
			meta: SlackMeta{
				Kind:    SlackFixedClass,
				Entity:  fixed.Batch,
				Context: fmt.Sprintf("%v-%v-%v-%v", fixed.Subject, fixed.Day, fixed.Slot, fixed.Room),
			},
		})
	}
	return constraints
}
