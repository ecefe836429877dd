package model

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/schedkit/schedkit/pkg/ilp"
)

// SlackKind names the constraint family a slack variable relaxes.
type SlackKind string

const (
	SlackSubject     SlackKind = "Subject"
	SlackBatchClash  SlackKind = "BatchClash"
	SlackRoomClash   SlackKind = "RoomClash"
	SlackTeacherWeek SlackKind = "TeacherWeek"
	SlackTeacherDay  SlackKind = "TeacherDay"
	SlackFixedClass  SlackKind = "FixedClass"
)

// SlackMeta identifies one relaxable constraint instance: the family, the
// entity it concerns (subject, batch, room or teacher) and the context of the
// instance ("Mon-2", "All", "Math-Mon-1-R1", or the owning batch for the
// Subject kind).
type SlackMeta struct {
	Kind    SlackKind
	Entity  string
	Context string
}

// Violation reports a constraint instance the solver had to break, and by
// how much.
type Violation struct {
	SlackMeta
	Amount int64
}

func (v Violation) String() string {
	return fmt.Sprintf("%v | %v | %v | slack=%v", v.Kind, v.Entity, v.Context, v.Amount)
}

// slackRecord ties a registered slack variable to the constraint instance it
// relaxes.
type slackRecord struct {
	variable ilp.Var
	meta     SlackMeta
}

// collectViolations reports every slack the solver left nonzero, in slack
// registration order.
func collectViolations(slacks []slackRecord, solution ilp.Solution) []Violation {
	return lo.FilterMap(slacks, func(record slackRecord, _ int) (Violation, bool) {
		amount := solution.Values[record.variable]
		return Violation{SlackMeta: record.meta, Amount: amount}, amount > 0
	})
}

// slackBound is the configured ceiling of a family's slack variables.
func slackBound(kind SlackKind) int64 {
	switch kind {
	case SlackSubject:
		return subjectSlackMax
	case SlackBatchClash, SlackRoomClash:
		return clashSlackMax
	case SlackTeacherWeek:
		return teacherWeekSlackMax
	case SlackTeacherDay:
		return teacherDaySlackMax
	case SlackFixedClass:
		return fixedClassSlackMax
	}
	return 0
}
