package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/schedkit/schedkit/pkg/ilp"
)

// assembleConstraints runs the constraint families on separate goroutines and
// concatenates their contributions in family order, so slack registration
// stays deterministic.
func assembleConstraints(state constraintState) []softConstraint {
	families := []func(state constraintState) []softConstraint{
		subjectSessionConstraints,
		batchClashConstraints,
		roomClashConstraints,
		teacherLoadConstraints,
		fixedClassConstraints,
	}

	type contribution struct {
		family      int
		constraints []softConstraint
	}
	contributionsChannel := make(chan contribution)

	// Execute family functions on different goroutines to improve performance
	for i, family := range families {
		go func(i int, family func(state constraintState) []softConstraint) {
			contributionsChannel <- contribution{family: i, constraints: family(state)}
		}(i, family)
	}

	// Collect contributions into their family's slot
	collected := make([][]softConstraint, len(families))
	collectedFamilies := 0
	for received := range contributionsChannel {
		collected[received.family] = received.constraints

		// Check whether all families have been collected to properly close the channel
		if collectedFamilies++; collectedFamilies == len(families) {
			close(contributionsChannel)
		}
	}

	return lo.Flatten(collected)
}

// registerSoftConstraints declares one bounded slack per soft constraint,
// adds the relaxed constraint to the builder and puts the slack on the
// objective. The returned records follow constraint order.
func registerSoftConstraints(builder *ilp.Builder, constraints []softConstraint) []slackRecord {
	slacks := make([]slackRecord, 0, len(constraints))
	for _, soft := range constraints {
		slack := builder.Int(0, soft.slackMax)

		vars := append(slices.Clone(soft.vars), slack)
		if soft.equal {
			// sum(vars) + slack == rhs
			builder.Equal(vars, nil, soft.rhs)
		} else {
			// sum(vars) - slack <= rhs
			coeffs := make([]int64, len(vars))
			for i := range coeffs {
				coeffs[i] = 1
			}
			coeffs[len(coeffs)-1] = -1
			builder.LessEq(vars, coeffs, soft.rhs)
		}

		builder.MinimizeSum(slack)
		slacks = append(slacks, slackRecord{variable: slack, meta: soft.meta})
	}
	return slacks
}

// extractEntries turns the solved assignment into timetable rows, sorted by
// batch, day in grid order, slot, subject and room.
func extractEntries(space *variableSpace, input ScheduleInput, solution ilp.Solution) []Entry {
	entries := make([]Entry, 0)
	for i, key := range space.keys {
		if solution.Values[space.vars[i]] == 0 {
			continue
		}
		entries = append(entries, Entry{
			Day:     key.day,
			Slot:    key.slot,
			Batch:   key.batch,
			Subject: key.subject,
			Teacher: input.Subjects[key.subject].Teacher,
			Room:    key.room,
		})
	}

	dayIndex := make(map[string]int, len(input.Days))
	for i, day := range input.Days {
		dayIndex[day] = i
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := strings.Compare(a.Batch, b.Batch); c != 0 {
			return c
		}
		if c := dayIndex[a.Day] - dayIndex[b.Day]; c != 0 {
			return c
		}
		if c := a.Slot - b.Slot; c != 0 {
			return c
		}
		if c := strings.Compare(a.Subject, b.Subject); c != 0 {
			return c
		}
		return strings.Compare(a.Room, b.Room)
	})
	return entries
}

func verify(schedule *Schedule, input ScheduleInput) bool {
	if schedule == nil {
		return false
	}

	//** Rebuild the variable space to resolve entry references
	space := newVariableSpace(ilp.NewBuilder(), input)

	//** Index reported violations
	reported := make(map[SlackMeta]int64, len(schedule.Violations))
	var reportedTotal int64
	for _, violation := range schedule.Violations {
		// Check that the amount respects the family's slack ceiling
		if violation.Amount < 1 || violation.Amount > slackBound(violation.Kind) {
			return false
		}
		// Check that no rule instance is reported twice
		if _, ok := reported[violation.SlackMeta]; ok {
			return false
		}
		reported[violation.SlackMeta] = violation.Amount
		reportedTotal += violation.Amount
	}
	if reportedTotal != schedule.TotalSlack {
		return false
	}

	//** Tally entries per rule instance
	seen := make(map[classKey]bool, len(schedule.Entries))
	counts := make(map[SlackMeta]int64)
	for _, entry := range schedule.Entries {
		key := classKey{entry.Batch, entry.Subject, entry.Day, entry.Slot, entry.Room}
		// Check that:
		// - The entry names a declared candidate class
		// - No candidate class is scheduled twice
		// - The entry carries the subject's own teacher
		if _, ok := space.Var(key); !ok {
			return false
		}
		if seen[key] {
			return false
		}
		subject := input.Subjects[entry.Subject]
		if entry.Teacher != subject.Teacher {
			return false
		}
		seen[key] = true

		context := fmt.Sprintf("%v-%v", entry.Day, entry.Slot)
		counts[SlackMeta{Kind: SlackSubject, Entity: entry.Subject, Context: entry.Batch}]++
		counts[SlackMeta{Kind: SlackBatchClash, Entity: entry.Batch, Context: context}]++
		counts[SlackMeta{Kind: SlackRoomClash, Entity: entry.Room, Context: context}]++
		counts[SlackMeta{Kind: SlackTeacherWeek, Entity: subject.Teacher, Context: "All"}]++
		counts[SlackMeta{Kind: SlackTeacherDay, Entity: subject.Teacher, Context: entry.Day}]++
	}

	//** Re-check every rule instance against its reported slack
	declared := make(map[SlackMeta]bool)

	for name, subject := range input.Subjects {
		meta := SlackMeta{Kind: SlackSubject, Entity: name, Context: subject.Batch}
		declared[meta] = true
		if counts[meta] != int64(subject.SessionsPerWeek)-reported[meta] {
			return false
		}
	}

	for _, batch := range input.Batches {
		for _, day := range input.Days {
			for _, slot := range input.Slots {
				meta := SlackMeta{Kind: SlackBatchClash, Entity: batch, Context: fmt.Sprintf("%v-%v", day, slot)}
				declared[meta] = true
				if counts[meta] > 1+reported[meta] {
					return false
				}
			}
		}
	}

	for _, room := range input.Rooms {
		for _, day := range input.Days {
			for _, slot := range input.Slots {
				meta := SlackMeta{Kind: SlackRoomClash, Entity: room, Context: fmt.Sprintf("%v-%v", day, slot)}
				declared[meta] = true
				if counts[meta] > 1+reported[meta] {
					return false
				}
			}
		}
	}

	for name, teacher := range input.Teachers {
		meta := SlackMeta{Kind: SlackTeacherWeek, Entity: name, Context: "All"}
		declared[meta] = true
		if counts[meta] > int64(teacher.MaxLoad)+reported[meta] {
			return false
		}
		for _, day := range input.Days {
			dayMeta := SlackMeta{Kind: SlackTeacherDay, Entity: name, Context: day}
			declared[dayMeta] = true
			if counts[dayMeta] > int64(input.MaxClassesPerDay)+reported[dayMeta] {
				return false
			}
		}
	}

	for _, fixed := range input.FixedClasses {
		meta := SlackMeta{
			Kind:    SlackFixedClass,
			Entity:  fixed.Batch,
			Context: fmt.Sprintf("%v-%v-%v-%v", fixed.Subject, fixed.Day, fixed.Slot, fixed.Room),
		}
		declared[meta] = true
		realized := seen[classKey{fixed.Batch, fixed.Subject, fixed.Day, fixed.Slot, fixed.Room}]
		// An honored pin carries no slack, an unhonored one carries exactly one unit
		if realized && reported[meta] != 0 {
			return false
		}
		if !realized && reported[meta] != 1 {
			return false
		}
	}

	// Check that every reported violation names a declared rule instance
	for meta := range reported {
		if !declared[meta] {
			return false
		}
	}

	return true
}
