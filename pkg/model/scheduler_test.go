package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schedkit/schedkit/pkg/ilp"
)

func referenceInput() ScheduleInput {
	return ScheduleInput{
		Rooms:   []string{"R1"},
		Batches: []string{"B1"},
		Subjects: map[string]Subject{
			"Math":    {Name: "Math", Batch: "B1", Teacher: "T1", SessionsPerWeek: 6},
			"Physics": {Name: "Physics", Batch: "B1", Teacher: "T1", SessionsPerWeek: 6},
		},
		Teachers: map[string]Teacher{
			"T1": {Name: "T1", MaxLoad: 12},
		},
		FixedClasses: []FixedClass{
			{Batch: "B1", Subject: "Math", Day: "Mon", Slot: 1, Room: "R1"},
		},
		Days:             []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		Slots:            []int{1, 2, 3, 4, 5},
		MaxClassesPerDay: 5,
	}
}

func overloadedInput() ScheduleInput {
	return ScheduleInput{
		Rooms:   []string{"R1"},
		Batches: []string{"B1"},
		Subjects: map[string]Subject{
			"Math": {Name: "Math", Batch: "B1", Teacher: "T1", SessionsPerWeek: 30},
		},
		Teachers: map[string]Teacher{
			"T1": {Name: "T1", MaxLoad: 25},
		},
		Days:             []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		Slots:            []int{1, 2, 3, 4, 5},
		MaxClassesPerDay: 5,
	}
}

func TestGophersatBasedScheduler(t *testing.T) {
	scheduler := NewScheduler(ilp.NewGophersatSolver(time.Minute), nil)

	t.Run("Conflict-free instances", func(t *testing.T) {
		conflictFreeExecution(t, scheduler)
	})
	t.Run("Overloaded instances", func(t *testing.T) {
		overloadedExecution(t, scheduler)
	})
	t.Run("Conflicting pins", func(t *testing.T) {
		conflictingPinsExecution(t, scheduler)
	})
	t.Run("Same-slot pins in different rooms", func(t *testing.T) {
		sameSlotPinsExecution(t, scheduler)
	})
	t.Run("Undeclared teachers", func(t *testing.T) {
		orphanTeacherExecution(t, scheduler)
	})
	t.Run("Generated instances", func(t *testing.T) {
		generatedInputExecution(t, scheduler)
	})
	t.Run("Repeated solves", func(t *testing.T) {
		repeatedExecution(t, scheduler)
	})
}

func TestCpsatBasedScheduler(t *testing.T) {
	scheduler := NewScheduler(ilp.NewCpsatSolver(time.Minute), nil)

	t.Run("Conflict-free instances", func(t *testing.T) {
		conflictFreeExecution(t, scheduler)
	})
	t.Run("Overloaded instances", func(t *testing.T) {
		overloadedExecution(t, scheduler)
	})
}

func conflictFreeExecution(t *testing.T, scheduler Scheduler) {
	//** Arrange
	input := referenceInput()

	//** Act
	schedule, err := scheduler.BuildAndSolve(input)

	//** Assert
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Len(t, schedule.Entries, 12)
	assert.Empty(t, schedule.Violations)
	assert.Zero(t, schedule.TotalSlack)
	assert.True(t, scheduler.Verify(schedule, input))

	// The pinned class is honored
	assert.True(t, lo.SomeBy(schedule.Entries, func(entry Entry) bool {
		return entry == Entry{Day: "Mon", Slot: 1, Batch: "B1", Subject: "Math", Teacher: "T1", Room: "R1"}
	}))

	// Entries come out sorted by batch, day in grid order, then slot
	dayIndex := make(map[string]int, len(input.Days))
	for i, day := range input.Days {
		dayIndex[day] = i
	}
	assert.True(t, slices.IsSortedFunc(schedule.Entries, func(a, b Entry) int {
		if c := strings.Compare(a.Batch, b.Batch); c != 0 {
			return c
		}
		if c := dayIndex[a.Day] - dayIndex[b.Day]; c != 0 {
			return c
		}
		return a.Slot - b.Slot
	}))
}

func overloadedExecution(t *testing.T, scheduler Scheduler) {
	//** Arrange
	input := overloadedInput()

	//** Act
	schedule, err := scheduler.BuildAndSolve(input)

	//** Assert
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Len(t, schedule.Entries, 25)
	assert.Equal(t, int64(5), schedule.TotalSlack)
	require.Len(t, schedule.Violations, 1)
	assert.Equal(t, Violation{
		SlackMeta: SlackMeta{Kind: SlackSubject, Entity: "Math", Context: "B1"},
		Amount:    5,
	}, schedule.Violations[0])
	assert.True(t, scheduler.Verify(schedule, input))
}

func conflictingPinsExecution(t *testing.T, scheduler Scheduler) {
	//** Arrange
	input := ScheduleInput{
		Rooms:   []string{"R1"},
		Batches: []string{"B1"},
		Subjects: map[string]Subject{
			"Math":    {Name: "Math", Batch: "B1", Teacher: "T1", SessionsPerWeek: 1},
			"Physics": {Name: "Physics", Batch: "B1", Teacher: "T1", SessionsPerWeek: 1},
		},
		Teachers: map[string]Teacher{
			"T1": {Name: "T1", MaxLoad: 10},
		},
		FixedClasses: []FixedClass{
			{Batch: "B1", Subject: "Math", Day: "Mon", Slot: 1, Room: "R1"},
			{Batch: "B1", Subject: "Physics", Day: "Mon", Slot: 1, Room: "R1"},
		},
		Days:             []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		Slots:            []int{1, 2, 3, 4, 5},
		MaxClassesPerDay: 5,
	}

	//** Act
	schedule, err := scheduler.BuildAndSolve(input)

	//** Assert
	// Breaking one pin is cheaper than stacking both classes on the slot
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Len(t, schedule.Entries, 2)
	assert.Equal(t, int64(1), schedule.TotalSlack)
	require.Len(t, schedule.Violations, 1)
	assert.Equal(t, SlackFixedClass, schedule.Violations[0].Kind)
	assert.Equal(t, "B1", schedule.Violations[0].Entity)
	assert.True(t, scheduler.Verify(schedule, input))
}

func sameSlotPinsExecution(t *testing.T, scheduler Scheduler) {
	//** Arrange
	input := ScheduleInput{
		Rooms:   []string{"R1", "R2"},
		Batches: []string{"B1"},
		Subjects: map[string]Subject{
			"Math": {Name: "Math", Batch: "B1", Teacher: "T1", SessionsPerWeek: 1},
		},
		Teachers: map[string]Teacher{
			"T1": {Name: "T1", MaxLoad: 10},
		},
		FixedClasses: []FixedClass{
			{Batch: "B1", Subject: "Math", Day: "Mon", Slot: 1, Room: "R1"},
			{Batch: "B1", Subject: "Math", Day: "Mon", Slot: 1, Room: "R2"},
		},
		Days:             []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		Slots:            []int{1, 2, 3, 4, 5},
		MaxClassesPerDay: 5,
	}

	//** Act
	schedule, err := scheduler.BuildAndSolve(input)

	//** Assert
	// One weekly session can honor only one of the two pins; the other is
	// relaxed and must be reported as its own rule instance
	require.NoError(t, err)
	require.NotNil(t, schedule)
	require.Len(t, schedule.Entries, 1)
	assert.Equal(t, "Mon", schedule.Entries[0].Day)
	assert.Equal(t, 1, schedule.Entries[0].Slot)
	assert.Equal(t, "Math", schedule.Entries[0].Subject)
	assert.Equal(t, int64(1), schedule.TotalSlack)

	dropped := lo.Filter(input.Rooms, func(room string, _ int) bool {
		return room != schedule.Entries[0].Room
	})
	require.Len(t, dropped, 1)
	require.Len(t, schedule.Violations, 1)
	assert.Equal(t, Violation{
		SlackMeta: SlackMeta{Kind: SlackFixedClass, Entity: "B1", Context: fmt.Sprintf("Math-Mon-1-%v", dropped[0])},
		Amount:    1,
	}, schedule.Violations[0])
	assert.True(t, scheduler.Verify(schedule, input))
}

func orphanTeacherExecution(t *testing.T, scheduler Scheduler) {
	//** Arrange
	input := ScheduleInput{
		Rooms:   []string{"R1"},
		Batches: []string{"B1"},
		Subjects: map[string]Subject{
			"Art": {Name: "Art", Batch: "B1", Teacher: "TX", SessionsPerWeek: 3},
		},
		Teachers:         map[string]Teacher{},
		Days:             []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		Slots:            []int{1, 2, 3, 4, 5},
		MaxClassesPerDay: 5,
	}

	//** Act
	schedule, err := scheduler.BuildAndSolve(input)

	//** Assert
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Len(t, schedule.Entries, 3)
	assert.Zero(t, schedule.TotalSlack)
	assert.Equal(t, "TX", schedule.Entries[0].Teacher)
	assert.True(t, scheduler.Verify(schedule, input))
}

func generatedInputExecution(t *testing.T, scheduler Scheduler) {
	sizes := [][4]int{
		{1, 2, 1, 1},
		{2, 2, 2, 2},
		{3, 3, 2, 2},
	}

	for _, size := range sizes {
		//** Arrange
		input := GenerateScheduleInput(size[0], size[1], size[2], size[3])

		//** Act
		schedule, err := scheduler.BuildAndSolve(input)

		//** Assert
		require.NoError(t, err)
		require.NotNil(t, schedule)
		assert.True(t, scheduler.Verify(schedule, input))
	}
}

func repeatedExecution(t *testing.T, scheduler Scheduler) {
	//** Arrange
	input := referenceInput()

	//** Act
	first, firstErr := scheduler.BuildAndSolve(input)
	second, secondErr := scheduler.BuildAndSolve(input)

	//** Assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.TotalSlack, second.TotalSlack)
	assert.Equal(t, first.Violations, second.Violations)
	assert.Equal(t, first.Variables, second.Variables)
	assert.Equal(t, first.Constraints, second.Constraints)
}

type stubSolver struct {
	solution ilp.Solution
	err      error
}

func (solver *stubSolver) Solve(model ilp.Model) (ilp.Solution, error) {
	return solver.solution, solver.err
}

func TestSchedulerSolverContract(t *testing.T) {
	t.Run("Propagates solver faults", func(t *testing.T) {
		//** Arrange
		scheduler := NewScheduler(&stubSolver{err: errors.New("engine exploded")}, zap.NewNop())

		//** Act
		schedule, err := scheduler.BuildAndSolve(referenceInput())

		//** Assert
		assert.Nil(t, schedule)
		assert.ErrorContains(t, err, "engine exploded")
	})

	t.Run("Maps a missing solution to a nil schedule", func(t *testing.T) {
		//** Arrange
		scheduler := NewScheduler(&stubSolver{solution: ilp.Solution{Status: ilp.StatusNoSolution}}, nil)

		//** Act
		schedule, err := scheduler.BuildAndSolve(referenceInput())

		//** Assert
		assert.NoError(t, err)
		assert.Nil(t, schedule)
	})
}

func TestVerify(t *testing.T) {
	scheduler := NewScheduler(ilp.NewGophersatSolver(time.Minute), nil)
	input := referenceInput()

	solve := func(t *testing.T) *Schedule {
		schedule, err := scheduler.BuildAndSolve(input)
		require.NoError(t, err)
		require.NotNil(t, schedule)
		return schedule
	}

	t.Run("Rejects a nil schedule", func(t *testing.T) {
		assert.False(t, scheduler.Verify(nil, input))
	})

	t.Run("Rejects an entry moved off the grid", func(t *testing.T) {
		//** Arrange
		schedule := solve(t)

		//** Act
		schedule.Entries[0].Room = "R9"

		//** Assert
		assert.False(t, scheduler.Verify(schedule, input))
	})

	t.Run("Rejects a dropped entry", func(t *testing.T) {
		//** Arrange
		schedule := solve(t)

		//** Act
		schedule.Entries = schedule.Entries[1:]

		//** Assert
		assert.False(t, scheduler.Verify(schedule, input))
	})

	t.Run("Rejects a fabricated violation", func(t *testing.T) {
		//** Arrange
		schedule := solve(t)

		//** Act
		schedule.TotalSlack++
		schedule.Violations = append(schedule.Violations, Violation{
			SlackMeta: SlackMeta{Kind: SlackBatchClash, Entity: "B9", Context: "Mon-1"},
			Amount:    1,
		})

		//** Assert
		assert.False(t, scheduler.Verify(schedule, input))
	})

	t.Run("Rejects an understated total", func(t *testing.T) {
		//** Arrange
		schedule := solve(t)

		//** Act
		schedule.TotalSlack++

		//** Assert
		assert.False(t, scheduler.Verify(schedule, input))
	})
}
