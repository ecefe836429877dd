package model

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// GenerateScheduleInput builds a random but well-formed problem over the
// default five-day, five-slot grid: batches of subjects with teachers drawn
// from a shared pool.
func GenerateScheduleInput(batches, subjectsPerBatch, teachers, rooms int) ScheduleInput {
	input := ScheduleInput{
		Subjects:         make(map[string]Subject),
		Teachers:         make(map[string]Teacher),
		Days:             slices.Clone(defaultDays),
		Slots:            slices.Clone(defaultSlots),
		MaxClassesPerDay: defaultMaxClassesPerDay,
	}

	for room := range rooms {
		input.Rooms = append(input.Rooms, fmt.Sprintf("R%v", room+1))
	}

	for teacher := range teachers {
		name := fmt.Sprintf("T%v", teacher+1)
		input.Teachers[name] = Teacher{Name: name, MaxLoad: 10 + rand.IntN(11)}
	}

	for batch := range batches {
		batchName := fmt.Sprintf("B%v", batch+1)
		input.Batches = append(input.Batches, batchName)

		for subject := range subjectsPerBatch {
			name := fmt.Sprintf("S%v-%v", batch+1, subject+1)
			input.Subjects[name] = Subject{
				Name:            name,
				Batch:           batchName,
				Teacher:         fmt.Sprintf("T%v", rand.IntN(teachers)+1),
				SessionsPerWeek: 1 + rand.IntN(4),
			}
		}
	}

	return input
}
