package main

import (
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/schedkit/schedkit/internal/render"
	"github.com/schedkit/schedkit/pkg/ilp"
	"github.com/schedkit/schedkit/pkg/model"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}

	input, err := model.ProcessRawInput(model.RawScheduleInput{
		Rooms:   []string{"Lab", "Main"},
		Batches: []string{"CS-1", "CS-2"},
		Subjects: map[string]model.RawSubject{
			"Algebra":     {Batch: "CS-1", Teacher: "Turing", SessionsPerWeek: 4},
			"Programming": {Batch: "CS-1", Teacher: "Hopper", SessionsPerWeek: 5},
			"Statistics":  {Batch: "CS-2", Teacher: "Turing", SessionsPerWeek: 3},
			"Databases":   {Batch: "CS-2", Teacher: "Hopper", SessionsPerWeek: 4},
		},
		Teachers: map[string]model.RawTeacher{
			"Turing": {MaxLoad: 7},
			"Hopper": {MaxLoad: 9},
		},
		FixedClasses: []model.RawFixedClass{
			{Batch: "CS-1", Subject: "Programming", Day: "Mon", Slot: 1, Room: "Lab"},
		},
	})
	if err != nil {
		log.Fatalf("cannot process input: %v", err)
	}

	solver := ilp.NewGophersatSolver(ilp.DefaultTimeout)
	scheduler := model.NewScheduler(solver, logger)

	schedule, err := scheduler.BuildAndSolve(input)
	if err != nil {
		log.Fatal(err)
	} else if schedule == nil {
		fmt.Println("No schedule found within the time budget")
		return
	}

	if err := render.Schedule(os.Stdout, schedule); err != nil {
		log.Fatalf("cannot render schedule: %v", err)
	}
	fmt.Printf("\nTotal slack: %v\n", schedule.TotalSlack)
	if len(schedule.Violations) > 0 {
		fmt.Printf("Relaxed rules:\n%v\n", render.Violations(schedule.Violations))
	}

	if !scheduler.Verify(schedule, input) {
		log.Fatal("Verification failed")
	}

	fmt.Println("Well done!")
}
