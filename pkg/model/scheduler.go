package model

// Entry is one scheduled class of the weekly timetable.
type Entry struct {
	Day     string
	Slot    int
	Batch   string
	Subject string
	Teacher string
	Room    string
}

// Schedule is a solved timetable together with the rules that had to be
// relaxed to obtain it. TotalSlack is zero exactly when every rule holds.
type Schedule struct {
	Entries     []Entry
	Violations  []Violation
	TotalSlack  int64
	Variables   int
	Constraints int
}

type Scheduler interface {
	BuildAndSolve(
		input ScheduleInput,
	) (schedule *Schedule, err error)

	Verify(
		schedule *Schedule,
		input ScheduleInput,
	) bool
}
