package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

var validate = validator.New()

var (
	defaultDays  = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	defaultSlots = []int{1, 2, 3, 4, 5}
)

const defaultMaxClassesPerDay = 5

type RawSubject struct {
	Batch           string `validate:"required"`
	Teacher         string `validate:"required"`
	SessionsPerWeek int    `mapstructure:"sessions_per_week" validate:"gte=0"`
}

type RawTeacher struct {
	MaxLoad int `mapstructure:"max_load" validate:"gte=0"`
}

type RawFixedClass struct {
	Batch   string `validate:"required"`
	Subject string `validate:"required"`
	Day     string `validate:"required"`
	Slot    int
	Room    string `validate:"required"`
}

// RawScheduleInput mirrors the JSON input document. Days, Slots and
// MaxClassesPerDay are optional and fall back to a five-day, five-slot grid.
type RawScheduleInput struct {
	Rooms            []string              `validate:"min=1"`
	Batches          []string              `validate:"min=1"`
	Subjects         map[string]RawSubject `validate:"dive"`
	Teachers         map[string]RawTeacher `validate:"dive"`
	FixedClasses     []RawFixedClass       `mapstructure:"fixed_classes" validate:"dive"`
	Days             []string
	Slots            []int
	MaxClassesPerDay int `mapstructure:"max_classes_per_day" validate:"gte=0"`
}

type Subject struct {
	Name            string
	Batch           string
	Teacher         string
	SessionsPerWeek int
}

type Teacher struct {
	Name    string
	MaxLoad int
}

type FixedClass struct {
	Batch   string
	Subject string
	Day     string
	Slot    int
	Room    string
}

// ScheduleInput is the normalized scheduling problem: rooms and batches
// sorted and deduplicated, subjects and teachers keyed by name, and every
// fixed class resolved against the grid it pins into.
type ScheduleInput struct {
	Rooms            []string
	Batches          []string
	Subjects         map[string]Subject
	Teachers         map[string]Teacher
	FixedClasses     []FixedClass
	Days             []string
	Slots            []int
	MaxClassesPerDay int
}

// InputFromJSON reads a JSON input document and normalizes it.
func InputFromJSON(file string) (ScheduleInput, error) {
	contents, err := os.ReadFile(file)
	if err != nil {
		return ScheduleInput{}, fmt.Errorf("cannot read input file: %v", err)
	}

	var inputJson map[string]any
	if err := json.Unmarshal(contents, &inputJson); err != nil {
		return ScheduleInput{}, fmt.Errorf("cannot unmarshal file contents: %v", err)
	}

	var rawInput RawScheduleInput
	if err := mapstructure.Decode(inputJson, &rawInput); err != nil {
		return ScheduleInput{}, fmt.Errorf("cannot decode input document: %v", err)
	}

	return ProcessRawInput(rawInput)
}

// ProcessRawInput validates a raw document and normalizes it into a
// ScheduleInput. Subjects may name teachers or batches that were never
// declared; such subjects are still scheduled, they just escape the caps of
// the missing declaration. Fixed classes must pin a declared subject under
// its own batch to a day, slot and room of the grid.
func ProcessRawInput(rawInput RawScheduleInput) (ScheduleInput, error) {
	if err := validate.Struct(rawInput); err != nil {
		return ScheduleInput{}, fmt.Errorf("invalid schedule input: %v", err)
	}

	input := ScheduleInput{
		Rooms:            normalizeSet(rawInput.Rooms),
		Batches:          normalizeSet(rawInput.Batches),
		Subjects:         make(map[string]Subject, len(rawInput.Subjects)),
		Teachers:         make(map[string]Teacher, len(rawInput.Teachers)),
		Days:             lo.Uniq(rawInput.Days),
		Slots:            lo.Uniq(rawInput.Slots),
		MaxClassesPerDay: rawInput.MaxClassesPerDay,
	}

	//** Fall back to the default grid
	if len(input.Days) == 0 {
		input.Days = slices.Clone(defaultDays)
	}
	if len(input.Slots) == 0 {
		input.Slots = slices.Clone(defaultSlots)
	}
	if input.MaxClassesPerDay == 0 {
		input.MaxClassesPerDay = defaultMaxClassesPerDay
	}

	//** Key subjects and teachers by name
	for name, rawSubject := range rawInput.Subjects {
		input.Subjects[name] = Subject{
			Name:            name,
			Batch:           rawSubject.Batch,
			Teacher:         rawSubject.Teacher,
			SessionsPerWeek: rawSubject.SessionsPerWeek,
		}
	}
	for name, rawTeacher := range rawInput.Teachers {
		input.Teachers[name] = Teacher{Name: name, MaxLoad: rawTeacher.MaxLoad}
	}

	//** Resolve fixed classes
	for _, raw := range lo.Uniq(rawInput.FixedClasses) {
		fixed := FixedClass(raw)
		subject, ok := input.Subjects[fixed.Subject]
		if !ok {
			return ScheduleInput{}, fmt.Errorf("fixed class references unknown subject \"%v\"", fixed.Subject)
		}
		if subject.Batch != fixed.Batch {
			return ScheduleInput{}, fmt.Errorf("fixed class pins subject \"%v\" to batch \"%v\", but it is declared under \"%v\"", fixed.Subject, fixed.Batch, subject.Batch)
		}
		if !slices.Contains(input.Days, fixed.Day) {
			return ScheduleInput{}, fmt.Errorf("fixed class references unknown day \"%v\"", fixed.Day)
		}
		if !slices.Contains(input.Slots, fixed.Slot) {
			return ScheduleInput{}, fmt.Errorf("fixed class references unknown slot \"%v\"", fixed.Slot)
		}
		if !slices.Contains(input.Rooms, fixed.Room) {
			return ScheduleInput{}, fmt.Errorf("fixed class references unknown room \"%v\"", fixed.Room)
		}
		input.FixedClasses = append(input.FixedClasses, fixed)
	}

	return input, nil
}

func normalizeSet(values []string) []string {
	set := lo.Uniq(values)
	slices.Sort(set)
	return set
}

func sortedSubjectNames(subjects map[string]Subject) []string {
	names := lo.Keys(subjects)
	slices.Sort(names)
	return names
}

func sortedTeacherNames(teachers map[string]Teacher) []string {
	names := lo.Keys(teachers)
	slices.Sort(names)
	return names
}
