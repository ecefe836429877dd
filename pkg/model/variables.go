package model

import (
	"log"

	"github.com/schedkit/schedkit/pkg/ilp"
)

// classKey identifies one candidate class: a batch's subject placed in a room
// at a given day and slot. The batch is always the subject's declared batch;
// carrying it keeps lookups self-describing.
type classKey struct {
	batch   string
	subject string
	day     string
	slot    int
	room    string
}

// variableSpace maps candidate classes to boolean decision variables and
// back. Keys are registered once, in enumeration order, so ids stay dense and
// repeated runs over the same input declare identical models.
type variableSpace struct {
	ids  map[classKey]ilp.Var
	keys []classKey
	vars []ilp.Var
}

// newVariableSpace declares one boolean per (batch, subject, day, slot, room)
// combination, with subjects enumerated in sorted name order.
func newVariableSpace(builder *ilp.Builder, input ScheduleInput) *variableSpace {
	space := &variableSpace{ids: make(map[classKey]ilp.Var)}
	for _, name := range sortedSubjectNames(input.Subjects) {
		subject := input.Subjects[name]
		for _, day := range input.Days {
			for _, slot := range input.Slots {
				for _, room := range input.Rooms {
					space.declare(builder, classKey{
						batch:   subject.Batch,
						subject: subject.Name,
						day:     day,
						slot:    slot,
						room:    room,
					})
				}
			}
		}
	}
	return space
}

func (space *variableSpace) declare(builder *ilp.Builder, key classKey) {
	if _, ok := space.ids[key]; ok {
		log.Panicf("class %+v is already declared", key)
	}
	variable := builder.Bool()
	space.ids[key] = variable
	space.keys = append(space.keys, key)
	space.vars = append(space.vars, variable)
}

// Var returns the decision variable of a candidate class and whether the
// class was declared at all.
func (space *variableSpace) Var(key classKey) (ilp.Var, bool) {
	variable, ok := space.ids[key]
	return variable, ok
}

// mustVar is Var for keys the caller derived from the input itself.
func (space *variableSpace) mustVar(key classKey) ilp.Var {
	variable, ok := space.ids[key]
	if !ok {
		log.Panicf("no variable declared for class %+v", key)
	}
	return variable
}

func (space *variableSpace) size() int {
	return len(space.keys)
}
