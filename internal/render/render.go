package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/schedkit/schedkit/pkg/model"
)

// Schedule writes the timetable as an aligned table, one row per class.
func Schedule(writer io.Writer, schedule *model.Schedule) error {
	table := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)

	fmt.Fprintln(table, "BATCH\tDAY\tSLOT\tSUBJECT\tTEACHER\tROOM")
	for _, entry := range schedule.Entries {
		fmt.Fprintf(table, "%v\t%v\t%v\t%v\t%v\t%v\n", entry.Batch, entry.Day, entry.Slot, entry.Subject, entry.Teacher, entry.Room)
	}

	return table.Flush()
}

// Violations renders relaxed rules one per line, or a fixed message when the
// schedule is clean.
func Violations(violations []model.Violation) string {
	if len(violations) == 0 {
		return "no violations"
	}

	lines := lo.Map(violations, func(violation model.Violation, _ int) string {
		return "  - " + violation.String()
	})
	return strings.Join(lines, "\n")
}
