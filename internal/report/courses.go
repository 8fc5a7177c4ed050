package report

import (
	"fmt"
	"slices"

	"myges/internal/api"
	"myges/internal/display"
)

// Courses builds one table per trimester, in trimester order.
func Courses(courses []api.Course) [][]*display.Record {
	byTrimester := make(map[string][]api.Course)
	var trimesters []string
	for _, c := range courses {
		key := c.Trimester.String()
		if _, ok := byTrimester[key]; !ok {
			trimesters = append(trimesters, key)
		}
		byTrimester[key] = append(byTrimester[key], c)
	}
	slices.Sort(trimesters)

	tables := make([][]*display.Record, 0, len(trimesters))
	for _, trimester := range trimesters {
		var records []*display.Record
		for _, c := range byTrimester[trimester] {
			records = append(records, display.NewRecord(
				display.F("rc_id", c.RCID),
				display.F("Year", c.Year),
				display.F("Trimester", fmt.Sprintf("%s (%d)", trimester, c.TrimesterID)),
				display.F("Name", c.Name),
				display.F("Student group", fmt.Sprintf("%s (%d)", c.StudentGroupName, c.StudentGroupID)),
				display.F("Teacher", fmt.Sprintf("%s (%d)", c.Teacher, c.TeacherID)),
			))
		}
		tables = append(tables, records)
	}
	return tables
}
