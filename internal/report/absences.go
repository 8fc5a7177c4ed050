package report

import (
	"time"

	"myges/internal/api"
	"myges/internal/display"
)

const absenceDateLayout = "02/01/2006, 15:04"

// Absences builds one record per absence.
func Absences(absences []api.Absence, loc *time.Location) []*display.Record {
	records := make([]*display.Record, 0, len(absences))
	for _, a := range absences {
		records = append(records, display.NewRecord(
			display.F("Year", a.Year),
			display.F("Date", a.Date.Time().In(loc).Format(absenceDateLayout)),
			display.F("Course name", a.CourseName),
			display.F("Justified", a.Justified),
			display.F("Trimester", a.TrimesterName),
		))
	}
	return records
}
