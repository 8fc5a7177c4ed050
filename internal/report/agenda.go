package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"myges/internal/api"
	"myges/internal/display"
)

const (
	dayLayout  = "Mon, January 2, 2006"
	hourLayout = "15:04"
)

// Agenda builds one table per day, days and activities in start order.
func Agenda(items []api.AgendaItem, loc *time.Location) [][]*display.Record {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b api.AgendaItem) int {
		return cmp.Compare(a.StartDate, b.StartDate)
	})

	var tables [][]*display.Record
	var currentDay string
	for _, item := range sorted {
		start := item.StartDate.Time().In(loc)
		end := item.EndDate.Time().In(loc)

		day := start.Format(dayLayout)
		if day != currentDay || len(tables) == 0 {
			tables = append(tables, nil)
			currentDay = day
		}

		last := len(tables) - 1
		tables[last] = append(tables[last], display.NewRecord(
			display.F("Day", day),
			display.F("Schedule", fmt.Sprintf("%s -> %s", start.Format(hourLayout), end.Format(hourLayout))),
			display.F("Room(s)", Rooms(item)),
			display.F("Name", item.Name),
			display.F("Teacher", item.Teacher),
		))
	}
	return tables
}

// Rooms describes where an activity takes place: every room as
// "campus name (floor)", or Remote/Unknown when no room is booked.
func Rooms(item api.AgendaItem) string {
	if len(item.Rooms) == 0 {
		if item.Modality == api.ModalityRemote {
			return "Remote"
		}
		return "Unknown"
	}

	rooms := make([]string, 0, len(item.Rooms))
	for _, r := range item.Rooms {
		rooms = append(rooms, fmt.Sprintf("%s %s (%s)", r.Campus, r.Name, r.Floor))
	}
	return strings.Join(rooms, " - ")
}
