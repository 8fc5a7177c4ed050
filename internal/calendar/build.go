package calendar

import (
	"cmp"
	"fmt"
	"slices"

	"myges/internal/api"
	"myges/internal/report"
)

// BuildEvents converts agenda items into calendar events ordered by start
// time. Items sharing a reservation id produce a single event.
func BuildEvents(items []api.AgendaItem, tpl *Templates) ([]Event, error) {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b api.AgendaItem) int {
		return cmp.Compare(a.StartDate, b.StartDate)
	})

	events := make([]Event, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))
	for _, item := range sorted {
		id := EventID(item.ReservationID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		summary, description, err := tpl.render(eventContext(item))
		if err != nil {
			return nil, fmt.Errorf("reservation %d: %w", item.ReservationID, err)
		}

		location, color := placeOf(item)
		events = append(events, Event{
			ID:          id,
			Summary:     summary,
			Description: description,
			Location:    location,
			ColorID:     color,
			Start:       item.StartDate.Time(),
			End:         item.EndDate.Time(),
		})
	}
	return events, nil
}

// placeOf returns the location and colour of an item, both taken from its
// first room.
func placeOf(item api.AgendaItem) (location, colorID string) {
	if len(item.Rooms) == 0 {
		return "", unknownCampusColor
	}

	address, color := Campus(item.Rooms[0].Campus)
	if address == "" {
		return report.Rooms(item), color
	}
	return address, color
}

func eventContext(item api.AgendaItem) map[string]interface{} {
	data := map[string]interface{}{
		"ReservationID": item.ReservationID,
		"Name":          item.Name,
		"Teacher":       item.Teacher,
		"Type":          item.Type,
		"Modality":      item.Modality,
		"State":         item.State,
		"Promotion":     item.Promotion,
		"Rooms":         report.Rooms(item),
		"Start":         item.StartDate.Time(),
		"End":           item.EndDate.Time(),
		"Campus":        "",
		"Group":         "",
		"Trimester":     "",
	}
	if len(item.Rooms) > 0 {
		data["Campus"] = item.Rooms[0].Campus
	}
	if d := item.Discipline; d != nil {
		data["Group"] = d.StudentGroupName
		data["Trimester"] = d.Trimester
	}
	return data
}
