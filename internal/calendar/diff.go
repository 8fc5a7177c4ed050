package calendar

import (
	"cmp"
	"slices"
)

// Plan lists the calls needed to turn the existing events into the desired
// ones.
type Plan struct {
	Insert    []Event
	Update    []Event
	Delete    []Event
	Unchanged int
}

// Empty reports whether the plan has nothing to apply.
func (p Plan) Empty() bool {
	return len(p.Insert) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// Len is the number of calls in the plan.
func (p Plan) Len() int {
	return len(p.Insert) + len(p.Update) + len(p.Delete)
}

// Diff compares desired events with the events found in the calendar.
//
// Inserts and updates keep the order of desired. Deletions are ordered by
// start time, then by id. When an id appears twice in desired the first
// occurrence wins.
func Diff(desired, existing []Event) Plan {
	current := make(map[string]Event, len(existing))
	for _, ev := range existing {
		current[ev.ID] = ev
	}

	var plan Plan
	wanted := make(map[string]struct{}, len(desired))
	for _, ev := range desired {
		if _, dup := wanted[ev.ID]; dup {
			continue
		}
		wanted[ev.ID] = struct{}{}

		old, ok := current[ev.ID]
		switch {
		case !ok:
			plan.Insert = append(plan.Insert, ev)
		case !old.Equal(ev):
			plan.Update = append(plan.Update, ev)
		default:
			plan.Unchanged++
		}
	}

	for id, ev := range current {
		if _, ok := wanted[id]; !ok {
			plan.Delete = append(plan.Delete, ev)
		}
	}
	slices.SortFunc(plan.Delete, func(a, b Event) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return plan
}
