package report

import "myges/internal/display"

// Links lists where to find the project and report problems.
func Links() []*display.Record {
	return KeyValues(display.NewRecord(
		display.F("Réseau GES (GHG Network)", "http://www.reseau-ges.fr"),
		display.F("GitHub repository", "https://github.com/quantumsheep/myges-cli"),
		display.F("Issues", "https://github.com/quantumsheep/myges-cli/issues"),
	))
}

// KeyValues turns the fields of r into Name/Value rows.
func KeyValues(r *display.Record) []*display.Record {
	records := make([]*display.Record, 0, r.Len())
	for _, key := range r.Keys() {
		value, _ := r.Get(key)
		records = append(records, display.NewRecord(
			display.F("Name", key),
			display.F("Value", value),
		))
	}
	return records
}
