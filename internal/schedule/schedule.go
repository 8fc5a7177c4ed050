// Package schedule turns agenda range expressions into time ranges.
//
// Supported expressions:
//
//	today[+n]            the day n days from now
//	tomorrow[+n]         the day n+1 days from now
//	yesterday[+n]        the day n+1 days ago
//	week[+n]             the week n weeks from now
//	DD[-MM[-YYYY]][+n]   the week containing that date moved by n days
//	(empty)              the current week
//
// A week starts on Sunday at 23:00, on or before the date, and lasts seven
// days. This matches how the portal files Monday morning classes.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "02-01-2006"

// Range is a closed time interval.
type Range struct {
	Start time.Time
	End   time.Time
}

// SingleDay reports whether the range starts and ends on the same day.
func (r Range) SingleDay() bool {
	y1, m1, d1 := r.Start.Date()
	y2, m2, d2 := r.End.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// String prints the range as DD-MM-YYYY, or DD-MM-YYYY DD-MM-YYYY when it
// spans several days.
func (r Range) String() string {
	if r.SingleDay() {
		return r.Start.Format(dateLayout)
	}
	return r.Start.Format(dateLayout) + " " + r.End.Format(dateLayout)
}

// Day returns the range covering the whole day of t.
func Day(t time.Time) Range {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := time.Date(y, m, d, 23, 59, 59, 0, t.Location())
	return Range{Start: start, End: end}
}

// Week returns the week containing t.
func Week(t time.Time) Range {
	y, m, d := t.Date()
	evening := time.Date(y, m, d, 23, 0, 0, 0, t.Location())
	start := evening.AddDate(0, 0, -int(evening.Weekday()))
	return Range{Start: start, End: start.AddDate(0, 0, 7)}
}

// Weeks lists the weeks around now, earliest first: before weeks, the
// current week, then after weeks. The index of the current week is
// returned with the list.
func Weeks(now time.Time, before, after int) ([]Range, int) {
	current := Week(now)
	weeks := make([]Range, 0, before+after+1)
	for i := -before; i <= after; i++ {
		start := current.Start.AddDate(0, 0, 7*i)
		weeks = append(weeks, Range{Start: start, End: start.AddDate(0, 0, 7)})
	}
	return weeks, before
}

// Parse converts an expression to a range relative to now.
func Parse(expr string, now time.Time) (Range, error) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return Week(now), nil
	}

	base, offsetStr, hasOffset := strings.Cut(expr, "+")
	offset := 0
	if hasOffset {
		n, err := strconv.Atoi(offsetStr)
		if err != nil || n < 0 {
			return Range{}, fmt.Errorf("invalid offset %q in %q", offsetStr, expr)
		}
		offset = n
	}

	switch base {
	case "today":
		return Day(now.AddDate(0, 0, offset)), nil
	case "tomorrow":
		return Day(now.AddDate(0, 0, offset+1)), nil
	case "yesterday":
		return Day(now.AddDate(0, 0, -(offset + 1))), nil
	case "week":
		return Week(now.AddDate(0, 0, 7*offset)), nil
	}

	date, err := parseDate(base, now)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", expr, err)
	}
	return Week(date.AddDate(0, 0, offset)), nil
}

// parseDate reads DD[-MM[-YYYY]]; missing parts come from now.
func parseDate(s string, now time.Time) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) > 3 {
		return time.Time{}, fmt.Errorf("expected DD[-MM[-YYYY]]")
	}

	values := []int{0, int(now.Month()), now.Year()}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("expected DD[-MM[-YYYY]]")
		}
		values[i] = n
	}
	day, month, year := values[0], values[1], values[2]

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, fmt.Errorf("day %d out of range", day)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location()), nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
