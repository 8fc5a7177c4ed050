package report

import (
	"fmt"
	"math"
	"slices"

	"myges/internal/api"
	"myges/internal/display"
)

// GlobalAverageLabel names the weighted average row closing each trimester.
const GlobalAverageLabel = "GLOBAL AVERAGE"

const coefColumn = "Coef. / ECTS"

// Grades builds one table per trimester, in trimester order. Each table
// ends with the coefficient-weighted average of its courses.
func Grades(grades []api.Grade) [][]*display.Record {
	byTrimester := make(map[int][]api.Grade)
	var trimesters []int
	for _, g := range grades {
		if _, ok := byTrimester[g.Trimester]; !ok {
			trimesters = append(trimesters, g.Trimester)
		}
		byTrimester[g.Trimester] = append(byTrimester[g.Trimester], g)
	}
	slices.Sort(trimesters)

	tables := make([][]*display.Record, 0, len(trimesters))
	for _, trimester := range trimesters {
		tables = append(tables, trimesterGrades(byTrimester[trimester]))
	}
	return tables
}

func trimesterGrades(grades []api.Grade) []*display.Record {
	cc := 0
	for _, g := range grades {
		cc = max(cc, len(g.Grades))
	}

	records := make([]*display.Record, 0, len(grades)+1)
	var weighted, count float64

	for _, g := range grades {
		coef := coefficient(g)
		r := display.NewRecord(
			display.F("Year", g.Year),
			display.F("Trimester", fmt.Sprintf("%s (%d)", g.TrimesterName, g.Trimester)),
			display.F("Teacher", fmt.Sprintf("%s %s %s", g.TeacherCivility, g.TeacherLastName, g.TeacherFirstName)),
			display.F("Course", g.Course),
			display.F(coefColumn, coef),
		)
		for i := 0; i < cc; i++ {
			var value any
			if i < len(g.Grades) {
				value = g.Grades[i]
			}
			r.Set(fmt.Sprintf("CC%d", i+1), value)
		}
		r.Set("Exam", g.Exam)

		average := Average(g)
		if average != nil {
			r.Set("Average", *average)
			w := weight(coef)
			weighted += *average * w
			count += w
		} else {
			r.Set("Average", nil)
		}

		records = append(records, r)
	}

	global := 0.0
	if count > 0 {
		global = floor2(weighted / count)
	}
	records = append(records, display.NewRecord(
		display.F("Course", GlobalAverageLabel),
		display.F("Average", global),
	))

	return records
}

// Average returns the average of a course: the portal's value when set,
// else the mean of its grades, floored to two decimals. It is nil when the
// course has neither.
func Average(g api.Grade) *float64 {
	var avg float64
	switch {
	case g.Average != nil:
		avg = *g.Average
	case len(g.Grades) > 0:
		var sum float64
		for _, v := range g.Grades {
			sum += v
		}
		avg = sum / float64(len(g.Grades))
	default:
		return nil
	}
	avg = floor2(avg)
	return &avg
}

// coefficient returns the value printed in the coefficient column: the
// coefficient when set and non-zero, the ECTS credits otherwise.
func coefficient(g api.Grade) any {
	if g.Coef.Set() && !(g.Coef.Valid && g.Coef.Value == 0) {
		return numberValue(g.Coef)
	}
	if g.ECTS.Set() {
		return numberValue(g.ECTS)
	}
	return nil
}

func numberValue(n api.Number) any {
	if n.Valid {
		return n.Value
	}
	return n.Raw
}

// weight is the weight of a course in the global average; missing,
// unparsable and zero coefficients weigh 1.
func weight(coef any) float64 {
	if f, ok := coef.(float64); ok && f != 0 {
		return f
	}
	return 1
}

func floor2(v float64) float64 {
	return math.Floor(v*100) / 100
}
