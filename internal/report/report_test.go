package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myges/internal/api"
	"myges/internal/display"
)

func ms(y int, m time.Month, d, h, min int) api.Millis {
	return api.MillisOf(time.Date(y, m, d, h, min, 0, 0, time.UTC))
}

func ptr(v float64) *float64 {
	return &v
}

func num(t *testing.T, raw string) api.Number {
	t.Helper()
	var n api.Number
	require.NoError(t, json.Unmarshal([]byte(raw), &n))
	return n
}

func values(t *testing.T, r *display.Record, keys ...string) []any {
	t.Helper()
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		v, ok := r.Get(k)
		require.True(t, ok, "missing key %s", k)
		out = append(out, v)
	}
	return out
}

func TestAbsences(t *testing.T) {
	records := Absences([]api.Absence{
		{Date: ms(2024, 10, 3, 9, 30), CourseName: "Go", Justified: false, TrimesterName: "Semestre 1", Year: 2024},
	}, time.UTC)

	require.Len(t, records, 1)
	assert.Equal(t, []string{"Year", "Date", "Course name", "Justified", "Trimester"}, records[0].Keys())
	assert.Equal(t, []any{2024, "03/10/2024, 09:30", "Go", false, "Semestre 1"},
		values(t, records[0], records[0].Keys()...))
}

func TestGrades(t *testing.T) {
	grades := []api.Grade{
		{Year: 2024, Trimester: 2, TrimesterName: "Semestre 2", Course: "Networks",
			TeacherCivility: "Mme", TeacherLastName: "Martin", TeacherFirstName: "Julie",
			Coef: num(t, `"3"`), Grades: []float64{8}},
		{Year: 2024, Trimester: 1, TrimesterName: "Semestre 1", Course: "Go",
			TeacherCivility: "M.", TeacherLastName: "Smith", TeacherFirstName: "John",
			Coef: num(t, `2`), Grades: []float64{12, 15.5}, Average: ptr(14.25)},
		{Year: 2024, Trimester: 1, TrimesterName: "Semestre 1", Course: "Algorithms",
			Coef: num(t, `null`), ECTS: num(t, `4`), Grades: []float64{10, 13, 11}, Exam: ptr(9)},
		{Year: 2024, Trimester: 1, TrimesterName: "Semestre 1", Course: "Sport"},
	}

	tables := Grades(grades)
	require.Len(t, tables, 2)

	first := tables[0]
	require.Len(t, first, 4)

	goRow := first[0]
	assert.Equal(t, []string{"Year", "Trimester", "Teacher", "Course", "Coef. / ECTS", "CC1", "CC2", "CC3", "Exam", "Average"}, goRow.Keys())
	assert.Equal(t, []any{"Semestre 1 (1)", "M. Smith John", 2.0, 12.0, 15.5, nil, 14.25},
		values(t, goRow, "Trimester", "Teacher", "Coef. / ECTS", "CC1", "CC2", "CC3", "Average"))

	algoRow := first[1]
	// ECTS replace a missing coefficient; the average is the floored mean.
	assert.Equal(t, []any{4.0, 11.33}, values(t, algoRow, "Coef. / ECTS", "Average"))
	exam, _ := algoRow.Get("Exam")
	assert.Equal(t, "9", display.Stringify(exam))

	sportRow := first[2]
	assert.Equal(t, []any{nil, nil}, values(t, sportRow, "Coef. / ECTS", "Average"))

	global := first[3]
	assert.Equal(t, []string{"Course", "Average"}, global.Keys())
	// (14.25*2 + 11.33*4) / 6
	assert.Equal(t, []any{GlobalAverageLabel, 12.3}, values(t, global, "Course", "Average"))

	second := tables[1]
	require.Len(t, second, 2)
	assert.Equal(t, []string{"Year", "Trimester", "Teacher", "Course", "Coef. / ECTS", "CC1", "Exam", "Average"}, second[0].Keys())
	assert.Equal(t, []any{3.0, 8.0}, values(t, second[0], "Coef. / ECTS", "Average"))
	assert.Equal(t, []any{8.0}, values(t, second[1], "Average"))
}

func TestGrades_GlobalAverageWithoutGrades(t *testing.T) {
	tables := Grades([]api.Grade{{Trimester: 1, Course: "Sport"}})

	require.Len(t, tables, 1)
	assert.Equal(t, []any{0.0}, values(t, tables[0][1], "Average"))
}

func TestGrades_Render(t *testing.T) {
	tables := Grades([]api.Grade{
		{Year: 2024, Trimester: 1, TrimesterName: "S1", Course: "Go", Coef: num(t, `1`), Grades: []float64{12}},
	})

	var buf bytes.Buffer
	require.NoError(t, display.RenderGroup(&buf, tables, true))

	expected := "" +
		"Year   Trimester   Teacher   Course           Coef. / ECTS   CC1   Exam   Average\n" +
		"2024   S1 (1)                Go               1              12           12     \n" +
		"                             GLOBAL AVERAGE                               12     \n" +
		"\n"
	assert.Equal(t, expected, buf.String())
}

func TestAverage(t *testing.T) {
	assert.Nil(t, Average(api.Grade{}))
	assert.Equal(t, 10.0, *Average(api.Grade{Average: ptr(10)}))
	assert.Equal(t, 12.66, *Average(api.Grade{Grades: []float64{12, 13, 13}}))
	assert.Equal(t, 9.99, *Average(api.Grade{Average: ptr(9.999)}))
}

func TestCourses(t *testing.T) {
	tables := Courses([]api.Course{
		{RCID: 3, Year: 2024, Trimester: num(t, `"Semestre 2"`), TrimesterID: 22, Name: "Networks",
			StudentGroupName: "3A", StudentGroupID: 7, Teacher: "Julie Martin", TeacherID: 9},
		{RCID: 1, Year: 2024, Trimester: num(t, `"Semestre 1"`), TrimesterID: 21, Name: "Go",
			StudentGroupName: "3A", StudentGroupID: 7, Teacher: "John Smith", TeacherID: 8},
	})

	require.Len(t, tables, 2)
	require.Len(t, tables[0], 1)
	assert.Equal(t, []string{"rc_id", "Year", "Trimester", "Name", "Student group", "Teacher"}, tables[0][0].Keys())
	assert.Equal(t, []any{int64(1), "Semestre 1 (21)", "3A (7)", "John Smith (8)"},
		values(t, tables[0][0], "rc_id", "Trimester", "Student group", "Teacher"))
	assert.Equal(t, []any{"Networks"}, values(t, tables[1][0], "Name"))
}

func TestAgenda(t *testing.T) {
	items := []api.AgendaItem{
		{Name: "Networks", Teacher: "J. Martin", StartDate: ms(2024, 9, 3, 9, 0), EndDate: ms(2024, 9, 3, 12, 0),
			Rooms: []api.AgendaRoom{{Campus: "NATION1", Name: "A101", Floor: "1"}, {Campus: "NATION1", Name: "A102", Floor: "1"}}},
		{Name: "Go (afternoon)", Teacher: "J. Smith", StartDate: ms(2024, 9, 2, 14, 0), EndDate: ms(2024, 9, 2, 17, 30),
			Modality: api.ModalityRemote},
		{Name: "Go", Teacher: "J. Smith", StartDate: ms(2024, 9, 2, 9, 0), EndDate: ms(2024, 9, 2, 12, 0)},
	}

	tables := Agenda(items, time.UTC)
	require.Len(t, tables, 2)
	require.Len(t, tables[0], 2)
	require.Len(t, tables[1], 1)

	assert.Equal(t, []string{"Day", "Schedule", "Room(s)", "Name", "Teacher"}, tables[0][0].Keys())
	assert.Equal(t, []any{"Mon, September 2, 2024", "09:00 -> 12:00", "Unknown", "Go"},
		values(t, tables[0][0], "Day", "Schedule", "Room(s)", "Name"))
	assert.Equal(t, []any{"14:00 -> 17:30", "Remote"}, values(t, tables[0][1], "Schedule", "Room(s)"))
	assert.Equal(t, []any{"Tue, September 3, 2024", "NATION1 A101 (1) - NATION1 A102 (1)"},
		values(t, tables[1][0], "Day", "Room(s)"))

	// The input is left untouched.
	assert.Equal(t, "Networks", items[0].Name)
	assert.Empty(t, Agenda(nil, time.UTC))
}

func testProject() *api.Project {
	return &api.Project{
		ProjectID:       5301,
		Name:            "Annual project",
		CourseName:      "Projet annuel",
		MaxStudentGroup: 4,
		Groups: []api.ProjectGroup{
			{GroupName: "Team A", ProjectGroupID: 11, Students: []api.GroupStudent{{UID: 1, Firstname: "Ada", Name: "Lovelace"}}},
			{GroupName: "Team B", ProjectGroupID: 12, DatePresentation: ms(2024, 6, 20, 14, 30),
				Students: []api.GroupStudent{{UID: 2, Firstname: "Alan", Name: "Turing"}, {UID: 42, Firstname: "Jane", Name: "Doe"}}},
		},
		Steps: []api.ProjectStep{
			{ProjectID: 5301, Type: "Rendu", Desc: " Specs \n", LimitDate: ms(2024, 3, 1, 23, 59)},
			{ProjectID: 5301, Type: "Soutenance", Desc: "Final", LimitDate: ms(2024, 6, 20, 14, 30)},
			{ProjectID: 9999, Type: "Other", LimitDate: ms(2024, 6, 1, 0, 0)},
		},
	}
}

func TestProjects(t *testing.T) {
	p := testProject()
	other := api.Project{ProjectID: 7, Name: "Side project"}

	records := Projects([]api.Project{*p, other}, 42, time.UTC)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"ID", "Name", "Group", "Presentation Date"}, records[0].Keys())
	assert.Equal(t, []any{"Team B (12)", "Thu Jun 20 2024 at 14:30"}, values(t, records[0], "Group", "Presentation Date"))
	assert.Equal(t, []string{"ID", "Name"}, records[1].Keys())

	var buf bytes.Buffer
	require.NoError(t, display.RenderTable(&buf, records, true))
	assert.Contains(t, buf.String(), "ID     Name             Group         Presentation Date       \n")
}

func TestProjectDetails(t *testing.T) {
	records := ProjectDetails(testProject(), 1, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, display.RenderTable(&buf, records, false))

	expected := "" +
		"ID       5301          \n" +
		"Name     Annual project\n" +
		"Course   Projet annuel \n" +
		"Group    Team A (11)   \n" +
		"\n"
	assert.Equal(t, expected, buf.String())
}

func TestProjectGroups(t *testing.T) {
	records := ProjectGroups(testProject())

	require.Len(t, records, 2)
	assert.Equal(t, []string{"id", "name", "Student 1"}, records[0].Keys())
	assert.Equal(t, []string{"id", "name", "Student 1", "Student 2"}, records[1].Keys())
	assert.Equal(t, []any{"Alan Turing", "Jane Doe"}, values(t, records[1], "Student 1", "Student 2"))
	assert.Equal(t, []string{"id", "name", "Student 1", "Student 2"}, display.Columns(records))
}

func TestProjectSteps(t *testing.T) {
	p := testProject()
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	all := ProjectSteps(p, false, now, time.UTC)
	require.Len(t, all, 2)
	assert.Equal(t, []any{"Limit Date", "March 1, 2024"}, values(t, all[0][0], "Name", "Value"))
	assert.Equal(t, []any{"Description", "Specs"}, values(t, all[0][2], "Name", "Value"))

	upcoming := ProjectSteps(p, true, now, time.UTC)
	require.Len(t, upcoming, 1)
	assert.Equal(t, []any{"Type", "Soutenance"}, values(t, upcoming[0][1], "Name", "Value"))
}

func TestNextSteps(t *testing.T) {
	records := NextSteps([]api.NextStep{
		{ProjectID: 5301, Type: "Rendu", LimitDate: ms(2024, 3, 1, 23, 59), ProjectName: "Annual project", CourseName: "PA"},
	}, time.UTC)

	require.Len(t, records, 1)
	assert.Equal(t, []string{"Project ID", "Type", "Limit Date", "Project Name", "Course"}, records[0].Keys())
	assert.Equal(t, []any{"March 1, 2024"}, values(t, records[0], "Limit Date"))
}

func TestGroupChoices(t *testing.T) {
	assert.Equal(t, []string{"Team A (1/4)", "Team B (2/4)"}, GroupChoices(testProject()))
}

func TestLinks(t *testing.T) {
	records := Links()
	require.Len(t, records, 3)
	assert.Equal(t, []any{"Issues", "https://github.com/quantumsheep/myges-cli/issues"}, values(t, records[2], "Name", "Value"))
}
