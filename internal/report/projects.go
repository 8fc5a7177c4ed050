package report

import (
	"fmt"
	"strings"
	"time"

	"myges/internal/api"
	"myges/internal/display"
)

const (
	presentationLayout = "Mon Jan 02 2006 at 15:04"
	limitDateLayout    = "January 2, 2006"
)

// Projects builds one record per project. Projects the user has a group
// in also show the group and, once scheduled, the presentation date.
func Projects(projects []api.Project, uid int64, loc *time.Location) []*display.Record {
	records := make([]*display.Record, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		r := display.NewRecord(
			display.F("ID", p.ProjectID),
			display.F("Name", p.Name),
		)
		addGroupInfo(r, p.UserGroup(uid), loc)
		records = append(records, r)
	}
	return records
}

func addGroupInfo(r *display.Record, g *api.ProjectGroup, loc *time.Location) {
	if g == nil {
		return
	}
	r.Set("Group", fmt.Sprintf("%s (%d)", g.GroupName, g.ProjectGroupID))
	if !g.DatePresentation.IsZero() {
		r.Set("Presentation Date", g.DatePresentation.Time().In(loc).Format(presentationLayout))
	}
}

// ProjectDetails builds Name/Value rows describing a project, meant to be
// printed without header.
func ProjectDetails(p *api.Project, uid int64, loc *time.Location) []*display.Record {
	summary := display.NewRecord(
		display.F("ID", p.ProjectID),
		display.F("Name", p.Name),
	)
	if p.CourseName != "" {
		summary.Set("Course", p.CourseName)
	}
	addGroupInfo(summary, p.UserGroup(uid), loc)
	return KeyValues(summary)
}

// ProjectGroups builds one record per group with its students.
func ProjectGroups(p *api.Project) []*display.Record {
	records := make([]*display.Record, 0, len(p.Groups))
	for _, g := range p.Groups {
		r := display.NewRecord(
			display.F("id", g.ProjectGroupID),
			display.F("name", g.GroupName),
		)
		for i, s := range g.Students {
			r.Set(fmt.Sprintf("Student %d", i+1), strings.TrimSpace(s.Firstname+" "+s.Name))
		}
		records = append(records, r)
	}
	return records
}

// ProjectSteps builds one Name/Value table per step of p, in the order the
// portal lists them. With upcoming set, steps whose limit date is before now
// are left out.
func ProjectSteps(p *api.Project, upcoming bool, now time.Time, loc *time.Location) [][]*display.Record {
	var tables [][]*display.Record
	for _, s := range p.Steps {
		if s.ProjectID != p.ProjectID {
			continue
		}
		if upcoming && s.LimitDate.Time().Before(now) {
			continue
		}
		tables = append(tables, KeyValues(display.NewRecord(
			display.F("Limit Date", s.LimitDate.Time().In(loc).Format(limitDateLayout)),
			display.F("Type", s.Type),
			display.F("Description", strings.TrimSpace(s.Desc)),
		)))
	}
	return tables
}

// NextSteps builds one record per upcoming step across projects.
func NextSteps(steps []api.NextStep, loc *time.Location) []*display.Record {
	records := make([]*display.Record, 0, len(steps))
	for _, s := range steps {
		records = append(records, display.NewRecord(
			display.F("Project ID", s.ProjectID),
			display.F("Type", s.Type),
			display.F("Limit Date", s.LimitDate.Time().In(loc).Format(limitDateLayout)),
			display.F("Project Name", s.ProjectName),
			display.F("Course", s.CourseName),
		))
	}
	return records
}

// GroupChoices labels the groups of p for interactive selection.
func GroupChoices(p *api.Project) []string {
	choices := make([]string, 0, len(p.Groups))
	for _, g := range p.Groups {
		label := fmt.Sprintf("%s (%d/%d)", g.GroupName, len(g.Students), p.MaxStudentGroup)
		if p.MaxStudentGroup <= 0 {
			label = fmt.Sprintf("%s (%d)", g.GroupName, len(g.Students))
		}
		choices = append(choices, label)
	}
	return choices
}
