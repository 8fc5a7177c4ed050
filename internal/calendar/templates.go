package calendar

import (
	"fmt"

	"myges/internal/template"
)

const (
	summaryTemplate     = "summary"
	descriptionTemplate = "description"
)

// DefaultSummaryTemplate and DefaultDescriptionTemplate are used when the
// configuration does not override them. Both are Go text templates with the
// sprig functions available.
const (
	DefaultSummaryTemplate     = `{{ .Name }}`
	DefaultDescriptionTemplate = `{{ .Type }}{{ with .Modality }} ({{ . }}){{ end }}
Teacher: {{ .Teacher | default "Unknown" }}
Room(s): {{ .Rooms }}
{{- with .Group }}
Group: {{ . }}
{{- end }}`
)

// Templates renders the summary and description of events.
type Templates struct {
	engine *template.Engine
}

// ParseTemplates parses the summary and description templates. Empty
// strings select the defaults.
func ParseTemplates(summary, description string) (*Templates, error) {
	if summary == "" {
		summary = DefaultSummaryTemplate
	}
	if description == "" {
		description = DefaultDescriptionTemplate
	}

	engine := template.New()
	if err := engine.Add(summaryTemplate, summary); err != nil {
		return nil, fmt.Errorf("invalid summary template: %w", err)
	}
	if err := engine.Add(descriptionTemplate, description); err != nil {
		return nil, fmt.Errorf("invalid description template: %w", err)
	}
	return &Templates{engine: engine}, nil
}

func (t *Templates) render(data map[string]interface{}) (summary, description string, err error) {
	summary, err = t.engine.Render(summaryTemplate, data)
	if err != nil {
		return "", "", err
	}
	description, err = t.engine.Render(descriptionTemplate, data)
	if err != nil {
		return "", "", err
	}
	return summary, description, nil
}
