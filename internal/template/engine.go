package template

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Engine holds named text templates sharing the sprig function set.
// Missing keys render as empty strings instead of "<no value>".
type Engine struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
}

// New creates an empty template engine.
func New() *Engine {
	return &Engine{
		templates: make(map[string]*template.Template),
	}
}

// Add parses text and registers it under name, replacing any template
// previously registered with that name.
func (e *Engine) Add(name, text string) error {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=zero").
		Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template %q: %w", name, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[name] = tmpl
	return nil
}

// Render executes the named template against context. The result is
// trimmed of surrounding whitespace and "<no value>" markers left by nil map
// entries are removed.
func (e *Engine) Render(name string, context map[string]interface{}) (string, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[name]
	e.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("template %q is not defined", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, context); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", name, err)
	}

	out := strings.ReplaceAll(buf.String(), "<no value>", "")
	return strings.TrimSpace(out), nil
}
