// Package tooltips serves the best-practice hints shown next to campaign form
// fields.
package tooltips

import (
	_ "embed"
	"fmt"
	"html"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type selects the tooltip styling.
type Type string

const (
	TypeBestPractice Type = "best-practice"
	TypeIdea         Type = "idea"
	TypeWarning      Type = "warning"
)

// Tooltip is the hint for one form field.
type Tooltip struct {
	Field  string   `yaml:"field" json:"field"`
	Type   Type     `yaml:"type" json:"type"`
	Title  string   `yaml:"title" json:"title"`
	Points []string `yaml:"points" json:"points"`
}

// HTML renders the tooltip body as the bold title followed by bullet lines.
func (t Tooltip) HTML() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<strong>%s:</strong>", html.EscapeString(t.Title))
	for _, p := range t.Points {
		b.WriteString("<br>\n• ")
		b.WriteString(html.EscapeString(p))
	}
	return b.String()
}

// CSSClass is the tooltip container class for the type.
func (t Tooltip) CSSClass() string {
	return "tooltip-marketing-" + string(t.Type)
}

//go:embed catalog.yaml
var catalogYAML []byte

var catalog = mustLoad(catalogYAML)

func mustLoad(data []byte) []Tooltip {
	c, err := Load(data)
	if err != nil {
		panic(fmt.Sprintf("tooltips: %v", err))
	}
	return c
}

// Load parses a tooltip catalog and checks every entry.
func Load(data []byte) ([]Tooltip, error) {
	var c []Tooltip
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, t := range c {
		if t.Field == "" || t.Title == "" {
			return nil, fmt.Errorf("entry %d: field and title are required", i)
		}
		switch t.Type {
		case TypeBestPractice, TypeIdea, TypeWarning:
		default:
			return nil, fmt.Errorf("entry %d (%s): unknown type %q", i, t.Field, t.Type)
		}
	}
	return c, nil
}

// All returns the built-in catalog.
func All() []Tooltip {
	out := make([]Tooltip, len(catalog))
	copy(out, catalog)
	return out
}

// ForField returns the tooltip for a form field name. Names match by suffix,
// so "campaign_subject" gets the subject hint.
func ForField(name string) (Tooltip, bool) {
	for _, t := range catalog {
		if strings.HasSuffix(name, t.Field) {
			return t, true
		}
	}
	return Tooltip{}, false
}
