// Package blocks renders the snippet blocks the template editor inserts:
// header, hero, text, button, columns and footer.
package blocks

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/osteele/liquid"
)

// ErrUnknownBlock is returned for a block kind that has no template.
var ErrUnknownBlock = errors.New("unknown template block")

// Kind names a block.
type Kind string

const (
	KindHeader  Kind = "header"
	KindHero    Kind = "hero"
	KindText    Kind = "text"
	KindButton  Kind = "button"
	KindColumns Kind = "columns"
	KindFooter  Kind = "footer"
)

// Kinds lists every block in the order the editor offers them.
var Kinds = []Kind{KindHeader, KindHero, KindText, KindButton, KindColumns, KindFooter}

// Data fills a block. Zero fields fall back to the editor's sample content.
type Data struct {
	CompanyName string `json:"company_name"`
	LogoURL     string `json:"logo_url"`
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTAText     string `json:"cta_text"`
	CTAURL      string `json:"cta_url"`
	Year        int    `json:"year"`
}

//go:embed templates/*.liquid
var templateFS embed.FS

// Renderer compiles each block once and renders it on demand.
type Renderer struct {
	engine *liquid.Engine
	mu     sync.Mutex
	cache  map[Kind]*liquid.Template
	now    func() time.Time
}

// NewRenderer creates a block renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		engine: liquid.NewEngine(),
		cache:  make(map[Kind]*liquid.Template),
		now:    time.Now,
	}
}

// ParseKind validates a block name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBlock, s)
}

// Render returns the HTML for a block. The footer leaves the {{unsubscribe}}
// token in place for personalization.
func (r *Renderer) Render(kind Kind, d Data) (string, error) {
	tpl, err := r.template(kind)
	if err != nil {
		return "", err
	}
	out, serr := tpl.RenderString(r.bindings(kind, d))
	if serr != nil {
		return "", fmt.Errorf("render %s block: %w", kind, serr)
	}
	return out, nil
}

func (r *Renderer) template(kind Kind) (*liquid.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tpl, ok := r.cache[kind]; ok {
		return tpl, nil
	}
	src, err := templateFS.ReadFile("templates/" + string(kind) + ".liquid")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlock, kind)
	}
	tpl, serr := r.engine.ParseString(string(src))
	if serr != nil {
		return nil, fmt.Errorf("parse %s block: %w", kind, serr)
	}
	r.cache[kind] = tpl
	return tpl, nil
}

func (r *Renderer) bindings(kind Kind, d Data) liquid.Bindings {
	company := d.CompanyName
	if company == "" {
		company = "Company Name"
		if kind == KindFooter {
			company = "Your Company"
		}
	}
	year := d.Year
	if year == 0 {
		year = r.now().Year()
	}
	return liquid.Bindings{
		"company_name": company,
		"logo_url":     orDefault(d.LogoURL, "https://via.placeholder.com/200x60"),
		"headline":     orDefault(d.Headline, defaultHeadline(kind)),
		"subheadline":  orDefault(d.Subheadline, "Subheadline or brief description goes here."),
		"cta_text":     orDefault(d.CTAText, defaultCTA(kind)),
		"cta_url":      orDefault(d.CTAURL, "#"),
		"year":         year,
		"columns":      []string{"Left", "Right"},
	}
}

func defaultHeadline(kind Kind) string {
	if kind == KindText {
		return "Section Headline"
	}
	return "Main Headline Here"
}

func defaultCTA(kind Kind) string {
	if kind == KindButton {
		return "Click Here"
	}
	return "Call to Action"
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
