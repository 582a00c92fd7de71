package instrument

import (
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrEmptyContent blocks submission of a draft with no body.
var ErrEmptyContent = errors.New("Please add content to your email before saving.")

const defaultPreviewSubject = "Email Subject"

// EmailDraft is the content being edited.
type EmailDraft struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"content"`
}

// PreviewOptions selects what the preview pane shows on top of the draft.
type PreviewOptions struct {
	ShowTracking bool
	Personalize  *PersonalizationData
}

// Preview is what the preview pane renders.
type Preview struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Submission is the instrumented content to persist.
type Submission struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// Editor pairs preview and submit so both run the same transform against the
// same TrackingConfig.
type Editor struct {
	instr  *Instrumentor
	policy *bluemonday.Policy
}

// NewEditor creates an Editor around an Instrumentor.
func NewEditor(instr *Instrumentor) *Editor {
	if instr == nil {
		instr = defaultInstrumentor
	}
	return &Editor{instr: instr, policy: previewPolicy()}
}

// Preview renders the draft for display. Personalization runs before tracking
// annotation so the markers show the tokens that will actually be sent.
func (e *Editor) Preview(d EmailDraft, cfg TrackingConfig, opts PreviewOptions) (Preview, error) {
	content := d.BodyHTML
	if opts.Personalize != nil {
		content = ApplyPersonalization(content, *opts.Personalize)
	}
	if opts.ShowTracking {
		annotated, err := e.instr.RenderAnnotatedPreview(content, cfg)
		if err != nil {
			return Preview{}, err
		}
		content = annotated
	}

	subject := strings.TrimSpace(d.Subject)
	if subject == "" {
		subject = defaultPreviewSubject
	}
	return Preview{Subject: subject, HTML: e.SanitizePreview(content)}, nil
}

// Submit validates the draft and returns its instrumented content.
func (e *Editor) Submit(d EmailDraft, cfg TrackingConfig) (Submission, error) {
	if strings.TrimSpace(d.BodyHTML) == "" {
		return Submission{}, ErrEmptyContent
	}
	content, err := e.instr.Instrument(d.BodyHTML, cfg)
	if err != nil {
		return Submission{}, err
	}
	return Submission{
		Subject: d.Subject,
		Content: content,
		Type:    TypeField(cfg),
	}, nil
}

// SanitizePreview strips scripts and event handlers from preview markup. It is
// only for display; submitted content is stored as authored.
func (e *Editor) SanitizePreview(s string) string {
	return e.policy.Sanitize(s)
}

func previewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("div", "span", "p", "code", "strong", "em", "table", "tr", "td", "th", "tbody", "thead", "img", "a")
	p.AllowAttrs("class", "style").Globally()
	p.AllowDataAttributes()
	p.AllowAttrs(AttrOriginalURL, AttrTrackingURL).Globally()
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height").OnElements("img")
	p.AllowAttrs("width", "border", "cellspacing", "cellpadding", "align").OnElements("table", "td", "th")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	return p
}
