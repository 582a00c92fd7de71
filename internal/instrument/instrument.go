// Package instrument rewrites email HTML for click, open and opt-out tracking
// and renders an annotated preview of what the rewrite will do.
//
// Instrument is not idempotent: each call appends another pixel and footer.
// Always instrument the pristine editor content, never a previous result.
package instrument

import (
	"fmt"
	"net/url"
	"strings"
)

// PlaceholderPixelURL is used as the pixel src when no tracking image is set.
const PlaceholderPixelURL = "https://via.placeholder.com/1x1.png?text=."

// Personalization tokens left in instrumented output for the send-time engine.
const (
	TokenName        = "{{name}}"
	TokenEmail       = "{{email}}"
	TokenCompany     = "{{company}}"
	TokenUnsubscribe = "{{unsubscribe}}"
)

// Auxiliary attributes written by the click and open stages.
const (
	AttrOriginalURL = "data-original-url"
	AttrTrackingURL = "data-tracking-url"
)

const trackedTitleSuffix = "(Tracked)"

// Instrumentor applies a TrackingConfig to HTML fragments.
type Instrumentor struct {
	parser Parser
}

// New creates an Instrumentor using the given fragment parser.
func New(p Parser) *Instrumentor {
	if p == nil {
		p = NewHTMLParser()
	}
	return &Instrumentor{parser: p}
}

var defaultInstrumentor = New(NewHTMLParser())

// Instrument applies cfg to src using the default parser.
func Instrument(src string, cfg TrackingConfig) (string, error) {
	return defaultInstrumentor.Instrument(src, cfg)
}

// RenderAnnotatedPreview renders the annotated preview using the default parser.
func RenderAnnotatedPreview(src string, cfg TrackingConfig) (string, error) {
	return defaultInstrumentor.RenderAnnotatedPreview(src, cfg)
}

// Instrument returns src with click tracking applied to eligible links, then
// the open pixel appended, then the opt-out footer appended.
func (in *Instrumentor) Instrument(src string, cfg TrackingConfig) (string, error) {
	content := src

	if cfg.ClickEnabled && cfg.ClickURL != "" {
		rewritten, err := in.rewriteLinks(content, cfg.ClickURL)
		if err != nil {
			return "", err
		}
		content = rewritten
	}

	if cfg.OpenEnabled {
		content = content + "\n" + openPixel(cfg)
	}

	if cfg.OptoutEnabled {
		content = content + "\n" + optoutFooter(cfg.OptoutURL)
	}

	return content, nil
}

// rewriteLinks routes every eligible anchor through clickURL. When nothing is
// rewritten the input is returned untouched rather than re-serialized.
func (in *Instrumentor) rewriteLinks(src, clickURL string) (string, error) {
	frag, err := in.parser.Parse(src)
	if err != nil {
		return "", err
	}

	rewritten := 0
	for _, a := range frag.Anchors() {
		href, ok := trackableHref(a)
		if !ok {
			continue
		}
		a.SetAttr("href", ClickRedirectURL(clickURL, href))
		a.SetAttr(AttrOriginalURL, href)
		title, _ := a.Attr("title")
		a.SetAttr("title", strings.TrimSpace(title+" "+trackedTitleSuffix))
		rewritten++
	}

	if rewritten == 0 {
		return src, nil
	}
	return frag.Render()
}

// trackableHref reports whether the anchor should be click tracked: it needs a
// non-empty href that is neither an in-page fragment nor a mailto link.
func trackableHref(a Anchor) (string, bool) {
	href, ok := a.Attr("href")
	if !ok || href == "" {
		return "", false
	}
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
		return "", false
	}
	return href, true
}

// ClickRedirectURL builds the tracked redirect for an original link.
func ClickRedirectURL(clickURL, original string) string {
	return clickURL + "?url=" + EncodeURIComponent(original) + "&recipient=" + TokenEmail
}

// OpenTrackingURL is the endpoint recorded on the pixel for open tracking.
func OpenTrackingURL(openURL string) string {
	return openURL + "?recipient=" + TokenEmail
}

// UnsubscribeURL is the opt-out footer link target; "#" when no URL is set.
func UnsubscribeURL(optoutURL string) string {
	if optoutURL == "" {
		return "#"
	}
	return optoutURL + "?email=" + TokenEmail
}

// EffectivePixelURL returns the pixel src, falling back to the placeholder so
// the image always resolves.
func EffectivePixelURL(cfg TrackingConfig) string {
	if cfg.PixelURL != "" {
		return cfg.PixelURL
	}
	return PlaceholderPixelURL
}

func openPixel(cfg TrackingConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<img src="%s" alt="" width="1" height="1" style="display:none"`, attrEscape(EffectivePixelURL(cfg)))
	if cfg.OpenURL != "" {
		fmt.Fprintf(&b, ` %s="%s"`, AttrTrackingURL, attrEscape(OpenTrackingURL(cfg.OpenURL)))
	}
	b.WriteString(" />")
	return b.String()
}

func optoutFooter(optoutURL string) string {
	return fmt.Sprintf(`<div style="border-top: 1px solid #ddd; margin-top: 20px; padding-top: 10px; color: #666; font-size: 12px; text-align: center;">
    <p>If you no longer wish to receive emails from us, you can <a href="%s" style="color: #666;">unsubscribe here</a>.</p>
</div>`, attrEscape(UnsubscribeURL(optoutURL)))
}

// attrEscape escapes the characters that would break out of a double-quoted
// attribute. Ampersands are left alone so appended URLs read the same as the
// ones written into rewritten anchors.
func attrEscape(s string) string {
	return strings.NewReplacer(`"`, "&#34;", "<", "&lt;", ">", "&gt;").Replace(s)
}

var uriComponentRestorer = strings.NewReplacer(
	"%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*",
)

// EncodeURIComponent percent-encodes s the way browsers' encodeURIComponent
// does: spaces become %20 and !'()*~ are left as-is.
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	return uriComponentRestorer.Replace(escaped)
}
