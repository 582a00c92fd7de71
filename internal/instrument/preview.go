package instrument

import (
	"fmt"
	"html"
	"strings"
)

// Marker CSS classes used in the annotated preview.
const (
	markerClick  = "tracking-marker click-tracker"
	markerOpen   = "tracking-marker open-tracker"
	markerOptout = "tracking-marker optout-section"
)

// Messages shown inside preview markers.
const (
	MsgClickLink       = "This link will be modified for click tracking."
	MsgNoLinks         = "No links found in your email. Add links to enable click tracking."
	MsgOpenPixel       = "A tracking pixel will be inserted in your email to track opens."
	MsgOptoutFooter    = "An unsubscribe link will be added to the bottom of your email."
	WarnTrackingURL    = "Please provide a tracking URL."
	WarnUnsubscribeURL = "Please provide an unsubscribe URL."
)

// RenderAnnotatedPreview shows what Instrument would do without doing it: a
// marker follows each eligible link, and appended markers describe the pixel
// and the footer. Missing URLs render a warning in place of the computed URL.
func (in *Instrumentor) RenderAnnotatedPreview(src string, cfg TrackingConfig) (string, error) {
	content := src

	if cfg.ClickEnabled {
		annotated, found, err := in.annotateLinks(content, cfg.ClickURL)
		if err != nil {
			return "", err
		}
		if found {
			content = annotated
		} else {
			content += noLinksMarker(cfg.ClickURL)
		}
	}

	if cfg.OpenEnabled {
		content += openMarker(cfg)
	}

	if cfg.OptoutEnabled {
		content += optoutMarker(cfg.OptoutURL)
	}

	return content, nil
}

func (in *Instrumentor) annotateLinks(src, clickURL string) (string, bool, error) {
	frag, err := in.parser.Parse(src)
	if err != nil {
		return "", false, err
	}

	found := false
	for _, a := range frag.Anchors() {
		href, ok := trackableHref(a)
		if !ok {
			continue
		}
		a.InsertAfter(linkMarker(href, clickURL))
		found = true
	}
	if !found {
		return src, false, nil
	}

	out, err := frag.Render()
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

func linkMarker(href, clickURL string) string {
	var detail string
	if clickURL != "" {
		detail = markerLine("From", href) + markerLine("To", ClickRedirectURL(clickURL, href))
	} else {
		detail = warningLine(WarnTrackingURL)
	}
	return marker(markerClick, "Click Tracking", MsgClickLink, detail)
}

func noLinksMarker(clickURL string) string {
	var detail string
	if clickURL != "" {
		detail = markerLine("Tracking URL", clickURL+"?url=[original-url]&recipient="+TokenEmail)
	} else {
		detail = warningLine(WarnTrackingURL)
	}
	return marker(markerClick, "Click Tracking", MsgNoLinks, detail)
}

func openMarker(cfg TrackingConfig) string {
	var detail string
	if cfg.OpenURL != "" {
		detail = markerLine("Tracking URL", OpenTrackingURL(cfg.OpenURL))
	} else {
		detail = warningLine(WarnTrackingURL)
	}
	detail += markerLine("Pixel Image", EffectivePixelURL(cfg))
	return marker(markerOpen, "Open Tracking", MsgOpenPixel, detail)
}

func optoutMarker(optoutURL string) string {
	var detail string
	if optoutURL != "" {
		detail = markerLine("Unsubscribe URL", UnsubscribeURL(optoutURL))
	} else {
		detail = warningLine(WarnUnsubscribeURL)
	}
	return marker(markerOptout, "Unsubscribe Footer", MsgOptoutFooter, detail)
}

func marker(class, title, message, detail string) string {
	return fmt.Sprintf(`<div class="%s"><strong>%s:</strong> <span>%s</span>%s</div>`,
		class, title, message, detail)
}

func markerLine(label, value string) string {
	return fmt.Sprintf(`<div><strong>%s:</strong> <code>%s</code></div>`, label, html.EscapeString(value))
}

func warningLine(msg string) string {
	return fmt.Sprintf(`<div class="tracking-warning"><strong>Warning:</strong> %s</div>`, msg)
}

// CountMarkers returns how many preview markers of any kind appear in out.
func CountMarkers(out string) int {
	return strings.Count(out, `class="tracking-marker `)
}
