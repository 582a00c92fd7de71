package instrument

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAnnotatedPreview_LinkMarkers(t *testing.T) {
	cfg := TrackingConfig{ClickEnabled: true, ClickURL: "https://t.example/r"}
	src := `<a href="https://a.example">a</a> and <a href="#x">skip</a> and <a href="https://b.example">b</a>`

	out, err := RenderAnnotatedPreview(src, cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, CountMarkers(out))
	assert.Equal(t, 2, strings.Count(out, MsgClickLink))
	assert.Contains(t, out, "https://t.example/r?url=https%3A%2F%2Fa.example&amp;recipient={{email}}")

	doc := parseOutput(t, out)
	first := doc.Find("a").First()
	assert.True(t, first.Next().HasClass("click-tracker"), "marker should follow the anchor")
	href, _ := first.Attr("href")
	assert.Equal(t, "https://a.example", href, "preview must not rewrite links")
}

func TestRenderAnnotatedPreview_NoLinks(t *testing.T) {
	cfg := TrackingConfig{ClickEnabled: true, ClickURL: "https://t.example/r"}
	src := `<p>plain <a href="mailto:x@example.com">mail</a></p>`

	out, err := RenderAnnotatedPreview(src, cfg)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, src))
	assert.Equal(t, 1, CountMarkers(out))
	assert.Contains(t, out, MsgNoLinks)
}

func TestRenderAnnotatedPreview_MissingURLsWarn(t *testing.T) {
	cfg := TrackingConfig{ClickEnabled: true, OpenEnabled: true, OptoutEnabled: true}

	out, err := RenderAnnotatedPreview(`<a href="https://a.example">a</a>`, cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, CountMarkers(out))
	assert.Equal(t, 2, strings.Count(out, WarnTrackingURL))
	assert.Equal(t, 1, strings.Count(out, WarnUnsubscribeURL))
	assert.Contains(t, out, PlaceholderPixelURL)
}

func TestRenderAnnotatedPreview_MarkerOrder(t *testing.T) {
	cfg := TrackingConfig{
		ClickEnabled: true, ClickURL: "https://t.example/r",
		OpenEnabled: true, OpenURL: "https://o.example/open", PixelURL: "https://cdn.example/p.gif",
		OptoutEnabled: true, OptoutURL: "https://u.example/unsub",
	}
	out, err := RenderAnnotatedPreview(`<p>no links</p>`, cfg)
	require.NoError(t, err)

	click := strings.Index(out, "click-tracker")
	open := strings.Index(out, "open-tracker")
	optout := strings.Index(out, "optout-section")
	assert.True(t, click < open && open < optout, "markers out of order: %d %d %d", click, open, optout)

	assert.Contains(t, out, "https://o.example/open?recipient={{email}}")
	assert.Contains(t, out, "https://cdn.example/p.gif")
	assert.Contains(t, out, "https://u.example/unsub?email={{email}}")
}

func TestRenderAnnotatedPreview_NothingEnabled(t *testing.T) {
	src := `<p><a href="https://a.example">a</a></p>`
	out, err := RenderAnnotatedPreview(src, TrackingConfig{})
	require.NoError(t, err)
	assert.Equal(t, src, out)
	assert.Zero(t, CountMarkers(out))
}

func TestRenderAnnotatedPreview_EscapesMarkerValues(t *testing.T) {
	cfg := TrackingConfig{OptoutEnabled: true, OptoutURL: `https://u.example/<x>`}
	out, err := RenderAnnotatedPreview("", cfg)
	require.NoError(t, err)
	assert.NotContains(t, out, "<x>")
	assert.Contains(t, out, "&lt;x&gt;")
}
