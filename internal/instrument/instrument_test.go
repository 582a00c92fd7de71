package instrument

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOutput(t *testing.T, out string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	return doc
}

func TestInstrument_ClickScenario(t *testing.T) {
	cfg := TrackingConfig{ClickEnabled: true, ClickURL: "https://t.example/r"}

	out, err := Instrument(`<a href="http://x.com">go</a>`, cfg)
	require.NoError(t, err)

	a := parseOutput(t, out).Find("a").First()
	href, _ := a.Attr("href")
	assert.Equal(t, "https://t.example/r?url=http%3A%2F%2Fx.com&recipient={{email}}", href)
	orig, ok := a.Attr(AttrOriginalURL)
	assert.True(t, ok)
	assert.Equal(t, "http://x.com", orig)
	title, _ := a.Attr("title")
	assert.Equal(t, "(Tracked)", title)
	assert.Equal(t, "go", a.Text())
}

func TestInstrument_KeepsExistingTitle(t *testing.T) {
	cfg := TrackingConfig{ClickEnabled: true, ClickURL: "https://t.example/r"}

	out, err := Instrument(`<p><a href="https://shop.example/a b" title="Shop">shop</a></p>`, cfg)
	require.NoError(t, err)

	a := parseOutput(t, out).Find("a")
	title, _ := a.Attr("title")
	assert.Equal(t, "Shop (Tracked)", title)
	href, _ := a.Attr("href")
	assert.Equal(t, "https://t.example/r?url=https%3A%2F%2Fshop.example%2Fa%20b&recipient={{email}}", href)
}

func TestInstrument_SkipsFragmentAndMailtoLinks(t *testing.T) {
	cfg := TrackingConfig{ClickEnabled: true, ClickURL: "https://t.example/r"}
	src := `<a href="#top">top</a><a href="mailto:me@example.com">mail</a><a>bare</a><a href="">empty</a><a href="https://x.com">x</a>`

	out, err := Instrument(src, cfg)
	require.NoError(t, err)

	anchors := parseOutput(t, out).Find("a")
	require.Equal(t, 5, anchors.Length())

	href, _ := anchors.Eq(0).Attr("href")
	assert.Equal(t, "#top", href)
	href, _ = anchors.Eq(1).Attr("href")
	assert.Equal(t, "mailto:me@example.com", href)
	_, has := anchors.Eq(2).Attr("href")
	assert.False(t, has)
	href, _ = anchors.Eq(3).Attr("href")
	assert.Equal(t, "", href)

	for i := 0; i < 4; i++ {
		_, tracked := anchors.Eq(i).Attr(AttrOriginalURL)
		assert.False(t, tracked, "anchor %d should not be tracked", i)
	}

	href, _ = anchors.Eq(4).Attr("href")
	assert.True(t, strings.HasPrefix(href, "https://t.example/r?url="))
}

func TestInstrument_NoEligibleLinksLeavesInputUntouched(t *testing.T) {
	cfg := TrackingConfig{ClickEnabled: true, ClickURL: "https://t.example/r"}
	src := "<p>Hello <b>world</b><br></p>"

	out, err := Instrument(src, cfg)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestInstrument_ClickWithoutURLDoesNothing(t *testing.T) {
	src := `<a href="https://x.com">x</a>`
	out, err := Instrument(src, TrackingConfig{ClickEnabled: true})
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestInstrument_OpenPixel(t *testing.T) {
	t.Run("placeholder when pixel url unset", func(t *testing.T) {
		out, err := Instrument("<p>hi</p>", TrackingConfig{OpenEnabled: true, OpenURL: "https://o.example/open"})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(out, "<p>hi</p>\n<img "))
		img := parseOutput(t, out).Find("img")
		src, _ := img.Attr("src")
		assert.Equal(t, PlaceholderPixelURL, src)
		track, _ := img.Attr(AttrTrackingURL)
		assert.Equal(t, "https://o.example/open?recipient={{email}}", track)
		w, _ := img.Attr("width")
		assert.Equal(t, "1", w)
	})

	t.Run("custom pixel url", func(t *testing.T) {
		cfg := TrackingConfig{OpenEnabled: true, OpenURL: "https://o.example/open", PixelURL: "https://cdn.example/p.gif"}
		out, err := Instrument("<p>hi</p>", cfg)
		require.NoError(t, err)
		src, _ := parseOutput(t, out).Find("img").Attr("src")
		assert.Equal(t, "https://cdn.example/p.gif", src)
	})

	t.Run("no tracking endpoint still renders pixel", func(t *testing.T) {
		out, err := Instrument("<p>hi</p>", TrackingConfig{OpenEnabled: true})
		require.NoError(t, err)
		img := parseOutput(t, out).Find("img")
		src, _ := img.Attr("src")
		assert.NotEmpty(t, src)
		_, has := img.Attr(AttrTrackingURL)
		assert.False(t, has)
	})
}

func TestInstrument_OptoutFooter(t *testing.T) {
	out, err := Instrument("<p>hi</p>", TrackingConfig{OptoutEnabled: true, OptoutURL: "https://u.example/unsub"})
	require.NoError(t, err)
	href, _ := parseOutput(t, out).Find("a").Attr("href")
	assert.Equal(t, "https://u.example/unsub?email={{email}}", href)

	out, err = Instrument("<p>hi</p>", TrackingConfig{OptoutEnabled: true})
	require.NoError(t, err)
	href, _ = parseOutput(t, out).Find("a").Attr("href")
	assert.Equal(t, "#", href)
}

func TestInstrument_StageOrder(t *testing.T) {
	cfg := TrackingConfig{
		ClickEnabled: true, ClickURL: "https://t.example/r",
		OpenEnabled: true, OpenURL: "https://o.example/open",
		OptoutEnabled: true, OptoutURL: "https://u.example/unsub",
	}
	out, err := Instrument(`<p><a href="https://x.com">x</a></p>`, cfg)
	require.NoError(t, err)

	pixel := strings.Index(out, "<img ")
	footer := strings.Index(out, "unsubscribe here")
	require.Greater(t, pixel, 0)
	require.Greater(t, footer, 0)
	assert.Less(t, pixel, footer)

	// the footer link is appended after the click stage and stays untracked
	anchors := parseOutput(t, out).Find("a")
	require.Equal(t, 2, anchors.Length())
	href, _ := anchors.Eq(1).Attr("href")
	assert.Equal(t, "https://u.example/unsub?email={{email}}", href)
}

func TestInstrument_NotIdempotent(t *testing.T) {
	cfg := TrackingConfig{OpenEnabled: true, OptoutEnabled: true}
	once, err := Instrument("<p>hi</p>", cfg)
	require.NoError(t, err)
	twice, err := Instrument(once, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(once, "<img "))
	assert.Equal(t, 2, strings.Count(twice, "<img "))
}

func TestInstrument_LeavesTokensLiteral(t *testing.T) {
	cfg := TrackingConfig{ClickEnabled: true, ClickURL: "https://t.example/r"}
	out, err := Instrument(`<p>Hi {{name}} at {{company}}</p><a href="https://x.com">x</a> {{unsubscribe}}`, cfg)
	require.NoError(t, err)
	for _, tok := range []string{TokenName, TokenCompany, TokenUnsubscribe, TokenEmail} {
		assert.Contains(t, out, tok)
	}
}

func TestInstrument_MalformedHTMLIsTolerated(t *testing.T) {
	cfg := TrackingConfig{ClickEnabled: true, ClickURL: "https://t.example/r"}
	out, err := Instrument(`<div><p>unclosed <a href="https://x.com">x<table><td>cell`, cfg)
	require.NoError(t, err)
	assert.Contains(t, out, AttrOriginalURL)
}

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://x.com", "http%3A%2F%2Fx.com"},
		{"a b", "a%20b"},
		{"it's (ok)!*~", "it's%20(ok)!*~"},
		{"https://x.com/?q=1&r=2", "https%3A%2F%2Fx.com%2F%3Fq%3D1%26r%3D2"},
		{"ü", "%C3%BC"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeURIComponent(tt.in))
		})
	}
}
