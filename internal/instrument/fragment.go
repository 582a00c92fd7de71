package instrument

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parser turns an HTML fragment into an editable tree.
type Parser interface {
	Parse(src string) (Fragment, error)
}

// Fragment is a parsed HTML fragment.
type Fragment interface {
	// Anchors returns every <a> element in document order.
	Anchors() []Anchor
	// Render serializes the fragment back to HTML.
	Render() (string, error)
}

// Anchor is a single <a> element inside a Fragment.
type Anchor interface {
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	// InsertAfter parses markup and places it immediately after the anchor.
	InsertAfter(markup string)
}

// HTMLParser is the default Parser. It parses in the context of a <body>
// element, so unclosed or misnested tags are repaired instead of rejected.
type HTMLParser struct{}

// NewHTMLParser returns the lenient x/net/html backed parser.
func NewHTMLParser() HTMLParser { return HTMLParser{} }

// Parse implements Parser.
func (HTMLParser) Parse(src string) (Fragment, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		root.AppendChild(n)
	}
	return &htmlFragment{root: goquery.NewDocumentFromNode(root).Selection}, nil
}

type htmlFragment struct {
	root *goquery.Selection
}

func (f *htmlFragment) Anchors() []Anchor {
	var out []Anchor
	f.root.Find("a").Each(func(_ int, s *goquery.Selection) {
		out = append(out, htmlAnchor{sel: s})
	})
	return out
}

func (f *htmlFragment) Render() (string, error) {
	out, err := f.root.Html()
	if err != nil {
		return "", fmt.Errorf("render fragment: %w", err)
	}
	return out, nil
}

type htmlAnchor struct {
	sel *goquery.Selection
}

func (a htmlAnchor) Attr(name string) (string, bool) { return a.sel.Attr(name) }

func (a htmlAnchor) SetAttr(name, value string) { a.sel.SetAttr(name, value) }

func (a htmlAnchor) InsertAfter(markup string) { a.sel.AfterHtml(markup) }
