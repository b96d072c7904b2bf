package html

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StylesheetAttr marks the <style> element added by [InjectStylesheet].
const StylesheetAttr = "data-hilite"

var (
	_htmlSelector       = cascadia.MustCompile("html")
	_headSelector       = cascadia.MustCompile("head")
	_stylesheetSelector = cascadia.MustCompile("style[" + StylesheetAttr + "]")
)

// InjectStylesheet adds a <style> element holding css
// to the <head> of doc.
// If doc already has one, its contents are replaced.
// A <head> is created if doc has none.
func InjectStylesheet(doc *html.Node, css string) *html.Node {
	if style := _stylesheetSelector.MatchFirst(doc); style != nil {
		RemoveChildren(style)
		style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
		return style
	}

	head := _headSelector.MatchFirst(doc)
	if head == nil {
		head = createHead(doc)
	}

	style := &html.Node{
		Type:     html.ElementNode,
		Data:     "style",
		DataAtom: atom.Style,
		Attr:     []html.Attribute{{Key: StylesheetAttr}},
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	head.AppendChild(style)
	return style
}

// createHead adds an empty <head> as the first child of the <html> element,
// or of doc itself if there is no <html> element.
func createHead(doc *html.Node) *html.Node {
	parent := doc
	if root := _htmlSelector.MatchFirst(doc); root != nil {
		parent = root
	}

	head := &html.Node{
		Type:     html.ElementNode,
		Data:     "head",
		DataAtom: atom.Head,
	}
	parent.InsertBefore(head, parent.FirstChild)
	return head
}

// RemoveStylesheet removes the <style> elements added by [InjectStylesheet].
// It reports whether anything was removed.
func RemoveStylesheet(doc *html.Node) bool {
	styles := _stylesheetSelector.MatchAll(doc)
	for _, s := range styles {
		if s.Parent != nil {
			s.Parent.RemoveChild(s)
		}
	}
	return len(styles) > 0
}
