// Package html is the boundary between hilite and HTML documents.
//
// Documents are trees of [html.Node] from golang.org/x/net/html.
// This package reads and writes them,
// and provides the small set of DOM operations
// needed to apply highlighting results:
// class lists, attributes, text content,
// and replacement of an element's contents with markup.
package html

import (
	"io"

	"braces.dev/errtrace"
	"golang.org/x/net/html"
)

// Parse reads an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	return doc, errtrace.Wrap(err)
}

// Render writes an HTML document.
func Render(w io.Writer, doc *html.Node) error {
	return errtrace.Wrap(html.Render(w, doc))
}
