package orchestrate

import (
	"go.abhg.dev/hilite/internal/highlight"
	"go.abhg.dev/hilite/internal/html"
	"go.abhg.dev/hilite/internal/protocol"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HighlightedClass marks nodes that hold highlighted code.
// The injected stylesheet is scoped to it.
const HighlightedClass = highlight.ScopeClass

// language picks the language class for a unit:
// the language the worker reported, or the first hint if it reported none.
func (u *unit) language(res protocol.Response) string {
	if res.Language != "" {
		return res.Language
	}
	if len(u.languages) > 0 {
		return u.languages[0]
	}
	return ""
}

// apply writes a response into the unit's node.
//
// A <pre> gets a single <code> child holding the markup,
// and the language class moves from the <pre> to that child.
// A <code> has its contents replaced in place,
// and gains the language class.
// Either way, the node holding the markup is marked with HighlightedClass.
//
// The node is left unchanged if the markup can't be parsed.
func apply(u *unit, res protocol.Response) error {
	lang := u.language(res)

	switch u.kind {
	case Block:
		code := &xhtml.Node{
			Type:     xhtml.ElementNode,
			Data:     "code",
			DataAtom: atom.Code,
		}
		html.AddClass(code, lang)
		if err := html.SetInnerHTML(code, res.Value); err != nil {
			return err
		}
		html.AddClass(code, HighlightedClass)

		html.RemoveChildren(u.node)
		u.node.AppendChild(code)
		if lang != "" {
			html.RemoveClass(u.node, lang)
		}

	case Inline:
		if err := html.SetInnerHTML(u.node, res.Value); err != nil {
			return err
		}
		html.AddClass(u.node, lang)
		html.AddClass(u.node, HighlightedClass)
	}
	return nil
}
