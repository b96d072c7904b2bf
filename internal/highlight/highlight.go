package highlight

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter turns code into HTML.
type Highlighter struct {
	// Style used for syntax highlighting of code.
	// Defaults to Chroma's fallback style.
	Style *chroma.Style

	// UseClasses specifies whether the highlighter
	// uses inline 'style' attributes for highlighting,
	// or classes, assuming use of an appropriate style sheet.
	UseClasses bool

	once      sync.Once
	formatter *chromahtml.Formatter
}

func (h *Highlighter) init() {
	h.once.Do(func() {
		h.formatter = chromahtml.New(
			chromahtml.PreventSurroundingPre(true),
			chromahtml.WithClasses(h.UseClasses),
		)
	})
}

func (h *Highlighter) style() *chroma.Style {
	if h.Style != nil {
		return h.Style
	}
	return styles.Fallback
}

// ScopeClass is the class of the element that holds highlighted markup.
// Rules written by WriteCSS apply only inside such elements.
const ScopeClass = "hljs"

// WriteCSS writes the style classes for this highlighter to writer.
// If this highlighter is not using classes, WriteCSS is a no-op.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	h.init()

	if !h.UseClasses {
		return nil
	}

	// Chroma scopes its rules to the .chroma wrapper,
	// which isn't emitted without the surrounding <pre>.
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style()); err != nil {
		return errtrace.Wrap(err)
	}
	css := strings.ReplaceAll(buf.String(), ".chroma", "."+ScopeClass)
	_, err := io.WriteString(w, css)
	return errtrace.Wrap(err)
}

// Result is highlighted code.
type Result struct {
	// Language that was used to highlight the code.
	// This is empty if no language could be determined
	// and the code was rendered as plain text.
	Language string

	// HTML is the highlighted markup.
	// It does not include a surrounding <pre>.
	HTML string
}

// Highlight renders the given code into HTML.
//
// The first entry of languages that names a known language is used.
// If none do, the language is guessed from the code itself.
func (h *Highlighter) Highlight(code string, languages []string) (*Result, error) {
	h.init()

	lexer, lang := Lookup(languages)
	if lexer == nil {
		lexer, lang = detect(code)
	}

	iter, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	tokens := iter.Tokens()
	if !strings.HasSuffix(code, "\n") {
		tokens = trimAddedNewline(tokens)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style(), chroma.Literator(tokens...)); err != nil {
		return nil, errtrace.Wrap(err)
	}

	return &Result{
		Language: lang,
		HTML:     buf.String(),
	}, nil
}

// trimAddedNewline drops the trailing newline
// that lexers append to code that doesn't end with one.
// The highlighted text must match the original exactly.
func trimAddedNewline(tokens []chroma.Token) []chroma.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := &tokens[i]
		if tok.Value == "" {
			continue
		}
		tok.Value = strings.TrimSuffix(tok.Value, "\n")
		if tok.Value == "" {
			tokens = append(tokens[:i], tokens[i+1:]...)
		}
		break
	}
	return tokens
}
