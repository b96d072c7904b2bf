package highlight

import (
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Lookup returns a lexer for the first of the given languages
// that Chroma recognizes, along with that language's name.
// Languages may be names, aliases, or file extensions.
//
// Lookup returns a nil lexer if no language is recognized.
func Lookup(languages []string) (chroma.Lexer, string) {
	for _, lang := range languages {
		if lang == "" {
			continue
		}
		if l := lexers.Get(lang); l != nil {
			return l, languageName(l)
		}
	}
	return nil, ""
}

// detect guesses the lexer from the contents of the code.
// It falls back to plain text with no language.
func detect(code string) (chroma.Lexer, string) {
	if l := lexers.Analyse(code); l != nil {
		return l, languageName(l)
	}
	return lexers.Fallback, ""
}

// languageName is the short name of a lexer's language:
// its first alias, or its name if it has none.
func languageName(l chroma.Lexer) string {
	cfg := l.Config()
	if len(cfg.Aliases) > 0 {
		return strings.ToLower(cfg.Aliases[0])
	}
	return strings.ToLower(cfg.Name)
}
