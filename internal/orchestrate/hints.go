package orchestrate

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Classes that mark elements for processing
// but say nothing about their language.
var _sentinelClasses = map[string]struct{}{
	"highlight": {},
	"nolinks":   {},
}

// LanguageHints derives language hints from an element's classes.
// All classes except "highlight" and "nolinks" are kept, lowercased,
// in their original order.
//
// The result is never nil. An empty result means the worker should
// decide the language by itself.
func LanguageHints(classes []string) []string {
	lower := cases.Lower(language.Und)
	hints := make([]string, 0, len(classes))
	for _, c := range classes {
		if _, ok := _sentinelClasses[c]; ok {
			continue
		}
		hints = append(hints, lower.String(c))
	}
	return hints
}
