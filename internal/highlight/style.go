package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the name of the style used when none is specified.
const DefaultStyle = "github"

// PlainStyle is a minimal syntax highlighting style for Chroma.
// It leaves most text as-is, and fades comments ever so slightly.
var PlainStyle = chroma.MustNewStyle("plain", map[chroma.TokenType]string{
	chroma.Comment:    "#666666",
	chroma.PreWrapper: "bg:#eeeeee",
	chroma.Background: "bg:#eeeeee",
})

func init() {
	styles.Register(PlainStyle)
}

// StyleNames lists the names of all known styles.
func StyleNames() []string {
	return styles.Names()
}

// LookupStyle returns the style with the given name.
// It reports false if there's no such style.
func LookupStyle(name string) (*chroma.Style, bool) {
	s, ok := styles.Registry[name]
	return s, ok
}
