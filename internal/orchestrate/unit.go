package orchestrate

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"go.abhg.dev/hilite/internal/html"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// Elements that are highlighted.
	_candidateSelector = cascadia.MustCompile(
		"pre:not(.idl):not(.nohighlight), code.highlight")

	// Code nested inside a candidate.
	// Each match is highlighted separately.
	_nestedSelector = cascadia.MustCompile("code")
)

// Kind is the kind of element a unit of code lives in.
// It decides how a highlighting result is applied.
type Kind int

const (
	// Block is a block container: <pre>.
	Block Kind = iota + 1

	// Inline is an inline code span: <code>.
	Inline
)

func (k Kind) String() string {
	switch k {
	case Block:
		return "block"
	case Inline:
		return "inline"
	default:
		return "unknown"
	}
}

func kindOf(n *xhtml.Node) Kind {
	if n.DataAtom == atom.Pre {
		return Block
	}
	return Inline
}

// candidate is an element matched by discovery.
type candidate struct {
	node *xhtml.Node

	// Units of this candidate that haven't resolved yet.
	// The candidate is busy while this is positive.
	pending int
}

// unit is a piece of code that is highlighted on its own.
type unit struct {
	owner *candidate
	node  *xhtml.Node
	kind  Kind

	// Set when the unit is dispatched.
	id string

	code      string
	languages []string
}

// discover finds the candidates in doc and derives their units.
// Candidates with no text are skipped and counted.
func discover(doc *xhtml.Node) (units []*unit, candidates, skipped int) {
	claimed := make(map[*xhtml.Node]struct{})
	for _, n := range _candidateSelector.MatchAll(doc) {
		// A code.highlight nested inside a <pre> that was already found
		// is one of that <pre>'s units.
		if _, ok := claimed[n]; ok {
			continue
		}
		candidates++

		if strings.TrimSpace(html.TextContent(n)) == "" {
			skipped++
			continue
		}

		owner := &candidate{node: n}
		for _, target := range targetsOf(n) {
			claimed[target] = struct{}{}

			code := html.TextContent(target)
			if strings.TrimSpace(code) == "" {
				skipped++
				continue
			}

			units = append(units, &unit{
				owner:     owner,
				node:      target,
				kind:      kindOf(target),
				code:      code,
				languages: LanguageHints(html.Classes(target)),
			})
		}
	}
	return units, candidates, skipped
}

// targetsOf returns the nodes inside n that are highlighted,
// in document order:
// the <code> elements nested inside it, or n itself if there are none.
func targetsOf(n *xhtml.Node) []*xhtml.Node {
	var targets []*xhtml.Node
	for _, c := range _nestedSelector.MatchAll(n) {
		if c != n {
			targets = append(targets, c)
		}
	}
	if len(targets) == 0 {
		targets = []*xhtml.Node{n}
	}
	return targets
}
