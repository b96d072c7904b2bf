package orchestrate

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.abhg.dev/hilite/internal/html"
	"go.abhg.dev/hilite/internal/protocol"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func TestLanguageHintsProperties(t *testing.T) {
	t.Parallel()

	params := gopter.DefaultTestParameters()
	params.Rng.Seed(1357)
	properties := gopter.NewProperties(params)

	pool := []string{"highlight", "nolinks", "JS", "go", "Python", "HIGHLIGHT", "c++", "ÉCRIT"}
	classes := gen.SliceOf(
		gen.IntRange(0, len(pool)-1).Map(func(i int) string { return pool[i] }),
	)

	properties.Property("sentinels are dropped and the rest kept in order", prop.ForAll(
		func(give []string) bool {
			var want []string
			for _, c := range give {
				if c != "highlight" && c != "nolinks" {
					want = append(want, c)
				}
			}

			got := LanguageHints(give)
			if len(got) != len(want) {
				return false
			}
			lower := cases.Lower(language.Und)
			for i := range got {
				if got[i] != lower.String(want[i]) {
					return false
				}
			}
			return true
		},
		classes,
	))

	properties.Property("hints are lowercase", prop.ForAll(
		func(give []string) bool {
			for _, h := range LanguageHints(give) {
				if h != strings.ToLower(h) {
					return false
				}
			}
			return true
		},
		classes,
	))

	properties.TestingRun(t)
}

func TestRunProperties_arrivalOrder(t *testing.T) {
	t.Parallel()

	params := gopter.DefaultTestParameters()
	params.Rng.Seed(2468)
	params.MinSuccessfulTests = 50
	properties := gopter.NewProperties(params)

	properties.Property("every unit is applied regardless of response order", prop.ForAll(
		func(n int, seed int64) bool {
			var body strings.Builder
			for i := range n {
				fmt.Fprintf(&body, `<pre id="u%d" class="go">code %d</pre>`, i, i)
			}
			doc := parseDoc(t, body.String())

			var w fakeWorker
			o := Orchestrator{Worker: &w, Timeout: time.Minute}
			done := runAsync(&o, doc, Config{})

			reqs := waitRequests(t, &w, n)
			for _, i := range rand.New(rand.NewSource(seed)).Perm(n) {
				w.Respond(protocol.Response{ID: reqs[i].ID, Value: strings.ToUpper(reqs[i].Code)})
			}

			report := waitReport(t, done)
			if report.Applied != n || report.TimedOut != 0 {
				return false
			}
			for i := range n {
				pre := find(t, doc, fmt.Sprintf("#u%d", i))
				if html.TextContent(pre) != fmt.Sprintf("CODE %d", i) {
					return false
				}
				if busy, _ := html.Attr(pre, "aria-busy"); busy != "false" {
					return false
				}
			}
			return w.NumListeners() == 0
		},
		gen.IntRange(1, 8),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
