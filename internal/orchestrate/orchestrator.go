package orchestrate

import (
	"io"
	"log"
	"sync/atomic"
	"time"

	"go.abhg.dev/hilite/internal/html"
	"go.abhg.dev/hilite/internal/protocol"
	"go.abhg.dev/hilite/internal/worker"
	xhtml "golang.org/x/net/html"
)

// DefaultTimeout is how long a unit waits for its response
// if Orchestrator.Timeout is unset.
const DefaultTimeout = 4 * time.Second

// Worker is a highlight worker.
//
// Responses to all requests are delivered to all listeners,
// so listeners must filter them by ID.
type Worker interface {
	// Send dispatches a request without waiting for it.
	Send(protocol.Request)

	// Subscribe registers a listener for responses
	// and returns a function to deregister it.
	Subscribe(func(protocol.Response)) (unsubscribe func())
}

var _ Worker = (*worker.Client)(nil)

// Config controls a single run.
type Config struct {
	// NoHighlightCSS disables highlighting.
	// The injected stylesheet is removed and nothing is sent to the worker.
	NoHighlightCSS bool
}

// Report summarizes a run.
type Report struct {
	// Candidates is the number of elements that were discovered.
	Candidates int

	// Units is the number of requests sent to the worker.
	Units int

	// Applied is the number of units that were highlighted.
	Applied int

	// TimedOut is the number of units that got no response in time.
	TimedOut int

	// Failed is the number of responses that could not be applied.
	Failed int

	// Skipped is the number of elements and nested code spans
	// that had no text and so needed no work.
	Skipped int
}

// Orchestrator highlights documents using a Worker.
//
// Correlation IDs are unique for the lifetime of an Orchestrator,
// so runs of the same Orchestrator may share a Worker concurrently.
type Orchestrator struct {
	// Worker does the highlighting.
	Worker Worker // required

	// Log receives diagnostics about units that timed out
	// or could not be applied.
	Log *log.Logger

	// Timeout is how long each unit waits for its response.
	// Defaults to DefaultTimeout.
	Timeout time.Duration

	seq atomic.Uint64
}

// result is the outcome of a single unit.
// A nil response means the unit timed out.
type result struct {
	unit     *unit
	response *protocol.Response
}

// Run highlights the code in doc.
//
// Run returns only after every unit it dispatched has resolved,
// either with a response or by timing out.
// Units that time out are left unchanged.
// Run does not fail: problems with individual units are logged.
//
// All changes to doc are made on the calling goroutine.
func (o *Orchestrator) Run(doc *xhtml.Node, cfg Config) *Report {
	var report Report
	if cfg.NoHighlightCSS {
		html.RemoveStylesheet(doc)
		return &report
	}

	units, candidates, skipped := discover(doc)
	report.Candidates = candidates
	report.Skipped = skipped
	if candidates == 0 {
		html.RemoveStylesheet(doc)
		return &report
	}

	// Buffered so that listeners and timers never block.
	results := make(chan result, len(units))
	reg := newRegistry()
	for _, u := range units {
		o.dispatch(reg, u, results)
	}
	report.Units = len(units)

	for range units {
		o.resolve(<-results, &report)
	}
	return &report
}

func (o *Orchestrator) logger() *log.Logger {
	if o.Log != nil {
		return o.Log
	}
	return log.New(io.Discard, "", 0)
}

func (o *Orchestrator) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

// dispatch sends a unit to the worker.
// Exactly one result for it will be posted to results.
func (o *Orchestrator) dispatch(reg *registry, u *unit, results chan<- result) {
	u.id = protocol.ID(o.seq.Add(1) - 1)
	u.owner.pending++
	html.SetAttr(u.owner.node, "aria-busy", "true")

	id := u.id
	p := new(pending)
	p.unsubscribe = o.Worker.Subscribe(func(res protocol.Response) {
		if res.ID != id {
			return // not for us
		}
		if p := reg.take(id); p != nil {
			p.stop()
			results <- result{unit: u, response: &res}
		}
	})
	reg.add(id, p, func() *time.Timer {
		return time.AfterFunc(o.timeout(), func() {
			if p := reg.take(id); p != nil {
				p.stop()
				results <- result{unit: u}
			}
		})
	})

	o.Worker.Send(protocol.NewRequest(id, u.code, u.languages))
}

// resolve applies the result of a unit to the document.
func (o *Orchestrator) resolve(r result, report *Report) {
	u := r.unit
	switch {
	case r.response == nil:
		report.TimedOut++
		o.logger().Printf("timed-out waiting for highlight: %v", html.Describe(u.owner.node))
	default:
		if err := apply(u, *r.response); err != nil {
			report.Failed++
			o.logger().Printf("apply highlight %q: %v", u.id, err)
		} else {
			report.Applied++
		}
	}

	u.owner.pending--
	if u.owner.pending == 0 {
		html.SetAttr(u.owner.node, "aria-busy", "false")
	}
}
