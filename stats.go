package shade

import (
	"fmt"
	"io"
	"sort"
	"time"

	"gitlab.com/variadico/lctime"
)

// Stats accumulates counters across a Collector's lifetime. It is the
// shade equivalent of the teacher's runtime.MemStats-backed
// CollectorShowStats (collector.go): since shade implements its own
// heap rather than delegating to Go's, it tracks its own numbers
// instead of reading them from the runtime.
type Stats struct {
	allocations int
	collections int
	freed       int
	lastGC      time.Time
}

func (c *Collector) trackCollection() {
	c.stats.lastGC = collectionClock()
}

// collectionClock exists so tests can observe Report's output
// deterministically; production builds just use time.Now.
var collectionClock = time.Now

// Allocations reports the number of values ever allocated through this
// Collector, live or since freed.
func (c *Collector) Allocations() int { return c.stats.allocations }

// Collections reports the number of completed mark-and-sweep cycles.
func (c *Collector) Collections() int { return c.stats.collections }

// Freed reports the number of cells freed across every collection.
func (c *Collector) Freed() int { return c.stats.freed }

const reportFormat = `
Allocations:        %d
Completed cycles:    %d
Freed cells:         %d
Last collection:     %s
`

// Report writes a human-readable summary of c's lifetime statistics to
// w, the same multi-line-Printf shape as the teacher's
// CollectorShowStats. The timestamp is rendered through
// gitlab.com/variadico/lctime's locale-aware Strftime rather than
// time.Time's own formatting, since lctime is already a dependency
// this project carries forward from the teacher for exactly this kind
// of report. When c.cfg.Verbose is set, the names of the known payload
// types follow, sorted and then in registration order, drawn from the
// process-wide type registry (typeinfo.go).
func (c *Collector) Report(w io.Writer) {
	last := "never"
	if !c.stats.lastGC.IsZero() {
		last = lctime.Strftime("%c", c.stats.lastGC)
	}
	fmt.Fprintf(w, reportFormat, c.stats.allocations, c.stats.collections, c.stats.freed, last)
	if c.cfg.Verbose {
		names := knownTypes()
		sort.Strings(names)
		fmt.Fprintln(w, "Known types:")
		for _, n := range names {
			fmt.Fprintf(w, "  %s\n", n)
		}
		fmt.Fprintln(w, "Registration order:")
		for _, n := range firstSeenOrder() {
			fmt.Fprintf(w, "  %s\n", n)
		}
	}
}
