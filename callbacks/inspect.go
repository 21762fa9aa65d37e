package callbacks

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Anomaly describes an unexpected payload shape noticed by the
// console handler: a missing field, an empty collection, or multiple
// items where one was expected.
type Anomaly struct {
	// Hook names the event kind that noticed the anomaly.
	Hook string
	// Detail is a one-line description of what was unexpected.
	Detail string
}

// InspectFunc is invoked on each anomaly when the handler is verbose.
// Implementations may block; the pipeline waits until the function
// returns. A nil InspectFunc means anomalies are logged but never
// suspend execution.
type InspectFunc func(a Anomaly)

// StdinInspector returns an InspectFunc that pauses for an operator:
// it announces the anomaly on out and blocks until a line is read
// from in. Nil in/out default to the process stdin and stderr.
func StdinInspector(in io.Reader, out io.Writer) InspectFunc {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	r := bufio.NewReader(in)
	return func(a Anomaly) {
		fmt.Fprintf(out, "Paused on anomaly in %s: %s\nPress Enter to continue.\n", a.Hook, a.Detail)
		_, _ = r.ReadString('\n')
	}
}
