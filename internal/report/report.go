// Package report writes one line per candidate lookup.
package report

import (
	"fmt"
	"io"

	"udscan/internal/ownership"
)

// NameWidth is the column the candidate name is left-justified to.
const NameWidth = 14

// NotMinted is printed for identifiers the registry has never issued.
const NotMinted = "Domain is not minted yet"

// Reporter routes owned domains to Out and everything else to Err.
type Reporter struct {
	Out io.Writer
	Err io.Writer
}

// New returns a reporter writing to out and errOut.
func New(out, errOut io.Writer) *Reporter {
	return &Reporter{Out: out, Err: errOut}
}

// Report writes the line for name given the result of its lookup and returns
// the outcome it classified.
func (r *Reporter) Report(name, owner string, lookupErr error) (ownership.Outcome, error) {
	outcome := ownership.Classify(lookupErr)
	var err error
	switch outcome {
	case ownership.OutcomeOwned:
		_, err = fmt.Fprintln(r.Out, Line(name, owner))
	case ownership.OutcomeUnregistered:
		_, err = fmt.Fprintln(r.Err, Line(name, NotMinted))
	default:
		_, err = fmt.Fprintln(r.Err, Line(name, lookupErr.Error()))
	}
	return outcome, err
}

// Line formats "<name padded to NameWidth>: <detail>". Longer names are kept whole.
func Line(name, detail string) string {
	return fmt.Sprintf("%-*s: %s", NameWidth, name, detail)
}
