package plan

import (
	"strings"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

// ValidationError is the single fatal error surfaced when completing a plan
// fails. It carries every missing-field failure plus a rendered snapshot of
// the plan as it stood, never a partial report.
type ValidationError struct {
	Missing  partial.ErrorList
	Snapshot string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("plan validation failed:\n")
	for _, err := range e.Missing {
		b.WriteString("  " + err.Error() + "\n")
	}
	if e.Snapshot != "" {
		b.WriteString("\nplan at failure:\n")
		b.WriteString(e.Snapshot)
	}
	return b.String()
}

// Unwrap exposes the accumulated failures to errors.Is/As.
func (e *ValidationError) Unwrap() []error {
	return e.Missing
}
