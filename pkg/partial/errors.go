package partial

import (
	"fmt"
	"strings"
)

// MissingError reports a required field that was never set. Field is a
// path-like name such as "postgresPlan: postgresConfig: inherit".
type MissingError struct {
	Field string
}

func (e *MissingError) Error() string {
	return "missing option: " + e.Field
}

// ErrorList accumulates independent validation failures. Validation is never
// fail-fast: callers run every check and collect all failures into one list.
type ErrorList []error

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Err returns the list as an error, or nil when no failures accumulated.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Add appends failures to the list, flattening nested lists and dropping
// nils.
func (l *ErrorList) Add(errs ...error) {
	for _, err := range errs {
		switch e := err.(type) {
		case nil:
		case ErrorList:
			*l = append(*l, e...)
		default:
			*l = append(*l, err)
		}
	}
}

// Prefix returns a copy of the list with a field-path prefix attached to
// every entry, so nested completion failures name their full path.
func (l ErrorList) Prefix(prefix string) ErrorList {
	if len(l) == 0 {
		return nil
	}
	out := make(ErrorList, len(l))
	for i, err := range l {
		if me, ok := err.(*MissingError); ok {
			out[i] = &MissingError{Field: prefix + me.Field}
			continue
		}
		out[i] = fmt.Errorf("%s%w", prefix, err)
	}
	return out
}

// Collect normalizes an error into an ErrorList: nil stays empty, an
// ErrorList is kept as-is, anything else becomes a single-entry list.
func Collect(err error) ErrorList {
	if err == nil {
		return nil
	}
	if l, ok := err.(ErrorList); ok {
		return l
	}
	return ErrorList{err}
}
