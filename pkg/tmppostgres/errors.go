package tmppostgres

import "fmt"

// AcquisitionError reports a failed filesystem or network primitive during
// setup. It is always fatal: sibling resources acquired earlier in the same
// attempt are rolled back before it propagates, and nothing is retried.
type AcquisitionError struct {
	Resource string
	Err      error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquire %s: %v", e.Resource, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// StartupError reports a sub-process that failed to run or a server that
// never became ready. Resources are already released when it surfaces.
type StartupError struct {
	Step string
	Err  error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}
