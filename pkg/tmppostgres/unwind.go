package tmppostgres

import "errors"

// unwind is an explicit stack of undo actions. Each acquired resource pushes
// its release; on failure the stack runs in reverse acquisition order, so a
// later failure can never orphan an earlier resource.
type unwind struct {
	undos []func() error
}

func (u *unwind) push(undo func() error) {
	u.undos = append(u.undos, undo)
}

// rollback runs every pushed undo, newest first. All undos run even when
// some fail; their errors are joined.
func (u *unwind) rollback() error {
	var errs []error
	for i := len(u.undos) - 1; i >= 0; i-- {
		if err := u.undos[i](); err != nil {
			errs = append(errs, err)
		}
	}
	u.undos = nil
	return errors.Join(errs...)
}
