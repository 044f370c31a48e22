// Package workdir manages the filesystem directories backing an ephemeral
// database instance.
//
// A directory resource is either Temporary (created fresh under a temp root
// and destroyed on release) or Permanent (a caller-managed path that is never
// created, verified, or deleted). The partial DirectoryType is a monoid whose
// identity is Temporary; a Permanent spec always beats Temporary, and between
// two Permanent specs the right operand wins.
package workdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

// DirectoryType is the partial specification of a directory resource. The
// zero value means Temporary.
type DirectoryType struct {
	permanent partial.Opt[string]
}

// Temporary specifies a directory that should be freshly created under the
// temp root and deleted on release.
func Temporary() DirectoryType {
	return DirectoryType{}
}

// Permanent specifies a pre-existing, caller-managed directory. The path may
// start with "~" or "~user", which Acquire expands against the corresponding
// home directory.
func Permanent(path string) DirectoryType {
	return DirectoryType{permanent: partial.Some(path)}
}

// PermanentPath returns the configured permanent path, if any.
func (d DirectoryType) PermanentPath() (string, bool) {
	return d.permanent.Get()
}

// Combine merges two directory specifications. Permanent beats Temporary
// regardless of operand order; between two Permanents the right one wins.
func (d DirectoryType) Combine(o DirectoryType) DirectoryType {
	return DirectoryType{permanent: partial.Combine(d.permanent, o.permanent)}
}

func (d DirectoryType) String() string {
	if p, ok := d.permanent.Get(); ok {
		return "permanent " + p
	}
	return "temporary"
}

// CompleteDirectory is a resolved directory resource. Owned directories were
// created by Acquire and are deleted by Release; unowned ones are left alone.
type CompleteDirectory struct {
	Path  string
	Owned bool
}

func (c CompleteDirectory) String() string {
	if c.Owned {
		return c.Path + " (temporary)"
	}
	return c.Path + " (permanent)"
}

// Acquire resolves a directory specification into a concrete directory.
//
// Temporary specs create a new directory under tempRoot using pattern for
// the name; the generated suffix keeps concurrently provisioned instances
// from colliding. Permanent specs expand a leading home-directory shorthand
// and are otherwise returned verbatim; the directory is assumed to exist and
// is never created or checked.
func Acquire(tempRoot, pattern string, spec DirectoryType) (CompleteDirectory, error) {
	if p, ok := spec.PermanentPath(); ok {
		expanded, err := ExpandHome(p)
		if err != nil {
			return CompleteDirectory{}, err
		}
		return CompleteDirectory{Path: expanded, Owned: false}, nil
	}

	path, err := os.MkdirTemp(tempRoot, pattern)
	if err != nil {
		return CompleteDirectory{}, fmt.Errorf("create temporary directory under %s: %w", tempRoot, err)
	}
	return CompleteDirectory{Path: path, Owned: true}, nil
}

// ExpandHome expands a leading "~" or "~user" path component against the
// matching home directory. Paths without the shorthand are returned verbatim.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	name, rest, _ := strings.Cut(path[1:], string(os.PathSeparator))

	var home string
	if name == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		home = h
	} else {
		u, err := user.Lookup(name)
		if err != nil {
			return "", fmt.Errorf("resolve home directory of %q: %w", name, err)
		}
		home = u.HomeDir
	}

	if rest == "" {
		return home, nil
	}
	return filepath.Join(home, rest), nil
}

// Release destroys an owned directory; unowned directories are a no-op.
//
// Removal is crash-safe: the directory is first renamed to a sibling name so
// no writer can target the original path mid-delete, then the renamed copy is
// removed recursively. An already-missing directory counts as success, so
// double release and externally-removed paths are safe. Termination signals
// are held for the duration of the rename-then-delete sequence; a rename
// without a delete leaves an orphaned (but unreachable) directory, which is
// an acceptable degraded state, while a half-deleted tree under the original
// name is not.
func Release(dir CompleteDirectory) error {
	if !dir.Owned {
		return nil
	}

	// Hold interrupts until the sequence finishes.
	resume := holdSignals()
	defer resume()

	doomed := filepath.Join(filepath.Dir(dir.Path), ".removing-"+filepath.Base(dir.Path)+"-"+uuid.NewString())
	if err := os.Rename(dir.Path, doomed); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("rename %s for removal: %w", dir.Path, err)
	}

	if err := os.RemoveAll(doomed); err != nil {
		return fmt.Errorf("remove %s: %w", doomed, err)
	}
	return nil
}

// holdSignals diverts termination signals into a side channel. The returned
// function restores normal delivery and re-raises a signal that arrived
// while held, so an interrupt is deferred past the critical section rather
// than dropped.
func holdSignals() func() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	return func() {
		signal.Stop(sig)
		select {
		case s := <-sig:
			if p, err := os.FindProcess(os.Getpid()); err == nil {
				_ = p.Signal(s)
			}
		default:
		}
	}
}
