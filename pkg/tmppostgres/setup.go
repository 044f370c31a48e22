package tmppostgres

import (
	"errors"
	"os"

	"github.com/circuithub/tmp-postgres/pkg/partial"
	"github.com/circuithub/tmp-postgres/pkg/plan"
	"github.com/circuithub/tmp-postgres/pkg/workdir"
)

// Resources is the bundle a successful Setup hands to the caller: the
// completed plan plus the directory handles needed to release it later. The
// caller owns it exclusively; its lifetime ends at Release (or immediately,
// when Setup itself fails and rolls back).
type Resources struct {
	Plan      plan.CompletePlan
	SocketDir workdir.CompleteDirectory
	DataDir   workdir.CompleteDirectory
	TempRoot  string
}

// Setup resolves a port, acquires the socket and data directories, and
// assembles the validated execution plan. It either returns fully usable
// Resources or a single fatal error — and on any failure after partial
// acquisition, everything acquired so far is rolled back in reverse order,
// so no temporary directory outlives a failed attempt.
func Setup(cfg Config) (*Resources, error) {
	host := os.Environ()

	port, ok := cfg.Port.Get()
	if !ok {
		var err error
		port, err = cfg.portProvider().Acquire()
		if err != nil {
			return nil, &AcquisitionError{Resource: "port", Err: err}
		}
	}

	tempRoot := cfg.TempRoot.Or(os.TempDir())

	var undo unwind
	fail := func(err error) (*Resources, error) {
		return nil, errors.Join(err, undo.rollback())
	}

	socketDir, err := workdir.Acquire(tempRoot, "tmp-postgres-socket-", cfg.SocketDirectory)
	if err != nil {
		return fail(&AcquisitionError{Resource: "socket directory", Err: err})
	}
	undo.push(func() error { return workdir.Release(socketDir) })

	dataDir, err := workdir.Acquire(tempRoot, "tmp-postgres-data-", cfg.DataDirectory)
	if err != nil {
		return fail(&AcquisitionError{Resource: "data directory", Err: err})
	}
	undo.push(func() error { return workdir.Release(dataDir) })

	wantInit := cfg.RunInitDB.Or(true)
	wantCreateDB := cfg.RunCreateDB.Or(plan.NeedsCreateDB(cfg.Options))

	generated := plan.Generate(wantInit, wantCreateDB, port, socketDir.Path, dataDir.Path).
		WithOptions(cfg.Options)
	merged := generated.Combine(cfg.Plan)

	completed, err := merged.Complete(host)
	if err != nil {
		return fail(&plan.ValidationError{
			Missing:  partial.Collect(err),
			Snapshot: merged.Render(),
		})
	}

	return &Resources{
		Plan:      completed,
		SocketDir: socketDir,
		DataDir:   dataDir,
		TempRoot:  tempRoot,
	}, nil
}

// Release destroys the temporary directories behind the resources. Permanent
// directories are left alone, and releasing twice (or after an external
// removal) is safe. Both handles are always attempted, even when the first
// release fails.
func (r *Resources) Release() error {
	return errors.Join(
		workdir.Release(r.DataDir),
		workdir.Release(r.SocketDir),
	)
}
