// Package tmppostgres provisions throwaway Postgres instances for tests: it
// resolves a port, acquires temporary directories, assembles and validates an
// execution plan, runs the initdb/createdb/postgres processes, and tears the
// whole thing down again leaving nothing behind.
//
// The common entry points are Start (or With) for a running instance and
// Setup for just the validated plan plus resources. All configuration is
// partial: start from the zero Config and set only what should differ from
// the generated defaults.
package tmppostgres

import (
	"github.com/circuithub/tmp-postgres/internal/ports"
	"github.com/circuithub/tmp-postgres/pkg/partial"
	"github.com/circuithub/tmp-postgres/pkg/plan"
	"github.com/circuithub/tmp-postgres/pkg/workdir"
)

// PortProvider hands out a free TCP port for the server to listen on. It is
// an external contract: concurrent callers must never receive the same port.
type PortProvider interface {
	Acquire() (int, error)
}

// Config is the partial, caller-assembled configuration of one instance. The
// zero value provisions a fully default instance on a random free port with
// temporary directories. Config is a monoid under Combine, so callers can
// stack configuration layers in any grouping.
type Config struct {
	// Plan is merged override-wins on top of the generated plan.
	Plan plan.Plan

	// SocketDirectory and DataDirectory default to Temporary.
	SocketDirectory workdir.DirectoryType
	DataDirectory   workdir.DirectoryType

	// TempRoot hosts the temporary directories; defaults to os.TempDir().
	TempRoot partial.Opt[string]

	// Port pins the listening port; unset asks the PortProvider.
	Port partial.Opt[int]

	// RunInitDB defaults to true: a fresh cluster needs initializing unless
	// the data directory already holds one.
	RunInitDB partial.Opt[bool]

	// RunCreateDB defaults to whether Options names a database that does not
	// exist in a fresh cluster.
	RunCreateDB partial.Opt[bool]

	// Options are client connection parameters folded into the generated
	// plan; see ConfigFromOptions.
	Options plan.ConnectionOptions

	// PortProvider overrides how free ports are resolved; nil uses the OS.
	PortProvider PortProvider
}

// Combine merges two configurations field-wise; o's explicit values win.
func (c Config) Combine(o Config) Config {
	merged := Config{
		Plan:            c.Plan.Combine(o.Plan),
		SocketDirectory: c.SocketDirectory.Combine(o.SocketDirectory),
		DataDirectory:   c.DataDirectory.Combine(o.DataDirectory),
		TempRoot:        partial.Combine(c.TempRoot, o.TempRoot),
		Port:            partial.Combine(c.Port, o.Port),
		RunInitDB:       partial.Combine(c.RunInitDB, o.RunInitDB),
		RunCreateDB:     partial.Combine(c.RunCreateDB, o.RunCreateDB),
		Options:         c.Options.Combine(o.Options),
		PortProvider:    c.PortProvider,
	}
	if o.PortProvider != nil {
		merged.PortProvider = o.PortProvider
	}
	return merged
}

// ConfigFromOptions derives a configuration from client connection options,
// for callers that start from "I already have connection parameters".
// Requesting a database missing from a fresh cluster turns the db-creation
// step on.
func ConfigFromOptions(opts plan.ConnectionOptions) Config {
	c := Config{Options: opts}
	if plan.NeedsCreateDB(opts) {
		c.RunCreateDB = partial.Some(true)
	}
	return c
}

func (c Config) portProvider() PortProvider {
	if c.PortProvider != nil {
		return c.PortProvider
	}
	return ports.TCP{}
}
