package config

import (
	"os"

	"github.com/circuithub/tmp-postgres/pkg/partial"
	"github.com/circuithub/tmp-postgres/pkg/plan"
	"github.com/circuithub/tmp-postgres/pkg/tmppostgres"
	"github.com/circuithub/tmp-postgres/pkg/workdir"
)

// ProvisionConfig converts the file configuration into the library's partial
// instance configuration. silent, when non-nil, receives the server's stdout
// and stderr; the caller owns the handle and must keep it open for the
// instance's lifetime.
func (c *Config) ProvisionConfig(silent *os.File) tmppostgres.Config {
	inst := c.Instance
	out := tmppostgres.Config{
		Options: connectionOptions(c.Connection),
	}

	if inst.Port != 0 {
		out.Port = partial.Some(inst.Port)
	}
	if inst.TempRoot != "" {
		out.TempRoot = partial.Some(inst.TempRoot)
	}
	if inst.DataDirectory != "" {
		out.DataDirectory = workdir.Permanent(inst.DataDirectory)
	}
	if inst.SocketDirectory != "" {
		out.SocketDirectory = workdir.Permanent(inst.SocketDirectory)
	}
	if inst.InitDB != nil {
		out.RunInitDB = partial.Some(*inst.InitDB)
	}
	if inst.CreateDB != nil {
		out.RunCreateDB = partial.Some(*inst.CreateDB)
	}
	if inst.CacheInitDB {
		out.Plan.CacheInitDB = partial.Some(true)
	}
	if inst.ConnectionTimeout != 0 {
		out.Plan.ConnectionTimeout = partial.Some(inst.ConnectionTimeout)
	}
	out.Plan.ConfigFile = append([]string(nil), inst.ServerConfig...)

	if silent != nil {
		out.Plan.Postgres.Config = plan.SilentConfig(silent)
	}

	return out
}

func connectionOptions(c ConnectionConfig) plan.ConnectionOptions {
	var opts plan.ConnectionOptions
	if c.DBName != "" {
		opts.DBName = partial.Some(c.DBName)
	}
	if c.User != "" {
		opts.User = partial.Some(c.User)
	}
	if c.Password != "" {
		opts.Password = partial.Some(c.Password)
	}
	return opts
}
