package plan

import (
	"log/slog"
	"time"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

// PostgresPlan is the partial plan for the long-running server process: its
// invocation plus the client options used to reach it.
type PostgresPlan struct {
	Config  ProcessConfig
	Options ConnectionOptions
}

// Combine merges two server plans field-wise; o wins.
func (p PostgresPlan) Combine(o PostgresPlan) PostgresPlan {
	return PostgresPlan{
		Config:  p.Config.Combine(o.Config),
		Options: p.Options.Combine(o.Options),
	}
}

// CompletePostgresPlan is the fully resolved server plan.
type CompletePostgresPlan struct {
	Config  CompleteProcessConfig
	Options ConnectionOptions
}

// ConnString renders the resolved client connection string.
func (p CompletePostgresPlan) ConnString() string {
	return p.Options.ConnString()
}

// Complete resolves the server plan. The connection options must name at
// least a host, port, and database for the instance to be reachable.
func (p PostgresPlan) Complete(host []string) (CompletePostgresPlan, error) {
	var errs partial.ErrorList
	var out CompletePostgresPlan

	cfg, err := p.Config.Complete(host)
	errs.Add(partial.Collect(err).Prefix("postgresConfig: "))
	out.Config = cfg

	_, err = partial.Require("connectionOptions: host", p.Options.Host)
	errs.Add(err)
	_, err = partial.Require("connectionOptions: port", p.Options.Port)
	errs.Add(err)
	_, err = partial.Require("connectionOptions: dbname", p.Options.DBName)
	errs.Add(err)
	out.Options = p.Options

	if err := errs.Err(); err != nil {
		return CompletePostgresPlan{}, err
	}
	return out, nil
}

// Plan is the partial description of a whole instance: the optional
// initializer and db-creation steps, the server plan, extra server config
// file lines, and the runtime knobs shared by the supervision layer.
type Plan struct {
	// Logger receives diagnostics during provisioning and supervision.
	Logger partial.Opt[*slog.Logger]

	// InitDB and CreateDB are optional one-shot steps. A set sub-config in an
	// override layer replaces the base layer's sub-config wholesale; an unset
	// one leaves the base untouched.
	InitDB   *ProcessConfig
	CreateDB *ProcessConfig

	// Postgres is the long-running server plan.
	Postgres PostgresPlan

	// ConfigFile lines are appended to the generated postgresql.conf.
	// Layers concatenate: base lines first, override lines after.
	ConfigFile []string

	// DataDirectory is the server's resolved data directory path.
	DataDirectory partial.Opt[string]

	// ConnectionTimeout bounds how long readiness polling may take.
	ConnectionTimeout partial.Opt[time.Duration]

	// CacheInitDB enables reuse of a cached initdb result.
	CacheInitDB partial.Opt[bool]
}

// Combine merges two plans field-wise with override-wins semantics; o wins.
func (p Plan) Combine(o Plan) Plan {
	merged := Plan{
		Logger:            partial.Combine(p.Logger, o.Logger),
		InitDB:            combineSubConfig(p.InitDB, o.InitDB),
		CreateDB:          combineSubConfig(p.CreateDB, o.CreateDB),
		Postgres:          p.Postgres.Combine(o.Postgres),
		DataDirectory:     partial.Combine(p.DataDirectory, o.DataDirectory),
		ConnectionTimeout: partial.Combine(p.ConnectionTimeout, o.ConnectionTimeout),
		CacheInitDB:       partial.Combine(p.CacheInitDB, o.CacheInitDB),
	}
	if len(p.ConfigFile)+len(o.ConfigFile) > 0 {
		merged.ConfigFile = append(append([]string{}, p.ConfigFile...), o.ConfigFile...)
	}
	return merged
}

func combineSubConfig(a, b *ProcessConfig) *ProcessConfig {
	if b != nil {
		c := *b
		return &c
	}
	if a != nil {
		c := *a
		return &c
	}
	return nil
}

// CompletePlan is the fully validated execution plan consumed by the process
// supervision layer.
type CompletePlan struct {
	Logger            *slog.Logger
	InitDB            *CompleteProcessConfig
	CreateDB          *CompleteProcessConfig
	Postgres          CompletePostgresPlan
	ConfigFile        []string
	DataDirectory     string
	ConnectionTimeout time.Duration
	CacheInitDB       bool
}

// Complete validates and resolves the plan against the host environment
// snapshot. Sub-configs are completed only when present; every failure across
// every field and sub-config is accumulated into one list.
func (p Plan) Complete(host []string) (CompletePlan, error) {
	var errs partial.ErrorList
	var out CompletePlan
	var err error

	out.Logger, err = partial.Require("logger", p.Logger)
	errs.Add(err)
	out.DataDirectory, err = partial.Require("dataDirectory", p.DataDirectory)
	errs.Add(err)
	out.ConnectionTimeout, err = partial.Require("connectionTimeout", p.ConnectionTimeout)
	errs.Add(err)
	out.CacheInitDB, err = partial.Require("initDbCache", p.CacheInitDB)
	errs.Add(err)

	pg, err := p.Postgres.Complete(host)
	errs.Add(partial.Collect(err).Prefix("postgresPlan: "))
	out.Postgres = pg

	if p.InitDB != nil {
		c, err := p.InitDB.Complete(host)
		errs.Add(partial.Collect(err).Prefix("initDbConfig: "))
		out.InitDB = &c
	}
	if p.CreateDB != nil {
		c, err := p.CreateDB.Complete(host)
		errs.Add(partial.Collect(err).Prefix("createDbConfig: "))
		out.CreateDB = &c
	}

	out.ConfigFile = append([]string{}, p.ConfigFile...)

	if err := errs.Err(); err != nil {
		return CompletePlan{}, err
	}
	return out, nil
}
