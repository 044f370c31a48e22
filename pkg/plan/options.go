package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

// ConnectionOptions is the partial set of client connection parameters for
// the provisioned server. Host is a hostname or a Unix socket directory.
type ConnectionOptions struct {
	Host     partial.Opt[string]
	Port     partial.Opt[int]
	DBName   partial.Opt[string]
	User     partial.Opt[string]
	Password partial.Opt[string]
}

// Combine merges two option sets field-wise; o wins.
func (c ConnectionOptions) Combine(o ConnectionOptions) ConnectionOptions {
	return ConnectionOptions{
		Host:     partial.Combine(c.Host, o.Host),
		Port:     partial.Combine(c.Port, o.Port),
		DBName:   partial.Combine(c.DBName, o.DBName),
		User:     partial.Combine(c.User, o.User),
		Password: partial.Combine(c.Password, o.Password),
	}
}

// ConnString renders the options as a keyword/value connection string in the
// form libpq and pgconn accept, e.g. "host=/tmp/sock port=5432 dbname=postgres".
func (c ConnectionOptions) ConnString() string {
	var parts []string
	add := func(key string, o partial.Opt[string]) {
		if v, ok := o.Get(); ok {
			parts = append(parts, key+"="+quoteConnValue(v))
		}
	}
	add("host", c.Host)
	if p, ok := c.Port.Get(); ok {
		parts = append(parts, "port="+strconv.Itoa(p))
	}
	add("dbname", c.DBName)
	add("user", c.User)
	add("password", c.Password)
	parts = append(parts, "sslmode=disable")
	return strings.Join(parts, " ")
}

// PGConfig parses the rendered options into a pgconn configuration, the type
// the client library consumes.
func (c ConnectionOptions) PGConfig() (*pgconn.Config, error) {
	cfg, err := pgconn.ParseConfig(c.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse connection options: %w", err)
	}
	return cfg, nil
}

// ParseOptions lifts a libpq-style connection string (or URI) into partial
// connection options. pgconn fills absent parameters from environment and
// built-in defaults, so a parameter counts as set only when it differs from
// what an empty connection string resolves to.
func ParseOptions(connString string) (ConnectionOptions, error) {
	cfg, err := pgconn.ParseConfig(connString)
	if err != nil {
		return ConnectionOptions{}, fmt.Errorf("parse connection string: %w", err)
	}
	base, err := pgconn.ParseConfig("")
	if err != nil {
		return ConnectionOptions{}, fmt.Errorf("parse connection defaults: %w", err)
	}

	var out ConnectionOptions
	if cfg.Host != base.Host {
		out.Host = partial.Some(cfg.Host)
	}
	if cfg.Port != base.Port {
		out.Port = partial.Some(int(cfg.Port))
	}
	if cfg.Database != base.Database {
		out.DBName = partial.Some(cfg.Database)
	}
	if cfg.User != base.User {
		out.User = partial.Some(cfg.User)
	}
	if cfg.Password != base.Password {
		out.Password = partial.Some(cfg.Password)
	}
	return out, nil
}

// quoteConnValue quotes a keyword/value parameter per libpq rules when it
// contains spaces or quotes.
func quoteConnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " '\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
