// Package plan assembles, merges, and validates the execution plan for an
// ephemeral Postgres instance: the initdb, createdb, and postgres server
// invocations, the server config file, and the client connection options.
//
// Every type in this package is a partial value in the sense of package
// partial: fields may be explicitly unset, values combine associatively with
// override-wins semantics, and Complete turns a partial value into a fully
// specified one or an exhaustive list of missing-field errors.
package plan

import (
	"sort"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

// EnvVars is the partial environment specification of a sub-process.
type EnvVars struct {
	// Inherit controls whether the provisioning process's own environment is
	// passed through. It must be resolved before completion.
	Inherit partial.Opt[bool]

	// Specific entries are appended after the inherited environment (when
	// inheriting) in ascending name order.
	Specific map[string]string
}

// Combine merges two environment specifications; o's entries win.
func (e EnvVars) Combine(o EnvVars) EnvVars {
	return EnvVars{
		Inherit:  partial.Combine(e.Inherit, o.Inherit),
		Specific: partial.MergeMaps(e.Specific, o.Specific),
	}
}

// Complete resolves the environment against a snapshot of the host
// environment (as produced by os.Environ).
//
// When a name occurs both in the host snapshot and in Specific under
// Inherit=true, both entries are kept: the host entry first, the specific one
// after. Which entry a subsequent exec honors is platform-dependent; this
// layer deliberately does not pick a winner.
func (e EnvVars) Complete(host []string) ([]string, error) {
	inherit, err := partial.Require("inherit", e.Inherit)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(e.Specific))
	for name := range e.Specific {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	if inherit {
		out = append(out, host...)
	}
	for _, name := range names {
		out = append(out, name+"="+e.Specific[name])
	}
	return out, nil
}
