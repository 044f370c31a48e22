package plan

import (
	"os"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

// ProcessConfig is the partial invocation spec of one sub-process: its
// environment, command line, and the three standard stream bindings.
type ProcessConfig struct {
	Environment EnvVars
	Args        Args
	StdIn       partial.Opt[*os.File]
	StdOut      partial.Opt[*os.File]
	StdErr      partial.Opt[*os.File]
}

// Combine merges two process configurations field-wise; o wins.
func (p ProcessConfig) Combine(o ProcessConfig) ProcessConfig {
	return ProcessConfig{
		Environment: p.Environment.Combine(o.Environment),
		Args:        p.Args.Combine(o.Args),
		StdIn:       partial.Combine(p.StdIn, o.StdIn),
		StdOut:      partial.Combine(p.StdOut, o.StdOut),
		StdErr:      partial.Combine(p.StdErr, o.StdErr),
	}
}

// CompleteProcessConfig is a fully materialized process invocation: resolved
// environment list, resolved argv, and the three stream bindings. The program
// itself is supplied by the layer that execs it.
type CompleteProcessConfig struct {
	Env    []string
	Argv   []string
	StdIn  *os.File
	StdOut *os.File
	StdErr *os.File
}

// Complete resolves the process configuration against the host environment
// snapshot. Every missing field is reported; the returned list holds all
// failures, not just the first.
func (p ProcessConfig) Complete(host []string) (CompleteProcessConfig, error) {
	var errs partial.ErrorList
	var out CompleteProcessConfig

	env, err := p.Environment.Complete(host)
	errs.Add(err)
	out.Env = env

	out.Argv = p.Args.Render()

	out.StdIn, err = partial.Require("stdIn", p.StdIn)
	errs.Add(err)
	out.StdOut, err = partial.Require("stdOut", p.StdOut)
	errs.Add(err)
	out.StdErr, err = partial.Require("stdErr", p.StdErr)
	errs.Add(err)

	if err := errs.Err(); err != nil {
		return CompleteProcessConfig{}, err
	}
	return out, nil
}

// StandardProcessConfig binds a sub-process to the provisioning process's
// stdio and inherits its environment. This is the default every generated
// sub-config starts from.
func StandardProcessConfig() ProcessConfig {
	return ProcessConfig{
		Environment: EnvVars{Inherit: partial.Some(true)},
		StdIn:       partial.Some(os.Stdin),
		StdOut:      partial.Some(os.Stdout),
		StdErr:      partial.Some(os.Stderr),
	}
}

// SilentConfig binds all three standard streams to an explicitly opened null
// device handle. Callers open the handle once at startup with OpenDevNull and
// thread it through; there is no hidden process-wide handle.
func SilentConfig(devNull *os.File) ProcessConfig {
	return ProcessConfig{
		StdIn:  partial.Some(devNull),
		StdOut: partial.Some(devNull),
		StdErr: partial.Some(devNull),
	}
}

// OpenDevNull opens the platform null device for stream bindings.
func OpenDevNull() (*os.File, error) {
	return os.OpenFile(os.DevNull, os.O_RDWR, 0)
}
