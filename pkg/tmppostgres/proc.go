package tmppostgres

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/circuithub/tmp-postgres/pkg/plan"
)

// command builds an exec.Cmd from a completed process configuration. The
// plan's argv, environment list, and stream bindings are used verbatim.
func command(ctx context.Context, program string, cfg plan.CompleteProcessConfig) (*exec.Cmd, error) {
	path, err := exec.LookPath(program)
	if err != nil {
		return nil, fmt.Errorf("locate %s: %w", program, err)
	}

	cmd := exec.CommandContext(ctx, path)
	cmd.Args = append([]string{program}, cfg.Argv...)
	cmd.Env = cfg.Env
	cmd.Stdin = cfg.StdIn
	cmd.Stdout = cfg.StdOut
	cmd.Stderr = cfg.StdErr
	return cmd, nil
}

// runOneShot runs a short-lived step (initdb, createdb) to completion.
func runOneShot(ctx context.Context, program string, cfg plan.CompleteProcessConfig) error {
	cmd, err := command(ctx, program, cfg)
	if err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", program, cfg.Argv, err)
	}
	return nil
}
