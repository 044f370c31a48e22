package tmppostgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
)

// Instance is a running ephemeral Postgres server plus the resources backing
// it. Obtain one with Start and always pair it with Stop.
type Instance struct {
	Resources *Resources

	cmd      *exec.Cmd
	waitCh   chan error
	stopOnce sync.Once
	stopErr  error
}

// Start provisions resources and brings the instance up: initdb (or a cache
// restore), the extra server config lines, the postgres server itself,
// readiness polling, and the optional createdb step. Any failure tears down
// everything already started and releases all resources before returning.
//
// ctx bounds the whole lifetime, not just startup: cancelling it kills the
// server. Use a context that outlives the instance.
func Start(ctx context.Context, cfg Config) (*Instance, error) {
	res, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	inst, err := boot(ctx, res)
	if err != nil {
		return nil, errors.Join(err, res.Release())
	}
	return inst, nil
}

// With runs fn against a started instance and stops it afterwards,
// regardless of how fn returns. Shutdown and release errors are joined onto
// fn's result so a failed cleanup is never silent.
func With(ctx context.Context, cfg Config, fn func(*Instance) error) error {
	inst, err := Start(ctx, cfg)
	if err != nil {
		return err
	}
	return runWith(inst, fn)
}

func runWith(inst *Instance, fn func(*Instance) error) (err error) {
	defer func() {
		err = errors.Join(err, inst.Stop())
	}()
	return fn(inst)
}

func boot(ctx context.Context, res *Resources) (*Instance, error) {
	p := res.Plan
	log := p.Logger

	if p.InitDB != nil {
		if err := runInitDB(ctx, res); err != nil {
			return nil, &StartupError{Step: "initdb", Err: err}
		}
	}

	if err := appendServerConfig(p.DataDirectory, p.ConfigFile); err != nil {
		return nil, &StartupError{Step: "write postgresql.conf", Err: err}
	}

	log.Info("starting postgres", "argv", p.Postgres.Config.Argv)
	cmd, err := command(ctx, "postgres", p.Postgres.Config)
	if err != nil {
		return nil, &StartupError{Step: "start postgres", Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &StartupError{Step: "start postgres", Err: err}
	}

	inst := &Instance{
		Resources: res,
		cmd:       cmd,
		waitCh:    make(chan error, 1),
	}
	go func() { inst.waitCh <- cmd.Wait() }()

	if err := inst.waitReady(ctx); err != nil {
		inst.shutdownServer()
		return nil, &StartupError{Step: "wait for readiness", Err: err}
	}
	log.Info("postgres ready", "conninfo", p.Postgres.ConnString())

	if p.CreateDB != nil {
		if err := runOneShot(ctx, "createdb", *p.CreateDB); err != nil {
			inst.shutdownServer()
			return nil, &StartupError{Step: "createdb", Err: err}
		}
	}

	return inst, nil
}

func runInitDB(ctx context.Context, res *Resources) error {
	p := res.Plan
	log := p.Logger

	if p.CacheInitDB {
		key, err := cacheKey("initdb", p.InitDB.Argv)
		if err != nil {
			return err
		}
		hit, err := restoreCache(key, res.DataDir.Path)
		if err != nil {
			return err
		}
		if hit {
			log.Info("initdb cache hit", "key", key)
			return nil
		}
		if err := runOneShot(ctx, "initdb", *p.InitDB); err != nil {
			return err
		}
		if err := storeCache(key, res.DataDir.Path); err != nil {
			log.Warn("initdb cache store failed", "error", err)
		}
		return nil
	}

	log.Info("running initdb", "argv", p.InitDB.Argv)
	return runOneShot(ctx, "initdb", *p.InitDB)
}

func appendServerConfig(dataDir string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	path := filepath.Join(dataDir, "postgresql.conf")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.WriteString("\n" + strings.Join(lines, "\n") + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// waitReady polls the server over the planned connection options until a
// connection succeeds, the connection timeout elapses, or the server exits.
func (i *Instance) waitReady(ctx context.Context) error {
	p := i.Resources.Plan
	deadline := time.Now().Add(p.ConnectionTimeout)
	connString := p.Postgres.ConnString()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		attemptCtx, cancel := context.WithTimeout(ctx, time.Second)
		conn, err := pgx.Connect(attemptCtx, connString)
		cancel()
		if err == nil {
			closeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			_ = conn.Close(closeCtx)
			cancel()
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("server not ready after %s: %w", p.ConnectionTimeout, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case waitErr := <-i.waitCh:
			i.waitCh <- waitErr
			return fmt.Errorf("server exited during startup: %w", waitErr)
		case <-ticker.C:
		}
	}
}

// shutdownServer asks postgres for a fast shutdown and waits for it to exit.
func (i *Instance) shutdownServer() error {
	if i.cmd == nil || i.cmd.Process == nil {
		return nil
	}
	if err := i.cmd.Process.Signal(syscall.SIGINT); err != nil {
		// Already gone; collect the exit below.
		if !errors.Is(err, os.ErrProcessDone) {
			return err
		}
	}

	waitErr := <-i.waitCh
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		// A fast shutdown triggered by our signal is a clean stop.
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return nil
		}
	}
	return waitErr
}

// Stop shuts the server down and releases every resource. It is safe to call
// more than once and safe to call concurrently with nothing else touching
// the instance.
func (i *Instance) Stop() error {
	i.stopOnce.Do(func() {
		i.stopErr = errors.Join(i.shutdownServer(), i.Resources.Release())
	})
	return i.stopErr
}

// ConnString returns the client connection string of the running instance.
func (i *Instance) ConnString() string {
	return i.Resources.Plan.Postgres.ConnString()
}

// Port returns the resolved listening port.
func (i *Instance) Port() int {
	port, _ := i.Resources.Plan.Postgres.Options.Port.Get()
	return port
}
