package tmppostgres

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ConnURL returns the instance's connection parameters as a pgx URL. The
// host goes into the query string because it is a Unix socket directory.
func (i *Instance) ConnURL() string {
	opts := i.Resources.Plan.Postgres.Options

	u := url.URL{Scheme: "pgx5", Path: "/"}
	if dbname, ok := opts.DBName.Get(); ok {
		u.Path = "/" + dbname
	}
	if user, ok := opts.User.Get(); ok {
		if password, pok := opts.Password.Get(); pok {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}

	q := url.Values{"sslmode": []string{"disable"}}
	if host, ok := opts.Host.Get(); ok {
		q.Set("host", host)
	}
	if port, ok := opts.Port.Get(); ok {
		q.Set("port", fmt.Sprint(port))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Migrate applies every pending migration from dir to the running instance.
// An up-to-date schema is not an error.
func (i *Instance) Migrate(dir string) error {
	m, err := migrate.New("file://"+dir, i.ConnURL())
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
