package plan

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/circuithub/tmp-postgres/pkg/partial"
)

// DefaultConnectionTimeout bounds readiness polling unless overridden.
const DefaultConnectionTimeout = 60 * time.Second

// Generate builds the default plan from resolved runtime parameters: the
// port and directories the orchestrator acquired, and whether the caller
// wants the initializer and db-creation steps at all.
//
// The generated server only listens on loopback and the given socket
// directory, targets the "postgres" maintenance database, and logs nowhere.
// Callers override any of it by merging their own plan on top.
func Generate(wantInit, wantCreateDB bool, port int, socketDir, dataDir string) Plan {
	p := Plan{
		Logger: partial.Some(slog.New(slog.NewTextHandler(io.Discard, nil))),
		ConfigFile: []string{
			"listen_addresses = '127.0.0.1, ::1'",
			fmt.Sprintf("unix_socket_directories = '%s'", socketDir),
		},
		DataDirectory:     partial.Some(dataDir),
		ConnectionTimeout: partial.Some(DefaultConnectionTimeout),
		CacheInitDB:       partial.Some(false),
		Postgres: PostgresPlan{
			Config: StandardProcessConfig().Combine(ProcessConfig{
				Args: Args{KeyBased: KeyArgs(map[string]string{
					"-p ": fmt.Sprint(port),
					"-D ": dataDir,
				})},
			}),
			Options: ConnectionOptions{
				Host:   partial.Some(socketDir),
				Port:   partial.Some(port),
				DBName: partial.Some("postgres"),
			},
		},
	}

	if wantInit {
		c := StandardProcessConfig().Combine(ProcessConfig{
			Args: Args{KeyBased: KeyArgs(map[string]string{
				"--pgdata=": dataDir,
			})},
		})
		p.InitDB = &c
	}

	if wantCreateDB {
		c := StandardProcessConfig().Combine(ProcessConfig{
			Args: Args{KeyBased: KeyArgs(map[string]string{
				"-h ": socketDir,
				"-p ": fmt.Sprint(port),
			})},
		})
		p.CreateDB = &c
	}

	return p
}
