package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// sampleConfig is written by `tmppg init`. It documents every section with
// its default so users can uncomment what they need.
const sampleConfig = `# tmppg configuration file
#
# Every option can be overridden with TMPPG_<SECTION>_<KEY> environment
# variables, e.g. TMPPG_INSTANCE_PORT=5433 or TMPPG_LOGGING_LEVEL=debug.

logging:
  level: info      # debug, info, warn, error
  format: text     # text, json
  output: stderr   # stdout, stderr, or a file path

instance:
  # port: 5433                # default: a random free port
  # data_directory: ~/pgdata  # default: a temporary directory, removed on stop
  # socket_directory: /tmp/s  # default: a temporary directory
  # temp_root: /tmp           # where temporary directories are created
  # init_db: true             # default: true
  # create_db: true           # default: on when connection.dbname needs it
  # cache_init_db: false      # reuse one initialized cluster across runs
  # quiet: false              # discard the server's stdout/stderr
  # connection_timeout: 60s   # readiness polling bound
  # server_config:            # extra postgresql.conf lines
  #   - fsync = off

connection:
  # dbname: app_test
  # user: app
  # password: secret

migrations:
  # path: ./migrations        # golang-migrate directory, applied after start
`

// InitConfig writes a sample configuration to the default location and
// returns its path.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	return path, InitConfigToPath(path, force)
}

// InitConfigToPath writes a sample configuration to path. An existing file is
// only overwritten with force.
func InitConfigToPath(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
