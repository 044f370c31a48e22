package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circuithub/tmp-postgres/pkg/partial"
	"github.com/circuithub/tmp-postgres/pkg/plan"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, plan.DefaultConnectionTimeout, cfg.Instance.ConnectionTimeout)
	assert.Zero(t, cfg.Instance.Port)
	assert.Nil(t, cfg.Instance.InitDB)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "configuration file not found")
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
instance:
  port: 5433
  cache_init_db: true
  connection_timeout: 15s
  server_config:
    - fsync = off
connection:
  dbname: app_test
  user: app
migrations:
  path: ./migrations
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5433, cfg.Instance.Port)
	assert.True(t, cfg.Instance.CacheInitDB)
	assert.Equal(t, 15*time.Second, cfg.Instance.ConnectionTimeout)
	assert.Equal(t, []string{"fsync = off"}, cfg.Instance.ServerConfig)
	assert.Equal(t, "app_test", cfg.Connection.DBName)
	assert.Equal(t, "app", cfg.Connection.User)
	assert.Equal(t, "./migrations", cfg.Migrations.Path)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "instance:\n  port: 5433\n")
	t.Setenv("TMPPG_INSTANCE_PORT", "6001")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6001, cfg.Instance.Port)
}

func TestLoadValidationFailure(t *testing.T) {
	path := writeConfig(t, "instance:\n  port: 70000\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "configuration validation failed")
	assert.ErrorContains(t, err, "max")
}

func TestLoadBadLogFormat(t *testing.T) {
	path := writeConfig(t, "logging:\n  format: xml\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "oneof")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := GetDefaultConfig()
	cfg.Instance.Port = 5433
	cfg.Connection.DBName = "orders"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveConfig(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5433, loaded.Instance.Port)
	assert.Equal(t, "orders", loaded.Connection.DBName)
}

func TestProvisionConfig(t *testing.T) {
	t.Parallel()

	on := true
	cfg := GetDefaultConfig()
	cfg.Instance = InstanceConfig{
		Port:              5433,
		DataDirectory:     "/var/lib/tmppg/data",
		TempRoot:          "/scratch",
		InitDB:            &on,
		CacheInitDB:       true,
		ConnectionTimeout: 15 * time.Second,
		ServerConfig:      []string{"fsync = off"},
	}
	cfg.Connection = ConnectionConfig{DBName: "app_test", User: "app", Password: "hunter2"}

	pc := cfg.ProvisionConfig(nil)
	assert.Equal(t, partial.Some(5433), pc.Port)
	assert.Equal(t, partial.Some("/scratch"), pc.TempRoot)
	assert.Equal(t, partial.Some(true), pc.RunInitDB)
	assert.False(t, pc.RunCreateDB.IsSet(), "auto decision left to the library")
	assert.Equal(t, partial.Some(true), pc.Plan.CacheInitDB)
	assert.Equal(t, partial.Some(15*time.Second), pc.Plan.ConnectionTimeout)
	assert.Equal(t, []string{"fsync = off"}, pc.Plan.ConfigFile)

	dataPath, ok := pc.DataDirectory.PermanentPath()
	require.True(t, ok)
	assert.Equal(t, "/var/lib/tmppg/data", dataPath)

	assert.Equal(t, partial.Some("app_test"), pc.Options.DBName)
	assert.Equal(t, partial.Some("app"), pc.Options.User)
	assert.Equal(t, partial.Some("hunter2"), pc.Options.Password)
}

func TestProvisionConfigSilent(t *testing.T) {
	t.Parallel()

	devNull, err := plan.OpenDevNull()
	require.NoError(t, err)
	defer devNull.Close()

	cfg := GetDefaultConfig()
	pc := cfg.ProvisionConfig(devNull)
	assert.True(t, pc.Plan.Postgres.Config.StdOut.IsSet())
	assert.True(t, pc.Plan.Postgres.Config.StdErr.IsSet())
}

func TestInitConfigToPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, InitConfigToPath(path, false))

	// The sample must load cleanly.
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)

	// A second write without force refuses.
	err = InitConfigToPath(path, false)
	assert.ErrorContains(t, err, "already exists")
	require.NoError(t, InitConfigToPath(path, true))
}

func TestApplyDefaultsNormalizesLevel(t *testing.T) {
	t.Parallel()

	cfg := &Config{Logging: LoggingConfig{Level: "INFO"}}
	ApplyDefaults(cfg)
	assert.Equal(t, "info", cfg.Logging.Level)
}
