// Package config loads the tmppg CLI configuration from file, environment,
// and defaults, and converts it into the library's partial instance config.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (TMPPG_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the tmppg CLI configuration.
type Config struct {
	// Logging controls CLI log output.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Instance controls how the ephemeral cluster is provisioned.
	Instance InstanceConfig `mapstructure:"instance" yaml:"instance"`

	// Connection sets the client connection parameters. A database name
	// missing from a fresh cluster is created automatically.
	Connection ConnectionConfig `mapstructure:"connection" yaml:"connection"`

	// Migrations optionally applies a migration directory after startup.
	Migrations MigrationsConfig `mapstructure:"migrations" yaml:"migrations"`
}

// LoggingConfig controls CLI logging.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error DEBUG INFO WARN ERROR" yaml:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output is stdout, stderr, or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// InstanceConfig controls cluster provisioning. Zero values mean "let the
// library decide": a random free port, temporary directories, initdb on.
type InstanceConfig struct {
	// Port pins the listening port; 0 asks the OS for a free one.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port,omitempty"`

	// DataDirectory keeps the cluster in a fixed path instead of a
	// temporary directory. Permanent directories survive shutdown.
	DataDirectory string `mapstructure:"data_directory" yaml:"data_directory,omitempty"`

	// SocketDirectory fixes the Unix socket directory.
	SocketDirectory string `mapstructure:"socket_directory" yaml:"socket_directory,omitempty"`

	// TempRoot hosts the temporary directories; empty uses the OS default.
	TempRoot string `mapstructure:"temp_root" yaml:"temp_root,omitempty"`

	// InitDB and CreateDB override the automatic decisions when set.
	InitDB   *bool `mapstructure:"init_db" yaml:"init_db,omitempty"`
	CreateDB *bool `mapstructure:"create_db" yaml:"create_db,omitempty"`

	// CacheInitDB reuses one initialized cluster per initdb invocation.
	CacheInitDB bool `mapstructure:"cache_init_db" yaml:"cache_init_db,omitempty"`

	// Quiet discards the server processes' stdout and stderr.
	Quiet bool `mapstructure:"quiet" yaml:"quiet,omitempty"`

	// ConnectionTimeout bounds readiness polling.
	ConnectionTimeout time.Duration `mapstructure:"connection_timeout" validate:"omitempty,gt=0" yaml:"connection_timeout,omitempty"`

	// ServerConfig is extra postgresql.conf lines, e.g. "fsync = off".
	ServerConfig []string `mapstructure:"server_config" yaml:"server_config,omitempty"`
}

// ConnectionConfig sets client connection parameters.
type ConnectionConfig struct {
	DBName   string `mapstructure:"dbname" yaml:"dbname,omitempty"`
	User     string `mapstructure:"user" yaml:"user,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
}

// MigrationsConfig applies SQL migrations after the instance is ready.
type MigrationsConfig struct {
	// Path is a directory of golang-migrate files. Empty disables the step.
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

// Load loads configuration from file, environment, and defaults. An empty
// configPath uses the default location and falls back to pure defaults when
// no file exists there.
func Load(configPath string) (*Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
	}

	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		return GetDefaultConfig(), nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes the configuration as YAML. 0600 because the connection
// section may carry a password.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	// TMPPG_INSTANCE_PORT=5433, TMPPG_LOGGING_LEVEL=debug, ...
	v.SetEnvPrefix("TMPPG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// durationDecodeHook converts "30s"-style strings to time.Duration.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns $XDG_CONFIG_HOME/tmppg, falling back to
// ~/.config/tmppg, then the current directory.
func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tmppg")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "tmppg")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}
