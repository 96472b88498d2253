package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/SalvatoreBevilacqua/monitoring-app/storage"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override the config file
const (
	EnvConnection   = "STORE_CONNECTION"
	EnvDatabaseName = "DB_NAME"
	EnvPort         = "PORT"
	EnvDebug        = "DEBUG"
	EnvStaticDir    = "STATIC_DIR"
)

const defaultPort = "5000"

// Config maps to the config.toml file for the dashboard service
type Config struct {
	ListenAddress             string `toml:"ListenAddress"`
	Connection                string `toml:"Connection"`
	DatabaseName              string `toml:"DatabaseName"`
	Debug                     bool   `toml:"Debug"`
	StaticDir                 string `toml:"StaticDir"`
	StatsLogIntervalInSeconds uint32 `toml:"StatsLogIntervalInSeconds"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		ListenAddress:             ":" + defaultPort,
		Connection:                storage.DefaultConnection,
		DatabaseName:              storage.DefaultDatabaseName,
		Debug:                     false,
		StatsLogIntervalInSeconds: 300,
	}
}

// LoadConfig parses a TOML file over the default configuration
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	cfg := DefaultConfig()
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}

// Load reads the optional config file and applies the environment overrides on top of it
func Load(filepath string, lookup func(key string) (string, bool)) (*Config, error) {
	cfg, err := LoadConfig(filepath)
	if errors.Is(err, fs.ErrNotExist) {
		defaultCfg := DefaultConfig()
		cfg, err = &defaultCfg, nil
	}
	if err != nil {
		return nil, err
	}

	ApplyEnvOverrides(cfg, lookup)

	return cfg, nil
}

// ApplyEnvOverrides replaces the config values for which an environment variable is set.
// An unparsable DEBUG value is ignored.
func ApplyEnvOverrides(cfg *Config, lookup func(key string) (string, bool)) {
	if val, ok := lookup(EnvConnection); ok {
		cfg.Connection = val
	}
	if val, ok := lookup(EnvDatabaseName); ok {
		cfg.DatabaseName = val
	}
	if val, ok := lookup(EnvPort); ok {
		cfg.ListenAddress = ":" + val
	}
	if val, ok := lookup(EnvDebug); ok {
		debug, err := strconv.ParseBool(val)
		if err == nil {
			cfg.Debug = debug
		}
	}
	if val, ok := lookup(EnvStaticDir); ok {
		cfg.StaticDir = val
	}
}
