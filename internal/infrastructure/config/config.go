// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for relate configuration.
	DefaultConfigDir = ".relate"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite database file name.
	DefaultDatabaseFile = "relate.db"
)

// Cache backend names.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds static infrastructure configuration (read-only after
// init).
type Config struct {
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
	Cache  CacheConfig  `yaml:"cache,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite relational database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	Path string `yaml:"path,omitempty"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend string      `yaml:"backend,omitempty"`
	Redis   RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig holds connection settings for the Redis cache backend.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Mode is "dev" or "prod".
	Mode string `yaml:"mode,omitempty"`
}

// Default returns a Config with default values.
func Default(basePath string) *Config {
	return &Config{
		SQLite: SQLiteConfig{
			Path: filepath.Join(basePath, DefaultConfigDir, DefaultDatabaseFile),
		},
		Cache: CacheConfig{
			Backend: CacheBackendMemory,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}

// Load loads configuration from the .relate directory in the given
// path. A missing config file yields the defaults so commands work
// before anything has been written.
func Load(basePath string) (*Config, error) {
	cfg := Default(basePath)

	data, err := os.ReadFile(ConfigFilePath(basePath))
	if os.IsNotExist(err) {
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to the .relate directory.
func (c *Config) Save(basePath string) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigFilePath(basePath), data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("RELATE_SQLITE_PATH"); path != "" {
		c.SQLite.Path = path
	}
	if backend := os.Getenv("RELATE_CACHE_BACKEND"); backend != "" {
		c.Cache.Backend = backend
	}
	if addr := os.Getenv("RELATE_REDIS_ADDR"); addr != "" {
		c.Cache.Redis.Addr = addr
	}
	if password := os.Getenv("RELATE_REDIS_PASSWORD"); password != "" {
		c.Cache.Redis.Password = password
	}
	if db := os.Getenv("RELATE_REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			c.Cache.Redis.DB = n
		}
	}
	if mode := os.Getenv("RELATE_LOG_MODE"); mode != "" {
		c.Log.Mode = mode
	}
}

// ConfigDir returns the path to the .relate config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if a relate config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
