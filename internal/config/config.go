// Package config loads the rowkit command configuration from a YAML file,
// .env files and ROWKIT_* environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/syssam/rowkit/dialect"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ROWKIT_"

// Config holds the connection and runtime settings.
type Config struct {
	// Dialect is one of "mysql", "sqlite" or "postgres".
	Dialect string `yaml:"dialect"`
	// DSN is the driver data source name.
	DSN string `yaml:"dsn"`
	// TestSuffix is appended to the MySQL database name, so test runs
	// use a separate database.
	TestSuffix string `yaml:"test_suffix"`
	// MaxOpenConns bounds the pool. Zero means unlimited.
	MaxOpenConns int `yaml:"max_open_conns"`
	// MaxConcurrency bounds the concurrent statements of a batch insert.
	MaxConcurrency int `yaml:"max_concurrency"`
	// SlowThreshold enables the slow statement log when positive.
	SlowThreshold time.Duration `yaml:"slow_threshold"`

	Log   Log   `yaml:"log"`
	Cache Cache `yaml:"cache"`
}

// Log configures the command logger.
type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Cache configures the in-memory result cache.
type Cache struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Dialect: dialect.MySQL,
		Log:     Log{Level: "info", Pretty: true},
		Cache:   Cache{TTL: time.Minute},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// the environment. An empty path skips the file. Variables from the
// given .env files are loaded first, without overriding the existing
// environment; missing .env files are ignored.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := LoadDotenv(envFiles...); err != nil {
		return nil, err
	}
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotenv loads the given .env files into the environment. Existing
// variables win and missing files are skipped.
func LoadDotenv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"DIALECT":     &c.Dialect,
		"DSN":         &c.DSN,
		"TEST_SUFFIX": &c.TestSuffix,
		"LOG_LEVEL":   &c.Log.Level,
	}
	for name, p := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*p = v
		}
	}
	ints := map[string]*int{
		"MAX_OPEN_CONNS":  &c.MaxOpenConns,
		"MAX_CONCURRENCY": &c.MaxConcurrency,
	}
	for name, p := range ints {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config: invalid integer for %s%s: %w", EnvPrefix, name, err)
			}
			*p = n
		}
	}
	durations := map[string]*time.Duration{
		"SLOW_THRESHOLD": &c.SlowThreshold,
		"CACHE_TTL":      &c.Cache.TTL,
	}
	for name, p := range durations {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("config: invalid duration for %s%s: %w", EnvPrefix, name, err)
			}
			*p = d
		}
	}
	bools := map[string]*bool{
		"LOG_PRETTY":    &c.Log.Pretty,
		"CACHE_ENABLED": &c.Cache.Enabled,
	}
	for name, p := range bools {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("config: invalid boolean for %s%s: %w", EnvPrefix, name, err)
			}
			*p = b
		}
	}
	return nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if !dialect.Supported(c.Dialect) {
		errs = append(errs, fmt.Errorf("config: unsupported dialect %q", c.Dialect))
	}
	if c.DSN == "" {
		errs = append(errs, errors.New("config: dsn is required"))
	}
	if c.MaxOpenConns < 0 {
		errs = append(errs, fmt.Errorf("config: max_open_conns must not be negative, got %d", c.MaxOpenConns))
	}
	if c.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("config: max_concurrency must not be negative, got %d", c.MaxConcurrency))
	}
	if c.SlowThreshold < 0 {
		errs = append(errs, fmt.Errorf("config: slow_threshold must not be negative, got %s", c.SlowThreshold))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("config: cache.ttl must not be negative, got %s", c.Cache.TTL))
	}
	return errors.Join(errs...)
}

// DataSourceName returns the DSN to open. For MySQL, a TestSuffix is
// appended to the database name.
func (c *Config) DataSourceName() (string, error) {
	if c.TestSuffix == "" || c.Dialect != dialect.MySQL {
		return c.DSN, nil
	}
	dsn, err := mysql.ParseDSN(c.DSN)
	if err != nil {
		return "", fmt.Errorf("config: parse dsn: %w", err)
	}
	if dsn.DBName == "" {
		return "", errors.New("config: test_suffix requires a database name in the dsn")
	}
	dsn.DBName += c.TestSuffix
	return dsn.FormatDSN(), nil
}
