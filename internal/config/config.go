// Package config resolves timesheet settings. Values come from, in order of
// precedence: TIMESHEET_* environment variables, an optional YAML file, and
// DefaultConfig.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/timesheet/internal/db"
	"github.com/alexanderramin/timesheet/internal/worktime"
	"gopkg.in/yaml.v3"
)

// Config holds everything main needs to wire the application.
type Config struct {
	DBDriver    string `yaml:"db_driver"`
	DBPath      string `yaml:"db_path"`
	MySQLDSN    string `yaml:"mysql_dsn"`
	DailyCapMin int    `yaml:"daily_cap_min"`
	User        string `yaml:"user"`
	HTTPAddr    string `yaml:"http_addr"`
	LogUseCases bool   `yaml:"log_use_cases"`
}

// DefaultConfig returns a Config with sensible defaults: a SQLite file under
// ~/.timesheet, the nine-hour cap and the login name as user.
func DefaultConfig() *Config {
	cfg := &Config{
		DBDriver:    string(db.DialectSQLite),
		DailyCapMin: worktime.DefaultCapMinutes,
		User:        os.Getenv("USER"),
		HTTPAddr:    ":8080",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.DBPath = filepath.Join(home, ".timesheet", "timesheet.db")
	}
	return cfg
}

// DefaultPath is where Load looks for a config file when TIMESHEET_CONFIG is
// unset. Empty when the home directory cannot be found.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".timesheet", "config.yaml")
}

// Load builds the effective configuration. A missing default config file is
// fine; a missing file named by TIMESHEET_CONFIG is an error.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, explicit := os.LookupEnv("TIMESHEET_CONFIG")
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		switch {
		case err == nil:
			cfg.Merge(fileCfg)
		case explicit || !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads a YAML config file. Keys absent from the file are left
// at their zero value so the result can be merged over defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Merge overwrites c with every non-zero field of other.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.DBDriver != "" {
		c.DBDriver = other.DBDriver
	}
	if other.DBPath != "" {
		c.DBPath = other.DBPath
	}
	if other.MySQLDSN != "" {
		c.MySQLDSN = other.MySQLDSN
	}
	if other.DailyCapMin != 0 {
		c.DailyCapMin = other.DailyCapMin
	}
	if other.User != "" {
		c.User = other.User
	}
	if other.HTTPAddr != "" {
		c.HTTPAddr = other.HTTPAddr
	}
	if other.LogUseCases {
		c.LogUseCases = true
	}
}

// ApplyEnv overlays TIMESHEET_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("TIMESHEET_DB_DRIVER"); v != "" {
		c.DBDriver = v
	}
	if v := os.Getenv("TIMESHEET_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("TIMESHEET_MYSQL_DSN"); v != "" {
		c.MySQLDSN = v
	}
	if v := os.Getenv("TIMESHEET_DAILY_CAP_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TIMESHEET_DAILY_CAP_MIN: %w", err)
		}
		c.DailyCapMin = n
	}
	if v := os.Getenv("TIMESHEET_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("TIMESHEET_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("TIMESHEET_LOG_USE_CASES"); v != "" {
		c.LogUseCases, _ = strconv.ParseBool(v)
	}
	return nil
}

// Validate checks that the configuration can be wired.
func (c *Config) Validate() error {
	dialect, err := db.ParseDialect(c.DBDriver)
	if err != nil {
		return err
	}
	switch dialect {
	case db.DialectSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("db_path is required for the sqlite driver")
		}
	case db.DialectMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("mysql_dsn is required for the mysql driver")
		}
	}
	if c.DailyCapMin <= 0 || c.DailyCapMin > 24*60 {
		return fmt.Errorf("daily_cap_min must be between 1 and 1440, got %d", c.DailyCapMin)
	}
	return nil
}

// Dialect returns the parsed storage dialect. Call after Validate.
func (c *Config) Dialect() db.Dialect {
	d, _ := db.ParseDialect(c.DBDriver)
	return d
}

// DBTarget is the path or DSN handed to db.Open for the configured dialect.
func (c *Config) DBTarget() string {
	if c.Dialect() == db.DialectMySQL {
		return c.MySQLDSN
	}
	return c.DBPath
}
