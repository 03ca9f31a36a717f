package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/timesheet/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty temp dir so no real config file leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USER", "tester")
	return home
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestDefaultConfig(t *testing.T) {
	home := isolate(t)

	cfg := DefaultConfig()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, filepath.Join(home, ".timesheet", "timesheet.db"), cfg.DBPath)
	assert.Equal(t, 540, cfg.DailyCapMin)
	assert.Equal(t, "tester", cfg.User)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_DefaultFileMerged(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".timesheet", "config.yaml"), `
daily_cap_min: 480
user: kim
log_use_cases: true
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 480, cfg.DailyCapMin)
	assert.Equal(t, "kim", cfg.User)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, ":8080", cfg.HTTPAddr, "unset keys keep defaults")
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.yaml")
	writeConfig(t, path, "daily_cap_min: 480\nuser: kim\n")
	t.Setenv("TIMESHEET_CONFIG", path)
	t.Setenv("TIMESHEET_DAILY_CAP_MIN", "600")
	t.Setenv("TIMESHEET_HTTP_ADDR", "127.0.0.1:9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.DailyCapMin)
	assert.Equal(t, "kim", cfg.User)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	home := isolate(t)
	t.Setenv("TIMESHEET_CONFIG", filepath.Join(home, "nope.yaml"))

	_, err := Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_BadYAML(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".timesheet", "config.yaml"), "daily_cap_min: [oops\n")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_BadCapEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TIMESHEET_DAILY_CAP_MIN", "nine hours")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMESHEET_DAILY_CAP_MIN")
}

func TestLoad_MySQL(t *testing.T) {
	isolate(t)
	t.Setenv("TIMESHEET_DB_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err, "mysql without a DSN")

	t.Setenv("TIMESHEET_MYSQL_DSN", "u:p@tcp(db:3306)/timesheet")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, db.DialectMySQL, cfg.Dialect())
	assert.Equal(t, "u:p@tcp(db:3306)/timesheet", cfg.DBTarget())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown driver", func(c *Config) { c.DBDriver = "postgres" }, "unsupported database driver"},
		{"zero cap", func(c *Config) { c.DailyCapMin = 0 }, "daily_cap_min"},
		{"negative cap", func(c *Config) { c.DailyCapMin = -5 }, "daily_cap_min"},
		{"cap over a day", func(c *Config) { c.DailyCapMin = 1441 }, "daily_cap_min"},
		{"no sqlite path", func(c *Config) { c.DBPath = "" }, "db_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DBDriver: "sqlite", DBPath: "x.db", DailyCapMin: 540}
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMerge_NilIsNoop(t *testing.T) {
	cfg := &Config{User: "kim"}
	cfg.Merge(nil)
	assert.Equal(t, "kim", cfg.User)
}
