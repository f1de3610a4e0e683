package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Second, cfg.Tracker.MinRefreshInterval)
	assert.Equal(t, 60*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 240, cfg.Tracker.MaxBreakMinutes)
	assert.Equal(t, 10, cfg.Tracker.MinClockOutNoteLen)
	assert.Equal(t, 8, cfg.Tracker.DefaultProductivityScore)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "jobshop:events", cfg.Redis.Channel)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "jobshop.yaml", `
db_path: /tmp/shop.db
operator: op-ana
timezone: UTC
tracker:
  poll_interval: 30s
  max_break_minutes: 60
redis:
  url: redis://localhost:6379/0
`)

	cfg, err := Load(LoadOptions{YAMLFile: path})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/shop.db", cfg.DBPath)
	assert.Equal(t, "op-ana", cfg.Operator)
	assert.Equal(t, 30*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 60, cfg.Tracker.MaxBreakMinutes)
	assert.Equal(t, 5*time.Second, cfg.Tracker.MinRefreshInterval, "unset keys keep defaults")
	assert.Equal(t, "jobshop:events", cfg.Redis.Channel)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "jobshop.yaml", "operator: op-ana\nhttp:\n  addr: \":9000\"\n")
	t.Setenv("JOBSHOP_OPERATOR", "op-ben")
	t.Setenv("JOBSHOP_MIN_REFRESH_INTERVAL", "2s")
	t.Setenv("JOBSHOP_DEFAULT_PRODUCTIVITY_SCORE", "6")
	t.Setenv("JOBSHOP_LOG_USE_CASES", "true")

	cfg, err := Load(LoadOptions{YAMLFile: path})
	require.NoError(t, err)
	assert.Equal(t, "op-ben", cfg.Operator)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Second, cfg.Tracker.MinRefreshInterval)
	assert.Equal(t, 6, cfg.Tracker.DefaultProductivityScore)
	assert.True(t, cfg.LogUseCases)
}

func TestLoad_EnvFile(t *testing.T) {
	path := writeFile(t, ".env", "JOBSHOP_TIMEZONE=UTC\nJOBSHOP_HTTP_ADDR=:7070\n")
	t.Setenv("JOBSHOP_TIMEZONE", "")
	t.Setenv("JOBSHOP_HTTP_ADDR", "")
	// godotenv never overrides variables that are already set.
	require.NoError(t, os.Unsetenv("JOBSHOP_TIMEZONE"))
	require.NoError(t, os.Unsetenv("JOBSHOP_HTTP_ADDR"))

	cfg, err := Load(LoadOptions{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	_, err := Load(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "nope.env")})
	assert.NoError(t, err)
}

func TestLoad_MissingYAMLFileFails(t *testing.T) {
	_, err := Load(LoadOptions{YAMLFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_MalformedEnvValuesAggregated(t *testing.T) {
	t.Setenv("JOBSHOP_POLL_INTERVAL", "soon")
	t.Setenv("JOBSHOP_MAX_BREAK_MINUTES", "lots")

	_, err := Load(LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JOBSHOP_POLL_INTERVAL")
	assert.Contains(t, err.Error(), "JOBSHOP_MAX_BREAK_MINUTES")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DBPath = ""
	cfg.Timezone = "Mars/Olympus"
	cfg.LogLevel = "chatty"
	cfg.Tracker.DefaultProductivityScore = 11
	cfg.Tracker.PollInterval = 0

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "db_path")
	assert.Contains(t, msg, "Mars/Olympus")
	assert.Contains(t, msg, "chatty")
	assert.Contains(t, msg, "default_productivity_score")
	assert.Contains(t, msg, "poll_interval")
}

func TestValidate_RejectsZeroNoteLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracker.MinClockOutNoteLen = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_clock_out_note_len must be positive")
}

func TestValidate_RedisNamesRequiredWithURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Redis.URL = "redis://localhost:6379"
	cfg.Redis.Stream = ""
	assert.Error(t, cfg.Validate())
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	cfg.LogLevel = "nonsense"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
