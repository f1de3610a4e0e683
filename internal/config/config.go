// Package config loads jobshop settings from defaults, an optional .env file,
// an optional YAML file and JOBSHOP_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "JOBSHOP_"

type TrackerConfig struct {
	MinRefreshInterval       time.Duration `yaml:"min_refresh_interval"`
	PollInterval             time.Duration `yaml:"poll_interval"`
	MaxBreakMinutes          int           `yaml:"max_break_minutes"`
	MinClockOutNoteLen       int           `yaml:"min_clock_out_note_len"`
	DefaultProductivityScore int           `yaml:"default_productivity_score"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Channel  string `yaml:"channel"`
	Stream   string `yaml:"stream"`
}

// Config holds all jobshop settings.
type Config struct {
	DBPath string `yaml:"db_path"`
	// Operator is the default operator for CLI commands.
	Operator    string        `yaml:"operator"`
	Timezone    string        `yaml:"timezone"`
	LogLevel    string        `yaml:"log_level"`
	LogUseCases bool          `yaml:"log_use_cases"`
	Tracker     TrackerConfig `yaml:"tracker"`
	HTTP        HTTPConfig    `yaml:"http"`
	Redis       RedisConfig   `yaml:"redis"`
}

// LoadOptions names the optional files read by Load. Empty paths are
// skipped; a missing .env file is not an error.
type LoadOptions struct {
	EnvFile  string
	YAMLFile string
}

func DefaultConfig() Config {
	return Config{
		DBPath:   defaultDBPath(),
		Timezone: "Local",
		LogLevel: "info",
		Tracker: TrackerConfig{
			MinRefreshInterval:       5 * time.Second,
			PollInterval:             60 * time.Second,
			MaxBreakMinutes:          240,
			MinClockOutNoteLen:       10,
			DefaultProductivityScore: 8,
		},
		HTTP: HTTPConfig{Addr: ":8080"},
		Redis: RedisConfig{
			Channel: "jobshop:events",
			Stream:  "jobshop:events:stream",
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "jobshop.db"
	}
	return home + "/.jobshop/jobshop.db"
}

// Load builds the effective configuration and validates it.
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("loading env file %s: %w", opts.EnvFile, err)
		}
	}

	if opts.YAMLFile != "" {
		data, err := os.ReadFile(opts.YAMLFile)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", opts.YAMLFile, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var result *multierror.Error

	setString(&cfg.DBPath, "DB_PATH")
	setString(&cfg.Operator, "OPERATOR")
	setString(&cfg.Timezone, "TIMEZONE")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.HTTP.Addr, "HTTP_ADDR")
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Redis.Channel, "REDIS_CHANNEL")
	setString(&cfg.Redis.Stream, "REDIS_STREAM")

	if v, ok := lookup("LOG_USE_CASES"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%sLOG_USE_CASES: %w", envPrefix, err))
		} else {
			cfg.LogUseCases = b
		}
	}

	for name, dst := range map[string]*time.Duration{
		"MIN_REFRESH_INTERVAL": &cfg.Tracker.MinRefreshInterval,
		"POLL_INTERVAL":        &cfg.Tracker.PollInterval,
	} {
		if v, ok := lookup(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				continue
			}
			*dst = d
		}
	}

	for name, dst := range map[string]*int{
		"MAX_BREAK_MINUTES":          &cfg.Tracker.MaxBreakMinutes,
		"MIN_CLOCK_OUT_NOTE_LEN":     &cfg.Tracker.MinClockOutNoteLen,
		"DEFAULT_PRODUCTIVITY_SCORE": &cfg.Tracker.DefaultProductivityScore,
	} {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				continue
			}
			*dst = n
		}
	}

	return result.ErrorOrNil()
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if strings.TrimSpace(c.DBPath) == "" {
		result = multierror.Append(result, errors.New("db_path is required"))
	}
	if _, err := c.Location(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Tracker.MinRefreshInterval < 0 {
		result = multierror.Append(result, errors.New("tracker.min_refresh_interval must not be negative"))
	}
	if c.Tracker.PollInterval < time.Second {
		result = multierror.Append(result, errors.New("tracker.poll_interval must be at least 1s"))
	}
	if c.Tracker.MaxBreakMinutes < 1 {
		result = multierror.Append(result, errors.New("tracker.max_break_minutes must be positive"))
	}
	if c.Tracker.MinClockOutNoteLen < 1 {
		result = multierror.Append(result, errors.New("tracker.min_clock_out_note_len must be positive"))
	}
	if s := c.Tracker.DefaultProductivityScore; s < 1 || s > 10 {
		result = multierror.Append(result, fmt.Errorf("tracker.default_productivity_score %d outside 1..10", s))
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		result = multierror.Append(result, errors.New("http.addr is required"))
	}
	if c.Redis.URL != "" && (c.Redis.Channel == "" || c.Redis.Stream == "") {
		result = multierror.Append(result, errors.New("redis.channel and redis.stream are required when redis.url is set"))
	}
	return result.ErrorOrNil()
}

// Location resolves Timezone; "Local" and "" mean the process zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel returns the configured log level, info when unparseable.
func (c Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", s, err)
	}
	return lvl, nil
}
