// Package config handles the XDG configuration directory, config.yaml and environment overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "tasklist"

	// ConfigFile is the YAML settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// EnvFile is the optional dotenv filename inside the config directory.
	EnvFile = ".env"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TASKLIST_"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`

	Latency LatencyConfig `yaml:"latency"`
	Log     LogConfig     `yaml:"log"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// LatencyConfig holds the simulated round-trip times.
type LatencyConfig struct {
	Load   time.Duration `yaml:"load"`
	Mutate time.Duration `yaml:"mutate"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// HTTPConfig holds settings for the serve command.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Defaults returns a Config with built-in defaults and no directory.
func Defaults() *Config {
	return &Config{
		Latency: LatencyConfig{
			Load:   500 * time.Millisecond,
			Mutate: 1000 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// New creates a Config for the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasklist or $HOME/.config/tasklist.
// Settings are layered: defaults, then config.yaml, then .env, then the process environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := Defaults()
	cfg.Dir = dir

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// EnvPath returns the path to the dotenv file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.FilePath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "read %s", c.FilePath())
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "invalid %s", ConfigFile)
	}
	if c.Latency.Load < 0 {
		return errors.Errorf("invalid %s: latency.load: negative duration: %s", ConfigFile, c.Latency.Load)
	}
	if c.Latency.Mutate < 0 {
		return errors.Errorf("invalid %s: latency.mutate: negative duration: %s", ConfigFile, c.Latency.Mutate)
	}
	return nil
}

// loadEnv applies TASKLIST_* overrides. Values already in the process
// environment win over the dotenv file.
func (c *Config) loadEnv() error {
	fileVars, err := godotenv.Read(c.EnvPath())
	if err != nil && !os.IsNotExist(errors.Cause(err)) {
		return errors.Wrapf(err, "read %s", c.EnvPath())
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := fileVars[EnvPrefix+key]
		return v, ok
	}

	if v, ok := lookup("LOAD_LATENCY"); ok {
		d, err := parseDuration(v)
		if err != nil {
			return errors.Wrap(err, EnvPrefix+"LOAD_LATENCY")
		}
		c.Latency.Load = d
	}
	if v, ok := lookup("MUTATE_LATENCY"); ok {
		d, err := parseDuration(v)
		if err != nil {
			return errors.Wrap(err, EnvPrefix+"MUTATE_LATENCY")
		}
		c.Latency.Mutate = d
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("LOG_FILE"); ok {
		c.Log.File = v
	}
	if v, ok := lookup("HTTP_ADDR"); ok {
		c.HTTP.Addr = v
	}
	return nil
}

// parseDuration accepts Go duration strings or a bare number of milliseconds.
func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		if ms < 0 {
			return 0, errors.Errorf("negative duration: %s", s)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Errorf("invalid duration: %s", s)
	}
	if d < 0 {
		return 0, errors.Errorf("negative duration: %s", s)
	}
	return d, nil
}
