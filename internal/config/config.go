// Package config loads ls-natal settings from YAML files and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/state"
)

const (
	// DirName is the per-user config directory under $HOME.
	DirName = ".ls-natal"
	// FileName is the config file name searched for.
	FileName = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. LSNATAL_LOG_LEVEL.
	EnvPrefix = "LSNATAL"
)

// Config represents the application configuration.
type Config struct {
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Ephemeris EphemerisConfig `yaml:"ephemeris" mapstructure:"ephemeris"`
	Chart     ChartConfig     `yaml:"chart" mapstructure:"chart"`
	State     StateConfig     `yaml:"state" mapstructure:"state"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" mapstructure:"format" default:"console" validate:"oneof=console json"`
}

// EphemerisConfig selects and tunes the ephemeris gateway.
type EphemerisConfig struct {
	Mode        string        `yaml:"mode" mapstructure:"mode" default:"analytic" validate:"oneof=analytic local horizons auto"`
	HorizonsURL string        `yaml:"horizons_url" mapstructure:"horizons_url" default:"https://ssd.jpl.nasa.gov/api/horizons.api" validate:"url"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout" default:"30s" validate:"gt=0"`
}

// ChartConfig holds chart defaults.
type ChartConfig struct {
	Aspects      []string           `yaml:"aspects" mapstructure:"aspects" default:"[\"all\"]"`
	Orbs         string             `yaml:"orbs" mapstructure:"orbs" default:"symmetric" validate:"oneof=symmetric legacy"`
	OrbOverrides map[string]float64 `yaml:"orb_overrides" mapstructure:"orb_overrides"`
	DST          bool               `yaml:"dst" mapstructure:"dst"`
	Latitude     float64            `yaml:"latitude" mapstructure:"latitude" validate:"min=-90,max=90"`
	Longitude    float64            `yaml:"longitude" mapstructure:"longitude" validate:"min=-180,max=180"`
}

// StateConfig bounds the in-memory history kept by the TUI.
type StateConfig struct {
	MaxHistory int `yaml:"max_history" mapstructure:"max_history" default:"60" validate:"min=1"`
	MaxEvents  int `yaml:"max_events" mapstructure:"max_events" default:"50" validate:"min=1"`
}

var validate = validator.New()

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// DefaultPath returns ~/.ls-natal/config.yaml, or FileName in the working
// directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, DirName, FileName)
}

// Load reads the configuration. With an empty path it searches
// ~/.ls-natal and the working directory and falls back to defaults when no
// file exists; an explicit path must exist. Environment variables override
// file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults go in first so every key is known to the env lookup
	base, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(base)); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, DirName))
		}
		v.AddConfigPath(".")
	}

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks field ranges and the aspect and orb names.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := c.Chart.AspectSet(); err != nil {
		return err
	}
	if _, err := c.Chart.OrbMap(); err != nil {
		return err
	}
	if _, err := ephem.ParseMode(c.Ephemeris.Mode); err != nil {
		return err
	}
	return nil
}

// AspectSet parses the enabled aspect names.
func (c ChartConfig) AspectSet() (aspect.Set, error) {
	return aspect.ParseSet(strings.Join(c.Aspects, ","))
}

// OrbMap parses the per-aspect orb overrides.
func (c ChartConfig) OrbMap() (map[aspect.Kind]float64, error) {
	out := make(map[aspect.Kind]float64, len(c.OrbOverrides))
	for name, orb := range c.OrbOverrides {
		k, err := aspect.ParseKind(name)
		if err != nil || k == aspect.None {
			return nil, fmt.Errorf("orb override: unknown aspect %q", name)
		}
		out[k] = orb
	}
	if _, err := aspect.Symmetric().WithOrbs(out); err != nil {
		return nil, fmt.Errorf("orb override: %w", err)
	}
	return out, nil
}

// ChartOptions returns the chart options the configuration describes.
func (c *Config) ChartOptions() (chart.Options, error) {
	opts := chart.DefaultOptions()
	set, err := c.Chart.AspectSet()
	if err != nil {
		return opts, err
	}
	opts.Aspects = set
	opts.Orbs = c.Chart.Orbs
	opts.DST = c.Chart.DST
	return opts, nil
}

// Logger returns a logger at the configured level and format.
func (c LogConfig) Logger() *logging.Logger {
	l := logging.New(logging.ParseLevel(c.Level))
	l.SetFormat(logging.ParseFormat(c.Format))
	return l
}

// Gateway builds the ephemeris gateway for the configured mode.
func (c EphemerisConfig) Gateway(logger *logging.Logger) (ephem.Gateway, error) {
	mode, err := ephem.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	src := ephem.NewHorizonsProvider(
		ephem.WithBaseURL(c.HorizonsURL),
		ephem.WithTimeout(c.Timeout),
	)
	return ephem.New(mode, src, logger), nil
}

// Manager returns the state manager configuration.
func (c StateConfig) Manager() state.Config {
	cfg := state.DefaultConfig()
	cfg.MaxHistoryLen = c.MaxHistory
	cfg.MaxEvents = c.MaxEvents
	return cfg
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
