// Package config loads dp-monitor settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then DP_*
// environment variables, then command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/dp-monitor/internal/scraper"
)

const EnvPrefix = "DP"

// MinInterval is the shortest allowed time between scheduled runs
const MinInterval = time.Minute

// Journal file names inside the data directory
const (
	MainJournalFile      = "daily_pennsylvanian_main_headlines.json"
	AcademicsJournalFile = "daily_pennsylvanian_academics_articles.json"
)

// Config holds all runtime settings
type Config struct {
	DataDir     string        `mapstructure:"data_dir"`
	LogFile     string        `mapstructure:"log_file"`
	LogLevel    string        `mapstructure:"log_level"`
	LogRotation time.Duration `mapstructure:"log_rotation"`
	LogMaxAge   time.Duration `mapstructure:"log_max_age"`
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Interval    time.Duration `mapstructure:"interval"`
	RecordEmpty bool          `mapstructure:"record_empty"` // store "" when a selector misses
	Verbose     bool          `mapstructure:"verbose"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("log_file", "scrape.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_rotation", 24*time.Hour)
	v.SetDefault("log_max_age", 7*24*time.Hour)
	v.SetDefault("user_agent", scraper.UserAgent)
	v.SetDefault("timeout", scraper.Timeout)
	v.SetDefault("interval", 24*time.Hour)
	v.SetDefault("record_empty", false)
	v.SetDefault("verbose", false)
}

// Load reads configuration from the optional file, the environment and flags.
// Flags are bound by their long name with dashes mapped to underscores.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || bindErr != nil {
				return
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				bindErr = fmt.Errorf("binding flag %s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required values are present and sane
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data_dir must not be empty"))
	}
	if strings.TrimSpace(c.LogFile) == "" {
		errs = append(errs, errors.New("log_file must not be empty"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.LogRotation <= 0 {
		errs = append(errs, fmt.Errorf("log_rotation must be positive, got %s", c.LogRotation))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ValidateWatch checks the settings only scheduled runs use
func (c *Config) ValidateWatch() error {
	if c.Interval < MinInterval {
		return fmt.Errorf("invalid config: interval must be at least %s, got %s", MinInterval, c.Interval)
	}
	return nil
}

// MainJournalPath returns the journal file for the front page headline
func (c *Config) MainJournalPath() string {
	return filepath.Join(c.DataDir, MainJournalFile)
}

// AcademicsJournalPath returns the journal file for the academics article title
func (c *Config) AcademicsJournalPath() string {
	return filepath.Join(c.DataDir, AcademicsJournalFile)
}
