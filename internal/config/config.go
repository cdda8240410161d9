package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/jnylund/vartija/internal/policy"
)

// Config is the complete vartija configuration.
type Config struct {
	AWS       AWSConfig       `mapstructure:"aws"`
	Volumes   []string        `mapstructure:"volumes"`
	Schedules SchedulesConfig `mapstructure:"schedules"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Daemon    DaemonConfig    `mapstructure:"daemon"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Run       RunConfig       `mapstructure:"run"`
}

// AWSConfig contains provider connection settings.
type AWSConfig struct {
	Region     string `mapstructure:"region"`
	Profile    string `mapstructure:"profile"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// SchedulesConfig holds the two policy tables, keyed by volume id or "*".
type SchedulesConfig struct {
	Creation map[string]policy.CreationSchedule `mapstructure:"creation"`
	Purge    map[string]policy.PurgeSchedule    `mapstructure:"purge"`
}

// NotifyConfig configures the optional SNS notification topic.
type NotifyConfig struct {
	TopicARN string `mapstructure:"topic_arn"`
	Subject  string `mapstructure:"subject"`
}

// DaemonConfig configures periodic runs.
type DaemonConfig struct {
	Schedule    string `mapstructure:"schedule"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// RunConfig tunes run behavior.
type RunConfig struct {
	ContinueOnVolumeError bool   `mapstructure:"continue_on_volume_error"`
	DryRun                bool   `mapstructure:"dry_run"`
	Description           string `mapstructure:"description"`
}

// Load reads configuration from the given file, or from the default search
// path ($HOME/.vartija, then the working directory) when path is empty.
// Environment variables prefixed VARTIJA_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".vartija"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("VARTIJA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults plus env may be enough.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.max_retries", 3)
	v.SetDefault("notify.subject", "vartija snapshot report")
	v.SetDefault("daemon.schedule", "0 * * * *")
	v.SetDefault("daemon.metrics_addr", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("run.continue_on_volume_error", false)
	v.SetDefault("run.dry_run", false)
	v.SetDefault("run.description", "vartija automatic snapshot")
}

// Validate checks field sanity. Whether every volume resolves to a schedule
// is the engine's fail-fast check at run time, not a load-time concern.
func (c *Config) Validate() error {
	for key, s := range c.Schedules.Creation {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("creation schedule %q: %w", key, err)
		}
	}
	for key, s := range c.Schedules.Purge {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("purge schedule %q: %w", key, err)
		}
	}
	if c.AWS.MaxRetries < 0 {
		return fmt.Errorf("aws.max_retries must be non-negative")
	}
	return nil
}
