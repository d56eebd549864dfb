// Package config resolves CLI settings from flags, WFVIZ_* environment
// variables and an optional .wfviz.yaml file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "WFVIZ"
	ConfigFileName = ".wfviz"
)

// Config holds the settings shared by all commands
type Config struct {
	ConfigFile string `mapstructure:"config"`
	Format     string `mapstructure:"format" validate:"oneof=text json yaml"`
	LogLevel   string `mapstructure:"log-level" validate:"oneof=debug info warn error"`
	Addr       string `mapstructure:"addr" validate:"required,hostname_port"`
	NoColor    bool   `mapstructure:"no-color"`
	Strict     bool   `mapstructure:"strict"`
	// NextRuns is how many upcoming runs are listed per cron schedule.
	NextRuns int `mapstructure:"next-runs" validate:"gte=0,lte=50"`
}

// Defaults returns the built-in settings
func Defaults() Config {
	return Config{
		Format:   "text",
		LogLevel: "warn",
		Addr:     "localhost:8080",
		NextRuns: 1,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the settings and reports every invalid field
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			messages := make([]string, 0, len(fieldErrors))
			for _, fe := range fieldErrors {
				messages = append(messages, fmt.Sprintf("%s: invalid value %v (%s)", fe.Field(), fe.Value(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load reads the configuration into a validated Config. Flags must already
// be bound to v.
func Load(v *viper.Viper) (*Config, error) {
	defaults := Defaults()
	v.SetDefault("config", "")
	v.SetDefault("format", defaults.Format)
	v.SetDefault("log-level", defaults.LogLevel)
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("no-color", defaults.NoColor)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("next-runs", defaults.NextRuns)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// it's ok if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
