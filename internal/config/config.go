package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rdo34/phonebook/internal/store"
)

type Config struct {
	File     string    `yaml:"file" mapstructure:"file"`
	PageSize int       `yaml:"page_size" mapstructure:"page_size"`
	Log      LogConfig `yaml:"log" mapstructure:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	File   string `yaml:"file" mapstructure:"file"`
	Format string `yaml:"format" mapstructure:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		PageSize: 10,
		Log: LogConfig{
			Level:  "warn",
			File:   "stderr",
			Format: "console",
		},
	}
}

// New returns a viper instance carrying defaults, search paths and the
// PHONEBOOK_ environment prefix. Callers may bind flags before Load.
func New(configFile string) *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("file", def.File)
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.format", def.Log.Format)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "phonebook"))
		}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			v.AddConfigPath(filepath.Join(home, ".config", "phonebook"))
		}
	}

	v.SetEnvPrefix("PHONEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file if there is one, then unmarshals and validates.
// An empty file setting resolves to the default data file.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.File == "" {
		p, err := store.DefaultPath()
		if err != nil {
			return nil, err
		}
		cfg.File = p
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("config: page_size must be at least 1, got %d", c.PageSize)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid (must be debug, info, warn or error)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid (must be json or console)", c.Log.Format)
	}
	return nil
}
