// Package config provides configuration management for the outliner application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/platinummonkey/outliner/internal/language"
)

// maxDefaultWorkers caps the default pool size on large machines.
const maxDefaultWorkers = 8

// Config holds all configuration settings for the outliner application.
// Configuration precedence: CLI flags > Environment variables > Config file > Defaults
type Config struct {
	// Language is the language used for heading rules and OCR
	Language string

	// AutoDetectLanguage enables per-document script detection, overriding
	// Language for documents whose embedded text disagrees with it
	AutoDetectLanguage bool

	// Workers is the number of documents processed concurrently in batch mode
	Workers int

	// OutputDir is the directory where outline JSON files will be written
	OutputDir string

	// RulesFile optionally points to a YAML file with custom heading rules
	RulesFile string

	// LogLevel controls logging verbosity (debug, info, warn, error)
	LogLevel string

	// LogFormat selects "console" or "json" log output
	LogFormat string

	// LogFile is an optional file path for log output (empty = stdout only)
	LogFile string
}

// Load reads configuration from multiple sources and returns a Config instance.
// Sources are checked in this order: CLI flags > env vars > config file > defaults
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
			v.SetConfigName(".outliner")
			v.SetConfigType("yaml")
		}
	}

	// Config file not found is OK, env vars and defaults apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("OUTLINER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	config := &Config{
		Language:           v.GetString("language"),
		AutoDetectLanguage: v.GetBool("auto-detect-language"),
		Workers:            v.GetInt("workers"),
		OutputDir:          v.GetString("output-dir"),
		RulesFile:          v.GetString("rules-file"),
		LogLevel:           v.GetString("log-level"),
		LogFormat:          v.GetString("log-format"),
		LogFile:            v.GetString("log-file"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("language", "english")
	v.SetDefault("auto-detect-language", false)
	v.SetDefault("workers", defaultWorkers())
	v.SetDefault("output-dir", "output")
	v.SetDefault("rules-file", "")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "console")
	v.SetDefault("log-file", "")
}

// defaultWorkers returns min(8, NumCPU).
func defaultWorkers() int {
	workers := runtime.NumCPU()
	if workers > maxDefaultWorkers {
		workers = maxDefaultWorkers
	}
	return workers
}

// Validate checks that the configuration is valid and internally consistent
func (c *Config) Validate() error {
	c.Language = strings.ToLower(strings.TrimSpace(c.Language))
	if !language.IsSupported(c.Language) {
		return &language.UnsupportedError{Language: c.Language}
	}

	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output-dir cannot be empty")
	}
	if strings.HasPrefix(c.OutputDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to expand home directory in output-dir: %w", err)
		}
		c.OutputDir = filepath.Join(home, c.OutputDir[2:])
	}

	if c.RulesFile != "" {
		info, err := os.Stat(c.RulesFile)
		if err != nil {
			return fmt.Errorf("rules-file %s: %w", c.RulesFile, err)
		}
		if info.IsDir() {
			return fmt.Errorf("rules-file %s is a directory", c.RulesFile)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log-level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log-format %q, must be console or json", c.LogFormat)
	}

	return nil
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Language: %s
  AutoDetectLanguage: %t
  Workers: %d
  OutputDir: %s
  RulesFile: %s
  LogLevel: %s
  LogFormat: %s
  LogFile: %s`,
		c.Language,
		c.AutoDetectLanguage,
		c.Workers,
		c.OutputDir,
		c.RulesFile,
		c.LogLevel,
		c.LogFormat,
		c.LogFile,
	)
}
