package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/platinummonkey/outliner/internal/config"
	"github.com/platinummonkey/outliner/internal/language"
	"github.com/platinummonkey/outliner/internal/logger"
)

var (
	cfgFile string
	version = "dev" // Set via build flags
)

// errInterrupted marks a run stopped by the user; the process exits 130.
var errInterrupted = errors.New("interrupted")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "outliner",
	Short: "Extract structured outlines from PDF documents",
	Long: `outliner extracts a hierarchical heading outline (title, H1-H3)
from PDF documents in thirteen languages, writing one JSON file per
document.

Documents with an embedded text layer are read directly; scanned
documents fall back to OCR with per-language preprocessing. Headings
are classified by language-specific vocabulary patterns combined with
typographic signals (font size, boldness, centering).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.outliner.yaml)")
	rootCmd.PersistentFlags().StringP("language", "l", "english", "document language (see 'outliner languages')")
	rootCmd.PersistentFlags().Bool("auto-detect", false, "auto-detect document language from embedded text")
	rootCmd.PersistentFlags().StringP("output", "o", "output", "output directory for outline JSON files")
	rootCmd.PersistentFlags().String("rules", "", "YAML file with custom heading rules")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file")

	// Bind flags to viper
	_ = viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("language"))
	_ = viper.BindPFlag("auto-detect-language", rootCmd.PersistentFlags().Lookup("auto-detect"))
	_ = viper.BindPFlag("output-dir", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("rules-file", rootCmd.PersistentFlags().Lookup("rules"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
}

// loadConfig builds the effective configuration from flags, env vars,
// config file and defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	// Flags override the merged file/env values when set.
	applyFlagOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlagOverrides(cfg *config.Config) {
	flags := rootCmd.PersistentFlags()
	if flags.Changed("language") {
		cfg.Language = viper.GetString("language")
	}
	if flags.Changed("auto-detect") {
		cfg.AutoDetectLanguage = viper.GetBool("auto-detect-language")
	}
	if flags.Changed("output") {
		cfg.OutputDir = viper.GetString("output-dir")
	}
	if flags.Changed("rules") {
		cfg.RulesFile = viper.GetString("rules-file")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = viper.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = viper.GetString("log-format")
	}
	if flags.Changed("log-file") {
		cfg.LogFile = viper.GetString("log-file")
	}
}

// newLogger builds the application logger from the effective configuration.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(&logger.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

// loadOverlay loads the custom heading rules file when configured.
func loadOverlay(cfg *config.Config) (*language.Overlay, error) {
	if cfg.RulesFile == "" {
		return nil, nil
	}
	overlay, err := language.LoadOverlay(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom rules: %w", err)
	}
	return overlay, nil
}
