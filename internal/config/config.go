// Package config holds the playground's user configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultTemplate is the template used when none is configured.
const DefaultTemplate = "vanilla"

// Config is the on-disk configuration.
//
// Command line flags override individual fields after loading.
type Config struct {
	// Template selects the execution template ("vanilla", "go", "markdown").
	Template string `mapstructure:"template" yaml:"template"`

	// Height is the content area height in rows. Zero fills the terminal.
	Height int `mapstructure:"height" yaml:"height"`

	// FileName is the label shown in the header.
	FileName string `mapstructure:"file_name" yaml:"file_name"`

	Split   SplitConfig   `mapstructure:"split" yaml:"split"`
	Sandbox SandboxConfig `mapstructure:"sandbox" yaml:"sandbox"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// SplitConfig configures the editor/output divider.
type SplitConfig struct {
	InitialRatio float64 `mapstructure:"initial_ratio" yaml:"initial_ratio"`
	MinRatio     float64 `mapstructure:"min_ratio" yaml:"min_ratio"`
	MaxRatio     float64 `mapstructure:"max_ratio" yaml:"max_ratio"`
}

// SandboxConfig mirrors the execution session options.
type SandboxConfig struct {
	ShowLineNumbers   bool          `mapstructure:"show_line_numbers" yaml:"show_line_numbers"`
	ShowInlineErrors  bool          `mapstructure:"show_inline_errors" yaml:"show_inline_errors"`
	AutoRun           bool          `mapstructure:"auto_run" yaml:"auto_run"`
	AutoReload        bool          `mapstructure:"auto_reload" yaml:"auto_reload"`
	RecompileDelay    time.Duration `mapstructure:"recompile_delay" yaml:"recompile_delay"`
	RunTimeout        time.Duration `mapstructure:"run_timeout" yaml:"run_timeout"`
	MessagesPerSecond float64       `mapstructure:"messages_per_second" yaml:"messages_per_second"`
	MessageBurst      int           `mapstructure:"message_burst" yaml:"message_burst"`
}

// LogConfig configures diagnostics.
type LogConfig struct {
	// File is the log path. Empty disables logging.
	File      string `mapstructure:"file" yaml:"file"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose"`
	SentryDSN string `mapstructure:"sentry_dsn" yaml:"sentry_dsn"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Template: DefaultTemplate,
		FileName: "main.go",
		Split: SplitConfig{
			InitialRatio: 0.5,
			MinRatio:     0.25,
			MaxRatio:     0.75,
		},
		Sandbox: SandboxConfig{
			ShowLineNumbers:   true,
			ShowInlineErrors:  true,
			AutoRun:           true,
			AutoReload:        true,
			RecompileDelay:    300 * time.Millisecond,
			RunTimeout:        5 * time.Second,
			MessagesPerSecond: 200,
			MessageBurst:      500,
		},
	}
}

// DefaultConfigPath returns ~/.config/playground/config.yaml (or the
// platform equivalent).
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "playground", "config.yaml"), nil
}

// Validate checks invariants that the UI relies on.
func (c Config) Validate() error {
	var errs []error

	if c.Template == "" {
		errs = append(errs, errors.New("template must not be empty"))
	}
	if c.Height < 0 {
		errs = append(errs, fmt.Errorf("height must be >= 0, got %d", c.Height))
	}
	s := c.Split
	if s.MinRatio <= 0 || s.MaxRatio >= 1 || s.MinRatio >= s.MaxRatio {
		errs = append(errs, fmt.Errorf(
			"split ratios must satisfy 0 < min < max < 1, got min=%v max=%v",
			s.MinRatio, s.MaxRatio))
	}
	if s.InitialRatio <= 0 || s.InitialRatio >= 1 {
		errs = append(errs, fmt.Errorf(
			"split.initial_ratio must be in (0, 1), got %v", s.InitialRatio))
	}
	if c.Sandbox.RecompileDelay < 0 {
		errs = append(errs, errors.New("sandbox.recompile_delay must be >= 0"))
	}
	if c.Sandbox.RunTimeout <= 0 {
		errs = append(errs, errors.New("sandbox.run_timeout must be > 0"))
	}
	if c.Sandbox.MessagesPerSecond <= 0 || c.Sandbox.MessageBurst <= 0 {
		errs = append(errs, errors.New(
			"sandbox.messages_per_second and sandbox.message_burst must be > 0"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
