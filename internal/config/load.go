package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from path on fsys, layered over DefaultConfig.
//
// A missing file is not an error. If path is empty, DefaultConfigPath is used.
func Load(fsys afero.Fs, path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PLAYGROUND")
	v.AutomaticEnv()

	v.SetDefault("template", cfg.Template)
	v.SetDefault("height", cfg.Height)
	v.SetDefault("file_name", cfg.FileName)
	v.SetDefault("split.initial_ratio", cfg.Split.InitialRatio)
	v.SetDefault("split.min_ratio", cfg.Split.MinRatio)
	v.SetDefault("split.max_ratio", cfg.Split.MaxRatio)
	v.SetDefault("sandbox.show_line_numbers", cfg.Sandbox.ShowLineNumbers)
	v.SetDefault("sandbox.show_inline_errors", cfg.Sandbox.ShowInlineErrors)
	v.SetDefault("sandbox.auto_run", cfg.Sandbox.AutoRun)
	v.SetDefault("sandbox.auto_reload", cfg.Sandbox.AutoReload)
	v.SetDefault("sandbox.recompile_delay", cfg.Sandbox.RecompileDelay)
	v.SetDefault("sandbox.run_timeout", cfg.Sandbox.RunTimeout)
	v.SetDefault("sandbox.messages_per_second", cfg.Sandbox.MessagesPerSecond)
	v.SetDefault("sandbox.message_burst", cfg.Sandbox.MessageBurst)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.verbose", cfg.Log.Verbose)
	v.SetDefault("log.sentry_dsn", cfg.Log.SentryDSN)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path on fsys as YAML, creating parent directories.
func Save(fsys afero.Fs, path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
