// Package config loads the per-user settings file.
//
// The file lives at <user config dir>/mediaphile/config.yaml and is created
// with defaults on first use. Environment variables prefixed MEDIAPHILE_
// override individual keys, e.g. MEDIAPHILE_SKIP_EXISTING=true.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"mediaphile/internal/checksum"
	"mediaphile/internal/naming"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MEDIAPHILE_"

// Config holds every user-tunable option.
type Config struct {
	// TimestampFormat is a Go time layout.
	TimestampFormat         string `yaml:"timestamp_format" env:"TIMESTAMP_FORMAT"`
	DuplicateFilenameFormat string `yaml:"duplicate_filename_format" env:"DUPLICATE_FILENAME_FORMAT"`
	NewFilenameFormat       string `yaml:"new_filename_format" env:"NEW_FILENAME_FORMAT"`
	AppendTimestamp         bool   `yaml:"append_timestamp" env:"APPEND_TIMESTAMP"`

	PhotoExtensions []string `yaml:"photo_extensions" env:"PHOTO_EXTENSIONS" envSeparator:","`
	MovieExtensions []string `yaml:"movie_extensions" env:"MOVIE_EXTENSIONS" envSeparator:","`
	IgnoreFiles     []string `yaml:"ignore_files" env:"IGNORE_FILES" envSeparator:","`
	IgnoreFolders   []string `yaml:"ignore_folders" env:"IGNORE_FOLDERS" envSeparator:","`

	SkipExisting              bool `yaml:"skip_existing" env:"SKIP_EXISTING"`
	UseChecksumExistenceCheck bool `yaml:"use_checksum_existence_check" env:"USE_CHECKSUM_EXISTENCE_CHECK"`

	LogLevel          string `yaml:"log_level" env:"LOG_LEVEL"`
	ChecksumCacheSize int    `yaml:"checksum_cache_size" env:"CHECKSUM_CACHE_SIZE"`
}

// Default returns the configuration written to a fresh config file.
func Default() *Config {
	return &Config{
		TimestampFormat:         naming.DefaultTimestampLayout,
		DuplicateFilenameFormat: naming.DefaultDuplicateFilename,
		NewFilenameFormat:       naming.DefaultNewFilename,
		AppendTimestamp:         true,
		PhotoExtensions:         []string{"jpg", "nef", "png", "bmp", "gif", "cr2", "tif", "tiff", "jpeg"},
		MovieExtensions:         []string{"avi", "mov", "mp4", "mpg", "mts", "mpeg", "mkv", "3gp", "wmv", "m2t"},
		IgnoreFiles:             []string{"thumbs.db", "pspbrwse.jbf", "picasa.ini", "autorun.inf", "hpothb07.dat"},
		IgnoreFolders:           []string{},
		LogLevel:                "info",
		ChecksumCacheSize:       checksum.DefaultCacheSize,
	}
}

// DefaultPath returns the well-known per-user location of the config file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(dir, "mediaphile", "config.yaml"), nil
}

// Load reads the config file at path (DefaultPath when empty), creating it
// with defaults if it does not exist, then applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env overrides: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent folders.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	c.PhotoExtensions = normalizeExts(c.PhotoExtensions)
	c.MovieExtensions = normalizeExts(c.MovieExtensions)
	c.IgnoreFiles = normalizeNames(c.IgnoreFiles)
	c.IgnoreFolders = normalizeNames(c.IgnoreFolders)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks the naming templates and log level. Template problems are
// returned as *naming.ConfigurationError.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TimestampFormat) == "" {
		return &naming.ConfigurationError{Template: c.TimestampFormat, Reason: "timestamp_format is empty"}
	}
	if _, err := c.NewFilenameTemplate(); err != nil {
		return err
	}
	if _, err := c.DuplicateFilenameTemplate(); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

// NewFilenameTemplate parses NewFilenameFormat.
func (c *Config) NewFilenameTemplate() (naming.Template, error) {
	return naming.ParseNewFilename(c.NewFilenameFormat)
}

// DuplicateFilenameTemplate parses DuplicateFilenameFormat.
func (c *Config) DuplicateFilenameTemplate() (naming.Template, error) {
	return naming.ParseDuplicateFilename(c.DuplicateFilenameFormat)
}

// MediaExtensions returns photo and movie extensions together.
func (c *Config) MediaExtensions() []string {
	out := make([]string, 0, len(c.PhotoExtensions)+len(c.MovieExtensions))
	out = append(out, c.PhotoExtensions...)
	return append(out, c.MovieExtensions...)
}
