// Package config loads user settings: defaults, then config.toml, then environment.
// Command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"

	DefaultWebAddr  = "127.0.0.1:3336"
	DefaultLogLevel = "warn"

	configFileName = "config.toml"
)

type Config struct {
	// Backend is one of: sqlite|file|memory
	Backend string `toml:"backend" validate:"oneof=sqlite file memory"`
	// Path is the blob store location (ignored by the memory backend).
	Path     string `toml:"path"`
	LogLevel string `toml:"log_level" validate:"oneof=debug info warn error"`
	// LogFile receives logs while the TUI owns the terminal. Empty => <config dir>/todo.log
	LogFile string `toml:"log_file"`
	WebAddr string `toml:"web_addr" validate:"required"`
}

var validate = validator.New()

// Dir is where config.toml and the default store live.
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.todo).
	if v := strings.TrimSpace(os.Getenv("TODO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".todo"), nil
}

func Defaults() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return &Config{
		Backend:  BackendSQLite,
		Path:     DefaultPath(dir, BackendSQLite),
		LogLevel: DefaultLogLevel,
		LogFile:  filepath.Join(dir, "todo.log"),
		WebAddr:  DefaultWebAddr,
	}, nil
}

// Overrides are command-line values. They win over the file and the environment.
type Overrides struct {
	Backend  string
	Path     string
	LogLevel string
}

// Load returns the effective configuration without command-line overrides.
func Load() (*Config, error) {
	return LoadWith(Overrides{})
}

// LoadWith returns the effective configuration: defaults, config.toml,
// environment, then o. When no layer names a path, the path follows the
// final backend (todos.sqlite or todos.json).
func LoadWith(o Overrides) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}
	dir, _ := Dir()
	path := filepath.Join(dir, configFileName)
	explicitPath := false
	if _, err := os.Stat(path); err == nil {
		var fileCfg Config
		if _, err := toml.DecodeFile(path, &fileCfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		explicitPath = strings.TrimSpace(fileCfg.Path) != ""
		merge(cfg, fileCfg)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	loadFromEnv(cfg)
	merge(cfg, Config{Backend: o.Backend, Path: o.Path, LogLevel: o.LogLevel})
	explicitPath = explicitPath ||
		strings.TrimSpace(os.Getenv("TODO_PATH")) != "" ||
		strings.TrimSpace(o.Path) != ""

	if !explicitPath {
		cfg.Path = DefaultPath(dir, cfg.Backend)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath is where backend keeps its data when no path is configured.
func DefaultPath(dir, backend string) string {
	if backend == BackendFile {
		return filepath.Join(dir, "todos.json")
	}
	return filepath.Join(dir, "todos.sqlite")
}

func merge(dst *Config, src Config) {
	if v := strings.TrimSpace(src.Backend); v != "" {
		dst.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Path); v != "" {
		dst.Path = expandHome(v)
	}
	if v := strings.TrimSpace(src.LogLevel); v != "" {
		dst.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.LogFile); v != "" {
		dst.LogFile = expandHome(v)
	}
	if v := strings.TrimSpace(src.WebAddr); v != "" {
		dst.WebAddr = v
	}
}

func loadFromEnv(cfg *Config) {
	merge(cfg, Config{
		Backend:  os.Getenv("TODO_BACKEND"),
		Path:     os.Getenv("TODO_PATH"),
		LogLevel: os.Getenv("TODO_LOG_LEVEL"),
		LogFile:  os.Getenv("TODO_LOG_FILE"),
		WebAddr:  os.Getenv("TODO_WEB_ADDR"),
	})
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("config: %s must be one of [%s], got %q", strings.ToLower(e.Field()), e.Param(), e.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	if c.Backend != BackendMemory && strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("config: path is required for the %s backend", c.Backend)
	}
	return nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
