// Package config loads pystrap's layered configuration: built-in defaults,
// the user config file, a project config file and PYSTRAP_* environment
// variables, in increasing order of priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "PYSTRAP_"

// Configuration represents the pystrap CLI tool configuration
type Configuration struct {
	AuthorName        string   `koanf:"author_name" yaml:"author_name"`
	AuthorEmail       string   `koanf:"author_email" yaml:"author_email" validate:"omitempty,email"`
	Description       string   `koanf:"description" yaml:"description" validate:"required"`
	Version           string   `koanf:"version" yaml:"version" validate:"required"`
	RequiresPython    string   `koanf:"requires_python" yaml:"requires_python" validate:"required"`
	Dependencies      []string `koanf:"dependencies" yaml:"dependencies" validate:"dive,required"`
	BuildRequires     []string `koanf:"build_requires" yaml:"build_requires" validate:"min=1,dive,required"`
	BuildBackend      string   `koanf:"build_backend" yaml:"build_backend" validate:"required"`
	ManifestFile      string   `koanf:"manifest_file" yaml:"manifest_file" validate:"required,excludesall=/\\"`
	ManifestExtra     string   `koanf:"manifest_extra" yaml:"manifest_extra"`
	PromptMaxAttempts int      `koanf:"prompt_max_attempts" yaml:"prompt_max_attempts" validate:"min=1,max=10"`
	LogMode           string   `koanf:"log_mode" yaml:"log_mode" validate:"oneof=console file quiet"`
}

// Load loads configuration from defaults, user, project and environment sources
// Priority: Environment variables > Project config > User config > Defaults
//
// projectConfigPath may be empty, in which case ProjectConfigPath() is used
// when that file exists.
func Load(projectConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply default %s: %w", key, err)
		}
	}

	if userPath, err := UserConfigPath(); err == nil {
		if err := loadFileIfExists(k, userPath); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	if projectConfigPath == "" {
		projectConfigPath = ProjectConfigPath()
	}
	if err := loadFileIfExists(k, projectConfigPath); err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", describeValidation(err))
	}
	if err := ValidateConfigValues(&cfg, projectConfigPath); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := ValidateJSONSyntax(path); err != nil {
		return err
	}
	return k.Load(file.Provider(path), json.Parser())
}

// envTransform converts environment variable names to config keys
// Example: PYSTRAP_AUTHOR_EMAIL -> author_email
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// UserConfigPath returns the user-level config file location,
// honoring XDG_CONFIG_HOME.
func UserConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pystrap", "config.json"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "pystrap", "config.json"), nil
}

// ProjectConfigPath returns the project-level config file, relative to the
// working directory.
func ProjectConfigPath() string {
	return ".pystrap.json"
}
