package config

import "github.com/pystrap-dev/pystrap/internal/manifest"

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"author_name":         "",
		"author_email":        "",
		"description":         manifest.DefaultDescription,
		"version":             "0.0.1",
		"requires_python":     ">=3.10",
		"dependencies":        []string{},
		"build_requires":      manifest.DefaultBuildRequires(),
		"build_backend":       manifest.DefaultBuildBackend,
		"manifest_file":       "pyproject.toml",
		"manifest_extra":      "",
		"prompt_max_attempts": 3,
		"log_mode":            "console",
	}
}
