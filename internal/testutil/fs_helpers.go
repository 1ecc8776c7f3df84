// Package testutil provides test utilities and helpers for pystrap tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Isolate moves the test into an empty working directory with its own HOME
// and XDG_CONFIG_HOME, and clears every PYSTRAP_* variable, so no real
// config files or overrides are picked up. Returns the new directory.
// Callers must not use t.Parallel().
func Isolate(t *testing.T) string {
	t.Helper()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(originalWd) })

	tmpDir := t.TempDir()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change to %s: %v", tmpDir, err)
	}
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	ClearPystrapEnv(t)
	return tmpDir
}

// ClearPystrapEnv unsets every PYSTRAP_* variable for the duration of the test.
func ClearPystrapEnv(t *testing.T) {
	t.Helper()

	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, "PYSTRAP_") {
			continue
		}
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

// WriteUserConfig writes content as the user config file under an
// Isolate'd root.
func WriteUserConfig(t *testing.T, root, content string) string {
	t.Helper()

	path := filepath.Join(root, ".config", "pystrap", "config.json")
	WriteFile(t, path, content)
	return path
}

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// FileExists checks if a file or directory exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads file content, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}

	return string(content)
}
