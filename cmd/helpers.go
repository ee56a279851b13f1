package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/foldeval/refold/pkg/config"
)

// expandPath expands a leading ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", path, err)
	}
	return abs, nil
}

// loadOrDefaultConfig reads the config file if it exists, otherwise
// returns defaults so flag overrides can stand alone.
func loadOrDefaultConfig(path string) (*config.RunConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	return config.Load(path)
}
