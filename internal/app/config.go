package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/fieldkv/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fieldkv"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# fieldkv configuration
# Run: fieldkv --help

# Indent JSON responses. Also FIELDKV_PRETTY_JSON=1 or --pretty.
# pretty_json: false

# debug, info, warn or error. Also FIELDKV_LOG_LEVEL.
# log_level: info

# Demo colors: auto, always or never. Also FIELDKV_COLOR.
# color: auto

# Pause between demo steps, in milliseconds.
# demo_pause_ms: 400
`
