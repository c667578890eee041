package app

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	PrettyJSON  bool   `yaml:"pretty_json"`
	LogLevel    string `yaml:"log_level"`
	Color       string `yaml:"color"`
	DemoPauseMS int    `yaml:"demo_pause_ms"`
}

// Runtime are the effective values after defaults, validation and
// environment overrides.
type Runtime struct {
	PrettyJSON bool          `json:"pretty_json"`
	LogLevel   slog.Level    `json:"log_level"`
	Color      ColorMode     `json:"color"`
	DemoPause  time.Duration `json:"demo_pause"`
}

// ColorMode selects when the demo emits ANSI colors.
type ColorMode string

// Color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const (
	defaultDemoPause = 400 * time.Millisecond
	maxDemoPause     = 10 * time.Second
)

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
//
//nolint:gochecknoglobals // sync.Once singleton is intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error
)

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/fieldkv/config.yaml
// 2) /etc/fieldkv/config.yaml
// 3) ./config.yaml (lowest priority)
// Environment variables are applied by EffectiveRuntime.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		dir, err := ConfigDir()
		if err != nil {
			settingsErr = err
			return
		}

		paths := []string{
			filepath.Join(dir, "config.yaml"),
			filepath.Join(string(os.PathSeparator), "etc", "fieldkv", "config.yaml"),
			"config.yaml",
		}
		for _, p := range paths {
			s, err := loadSettingsFile(p)
			if err == nil {
				settings = s
				return
			}
			if !errors.Is(err, os.ErrNotExist) {
				settingsErr = err
				return
			}
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// EffectiveRuntime returns validated runtime settings with defaults.
// Invalid or missing config values fall back to safe defaults; a config file
// that fails to parse is reported alongside the defaults.
func EffectiveRuntime() (Runtime, error) {
	s, err := LoadSettings()
	rt := resolveRuntime(s)
	return rt, err
}

func resolveRuntime(s Settings) Runtime {
	rt := Runtime{
		PrettyJSON: s.PrettyJSON,
		LogLevel:   slog.LevelInfo,
		Color:      ColorAuto,
		DemoPause:  defaultDemoPause,
	}

	if lvl, ok := ParseLogLevel(s.LogLevel); ok {
		rt.LogLevel = lvl
	}
	if mode, ok := parseColor(s.Color); ok {
		rt.Color = mode
	}
	if s.DemoPauseMS > 0 {
		rt.DemoPause = time.Duration(s.DemoPauseMS) * time.Millisecond
	}
	if rt.DemoPause > maxDemoPause {
		rt.DemoPause = maxDemoPause
	}

	if v := os.Getenv("FIELDKV_PRETTY_JSON"); v == "1" || v == "true" {
		rt.PrettyJSON = true
	}
	if lvl, ok := ParseLogLevel(os.Getenv("FIELDKV_LOG_LEVEL")); ok {
		rt.LogLevel = lvl
	}
	if mode, ok := parseColor(os.Getenv("FIELDKV_COLOR")); ok {
		rt.Color = mode
	}
	return rt
}

// ParseLogLevel maps debug, info, warn (or warning) and error to a slog level.
func ParseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}

func parseColor(s string) (ColorMode, bool) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, true
	}
	return "", false
}
