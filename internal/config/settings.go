package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultSettingsYAML []byte

// Settings holds the user-editable application settings.
// They complement the preferences store: preferences remember what the user
// last did, settings describe what a fresh installation starts with.
type Settings struct {
	// DefaultSelectedZones is used when no zone selection was persisted.
	// An empty list means "select the whole catalog".
	DefaultSelectedZones []string `yaml:"default_selected_zones"`

	// MinuteStep is the granularity of the minute selector (1..30).
	MinuteStep int `yaml:"minute_step"`
}

// DefaultSettings returns the settings embedded in the binary.
func DefaultSettings() *Settings {
	var s Settings
	// The embedded document is covered by tests; a failure here is a build defect.
	if err := yaml.Unmarshal(defaultSettingsYAML, &s); err != nil {
		s = Settings{}
	}
	s.Normalize()
	return &s
}

// Normalize fills in missing or out-of-range values.
func (s *Settings) Normalize() {
	if s.MinuteStep <= 0 || s.MinuteStep > 30 {
		s.MinuteStep = DefaultMinuteStep
	}
	if s.DefaultSelectedZones == nil {
		s.DefaultSelectedZones = []string{}
	}
}

// LoadSettings reads settings from the given YAML path.
//
// Behavior:
//   - If the file does not exist, the embedded defaults are returned.
//   - If the file exists, it is unmarshalled over the embedded defaults and
//     normalized, so a partial file only overrides what it names.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return nil, errors.New(ErrSettingsPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug(MsgSettingsDefault,
				LogKeyComponent, CompConfig,
				LogKeyPath, path)
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}
	s.Normalize()

	slog.Info(MsgSettingsLoaded,
		LogKeyComponent, CompConfig,
		LogKeyPath, path,
		LogKeyZones, len(s.DefaultSelectedZones))
	return s, nil
}

// SettingsPath returns the platform-specific location of the settings file.
func SettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}
