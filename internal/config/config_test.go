package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-tzconv/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
// This prevents accidental deletion of keys required for runtime or UI logic.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"ProdID", config.ProdID},
		{"PrefReferenceZone", config.PrefReferenceZone},
		{"PrefSelectedZones", config.PrefSelectedZones},
		{"PrefTemplatePath", config.PrefTemplatePath},
		{"ICalVersion", config.ICalVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestPreferenceKeys_Distinct guards against two facts being written to the same key.
func TestPreferenceKeys_Distinct(t *testing.T) {
	keys := []string{
		config.PrefReferenceZone,
		config.PrefSelectedZones,
		config.PrefTemplatePath,
		config.PrefLanguage,
		config.PrefLastRun,
	}
	seen := make(map[string]bool)
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate preference key %q", k)
		seen[k] = true
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 12, config.DefaultInitialHour)
	assert.Equal(t, 30, config.DefaultInitialMinute)
	assert.LessOrEqual(t, config.DefaultInitialHour, config.MaxHour)
	assert.LessOrEqual(t, config.DefaultInitialMinute, config.MaxMinute)
	assert.Zero(t, config.DefaultInitialMinute%config.DefaultMinuteStep,
		"Default minute must be reachable with the default step")
}

// TestFormats_Layouts pins the rendering layouts against a known instant.
func TestFormats_Layouts(t *testing.T) {
	ts := time.Date(2025, 1, 1, 9, 5, 0, 0, time.UTC)

	assert.Equal(t, "Wednesday 01 January 2025", ts.Format(config.FormatOriginalDate))
	assert.Equal(t, "01-01-2025 09:05", ts.Format(config.FormatConvertedTime))
	assert.Equal(t, "2025-01-01", ts.Format(config.DateFormatEntry))
}

func TestProdID_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.ProdID, "-//Go TZConv//"), "PRODID must start with the app name")
}

// -----------------------------------------------------------------------------
// Settings
// -----------------------------------------------------------------------------

func TestDefaultSettings_Embedded(t *testing.T) {
	s := config.DefaultSettings()

	require.NotEmpty(t, s.DefaultSelectedZones, "Embedded defaults should select some zones")
	assert.Contains(t, s.DefaultSelectedZones, "UTC")
	assert.Equal(t, config.DefaultMinuteStep, s.MinuteStep)
	for _, z := range s.DefaultSelectedZones {
		assert.NotContains(t, z, config.PrefZoneDelimiter, "Zone %q would break preference storage", z)
	}
}

func TestLoadSettings_MissingFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	s, err := config.LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), s)
}

func TestLoadSettings_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.SettingsFileName)
	content := "default_selected_zones:\n  - Asia/Tokyo\n  - Europe/Paris\n"
	require.NoError(t, os.WriteFile(path, []byte(content), config.FilePermUserRW))

	s, err := config.LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"Asia/Tokyo", "Europe/Paris"}, s.DefaultSelectedZones)
	assert.Equal(t, config.DefaultMinuteStep, s.MinuteStep, "Unspecified values keep their defaults")
}

func TestLoadSettings_NormalizesStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("minute_step: 90\n"), config.FilePermUserRW))

	s, err := config.LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, config.DefaultMinuteStep, s.MinuteStep)
}

func TestLoadSettings_Errors(t *testing.T) {
	_, err := config.LoadSettings("")
	assert.EqualError(t, err, config.ErrSettingsPath)

	path := filepath.Join(t.TempDir(), config.SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("default_selected_zones: [unclosed\n"), config.FilePermUserRW))

	_, err = config.LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSettingsParse)
}
