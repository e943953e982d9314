package prefs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-tzconv/internal/config"
	"github.com/tartampluch/go-tzconv/internal/engine"
	"github.com/tartampluch/go-tzconv/internal/zone"
)

// ErrPersist is returned when part of the state could not be stored.
var ErrPersist = errors.New(config.ErrPersist)

// Store persists the session state in a flat key/value preference store.
// The selected zones are kept as one comma-joined string.
type Store struct {
	prefs fyne.Preferences
}

// New wraps the given preferences, normally fyne.App.Preferences().
func New(p fyne.Preferences) *Store {
	return &Store{prefs: p}
}

// LoadReferenceZone returns the persisted home zone, or "" when none was saved.
func (s *Store) LoadReferenceZone() zone.ID {
	return zone.ID(strings.TrimSpace(s.prefs.String(config.PrefReferenceZone)))
}

// LoadSelectedZones returns the persisted selection in stored order,
// or nil when none was saved.
func (s *Store) LoadSelectedZones() []zone.ID {
	raw := s.prefs.String(config.PrefSelectedZones)
	if raw == "" {
		return nil
	}
	var ids []zone.ID
	for part := range strings.SplitSeq(raw, config.PrefZoneDelimiter) {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, zone.ID(part))
		}
	}
	return ids
}

// LoadTemplatePath returns the persisted template path if it still names a
// readable regular file, and "" otherwise.
func (s *Store) LoadTemplatePath() string {
	path := s.prefs.String(config.PrefTemplatePath)
	if path == "" {
		return ""
	}
	if err := readable(path); err != nil {
		slog.Warn(config.MsgTemplateDropped,
			config.LogKeyComponent, config.CompPrefs,
			config.LogKeyPath, path,
			config.LogKeyError, err)
		return ""
	}
	return path
}

func readable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: not a regular file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

// Save stores the three state values. Zones whose identifier contains the
// delimiter cannot be represented; they are left out and reported with
// ErrPersist while everything else is still written.
func (s *Store) Save(ref zone.ID, selection []zone.ID, template string) error {
	kept := make([]string, 0, len(selection))
	var bad []string
	for _, id := range selection {
		if strings.Contains(string(id), config.PrefZoneDelimiter) {
			bad = append(bad, string(id))
			continue
		}
		kept = append(kept, string(id))
	}

	s.prefs.SetString(config.PrefReferenceZone, string(ref))
	s.prefs.SetString(config.PrefSelectedZones, strings.Join(kept, config.PrefZoneDelimiter))
	s.prefs.SetString(config.PrefTemplatePath, template)

	if len(bad) > 0 {
		err := fmt.Errorf("%w: %s: %q", ErrPersist, config.ErrZoneDelimiter, bad)
		slog.Error(config.MsgPrefsFailed,
			config.LogKeyComponent, config.CompPrefs,
			config.LogKeyError, err)
		return err
	}

	slog.Info(config.MsgPrefsSaved,
		config.LogKeyComponent, config.CompPrefs,
		config.LogKeyZone, string(ref),
		config.LogKeyZones, len(kept),
		config.LogKeyTemplate, template)
	return nil
}

// SaveSnapshot stores a State snapshot.
func (s *Store) SaveSnapshot(snap engine.Snapshot) error {
	return s.Save(snap.ReferenceZone(), snap.Selection, snap.Template)
}

// RecordRun remembers which version last ran against this store.
func (s *Store) RecordRun(version string) {
	s.prefs.SetString(config.PrefLastRun, version)
}

// LastRun returns the version recorded by RecordRun.
func (s *Store) LastRun() string {
	return s.prefs.String(config.PrefLastRun)
}

var _ engine.PreferenceLoader = (*Store)(nil)
