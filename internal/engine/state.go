package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/tartampluch/go-tzconv/internal/config"
	"github.com/tartampluch/go-tzconv/internal/zone"
)

// ErrUnresolvableZone is returned when a zone identifier does not resolve.
var ErrUnresolvableZone = zone.ErrUnresolvable

// Field identifies one observable part of the State.
type Field int

const (
	FieldInstant Field = iota
	FieldSelection
	FieldTemplate
)

func (f Field) String() string {
	switch f {
	case FieldInstant:
		return "instant"
	case FieldSelection:
		return "selection"
	case FieldTemplate:
		return "template"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Snapshot is an immutable copy of the State handed to listeners and to the
// Renderer. An empty Template means built-in rendering.
type Snapshot struct {
	Instant   time.Time
	Selection []zone.ID
	Template  string
}

// ReferenceZone returns the zone of the reference instant.
func (s Snapshot) ReferenceZone() zone.ID {
	return zone.ID(s.Instant.Location().String())
}

// Listener receives the post-commit snapshot.
type Listener func(Snapshot)

type subscription struct {
	id uint64
	fn Listener
}

// State is the single owner of the reference instant, the selected zones and
// the template reference. Every mutation goes through its methods, and each
// committed change synchronously notifies the listeners of that field.
//
// State is not safe for concurrent use; it lives on the UI goroutine.
type State struct {
	catalog *zone.Catalog

	instant   time.Time
	selection []zone.ID
	template  string

	listeners map[Field][]subscription
	nextID    uint64
}

// NewState validates the initial snapshot and returns a State holding it.
// The selection is cleaned the same way ReplaceSelection does.
func NewState(catalog *zone.Catalog, initial Snapshot) (*State, error) {
	s := &State{
		catalog:   catalog,
		listeners: make(map[Field][]subscription),
	}

	t, err := s.resolve(initial.Instant)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStateInit, err)
	}
	s.instant = t
	s.selection = s.normalize(initial.Selection)
	s.template = initial.Template
	return s, nil
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

func (s *State) Instant() time.Time { return s.instant }

// Selection returns a copy of the selected zones in policy order.
func (s *State) Selection() []zone.ID { return slices.Clone(s.selection) }

func (s *State) Template() string { return s.template }

func (s *State) ReferenceZone() zone.ID {
	return zone.ID(s.instant.Location().String())
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Instant:   s.instant,
		Selection: slices.Clone(s.selection),
		Template:  s.template,
	}
}

// Catalog returns the catalog the state orders its selection with.
func (s *State) Catalog() *zone.Catalog { return s.catalog }

// -----------------------------------------------------------------------------
// Reference instant
// -----------------------------------------------------------------------------

// SetInstant replaces the reference instant. The zone of t must resolve.
func (s *State) SetInstant(t time.Time) error {
	t, err := s.resolve(t)
	if err != nil {
		return err
	}
	if t.Equal(s.instant) && t.Location().String() == s.instant.Location().String() {
		return nil
	}
	s.instant = t
	slog.Debug(config.MsgInstantChanged,
		config.LogKeyComponent, config.CompState,
		config.LogKeyInstant, t.Format(time.RFC3339),
		config.LogKeyZone, t.Location().String())
	s.notify(FieldInstant)
	return nil
}

// SetDate keeps the time of day and the zone, and changes the calendar date.
func (s *State) SetDate(year int, month time.Month, day int) {
	t := s.instant
	s.commitWall(time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()))
}

// SetHour keeps the date, minute and zone. Range checks belong to the caller.
func (s *State) SetHour(hour int) {
	t := s.instant
	s.commitWall(time.Date(t.Year(), t.Month(), t.Day(), hour, t.Minute(), t.Second(), t.Nanosecond(), t.Location()))
}

// SetMinute keeps the date, hour and zone. Range checks belong to the caller.
func (s *State) SetMinute(minute int) {
	t := s.instant
	s.commitWall(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, t.Second(), t.Nanosecond(), t.Location()))
}

// SetZone moves the reference instant to another zone, keeping the wall clock.
// 12:30 in Berlin becomes 12:30 in Tokyo, not 19:30.
func (s *State) SetZone(id zone.ID) error {
	loc, err := s.catalog.Location(id)
	if err != nil {
		return err
	}
	t := s.instant
	return s.SetInstant(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc))
}

// commitWall commits a value built from the current location, which is
// resolvable by construction.
func (s *State) commitWall(t time.Time) {
	if err := s.SetInstant(t); err != nil {
		slog.Error(config.ErrUnresolvable,
			config.LogKeyComponent, config.CompState,
			config.LogKeyZone, t.Location().String(),
			config.LogKeyError, err)
	}
}

func (s *State) resolve(t time.Time) (time.Time, error) {
	loc, err := s.catalog.Location(zone.ID(t.Location().String()))
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// -----------------------------------------------------------------------------
// Selection
// -----------------------------------------------------------------------------

// ReplaceSelection drops unresolvable identifiers, removes duplicates, sorts
// the remainder by the ordering policy and commits it. An empty selection is
// valid and renders as empty output.
func (s *State) ReplaceSelection(ids []zone.ID) {
	next := s.normalize(ids)
	if slices.Equal(next, s.selection) {
		return
	}
	s.selection = next
	slog.Debug(config.MsgSelectionChanged,
		config.LogKeyComponent, config.CompState,
		config.LogKeyCount, len(next))
	s.notify(FieldSelection)
}

// AddZone adds one zone to the selection.
func (s *State) AddZone(id zone.ID) error {
	if _, err := s.catalog.Location(id); err != nil {
		return err
	}
	s.ReplaceSelection(append(slices.Clone(s.selection), id))
	return nil
}

// RemoveZone removes one zone from the selection. Unknown zones are ignored.
func (s *State) RemoveZone(id zone.ID) {
	s.ReplaceSelection(slices.DeleteFunc(slices.Clone(s.selection), func(z zone.ID) bool { return z == id }))
}

func (s *State) normalize(ids []zone.ID) []zone.ID {
	seen := make(map[zone.ID]struct{}, len(ids))
	out := make([]zone.ID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if !s.catalog.Resolvable(id) {
			slog.Warn(config.MsgZoneSkipped,
				config.LogKeyComponent, config.CompState,
				config.LogKeyZone, string(id))
			continue
		}
		out = append(out, id)
	}
	s.catalog.Sort(out)
	return out
}

// -----------------------------------------------------------------------------
// Template
// -----------------------------------------------------------------------------

// SetTemplate commits a template path; "" switches back to built-in rendering.
// Whether the file can be read is only checked when rendering.
func (s *State) SetTemplate(path string) {
	if path == s.template {
		return
	}
	s.template = path
	slog.Debug(config.MsgTemplateChanged,
		config.LogKeyComponent, config.CompState,
		config.LogKeyTemplate, path)
	s.notify(FieldTemplate)
}

// -----------------------------------------------------------------------------
// Notification
// -----------------------------------------------------------------------------

// Subscribe registers fn for changes of field. Listeners run synchronously in
// subscription order. The returned function removes the listener; calling it
// more than once is harmless.
func (s *State) Subscribe(field Field, fn Listener) (unsubscribe func()) {
	s.nextID++
	id := s.nextID
	s.listeners[field] = append(s.listeners[field], subscription{id: id, fn: fn})

	return func() {
		s.listeners[field] = slices.DeleteFunc(s.listeners[field], func(sub subscription) bool {
			return sub.id == id
		})
	}
}

func (s *State) notify(field Field) {
	subs := slices.Clone(s.listeners[field])
	if len(subs) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, sub := range subs {
		sub.fn(snap)
	}
}
