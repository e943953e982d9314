package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-tzconv/internal/zone"
)

// MockLoader simulates the preference store using `testify/mock`.
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) LoadReferenceZone() zone.ID {
	return m.Called().Get(0).(zone.ID)
}

func (m *MockLoader) LoadSelectedZones() []zone.ID {
	if ids := m.Called().Get(0); ids != nil {
		return ids.([]zone.ID)
	}
	return nil
}

func (m *MockLoader) LoadTemplatePath() string {
	return m.Called().String(0)
}

func newLoader(ref zone.ID, selection []zone.ID, template string) *MockLoader {
	l := new(MockLoader)
	l.On("LoadReferenceZone").Return(ref)
	l.On("LoadSelectedZones").Return(selection)
	l.On("LoadTemplatePath").Return(template)
	return l
}

func bootstrapCatalog(t *testing.T) *zone.Catalog {
	t.Helper()
	c, err := zone.Build(zone.StaticSource{"UTC", "Europe/Berlin", "Asia/Tokyo", "America/New_York"},
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return c
}

// withLocalZone pins the host zone for the duration of a test.
func withLocalZone(t *testing.T, id zone.ID, err error) {
	t.Helper()
	old := localZone
	localZone = func() (zone.ID, error) { return id, err }
	t.Cleanup(func() { localZone = old })
}

var today = FixedClock(time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC))

func TestBootstrap_UsesPersistedValues(t *testing.T) {
	withLocalZone(t, "America/New_York", nil)
	c := bootstrapCatalog(t)
	loader := newLoader("Asia/Tokyo", zone.IDs("UTC", "Europe/Berlin"), "/home/me/t.tmpl")

	snap := Bootstrap(c, loader, zone.IDs("America/New_York"), today)

	assert.Equal(t, zone.ID("Asia/Tokyo"), snap.ReferenceZone())
	assert.Equal(t, "2025-03-09 12:30", snap.Instant.Format("2006-01-02 15:04"))
	assert.Equal(t, zone.IDs("UTC", "Europe/Berlin"), snap.Selection)
	assert.Equal(t, "/home/me/t.tmpl", snap.Template)
	loader.AssertExpectations(t)
}

func TestBootstrap_ReferenceZoneFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		persisted zone.ID
		localID   zone.ID
		localErr  error
		want      zone.ID
	}{
		{"Persisted", "Europe/Berlin", "Asia/Tokyo", nil, "Europe/Berlin"},
		{"Nothing persisted uses local", "", "Asia/Tokyo", nil, "Asia/Tokyo"},
		{"Unresolvable persisted uses local", "Mars/Base", "America/New_York", nil, "America/New_York"},
		{"Local undetectable uses UTC", "", "", errors.New("no local zone"), "UTC"},
		{"Local unresolvable uses UTC", "", "Nowhere", nil, "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withLocalZone(t, tt.localID, tt.localErr)

			snap := Bootstrap(bootstrapCatalog(t), newLoader(tt.persisted, nil, ""), nil, today)

			assert.Equal(t, tt.want, snap.ReferenceZone())
			assert.Equal(t, 12, snap.Instant.Hour())
			assert.Equal(t, 30, snap.Instant.Minute())
		})
	}
}

func TestBootstrap_SelectionFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		persisted []zone.ID
		defaults  []zone.ID
		want      []zone.ID
	}{
		{"Persisted wins", zone.IDs("Asia/Tokyo"), zone.IDs("UTC"), zone.IDs("Asia/Tokyo")},
		{"Empty persisted uses defaults", nil, zone.IDs("UTC", "Europe/Berlin"), zone.IDs("UTC", "Europe/Berlin")},
		{"Unknown persisted zone uses defaults", zone.IDs("Asia/Tokyo", "Mars/Base"), zone.IDs("UTC"), zone.IDs("UTC")},
		{"Defaults filtered to catalog", nil, zone.IDs("Europe/Paris", "UTC"), zone.IDs("UTC")},
		{"No defaults uses whole catalog", nil, nil, zone.IDs("Asia/Tokyo", "Europe/Berlin", "UTC", "America/New_York")},
		{"No usable defaults uses whole catalog", nil, zone.IDs("Mars/Base"), zone.IDs("Asia/Tokyo", "Europe/Berlin", "UTC", "America/New_York")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withLocalZone(t, "UTC", nil)

			snap := Bootstrap(bootstrapCatalog(t), newLoader("", tt.persisted, ""), tt.defaults, today)

			assert.Equal(t, tt.want, snap.Selection)
		})
	}
}

func TestBootstrap_FeedsNewState(t *testing.T) {
	withLocalZone(t, "UTC", nil)
	c := bootstrapCatalog(t)

	snap := Bootstrap(c, newLoader("Europe/Berlin", zone.IDs("UTC", "Asia/Tokyo", "UTC"), ""), nil, today)
	s, err := NewState(c, snap)

	require.NoError(t, err)
	assert.Equal(t, zone.IDs("Asia/Tokyo", "UTC"), s.Selection(), "State sorts what bootstrap loaded")
	assert.Equal(t, zone.ID("Europe/Berlin"), s.ReferenceZone())
}
