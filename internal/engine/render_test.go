package engine_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-tzconv/internal/engine"
	"github.com/tartampluch/go-tzconv/internal/zone"
)

// MockEvaluator records what the renderer hands to the template layer.
type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(path string, values map[string]string) (string, error) {
	args := m.Called(path, values)
	return args.String(0), args.Error(1)
}

func writeTemplate(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// -----------------------------------------------------------------------------
// Built-in rendering
// -----------------------------------------------------------------------------

func TestRender_EmptySelection(t *testing.T) {
	r := engine.NewRenderer(testCatalog(t))

	out, err := r.Render(engine.Snapshot{Instant: noonUTC})

	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestRender_SingleZone(t *testing.T) {
	r := engine.NewRenderer(testCatalog(t))

	out, err := r.Render(engine.Snapshot{Instant: noonUTC, Selection: zone.IDs("Asia/Tokyo")})

	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo: 15-06-2025 21:30\n", out)
}

func TestRender_BerlinBeforeUTC(t *testing.T) {
	s := newState(t)
	s.ReplaceSelection(zone.IDs("UTC", "Europe/Berlin"))
	r := engine.NewRenderer(testCatalog(t))

	out, err := r.Render(s.Snapshot())

	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin: 15-06-2025 14:30\nUTC: 15-06-2025 12:30\n", out)
}

func TestRender_CrossesDateLine(t *testing.T) {
	s := newState(t, "Australia/Sydney", "America/New_York")
	s.SetHour(23)
	s.SetMinute(45)
	r := engine.NewRenderer(testCatalog(t))

	out, err := r.Render(s.Snapshot())

	require.NoError(t, err)
	assert.Equal(t,
		"Australia/Sydney: 16-06-2025 09:45\nAmerica/New_York: 15-06-2025 19:45\n",
		out)
}

func TestRender_Pure(t *testing.T) {
	s := newState(t, "UTC", "Europe/Berlin", "Asia/Tokyo", "America/New_York")
	r := engine.NewRenderer(testCatalog(t))
	snap := s.Snapshot()

	first, err := r.Render(snap)
	require.NoError(t, err)
	second, err := r.Render(snap)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 4, strings.Count(first, "\n"))
}

func TestRender_SkipsHandBuiltUnresolvableZone(t *testing.T) {
	r := engine.NewRenderer(testCatalog(t))

	out, err := r.Render(engine.Snapshot{Instant: noonUTC, Selection: zone.IDs("Mars/Base", "UTC")})

	require.NoError(t, err)
	assert.Equal(t, "UTC: 15-06-2025 12:30\n", out)
}

// -----------------------------------------------------------------------------
// Template rendering
// -----------------------------------------------------------------------------

func TestRender_TemplateReceivesBothValues(t *testing.T) {
	eval := new(MockEvaluator)
	eval.On("Evaluate", "/t.tmpl", map[string]string{
		"originalDate":   "Sunday 15 June 2025",
		"convertedTimes": "UTC: 15-06-2025 12:30\n",
	}).Return("rendered", nil)
	r := &engine.Renderer{Catalog: testCatalog(t), Evaluator: eval}

	out, err := r.Render(engine.Snapshot{Instant: noonUTC, Selection: zone.IDs("UTC"), Template: "/t.tmpl"})

	require.NoError(t, err)
	assert.Equal(t, "rendered", out)
	eval.AssertExpectations(t)
}

func TestRender_TemplateFailureIsTemplateError(t *testing.T) {
	eval := new(MockEvaluator)
	eval.On("Evaluate", mock.Anything, mock.Anything).Return("", errors.New("boom"))
	r := &engine.Renderer{Catalog: testCatalog(t), Evaluator: eval}

	out, err := r.Render(engine.Snapshot{Instant: noonUTC, Template: "/t.tmpl"})

	assert.Empty(t, out)
	var te *engine.TemplateError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "/t.tmpl", te.Path)
	assert.EqualError(t, te.Err, "boom")
}

func TestRender_MissingTemplateFile(t *testing.T) {
	r := engine.NewRenderer(testCatalog(t))
	missing := filepath.Join(t.TempDir(), "gone.tmpl")

	_, err := r.Render(engine.Snapshot{Instant: noonUTC, Selection: zone.IDs("UTC"), Template: missing})

	var te *engine.TemplateError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

// -----------------------------------------------------------------------------
// FileEvaluator
// -----------------------------------------------------------------------------

func TestFileEvaluator_GoTemplate(t *testing.T) {
	path := writeTemplate(t, "mail.tmpl", "Meeting on {{.originalDate}}:\n{{.convertedTimes}}-- {{.unknown}}end")
	r := engine.NewRenderer(testCatalog(t))

	out, err := r.Render(engine.Snapshot{
		Instant:   time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		Selection: zone.IDs("Europe/Berlin"),
		Template:  path,
	})

	require.NoError(t, err)
	assert.Equal(t, "Meeting on Wednesday 01 January 2025:\nEurope/Berlin: 01-01-2025 10:00\n-- end", out)
}

func TestFileEvaluator_VelocityTemplate(t *testing.T) {
	path := writeTemplate(t, "legacy.vm", "Date: $originalDate\n${convertedTimes}$other")

	out, err := engine.FileEvaluator{}.Evaluate(path, map[string]string{
		"originalDate":   "Wednesday 01 January 2025",
		"convertedTimes": "UTC: 01-01-2025 09:00\n",
	})

	require.NoError(t, err)
	assert.Equal(t, "Date: Wednesday 01 January 2025\nUTC: 01-01-2025 09:00\n$other", out)
}

func TestFileEvaluator_VelocityReferencesMatchWholeNames(t *testing.T) {
	values := map[string]string{"originalDate": "D", "convertedTimes": "T"}

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"Longer name left alone", "$originalDateX", "$originalDateX"},
		{"Braces delimit the name", "${originalDate}X", "DX"},
		{"Punctuation ends the name", "$originalDate, $convertedTimes.", "D, T."},
		{"Dash belongs to the name", "$originalDate-old", "$originalDate-old"},
		{"Unclosed brace", "${originalDate", "${originalDate"},
		{"Lone dollar", "costs $5", "costs $5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemplate(t, "legacy.vm", tt.content)

			out, err := engine.FileEvaluator{}.Evaluate(path, values)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestFileEvaluator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"Parse", "{{.originalDate", "template could not be parsed"},
		{"Exec", "{{index .originalDate 99}}", "template could not be evaluated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemplate(t, "bad.tmpl", tt.content)

			_, err := engine.FileEvaluator{}.Evaluate(path, map[string]string{"originalDate": "x"})

			var te *engine.TemplateError
			require.ErrorAs(t, err, &te)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), path)
		})
	}
}
