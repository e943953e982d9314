package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-tzconv/internal/config"
	"github.com/tartampluch/go-tzconv/internal/zone"
)

// Evaluator renders a template file with a set of named values.
type Evaluator interface {
	Evaluate(path string, values map[string]string) (string, error)
}

// TemplateError reports a template that could not be read or evaluated.
// Callers keep their previous output and tell the user.
type TemplateError struct {
	Path string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// Renderer turns a snapshot into the text shown to the user.
// Render is pure: the same snapshot, catalog and template contents always
// produce the same bytes.
type Renderer struct {
	Catalog   *zone.Catalog
	Evaluator Evaluator
}

// NewRenderer returns a Renderer evaluating templates from disk.
func NewRenderer(catalog *zone.Catalog) *Renderer {
	return &Renderer{Catalog: catalog, Evaluator: FileEvaluator{}}
}

// Render converts the reference instant into every selected zone.
//
// Without a template the result is one "<zone>: dd-MM-yyyy HH:mm" line per
// zone. With a template, the long-form original date and those lines are
// handed to the Evaluator as "originalDate" and "convertedTimes".
func (r *Renderer) Render(snap Snapshot) (string, error) {
	originalDate := snap.Instant.Format(config.FormatOriginalDate)
	convertedTimes := r.convert(snap)

	if snap.Template == "" {
		return convertedTimes, nil
	}

	out, err := r.Evaluator.Evaluate(snap.Template, map[string]string{
		config.TemplateKeyOriginalDate:   originalDate,
		config.TemplateKeyConvertedTimes: convertedTimes,
	})
	if err != nil {
		var te *TemplateError
		if !errors.As(err, &te) {
			err = &TemplateError{Path: snap.Template, Err: err}
		}
		return "", err
	}
	return out, nil
}

func (r *Renderer) convert(snap Snapshot) string {
	var b strings.Builder
	for _, id := range snap.Selection {
		loc, err := r.Catalog.Location(id)
		if err != nil {
			// State never holds such an ID; snapshots built by hand might.
			slog.Debug(config.MsgZoneSkipped,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyZone, string(id))
			continue
		}
		fmt.Fprintf(&b, config.FormatConvertedLine, id, snap.Instant.In(loc).Format(config.FormatConvertedTime))
	}
	return b.String()
}
