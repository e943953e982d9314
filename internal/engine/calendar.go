package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-tzconv/internal/config"
	"github.com/tartampluch/go-tzconv/internal/zone"
)

// CalendarExporter writes the reference instant as a single iCalendar event
// so a conversion can be dropped into a calendar application.
type CalendarExporter struct {
	Clock Clock
}

// Export returns an iCalendar document with one VEVENT starting at the
// reference instant. text (normally the rendered output) becomes the event
// description. Exporting the same snapshot twice yields the same UID, so
// calendar clients update the event instead of duplicating it.
func (e *CalendarExporter) Export(snap Snapshot, text string) ([]byte, error) {
	clock := e.Clock
	if clock == nil {
		clock = RealClock{}
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ProdID)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, EventUID(snap))

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(clock.Now().UTC())
	event.Props.Set(dtStamp)

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDateTime(snap.Instant.UTC())
	event.Props.Set(dtStart)

	event.Props.SetText(config.PropSummary, fmt.Sprintf(config.FormatEventSummary,
		snap.Instant.Format(config.FormatOriginalDate), snap.ReferenceZone()))
	if text != "" {
		event.Props.SetText(config.PropDescription, text)
	}

	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgExportWritten,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeySizeBytes, buf.Len())
	return buf.Bytes(), nil
}

// EventUID derives a stable identifier from the instant and the selection.
func EventUID(snap Snapshot) string {
	input := fmt.Sprintf(config.FormatUIDInput,
		snap.Instant.UTC().Format(time.RFC3339),
		strings.Join(zone.Strings(snap.Selection), config.PrefZoneDelimiter))
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(input))
	return fmt.Sprintf(config.FormatUID, id.String(), config.ICalDomain)
}
