package engine

import (
	"log/slog"
	"time"

	"github.com/tartampluch/go-tzconv/internal/config"
	"github.com/tartampluch/go-tzconv/internal/zone"
)

// PreferenceLoader reads what the previous session left behind.
// Empty values mean "nothing persisted".
type PreferenceLoader interface {
	LoadReferenceZone() zone.ID
	LoadSelectedZones() []zone.ID
	LoadTemplatePath() string
}

// localZone is a variable so tests do not depend on the host zone.
var localZone = zone.LocalID

// Bootstrap assembles the first snapshot of a session.
//
//   - Reference zone: the persisted one if it resolves, else the host zone,
//     else UTC.
//   - Instant: today (per clock) at 12:30 in the reference zone.
//   - Selection: the persisted list if it is non-empty and every entry is in
//     the catalog; else the configured defaults found in the catalog; else the
//     whole catalog.
//   - Template: the persisted path. The loader only returns readable files.
func Bootstrap(catalog *zone.Catalog, loader PreferenceLoader, defaults []zone.ID, clock Clock) Snapshot {
	log := slog.With(config.LogKeyComponent, config.CompEngine)

	loc := referenceLocation(catalog, loader.LoadReferenceZone(), log)

	today := clock.Now()
	instant := time.Date(today.Year(), today.Month(), today.Day(),
		config.DefaultInitialHour, config.DefaultInitialMinute, 0, 0, loc)

	return Snapshot{
		Instant:   instant,
		Selection: initialSelection(catalog, loader.LoadSelectedZones(), defaults, log),
		Template:  loader.LoadTemplatePath(),
	}
}

func referenceLocation(catalog *zone.Catalog, persisted zone.ID, log *slog.Logger) *time.Location {
	if persisted != "" {
		if loc, err := catalog.Location(persisted); err == nil {
			return loc
		}
		log.Warn(config.MsgRefZoneFallback, config.LogKeyZone, string(persisted))
	}

	if id, err := localZone(); err == nil {
		if loc, err := catalog.Location(id); err == nil {
			return loc
		}
	} else {
		log.Debug(config.ErrLocalZoneDetect, config.LogKeyError, err)
	}

	loc, err := catalog.Location(config.FallbackZone)
	if err != nil {
		// time/tzdata is linked, but UTC needs no database at all.
		return time.UTC
	}
	return loc
}

func initialSelection(catalog *zone.Catalog, persisted, defaults []zone.ID, log *slog.Logger) []zone.ID {
	if len(persisted) > 0 {
		usable := true
		for _, id := range persisted {
			if !catalog.Contains(id) {
				log.Warn(config.MsgZoneFallback, config.LogKeyZone, string(id))
				usable = false
				break
			}
		}
		if usable {
			return persisted
		}
	}

	var fromDefaults []zone.ID
	for _, id := range defaults {
		if catalog.Contains(id) {
			fromDefaults = append(fromDefaults, id)
		}
	}
	if len(fromDefaults) > 0 {
		return fromDefaults
	}
	return catalog.IDs()
}
