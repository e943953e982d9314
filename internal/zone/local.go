package zone

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/tartampluch/go-tzconv/internal/config"
)

// localtimePath is a variable so tests can point it elsewhere.
var localtimePath = config.LocaltimePath

// LocalID returns the IANA identifier of the host zone.
// time.Local only reports "Local", so the name is recovered from $TZ or from
// the target of /etc/localtime.
func LocalID() (ID, error) {
	if tz := strings.TrimPrefix(os.Getenv(config.EnvTZ), ":"); tz != "" {
		id := ID(tz)
		if filepath.IsAbs(tz) {
			id = idFromPath(tz)
		}
		if _, err := load(id); err == nil {
			return id, nil
		}
	}

	target, err := filepath.EvalSymlinks(localtimePath)
	if err == nil {
		if id := idFromPath(target); id != "" {
			if _, err := load(id); err == nil {
				return id, nil
			}
		}
	}
	return "", errors.New(config.ErrLocalZoneDetect)
}

func idFromPath(p string) ID {
	p = filepath.ToSlash(p)
	i := strings.LastIndex(p, config.ZoneInfoMarker)
	if i < 0 {
		return ""
	}
	return ID(p[i+len(config.ZoneInfoMarker):])
}
