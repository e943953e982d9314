package zone

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-tzconv/internal/config"
)

var (
	// ErrNoZoneDatabase is returned when no zone identifiers can be enumerated.
	// Without a catalog the application cannot start.
	ErrNoZoneDatabase = errors.New(config.ErrNoZoneDatabase)

	// ErrUnresolvable is returned for identifiers that do not name a zone.
	ErrUnresolvable = errors.New(config.ErrUnresolvable)
)

// localName is what time.Local reports; it is not an IANA identifier.
const localName = "Local"

// ID is a canonical IANA time zone identifier such as "Europe/Berlin".
// Two IDs are the same zone iff their strings are equal.
type ID string

func (id ID) String() string {
	return string(id)
}

// IDs converts plain strings to IDs, preserving order.
func IDs(names ...string) []ID {
	out := make([]ID, len(names))
	for i, n := range names {
		out[i] = ID(n)
	}
	return out
}

// Strings converts IDs back to plain strings, preserving order.
func Strings(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// Offset is a UTC offset in seconds east of UTC.
type Offset int

// OffsetOf returns the offset of a time.Duration.
func OffsetOf(d time.Duration) Offset {
	return Offset(d / time.Second)
}

// Duration returns the offset as a time.Duration.
func (o Offset) Duration() time.Duration {
	return time.Duration(o) * time.Second
}

// String formats the offset as "UTC+02:00".
func (o Offset) String() string {
	sign := "+"
	v := int(o)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf(config.FormatOffset, sign, v/3600, (v%3600)/60)
}

// load resolves an identifier through the Go zone database.
func load(id ID) (*time.Location, error) {
	if id == "" || id == localName {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvable, id)
	}
	loc, err := time.LoadLocation(string(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnresolvable, id, err)
	}
	return loc, nil
}

// standardOffset returns the lowest offset loc observes in the year either
// side of 'at'. The tz database encodes some zones (Europe/Dublin,
// Africa/Casablanca) with negative DST, where the period flagged as daylight
// time has the smaller offset, so the IsDST flag cannot be trusted here.
func standardOffset(loc *time.Location, at time.Time) Offset {
	t := at.AddDate(-1, 0, 0).In(loc)
	until := at.AddDate(1, 0, 0)

	_, low := t.Zone()
	for i := 0; i < config.ZoneProbeLimit; i++ {
		_, end := t.ZoneBounds()
		if end.IsZero() || end.After(until) {
			break
		}
		t = end.In(loc)
		if _, off := t.Zone(); off < low {
			low = off
		}
	}
	return Offset(low)
}
