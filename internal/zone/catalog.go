package zone

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	_ "time/tzdata" // Zone rules for hosts without a system database.

	"github.com/tartampluch/go-tzconv/internal/config"
)

type entry struct {
	loc    *time.Location
	offset Offset
}

// Catalog groups every known zone by its standard UTC offset.
// It is built once at startup and never mutated afterwards, so it can be
// shared by pointer without synchronisation.
type Catalog struct {
	builtAt time.Time
	entries map[ID]entry
	buckets map[Offset][]ID
	offsets []Offset // descending
	ordered []ID     // policy order
}

// Build enumerates src, resolves each identifier and buckets it by its
// standard offset as of 'now'. Identifiers Go cannot load are skipped.
// It fails only when nothing could be resolved.
func Build(src Source, now time.Time) (*Catalog, error) {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompCatalog)

	names, err := src.Names()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCatalogBuild, err)
	}

	c := &Catalog{
		builtAt: now,
		entries: make(map[ID]entry, len(names)),
		buckets: make(map[Offset][]ID),
	}

	for _, name := range names {
		id := ID(name)
		if _, dup := c.entries[id]; dup {
			continue
		}
		loc, err := load(id)
		if err != nil {
			log.Debug(config.MsgZoneSkipped, config.LogKeyZone, name, config.LogKeyError, err)
			continue
		}
		off := standardOffset(loc, now)
		c.entries[id] = entry{loc: loc, offset: off}
		c.buckets[off] = append(c.buckets[off], id)
	}

	if len(c.entries) == 0 {
		return nil, fmt.Errorf("%s: %w", config.ErrCatalogBuild, ErrNoZoneDatabase)
	}

	for off, ids := range c.buckets {
		slices.Sort(ids)
		c.offsets = append(c.offsets, off)
	}
	slices.SortFunc(c.offsets, func(a, b Offset) int { return cmp.Compare(b, a) })

	c.ordered = make([]ID, 0, len(c.entries))
	for _, off := range c.offsets {
		c.ordered = append(c.ordered, c.buckets[off]...)
	}

	log.Info(config.MsgCatalogBuilt,
		config.LogKeyCount, len(c.ordered),
		config.LogKeyOffsets, len(c.offsets),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return c, nil
}

// BuiltAt returns the instant standard offsets were evaluated at.
func (c *Catalog) BuiltAt() time.Time {
	return c.builtAt
}

// Len returns the number of zones in the catalog.
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// IDs returns every zone in policy order. The slice is a copy.
func (c *Catalog) IDs() []ID {
	return slices.Clone(c.ordered)
}

// Offsets returns the distinct standard offsets, largest first.
func (c *Catalog) Offsets() []Offset {
	return slices.Clone(c.offsets)
}

// Bucket returns the zones sharing a standard offset, sorted by name.
func (c *Catalog) Bucket(off Offset) []ID {
	return slices.Clone(c.buckets[off])
}

// Contains reports whether id is part of the catalog.
func (c *Catalog) Contains(id ID) bool {
	_, ok := c.entries[id]
	return ok
}

// StandardOffset returns the bucket offset of a catalog zone.
func (c *Catalog) StandardOffset(id ID) (Offset, bool) {
	e, ok := c.entries[id]
	return e.offset, ok
}

// Location resolves id. Zones outside the catalog (e.g. aliases the host
// database does not list) are resolved through the Go zone database.
func (c *Catalog) Location(id ID) (*time.Location, error) {
	if e, ok := c.entries[id]; ok {
		return e.loc, nil
	}
	return load(id)
}

// Resolvable reports whether Location would succeed.
func (c *Catalog) Resolvable(id ID) bool {
	_, err := c.Location(id)
	return err == nil
}

// Compare orders zones by standard offset descending (eastern zones first),
// then by identifier ascending. The empty ID sorts first. The same ordering
// is used for the catalog and for the user's selection.
func (c *Catalog) Compare(a, b ID) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}
	if oa, ob := c.offsetOf(a), c.offsetOf(b); oa != ob {
		return cmp.Compare(ob, oa)
	}
	return strings.Compare(string(a), string(b))
}

// Sort orders ids in place with Compare.
func (c *Catalog) Sort(ids []ID) {
	slices.SortFunc(ids, c.Compare)
}

func (c *Catalog) offsetOf(id ID) Offset {
	if e, ok := c.entries[id]; ok {
		return e.offset
	}
	loc, err := load(id)
	if err != nil {
		return 0
	}
	return standardOffset(loc, c.builtAt)
}
