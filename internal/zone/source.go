package zone

import (
	"archive/zip"
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"unicode"

	"github.com/tartampluch/go-tzconv/internal/config"
)

// Source enumerates candidate zone identifiers.
// Candidates are validated by Build, so a source may over-report.
type Source interface {
	Names() ([]string, error)
}

// StaticSource is a fixed list of identifiers.
type StaticSource []string

func (s StaticSource) Names() ([]string, error) {
	if len(s) == 0 {
		return nil, ErrNoZoneDatabase
	}
	return slices.Clone(s), nil
}

//go:embed zones.txt
var embeddedZones string

// EmbeddedSource lists the zones shipped inside the binary with time/tzdata.
// Lines starting with '#' are comments.
func EmbeddedSource() StaticSource {
	var names StaticSource
	sc := bufio.NewScanner(strings.NewReader(embeddedZones))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, config.ZoneListComment) {
			continue
		}
		names = append(names, line)
	}
	return names
}

// SystemSource enumerates the host zone database.
// Directories are tried first; archives are only read when no directory
// produced a single name. Fallback, when set, answers if neither did.
type SystemSource struct {
	Dirs     []string
	Archives []string
	Fallback Source
}

// NewSystemSource locates the zone database the same way time.LoadLocation
// does: $ZONEINFO first, then the well-known system directories, then the
// archive shipped with the Go toolchain, then the embedded list.
func NewSystemSource() *SystemSource {
	s := &SystemSource{Fallback: EmbeddedSource()}

	if env := os.Getenv(config.EnvZoneInfo); env != "" {
		if info, err := os.Stat(env); err == nil {
			if info.IsDir() {
				s.Dirs = append(s.Dirs, env+string(filepath.Separator))
			} else {
				s.Archives = append(s.Archives, env)
			}
		}
	}
	s.Dirs = append(s.Dirs, config.ZoneInfoDirs...)

	if root := runtime.GOROOT(); root != "" {
		s.Archives = append(s.Archives, filepath.Join(root, filepath.FromSlash(config.GoZoneInfoZip)))
	}
	return s
}

func (s *SystemSource) Names() ([]string, error) {
	log := slog.With(config.LogKeyComponent, config.CompCatalog)
	seen := make(map[string]struct{})

	for _, dir := range s.Dirs {
		n, err := walkDir(dir, seen)
		if err != nil {
			log.Debug(config.ErrZoneWalk, config.LogKeyPath, dir, config.LogKeyError, err)
			continue
		}
		if n > 0 {
			log.Debug(config.MsgZoneSource, config.LogKeySource, dir, config.LogKeyCount, n)
		}
	}

	if len(seen) == 0 {
		for _, archive := range s.Archives {
			n, err := readArchive(archive, seen)
			if err != nil {
				log.Debug(config.ErrZoneArchive, config.LogKeyPath, archive, config.LogKeyError, err)
				continue
			}
			log.Debug(config.MsgZoneSource, config.LogKeySource, archive, config.LogKeyCount, n)
			if n > 0 {
				break
			}
		}
	}

	if len(seen) == 0 && s.Fallback != nil {
		names, err := s.Fallback.Names()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if isCandidate(name) {
				seen[name] = struct{}{}
			}
		}
		log.Debug(config.MsgZoneSource, config.LogKeySource, config.ZoneSourceEmbedded, config.LogKeyCount, len(seen))
	}

	if len(seen) == 0 {
		return nil, ErrNoZoneDatabase
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// walkDir adds every candidate below root to seen and returns how many were new.
// root should keep its trailing separator so a symlinked database is followed.
func walkDir(root string, seen map[string]struct{}) (int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s: not a directory", root)
	}

	added := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, the rest of the database is still usable.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)
		if d.IsDir() {
			if excluded(name + "/") {
				return fs.SkipDir
			}
			return nil
		}
		if !isCandidate(name) {
			return nil
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			added++
		}
		return nil
	})
	return added, err
}

func readArchive(path string, seen map[string]struct{}) (int, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Close() }()

	added := 0
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isCandidate(f.Name) {
			continue
		}
		if _, ok := seen[f.Name]; !ok {
			seen[f.Name] = struct{}{}
			added++
		}
	}
	if added == 0 {
		return 0, errors.New(config.ErrNoZoneDatabase)
	}
	return added, nil
}

// isCandidate filters out metadata files (zone.tab, tzdata.zi, +VERSION, ...)
// and the alias trees listed in config.ZoneInfoExcludes.
func isCandidate(name string) bool {
	if name == "" || excluded(name) || strings.Contains(name, ".") {
		return false
	}
	first := []rune(name)[0]
	return unicode.IsUpper(first)
}

func excluded(name string) bool {
	for _, ex := range config.ZoneInfoExcludes {
		if strings.HasSuffix(ex, "/") {
			if strings.HasPrefix(name, ex) {
				return true
			}
			continue
		}
		if name == ex {
			return true
		}
	}
	return false
}
