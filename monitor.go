package savewatch

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
)

// DefaultSavePattern matches every save file under the monitored root.
const DefaultSavePattern = "**/*.sav"

// SaveFile is one discovered save: its path, the game it belongs to (the
// name of the directory that directly contains it) and its mtime.
type SaveFile struct {
	Path  string
	Game  string
	MTime time.Time
}

// SavePathMonitor polls a directory tree for new save files. It remembers
// every path passed to MarkSeen and Scan skips those, so a save marked seen
// is not returned again unless RestrictToPrefix un-marks it for a replay.
// The monitor itself never parses anything; an external tick drives Scan and
// the caller decides what to do with the results.
type SavePathMonitor struct {
	root   string
	logger logrus.FieldLogger

	// Pattern is the doublestar pattern save files must match, relative to
	// root. Change it before the first Scan.
	Pattern string

	mu        sync.Mutex
	prefix    string
	processed map[string]struct{}
}

func NewSavePathMonitor(root string, prefix string, logger logrus.FieldLogger) *SavePathMonitor {
	return &SavePathMonitor{
		root:      root,
		logger:    logger,
		Pattern:   DefaultSavePattern,
		prefix:    prefix,
		processed: make(map[string]struct{}),
	}
}

// Scan walks the root and returns every acceptable save file that has not
// been marked seen, sorted by path for deterministic processing order. Scan
// does not mutate the processed set.
//
// A file is accepted when it matches Pattern, its path does not contain
// "ironman", its parent directory name does not start with "mp" (multiplayer
// saves repeat other players' games) and its parent directory name starts
// with the configured prefix.
func (m *SavePathMonitor) Scan() ([]SaveFile, error) {
	m.mu.Lock()
	prefix := m.prefix
	pattern := m.Pattern
	m.mu.Unlock()

	var found []SaveFile
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// a directory vanishing mid-walk is normal while the game is
			// writing; skip rather than abort the whole scan
			m.logger.WithError(err).WithField("path", path).Debug("skipping unreadable path")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(m.root, path)
		if err != nil {
			return err
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); !ok {
			return nil
		}
		if strings.Contains(path, "ironman") {
			return nil
		}
		game := filepath.Base(filepath.Dir(path))
		if strings.HasPrefix(game, "mp") {
			return nil
		}
		if !strings.HasPrefix(game, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		found = append(found, SaveFile{Path: path, Game: game, MTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	result := found[:0]
	for _, f := range found {
		if _, seen := m.processed[f.Path]; !seen {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}

// MarkSeen adds the given files to the processed set.
func (m *SavePathMonitor) MarkSeen(files []SaveFile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range files {
		m.processed[f.Path] = struct{}{}
	}
}

// MarkAllExistingSeen marks every currently acceptable file as processed.
// Used on startup so a dashboard session only picks up saves written after
// it started.
func (m *SavePathMonitor) MarkAllExistingSeen() error {
	files, err := m.Scan()
	if err != nil {
		return err
	}
	m.MarkSeen(files)
	m.logger.WithField("count", len(files)).Debug("marked pre-existing saves as processed")
	return nil
}

// RestrictToPrefix narrows the monitor to games whose directory name starts
// with prefix, and un-marks every already-processed save of those games so
// the currently selected game is replayed from the beginning.
func (m *SavePathMonitor) RestrictToPrefix(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefix = prefix
	for path := range m.processed {
		if strings.HasPrefix(filepath.Base(filepath.Dir(path)), prefix) {
			delete(m.processed, path)
		}
	}
}

// ProcessedCount returns the size of the processed set.
func (m *SavePathMonitor) ProcessedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.processed)
}
