// Package artifact owns the rendered page images on disk. The manager is the
// only component that writes or deletes files matching its naming pattern.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	namePrefix  = "story_page_"
	namePattern = "story_page_*.png"
)

var indexRe = regexp.MustCompile(`^story_page_(\d+)\.png$`)

// Manager assigns deterministic filenames per page index and clears stale
// artifacts before a new generation run. Index 0 is the title page.
type Manager struct {
	dir string
}

// NewManager creates the artifact directory if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the artifact directory.
func (m *Manager) Dir() string {
	return m.dir
}

// FileName returns the deterministic name for a page index.
func (m *Manager) FileName(index int) string {
	return fmt.Sprintf("%s%d.png", namePrefix, index)
}

// Path returns the deterministic on-disk path for a page index. Rendering to
// the same index overwrites the previous file; there is no versioning.
func (m *Manager) Path(index int) string {
	return filepath.Join(m.dir, m.FileName(index))
}

// Clear deletes every file matching the naming pattern. Individual deletion
// failures are logged and skipped, not surfaced: a stale file must never
// abort a generation run. Calling Clear on an already-empty directory is a
// no-op.
func (m *Manager) Clear() error {
	matches, err := filepath.Glob(filepath.Join(m.dir, namePattern))
	if err != nil {
		return fmt.Errorf("glob artifacts: %w", err)
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("failed to delete stale page image")
		}
	}
	return nil
}

// List returns the current artifact paths ordered by page index.
func (m *Manager) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.dir, namePattern))
	if err != nil {
		return nil, fmt.Errorf("glob artifacts: %w", err)
	}

	type entry struct {
		index int
		path  string
	}
	entries := make([]entry, 0, len(matches))
	for _, path := range matches {
		sub := indexRe.FindStringSubmatch(filepath.Base(path))
		if sub == nil {
			continue
		}
		idx, err := strconv.Atoi(sub[1])
		if err != nil {
			continue
		}
		entries = append(entries, entry{index: idx, path: path})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.path
	}
	return paths, nil
}

// Resolve maps a client-supplied image path onto a managed artifact file,
// refusing anything that does not match the naming pattern. Only the base
// name is honored, so path traversal cannot escape the artifact directory.
func (m *Manager) Resolve(requested string) (string, bool) {
	base := filepath.Base(requested)
	if !indexRe.MatchString(base) {
		return "", false
	}
	path := filepath.Join(m.dir, base)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
