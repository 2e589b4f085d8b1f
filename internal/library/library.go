// Package library maintains the catalogue of exhibit scenes found in the
// configured scenes directory. Each scene lives in its own subdirectory
// holding a scene.yaml manifest plus its model and narration files.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
	"github.com/deadchur/ITC303-platARpus-v1/internal/scene"
)

// ManifestName is the file each scene directory must contain.
const ManifestName = "scene.yaml"

// Library is a scanned catalogue of scenes. Safe for concurrent use; the
// watcher reloads it while the viewer reads it.
type Library struct {
	dir string

	mu     sync.RWMutex
	scenes map[string]*scene.Scene
}

// New returns a Library over dir. Call Reload to populate it.
func New(dir string) *Library {
	return &Library{dir: dir, scenes: make(map[string]*scene.Scene)}
}

// Dir returns the scanned scenes directory.
func (l *Library) Dir() string {
	return l.dir
}

// Reload rescans the scenes directory, replacing the catalogue. A missing
// directory yields an empty catalogue rather than an error so a fresh
// install can still show the embedded demo. Directories with a broken
// manifest are skipped with a warning; a duplicate scene ID fails the scan.
func (l *Library) Reload() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			l.replace(make(map[string]*scene.Scene))
			return nil
		}
		return fmt.Errorf("reading scenes directory: %w", err)
	}

	scenes := make(map[string]*scene.Scene)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest := filepath.Join(l.dir, entry.Name(), ManifestName)
		if _, err := os.Stat(manifest); err != nil {
			continue // not a scene directory
		}

		s, err := scene.LoadManifest(manifest)
		if err != nil {
			log.Warn(log.CatLibrary, "skipping unreadable scene", "dir", entry.Name(), "error", err)
			continue
		}
		if existing, ok := scenes[s.ID]; ok {
			return &DuplicateSceneError{ID: s.ID, Dir: s.Dir, ExistingAt: existing.Dir}
		}
		scenes[s.ID] = s
	}

	l.replace(scenes)
	log.Info(log.CatLibrary, "scenes directory scanned", "dir", l.dir, "scenes", len(scenes))
	return nil
}

func (l *Library) replace(scenes map[string]*scene.Scene) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scenes = scenes
}

// Get returns the scene with the given ID or a SceneNotFoundError.
func (l *Library) Get(id string) (*scene.Scene, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.scenes[id]
	if !ok {
		return nil, &SceneNotFoundError{ID: id}
	}
	return s, nil
}

// Scenes returns the catalogue sorted by ID.
func (l *Library) Scenes() []*scene.Scene {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*scene.Scene, 0, len(l.scenes))
	for _, s := range l.scenes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of catalogued scenes.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.scenes)
}
