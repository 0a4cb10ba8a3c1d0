package themepack

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const indexVersion = "1.0"

// Installed describes one pack fetched into the local pack directory.
type Installed struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	URL         string    `json:"url"`
	Path        string    `json:"path"`
	Commit      string    `json:"commit,omitempty"`
	InstalledAt time.Time `json:"installed_at"`
}

type indexFile struct {
	Version string      `json:"version"`
	Packs   []Installed `json:"packs"`
}

// Index persists the installed packs as a JSON document.
type Index struct {
	path    string
	mu      sync.RWMutex
	version string
	packs   []Installed
}

// OpenIndex loads the index at path, starting empty when the file is absent.
func OpenIndex(path string) (*Index, error) {
	idx := &Index{path: path, version: indexVersion}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	if err := idx.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		idx.packs = []Installed{}
	}
	return idx, nil
}

// Load reads the index from disk.
func (i *Index) Load() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	data, err := os.ReadFile(i.path)
	if err != nil {
		return err
	}

	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse theme pack index: %w", err)
	}

	i.version = file.Version
	i.packs = file.Packs
	return nil
}

// Save writes the index atomically.
func (i *Index) Save() error {
	i.mu.RLock()
	file := indexFile{Version: i.version, Packs: i.packs}
	i.mu.RUnlock()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal theme pack index: %w", err)
	}

	tmpPath := i.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, i.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// List returns the installed packs sorted by name.
func (i *Index) List() []Installed {
	i.mu.RLock()
	defer i.mu.RUnlock()

	result := make([]Installed, len(i.packs))
	copy(result, i.packs)
	sort.Slice(result, func(a, b int) bool { return result[a].Name < result[b].Name })
	return result
}

// Get returns the installed pack called name.
func (i *Index) Get(name string) (Installed, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	for _, p := range i.packs {
		if p.Name == name {
			return p, nil
		}
	}
	return Installed{}, fmt.Errorf("theme pack not installed: %s", name)
}

// Put adds pack or replaces the entry with the same name.
func (i *Index) Put(pack Installed) {
	i.mu.Lock()
	defer i.mu.Unlock()

	for idx, existing := range i.packs {
		if existing.Name == pack.Name {
			i.packs[idx] = pack
			return
		}
	}
	i.packs = append(i.packs, pack)
}

// Remove deletes the entry called name.
func (i *Index) Remove(name string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	for idx, p := range i.packs {
		if p.Name == name {
			i.packs = append(i.packs[:idx], i.packs[idx+1:]...)
			return nil
		}
	}
	return fmt.Errorf("theme pack not installed: %s", name)
}

// Paths returns the on-disk locations of every installed pack.
func (i *Index) Paths() []string {
	packs := i.List()
	paths := make([]string, 0, len(packs))
	for _, p := range packs {
		paths = append(paths, p.Path)
	}
	return paths
}
