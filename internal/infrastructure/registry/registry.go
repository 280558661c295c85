package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/plugsync/plugsync/internal/core/domain"
)

// InstalledPlugin is one registry entry.
type InstalledPlugin struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Files       []string  `json:"files"`
	InstalledAt time.Time `json:"installed_at"`
}

// FileRegistry persists installed-plugin state in a JSON file.
type FileRegistry struct {
	configDir string
	filePath  string
}

// NewFileRegistry creates a registry stored under configDir.
func NewFileRegistry(configDir string) *FileRegistry {
	return &FileRegistry{
		configDir: configDir,
		filePath:  filepath.Join(configDir, "registry.json"),
	}
}

// registryData is the persisted registry format.
type registryData struct {
	Version     string                     `json:"version"`
	LastUpdated time.Time                  `json:"last_updated"`
	Plugins     map[string]InstalledPlugin `json:"plugins"`
}

// Load reads the registry. A missing file yields an empty registry.
func (r *FileRegistry) Load(ctx context.Context) (map[string]InstalledPlugin, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]InstalledPlugin), nil
		}
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var reg registryData
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry file: %w", err)
	}
	if reg.Plugins == nil {
		reg.Plugins = make(map[string]InstalledPlugin)
	}
	return reg.Plugins, nil
}

// Save writes the registry atomically.
func (r *FileRegistry) Save(ctx context.Context, plugins map[string]InstalledPlugin) error {
	if err := os.MkdirAll(r.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	reg := registryData{
		Version:     "1.0",
		LastUpdated: time.Now(),
		Plugins:     plugins,
	}

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	tempFile := r.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	if err := os.Rename(tempFile, r.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to save registry file: %w", err)
	}
	return nil
}

// Installed returns the registered plugins as name/version pairs, sorted by
// name for stable output.
func (r *FileRegistry) Installed(ctx context.Context) ([]domain.LocalPlugin, error) {
	plugins, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	local := make([]domain.LocalPlugin, 0, len(plugins))
	for _, p := range plugins {
		local = append(local, domain.LocalPlugin{Name: p.Name, Version: p.Version})
	}
	sort.Slice(local, func(i, j int) bool { return local[i].Name < local[j].Name })
	return local, nil
}

// Add records an installed plugin, replacing any previous entry with the same
// name.
func (r *FileRegistry) Add(ctx context.Context, plugin domain.LocalPlugin, files []string) error {
	plugins, err := r.Load(ctx)
	if err != nil {
		return err
	}

	plugins[plugin.Name] = InstalledPlugin{
		Name:        plugin.Name,
		Version:     plugin.Version,
		Files:       files,
		InstalledAt: time.Now(),
	}
	return r.Save(ctx, plugins)
}

// Remove drops a plugin from the registry.
func (r *FileRegistry) Remove(ctx context.Context, name string) error {
	plugins, err := r.Load(ctx)
	if err != nil {
		return err
	}

	delete(plugins, name)
	return r.Save(ctx, plugins)
}

// Get returns a single registry entry.
func (r *FileRegistry) Get(ctx context.Context, name string) (InstalledPlugin, bool, error) {
	plugins, err := r.Load(ctx)
	if err != nil {
		return InstalledPlugin{}, false, err
	}
	p, ok := plugins[name]
	return p, ok, nil
}
