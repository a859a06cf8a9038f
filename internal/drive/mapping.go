package drive

import (
	"encoding/json"
	"fmt"
	"os"
)

// MappingFileName is the JSON file recording local path to Drive ID mappings.
// It lives at the root of the uploaded tree so re-runs are idempotent.
const MappingFileName = "drive_map.json"

// Mapping records which local folders and files already exist remotely.
// Keys are slash-separated paths relative to the upload root.
type Mapping struct {
	Folders map[string]string `json:"folders"`
	Files   map[string]string `json:"files"`

	path string
}

// LoadMapping reads the mapping at path, returning an empty mapping if the
// file does not exist yet.
func LoadMapping(path string) (*Mapping, error) {
	m := &Mapping{
		Folders: make(map[string]string),
		Files:   make(map[string]string),
		path:    path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping: %w", err)
	}

	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse mapping %s: %w", path, err)
	}
	if m.Folders == nil {
		m.Folders = make(map[string]string)
	}
	if m.Files == nil {
		m.Files = make(map[string]string)
	}
	return m, nil
}

// Save writes the mapping back to disk. It is called after every remote
// creation so partial progress survives interruption.
func (m *Mapping) Save() error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mapping: %w", err)
	}
	return nil
}
