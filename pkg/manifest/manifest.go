// Package manifest records annotated type documents by name and version so
// the current run can be compared with the previous one.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Snapshot is one recorded output document.
type Snapshot struct {
	Name       string `yaml:"name" json:"name"`
	Version    string `yaml:"version" json:"version"`
	File       string `yaml:"file" json:"file"`
	Digest     string `yaml:"digest,omitempty" json:"digest,omitempty"`
	Models     int    `yaml:"models" json:"models"`
	Operations int    `yaml:"operations" json:"operations"`
}

// Manifest tracks the recorded snapshots and which two are current and previous.
type Manifest struct {
	CurrentVersion  string     `yaml:"current_version" json:"current_version"`
	PreviousVersion string     `yaml:"previous_version" json:"previous_version"`
	Snapshots       []Snapshot `yaml:"snapshots" json:"snapshots"`
}

// Load reads a manifest from path. A missing file yields an empty manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// AddSnapshot records s as the current version. Re-recording a version
// already current replaces its entry without moving the previous pointer.
func (m *Manifest) AddSnapshot(s Snapshot) {
	if m.CurrentVersion != "" && m.CurrentVersion != s.Version {
		m.PreviousVersion = m.CurrentVersion
	}
	m.CurrentVersion = s.Version

	for i := range m.Snapshots {
		if m.Snapshots[i].Name == s.Name && m.Snapshots[i].Version == s.Version {
			m.Snapshots[i] = s
			return
		}
	}

	m.Snapshots = append(m.Snapshots, s)
}

// Find returns the last snapshot recorded for version.
func (m *Manifest) Find(version string) (Snapshot, bool) {
	for i := len(m.Snapshots) - 1; i >= 0; i-- {
		if m.Snapshots[i].Version == version {
			return m.Snapshots[i], true
		}
	}
	return Snapshot{}, false
}

// SnapshotFile returns the document path recorded for version, if any.
func (m *Manifest) SnapshotFile(version string) string {
	s, _ := m.Find(version)
	return s.File
}

// Digest returns the hex sha256 of the file at path.
func Digest(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
