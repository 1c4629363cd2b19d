package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trailmark/trailmark/internal/migration"
	"github.com/trailmark/trailmark/internal/models"
)

// JSONStore persists the progress document as a single pretty-printed JSON
// file. This is the canonical on-disk format; exports share its layout.
type JSONStore struct {
	path string
	doc  *models.ProgressDocument
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = models.NewProgressDocument()
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'trailmark init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	// Migration never fails: legacy or unrecognized shapes degrade to a
	// wrapped or fresh document.
	s.doc = migration.Migrate(data)

	// Persist immediately when the on-disk shape was not current so the
	// file never regresses to the legacy layout.
	if !isCurrentVersion(data) {
		if err := s.save(); err != nil {
			return fmt.Errorf("failed to persist migrated storage: %w", err)
		}
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) Document() *models.ProgressDocument {
	return s.doc
}

func (s *JSONStore) Save() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return s.save()
}

func (s *JSONStore) Replace(doc *models.ProgressDocument) error {
	if doc == nil {
		return fmt.Errorf("cannot replace storage with a nil document")
	}
	doc.Normalize()
	s.doc = doc
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// isCurrentVersion reports whether raw bytes already carry the current
// schema version tag.
func isCurrentVersion(data []byte) bool {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Version == models.CurrentVersion
}
