package storage

import "github.com/trailmark/trailmark/internal/models"

// Provider is a persistent home for the single ProgressDocument. Mutators
// edit the in-memory document and call Save; whole-document writes keep the
// two backends interchangeable.
//
// Providers are not safe for concurrent use, and two processes sharing the
// same path overwrite each other last-write-wins (see the doctor command).
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Document access
	Document() *models.ProgressDocument
	Save() error
	Replace(doc *models.ProgressDocument) error

	// Utils
	GetConfigPath() string
}
