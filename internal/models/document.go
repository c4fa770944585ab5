package models

import "time"

// Document is read-only to the engine.
type Document struct {
	ID          DocumentID
	OrgID       OrgID
	StorageKey  string
	DisplayName string
	Pages       int
	IsTarget    bool
	ExpiresAt   *time.Time
}
