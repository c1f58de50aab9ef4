package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// FileStore abstracts the media storage collaborator. The core never reads
// bytes back; it only places returned URLs into block props or page metadata.
type FileStore interface {
	// Store persists a binary blob tagged with a semantic kind (e.g. "image",
	// "og-image") and returns a stable URL for it.
	Store(ctx context.Context, kind string, name string, data []byte) (url string, err error)
}

// UserRecord is the narrow view of a user the permission evaluator consumes.
type UserRecord struct {
	ID       uuid.UUID
	Role     string
	IsActive bool
}

// UserDirectory resolves user identities to their role and activation state.
// Authentication (credential verification, token issuance) happens upstream;
// the core only ever sees resolved user ids.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserRecord, error)
}
