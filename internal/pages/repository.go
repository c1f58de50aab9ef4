package pages

import (
	"context"

	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/domain"
)

// ListFilter narrows and paginates a page listing.
type ListFilter struct {
	// Status filters exactly when set; empty matches every status.
	Status domain.Status
	// Search is a case-insensitive substring match over title and slug.
	Search string
	Offset int
	Limit  int
}

// Repository is the persistence boundary for pages.
type Repository interface {
	Create(ctx context.Context, record *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	Update(ctx context.Context, record *Page) (*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns the filtered window plus the total match count.
	List(ctx context.Context, filter ListFilter) ([]*Page, int, error)
}

// RevisionStore is the append-only snapshot log behind page history.
type RevisionStore interface {
	Append(ctx context.Context, record *Revision) (*Revision, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Revision, error)
	// ListByPage returns snapshots newest-version-first.
	ListByPage(ctx context.Context, pageID uuid.UUID) ([]*Revision, error)
	DeleteByPage(ctx context.Context, pageID uuid.UUID) error
}
