package pages

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory page store for scaffolding/tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	pages     map[uuid.UUID]*Page
	slugIndex map[string]uuid.UUID
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		pages:     make(map[uuid.UUID]*Page),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied page.
func (m *MemoryRepository) Create(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.slugIndex[record.Slug]; ok {
		return nil, &SlugConflictError{Slug: record.Slug, ExistingID: existing}
	}
	copied := record.Clone()
	m.pages[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return copied.Clone(), nil
}

// GetByID retrieves a page by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[id]
	if !ok {
		return nil, &PageNotFoundError{Key: id.String()}
	}
	return page.Clone(), nil
}

// GetBySlug retrieves a page by its exact slug.
func (m *MemoryRepository) GetBySlug(_ context.Context, slug string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &PageNotFoundError{Key: slug}
	}
	return m.pages[id].Clone(), nil
}

// Update replaces the stored page, reindexing its slug if it changed.
func (m *MemoryRepository) Update(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.pages[record.ID]
	if !ok {
		return nil, &PageNotFoundError{Key: record.ID.String()}
	}
	if record.Slug != current.Slug {
		if existing, taken := m.slugIndex[record.Slug]; taken && existing != record.ID {
			return nil, &SlugConflictError{Slug: record.Slug, ExistingID: existing}
		}
		delete(m.slugIndex, current.Slug)
		m.slugIndex[record.Slug] = record.ID
	}
	copied := record.Clone()
	m.pages[copied.ID] = copied
	return copied.Clone(), nil
}

// Delete removes a page.
func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, ok := m.pages[id]
	if !ok {
		return &PageNotFoundError{Key: id.String()}
	}
	delete(m.slugIndex, page.Slug)
	delete(m.pages, id)
	return nil
}

// List returns the filtered window, newest pages first, plus the total count.
func (m *MemoryRepository) List(_ context.Context, filter ListFilter) ([]*Page, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*Page, 0, len(m.pages))
	for _, page := range m.pages {
		if matchesFilter(page, filter) {
			matched = append(matched, page)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Slug < matched[j].Slug
	})

	total := len(matched)
	window := paginate(matched, filter.Offset, filter.Limit)
	out := make([]*Page, len(window))
	for i, page := range window {
		out[i] = page.Clone()
	}
	return out, total, nil
}

func matchesFilter(page *Page, filter ListFilter) bool {
	if filter.Status != "" && page.Status != filter.Status {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		title := strings.ToLower(page.Title)
		slug := strings.ToLower(page.Slug)
		if !strings.Contains(title, search) && !strings.Contains(slug, search) {
			return false
		}
	}
	return true
}

func paginate(list []*Page, offset, limit int) []*Page {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// MemoryRevisionStore is an in-memory snapshot log for scaffolding/tests.
type MemoryRevisionStore struct {
	mu        sync.RWMutex
	revisions map[uuid.UUID]*Revision
	byPage    map[uuid.UUID][]uuid.UUID
}

// NewMemoryRevisionStore constructs the store.
func NewMemoryRevisionStore() *MemoryRevisionStore {
	return &MemoryRevisionStore{
		revisions: make(map[uuid.UUID]*Revision),
		byPage:    make(map[uuid.UUID][]uuid.UUID),
	}
}

// Append persists a new snapshot.
func (m *MemoryRevisionStore) Append(_ context.Context, record *Revision) (*Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := record.Clone()
	m.revisions[copied.ID] = copied
	m.byPage[copied.PageID] = append(m.byPage[copied.PageID], copied.ID)
	return copied.Clone(), nil
}

// GetByID retrieves a single snapshot.
func (m *MemoryRevisionStore) GetByID(_ context.Context, id uuid.UUID) (*Revision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	revision, ok := m.revisions[id]
	if !ok {
		return nil, &RevisionNotFoundError{RevisionID: id}
	}
	return revision.Clone(), nil
}

// ListByPage returns a page's snapshots newest-version-first.
func (m *MemoryRevisionStore) ListByPage(_ context.Context, pageID uuid.UUID) ([]*Revision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.byPage[pageID]
	out := make([]*Revision, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.revisions[id].Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Version != out[j].Version {
			return out[i].Version > out[j].Version
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteByPage removes every snapshot belonging to the page.
func (m *MemoryRevisionStore) DeleteByPage(_ context.Context, pageID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.byPage[pageID] {
		delete(m.revisions, id)
	}
	delete(m.byPage, pageID)
	return nil
}
