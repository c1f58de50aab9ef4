package pages

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository is a bun-backed page repository with optional read-through
// caching.
type BunRepository struct {
	repo         repository.Repository[*Page]
	cacheService cache.CacheService
	cachePrefix  string
}

const pageNamespace = "page"

// NewBunRepository creates a page repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a page repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := newPageRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(pageNamespace)
	}
	return &BunRepository{repo: base, cacheService: svc, cachePrefix: prefix}
}

func (r *BunRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return record, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Page) (*Page, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Page{ID: id})
}

func (r *BunRepository) List(ctx context.Context, filter ListFilter) ([]*Page, int, error) {
	processor := repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		if filter.Status != "" {
			q = q.Where("?TableAlias.status = ?", string(filter.Status))
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			needle := "%" + strings.ToLower(search) + "%"
			q = q.Where("(LOWER(?TableAlias.title) LIKE ? OR LOWER(?TableAlias.slug) LIKE ?)", needle, needle)
		}
		return q.OrderExpr("?TableAlias.created_at DESC, ?TableAlias.slug ASC")
	})

	if filter.Limit > 0 {
		records, total, err := r.repo.List(ctx, processor, repository.SelectPaginate(filter.Limit, filter.Offset))
		if err != nil {
			return nil, 0, err
		}
		return records, total, nil
	}

	records, total, err := r.repo.List(ctx, processor)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// InvalidateCache drops every cached page entry.
func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunRevisionStore is the bun-backed snapshot log behind page history.
type BunRevisionStore struct {
	repo repository.Repository[*Revision]
}

// NewBunRevisionStore creates a revision store over the supplied database.
func NewBunRevisionStore(db *bun.DB) *BunRevisionStore {
	return &BunRevisionStore{repo: newRevisionRepository(db)}
}

func (s *BunRevisionStore) Append(ctx context.Context, record *Revision) (*Revision, error) {
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *BunRevisionStore) GetByID(ctx context.Context, id uuid.UUID) (*Revision, error) {
	record, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &RevisionNotFoundError{RevisionID: id}
		}
		return nil, fmt.Errorf("revision repository error: %w", err)
	}
	return record, nil
}

func (s *BunRevisionStore) ListByPage(ctx context.Context, pageID uuid.UUID) ([]*Revision, error) {
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.page_id = ?", pageID).
				OrderExpr("?TableAlias.version DESC, ?TableAlias.created_at DESC")
		}),
	)
	return records, err
}

func (s *BunRevisionStore) DeleteByPage(ctx context.Context, pageID uuid.UUID) error {
	revisions, err := s.ListByPage(ctx, pageID)
	if err != nil {
		return err
	}
	for _, revision := range revisions {
		if err := s.repo.Delete(ctx, revision); err != nil {
			return err
		}
	}
	return nil
}

func newPageRepository(db *bun.DB) repository.Repository[*Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord: func() *Page { return &Page{} },
		GetID: func(p *Page) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Page, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Page) string {
			return p.Slug
		},
	})
}

func newRevisionRepository(db *bun.DB) repository.Repository[*Revision] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Revision]{
		NewRecord: func() *Revision { return &Revision{} },
		GetID: func(rev *Revision) uuid.UUID {
			return rev.ID
		},
		SetID: func(rev *Revision, id uuid.UUID) {
			rev.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*Revision) string {
			return ""
		},
	})
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &PageNotFoundError{Key: key}
	}
	return fmt.Errorf("page repository error: %w", err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
