package users

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunDirectory is a bun-backed user directory.
type BunDirectory struct {
	repo repository.Repository[*User]
}

// NewBunDirectory constructs a user directory over the supplied database.
func NewBunDirectory(db *bun.DB) *BunDirectory {
	return NewBunDirectoryWithCache(db, nil, nil)
}

// NewBunDirectoryWithCache constructs a user directory with optional read-through caching.
func NewBunDirectoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunDirectory {
	base := newUserRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunDirectory{repo: base}
}

// FindByID retrieves a user by identifier.
func (d *BunDirectory) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record, err := d.repo.GetByID(ctx, id.String())
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("user repository error: %w", err)
	}
	return record, nil
}

// Create inserts a user record. Exposed for seeding and fixtures; account
// management proper is an upstream concern.
func (d *BunDirectory) Create(ctx context.Context, record *User) (*User, error) {
	return d.repo.Create(ctx, record)
}

func newUserRepository(db *bun.DB) repository.Repository[*User] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			u.ID = id
		},
		GetIdentifier: func() string {
			return "username"
		},
		GetIdentifierValue: func(u *User) string {
			return u.Username
		},
	})
}
