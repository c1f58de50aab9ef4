package users

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/brightlane/school-cms/internal/domain"
)

var ErrUserNotFound = errors.New("users: user not found")

// User is an account known to the CMS. Password handling and token issuance
// live upstream; the core only consumes the role and activation state.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	Username  string      `bun:"username,notnull,unique" json:"username"`
	FullName  string      `bun:"full_name" json:"full_name,omitempty"`
	Email     string      `bun:"email" json:"email,omitempty"`
	Role      domain.Role `bun:"role,notnull" json:"role"`
	IsActive  bool        `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// NotFoundError reports a missing user lookup.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	if e == nil || e.ID == uuid.Nil {
		return ErrUserNotFound.Error()
	}
	return fmt.Sprintf("%s: id=%s", ErrUserNotFound.Error(), e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrUserNotFound
}

// Directory resolves user identities for permission evaluation.
type Directory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// MemoryDirectory is an in-memory user store for scaffolding/tests.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
}

// NewMemoryDirectory constructs the directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{users: make(map[uuid.UUID]*User)}
}

// Put inserts or replaces a user record.
func (m *MemoryDirectory) Put(user *User) {
	if user == nil || user.ID == uuid.Nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cloned := *user
	m.users[user.ID] = &cloned
}

// FindByID retrieves a user by identifier.
func (m *MemoryDirectory) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	cloned := *user
	return &cloned, nil
}
