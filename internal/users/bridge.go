package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/domain"
	"github.com/brightlane/school-cms/pkg/interfaces"
)

// DirectoryBridge adapts a host-supplied account system to the internal
// Directory contract. Roles the host reports that the CMS does not know
// resolve to an empty role, which holds no grants.
type DirectoryBridge struct {
	external interfaces.UserDirectory
}

// BridgeDirectory wraps an external user directory so it can back the
// permission evaluator.
func BridgeDirectory(external interfaces.UserDirectory) *DirectoryBridge {
	return &DirectoryBridge{external: external}
}

// FindByID resolves the external record into the internal account shape.
func (b *DirectoryBridge) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if b == nil || b.external == nil {
		return nil, &NotFoundError{ID: id}
	}
	record, err := b.external.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &NotFoundError{ID: id}
	}
	role, _ := domain.ParseRole(record.Role)
	return &User{ID: record.ID, Role: role, IsActive: record.IsActive}, nil
}
