package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/domain"
	"github.com/brightlane/school-cms/pkg/interfaces"
)

func TestMemoryDirectoryLookup(t *testing.T) {
	directory := NewMemoryDirectory()
	id := uuid.New()
	directory.Put(&User{ID: id, Username: "teacher", Role: domain.RoleEditor, IsActive: true})

	found, err := directory.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found.Username != "teacher" || found.Role != domain.RoleEditor {
		t.Fatalf("unexpected record: %+v", found)
	}

	// Returned records are copies; callers cannot mutate the store.
	found.Role = domain.RoleAdmin
	again, _ := directory.FindByID(context.Background(), id)
	if again.Role != domain.RoleEditor {
		t.Fatalf("store mutated through returned record")
	}
}

type stubExternalDirectory struct {
	records map[uuid.UUID]*interfaces.UserRecord
}

func (s *stubExternalDirectory) FindByID(_ context.Context, id uuid.UUID) (*interfaces.UserRecord, error) {
	record, ok := s.records[id]
	if !ok {
		return nil, errors.New("external: no such account")
	}
	return record, nil
}

func TestBridgeDirectoryMapsExternalRecords(t *testing.T) {
	id := uuid.New()
	bridge := BridgeDirectory(&stubExternalDirectory{records: map[uuid.UUID]*interfaces.UserRecord{
		id: {ID: id, Role: "editor", IsActive: true},
	}})

	user, err := bridge.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("bridge lookup failed: %v", err)
	}
	if user.Role != domain.RoleEditor || !user.IsActive {
		t.Fatalf("unexpected mapped record: %+v", user)
	}

	if _, err := bridge.FindByID(context.Background(), uuid.New()); err == nil {
		t.Fatalf("expected external error to pass through")
	}
}

func TestBridgeDirectoryUnknownRoleHasNoGrants(t *testing.T) {
	id := uuid.New()
	bridge := BridgeDirectory(&stubExternalDirectory{records: map[uuid.UUID]*interfaces.UserRecord{
		id: {ID: id, Role: "wizard", IsActive: true},
	}})

	user, err := bridge.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("bridge lookup failed: %v", err)
	}
	if user.Role != "" {
		t.Fatalf("unknown role must resolve empty, got %q", user.Role)
	}
}

func TestMemoryDirectoryNotFound(t *testing.T) {
	directory := NewMemoryDirectory()

	_, err := directory.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected not-found sentinel, got %v", err)
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected typed not-found error, got %T", err)
	}
}
