package permissions

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/domain"
	"github.com/brightlane/school-cms/internal/users"
)

type fakeResource struct {
	users   []uuid.UUID
	roles   []string
	creator uuid.UUID
}

func (r fakeResource) PermittedUsers() []uuid.UUID { return r.users }
func (r fakeResource) PermittedRoles() []string    { return r.roles }
func (r fakeResource) CreatorID() uuid.UUID        { return r.creator }

func seedUser(t *testing.T, dir *users.MemoryDirectory, role domain.Role, active bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	dir.Put(&users.User{ID: id, Username: string(role) + "-" + id.String()[:8], Role: role, IsActive: active})
	return id
}

func TestEvaluateSuperAdminAllowsEverything(t *testing.T) {
	dir := users.NewMemoryDirectory()
	eval := NewEvaluator(dir)
	admin := seedUser(t, dir, domain.RoleSuperAdmin, true)

	for _, action := range []domain.Action{
		domain.ActionDeletePage, domain.ActionDeleteUser, domain.ActionEditTheme, domain.Action("anything:else"),
	} {
		decision, err := eval.Evaluate(context.Background(), admin, action, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !decision.Allowed {
			t.Fatalf("expected SuperAdmin to be allowed %s, denied: %s", action, decision.Reason)
		}
	}
}

func TestEvaluateUnknownOrInactiveUser(t *testing.T) {
	dir := users.NewMemoryDirectory()
	eval := NewEvaluator(dir)

	decision, err := eval.Evaluate(context.Background(), uuid.New(), domain.ActionViewPage, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed || decision.Reason != ReasonUserNotFound {
		t.Fatalf("expected user-not-found deny, got %+v", decision)
	}

	inactive := seedUser(t, dir, domain.RoleAdmin, false)
	decision, err = eval.Evaluate(context.Background(), inactive, domain.ActionViewPage, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed || decision.Reason != ReasonUserNotFound {
		t.Fatalf("expected inactive deny, got %+v", decision)
	}
}

func TestEvaluateAdminMatrix(t *testing.T) {
	dir := users.NewMemoryDirectory()
	eval := NewEvaluator(dir)
	admin := seedUser(t, dir, domain.RoleAdmin, true)

	decision, err := eval.Evaluate(context.Background(), admin, domain.ActionPublishPage, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected Admin publish allow, got %+v", decision)
	}

	decision, err = eval.Evaluate(context.Background(), admin, domain.Action("drop:database"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed || decision.Reason != ReasonInsufficient {
		t.Fatalf("expected insufficient deny, got %+v", decision)
	}
}

func TestEvaluateEditorPublishIsResourceDependent(t *testing.T) {
	dir := users.NewMemoryDirectory()
	eval := NewEvaluator(dir)
	editor := seedUser(t, dir, domain.RoleEditor, true)

	decision, err := eval.Evaluate(context.Background(), editor, domain.ActionPublishPage, fakeResource{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed || decision.Reason != ReasonEditorPublish {
		t.Fatalf("expected editor publish deny, got %+v", decision)
	}

	granted := fakeResource{users: []uuid.UUID{editor}}
	decision, err = eval.Evaluate(context.Background(), editor, domain.ActionPublishPage, granted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected granted editor publish allow, got %+v", decision)
	}

	// Non-resource actions stay role-gated only.
	decision, err = eval.Evaluate(context.Background(), editor, domain.ActionCreatePage, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected editor create allow, got %+v", decision)
	}

	decision, err = eval.Evaluate(context.Background(), editor, domain.ActionDeletePage, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed {
		t.Fatalf("expected editor delete deny")
	}
}

func TestEvaluateOperatorEditRules(t *testing.T) {
	dir := users.NewMemoryDirectory()
	eval := NewEvaluator(dir)
	operator := seedUser(t, dir, domain.RoleOperator, true)

	cases := []struct {
		name     string
		resource Resource
		allowed  bool
	}{
		{"no resource", nil, false},
		{"no grants", fakeResource{}, false},
		{"user grant", fakeResource{users: []uuid.UUID{operator}}, true},
		{"role grant", fakeResource{roles: []string{"Operator"}}, true},
		{"creator", fakeResource{creator: operator}, true},
	}

	for _, tc := range cases {
		decision, err := eval.Evaluate(context.Background(), operator, domain.ActionEditPage, tc.resource)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if decision.Allowed != tc.allowed {
			t.Fatalf("%s: expected allowed=%v, got %+v", tc.name, tc.allowed, decision)
		}
		if !tc.allowed && decision.Reason != ReasonOperatorEdit {
			t.Fatalf("%s: expected operator edit reason, got %q", tc.name, decision.Reason)
		}
	}

	// Operators never create or publish.
	decision, err := eval.Evaluate(context.Background(), operator, domain.ActionCreatePage, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Allowed {
		t.Fatalf("expected operator create deny")
	}
}

func TestCanPublish(t *testing.T) {
	dir := users.NewMemoryDirectory()
	eval := NewEvaluator(dir)

	admin := seedUser(t, dir, domain.RoleAdmin, true)
	editor := seedUser(t, dir, domain.RoleEditor, true)
	operator := seedUser(t, dir, domain.RoleOperator, true)

	ok, err := eval.CanPublish(context.Background(), admin, nil)
	if err != nil || !ok {
		t.Fatalf("expected admin publish, got ok=%v err=%v", ok, err)
	}

	ok, err = eval.CanPublish(context.Background(), editor, nil)
	if err != nil || ok {
		t.Fatalf("expected editor without grant to be refused, got ok=%v err=%v", ok, err)
	}

	ok, err = eval.CanPublish(context.Background(), editor, fakeResource{users: []uuid.UUID{editor}})
	if err != nil || !ok {
		t.Fatalf("expected granted editor publish, got ok=%v err=%v", ok, err)
	}

	ok, err = eval.CanPublish(context.Background(), operator, fakeResource{users: []uuid.UUID{operator}})
	if err != nil || ok {
		t.Fatalf("expected operator publish refusal, got ok=%v err=%v", ok, err)
	}
}

func TestCanDelete(t *testing.T) {
	dir := users.NewMemoryDirectory()
	eval := NewEvaluator(dir)

	admin := seedUser(t, dir, domain.RoleAdmin, true)
	editor := seedUser(t, dir, domain.RoleEditor, true)

	ok, err := eval.CanDelete(context.Background(), admin)
	if err != nil || !ok {
		t.Fatalf("expected admin delete, got ok=%v err=%v", ok, err)
	}
	ok, err = eval.CanDelete(context.Background(), editor)
	if err != nil || ok {
		t.Fatalf("expected editor delete refusal, got ok=%v err=%v", ok, err)
	}
}
