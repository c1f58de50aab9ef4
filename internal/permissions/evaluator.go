package permissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/domain"
	"github.com/brightlane/school-cms/internal/logging"
	"github.com/brightlane/school-cms/internal/users"
	"github.com/brightlane/school-cms/pkg/interfaces"
)

// Deny reasons surfaced to callers and API clients.
const (
	ReasonUserNotFound  = "User not found or inactive"
	ReasonEditorPublish = "Editor cannot publish pages without explicit permission"
	ReasonOperatorEdit  = "No permission to edit this page"
	ReasonInsufficient  = "Insufficient permissions"
)

// Resource is the per-object permission surface a page exposes. Evaluation
// only needs the explicit grants and the creator, never the full page.
type Resource interface {
	PermittedUsers() []uuid.UUID
	PermittedRoles() []string
	CreatorID() uuid.UUID
}

// Decision is the outcome of a permission check. Reason is set only on deny.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Evaluator resolves (user, action, resource) against the static role matrix
// plus per-page grants. It holds no state beyond the user directory.
type Evaluator struct {
	directory users.Directory
	logger    interfaces.Logger
}

// EvaluatorOption configures the evaluator.
type EvaluatorOption func(*Evaluator)

// WithLogger overrides the evaluator logger.
func WithLogger(logger interfaces.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEvaluator constructs an evaluator over the given user directory.
func NewEvaluator(directory users.Directory, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		directory: directory,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var adminActions = []domain.Action{
	domain.ActionCreatePage, domain.ActionEditPage, domain.ActionDeletePage, domain.ActionPublishPage,
	domain.ActionCreateMedia, domain.ActionEditMedia, domain.ActionDeleteMedia,
	domain.ActionCreateMenu, domain.ActionEditMenu, domain.ActionDeleteMenu,
	domain.ActionCreateUser, domain.ActionEditUser, domain.ActionDeleteUser,
	domain.ActionEditTheme, domain.ActionViewSettings,
}

var editorActions = []domain.Action{
	domain.ActionCreatePage, domain.ActionEditPage, domain.ActionViewPage, domain.ActionPublishPage,
	domain.ActionCreateMedia, domain.ActionEditMedia, domain.ActionViewMedia,
	domain.ActionViewMenu,
}

var operatorActions = []domain.Action{
	domain.ActionViewPage, domain.ActionEditPage,
	domain.ActionViewMedia,
}

// Evaluate decides whether the user may perform action, optionally scoped to
// a resource. A nil resource means the action is checked against the role
// matrix alone; resource-dependent rules then deny by default.
func (e *Evaluator) Evaluate(ctx context.Context, userID uuid.UUID, action domain.Action, resource Resource) (Decision, error) {
	user, err := e.resolveActiveUser(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	if user == nil {
		return deny(ReasonUserNotFound), nil
	}

	decision := e.evaluateRole(user, action, resource)
	if !decision.Allowed {
		e.logger.Debug("permission denied",
			"user_id", userID.String(),
			"role", string(user.Role),
			"action", string(action),
			"reason", decision.Reason,
		)
	}
	return decision, nil
}

func (e *Evaluator) evaluateRole(user *users.User, action domain.Action, resource Resource) Decision {
	switch user.Role {
	case domain.RoleSuperAdmin:
		return allow()

	case domain.RoleAdmin:
		if containsAction(adminActions, action) {
			return allow()
		}

	case domain.RoleEditor:
		if containsAction(editorActions, action) {
			if action == domain.ActionPublishPage {
				if resourceGrantsUser(resource, user.ID) {
					return allow()
				}
				return deny(ReasonEditorPublish)
			}
			return allow()
		}

	case domain.RoleOperator:
		if containsAction(operatorActions, action) {
			if action == domain.ActionEditPage {
				if e.operatorMayEdit(user, resource) {
					return allow()
				}
				return deny(ReasonOperatorEdit)
			}
			return allow()
		}
	}

	return deny(ReasonInsufficient)
}

func (e *Evaluator) operatorMayEdit(user *users.User, resource Resource) bool {
	if resource == nil {
		return false
	}
	if resourceGrantsUser(resource, user.ID) {
		return true
	}
	for _, role := range resource.PermittedRoles() {
		if parsed, ok := domain.ParseRole(role); ok && parsed == user.Role {
			return true
		}
	}
	return resource.CreatorID() == user.ID
}

// CanPublish reports whether the user may publish, optionally scoped to one
// page. SuperAdmin and Admin always may; an Editor only with an explicit
// per-page user grant; an Operator never.
func (e *Evaluator) CanPublish(ctx context.Context, userID uuid.UUID, resource Resource) (bool, error) {
	user, err := e.resolveActiveUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	switch user.Role {
	case domain.RoleSuperAdmin, domain.RoleAdmin:
		return true, nil
	case domain.RoleEditor:
		return resourceGrantsUser(resource, user.ID), nil
	default:
		return false, nil
	}
}

// CanDelete reports whether the user may hard-delete resources. Reserved for
// SuperAdmin and Admin.
func (e *Evaluator) CanDelete(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := e.resolveActiveUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return user.Role == domain.RoleSuperAdmin || user.Role == domain.RoleAdmin, nil
}

// Role resolves the user's role, or "" when the user is unknown.
func (e *Evaluator) Role(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	user, err := e.resolveActiveUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return user.Role, nil
}

// resolveActiveUser returns nil (without error) when the user is missing or
// deactivated, and an error only for infrastructure failures.
func (e *Evaluator) resolveActiveUser(ctx context.Context, userID uuid.UUID) (*users.User, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	user, err := e.directory.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("permissions: resolving user %s: %w", userID, err)
	}
	if user == nil || !user.IsActive {
		return nil, nil
	}
	return user, nil
}

func containsAction(list []domain.Action, action domain.Action) bool {
	for _, candidate := range list {
		if candidate == action {
			return true
		}
	}
	return false
}

func resourceGrantsUser(resource Resource, userID uuid.UUID) bool {
	if resource == nil {
		return false
	}
	for _, granted := range resource.PermittedUsers() {
		if granted == userID {
			return true
		}
	}
	return false
}
