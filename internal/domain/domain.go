package domain

import "strings"

// Status represents lifecycle states for pages.
type Status string

const (
	// StatusDraft indicates a page still under preparation.
	StatusDraft Status = "draft"
	// StatusPublished identifies a page available to the public site.
	StatusPublished Status = "published"
	// StatusScheduled marks a page with a future publish time configured.
	StatusScheduled Status = "scheduled"
	// StatusArchived marks a page retained for history but not publicly visible.
	StatusArchived Status = "archived"
)

// ParseStatus normalizes a raw status value, defaulting to draft.
func ParseStatus(value string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusPublished:
		return StatusPublished
	case StatusScheduled:
		return StatusScheduled
	case StatusArchived:
		return StatusArchived
	default:
		return StatusDraft
	}
}

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusScheduled, StatusArchived:
		return true
	}
	return false
}

// Role is the capability level assigned to a user. Each user holds exactly
// one role; there is no multi-role composition.
type Role string

const (
	RoleSuperAdmin Role = "SuperAdmin"
	RoleAdmin      Role = "Admin"
	RoleEditor     Role = "Editor"
	RoleOperator   Role = "Operator"
)

// ParseRole resolves a raw role name, case-insensitively.
func ParseRole(value string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "superadmin":
		return RoleSuperAdmin, true
	case "admin":
		return RoleAdmin, true
	case "editor":
		return RoleEditor, true
	case "operator":
		return RoleOperator, true
	}
	return "", false
}

// Action is a namespaced permission token of the form "verb:noun".
type Action string

const (
	ActionCreatePage  Action = "create:page"
	ActionEditPage    Action = "edit:page"
	ActionDeletePage  Action = "delete:page"
	ActionPublishPage Action = "publish:page"
	ActionViewPage    Action = "view:page"

	ActionCreateMedia Action = "create:media"
	ActionEditMedia   Action = "edit:media"
	ActionDeleteMedia Action = "delete:media"
	ActionViewMedia   Action = "view:media"

	ActionCreateMenu Action = "create:menu"
	ActionEditMenu   Action = "edit:menu"
	ActionDeleteMenu Action = "delete:menu"
	ActionViewMenu   Action = "view:menu"

	ActionCreateUser Action = "create:user"
	ActionEditUser   Action = "edit:user"
	ActionDeleteUser Action = "delete:user"

	ActionEditTheme    Action = "edit:theme"
	ActionViewSettings Action = "view:settings"
)

// Verb returns the action's verb segment, or "" when malformed.
func (a Action) Verb() string {
	parts := strings.SplitN(string(a), ":", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[0]
}

// Noun returns the action's noun segment, or "" when malformed.
func (a Action) Noun() string {
	parts := strings.SplitN(string(a), ":", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
